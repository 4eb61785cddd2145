package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pet-adoption-web/internal/domain/applications"
	"pet-adoption-web/internal/domain/session"
	"pet-adoption-web/internal/tui"
)

var rejectReason string

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "List your applications (shelter accounts see the ones they received)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newClient()
		if err != nil {
			return err
		}
		auth, _, err := c.login(ctx)
		if err != nil {
			return err
		}

		s := applications.NewSlice(c.api.Applications, c.log)
		var list []applications.Application
		if auth.Guard(session.RoleShelter, session.RoleAdmin) == session.GuardAllowed {
			list, err = s.FetchShelterApplications(ctx)
		} else {
			list, err = s.FetchUserApplications(ctx)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.ApplicationsTable(list))
		return nil
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Approve or reject an application (shelter accounts)",
}

var reviewApproveCmd = &cobra.Command{
	Use:   "approve <applicationID>",
	Short: "Approve a pending application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, args[0], applications.StatusUpdate{Status: applications.StatusApproved})
	},
}

var reviewRejectCmd = &cobra.Command{
	Use:   "reject <applicationID>",
	Short: "Reject a pending application (a reason is required)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, args[0], applications.StatusUpdate{Status: applications.StatusRejected, RejectionReason: rejectReason})
	},
}

func runReview(cmd *cobra.Command, id string, u applications.StatusUpdate) error {
	// el motivo se valida antes de cualquier llamada
	if err := u.Validate(); err != nil {
		return err
	}
	ctx := cmd.Context()
	c, err := newClient()
	if err != nil {
		return err
	}
	auth, _, err := c.login(ctx)
	if err != nil {
		return err
	}
	if g := auth.Guard(session.RoleShelter, session.RoleAdmin); g != session.GuardAllowed {
		return fmt.Errorf("only shelter accounts can review applications (%s)", g)
	}

	s := applications.NewSlice(c.api.Applications, c.log)
	// la lista permite rechazar localmente los registros ya revisados
	if _, err := s.FetchShelterApplications(ctx); err != nil {
		return err
	}
	app, err := s.UpdateApplication(ctx, id, u)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tui.Success(fmt.Sprintf("Application %s is now %s", app.ID, tui.StatusLabel(app.Status))))
	return nil
}

func init() {
	reviewRejectCmd.Flags().StringVar(&rejectReason, "reason", "", "rejection reason shown to the adopter")
	reviewCmd.AddCommand(reviewApproveCmd, reviewRejectCmd)
}
