package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pet-adoption-web/internal/domain/applications"
	"pet-adoption-web/internal/domain/pets"
	"pet-adoption-web/internal/domain/session"
	"pet-adoption-web/internal/tui"
)

var applyCmd = &cobra.Command{
	Use:   "apply <petID>",
	Short: "Fill in an adoption application for a pet (interactive)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newClient()
		if err != nil {
			return err
		}
		auth, u, err := c.login(ctx)
		if err != nil {
			return err
		}
		if g := auth.Guard(session.RoleAdopter); g != session.GuardAllowed {
			return fmt.Errorf("only adopter accounts can apply (%s)", g)
		}

		title := "Adoption application"
		p, err := pets.NewSlice(c.api.Pets, c.log).FetchByID(ctx, args[0])
		switch {
		case errors.Is(err, pets.ErrNotFound):
			return fmt.Errorf("pet %s not found", args[0])
		case err != nil:
			return err
		case !p.Adoptable():
			return fmt.Errorf("%s is not available for adoption (%s)", p.Name, p.Status)
		default:
			title = fmt.Sprintf("Adopt %s, %s", p.Name, u.DisplayName())
		}

		apps := applications.NewSlice(c.api.Applications, c.log)
		model := tui.NewWizardModel(ctx, applications.NewWizard(p.ID), apps, title)

		final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
		if err != nil {
			return err
		}
		wm := final.(tui.WizardModel)
		if app, ok := wm.Submitted(); ok {
			fmt.Fprintln(cmd.OutOrStdout(), tui.Success("Application submitted ("+app.ID+"). The shelter will review it."))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Application not submitted.")
		return nil
	},
}
