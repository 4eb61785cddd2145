package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pet-adoption-web/internal/tui"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check credentials and show the logged-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		_, u, err := c.login(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.Success(fmt.Sprintf("Logged in as %s (%s)", u.DisplayName(), u.Role)))
		return nil
	},
}
