package client

import (
	"errors"
	"fmt"

	"github.com/lightningsoon/KeyMinder/internal/adapter"
	"github.com/lightningsoon/KeyMinder/models"
	"github.com/spf13/cobra"
)

func (a *App) registerCommand() *cobra.Command {
	var credentials models.Credentials
	var email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.askUsername(&credentials.Username); err != nil {
				return err
			}
			if email != "" {
				credentials.Email = &email
			}

			password, err := readNewPassword(a.prompter, "Password: ")
			if err != nil {
				return err
			}
			credentials.Password = password

			resp, err := a.server.Register(cmd.Context(), credentials)
			if err != nil {
				return err
			}
			if err = a.session.Save(a.server.Token(), resp.User.Username); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Registered and logged in as %s\n", resp.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&credentials.Username, "username", "u", "", "account name")
	cmd.Flags().StringVar(&email, "email", "", "optional contact address")
	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var credentials models.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.askUsername(&credentials.Username); err != nil {
				return err
			}

			password, err := a.prompter.Password("Password: ")
			if err != nil {
				return err
			}
			credentials.Password = password

			resp, err := a.server.Login(cmd.Context(), credentials)
			if err != nil {
				return err
			}
			if err = a.session.Save(a.server.Token(), resp.User.Username); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Logged in as %s\n", resp.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&credentials.Username, "username", "u", "", "account name")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the session on the server and forget it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.server.Logout(cmd.Context())
			// an expired or missing session is as good as closed
			if err != nil && !errors.Is(err, adapter.ErrUnauthorized) && !errors.Is(err, adapter.ErrNotLoggedIn) {
				return err
			}
			if err = a.session.Remove(); err != nil {
				return err
			}

			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func (a *App) meCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "me",
		Aliases: []string{"whoami"},
		Short:   "Show the logged-in account",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.server.Me(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s %s\n", titleStyle.Render("Username:"), user.Username)
			if user.Email != nil {
				fmt.Fprintf(a.out, "%s %s\n", titleStyle.Render("Email:"), *user.Email)
			}
			fmt.Fprintf(a.out, "%s %s\n", titleStyle.Render("ID:"), user.ID)
			return nil
		},
	}
}

func (a *App) passwdCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the login password",
		Long: `Change the login password.

Entries stay readable: the server re-protects them under the new password.
Other sessions of the account are closed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			oldPassword, err := a.prompter.Password("Current password: ")
			if err != nil {
				return err
			}
			newPassword, err := readNewPassword(a.prompter, "New password: ")
			if err != nil {
				return err
			}

			err = a.server.ChangePassword(cmd.Context(), models.ChangePasswordRequest{
				OldPassword: oldPassword,
				NewPassword: newPassword,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, "Password changed")
			return nil
		},
	}
}

// askUsername prompts for the username unless the flag set it.
func (a *App) askUsername(username *string) error {
	if *username != "" {
		return nil
	}

	value, err := a.prompter.Line("Username: ")
	if err != nil {
		return err
	}
	if value == "" {
		return ErrEmptyInput
	}
	*username = value
	return nil
}
