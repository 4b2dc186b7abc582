package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mafqood/internal/backend"
	"mafqood/internal/session"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(store *session.Store) error {
				client, err := ctx.newClient(nil)
				if err != nil {
					return err
				}
				result, err := client.Login(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				err = store.Save(cmd.Context(), session.Session{
					Token:  result.Token,
					UserID: result.User.ID,
					Name:   result.User.FullName,
					Email:  result.User.Email,
				})
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return printJSON(cmd.OutOrStdout(), authJSON{User: result.User.Email, UserID: result.User.ID})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", result.User.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCommand(ctx *commandContext) *cobra.Command {
	var fullName string
	var email string
	var password string
	var phone string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(store *session.Store) error {
				client, err := ctx.newClient(nil)
				if err != nil {
					return err
				}
				result, err := client.Register(cmd.Context(), fullName, email, password, phone)
				if err != nil {
					return err
				}
				err = store.Save(cmd.Context(), session.Session{
					Token:  result.Token,
					UserID: result.User.ID,
					Name:   result.User.FullName,
					Email:  result.User.Email,
				})
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return printJSON(cmd.OutOrStdout(), authJSON{User: result.User.Email, UserID: result.User.ID})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", result.User.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&fullName, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number (optional)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(store *session.Store) error {
				client, err := ctx.newClient(store)
				if err != nil {
					return err
				}
				// Best effort: the local session is cleared even when the
				// server-side revoke fails.
				if err := client.Logout(cmd.Context()); err != nil {
					ctx.ensureLogger().Warn("server-side logout failed", "error", err)
				}
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func newForgotPasswordCommand(ctx *commandContext) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset email",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.newClient(nil)
			if err != nil {
				return err
			}
			message, err := client.ForgotPassword(cmd.Context(), email)
			if err != nil {
				return err
			}
			if message == "" {
				message = "Password reset requested"
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

type authJSON struct {
	User   string `json:"user"`
	UserID string `json:"user_id"`
}

var _ backend.TokenSource = (*session.Store)(nil)
