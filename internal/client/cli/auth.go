package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/tasktracker/internal/client/storage"
	"github.com/iudanet/tasktracker/pkg/api"
)

func newRegisterCommand(run runner) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register new user",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
			c.io.Println("=== Registration ===")

			var err error
			if username == "" {
				if username, err = c.io.ReadInput("Username: "); err != nil {
					return fmt.Errorf("failed to read username: %w", err)
				}
			}
			if email == "" {
				if email, err = c.io.ReadInput("Email: "); err != nil {
					return fmt.Errorf("failed to read email: %w", err)
				}
			}

			password, err := c.io.ReadPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			confirm, err := c.io.ReadPassword("Confirm password: ")
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			resp, err := c.apiClient.Register(cmd.Context(), api.RegisterRequest{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			c.io.Println("✓ " + resp.Message)
			c.io.Println("Please run 'tasktracker login' to start using the service.")
			return nil
		}),
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email")
	return cmd
}

func newLoginCommand(run runner) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to server",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
			c.io.Println("=== Login ===")

			// Вход по email, только если он задан флагом
			if username == "" && email == "" {
				var err error
				if username, err = c.io.ReadInput("Username: "); err != nil {
					return fmt.Errorf("failed to read username: %w", err)
				}
			}

			password, err := c.io.ReadPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			resp, err := c.apiClient.Login(cmd.Context(), api.LoginRequest{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			expiresAt, err := tokenExpiry(resp.Token)
			if err != nil {
				return err
			}

			auth := &storage.AuthData{
				Username:  resp.Username,
				Email:     resp.Email,
				Token:     resp.Token,
				ServerURL: c.apiClient.BaseURL(),
				ExpiresAt: expiresAt,
			}
			if err := c.store.SaveAuth(cmd.Context(), auth); err != nil {
				return fmt.Errorf("failed to save auth data: %w", err)
			}
			// Номера из списка другого пользователя больше не действуют
			if err := c.store.SaveTodoIndex(cmd.Context(), nil); err != nil {
				return fmt.Errorf("failed to reset todo list: %w", err)
			}

			c.io.Println("✓ Login successful!")
			c.io.Printf("Username: %s\n", resp.Username)
			if expiresAt != 0 {
				c.io.Printf("Session expires: %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email (used when username is empty)")
	return cmd
}

func newLogoutCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
			if err := c.store.DeleteAuth(cmd.Context()); err != nil {
				if errors.Is(err, storage.ErrAuthNotFound) {
					c.io.Println("Not logged in.")
					return nil
				}
				return fmt.Errorf("logout failed: %w", err)
			}

			c.io.Println("✓ Logged out successfully!")
			return nil
		}),
	}
}

func newStatusCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication and server status",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
			c.io.Println("=== Status ===")
			c.io.Printf("Server: %s", c.apiClient.BaseURL())
			if health, err := c.apiClient.Health(cmd.Context()); err != nil {
				c.io.Printf(" (unreachable: %v)\n", err)
			} else {
				c.io.Printf(" (%s)\n", health.Status)
			}

			auth, err := c.store.GetAuth(cmd.Context())
			if err != nil {
				if errors.Is(err, storage.ErrAuthNotFound) {
					c.io.Println("Status: Not authenticated")
					c.io.Println("Run 'tasktracker login' to authenticate.")
					return nil
				}
				return fmt.Errorf("failed to get auth data: %w", err)
			}

			c.io.Printf("Username: %s\n", auth.Username)
			if auth.Email != "" {
				c.io.Printf("Email: %s\n", auth.Email)
			}

			if auth.ExpiresAt == 0 {
				c.io.Println("Status: Authenticated")
				return nil
			}

			expiresAt := time.Unix(auth.ExpiresAt, 0)
			remaining := expiresAt.Sub(c.now())
			if remaining <= 0 {
				c.io.Println("Status: Session expired")
				c.io.Println("Run 'tasktracker login' to authenticate.")
				return nil
			}

			c.io.Println("Status: Authenticated")
			c.io.Printf("Session expires: %s\n", expiresAt.Format(time.RFC3339))
			c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
			return nil
		}),
	}
}
