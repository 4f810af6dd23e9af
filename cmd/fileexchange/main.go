package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"file-exchange-api/internal"
	"file-exchange-api/internal/application/ports"
	"file-exchange-api/internal/application/services"
	"file-exchange-api/internal/interface/api/rest/dto/auth"
	"file-exchange-api/internal/interface/api/rest/validator"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fileexchange: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "fileexchange",
		Short:        "Role-gated file exchange service",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newCreateOpsUserCmd(),
		newPruneTokensCmd(),
		newConsumeEventsCmd(),
	)
	return cmd
}

// withApp opens the app for one command and always closes it.
func withApp(ctx context.Context, fn func(app *internal.App) error) error {
	app, err := internal.NewApp(ctx)
	if err != nil {
		return fmt.Errorf("init app failed: %w", err)
	}
	defer app.Close()

	return fn(app)
}

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withApp(ctx, func(app *internal.App) error {
				if migrate {
					if err := app.Migrate(ctx); err != nil {
						return err
					}
				}
				if err := app.InitControllers(ctx); err != nil {
					return err
				}
				return app.Run(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply database migrations before serving")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withApp(ctx, func(app *internal.App) error {
				return app.Migrate(ctx)
			})
		},
	}
}

func newCreateOpsUserCmd() *cobra.Command {
	var req auth.SignupRequest
	cmd := &cobra.Command{
		Use:   "create-ops-user",
		Short: "Create an operations user if the username is free",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req = validator.Normalize(req)
			if errs := validator.ValidateSignup(req); errs != nil {
				return fmt.Errorf("invalid operations user: %v", errs)
			}
			in := ports.NewUser{Username: req.Username, Email: req.Email, Password: req.Password}

			ctx := cmd.Context()
			return withApp(ctx, func(app *internal.App) error {
				u, err := app.CreateOpsUser(ctx, in)
				switch {
				case errors.Is(err, services.ErrUsernameTaken):
					app.Logger().Info("operations user already exists", zap.String("username", in.Username))
					return nil
				case err != nil:
					return err
				}

				app.Logger().Info("operations user created", zap.Int64("id", int64(u.ID)), zap.String("username", u.Username))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "admin", "Username of the operations user")
	cmd.Flags().StringVar(&req.Email, "email", "admin@example.com", "Email of the operations user")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password of the operations user")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newPruneTokensCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune-tokens",
		Short: "Delete used or expired download tokens and expired sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan < 0 {
				return fmt.Errorf("--older-than must not be negative")
			}
			ctx := cmd.Context()
			return withApp(ctx, func(app *internal.App) error {
				tokens, sessions, err := app.PruneTokens(ctx, olderThan)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d download tokens and %d sessions\n", tokens, sessions)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 720*time.Hour, "Keep tokens for this long past their expiry")
	return cmd
}

func newConsumeEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume-events",
		Short: "Log domain events from RabbitMQ until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withApp(ctx, func(app *internal.App) error {
				return app.ConsumeEvents(ctx)
			})
		},
	}
}
