package main

import (
	"fmt"
	"os"

	"github.com/jayjaytrn/grocemate/config"
	"github.com/jayjaytrn/grocemate/internal/auth"
	"github.com/jayjaytrn/grocemate/internal/db"
	"github.com/jayjaytrn/grocemate/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	logger := logging.GetSugaredLogger()
	defer logger.Sync()

	if err := newRootCmd(logger).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger *zap.SugaredLogger) *cobra.Command {
	root := &cobra.Command{
		Use:           "grocectl",
		Short:         "Administrative tasks for the GroceMate backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newMigrateCmd(logger),
		newCreateAdminCmd(logger),
		newFeatureProductsCmd(logger),
		newLoginCmd(logger),
		newOrdersCmd(logger),
	)
	return root
}

func newMigrateCmd(logger *zap.SugaredLogger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			conn, err := db.Open(cfg.DatabaseURI)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err = db.Migrate(conn, cfg.MigrationsDir); err != nil {
				return err
			}
			logger.Infow("migrations applied", "dir", cfg.MigrationsDir)
			return nil
		},
	}
}

func newCreateAdminCmd(logger *zap.SugaredLogger) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account unless it already exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if email == "" {
				email = cfg.AdminEmail
			}
			if password == "" {
				password = cfg.AdminPassword
			}

			manager, err := db.NewManager(cfg.DatabaseURI, cfg.MigrationsDir)
			if err != nil {
				return err
			}
			defer manager.Close()

			created, err := auth.EnsureAdmin(cmd.Context(), manager, name, email, password)
			if err != nil {
				return err
			}
			if created {
				logger.Infow("admin created", "email", email)
			} else {
				logger.Infow("admin already exists", "email", email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Admin", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email (defaults to ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "password (defaults to ADMIN_PASSWORD)")
	return cmd
}

func newFeatureProductsCmd(logger *zap.SugaredLogger) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "feature-products",
		Short: "Mark the oldest products as featured on the homepage",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be positive, got %d", count)
			}

			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			manager, err := db.NewManager(cfg.DatabaseURI, cfg.MigrationsDir)
			if err != nil {
				return err
			}
			defer manager.Close()

			n, err := manager.MarkFeatured(cmd.Context(), count)
			if err != nil {
				return err
			}
			logger.Infow("products featured", "count", n)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 3, "number of products to feature")
	return cmd
}
