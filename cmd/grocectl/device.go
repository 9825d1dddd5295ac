package main

import (
	"encoding/json"
	"os"

	"github.com/jayjaytrn/grocemate/internal/client"
	"github.com/jayjaytrn/grocemate/internal/localcache"
	"github.com/jayjaytrn/grocemate/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type deviceFlags struct {
	server string
	store  string
}

func (f *deviceFlags) bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.server, "server", "http://localhost:5000", "API base URL")
	cmd.PersistentFlags().StringVar(&f.store, "store", "grocemate-device.db", "device storage file")
}

// open returns a client backed by the device store; the caller closes the store.
func (f *deviceFlags) open(logger *zap.SugaredLogger) (*client.Client, *localcache.SQLiteStorage, error) {
	storage, err := localcache.OpenSQLite(f.store)
	if err != nil {
		return nil, nil, err
	}
	return client.New(f.server, storage, logger), storage, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLoginCmd(logger *zap.SugaredLogger) *cobra.Command {
	var (
		flags           deviceFlags
		email, password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as an admin and remember the session on this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, storage, err := flags.open(logger)
			if err != nil {
				return err
			}
			defer storage.Close()

			resp, err := c.Login(cmd.Context(), email, password, models.RoleAdmin)
			if err != nil {
				return err
			}
			logger.Infow("signed in", "email", resp.User.Email)
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

// newOrdersCmd manages orders through the API, or through the device
// cache when the server is unreachable.
func newOrdersCmd(logger *zap.SugaredLogger) *cobra.Command {
	var flags deviceFlags

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, show and update orders",
	}
	flags.bind(cmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, storage, err := flags.open(logger)
			if err != nil {
				return err
			}
			defer storage.Close()

			list, err := c.AdminOrders(cmd.Context()).List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(list)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id-or-order-number>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, storage, err := flags.open(logger)
			if err != nil {
				return err
			}
			defer storage.Close()

			order, err := c.AdminOrders(cmd.Context()).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(order)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-status <id-or-order-number> <status>",
		Short: "Change the delivery status of an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, storage, err := flags.open(logger)
			if err != nil {
				return err
			}
			defer storage.Close()

			order, err := c.AdminOrders(cmd.Context()).UpdateStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(order)
		},
	})

	return cmd
}
