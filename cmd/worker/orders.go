package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/logogen/logogen-backend/config"
	"github.com/logogen/logogen-backend/internal/bootstrap"
	"github.com/logogen/logogen-backend/internal/logging"
)

func openApp(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.Setup(logging.Config{Level: cfg.App.LogLevel, Environment: cfg.App.Environment})
	return bootstrap.NewApp(ctx, cfg, logger)
}

func expireCmd() *cobra.Command {
	var before string

	c := &cobra.Command{
		Use:   "expire",
		Short: "Expire lapsed orders and delete their files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now().UTC()
			if before != "" {
				t, err := time.Parse(time.RFC3339, before)
				if err != nil {
					return fmt.Errorf("--before: %w", err)
				}
				now = t
			}

			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			n, err := app.OrderSvc.ExpireOrders(cmd.Context(), now)
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d orders\n", n)
			return err
		},
	}
	c.Flags().StringVar(&before, "before", "", "Expire orders lapsed before this RFC 3339 time (default now)")
	return c
}

// fulfilCmd replays fulfilment for a paid session whose webhook run failed.
func fulfilCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fulfil <session-id>",
		Short: "Re-run fulfilment for a paid checkout session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			sess, err := app.Payments.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !sess.Paid() {
				return fmt.Errorf("session %s is not paid (%s)", sess.ID, sess.PaymentStatus)
			}
			order, err := app.OrderSvc.Fulfil(cmd.Context(), sess)
			if err != nil {
				return err
			}
			for ft, url := range order.DownloadLinks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ft, url)
			}
			return nil
		},
	}
}
