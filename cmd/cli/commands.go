package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"artisan/internal/config"
	"artisan/internal/metrics"
	"artisan/internal/repositories"
	"artisan/internal/services"
	"artisan/internal/validators"
	"artisan/pkg/database"
	"artisan/pkg/logger"

	"github.com/spf13/cobra"
)

const commandTimeout = 30 * time.Second

// env is the configuration and store shared by the data commands.
type env struct {
	cfg   *config.Config
	log   *logger.Logger
	store *repositories.Store
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.NewLogger(&logger.Config{
		Level:   logger.LogLevel(cfg.Log.Level),
		Format:  "text",
		Output:  "stderr",
		AppName: cfg.App.Name,
		Version: Version,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver == config.DriverMemory {
		return nil, errors.New("DB_DRIVER=memory has no persistent data to operate on")
	}
	store, err := repositories.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, store: store}, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func migrateCmd() *cobra.Command {
	var (
		down   int
		status bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply MongoDB index migrations",
		Long: `Apply pending MongoDB index migrations.

Examples:
  artisan migrate
  artisan migrate --status
  artisan migrate --down 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := repositories.ConnectMongo(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			migrator := database.NewMigrator(db.Database, logger.NewNop())
			out := cmd.OutOrStdout()

			switch {
			case status:
			case cmd.Flags().Changed("down"):
				if err := migrator.Down(ctx, down); err != nil {
					return err
				}
			default:
				if err := migrator.Up(ctx); err != nil {
					return err
				}
			}

			current, err := migrator.CurrentVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "schema version %d (latest %d)\n", current, migrator.Latest())
			return nil
		},
	}

	cmd.Flags().IntVar(&down, "down", 0, "revert migrations above this version")
	cmd.Flags().BoolVar(&status, "status", false, "print the current version without migrating")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for BLOG_ADMIN_PASSWORD_HASH",
		Long:  "Print a bcrypt hash for BLOG_ADMIN_PASSWORD_HASH. Without an argument the password is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := services.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func couponCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coupon",
		Short: "Inspect and issue coupons",
	}

	var discount int
	issue := &cobra.Command{
		Use:   "issue <email>",
		Short: "Issue a coupon for an email, or print the existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.store.Close()

			coupons := services.NewCouponService(e.store.Coupons, e.cfg.Shop, metrics.New(), e.log)
			coupon, err := coupons.CreateCoupon(ctx, args[0], discount)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), coupon)
		},
	}
	issue.Flags().IntVar(&discount, "discount", 0, "discount percentage (default from COUPON_DISCOUNT_PERCENT)")

	var email string
	check := &cobra.Command{
		Use:   "check <code>",
		Short: "Report whether a coupon code can still be used",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.store.Close()

			coupons := services.NewCouponService(e.store.Coupons, e.cfg.Shop, metrics.New(), e.log)
			coupon, err := coupons.ValidateCoupon(ctx, args[0], email)
			if err != nil {
				if services.IsCouponError(err) {
					fmt.Fprintf(cmd.OutOrStdout(), "invalid: %s\n", err)
					return nil
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid: %s (%d%%) for %s\n", coupon.Code, coupon.DiscountPercent, coupon.Email)
			return nil
		},
	}
	check.Flags().StringVar(&email, "email", "", "email the coupon must belong to")

	cmd.AddCommand(issue, check)
	return cmd
}

func orderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Inspect and update orders",
	}

	var req validators.OrderStatusUpdateRequest
	status := &cobra.Command{
		Use:   "status <order_number>",
		Short: "Show an order, or update it when flags are given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.store.Close()

			orders := services.NewOrderService(e.store.Orders, e.store.Subscriptions, e.log)
			number := strings.ToUpper(args[0])

			if req.OrderStatus == "" && req.PaymentStatus == "" && req.AdminNotes == "" {
				order, err := orders.GetOrder(ctx, number)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), order)
			}

			if errs := validators.ValidateOrderStatusUpdate(&req); len(errs) > 0 {
				return errs
			}
			order, err := orders.UpdateOrderStatus(ctx, number, &req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), order)
		},
	}
	status.Flags().StringVar(&req.OrderStatus, "order-status", "", "processing, shipped, delivered or cancelled")
	status.Flags().StringVar(&req.PaymentStatus, "payment-status", "", "failed or refunded")
	status.Flags().StringVar(&req.AdminNotes, "notes", "", "operator notes")

	cmd.AddCommand(status)
	return cmd
}
