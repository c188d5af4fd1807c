package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"holou/cmd/fx/config_fx"
	"holou/cmd/fx/db_fx"
	"holou/cmd/fx/plan_fx"
	"holou/internal/services"
	"holou/pkg/logger"
	"holou/pkg/utils"
)

// runWith starts a short-lived container that only builds what fn needs.
func runWith(fn interface{}) error {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		plan_fx.Module,
		fx.NopLogger,
		fx.Invoke(fn),
	)
	if err := app.Err(); err != nil {
		return err
	}
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(ctx)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			// db_fx migrates when it opens the database
			return runWith(func(log *logger.Logger) {
				log.Info("database migrated")
			})
		},
	}
}

func newPlansCmd() *cobra.Command {
	plans := &cobra.Command{Use: "plans", Short: "Moderate learning plans"}

	var status string
	var page, pageSize int
	list := &cobra.Command{
		Use:   "list",
		Short: "List plans, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var listErr error
			err := runWith(func(svc services.PlanServiceInterface) {
				resp, err := svc.ListPlans(cmd.Context(), status, page, pageSize)
				if err != nil {
					listErr = err
					return
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tSTATUS\tSOURCE\tCREATED\tPROJECT")
				for _, p := range resp.Plans {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Status, p.Source, p.CreatedAt, utils.TruncateRunes(p.ProjectDescription, 40))
				}
				_ = w.Flush()
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d plans\n", len(resp.Plans), resp.Total)
			})
			if err != nil {
				return err
			}
			return listErr
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by pending, approved or rejected")
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&pageSize, "page-size", 20, "plans per page (1-100)")

	plans.AddCommand(list,
		planStatusCmd("approve", "approved", func(svc services.PlanServiceInterface, cmd *cobra.Command, id string) error {
			return svc.ApprovePlan(cmd.Context(), id)
		}),
		planStatusCmd("reject", "rejected", func(svc services.PlanServiceInterface, cmd *cobra.Command, id string) error {
			return svc.RejectPlan(cmd.Context(), id)
		}),
	)
	return plans
}

func planStatusCmd(use, done string, apply func(services.PlanServiceInterface, *cobra.Command, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <plan-id>",
		Short: "Mark a plan as " + done,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var applyErr error
			err := runWith(func(svc services.PlanServiceInterface) {
				applyErr = apply(svc, cmd, args[0])
			})
			if err != nil {
				return err
			}
			if applyErr != nil {
				return applyErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "plan %s %s\n", args[0], done)
			return nil
		},
	}
}

func newStaffCmd() *cobra.Command {
	staff := &cobra.Command{Use: "staff", Short: "Staff account helpers"}
	staff.AddCommand(&cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for STAFF_PASSWORD_HASH",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			password := strings.TrimRight(line, "\r\n")
			if err != nil && password == "" {
				return fmt.Errorf("read password: %w", err)
			}
			if password == "" {
				return fmt.Errorf("password must not be empty")
			}
			hash, err := utils.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	})
	return staff
}
