package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/innio31/Impact-Digital-Academy-sub022/infra/database"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/domain"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/helper"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/repository"
	"github.com/innio31/Impact-Digital-Academy-sub022/internal/services"
	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and seed roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.openStore(cmd); err != nil {
				return err
			}
			if err := database.Migrate(cmd.Context(), ctx.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migration complete")
			return nil
		},
	}
}

func newStaffCommand(ctx *commandContext) *cobra.Command {
	staff := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff accounts",
	}

	var (
		email     string
		password  string
		firstName string
		lastName  string
		role      string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an active staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := ctx.deps(cmd)
			if err != nil {
				return err
			}
			user, err := deps.Users.CreateStaff(cmd.Context(), email, password, firstName, lastName, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (#%d) with role %s\n", user.Email, user.ID, strings.ToUpper(role))
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "Account email")
	create.Flags().StringVar(&password, "password", "", "Initial password (min 8 characters)")
	create.Flags().StringVar(&firstName, "first-name", "", "First name")
	create.Flags().StringVar(&lastName, "last-name", "", "Last name")
	create.Flags().StringVar(&role, "role", domain.RoleAdmin, "Role code")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	staff.AddCommand(create)
	return staff
}

func newApplicationsCommand(ctx *commandContext) *cobra.Command {
	apps := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "Inspect and review applications",
	}
	apps.AddCommand(newApplicationsListCommand(ctx))
	apps.AddCommand(newApplicationsStatsCommand(ctx))
	apps.AddCommand(newApplicationsReviewCommand(ctx))
	return apps
}

func newApplicationsListCommand(ctx *commandContext) *cobra.Command {
	var (
		status  string
		as      string
		search  string
		page    int
		perPage int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := ctx.deps(cmd)
			if err != nil {
				return err
			}
			resp, err := deps.Applications.List(cmd.Context(), services.ListQuery{
				Status:     status,
				ApplyingAs: as,
				Search:     search,
				Paging:     helper.NewPaging(page, perPage, helper.DefaultPerPage, helper.MaxPerPage),
			})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(resp.Items))
			for _, item := range resp.Items {
				applicant := ""
				if item.Applicant != nil {
					applicant = fmt.Sprintf("%s <%s>", item.Applicant.Name, item.Applicant.Email)
				}
				rows = append(rows, []string{
					strconv.FormatUint(uint64(item.ID), 10),
					applicant,
					item.ApplyingAs,
					item.ProgramName,
					item.Status,
					item.CreatedAt,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Applicant", "As", "Program", "Status", "Submitted"},
				rows,
				[]columnAlignment{alignRight},
			))
			p := resp.Pagination
			fmt.Fprintf(out, "Page %d of %d (%d total)\n", p.Page, p.TotalPages, p.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&as, "as", "", "Filter by applying_as (student|instructor)")
	cmd.Flags().StringVar(&search, "search", "", "Search applicant name or email")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", helper.DefaultPerPage, "Rows per page")
	return cmd
}

func newApplicationsStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count applications by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := ctx.deps(cmd)
			if err != nil {
				return err
			}
			stats, err := deps.Applications.Stats(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(domain.ApplicationStatuses)+1)
			for _, s := range domain.ApplicationStatuses {
				rows = append(rows, []string{string(s), strconv.FormatInt(stats.ByStatus[string(s)], 10)})
			}
			rows = append(rows, []string{"total", strconv.FormatInt(stats.Total, 10)})
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newApplicationsReviewCommand(ctx *commandContext) *cobra.Command {
	var (
		status   string
		reviewer string
		notes    string
	)
	cmd := &cobra.Command{
		Use:   "review <application-id>",
		Short: "Approve or reject an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid application id %q", args[0])
			}
			newStatus, err := services.ParseStatus(status)
			if err != nil {
				return err
			}

			deps, err := ctx.deps(cmd)
			if err != nil {
				return err
			}
			admin, err := ctx.store.Users().FindUserByEmail(cmd.Context(), reviewer)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("reviewer %s not found", reviewer)
				}
				return err
			}
			isAdmin, err := deps.Users.IsAdmin(cmd.Context(), admin.ID)
			if err != nil {
				return err
			}
			if !isAdmin {
				return fmt.Errorf("%s is not an admin", reviewer)
			}

			result, err := deps.Reviews.Review(cmd.Context(), services.ReviewRequest{
				ApplicationID: uint(id),
				Status:        newStatus,
				ReviewerID:    admin.ID,
				Notes:         notes,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Application #%d: %s -> %s\n", result.ApplicationID, result.PreviousStatus, result.Status)
			if result.Enrollment != nil {
				fmt.Fprintf(out, "Enrollment: %s", result.Enrollment.Kind)
				if result.Enrollment.EnrollmentID != 0 {
					fmt.Fprintf(out, " (#%d)", result.Enrollment.EnrollmentID)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "Email sent: %t\n", result.EmailSent)
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "New status (pending|under_review|approved|rejected)")
	cmd.Flags().StringVar(&reviewer, "reviewer", "", "Reviewer email (must be an admin)")
	cmd.Flags().StringVar(&notes, "notes", "", "Review notes")
	_ = cmd.MarkFlagRequired("status")
	_ = cmd.MarkFlagRequired("reviewer")
	return cmd
}
