package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/shareledger/internal/adapter/http/dto"
	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/auth"
	"github.com/iho/shareledger/internal/infrastructure/config"
	"github.com/iho/shareledger/internal/infrastructure/logger"
	"github.com/iho/shareledger/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
	token   string
	ownerID string
)

// Swapped in tests.
var (
	runMigrationsUp   = postgres.RunMigrations
	runMigrationsDown = postgres.RunMigrationsDown
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shareledger-cli",
		Short:         "ShareLedger CLI tool",
		Long:          `A command line interface for interacting with the ShareLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ShareLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("SHARELEDGER_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().StringVar(&ownerID, "owner", "", "Owner ID sent as X-Owner-ID when auth is disabled")

	rootCmd.AddCommand(
		bucketsCmd(),
		labelsCmd(),
		incomeCmd(),
		balanceCmd(),
		reconcileCmd(),
		tokenCmd(),
		migrateCmd(),
	)

	return rootCmd
}

func bucketsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buckets",
		Short: "Bucket operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List buckets with balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list dto.BucketListResponse
			if err := doRequest(http.MethodGet, "/api/v1/buckets/", nil, &list); err != nil {
				return err
			}
			printBuckets(cmd.OutOrStdout(), &list)
			return nil
		},
	}

	var (
		name     string
		share    int
		fallback bool
		donor    string
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.CreateBucketRequest{Name: name, SharePercent: share, IsFallback: fallback}
			if donor != "" {
				req.DonorBucketID = &donor
			}

			var bucket dto.BucketResponse
			if err := doRequest(http.MethodPost, "/api/v1/buckets/", req, &bucket); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), bucket)
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Bucket name")
	createCmd.Flags().IntVar(&share, "share", 0, "Share percent (0-100)")
	createCmd.Flags().BoolVar(&fallback, "fallback", false, "Mark as the fallback bucket")
	createCmd.Flags().StringVar(&donor, "donor", "", "Bucket to take missing share from")
	_ = createCmd.MarkFlagRequired("name")

	cmd.AddCommand(listCmd, createCmd)
	return cmd
}

func labelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Expense label operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list dto.LabelListResponse
			if err := doRequest(http.MethodGet, "/api/v1/labels/", nil, &list); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\t")
			for _, l := range list.Labels {
				fmt.Fprintf(tw, "%s\t%s\t\n", l.ID, truncate(l.Name, 32))
			}
			return tw.Flush()
		},
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var label dto.LabelResponse
			if err := doRequest(http.MethodPost, "/api/v1/labels/", dto.LabelRequest{Name: args[0]}, &label); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), label)
		},
	}

	cmd.AddCommand(listCmd, createCmd)
	return cmd
}

func incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Income operations",
	}

	var memo string
	recordCmd := &cobra.Command{
		Use:   "record <amount>",
		Short: "Split an income across buckets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := domain.ParseCents(args[0])
			if err != nil {
				return err
			}

			req := dto.RecordIncomeRequest{Amount: amount.Decimal(), Memo: memo}
			var income dto.IncomeResponse
			if err := doRequest(http.MethodPost, "/api/v1/income/", req, &income); err != nil {
				return err
			}
			printIncome(cmd.OutOrStdout(), &income)
			return nil
		},
	}
	recordCmd.Flags().StringVar(&memo, "memo", "", "Memo")

	cmd.AddCommand(recordCmd)
	return cmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <bucket-id>",
		Short: "Show a bucket balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var balance dto.BucketBalanceResponse
			if err := doRequest(http.MethodGet, "/api/v1/buckets/"+args[0]+"/balance", nil, &balance); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", balance.Name, balance.Balance.StringFixed(2))
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	var latest bool
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/reconciliation"
			if latest {
				path += "/latest"
			}

			var report dto.ReconciliationResponse
			if err := doRequest(http.MethodGet, path, nil, &report); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !report.Consistent {
				fmt.Fprintf(out, "Consistency check FAILED\n")
				for _, d := range report.Discrepancies {
					fmt.Fprintf(out, "  group %s: parent %s, allocations %s\n",
						d.GroupKey, d.ParentAmount.StringFixed(2), d.ChildrenSum.StringFixed(2))
				}
				if !report.ShareWithinLimit {
					fmt.Fprintf(out, "  shares sum to %d%%\n", report.TotalSharePercent)
				}
				return fmt.Errorf("ledger is inconsistent")
			}

			fmt.Fprintf(out, "Consistency check PASSED (%d groups)\n", report.GroupsChecked)
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "Show the last scheduled report instead of running a check")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		email  string
		secret string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <owner-id>",
		Short: "Issue an access token for an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("JWT secret is required (--secret or JWT_SECRET)")
			}

			manager := auth.NewJWTManager(secret, ttl)
			signed, err := manager.Generate(&domain.Owner{ID: args[0], Email: email})
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), dto.TokenResponse{
				Token:     signed,
				ExpiresAt: time.Now().UTC().Add(ttl).Truncate(time.Second),
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Owner email")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (defaults to JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	migrate := func(fn func(string, zerolog.Logger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			databaseURL := os.Getenv("DATABASE_URL")
			if databaseURL == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				databaseURL = cfg.DatabaseURL
			}

			log := logger.New(logger.Config{Level: "info", Format: "console", Output: cmd.ErrOrStderr()})
			return fn(databaseURL, log)
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", RunE: migrate(runMigrationsUp)},
		&cobra.Command{Use: "down", Short: "Roll back all migrations", RunE: migrate(runMigrationsDown)},
	)
	return cmd
}

// doRequest sends body as JSON and decodes a 2xx response into out.
func doRequest(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, strings.TrimRight(baseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if ownerID != "" {
		req.Header.Set("X-Owner-ID", ownerID)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(data), 200))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printBuckets(w io.Writer, list *dto.BucketListResponse) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSHARE\tBALANCE\t")
	for _, b := range list.Buckets {
		name := truncate(b.Name, 24)
		if b.IsFallback {
			name += " *"
		}
		balance := b.Balance.StringFixed(2)
		if b.IsLow {
			balance += " !"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d%%\t%s\t\n", b.ID, name, b.SharePercent, balance)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nallocated %d%%, unallocated %d%%, total %s\n",
		list.TotalSharePercent, list.RemainingSharePercent, list.TotalBalance.StringFixed(2))
}

func printIncome(w io.Writer, income *dto.IncomeResponse) {
	fmt.Fprintf(w, "income %s split into %d buckets:\n", income.TotalAmount.StringFixed(2), len(income.Allocations))
	for _, a := range income.Allocations {
		fmt.Fprintf(w, "  %-24s %s\n", truncate(a.BucketName, 24), a.Amount.StringFixed(2))
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
