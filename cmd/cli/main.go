package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "FreightPoint ledger CLI",
		Long:  `A command line interface for operating the FreightPoint balance ledger service.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(driftCmd())
	rootCmd.AddCommand(refundCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, status, err := doGet("/ready")
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("service not ready (status %d): %s", status, string(body))
			}
			fmt.Println("service is ready")
			return nil
		},
	}
}

func driftCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Report orders whose dual-ledger totals disagree",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, status, err := doGet(fmt.Sprintf("/api/v1/ledger/drift?limit=%d", limit))
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("drift report failed (status %d): %s", status, string(body))
			}

			var report struct {
				CheckedAt time.Time `json:"checked_at"`
				Orders    []struct {
					OrderID         string `json:"order_id"`
					CustomerTotal   string `json:"customer_total"`
					SupervisorTotal string `json:"supervisor_total"`
					Drift           string `json:"drift"`
				} `json:"orders"`
			}
			if err := json.Unmarshal(body, &report); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if len(report.Orders) == 0 {
				fmt.Println("no drift detected")
				return nil
			}

			fmt.Printf("%-24s %14s %14s %14s\n", "ORDER", "CUSTOMER", "SUPERVISOR", "DRIFT")
			for _, o := range report.Orders {
				fmt.Printf("%-24s %14s %14s %14s\n", truncate(o.OrderID, 24), o.CustomerTotal, o.SupervisorTotal, o.Drift)
			}
			fmt.Printf("%d drifting order(s) as of %s\n", len(report.Orders), report.CheckedAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of orders to report")
	return cmd
}

func refundCmd() *cobra.Command {
	var (
		customerID string
		amount     string
		baseAmount string
		reason     string
	)

	cmd := &cobra.Command{
		Use:   "refund <order-id>",
		Short: "Create a refund for an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"customer_id": customerID,
				"reason":      reason,
			}
			if amount != "" {
				payload["amount"] = amount
			}
			if baseAmount != "" {
				payload["base_amount"] = baseAmount
			}

			body, status, err := doPost("/api/v1/orders/"+args[0]+"/refund", payload)
			if err != nil {
				return err
			}

			switch status {
			case http.StatusCreated:
				fmt.Println("refund created")
			case http.StatusOK:
				fmt.Println("refund already exists")
			default:
				return fmt.Errorf("refund failed (status %d): %s", status, string(body))
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err == nil {
				printJSON(result)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&customerID, "customer", "", "Customer user ID (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "Refund amount (derived from the original charge when omitted)")
	cmd.Flags().StringVar(&baseAmount, "base-amount", "", "Base refund amount (derived when omitted)")
	cmd.Flags().StringVar(&reason, "reason", "", "Refund reason")
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}

func statusCmd() *cobra.Command {
	var oldStatus, newStatus string

	cmd := &cobra.Command{
		Use:   "status <order-id>",
		Short: "Report an order status transition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, status, err := doPost("/api/v1/orders/"+args[0]+"/status", map[string]any{
				"old_status": oldStatus,
				"new_status": newStatus,
			})
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("status change failed (status %d): %s", status, string(body))
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			printJSON(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&oldStatus, "old", "", "Previous order status (required)")
	cmd.Flags().StringVar(&newStatus, "new", "", "New order status (required)")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

func doGet(path string) ([]byte, int, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func doPost(path string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
