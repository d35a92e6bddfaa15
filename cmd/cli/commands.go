package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(partnersCmd)
	rootCmd.AddCommand(partnerDetailCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(customersCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(supportCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/health", nil)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Request a one-time login code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, _ := json.Marshal(map[string]string{"email": args[0]})
		return performRequest("POST", "/auth/login", body)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <email> <code>",
	Short: "Exchange a one-time code for a session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, _ := json.Marshal(map[string]string{"email": args[0], "code": args[1]})
		return performRequest("POST", "/auth/verify", body)
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Load the full back-office overview",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/overview", nil)
	},
}

var partnersCmd = &cobra.Command{
	Use:   "partners",
	Short: "List all partners",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/partners", nil)
	},
}

var partnerDetailCmd = &cobra.Command{
	Use:   "partner <key>",
	Short: "Show one partner with its full hierarchy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/partners/detail?key="+args[0], nil)
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <partner-id>",
	Short: "Approve a pending partner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("POST", "/partners/approve?id="+args[0], nil)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <partner-id>",
	Short: "Suspend a partner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("POST", "/partners/disable?id="+args[0], nil)
	},
}

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "List all customers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/customers", nil)
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Load the unified orders view",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/orders", nil)
	},
}

var supportCmd = &cobra.Command{
	Use:   "support <partner|customer>",
	Short: "List one support queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/support?audience="+args[0], nil)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <partner|customer> <request-id>",
	Short: "Mark a support request resolved",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("POST", "/support/resolve?audience="+args[0]+"&id="+args[1], nil)
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the newest audit entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/audit", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest("GET", "/metrics", nil)
	},
}

func performRequest(method, endpoint string, body []byte) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
