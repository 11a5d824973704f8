package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "electioncart",
	Short: "Election Cart - campaign merchandise backend",
	Long: `Election Cart is the backend for an election campaign merchandise store.

It serves the customer order workflow (cart, checkout, payment, resource
uploads), the admin panel (assignment, checklists, notifications, analytics),
and the staff fulfillment surface over a REST API.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
