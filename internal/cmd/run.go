package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/electioncart/electioncart/internal/analytics"
	"github.com/electioncart/electioncart/internal/cart"
	"github.com/electioncart/electioncart/internal/checklist"
	"github.com/electioncart/electioncart/internal/config"
	"github.com/electioncart/electioncart/internal/database"
	"github.com/electioncart/electioncart/internal/notify"
	"github.com/electioncart/electioncart/internal/orders"
	"github.com/electioncart/electioncart/internal/payment"
	"github.com/electioncart/electioncart/internal/server"
	"github.com/electioncart/electioncart/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Election Cart server",
	Long: `Start the Election Cart API server which provides:
- Customer cart and order endpoints
- Payment verification and resource uploads
- Admin panel, staff checklist, and analytics endpoints`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 Election Cart Starting...")

	fmt.Println("📝 Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("🔌 Connecting to database...")
	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fmt.Println("✅ Database connected successfully")

	log := slog.Default()
	notifier := notify.NewService(db)
	analyticsSvc := analytics.NewService(db, cfg.Cache.AnalyticsTTL)
	checklists := checklist.NewService(db, notifier, analyticsSvc, log)
	gateway := payment.NewClient(&cfg.Payment)
	files := storage.New(cfg.Media.Root)
	orderSvc := orders.NewService(db, gateway, notifier, checklists, analyticsSvc, files, log)
	carts := cart.NewService(db)

	fmt.Println("⚙️  Setting up server...")
	srv := server.NewServer(db, carts, orderSvc, checklists, notifier, analyticsSvc, log)

	fmt.Printf("🌐 Starting server on %s...\n", cfg.Server.Addr)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
