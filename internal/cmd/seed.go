package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/electioncart/electioncart/internal/config"
	"github.com/electioncart/electioncart/internal/database"
	"github.com/electioncart/electioncart/internal/models"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample users, catalog, and checklist templates",
	Long: `Load a development dataset: an admin, a staff member, and a customer
(with API tokens printed to stdout), two packages, two campaign services,
their checklist templates, and dynamic resource field definitions.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
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
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("🌱 Seeding sample data...")
	if err := seed(db); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	fmt.Println("✅ Sample data loaded")
	return nil
}

func seed(db *gorm.DB) error {
	users := []models.User{
		{Username: "admin", PhoneNumber: "9000000001", Role: models.RoleAdmin, APIToken: "dev-admin-token"},
		{Username: "staff", PhoneNumber: "9000000002", Role: models.RoleStaff, APIToken: "dev-staff-token"},
		{Username: "candidate", PhoneNumber: "9000000003", Role: models.RoleUser, APIToken: "dev-customer-token"},
	}
	for i := range users {
		err := db.Where("username = ?", users[i].Username).FirstOrCreate(&users[i]).Error
		if err != nil {
			return fmt.Errorf("seed user %s: %w", users[i].Username, err)
		}
		fmt.Printf("   user %-10s role=%-6s token=%s\n", users[i].Username, users[i].Role, users[i].APIToken)
	}

	starter := models.Package{
		Name:        "Starter Campaign Pack",
		Price:       decimal.NewFromInt(15000),
		Description: "Entry-level campaign kit for ward and panchayat elections.",
		IsActive:    true,
		Items: []models.PackageItem{
			{Name: "Flex banners 6x4", Quantity: 10},
			{Name: "Poster A3", Quantity: 500},
			{Name: "Handbills", Quantity: 5000},
		},
	}
	premium := models.Package{
		Name:        "Premium Campaign Pack",
		Price:       decimal.NewFromInt(45000),
		Description: "Full constituency coverage with hoardings and social media creatives.",
		IsActive:    true,
		Items: []models.PackageItem{
			{Name: "Hoardings 20x10", Quantity: 5},
			{Name: "Flex banners 6x4", Quantity: 50},
			{Name: "Poster A3", Quantity: 2000},
			{Name: "Social media creative set", Quantity: 30},
		},
	}
	for _, pkg := range []*models.Package{&starter, &premium} {
		err := db.Where("name = ?", pkg.Name).FirstOrCreate(pkg).Error
		if err != nil {
			return fmt.Errorf("seed package %s: %w", pkg.Name, err)
		}
	}

	doorToDoor := models.Campaign{
		Name:        "Door-to-Door Campaign",
		Price:       decimal.NewFromInt(8),
		Unit:        "household",
		Description: "Canvassing teams with printed material, billed per household.",
		IsActive:    true,
	}
	wallPainting := models.Campaign{
		Name:        "Wall Painting",
		Price:       decimal.NewFromInt(45),
		Unit:        "sq ft",
		Description: "Hand-painted wall advertisements at approved locations.",
		IsActive:    true,
	}
	for _, c := range []*models.Campaign{&doorToDoor, &wallPainting} {
		err := db.Where("name = ?", c.Name).FirstOrCreate(c).Error
		if err != nil {
			return fmt.Errorf("seed campaign %s: %w", c.Name, err)
		}
	}

	templates := []models.ChecklistTemplateItem{
		{ProductType: models.ProductPackage, ProductID: starter.ID, Name: "Review uploaded resources", OrderIndex: 0},
		{ProductType: models.ProductPackage, ProductID: starter.ID, Name: "Prepare print-ready designs", OrderIndex: 1},
		{ProductType: models.ProductPackage, ProductID: starter.ID, Name: "Send designs for customer approval", OrderIndex: 2},
		{ProductType: models.ProductPackage, ProductID: starter.ID, Name: "Print and dispatch materials", OrderIndex: 3},
		{ProductType: models.ProductPackage, ProductID: starter.ID, Name: "Collect delivery confirmation", OrderIndex: 4, IsOptional: true},
		{ProductType: models.ProductCampaign, ProductID: doorToDoor.ID, Name: "Map target households", OrderIndex: 0},
		{ProductType: models.ProductCampaign, ProductID: doorToDoor.ID, Name: "Brief canvassing teams", OrderIndex: 1},
		{ProductType: models.ProductCampaign, ProductID: doorToDoor.ID, Name: "Run the campaign", OrderIndex: 2},
		{ProductType: models.ProductCampaign, ProductID: doorToDoor.ID, Name: "Share coverage report", OrderIndex: 3},
	}
	for _, tmpl := range templates {
		err := db.Where("product_type = ? AND product_id = ? AND name = ?", tmpl.ProductType, tmpl.ProductID, tmpl.Name).
			FirstOrCreate(&tmpl).Error
		if err != nil {
			return fmt.Errorf("seed template %q: %w", tmpl.Name, err)
		}
	}

	minSlogan, maxSlogan := 5, 200
	minArea, maxArea := 50.0, 5000.0
	fields := []models.ResourceFieldDefinition{
		{ProductType: models.ProductCampaign, ProductID: wallPainting.ID, Name: "slogan", Label: "Campaign slogan", FieldType: models.FieldText, Required: true, MinLength: &minSlogan, MaxLength: &maxSlogan, OrderIndex: 0},
		{ProductType: models.ProductCampaign, ProductID: wallPainting.ID, Name: "wall_area_sqft", Label: "Total wall area (sq ft)", FieldType: models.FieldNumber, Required: true, MinValue: &minArea, MaxValue: &maxArea, OrderIndex: 1},
		{ProductType: models.ProductCampaign, ProductID: wallPainting.ID, Name: "design_reference", Label: "Design reference image", FieldType: models.FieldImage, Required: true, MaxFileSizeMB: 5, AllowedExtensions: ".jpg,.jpeg,.png", OrderIndex: 2},
		{ProductType: models.ProductCampaign, ProductID: wallPainting.ID, Name: "location_permissions", Label: "Location permission letter", FieldType: models.FieldDocument, Required: false, MaxFileSizeMB: 10, AllowedExtensions: ".pdf", OrderIndex: 3},
	}
	for _, field := range fields {
		err := db.Where("product_type = ? AND product_id = ? AND name = ?", field.ProductType, field.ProductID, field.Name).
			FirstOrCreate(&field).Error
		if err != nil {
			return fmt.Errorf("seed field %q: %w", field.Name, err)
		}
	}

	return nil
}
