// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/config"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.ColorVariant{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Collection{},
		&models.Design{},
		&models.CustomDesignRequest{},
		&models.Vendor{},
		&models.ApparelInventory{},
		&models.TransferInventory{},
		&models.Supply{},
		&models.EquipmentLog{},
		&models.FinancialEntry{},
		&models.GrowthMetric{},
		&models.SystemSetting{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_addresses_user ON addresses(user_id)",

		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand)",
		"CREATE INDEX IF NOT EXISTS idx_color_variants_product ON color_variants(product_id)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_carts_session_token ON carts(session_token)",
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items(cart_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_number ON orders(order_number)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, production_stage)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",

		// Collection indexes
		"CREATE INDEX IF NOT EXISTS idx_collections_slug ON collections(slug)",
		"CREATE INDEX IF NOT EXISTS idx_collections_active ON collections(is_active)",

		// Design indexes
		"CREATE INDEX IF NOT EXISTS idx_designs_gallery ON designs(is_gallery, folder)",
		"CREATE INDEX IF NOT EXISTS idx_designs_uploader ON designs(uploaded_by_user_id)",
		"CREATE INDEX IF NOT EXISTS idx_custom_requests_status ON custom_design_requests(status, created_at DESC)",

		// Inventory indexes
		"CREATE INDEX IF NOT EXISTS idx_apparel_inventory_item ON apparel_inventories(brand, color, size)",
		"CREATE INDEX IF NOT EXISTS idx_supplies_category ON supplies(category)",
		"CREATE INDEX IF NOT EXISTS idx_equipment_logs_next_due ON equipment_logs(next_due)",

		// Finance indexes
		"CREATE INDEX IF NOT EXISTS idx_financial_entries_category ON financial_entries(category, entry_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_growth_metrics_week ON growth_metrics(week_start DESC)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Full-text search index for the storefront
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('english', name || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB, cfg *config.Config) error {
	log.Println("Seeding initial data...")

	// Create the shop owner account
	var adminCount int64
	db.Model(&models.User{}).Where("is_admin = ?", true).Count(&adminCount)

	if adminCount == 0 && cfg.Email.AdminEmail != "" {
		admin := &models.User{
			Email:     cfg.Email.AdminEmail,
			FirstName: "Shop",
			LastName:  "Owner",
			IsAdmin:   true,
		}

		// Initial password must be rotated on first login.
		if err := admin.SetPassword("ChangeMe!2024"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	// Create default shop settings
	defaultSettings := []models.SystemSetting{
		{
			Key:         "flat_shipping_rate",
			Value:       fmt.Sprintf("%.2f", cfg.Shipping.FlatRate),
			Description: "Flat shipping rate charged per shipped order",
		},
		{
			Key:         "pickup_instructions",
			Value:       "Porch pickup available in Kansas City, KS. We will text you when your order is ready.",
			Description: "Instructions shown to customers who choose local pickup",
		},
		{
			Key:         "storefront_announcement",
			Value:       "",
			Description: "Banner text shown at the top of the storefront",
		},
		{
			Key:         "custom_design_fee",
			Value:       "20.00",
			Description: "Default fee for a from-scratch custom design",
		},
	}

	for _, setting := range defaultSettings {
		var count int64
		db.Model(&models.SystemSetting{}).Where("key = ?", setting.Key).Count(&count)

		if count == 0 {
			if err := db.Create(&setting).Error; err != nil {
				log.Printf("Warning: Failed to create setting %s: %v", setting.Key, err)
			}
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}
