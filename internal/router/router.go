// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kayleighsellskcre/purposefully-made-kc/internal/config"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/handlers"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/middleware"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/mockups"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/services"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/supplier"
	"github.com/kayleighsellskcre/purposefully-made-kc/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Supplier access is optional; the storefront runs without it and
	// only the sync endpoints report it missing.
	var supplierClient *supplier.Client
	if cfg.Supplier.Configured() {
		var err error
		supplierClient, err = supplier.NewClient(cfg.Supplier)
		if err != nil {
			logrus.WithError(err).Warn("Supplier client unavailable, catalog sync disabled")
		}
	}
	resolver := mockups.NewResolver(cfg.Uploads.MockupDir, cfg.Uploads.BulkMockupDir)

	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("S3 unavailable, falling back to local storage")
		localCfg := *cfg
		localCfg.AWS = config.AWSConfig{}
		storageService, _ = services.NewStorageService(&localCfg)
	}
	catalogService := services.NewCatalogService(db, supplierClient, resolver)
	cartService := services.NewCartService(db)
	authService := services.NewAuthService(db, cfg, notificationService, cartService)
	userService := services.NewUserService(db)
	productService := services.NewProductService(db, catalogService)
	orderService := services.NewOrderService(db, cfg, cartService, notificationService)
	paymentService := services.NewPaymentService(db, cfg, orderService)
	collectionService := services.NewCollectionService(db)
	designService := services.NewDesignService(db, storageService, notificationService)
	inventoryService := services.NewInventoryService(db, notificationService)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService, catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, cartService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	collectionHandler := handlers.NewCollectionHandler(collectionService)
	designHandler := handlers.NewDesignHandler(designService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, productService, storageService)
	adminHandler := handlers.NewAdminHandler(adminService, inventoryService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Uploaded mockups and design files are served straight from disk.
	r.Static(mockups.PublicMountPath, cfg.Uploads.MockupDir)
	r.Static("/uploads/designs", cfg.Uploads.DesignDir)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Account routes
		account := v1.Group("/account")
		account.Use(middleware.AuthRequired())
		{
			account.GET("", userHandler.GetProfile)
			account.PUT("", userHandler.UpdateProfile)
			account.POST("/change-password", userHandler.ChangePassword)
			account.POST("/addresses", userHandler.AddAddress)
			account.PUT("/addresses/:id", userHandler.UpdateAddress)
			account.DELETE("/addresses/:id", userHandler.DeleteAddress)
		}

		// Product catalog (public storefront)
		products := v1.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/categories", productHandler.GetCategories)
			products.GET("/:id", productHandler.GetProduct)
		}

		// Design gallery
		designs := v1.Group("/designs")
		{
			designs.GET("/gallery", designHandler.ListGallery)
			designs.GET("/gallery/folders", designHandler.ListFolders)

			protected := designs.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("/mine", designHandler.ListMyDesigns)
				protected.POST("", middleware.UploadRateLimit(), designHandler.UploadDesign)
			}
		}

		// Custom design requests
		v1.POST("/custom-requests", middleware.AuthRequired(), middleware.UploadRateLimit(), designHandler.SubmitCustomRequest)

		// Cart (guest or signed-in via X-Cart-Session)
		cart := v1.Group("/cart")
		cart.Use(middleware.OptionalAuth())
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
		}

		// Checkout and orders
		v1.POST("/checkout", middleware.OptionalAuth(), middleware.CheckoutRateLimit(), orderHandler.Checkout)

		orders := v1.Group("/orders")
		{
			orders.GET("/track/:number", orderHandler.TrackOrder)
			orders.GET("", middleware.AuthRequired(), orderHandler.ListMyOrders)
			orders.GET("/:id", middleware.OptionalAuth(), orderHandler.GetOrder)
		}

		// Payments
		payments := v1.Group("/payments")
		{
			payments.POST("/intent", middleware.OptionalAuth(), paymentHandler.CreatePaymentIntent)
			payments.POST("/webhook", paymentHandler.StripeWebhook)
		}

		// Collection storefronts (shared links)
		collections := v1.Group("/c")
		{
			collections.GET("/:slug", collectionHandler.GetStorefront)
			collections.POST("/:slug/unlock", collectionHandler.Unlock)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)

			// Catalog management
			adminProducts := admin.Group("/products")
			{
				adminProducts.GET("", productHandler.AdminListProducts)
				adminProducts.POST("", productHandler.CreateProduct)
				adminProducts.PUT("/:id", productHandler.UpdateProduct)
				adminProducts.DELETE("/:id", productHandler.DeactivateProduct)
			}

			catalog := admin.Group("/catalog")
			{
				catalog.POST("/mockups/:style", middleware.UploadRateLimit(), catalogHandler.UploadMockups)
				catalog.POST("/reconcile/:id", catalogHandler.ReconcileProduct)
				catalog.POST("/sync", catalogHandler.SyncFromSupplier)
			}

			// Orders
			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", orderHandler.AdminListOrders)
				adminOrders.PUT("/:id", orderHandler.UpdateOrder)
			}
			admin.POST("/payments/refund", paymentHandler.ProcessRefund)

			// Collections
			adminCollections := admin.Group("/collections")
			{
				adminCollections.GET("", collectionHandler.ListCollections)
				adminCollections.POST("", collectionHandler.CreateCollection)
				adminCollections.GET("/:id", collectionHandler.GetCollection)
				adminCollections.PUT("/:id", collectionHandler.UpdateCollection)
				adminCollections.DELETE("/:id", collectionHandler.DeleteCollection)
			}

			// Designs and custom requests
			adminDesigns := admin.Group("/designs")
			{
				adminDesigns.PUT("/:id", designHandler.UpdateDesign)
				adminDesigns.DELETE("/:id", designHandler.DeleteDesign)
			}
			adminRequests := admin.Group("/custom-requests")
			{
				adminRequests.GET("", designHandler.ListCustomRequests)
				adminRequests.PUT("/:id", designHandler.ResolveCustomRequest)
			}

			// Shop inventory
			inventory := admin.Group("/inventory")
			{
				inventory.GET("/apparel", adminHandler.ListApparel)
				inventory.POST("/apparel", adminHandler.CreateApparelItem)
				inventory.PUT("/apparel/:id", adminHandler.UpdateApparelItem)
				inventory.POST("/apparel/:id/adjust", adminHandler.AdjustApparelQuantity)
				inventory.DELETE("/apparel/:id", adminHandler.DeleteApparelItem)
				inventory.GET("/low-stock", adminHandler.LowStockReport)
				inventory.GET("/transfers", adminHandler.ListTransfers)
				inventory.POST("/transfers", adminHandler.CreateTransferItem)
				inventory.PUT("/transfers/:id", adminHandler.UpdateTransferItem)
				inventory.DELETE("/transfers/:id", adminHandler.DeleteTransferItem)
				inventory.GET("/supplies", adminHandler.ListSupplies)
				inventory.POST("/supplies", adminHandler.CreateSupply)
				inventory.PUT("/supplies/:id", adminHandler.UpdateSupply)
				inventory.DELETE("/supplies/:id", adminHandler.DeleteSupply)
			}

			// Vendors
			vendors := admin.Group("/vendors")
			{
				vendors.GET("", adminHandler.ListVendors)
				vendors.POST("", adminHandler.CreateVendor)
				vendors.PUT("/:id", adminHandler.UpdateVendor)
				vendors.DELETE("/:id", adminHandler.DeleteVendor)
			}

			// Equipment maintenance
			equipment := admin.Group("/equipment-log")
			{
				equipment.GET("", adminHandler.ListEquipmentLog)
				equipment.POST("", adminHandler.LogEquipmentTask)
				equipment.GET("/due", adminHandler.MaintenanceDue)
			}

			// Finances and growth
			finances := admin.Group("/finances")
			{
				finances.GET("", adminHandler.ListFinancialEntries)
				finances.POST("", adminHandler.CreateFinancialEntry)
				finances.GET("/summary", adminHandler.GetFinancialSummary)
				finances.DELETE("/:id", adminHandler.DeleteFinancialEntry)
			}
			growth := admin.Group("/growth")
			{
				growth.GET("", adminHandler.ListGrowthMetrics)
				growth.POST("", adminHandler.RecordGrowthMetrics)
			}

			// Settings, audit trail, customers
			settings := admin.Group("/settings")
			{
				settings.GET("", adminHandler.GetSettings)
				settings.PUT("/:key", adminHandler.UpdateSetting)
			}
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
			customers := admin.Group("/customers")
			{
				customers.GET("", adminHandler.ListCustomers)
				customers.PUT("/:id/admin", adminHandler.SetCustomerAdmin)
			}
		}
	}

	return r
}
