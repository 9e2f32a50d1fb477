package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/realty-books/config"
	"github.com/yourusername/realty-books/handlers"
	"github.com/yourusername/realty-books/middleware"
	"github.com/yourusername/realty-books/storage"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Blob store for receipts, KYC files and property documents
	store := storage.NewLocalStore(cfg.UploadDir)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "realty-books-api",
		})
	})

	// API routes
	api := router.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(db, cfg)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	protected := api.Group("")
	protected.Use(middleware.JwtAuthMiddleware(cfg))
	{
		// Transaction journal
		txnHandler := handlers.NewTransactionHandler(db)
		protected.POST("/transactions", txnHandler.Create)
		protected.GET("/transactions", txnHandler.List)
		protected.GET("/transactions/:id", txnHandler.Get)
		protected.PUT("/transactions/:id", txnHandler.Update)
		protected.DELETE("/transactions/:id", txnHandler.Delete)

		// EMI schedules
		emiHandler := handlers.NewEmiHandler(db, store)
		protected.POST("/properties/:id/emis", emiHandler.GenerateForProperty)
		protected.GET("/properties/:id/emis", emiHandler.ListForProperty)
		protected.POST("/sell-properties/:id/emis", emiHandler.GenerateForSale)
		protected.GET("/sell-properties/:id/emis", emiHandler.ListForSale)
		protected.POST("/emis/:id/pay", emiHandler.Pay)
		protected.POST("/emis/:id/unpay", emiHandler.Unpay)
		protected.POST("/sell-emis/:id/pay", emiHandler.PaySell)
		protected.POST("/sell-emis/:id/unpay", emiHandler.UnpaySell)
		protected.GET("/emis/overdue", emiHandler.Overdue)

		// Inventory ledger
		propHandler := handlers.NewPropertyHandler(db, store)
		protected.POST("/properties", propHandler.Create)
		protected.GET("/properties", propHandler.List)
		protected.GET("/properties/trash", propHandler.Trash)
		protected.GET("/properties/:id", propHandler.Get)
		protected.PUT("/properties/:id", propHandler.Update)
		protected.DELETE("/properties/:id", propHandler.Delete)
		protected.POST("/properties/:id/restore", propHandler.Restore)
		protected.DELETE("/properties/trash/:id", propHandler.Destroy)

		// Sale ledger
		sellHandler := handlers.NewSellPropertyHandler(db)
		protected.POST("/sell-properties", sellHandler.Create)
		protected.GET("/sell-properties", sellHandler.List)
		protected.GET("/sell-properties/trash", sellHandler.Trash)
		protected.GET("/sell-properties/:id", sellHandler.Get)
		protected.DELETE("/sell-properties/:id", sellHandler.Delete)
		protected.POST("/sell-properties/:id/restore", sellHandler.Restore)

		// Customers / KYC
		customerHandler := handlers.NewCustomerHandler(db, store)
		protected.POST("/customers", customerHandler.Create)
		protected.GET("/customers", customerHandler.List)
		protected.GET("/customers/trash", customerHandler.Trash)
		protected.GET("/customers/:id", customerHandler.Get)
		protected.PUT("/customers/:id", customerHandler.Update)
		protected.DELETE("/customers/:id", customerHandler.Delete)
		protected.POST("/customers/:id/restore", customerHandler.Restore)
		protected.POST("/customers/:id/documents", customerHandler.UploadDocument)

		// Property documents
		docHandler := handlers.NewDocumentHandler(db, store)
		protected.POST("/properties/:id/documents", docHandler.Upload)
		protected.GET("/properties/:id/documents", docHandler.ListForProperty)
		protected.GET("/documents/trash", docHandler.Trash)
		protected.DELETE("/documents/:id", docHandler.Delete)
		protected.POST("/documents/:id/restore", docHandler.Restore)

		// RBAC (admin only)
		admin := protected.Group("")
		admin.Use(middleware.RequireRole("Admin", "Super Admin"))
		{
			roleHandler := handlers.NewRoleHandler(db)
			admin.POST("/roles", roleHandler.Create)
			admin.GET("/roles", roleHandler.List)
			admin.GET("/roles/trash", roleHandler.Trash)
			admin.PUT("/roles/:id", roleHandler.Update)
			admin.DELETE("/roles/:id", roleHandler.Delete)
			admin.POST("/roles/:id/restore", roleHandler.Restore)

			userHandler := handlers.NewUserHandler(db)
			admin.POST("/users", userHandler.Create)
			admin.GET("/users", userHandler.List)
			admin.GET("/users/trash", userHandler.Trash)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)
			admin.POST("/users/:id/restore", userHandler.Restore)
		}

		// Reports
		reportHandler := handlers.NewReportHandler(db)
		protected.GET("/reports/summary", reportHandler.Summary)
		protected.GET("/reports/ledger/export", reportHandler.ExportLedger)
	}

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Infof("Starting realty-books API server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
