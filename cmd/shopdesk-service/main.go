package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/api"
	"github.com/bluekite-labs/shopdesk-service/internal/config"
	"github.com/bluekite-labs/shopdesk-service/internal/database"
	"github.com/bluekite-labs/shopdesk-service/internal/email"
	"github.com/bluekite-labs/shopdesk-service/internal/services"
	"github.com/bluekite-labs/shopdesk-service/internal/workflows"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Configurar logging
	logger := setupLogger(cfg)
	logger.Info("Starting ShopDesk Service...")

	// Configurar modo de Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Conectar a la base de datos
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	// Sembrar la secuencia de códigos de cliente
	if err := database.NewSequenceRepository(db, logger).SeedCustomerSequence(); err != nil {
		logger.Fatalf("Error seeding customer code sequence: %v", err)
	}

	// Conectar a Redis
	redis, err := database.ConnectRedis(cfg)
	if err != nil {
		logger.Warnf("Error connecting to Redis: %v", err)
		redis = nil
	} else {
		defer redis.Close()
	}

	// Inicializar almacenamiento de artefactos QR
	storage, err := database.NewObjectStorage(&cfg.Storage, logger)
	if err != nil {
		logger.Fatalf("Error initializing object storage: %v", err)
	}

	// Inicializar servicio de Resend
	var resendService *email.ResendService
	if cfg.Email.ResendAPIKey != "" {
		resendService = email.NewResendService(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, logger)
		logger.Info("Resend service initialized successfully")
	} else {
		logger.Warn("Resend API key not provided, receipt emails will not be sent")
	}

	// Inicializar servicios
	qrService := services.NewQRService(db, storage, logger)

	// Inicializar cliente de Inngest
	inngestClient, err := workflows.NewInngestClient(cfg, logger)
	if err != nil {
		logger.Warnf("Error initializing Inngest client: %v", err)
		inngestClient = nil
	}

	if inngestClient != nil {
		qrWorkflow := workflows.NewQRWorkflow(inngestClient, qrService, logger)
		if err := qrWorkflow.Register(); err != nil {
			logger.Warnf("Error registering QR workflow: %v", err)
			inngestClient = nil
		}
	} else {
		logger.Warn("Inngest not available, QR regeneration will run inline")
	}

	var regenQueue services.QRRegenerationQueue
	if inngestClient != nil {
		regenQueue = inngestClient
	}

	customerService := services.NewCustomerService(db, logger)
	shopService := services.NewShopService(db, logger)
	productService := services.NewProductService(db, redis, cfg.Redis.CacheTTL, qrService, regenQueue, logger)

	var receiptSender services.ReceiptSender
	if resendService != nil {
		receiptSender = resendService
	}
	purchaseService := services.NewPurchaseService(db, redis, receiptSender, logger)

	contactService := services.NewContactService(db, logger)
	locationService := services.NewLocationService(db, logger)

	// Inicializar repositorio de API Keys
	apiKeyRepo := database.NewAPIKeyRepository(db, logger)

	// Inicializar API
	apiHandler := api.NewAPI(
		customerService,
		shopService,
		productService,
		purchaseService,
		contactService,
		locationService,
		apiKeyRepo,
		logger,
	)

	// Configurar router
	router := setupRouter(apiHandler, inngestClient, cfg)

	// Crear servidor HTTP
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Canal para señales de terminación
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Iniciar servidor en goroutine
	go func() {
		logger.Infof("Server starting on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	// Esperar señal de terminación
	<-quit
	logger.Info("Shutting down server...")

	// Contexto con timeout para shutdown graceful
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown graceful del servidor
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// setupLogger configura el logger según la configuración
func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	// Configurar nivel de log
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Configurar formato
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// setupRouter configura el router principal
func setupRouter(apiHandler *api.API, inngestClient *workflows.InngestClient, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Middleware global
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Middleware de CORS para desarrollo
	if cfg.IsDevelopment() {
		router.Use(func(c *gin.Context) {
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-API-Key")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(204)
				return
			}

			c.Next()
		})
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "shopdesk-service",
			"version":   "1.0.0",
		})
	})

	// Endpoint de invocación de workflows
	if inngestClient != nil {
		router.Any("/api/inngest", gin.WrapH(inngestClient.Handler()))
	}

	// API v1
	v1 := router.Group("/v1")
	{
		// Endpoints PÚBLICOS (sin autenticación)
		public := v1.Group("")
		{
			// Resolución de productos escaneados
			public.GET("/products/scan", apiHandler.ScanProduct)
		}

		// Endpoints protegidos con API key
		protected := v1.Group("")
		protected.Use(apiHandler.AuthMiddleware())
		{
			// Customers
			protected.POST("/customers", apiHandler.CreateCustomer)
			protected.GET("/customers", apiHandler.ListCustomers)
			protected.GET("/customers/:id", apiHandler.GetCustomer)
			protected.PUT("/customers/:id", apiHandler.UpdateCustomer)
			protected.POST("/customers/:id/verify", apiHandler.VerifyCustomer)
			protected.DELETE("/customers/:id", apiHandler.DeleteCustomer)
			protected.GET("/customers/:id/shops", apiHandler.GetCustomerShops)
			protected.GET("/customers/:id/contacts", apiHandler.GetCustomerContacts)

			// Shops
			protected.POST("/shops", apiHandler.CreateShop)
			protected.GET("/shops/:id", apiHandler.GetShop)
			protected.PUT("/shops/:id", apiHandler.UpdateShop)
			protected.DELETE("/shops/:id", apiHandler.DeleteShop)
			protected.GET("/shops/:id/products", apiHandler.GetShopProducts)
			protected.GET("/shops/:id/locations", apiHandler.GetShopLocations)

			// Products
			protected.POST("/products", apiHandler.CreateProduct)
			protected.GET("/products/search", apiHandler.SearchProducts)
			protected.GET("/products/:id", apiHandler.GetProduct)
			protected.PUT("/products/:id", apiHandler.UpdateProduct)
			protected.POST("/products/:id/stock", apiHandler.AdjustProductStock)
			protected.POST("/products/:id/qr/regenerate", apiHandler.RegenerateProductQR)
			protected.GET("/products/:id/stats", apiHandler.GetProductStats)
			protected.DELETE("/products/:id", apiHandler.DeleteProduct)

			// Purchases
			protected.POST("/purchases", apiHandler.CreatePurchase)
			protected.GET("/purchases", apiHandler.ListPurchases)
			protected.GET("/purchases/stats", apiHandler.GetPurchaseStats)
			protected.GET("/purchases/:id", apiHandler.GetPurchase)
			protected.PUT("/purchases/:id", apiHandler.UpdatePurchase)
			protected.POST("/purchases/:id/payment-status", apiHandler.UpdatePaymentStatus)
			protected.POST("/purchases/:id/toggle-status", apiHandler.TogglePurchaseStatus)
			protected.DELETE("/purchases/:id", apiHandler.DeletePurchase)

			// Contacts
			protected.POST("/contacts", apiHandler.CreateContact)
			protected.GET("/contacts/:id", apiHandler.GetContact)
			protected.PUT("/contacts/:id", apiHandler.UpdateContact)
			protected.DELETE("/contacts/:id", apiHandler.DeleteContact)

			// Locations
			protected.POST("/locations", apiHandler.CreateLocation)
			protected.GET("/locations/:id", apiHandler.GetLocation)
			protected.PUT("/locations/:id", apiHandler.UpdateLocation)
			protected.DELETE("/locations/:id", apiHandler.DeleteLocation)

			// API keys
			protected.POST("/apikeys", apiHandler.CreateAPIKey)
		}
	}

	return router
}
