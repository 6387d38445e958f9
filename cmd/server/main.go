package main

import (
	"fmt"
	"net/http"

	"milsonresponse/internal/config"
	"milsonresponse/internal/handlers"
	"milsonresponse/internal/middleware"
	"milsonresponse/internal/repositories/mongodb"
	"milsonresponse/internal/services"
	"milsonresponse/pkg/alert"
	"milsonresponse/pkg/cache"
	"milsonresponse/pkg/database"
	"milsonresponse/pkg/geocode"
	"milsonresponse/pkg/identity"
	"milsonresponse/pkg/logger"
	"milsonresponse/pkg/payment"
	"milsonresponse/pkg/storage"
	"milsonresponse/pkg/websocket"
	"milsonresponse/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Optional cache
	var cacheService services.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.WithError(err).Warn("redis unavailable, continuing without cache")
		} else {
			defer redisCache.Close()
			cacheService = services.NewRedisCacheService(redisCache)
		}
	}

	// External adapters
	blobStore := newBlobStore(cfg.Storage, log)
	identityProvider := newIdentityProvider(cfg.Auth, log)
	verifier := newPaymentVerifier(cfg.Payment, log)
	alertSender := newAlertSender(cfg.Alert, log)
	geocoder := newGeocoder(cfg.Maps, log)

	roles := identity.NewRoleResolver(cfg.Auth.AdminEmail, cfg.Auth.EmergencyEmail)
	authenticator := middleware.NewAuthenticator(identityProvider, roles, cfg.Auth.DevJWTSecret)

	// Repositories
	incidentRepo := mongodb.NewIncidentRepository(db.Database, cacheService)
	chatRepo := mongodb.NewChatRepository(db.Database)
	donationRepo := mongodb.NewDonationRepository(db.Database)
	userRepo := mongodb.NewUserRepository(db.Database)

	// Services
	incidentService := services.NewIncidentService(incidentRepo, userRepo, alertSender, cfg.Alert.ResponderPhone, geocoder, log)
	chatService := services.NewChatService(chatRepo, incidentRepo, log)
	donationService := services.NewDonationService(donationRepo, incidentRepo, verifier, log)
	userService := services.NewUserService(userRepo, roles, log)

	// Handlers
	wsHandler := websocket.NewHandler(cfg.WebSocket, log)
	incidentHandler := handlers.NewIncidentHandler(incidentService, blobStore)
	chatHandler := handlers.NewChatHandler(chatService, blobStore, wsHandler)
	donationHandler := handlers.NewDonationHandler(donationService)
	userHandler := handlers.NewUserHandler(userService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))

	v1 := router.Group("/api/v1")
	{
		routes.SetupIncidentRoutes(v1, authenticator, incidentHandler)
		routes.SetupChatRoutes(v1, authenticator, chatHandler)
		routes.SetupDonationRoutes(v1, authenticator, donationHandler)
		routes.SetupUserRoutes(v1, authenticator, userHandler)
	}

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		if err := db.Ping(); err != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  status,
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	log.Infof("starting %s on %s", cfg.App.Name, addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newBlobStore(cfg *config.StorageConfig, log *logger.Logger) storage.BlobStore {
	switch cfg.Provider {
	case "s3":
		store, err := storage.NewAWSS3Storage(cfg.S3Region, cfg.S3Bucket, cfg.S3CDNDomain)
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %v", err)
		}
		return store
	case "gcs":
		store, err := storage.NewGCPStorage(cfg.GCSBucket, cfg.GCSCredentialsFile, cfg.GCSCDNDomain)
		if err != nil {
			log.Fatalf("failed to initialize GCS storage: %v", err)
		}
		return store
	default:
		store, err := storage.NewLocalStorage(cfg.LocalBasePath, cfg.LocalBaseURL)
		if err != nil {
			log.Fatalf("failed to initialize local storage: %v", err)
		}
		return store
	}
}

func newIdentityProvider(cfg *config.AuthConfig, log *logger.Logger) identity.Provider {
	if cfg.FirebaseCredentialsFile == "" && cfg.FirebaseProjectID == "" {
		if cfg.DevJWTSecret == "" {
			log.Fatal("no identity provider configured and no dev JWT secret set")
		}
		log.Warn("no identity provider configured, accepting dev tokens only")
		return nil
	}

	provider, err := identity.NewFirebaseProvider(cfg.FirebaseCredentialsFile, cfg.FirebaseProjectID)
	if err != nil {
		log.Fatalf("failed to initialize identity provider: %v", err)
	}
	return provider
}

func newPaymentVerifier(cfg *config.PaymentConfig, log *logger.Logger) payment.Verifier {
	switch cfg.Provider {
	case "stripe":
		if cfg.StripeSecretKey == "" {
			log.Warn("stripe secret key not set, donations will be recorded unverified")
			return nil
		}
		return payment.NewStripeVerifier(cfg.StripeSecretKey)
	case "razorpay":
		if cfg.RazorpayKeyID == "" {
			log.Warn("razorpay keys not set, donations will be recorded unverified")
			return nil
		}
		return payment.NewRazorpayVerifier(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	default:
		return nil
	}
}

func newAlertSender(cfg *config.AlertConfig, log *logger.Logger) alert.Sender {
	switch cfg.Provider {
	case "twilio":
		return alert.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	case "sns":
		sender, err := alert.NewAWSSNSSender(cfg.SNSRegion)
		if err != nil {
			log.WithError(err).Warn("failed to initialize SNS sender, alerts disabled")
			return nil
		}
		return sender
	default:
		return nil
	}
}

func newGeocoder(cfg *config.MapsConfig, log *logger.Logger) geocode.Geocoder {
	if !cfg.GeocodingEnabled || cfg.GoogleMapsAPIKey == "" {
		return nil
	}

	geocoder, err := geocode.NewGoogleMapsGeocoder(cfg.GoogleMapsAPIKey)
	if err != nil {
		log.WithError(err).Warn("failed to initialize geocoder, addresses disabled")
		return nil
	}
	return geocoder
}
