package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"residora/internal/analytics"
	"residora/internal/caching"
	"residora/internal/handlers"
	"residora/internal/jobs"
	"residora/internal/jobs/background"
	"residora/internal/middleware"
	"residora/internal/repositories"
	"residora/internal/services"
	"residora/pkg/database"
)

const version = "1.0.0"

const (
	tokenTTLSeconds   = 15 * 60
	refreshTTLSeconds = 7 * 24 * 60 * 60
)

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret: %s", jwtSecret)
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	bucket := os.Getenv("STORAGE_BUCKET")
	if bucket == "" {
		bucket = "residora"
	}

	storageSvc, err := services.NewStorageService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}
	if err := storageSvc.EnsureBucketExists(context.Background(), bucket); err != nil {
		log.Printf("WARNING: could not ensure bucket %s exists: %v", bucket, err)
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	roomRepo := repositories.NewRoomRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	requestRepo := repositories.NewRequestRepo(pool)
	requestHistoryRepo := repositories.NewRequestHistoryRepo(pool)
	activityLogRepo := repositories.NewActivityLogRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	analyticsSvc := analytics.NewService(userRepo, roomRepo, paymentRepo, requestRepo)
	roomSvc := services.NewRoomService(roomRepo, userRepo, cacheSvc)
	paymentSvc := services.NewPaymentService(paymentRepo, userRepo)
	requestSvc := services.NewRequestService(requestRepo, requestHistoryRepo)
	residentSvc := services.NewResidentService(userRepo, roomSvc)
	authSvc := services.NewAuthService(cacheSvc, func(ctx context.Context, userID uuid.UUID) (string, error) {
		user, err := userRepo.GetByID(ctx, userID)
		if err != nil {
			return "", err
		}
		return user.Role, nil
	}, jwtSecret, tokenTTLSeconds, refreshTTLSeconds)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, userRepo)
	roomHandlers := handlers.NewRoomHandlers(roomSvc)
	paymentHandlers := handlers.NewPaymentHandlers(paymentSvc, storageSvc, bucket)
	requestHandlers := handlers.NewRequestHandlers(requestSvc, storageSvc, bucket)
	residentHandlers := handlers.NewResidentHandlers(residentSvc)
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsSvc)
	activityHandlers := handlers.NewActivityHandlers(activityLogRepo)
	healthHandlers := handlers.NewHealthHandlers(pool, version)

	// Background jobs
	rentBiller := jobs.NewRentBiller(userRepo, roomRepo, paymentRepo)
	tokenJanitor := jobs.NewTokenJanitor(cacheSvc)
	scheduler := background.NewJobScheduler(rentBiller, tokenJanitor)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/detailed", healthHandlers.DetailedHealthCheck)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no JWT required for signup/login)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)

	jwtConfig := echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(401, "Invalid token")
		},
	}

	auditMiddleware := middleware.NewAuditMiddleware(activityLogRepo)

	// Protected routes (require JWT)
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(jwtConfig))
	protected.Use(middleware.JWTMiddleware(userRepo, jwtSecret))
	protected.Use(auditMiddleware.AuditRequest())

	protected.GET("/me", authHandlers.Me)

	// Room routes
	protected.GET("/rooms", roomHandlers.ListRooms)
	protected.GET("/rooms/:id", roomHandlers.GetRoom)
	protected.POST("/rooms", roomHandlers.CreateRoom, middleware.RequireAdmin())
	protected.PUT("/rooms/:id", roomHandlers.UpdateRoom, middleware.RequireAdmin())
	protected.DELETE("/rooms/:id", roomHandlers.DeleteRoom, middleware.RequireAdmin())
	protected.POST("/rooms/:id/assign", roomHandlers.AssignResident, middleware.RequireAdmin())
	protected.POST("/rooms/unassign/:residentId", roomHandlers.UnassignResident, middleware.RequireAdmin())

	// Payment routes
	protected.GET("/payments", paymentHandlers.ListPayments, middleware.RequireAdmin())
	protected.GET("/payments/my", paymentHandlers.MyPayments)
	protected.GET("/payments/:id", paymentHandlers.GetPayment)
	protected.POST("/payments", paymentHandlers.CreatePayment, middleware.RequireAdmin())
	protected.PUT("/payments/:id/pay", paymentHandlers.MarkPaid, middleware.RequireAdmin())
	protected.POST("/payments/:id/receipt", paymentHandlers.UploadReceipt, middleware.RequireAdmin())
	protected.GET("/payments/:id/receipt", paymentHandlers.GetReceiptURL)

	// Maintenance request routes
	protected.GET("/requests", requestHandlers.ListRequests, middleware.RequireAdmin())
	protected.GET("/requests/history", requestHandlers.ListHistory, middleware.RequireAdmin())
	protected.GET("/requests/my", requestHandlers.MyRequests)
	protected.GET("/requests/:id", requestHandlers.GetRequest)
	protected.POST("/requests", requestHandlers.CreateRequest)
	protected.PUT("/requests/:id", requestHandlers.UpdateRequest, middleware.RequireAdmin())
	protected.DELETE("/requests/:id", requestHandlers.DeleteRequest)
	protected.POST("/requests/:id/photo", requestHandlers.UploadPhoto)
	protected.GET("/requests/:id/photo", requestHandlers.GetPhotoURL)

	// Resident routes (admin only)
	protected.GET("/residents", residentHandlers.ListResidents, middleware.RequireAdmin())
	protected.GET("/residents/:id", residentHandlers.GetResident, middleware.RequireAdmin())
	protected.PUT("/residents/:id", residentHandlers.UpdateResident, middleware.RequireAdmin())
	protected.DELETE("/residents/:id", residentHandlers.DeactivateResident, middleware.RequireAdmin())

	// Activity log (admin only)
	protected.GET("/activity", activityHandlers.ListActivity, middleware.RequireAdmin())

	// Analytics routes (admin only)
	analyticsGroup := protected.Group("/analytics", middleware.RequireAdmin())
	analyticsGroup.GET("/churn", analyticsHandlers.PredictChurn)
	analyticsGroup.GET("/churn/:id", analyticsHandlers.ResidentChurn)
	analyticsGroup.GET("/forecast/occupancy", analyticsHandlers.ForecastOccupancy)
	analyticsGroup.GET("/forecast/maintenance", analyticsHandlers.ForecastMaintenanceCost)
	analyticsGroup.GET("/kpis", analyticsHandlers.GetKPIs)
	analyticsGroup.GET("/revenue/insights", analyticsHandlers.RevenueInsights)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Residora server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
