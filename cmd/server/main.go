package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/tamsys/backend/internal/config"
	"github.com/tamsys/backend/internal/database"
	"github.com/tamsys/backend/internal/handlers"
	"github.com/tamsys/backend/internal/jobs"
	"github.com/tamsys/backend/internal/matrix"
	"github.com/tamsys/backend/internal/middleware"
	"github.com/tamsys/backend/internal/notify"
	"github.com/tamsys/backend/internal/routes"
	"github.com/tamsys/backend/internal/services/compliance"
	"github.com/tamsys/backend/internal/services/globaldata"
	"github.com/tamsys/backend/internal/services/labeling"
	"github.com/tamsys/backend/internal/services/product"
	"github.com/tamsys/backend/internal/services/tenant"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Load the regulatory matrix snapshot; analyses refuse to run without it
	matrixStore := matrix.NewStore()
	if err := matrixStore.Reload(db); err != nil {
		log.Fatalf("Failed to load regulatory matrix: %v", err)
	}
	log.Printf("Regulatory matrix loaded: %d rules", matrixStore.RuleCount())

	// Alert sinks: log always, email and Redis queue when configured
	sinks := []notify.Notifier{notify.NewLogNotifier()}
	if cfg.SMTP.Host != "" {
		sinks = append(sinks, notify.NewEmailNotifier(cfg.SMTP))
	}
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			log.Printf("Redis unavailable, alert queue disabled: %v", err)
		} else {
			sinks = append(sinks, notify.NewRedisNotifier(redisClient))
		}
	}
	notifier := notify.NewMultiNotifier(sinks...)

	// Services
	globalService := globaldata.NewGlobalDataService(db)
	tenantService := tenant.NewTenantService(db)
	productService := product.NewProductService(db)
	recordService := compliance.NewRecordService(db)
	taskService := compliance.NewTaskService(db)
	gapService := compliance.NewGapService(db, matrixStore)
	artworkResolver := labeling.NewStaticResolver()

	sweeper := jobs.NewExpirySweeper(db, notifier).
		WithCooldown(time.Duration(cfg.Sweeper.NotifyCooldownDays) * 24 * time.Hour)

	scheduler := jobs.NewScheduler(sweeper, cfg.Sweeper)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rateLimiter := middleware.NewRateLimiter(50, 100)

	routes.RegisterRoutes(router, routes.Handlers{
		Gap:        handlers.NewGapHandler(gapService),
		Record:     handlers.NewRecordHandler(recordService, artworkResolver),
		Task:       handlers.NewTaskHandler(taskService),
		Product:    handlers.NewProductHandler(productService),
		Tenant:     handlers.NewTenantHandler(tenantService),
		GlobalData: handlers.NewGlobalDataHandler(globalService),
		Admin:      handlers.NewAdminHandler(db, matrixStore, sweeper, artworkResolver, tenantService),
	}, rateLimiter)

	srv := startServer(router, cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	scheduler.Stop()
	rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

// startServer starts the HTTP server
func startServer(router *gin.Engine, port string) *http.Server {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", port)
	return srv
}
