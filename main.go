package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wellbeing/config"
	"wellbeing/handler"
	"wellbeing/middleware"
	"wellbeing/repository"
	"wellbeing/repository/memory"
	"wellbeing/services"
	"wellbeing/usecase"
	"wellbeing/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type stores struct {
	users     usecase.UserStore
	sessions  usecase.MonitoringStore
	snapshots usecase.SnapshotStore
	todos     usecase.TodoStore
	logins    usecase.LoginSessionStore
}

func connectMongo(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("Successfully connected to MongoDB")
	return client, nil
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	log.Println("Successfully connected to Redis")
	return client, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.InitValidator()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.HealthCheck{}

	var st stores
	switch cfg.Storage {
	case config.StorageMongo:
		client, err := connectMongo(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("Error disconnecting MongoDB: %v", err)
			}
		}()

		db := client.Database(cfg.Database.DatabaseName)
		if err := repository.SetupIndexes(db); err != nil {
			log.Printf("Warning: %v", err)
		}
		st = stores{
			users:     repository.NewUsersRepo(db),
			sessions:  repository.NewMonitoringRepo(db),
			snapshots: repository.NewSnapshotRepo(db),
			todos:     repository.NewTodosRepo(db),
			logins:    repository.NewSessionRepo(db),
		}
		checks["mongo"] = func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}
	case config.StorageMemory:
		log.Println("Using in-memory storage: data is lost on restart")
		st = stores{
			users:     memory.NewUserRepo(),
			sessions:  memory.NewMonitoringRepo(),
			snapshots: memory.NewSnapshotRepo(),
			todos:     memory.NewTodoRepo(),
			logins:    memory.NewSessionRepo(),
		}
	}

	var (
		tracker   usecase.ActiveMonitorTracker
		blacklist *services.TokenBlacklist
	)
	if cfg.RedisURL != "" {
		rdb, err := connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer rdb.Close()

		tracker = services.NewRedisActiveMonitor(rdb, cfg.ActiveMonitorTTL)
		blacklist = services.NewTokenBlacklist(rdb)
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	} else {
		log.Println("REDIS_URL not set: active sessions tracked in memory, token revocation disabled")
		tracker = services.NewMemoryActiveMonitor(cfg.ActiveMonitorTTL)
	}

	gemini, err := services.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GenerationTimeout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	tokens := services.NewTokenService(cfg.JWTSecretKey, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userService := usecase.NewUserService(st.users)
	loginService := usecase.NewLoginSessionService(st.logins, cfg.MaxActiveSessions, cfg.LoginSessionTTL)
	telemetryService := usecase.NewTelemetryService(st.sessions, st.snapshots, st.users, tracker)
	reportService := usecase.NewReportService(telemetryService, st.sessions, st.snapshots, tracker, gemini)
	chatService := usecase.NewChatService(st.users, st.sessions, gemini)
	todosService := usecase.NewTodosService(st.todos)
	dashboardService := usecase.NewDashboardService(st.users, st.sessions, st.todos, st.logins)

	router := handler.NewRouter(handler.Handlers{
		Auth:      handler.NewAuthHandler(userService, loginService, tokens, blacklist),
		Profile:   handler.NewProfileHandler(userService),
		TwoFactor: handler.NewTwoFactorHandler(userService),
		Sessions:  handler.NewSessionHandler(loginService),
		Monitor:   handler.NewMonitorHandler(userService, telemetryService, reportService),
		Stream:    handler.NewTelemetryStreamHandler(telemetryService, cfg.CORSOrigins),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Chat:      handler.NewChatHandler(chatService),
		Todos:     handler.NewTodoHandler(todosService),
		Health:    handler.NewHealthHandler(checks),
	},
		middleware.AuthMiddleware(tokens, blacklist, loginService),
		handler.RouterOptions{
			CORSOrigins:     cfg.CORSOrigins,
			MaxRequestBytes: cfg.MaxRequestBytes,
		},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server shutdown complete")
}
