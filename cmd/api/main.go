package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/poamtrack/poamtrack-backend-go/internal/config"
	appHTTP "github.com/poamtrack/poamtrack-backend-go/internal/handler/http"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/database"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/jwt"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/kvstore"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/sse"
	"github.com/poamtrack/poamtrack-backend-go/internal/repository/postgresql"
	"github.com/poamtrack/poamtrack-backend-go/internal/service/alerting"
	notificationService "github.com/poamtrack/poamtrack-backend-go/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	var kv kvstore.Store
	switch cfg.KVStore.Type {
	case "redis":
		kv, err = kvstore.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to initialize redis store:", err)
		}
	case "memory":
		kv = kvstore.NewMemoryStore()
	default:
		log.Fatal("Unsupported kv store type: ", cfg.KVStore.Type)
	}

	poamRepo := postgresql.NewPOAMRepository(db)
	systemRepo := postgresql.NewSystemRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	store, err := notificationService.NewStore(context.Background(), kv, hub, nil)
	if err != nil {
		log.Fatal("Failed to initialize notification store:", err)
	}

	reporter := alerting.NewReporter(store, nil)
	scheduler := alerting.NewScheduler(store, poamRepo, systemRepo, nil)

	// First-load comprehensive check runs when the startup system is set
	if cfg.App.ActiveSystemID != "" {
		if err := scheduler.SetActiveSystem(context.Background(), cfg.App.ActiveSystemID); err != nil {
			log.Println("Failed to activate startup system:", err)
		}
	}

	authHandler := appHTTP.NewAuthHandler(jwtService, cfg.Auth.APIKey)
	notificationHandler := appHTTP.NewNotificationHandler(store, hub, jwtService)
	alertingHandler := appHTTP.NewAlertingHandler(scheduler)
	poamHandler := appHTTP.NewPOAMHandler(poamRepo, reporter, scheduler)
	systemHandler := appHTTP.NewSystemHandler(systemRepo, scheduler)

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		notificationHandler,
		alertingHandler,
		poamHandler,
		systemHandler,
		cfg.App.FrontendURL,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
