package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/studyhub-dev/studyhub/db"
	"github.com/studyhub-dev/studyhub/internal/auth"
	"github.com/studyhub-dev/studyhub/internal/config"
	"github.com/studyhub-dev/studyhub/internal/handlers"
	"github.com/studyhub-dev/studyhub/internal/repository"
	"github.com/studyhub-dev/studyhub/internal/router"
	"github.com/studyhub-dev/studyhub/internal/services"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	conn, err := db.ConnectDatabase(db.Options{
		Driver:   cfg.DBDriver,
		DSN:      cfg.DSN(),
		LogLevel: cfg.DBLogLevel,
	})

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	defer func() {
		if err := db.Close(conn); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	if err = db.MigrateDatabase(conn); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	signer, err := auth.NewTokenSigner(cfg.SessionSecret)

	if err != nil {
		log.Fatalf("Failed to create token signer: %v", err)
	}

	users := repository.NewUserRepository(conn)
	projects := repository.NewProjectRepository(conn)

	authService := services.NewAuthService(users, repository.NewSessionRepository(conn), signer, cfg.SessionTTL)

	h := handlers.New(handlers.Options{
		Auth:      authService,
		Projects:  services.NewProjectService(projects),
		Messages:  services.NewMessageService(projects, repository.NewMessageRepository(conn)),
		Community: services.NewCommunityService(users),
		Cookies: handlers.CookieConfig{
			Domain: cfg.CookieDomain,
			Secure: cfg.CookieSecure,
		},
		Ping: db.Pinger(conn),
	})

	r, err := router.NewRouter(h, authService, cfg.Origins())

	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	log.Printf("Listening on port %s", cfg.Port)

	if err = r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
