package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"eventplannerservice/pkg/config"
	"eventplannerservice/pkg/gcal"
	"eventplannerservice/pkg/googleauth"
	"eventplannerservice/pkg/handlers"
	"eventplannerservice/pkg/middleware"
	"eventplannerservice/pkg/models"
	"eventplannerservice/pkg/repository"
	"eventplannerservice/pkg/services"
	"eventplannerservice/pkg/token"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dsn := fmt.Sprintf("host=%s user=%s dbname=%s port=%s password=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBName, cfg.DBPort, cfg.DBPassword)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.GoogleToken{},
		&models.Account{},
		&models.Event{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	store := repository.NewGorm(db)
	google := googleauth.New(googleauth.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURI,
	})

	accessIssuer := token.NewIssuer(cfg.JWTSecret, token.AccessTokenTTL)
	refreshIssuer := token.NewIssuer(cfg.JWTRefreshSecret, token.RefreshTokenTTL)

	authSrv := services.NewAuth(google, store, accessIssuer, refreshIssuer)
	eventSrv := services.NewEvents(store, gcal.NewSyncer(store, google))

	app := fiber.New()
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: allowOrigin(cfg.Origins()),
		AllowCredentials: true,
	}))

	api := app.Group("/api/v1")
	api.Get("/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "timestamp": time.Now().Format(time.RFC3339)})
	})

	handlers.NewAuth(authSrv, cfg.FrontendAuthCallbackURL).Register(api.Group("/auth"))
	handlers.NewEvent(eventSrv).Register(api.Group("/event", middleware.RequireAuth(cfg.JWTSecret, store)))

	log.Fatal(app.Listen(":" + cfg.Port))
}

func allowOrigin(allowed []string) func(string) bool {
	return func(origin string) bool {
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		return false
	}
}
