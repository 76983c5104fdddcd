package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/receptive/reviews-backend/internal/config"
	"github.com/receptive/reviews-backend/internal/db"
	"github.com/receptive/reviews-backend/internal/handlers"
	"github.com/receptive/reviews-backend/internal/middleware"
	"github.com/receptive/reviews-backend/internal/realtime"
	"github.com/receptive/reviews-backend/internal/services"
	"github.com/receptive/reviews-backend/internal/storage"
)

// sitePages is the static route list the sitemap advertises.
var sitePages = []string{
	"/",
	"/about",
	"/contact",
	"/country/uae",
	"/country/usa",
	"/country/uk",
	"/country/canada",
	"/country/europe",
	"/country/australia",
	"/country/singapore",
	"/succes_story",
	"/reviews",
}

func main() {
	cfg := config.Load()

	// Initialize Fiber
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// External collaborators
	storage.InitMinio(cfg)
	mongoDB := db.ConnectMongoDB(cfg.MongoURI, cfg.MongoDB)

	services.InitAuth(cfg.JWTSecret)

	hub := realtime.NewHub()
	reviewService := services.NewReviewService(mongoDB, hub)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	// Health check
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "message": "Server awake!"})
	})

	app.Get("/sitemap.xml", sitemapHandler(cfg.SiteBaseURL))

	// Realtime channel
	app.Use("/ws", realtime.UpgradeRequired)
	app.Get("/ws", realtime.Handler(hub))

	// Auth Routes
	auth := app.Group("/api/auth")
	auth.Post("/register", handlers.RegisterHandler)
	auth.Post("/login", handlers.LoginHandler)
	auth.Get("/me/:userId", handlers.GetMeHandler)
	auth.Get("/profile", middleware.Protect, handlers.ProfileHandler)
	auth.Get("/", handlers.ListUsersHandler)
	auth.Delete("/delete/:id", handlers.DeleteUserHandler)
	auth.Post("/admin/create", middleware.Protect, middleware.AdminOnly, handlers.AdminCreateUserHandler)
	auth.Post("/admin/login", handlers.AdminLoginHandler)

	// Review Routes
	reviews := app.Group("/api/reviews")
	reviews.Get("/", reviewHandler.GetAllReviews)
	reviews.Post("/", middleware.Protect, reviewHandler.CreateReview)
	reviews.Post("/:reviewId/like", middleware.Protect, reviewHandler.LikeReview)
	reviews.Delete("/:reviewId/like", middleware.Protect, reviewHandler.RemoveLike)

	// Moderation endpoints were launched ungated; the admin gate is
	// opt-in until the frontend ships admin sessions everywhere.
	moderation := func() []fiber.Handler {
		if cfg.AdminGateModeration {
			return []fiber.Handler{middleware.Protect, middleware.AdminOnly}
		}
		return nil
	}
	reviews.Post("/admin/review", append(moderation(), reviewHandler.AdminAddReview)...)
	reviews.Put("/:id/approve", append(moderation(), reviewHandler.ApproveReview)...)
	reviews.Delete("/:reviewId", append(moderation(), reviewHandler.DeleteReview)...)
	reviews.Delete("/:id/delete", reviewHandler.UserDelete)
	reviews.Put("/:id", reviewHandler.EditReview)

	if cfg.KeepAliveURL != "" {
		go keepAlive(cfg.KeepAliveURL)
	}

	// Start server
	log.Fatal(app.Listen(":" + cfg.Port))
}

// sitemapHandler renders the static page list as sitemap XML.
func sitemapHandler(baseURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var b strings.Builder
		b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
		b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
		lastmod := time.Now().Format(time.RFC3339)
		for _, page := range sitePages {
			fmt.Fprintf(&b, "  <url>\n    <loc>%s%s</loc>\n    <lastmod>%s</lastmod>\n  </url>\n", baseURL, page, lastmod)
		}
		b.WriteString("</urlset>")
		c.Set("Content-Type", "application/xml")
		return c.SendString(b.String())
	}
}

// keepAlive pings the health endpoint every 10 minutes so the hosting
// platform does not idle the process out.
func keepAlive(url string) {
	ping := func() {
		resp, err := http.Get(url)
		if err != nil {
			log.Printf("Keep-alive error: %v", err)
			return
		}
		resp.Body.Close()
		log.Printf("Keep-alive ping sent: %d", resp.StatusCode)
	}
	ping()
	for range time.Tick(10 * time.Minute) {
		ping()
	}
}
