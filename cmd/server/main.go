package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "dentallab/internal/adapters/web"
	"dentallab/internal/app"
	"dentallab/internal/core"
	"dentallab/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	users := core.NewUserService(pool)
	clients := core.NewClientService(pool)
	products := core.NewProductService(pool)
	suppliers := core.NewSupplierService(pool)
	orders := core.NewOrderService(pool)

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@admin.com"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin"
	}
	if err := users.EnsureAdmin(ctx, adminEmail, adminPassword); err != nil {
		log.Fatalf("admin seed: %v", err)
	}

	svc := app.NewAppService(users, clients, products, suppliers, orders)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler.Routes()); err != nil {
		log.Fatalf("server: %v", err)
	}
}
