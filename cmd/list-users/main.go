package main

import (
	"context"
	"log"
	"time"

	"movie-booking-platform/internal/config"
	"movie-booking-platform/internal/database"
	"movie-booking-platform/internal/repositories"
)

func main() {
	log.Println("Listing registered users...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.NewConnection(database.ConfigFrom(cfg.Database))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, err := repositories.NewUserRepository(db.DB).List(ctx)
	if err != nil {
		log.Fatal("Failed to list users:", err)
	}

	log.Println("Email | Name | Favorites | Tickets | Created")
	log.Println("------|------|-----------|---------|--------")
	for _, u := range users {
		log.Printf("%s | %s | %d | %d | %s",
			u.Email, u.Name, len(u.Favorites), len(u.Tickets), u.CreatedAt.Format(time.RFC3339))
	}
	log.Printf("%d users", len(users))
}
