package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/entnt-dental/clinic-service/internal/storage"
	"github.com/entnt-dental/clinic-service/internal/store"
)

// Resets the durable slot to the seed dataset. Run it to recover a
// development environment whose data got into a bad state.
func main() {
	log.Println("Seed Reset Job - Starting")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var backend store.Backend
	switch os.Getenv("STORAGE_BACKEND") {
	case "postgres":
		db, err := storage.Connect()
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		backend, err = storage.NewPostgresBackend(ctx, db)
		if err != nil {
			log.Fatalf("Failed to initialize postgres backend: %v", err)
		}
	default:
		backend = storage.NewFileBackend("")
	}

	data := store.Seed()
	if err := backend.Save(ctx, data); err != nil {
		log.Fatalf("Failed to write seed data: %v", err)
	}

	log.Printf("✓ Seed dataset written: %d users, %d patients, %d incidents",
		len(data.Users), len(data.Patients), len(data.Incidents))
}
