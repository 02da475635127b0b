package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/entnt-dental/clinic-service/internal/httpapi"
	"github.com/entnt-dental/clinic-service/internal/messaging"
	"github.com/entnt-dental/clinic-service/internal/session"
	"github.com/entnt-dental/clinic-service/internal/storage"
	"github.com/entnt-dental/clinic-service/internal/store"
	"github.com/entnt-dental/clinic-service/internal/telemetry"
)

func main() {
	log.Println("dental-clinic-service starting")

	ctx := context.Background()

	// Telemetry first so everything after it is instrumented.
	otelProvider, err := telemetry.InitProvider(ctx, telemetry.LoadConfig())
	if err != nil {
		log.Printf("Warning: OpenTelemetry initialization failed: %v", err)
	}
	if otelProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			otelProvider.Shutdown(shutdownCtx)
		}()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Printf("Warning: failed to initialize metrics: %v", err)
		metrics = nil
	}

	backend := newBackend(ctx)

	// Load-before-serve: the store always holds a valid dataset once the
	// router is up.
	appStore := store.New(backend)
	if err := appStore.Load(ctx); err != nil {
		log.Fatalf("Failed to load application data: %v", err)
	}
	log.Println("✓ Application data loaded")

	// Event publishing is best-effort; a missing broker is not fatal.
	publisher, err := messaging.NewPublisher()
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, domain events disabled: %v", err)
	} else {
		defer publisher.Close()
		appStore.WithPublisher(publisher)
	}

	sessions := session.NewManager(appStore, session.NewMemorySlot())
	if publisher != nil {
		sessions.WithPublisher(publisher)
	}
	sessions.Restore()

	codec := session.NewCodec()

	perms := httpapi.DefaultPermissions()
	if path := os.Getenv("PERMISSIONS_FILE"); path != "" {
		loaded, err := httpapi.LoadPermissions(path)
		if err != nil {
			log.Fatalf("Failed to load permissions file %s: %v", path, err)
		}
		perms = loaded
		log.Printf("✓ Permissions loaded from %s", path)
	}

	router := httpapi.SetupRouter(appStore, sessions, codec, perms, metrics)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      httpapi.CORSMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	log.Printf("✓ dental-clinic-service listening on %s", addr)
	log.Fatal(srv.ListenAndServe())
}

// newBackend picks the persistence backend from STORAGE_BACKEND:
// "file" (default), "postgres", or "none" for environments without
// durable storage.
func newBackend(ctx context.Context) store.Backend {
	switch os.Getenv("STORAGE_BACKEND") {
	case "postgres":
		db, err := storage.Connect()
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		backend, err := storage.NewPostgresBackend(ctx, db)
		if err != nil {
			log.Fatalf("Failed to initialize postgres backend: %v", err)
		}
		return backend
	case "none":
		log.Println("Durable storage disabled, state will not survive restarts")
		return storage.DisabledBackend{}
	default:
		backend := storage.NewFileBackend("")
		return backend
	}
}
