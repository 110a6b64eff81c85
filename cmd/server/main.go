package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/grillburger/backend/internal/auth"
	"github.com/grillburger/backend/internal/catalog"
	"github.com/grillburger/backend/internal/ledger"
	"github.com/grillburger/backend/internal/service"
	"github.com/grillburger/backend/internal/storage/sqlite"
	"github.com/grillburger/backend/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	port := getEnv("PORT", "8080")
	dbPath := getEnv("DB_PATH", "./data/grillburger.db")
	catalogPath := os.Getenv("CATALOG_PATH")
	jwtSecret := getEnv("JWT_SECRET", "")

	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	tokenDuration := 24 * time.Hour
	if raw := os.Getenv("TOKEN_DURATION"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			slog.Error("Invalid TOKEN_DURATION", "value", raw, "error", err)
			os.Exit(1)
		}
		tokenDuration = d
	}

	// Catalog: embedded default unless a file is supplied.
	cat := catalog.Default()
	if catalogPath != "" {
		loaded, err := catalog.Load(catalogPath)
		if err != nil {
			slog.Error("Failed to load catalog", "path", catalogPath, "error", err)
			os.Exit(1)
		}
		cat = loaded
	}
	slog.Info("Catalog loaded", "products", len(cat.Products()), "categories", len(cat.Categories()))

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, tokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	authSvc := service.NewAuthService(authenticator, jwtManager, store)
	storeSvc := service.NewStoreService(cat, ledger.New(store))

	handler := service.NewHandler(authSvc, storeSvc, jwtManager)

	// h2c serves HTTP/2 without TLS for local and proxied deployments.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
