package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/crk2/designer/internal/asset"
	"github.com/crk2/designer/internal/config"
	"github.com/crk2/designer/internal/export"
	mw "github.com/crk2/designer/internal/middleware"
	"github.com/crk2/designer/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})))

	kv, err := store.Open(context.Background(), cfg.StorageType, cfg.StoragePath)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	assetHandler := asset.NewHandler(cfg.AssetDir)
	exportHandler := export.NewHandler(export.NewFileExporter(cfg.ExportDir))

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Event catalog for the editor
	r.HandleFunc("/resources", func(w http.ResponseWriter, r *http.Request) {
		serveResources(w, r, cfg, kv)
	}).Methods("GET")

	// Engine tunables for the page to pass to editorEngine.start
	r.HandleFunc("/settings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg.Settings())
	}).Methods("GET")

	r.HandleFunc("/exports", exportHandler.Create).Methods("POST")
	r.PathPrefix("/exports/").Handler(exportHandler.Serve()).Methods("GET")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Frontend and engine build
	r.PathPrefix("/").Handler(mw.NoCacheWasm(http.FileServer(http.Dir(cfg.StaticDir)))).Methods("GET")

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "static", cfg.StaticDir, "storage", cfg.StorageType)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// serveResources answers with the catalog, or 404 with "setup": true when the event has not
// been configured so the frontend can redirect.
func serveResources(w http.ResponseWriter, r *http.Request, cfg *config.Config, kv store.KV) {
	w.Header().Set("Content-Type", "application/json")

	res, err := config.ResolveResources(r.Context(), cfg, kv)
	if errors.Is(err, config.ErrNotConfigured) || (err == nil && len(res.Products) == 0) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"error": "event not configured", "setup": true})
		return
	}
	if err != nil {
		slog.Error("load resources", "error", err, "id", mw.RequestID(r.Context()))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"error": "failed to load resources"})
		return
	}
	json.NewEncoder(w).Encode(res)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
