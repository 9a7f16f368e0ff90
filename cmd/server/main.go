package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/drawkit/internal/asset"
	"github.com/inamate/drawkit/internal/auth"
	"github.com/inamate/drawkit/internal/collab"
	"github.com/inamate/drawkit/internal/config"
	"github.com/inamate/drawkit/internal/db"
	"github.com/inamate/drawkit/internal/document"
	"github.com/inamate/drawkit/internal/drawing"
	"github.com/inamate/drawkit/internal/export"
	mw "github.com/inamate/drawkit/internal/middleware"
	"github.com/inamate/drawkit/internal/raster"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	queries := db.New(pool)

	authService := auth.NewService(queries, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	drawingService := drawing.NewService(queries).WithDefaultSize(cfg.CanvasWidth, cfg.CanvasHeight)
	drawingHandler := drawing.NewHandler(drawingService)

	// The playground drawing lives only in memory and is never saved.
	docLoader := func(ctx context.Context, drawingID string) (*document.Document, error) {
		if drawingID == cfg.PlaygroundDrawing {
			return document.NewSampleDocument(drawingID)
		}
		return drawingService.LoadDocument(ctx, drawingID)
	}
	docSaver := func(ctx context.Context, doc *document.Document) error {
		if doc.Drawing.ID == cfg.PlaygroundDrawing {
			return nil
		}
		return drawingService.StoreDocument(ctx, doc)
	}

	hub := collab.NewHub(docLoader, docSaver, collab.WithSaveInterval(cfg.SaveInterval))
	go hub.Run()

	assetHandler, err := asset.NewHandler(cfg.AssetDir)
	if err != nil {
		slog.Error("asset store", "error", err)
		os.Exit(1)
	}

	fontData, err := cfg.LoadFont()
	if err != nil {
		slog.Error("load font", "error", err)
		os.Exit(1)
	}
	renderer, err := raster.NewRenderer(fontData)
	if err != nil {
		slog.Error("create renderer", "error", err)
		os.Exit(1)
	}
	exportHandler := export.NewHandler(renderer, assetHandler)

	origins := mw.ParseOrigins(cfg.AllowedOrigins)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Asset and export endpoints are public, the playground uses them too.
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix(asset.URLPrefix).Handler(assetHandler.Serve()).Methods("GET")
	r.HandleFunc("/export/png", exportHandler.ExportPNG).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)
	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	drawingHandler.Routes(api)

	r.HandleFunc("/ws/drawing/{drawingId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, drawingService, cfg.PlaygroundDrawing, origins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first so dirty drawings are saved
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, drawings *drawing.Service, playgroundID string, origins []string) {
	drawingID := mux.Vars(r)["drawingId"]

	var userID, displayName string
	readOnly := false

	if drawingID == playgroundID {
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		role, err := drawings.Role(r.Context(), drawingID, userID)
		if err != nil {
			http.Error(w, "not a drawing member", http.StatusForbidden)
			return
		}
		readOnly = role == db.DrawingRoleViewer

		user, err := authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(origins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := collab.NewClient(hub, conn, userID, displayName, drawingID, uuid.New().String(), readOnly)
	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// originPatterns strips the scheme from allowed origins, the form the
// websocket library matches against.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if i := strings.Index(o, "://"); i >= 0 {
			o = o[i+3:]
		}
		patterns = append(patterns, o)
	}
	return patterns
}
