package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/camden-git/storyboardbackend/config"
	"github.com/camden-git/storyboardbackend/database"
	"github.com/camden-git/storyboardbackend/ffmpeg"
	"github.com/camden-git/storyboardbackend/handlers"
	"github.com/camden-git/storyboardbackend/realtime"
	"github.com/camden-git/storyboardbackend/render"
	"github.com/camden-git/storyboardbackend/repository"
	"github.com/camden-git/storyboardbackend/workers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.ProjectsBaseDir, cfg.PreviewsPath, cfg.ArchivesPath}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	registryDB, err := database.InitGormDB(filepath.Join(cfg.ProjectsBaseDir, "registry.db"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize project registry: %v", err)
	}
	if err := database.AutoMigrateModels(registryDB); err != nil {
		log.Fatalf("FATAL: Failed to migrate project registry: %v", err)
	}
	registry := repository.NewProjectRepository(registryDB)

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	var encoder render.Encoder
	if ex, err := ffmpeg.New(zlog, cfg.FFmpegPath); err != nil {
		log.Printf("WARNING: %v; rendering endpoints will be unavailable", err)
	} else {
		encoder = ex
	}

	hub := realtime.NewHub()
	go hub.Run()

	log.Printf("Initializing preview worker pool (Workers: %d, Queue Size: %d)...", cfg.NumPreviewWorkers, cfg.PreviewQueueSize)
	previewGen := workers.NewPreviewGenerator(cfg.PreviewMaxSize, cfg.PreviewQueueSize, cfg.NumPreviewWorkers, hub)
	defer previewGen.Stop()

	log.Printf("Projects directory: %s", cfg.ProjectsBaseDir)
	log.Printf("Storing previews in: %s", cfg.PreviewsPath)
	log.Printf("Preview max size (longest side): %dpx", cfg.PreviewMaxSize)

	editor := handlers.NewEditor(cfg, encoder, previewGen, registry, hub)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", editor.ListProjects)
			r.Post("/", editor.CreateProject)
			r.Post("/open", editor.OpenProject)
			r.Post("/close", editor.CloseProject)
			r.Get("/current", editor.GetCurrentProject)
			r.Post("/archive", editor.ArchiveProject)
		})

		r.Route("/project/config", func(r chi.Router) {
			r.Get("/", editor.GetMovieConfig)
			r.Put("/", editor.UpdateMovieConfig)
		})

		r.Route("/scenes", func(r chi.Router) {
			r.Get("/", editor.ListScenes)
			r.Post("/", editor.CreateScene)
			r.Route("/{scene_id}", func(r chi.Router) {
				r.Put("/name", editor.RenameScene)
				r.Delete("/", editor.DeleteScene)
				r.Post("/move_up", editor.MoveSceneUp)
				r.Post("/move_down", editor.MoveSceneDown)
				r.Get("/layers", editor.ListLayers)
				r.Post("/layers", editor.AddLayer)
				r.Post("/layers/paste", editor.PasteLayer)
			})
		})

		r.Route("/layers/{layer_id}", func(r chi.Router) {
			r.Put("/move", editor.MoveLayer)
			r.Put("/resize_left", editor.ResizeLayerLeft)
			r.Put("/resize_right", editor.ResizeLayerRight)
			r.Post("/copy", editor.CopyLayer)
			r.Delete("/", editor.DeleteLayer)
		})

		r.Route("/media", func(r chi.Router) {
			r.Get("/", editor.ListMedia)
			r.Post("/import", editor.ImportMedia)
			r.Put("/rename", editor.RenameMedia)
			r.Post("/delete", editor.DeleteMedia)
			r.Get("/texture", editor.ServeMediaTexture)
			r.Get("/resolve", editor.ResolveFrame)
		})

		r.Route("/render", func(r chi.Router) {
			r.Post("/", editor.StartRender)
			r.Get("/status", editor.RenderStatus)
		})

		r.Get("/ws", hub.ServeWS)

		previewSubDir := filepath.Base(cfg.PreviewsPath)
		r.Get(fmt.Sprintf("/%s/*", previewSubDir), handlers.AssetServer(cfg.StoragePath, previewSubDir))
		log.Printf("Registered preview server at /%s/*", previewSubDir)

		archiveSubDir := filepath.Base(cfg.ArchivesPath)
		r.Get(fmt.Sprintf("/%s/*", archiveSubDir), handlers.AssetServer(cfg.StoragePath, archiveSubDir))
		log.Printf("Registered archive server at /%s/*", archiveSubDir)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
