package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"

	"yudai-tasks-backend/internal/achievements"
	"yudai-tasks-backend/internal/ai"
	"yudai-tasks-backend/internal/analytics"
	"yudai-tasks-backend/internal/auth"
	"yudai-tasks-backend/internal/config"
	"yudai-tasks-backend/internal/db"
	"yudai-tasks-backend/internal/tasks"
	"yudai-tasks-backend/internal/voice"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("failed to connect DB: ", err)
	}
	defer database.Close()

	log.Println("connected to PostgreSQL")

	secret := []byte(cfg.JWTSecret)
	mid := auth.New(secret)

	store := tasks.NewSQLStore(database)

	aiClient := ai.New(ai.Options{
		APIKey:          cfg.OpenAIKey,
		ChatModel:       cfg.ChatModel,
		TranscribeModel: cfg.TranscribeModel,
		Timeout:         cfg.AITimeout(),
	})
	pipeline := voice.NewPipeline(aiClient, aiClient, store, cfg.AITimeout())

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH -----
	mux.HandleFunc("/auth/register", methodOnly(http.MethodPost, auth.RegisterHandler(database, secret)))
	mux.HandleFunc("/auth/login", methodOnly(http.MethodPost, auth.LoginHandler(database, secret)))
	mux.HandleFunc("/auth/logout", methodOnly(http.MethodPost, auth.LogoutHandler()))
	mux.HandleFunc("/auth/me", methodOnly(http.MethodGet, mid.Wrap(auth.MeHandler(database))))
	mux.HandleFunc("/auth/account", methodOnly(http.MethodDelete, mid.Wrap(auth.DeleteAccountHandler(database))))

	// ----- VOICE TASK -----
	mux.HandleFunc("/voice-task", methodOnly(http.MethodPost, mid.Wrap(voice.Handler(pipeline, database))))

	// ----- TASKS -----
	mux.HandleFunc("/task", mid.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			tasks.GetTaskHandler(store)(w, r)
		case http.MethodPost:
			tasks.CreateTaskHandler(store, database)(w, r)
		case http.MethodPut:
			tasks.UpdateTaskHandler(store)(w, r)
		case http.MethodDelete:
			tasks.DeleteTaskHandler(store)(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/task/name", methodOnly(http.MethodPut, mid.Wrap(tasks.RenameTaskHandler(store))))
	mux.HandleFunc("/task/complete", methodOnly(http.MethodPost, mid.Wrap(tasks.SetCompletedHandler(store, database, true))))
	mux.HandleFunc("/task/incomplete", methodOnly(http.MethodPost, mid.Wrap(tasks.SetCompletedHandler(store, database, false))))
	mux.HandleFunc("/task/star", methodOnly(http.MethodPost, mid.Wrap(tasks.SetStarredHandler(store, database, true))))
	mux.HandleFunc("/task/unstar", methodOnly(http.MethodPost, mid.Wrap(tasks.SetStarredHandler(store, database, false))))
	mux.HandleFunc("/tasks", methodOnly(http.MethodGet, mid.Wrap(tasks.TasksHandler(store))))
	mux.HandleFunc("/tasks/starred", methodOnly(http.MethodGet, mid.Wrap(tasks.StarredTasksHandler(store))))

	// ----- LISTS / TAGS / CATEGORIES -----
	mux.HandleFunc("/task-list", methodOnly(http.MethodPost, mid.Wrap(tasks.CreateListHandler(store, database))))
	mux.HandleFunc("/task-lists", methodOnly(http.MethodGet, mid.Wrap(tasks.ListsHandler(store))))
	mux.HandleFunc("/tag", methodOnly(http.MethodPost, mid.Wrap(tasks.CreateTagHandler(store))))
	mux.HandleFunc("/tags", methodOnly(http.MethodGet, mid.Wrap(tasks.TagsHandler(store))))
	mux.HandleFunc("/category", methodOnly(http.MethodPost, mid.Wrap(tasks.CreateCategoryHandler(store))))
	mux.HandleFunc("/categories", methodOnly(http.MethodGet, mid.Wrap(tasks.CategoriesHandler(store))))

	// ----- ACHIEVEMENTS -----
	mux.HandleFunc("/achievement", methodOnly(http.MethodPost, mid.Wrap(achievements.CreateHandler(database))))
	mux.HandleFunc("/achievements", methodOnly(http.MethodGet, mid.Wrap(achievements.GroupedHandler(database))))

	// ----- ANALYTICS -----
	mux.HandleFunc("/analytics/app-opened", methodOnly(http.MethodPost, mid.Wrap(analytics.AppOpenedHandler(database))))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Idempotency-Key", "X-Platform", "X-App-Version", "X-Session-Id", "X-Device-Locale", "X-Source-Event-Key"},
		AllowCredentials: true,
	})
	handler := c.Handler(mux)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Println("API server is running on", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func methodOnly(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case method:
			next(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
