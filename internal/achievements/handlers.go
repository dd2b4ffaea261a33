package achievements

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"yudai-tasks-backend/internal/analytics"
	"yudai-tasks-backend/internal/auth"
)

// CreateHandler serves POST /achievement.
func CreateHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Text      string `json:"text"`
			ImageLink string `json:"image_link"`
			Status    Status `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Text == "" || !body.Status.Valid() {
			http.Error(w, "invalid achievement data", http.StatusBadRequest)
			return
		}

		a := Achievement{
			UserID:    uid,
			Text:      body.Text,
			ImageLink: body.ImageLink,
			Status:    body.Status,
		}

		err := dbx.QueryRowContext(r.Context(), `
			INSERT INTO achievements (user_id, text, image_link, status, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, uid, a.Text, a.ImageLink, string(a.Status), time.Now().UTC()).Scan(&a.ID, &a.CreatedAt)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		env := analytics.FromRequest(r)
		env.UserID = uid
		_ = analytics.Log(r.Context(), dbx, env, "achievement_created",
			map[string]any{"achievement_id": a.ID, "status": a.Status, "has_image": a.ImageLink != ""},
			analytics.SourceEventKeyFromRequest(r))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(a)
	}
}

// GroupedHandler serves GET /achievements, newest first, grouped by day.
func GroupedHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rows, err := dbx.QueryContext(r.Context(), `
			SELECT id, text, COALESCE(image_link, ''), status, created_at
			FROM achievements
			WHERE user_id=$1
			ORDER BY created_at DESC
		`, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var list []Achievement
		for rows.Next() {
			a := Achievement{UserID: uid}
			var status string
			if err := rows.Scan(&a.ID, &a.Text, &a.ImageLink, &status, &a.CreatedAt); err != nil {
				http.Error(w, "scan error: "+err.Error(), http.StatusInternalServerError)
				return
			}
			a.Status = Status(status)
			list = append(list, a)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(GroupByDate(list))
	}
}
