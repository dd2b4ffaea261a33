package voice

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"yudai-tasks-backend/internal/ai"
	"yudai-tasks-backend/internal/analytics"
	"yudai-tasks-backend/internal/auth"
	"yudai-tasks-backend/internal/tasks"
)

const maxAudioBytes = 32 << 20

// Handler serves POST /voice-task: multipart body with an "audio" file and a
// "list_id" field. On success it replies with the model's raw completion
// text as text/plain, which is what the mobile client displays.
func Handler(p *Pipeline, dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
			http.Error(w, "invalid multipart body", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("audio")
		if err != nil {
			http.Error(w, "no audio data provided", http.StatusBadRequest)
			return
		}
		defer file.Close()

		listID := r.FormValue("list_id")
		if listID == "" {
			listID = tasks.DefaultListID
		}

		res, err := p.Run(r.Context(), Input{
			Audio:    file,
			Filename: header.Filename,
			UserID:   uid,
			ListID:   listID,
		})
		if err != nil {
			log.Printf("[WARN] voice task failed user_id=%d stage=%s: %v", uid, res.Stage, err)
			writePipelineErr(w, err)
			return
		}

		if res.Empty() {
			// silence or an unrecognized clip
			http.Error(w, "no response generated", http.StatusBadRequest)
			return
		}

		env := analytics.FromRequest(r)
		env.UserID = uid
		props := map[string]any{
			"list_id":        listID,
			"transcript_len": len(res.Transcript),
			"completion_len": len(res.Completion),
			"parsed_count":   len(res.Names),
			"created_count":  len(res.Report.Created),
			"failed_count":   len(res.Report.Failed),
		}
		_ = analytics.Log(r.Context(), dbx, env, "voice_task_processed", props, analytics.SourceEventKeyFromRequest(r))

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(res.Completion))
	}
}

func writePipelineErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ai.ErrNoCompletion):
		http.Error(w, "no response generated", http.StatusBadRequest)
	case errors.Is(err, tasks.ErrListNotFound):
		http.Error(w, "task list not found", http.StatusNotFound)
	case errors.Is(err, ai.ErrUpstreamUnavailable):
		http.Error(w, "upstream service unavailable", http.StatusInternalServerError)
	case errors.Is(err, ai.ErrTranscription):
		http.Error(w, "transcription failed", http.StatusInternalServerError)
	default:
		http.Error(w, "an error occurred", http.StatusInternalServerError)
	}
}
