package achievements

import "time"

type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Achievement is immutable after creation: there is no update endpoint.
type Achievement struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Text      string    `json:"text"`
	ImageLink string    `json:"image_link,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupByDate buckets achievements by ISO calendar date (UTC), preserving
// the input order inside each bucket.
func GroupByDate(list []Achievement) map[string][]Achievement {
	grouped := make(map[string][]Achievement)
	for _, a := range list {
		date := a.CreatedAt.UTC().Format("2006-01-02")
		grouped[date] = append(grouped[date], a)
	}
	return grouped
}
