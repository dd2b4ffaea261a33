package tasks

import "time"

// DefaultListID is the sentinel list id for a user's top-level task
// collection. It is a naming convention, not a stored list: store
// operations receiving it must target tasks that belong to no named list.
const DefaultListID = "default"

type Task struct {
	ID             int        `json:"id"`
	ListID         string     `json:"list_id"`
	Name           string     `json:"name"`
	Completed      bool       `json:"completed"`
	Starred        bool       `json:"starred"`
	Priority       int        `json:"priority,omitempty"`
	Category       string     `json:"category,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Duration       int        `json:"duration,omitempty"` // minutes
	StartTime      *time.Time `json:"start_time,omitempty"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	Recurring      bool       `json:"recurring,omitempty"`
	RecurrenceRule string     `json:"recurrence_rule,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type TaskList struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NewTask carries the caller-settable fields for task creation. Completed
// and starred are always false at creation and are not settable here.
type NewTask struct {
	Name           string     `json:"name"`
	Priority       int        `json:"priority"`
	Category       string     `json:"category"`
	Tags           []string   `json:"tags"`
	Duration       int        `json:"duration"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	Recurring      bool       `json:"recurring"`
	RecurrenceRule string     `json:"recurrence_rule"`
}

// TaskUpdate is a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Name           *string     `json:"name"`
	Priority       *int        `json:"priority"`
	Category       *string     `json:"category"`
	Tags           *[]string   `json:"tags"`
	Duration       *int        `json:"duration"`
	StartTime      *time.Time  `json:"start_time"`
	EndTime        *time.Time  `json:"end_time"`
	Recurring      *bool       `json:"recurring"`
	RecurrenceRule *string     `json:"recurrence_rule"`
}

type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterIncomplete Filter = "incomplete"
	FilterStarred    Filter = "starred"
)

func ParseFilter(s string) (Filter, bool) {
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, true
	case FilterCompleted, FilterIncomplete, FilterStarred:
		return Filter(s), true
	}
	return "", false
}

// BatchReport is the per-item outcome of a batch create. Writes are
// independent; a failed item never rolls back the ones before it.
type BatchReport struct {
	Created []Task
	Failed  []BatchFailure
}

type BatchFailure struct {
	Name string
	Err  error
}
