package ledger

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a talk inside the pipeline.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPlanned   Status = "planned"
	StatusExtracted Status = "extracted"
	StatusUploaded  Status = "uploaded"
	StatusTagged    Status = "tagged"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusReview    Status = "review"
)

var allStatuses = []Status{
	StatusPending,
	StatusPlanned,
	StatusExtracted,
	StatusUploaded,
	StatusTagged,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ParseStatus validates a raw status string.
func ParseStatus(value string) (Status, bool) {
	status := Status(strings.TrimSpace(strings.ToLower(value)))
	_, ok := statusSet[status]
	return status, ok
}

// Statuses returns every known status in lifecycle order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// Item is one talk's persisted pipeline state.
type Item struct {
	ID             int64
	RunID          string
	TalkID         string
	Room           string
	Title          string
	ResolvedTitle  string
	TitleTruncated bool
	OutputPath     string
	VideoID        string
	Status         Status
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Terminal reports whether the item finished processing, successfully or not.
func (i *Item) Terminal() bool {
	switch i.Status {
	case StatusCompleted, StatusFailed, StatusReview:
		return true
	}
	return false
}
