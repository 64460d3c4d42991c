package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusAccepted   TaskStatus = "ACCEPTED"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusCancelled  TaskStatus = "CANCELLED"
	StatusRejected   TaskStatus = "REJECTED"
)

// AllTaskStatuses in declaration order; used to validate status patches.
var AllTaskStatuses = []TaskStatus{
	StatusPending, StatusInProgress, StatusAccepted,
	StatusCompleted, StatusCancelled, StatusRejected,
}

func IsValidTaskStatus(s TaskStatus) bool {
	for _, v := range AllTaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type WorkType string

const (
	WorkInPerson WorkType = "IN_PERSON"
	WorkOnline   WorkType = "ONLINE"
)

type TaskCategory struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Task is posted by a provider and performed by an assigned performer.
// PerformerID is nil exactly while the task is PENDING. RejectionReason is
// set by moderation only, never by clients.
type Task struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CategoryID      int64      `json:"task_category"`
	ProviderID      int64      `json:"provider"`
	PerformerID     *int64     `json:"performer,omitempty"`
	WorkType        WorkType   `json:"work_type"`
	Reward          float64    `json:"reward"`
	Address         string     `json:"address"`
	Longitude       float64    `json:"longitude"`
	Latitude        float64    `json:"latitude"`
	DoneDate        *time.Time `json:"done_date,omitempty"`
	ScheduleTime    *string    `json:"schedule_time,omitempty"`
	IsDonePerform   bool       `json:"is_done_perform"`
	Status          TaskStatus `json:"status"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TaskFilter defines the available parameters for filtering task lists.
type TaskFilter struct {
	ProviderID      *int64
	PerformerID     *int64
	Status          *TaskStatus
	CategoryID      *int64
	TitleSearch     string
	Unassigned      bool // performer IS NULL
	ExcludeProvider *int64
}

// TaskApplicant is a performer's application to a task, unique per
// (task, performer) pair.
type TaskApplicant struct {
	ID          int64        `json:"id"`
	TaskID      int64        `json:"task"`
	PerformerID int64        `json:"performer"`
	Description *string      `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	Performer   *UserProfile `json:"performer_profile,omitempty"`
}

// TaskReview is the single review row per task, holding both parties'
// ratings. A rate of 0 means "not yet rated" and is excluded from listings.
type TaskReview struct {
	ID                int64     `json:"id"`
	TaskID            int64     `json:"task"`
	ProviderRate      int       `json:"provider_rate"`
	ProviderFeedback  *string   `json:"provider_feedback,omitempty"`
	PerformerRate     int       `json:"performer_rate"`
	PerformerFeedback *string   `json:"performer_feedback,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TaskReviewInput carries a partial review update; only non-nil fields are
// applied to the stored row.
type TaskReviewInput struct {
	ProviderRate      *int    `json:"provider_rate"`
	ProviderFeedback  *string `json:"provider_feedback"`
	PerformerRate     *int    `json:"performer_rate"`
	PerformerFeedback *string `json:"performer_feedback"`
}
