package models

import "time"

type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportResolved ReportStatus = "resolved"
	ReportRejected ReportStatus = "rejected"
)

type ReportAction string

const (
	ActionNone      ReportAction = "none"
	ActionSuspend   ReportAction = "suspend"
	ActionTerminate ReportAction = "terminate"
)

// UserReport is a moderation case against a user. Resolving it with a
// suspend/terminate action is the entry point into the trust state.
type UserReport struct {
	ID                 int64        `json:"id"`
	ReporterID         int64        `json:"reporter"`
	ReportedUserID     int64        `json:"reported_user"`
	Reason             string       `json:"reason"`
	AdditionalInfo     *string      `json:"additional_info,omitempty"`
	Status             ReportStatus `json:"status"`
	ActionTaken        ReportAction `json:"action_taken"`
	SuspensionDuration *string      `json:"suspension_duration,omitempty"`
	ResolutionNotes    *string      `json:"resolution_notes,omitempty"`
	ResolvedAt         *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
}

type ReportImage struct {
	ID       int64  `json:"id"`
	ReportID int64  `json:"report"`
	Image    string `json:"image"`
}
