package models

import "time"

// VerificationStatus of a profile's worker application.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "UNVERIFIED"
	VerificationSubmitted  VerificationStatus = "SUBMITTED"
	VerificationProcessing VerificationStatus = "PROCESSING_APPLICATION"
	VerificationVerified   VerificationStatus = "VERIFIED"
	VerificationRejected   VerificationStatus = "REJECTED"
)

// SuspensionDurations maps the duration keys accepted by suspend.
// A key outside this set means an indefinite suspension.
var SuspensionDurations = map[string]time.Duration{
	"1_day":   24 * time.Hour,
	"3_days":  3 * 24 * time.Hour,
	"1_week":  7 * 24 * time.Hour,
	"1_month": 30 * 24 * time.Hour, // approximate month
}

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"-"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserProfile is the marketplace identity, 1:1 with User. Tasks and chat
// sessions reference profiles, not users. Trust fields are written only
// through TrustService.
type UserProfile struct {
	ID                  int64              `json:"id"`
	UserID              int64              `json:"user_id"`
	Birthdate           *time.Time         `json:"birthdate,omitempty"`
	Address             string             `json:"address"`
	ContactNumber       string             `json:"contact_number"`
	Gender              string             `json:"gender"`
	VerificationStatus  VerificationStatus `json:"verification_status"`
	VerificationRemarks *string            `json:"verification_remarks,omitempty"`
	TelegramChatID      int64              `json:"-"`
	IsSuspended         bool               `json:"is_suspended"`
	SuspensionReason    *string            `json:"suspension_reason,omitempty"`
	SuspendedUntil      *time.Time         `json:"suspended_until,omitempty"`
	IsTerminated        bool               `json:"is_terminated"`
	TerminationReason   *string            `json:"termination_reason,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`

	// Joined from users for display; not a column of user_profiles.
	User *User `json:"user,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
