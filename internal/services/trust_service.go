package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"etugal/internal/models"
	"etugal/internal/repositories"
)

// TrustService is the sole writer of suspension/termination state. Other
// services consult it through CheckActive before any mutating action.
type TrustService interface {
	// CheckActive lazily clears an expired suspension and reports whether
	// the profile may act.
	CheckActive(ctx context.Context, profileID int64) (bool, error)
	// RequireActive is CheckActive returning the matching domain error
	// instead of a bool.
	RequireActive(ctx context.Context, profileID int64) error
	Suspend(ctx context.Context, profileID int64, reason, durationKey string) error
	Terminate(ctx context.Context, profileID int64, reason string) error
	SetVerificationStatus(ctx context.Context, profileID int64, status models.VerificationStatus, remarks string) error
}

type trustService struct {
	users  repositories.UserRepository
	emails EmailService
}

func NewTrustService(users repositories.UserRepository, emails EmailService) TrustService {
	return &trustService{users: users, emails: emails}
}

func (s *trustService) CheckActive(ctx context.Context, profileID int64) (bool, error) {
	profile, err := s.users.FindProfileByID(ctx, profileID)
	if err != nil {
		return false, err
	}
	if profile == nil {
		return false, fmt.Errorf("profile %d not found", profileID)
	}
	if profile.IsTerminated {
		return false, nil
	}
	if profile.IsSuspended && profile.SuspendedUntil != nil && profile.SuspendedUntil.Before(time.Now()) {
		profile.IsSuspended = false
		profile.SuspensionReason = nil
		profile.SuspendedUntil = nil
		if err := s.users.UpdateTrust(ctx, profile); err != nil {
			return false, err
		}
		log.Printf("[trust][expire] profile=%d suspension lapsed", profileID)
	}
	return !profile.IsSuspended, nil
}

func (s *trustService) RequireActive(ctx context.Context, profileID int64) error {
	profile, err := s.users.FindProfileByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("profile %d not found", profileID)
	}
	if profile.IsTerminated {
		return ErrAccountTerminated
	}
	active, err := s.CheckActive(ctx, profileID)
	if err != nil {
		return err
	}
	if !active {
		return ErrAccountSuspended
	}
	return nil
}

// Suspend marks the profile suspended. A recognized duration key bounds the
// suspension; anything else means indefinite. The notification email is sent
// only when the profile was not already suspended.
func (s *trustService) Suspend(ctx context.Context, profileID int64, reason, durationKey string) error {
	profile, err := s.users.FindProfileByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("profile %d not found", profileID)
	}
	wasSuspended := profile.IsSuspended

	profile.IsSuspended = true
	profile.SuspensionReason = &reason
	if d, ok := models.SuspensionDurations[durationKey]; ok {
		until := time.Now().Add(d)
		profile.SuspendedUntil = &until
	} else {
		profile.SuspendedUntil = nil // indefinite
	}

	if err := s.users.UpdateTrust(ctx, profile); err != nil {
		return err
	}
	log.Printf("[trust][suspend] profile=%d duration=%q", profileID, durationKey)

	if !wasSuspended && s.emails != nil && profile.User != nil {
		if err := s.emails.SendSuspensionEmail(profile.User.Email, reason); err != nil {
			log.Printf("[trust][suspend][warn] email to %s failed: %v", profile.User.Email, err)
		}
	}
	return nil
}

// Terminate is permanent; there is no API to reverse it.
func (s *trustService) Terminate(ctx context.Context, profileID int64, reason string) error {
	profile, err := s.users.FindProfileByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("profile %d not found", profileID)
	}
	wasTerminated := profile.IsTerminated

	profile.IsTerminated = true
	profile.TerminationReason = &reason

	if err := s.users.UpdateTrust(ctx, profile); err != nil {
		return err
	}
	log.Printf("[trust][terminate] profile=%d", profileID)

	if !wasTerminated && s.emails != nil && profile.User != nil {
		if err := s.emails.SendTerminationEmail(profile.User.Email, reason); err != nil {
			log.Printf("[trust][terminate][warn] email to %s failed: %v", profile.User.Email, err)
		}
	}
	return nil
}

func (s *trustService) SetVerificationStatus(ctx context.Context, profileID int64, status models.VerificationStatus, remarks string) error {
	profile, err := s.users.FindProfileByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("profile %d not found", profileID)
	}
	if profile.VerificationStatus == status {
		// no-op re-save must not re-trigger the email
		return nil
	}

	profile.VerificationStatus = status
	if remarks != "" {
		profile.VerificationRemarks = &remarks
	}
	if err := s.users.UpdateVerification(ctx, profile); err != nil {
		return err
	}

	if s.emails != nil && profile.User != nil {
		if err := s.emails.SendVerificationEmail(profile.User.Email, status, remarks); err != nil {
			log.Printf("[trust][verify][warn] email to %s failed: %v", profile.User.Email, err)
		}
	}
	return nil
}
