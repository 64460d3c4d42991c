package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"etugal/internal/models"
	"etugal/internal/repositories"
)

type UserService interface {
	Register(ctx context.Context, user *models.User, profile *models.UserProfile, plainPassword string) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetProfileByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
	GetProfileByID(ctx context.Context, profileID int64) (*models.UserProfile, error)
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
	authService  AuthService
}

func NewUserService(repo repositories.UserRepository, emailService EmailService, authService AuthService) UserService {
	return &userService{
		repo:         repo,
		emailService: emailService,
		authService:  authService,
	}
}

// Register creates the user and its 1:1 profile. The welcome email is
// best-effort and never fails the registration.
func (s *userService) Register(ctx context.Context, user *models.User, profile *models.UserProfile, plainPassword string) error {
	if strings.TrimSpace(plainPassword) == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	if existing, err := s.repo.FindUserByEmail(ctx, user.Email); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("%w: email already exists", ErrValidation)
	}

	hashed, err := s.authService.HashPassword(plainPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return err
	}

	profile.UserID = user.ID
	if profile.VerificationStatus == "" {
		profile.VerificationStatus = models.VerificationUnverified
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return err
	}
	profile.User = user

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.FullName()); err != nil {
			log.Printf("[user][register][warn] welcome email to %s failed: %v", user.Email, err)
		}
	}
	return nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.FindUserByEmail(ctx, email)
}

func (s *userService) GetProfileByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	return s.repo.FindProfileByUserID(ctx, userID)
}

func (s *userService) GetProfileByID(ctx context.Context, profileID int64) (*models.UserProfile, error) {
	return s.repo.FindProfileByID(ctx, profileID)
}
