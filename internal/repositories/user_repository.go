package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"etugal/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	CreateProfile(ctx context.Context, profile *models.UserProfile) error
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindProfileByID(ctx context.Context, id int64) (*models.UserProfile, error)
	FindProfileByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
	FindProfileByUsername(ctx context.Context, email string) (*models.UserProfile, error)
	UpdateTrust(ctx context.Context, profile *models.UserProfile) error
	UpdateVerification(ctx context.Context, profile *models.UserProfile) error
	SearchProfilesByName(ctx context.Context, query string) ([]*models.UserProfile, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const profileColumns = `
	p.id, p.user_id, p.birthdate, p.address, p.contact_number, p.gender,
	p.verification_status, p.verification_remarks, p.telegram_chat_id,
	p.is_suspended, p.suspension_reason, p.suspended_until,
	p.is_terminated, p.termination_reason, p.created_at, p.updated_at,
	u.id, u.email, u.first_name, u.last_name, u.is_admin`

func scanProfile(row interface{ Scan(...interface{}) error }) (*models.UserProfile, error) {
	p := &models.UserProfile{User: &models.User{}}
	err := row.Scan(
		&p.ID, &p.UserID, &p.Birthdate, &p.Address, &p.ContactNumber, &p.Gender,
		&p.VerificationStatus, &p.VerificationRemarks, &p.TelegramChatID,
		&p.IsSuspended, &p.SuspensionReason, &p.SuspendedUntil,
		&p.IsTerminated, &p.TerminationReason, &p.CreatedAt, &p.UpdatedAt,
		&p.User.ID, &p.User.Email, &p.User.FirstName, &p.User.LastName, &p.User.IsAdmin,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, first_name, last_name, password_hash, is_admin)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		user.Email, user.FirstName, user.LastName, user.PasswordHash, user.IsAdmin,
	).Scan(&user.ID)
}

func (r *userRepository) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (
			user_id, birthdate, address, contact_number, gender,
			verification_status, telegram_chat_id
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		profile.UserID, profile.Birthdate, profile.Address, profile.ContactNumber,
		profile.Gender, profile.VerificationStatus, profile.TelegramChatID,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *userRepository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, email, first_name, last_name, password_hash, is_admin FROM users WHERE id = $1`
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.IsAdmin,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, first_name, last_name, password_hash, is_admin FROM users WHERE email = $1`
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.IsAdmin,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) FindProfileByID(ctx context.Context, id int64) (*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + `
		FROM user_profiles p JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *userRepository) FindProfileByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + `
		FROM user_profiles p JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1`
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// FindProfileByUsername resolves a profile by the login name (email); the
// chat transport identifies senders this way.
func (r *userRepository) FindProfileByUsername(ctx context.Context, email string) (*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + `
		FROM user_profiles p JOIN users u ON u.id = p.user_id
		WHERE u.email = $1`
	p, err := scanProfile(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *userRepository) UpdateTrust(ctx context.Context, profile *models.UserProfile) error {
	query := `
		UPDATE user_profiles SET
			is_suspended=$1, suspension_reason=$2, suspended_until=$3,
			is_terminated=$4, termination_reason=$5, updated_at=NOW()
		WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query,
		profile.IsSuspended, profile.SuspensionReason, profile.SuspendedUntil,
		profile.IsTerminated, profile.TerminationReason, profile.ID,
	)
	return err
}

func (r *userRepository) UpdateVerification(ctx context.Context, profile *models.UserProfile) error {
	query := `
		UPDATE user_profiles SET
			verification_status=$1, verification_remarks=$2, updated_at=NOW()
		WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query,
		profile.VerificationStatus, profile.VerificationRemarks, profile.ID,
	)
	return err
}

func (r *userRepository) SearchProfilesByName(ctx context.Context, q string) ([]*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + `
		FROM user_profiles p JOIN users u ON u.id = p.user_id
		WHERE u.first_name ILIKE '%' || $1 || '%' OR u.last_name ILIKE '%' || $1 || '%'
		ORDER BY u.last_name`
	rows, err := r.db.QueryContext(ctx, query, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
