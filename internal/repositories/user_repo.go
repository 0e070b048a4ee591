package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"tivastore/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a row is absent or not owned by the
// requesting tenant. Handlers map it to 404 without distinguishing the two
// cases.
var ErrNotFound = errors.New("not found")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	SetStoreID(ctx context.Context, userID, storeID uuid.UUID) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	SetResetToken(ctx context.Context, userID uuid.UUID, token string, expires time.Time) error
	ClearResetToken(ctx context.Context, userID uuid.UUID) error
	ClearExpiredResetTokens(ctx context.Context) (int64, error)
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, store_id, name, email, password_hash, phone, role, is_active, last_login, avatar, reset_password_token, reset_password_expires, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.StoreID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Phone, &user.Role, &user.IsActive, &user.LastLogin, &user.Avatar,
		&user.ResetPasswordToken, &user.ResetPasswordExpires, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, store_id, name, email, password_hash, phone, role, is_active, avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.StoreID, user.Name, strings.ToLower(user.Email),
		user.PasswordHash, user.Phone, user.Role, user.IsActive, user.Avatar)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, strings.ToLower(email)))
}

// GetByResetToken matches the token exactly and requires it to be
// unexpired.
func (r *userRepo) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_password_token = $1 AND reset_password_expires > NOW()
	`
	return scanUser(r.db.QueryRow(ctx, query, token))
}

func (r *userRepo) SetStoreID(ctx context.Context, userID, storeID uuid.UUID) error {
	query := `UPDATE users SET store_id = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, storeID, userID)
	return err
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	query := `UPDATE users SET last_login = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, at, userID)
	return err
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, passwordHash, userID)
	return err
}

func (r *userRepo) SetResetToken(ctx context.Context, userID uuid.UUID, token string, expires time.Time) error {
	query := `
		UPDATE users
		SET reset_password_token = $1, reset_password_expires = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, token, expires, userID)
	return err
}

func (r *userRepo) ClearResetToken(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE users
		SET reset_password_token = NULL, reset_password_expires = NULL, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *userRepo) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	query := `
		UPDATE users
		SET reset_password_token = NULL, reset_password_expires = NULL, updated_at = NOW()
		WHERE reset_password_token IS NOT NULL AND reset_password_expires <= NOW()
	`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
