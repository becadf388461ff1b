package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mediatube/accounts/internal/common"
	"github.com/mediatube/accounts/internal/dbx"
	"github.com/mediatube/accounts/internal/server/models"
)

const uniqueViolationCode = "23505"

const userColumns = `id, username, email, full_name, avatar_url, cover_image_url, password_hash, current_refresh_token, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, email, full_name, avatar_url, cover_image_url, password_hash)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at
         `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FullName, user.AvatarURL, user.CoverImageURL, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.getOne(ctx, query, username)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {

	user := &models.User{}
	var refreshToken sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.AvatarURL, &user.CoverImageURL, &user.PasswordHash,
		&refreshToken, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	user.RefreshToken = refreshToken.String

	return user, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, fullName, email string) (*models.User, error) {

	query :=
		`UPDATE users SET full_name = $2, email = $3, updated_at = now()
         WHERE id = $1
         RETURNING ` + userColumns

	user := &models.User{}
	var refreshToken sql.NullString

	err := r.db.QueryRowContext(ctx, query, id, fullName, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.AvatarURL, &user.CoverImageURL, &user.PasswordHash,
		&refreshToken, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	user.RefreshToken = refreshToken.String

	return user, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, query, id, passwordHash)
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id, url string) error {
	query := `UPDATE users SET avatar_url = $2, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, query, id, url)
}

func (r *PostgresRepository) UpdateCoverImage(ctx context.Context, id, url string) error {
	query := `UPDATE users SET cover_image_url = $2, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, query, id, url)
}

func (r *PostgresRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	query := `UPDATE users SET current_refresh_token = $2, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, query, id, token)
}

func (r *PostgresRepository) SwapRefreshToken(ctx context.Context, id, oldToken, newToken string) (bool, error) {

	// the conditional update is the anti-replay guard: only the request
	// presenting the currently stored token wins the rotation
	query :=
		`UPDATE users SET current_refresh_token = $3, updated_at = now()
         WHERE id = $1 AND current_refresh_token = $2`

	res, err := r.db.ExecContext(ctx, query, id, oldToken, newToken)
	if err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}

	return n == 1, nil
}

func (r *PostgresRepository) ClearRefreshToken(ctx context.Context, id string) error {
	query := `UPDATE users SET current_refresh_token = NULL, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, query, id)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
