package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mediatube/accounts/internal/common"
	"github.com/mediatube/accounts/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRows(refreshToken any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "full_name", "avatar_url",
		"cover_image_url", "password_hash", "current_refresh_token",
		"created_at", "updated_at",
	}).AddRow("u-1", "alice", "alice@example.com", "Alice A", "", "", "hash", refreshToken, now, now)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u-42", now, now)
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users`).
		WithArgs("alice", "alice@example.com", "Alice A", "", "", "hash").
		WillReturnRows(rows)

	u := &models.User{Username: "alice", Email: "alice@example.com", FullName: "Alice A", PasswordHash: "hash"}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-42" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DuplicateUsernameOrEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err := repo.Create(context.Background(), &models.User{Username: "alice"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestGetByUsername_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1`).
		WithArgs("alice").
		WillReturnRows(userRows("rt-1"))

	got, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if got.ID != "u-1" || got.RefreshToken != "rt-1" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_NullRefreshTokenMapsToEmpty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnRows(userRows(nil))

	got, err := repo.GetByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.RefreshToken != "" {
		t.Fatalf("expected empty refresh token, got %q", got.RefreshToken)
	}
}

func TestSwapRefreshToken_Match(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+current_refresh_token\s*=\s*\$3.*WHERE\s+id\s*=\s*\$1\s+AND\s+current_refresh_token\s*=\s*\$2`).
		WithArgs("u-1", "old", "new").
		WillReturnResult(sqlmock.NewResult(0, 1))

	swapped, err := repo.SwapRefreshToken(context.Background(), "u-1", "old", "new")
	if err != nil {
		t.Fatalf("SwapRefreshToken error: %v", err)
	}
	if !swapped {
		t.Fatal("expected swap to succeed")
	}
}

func TestSwapRefreshToken_Mismatch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+current_refresh_token\s*=\s*\$3`).
		WithArgs("u-1", "stale", "new").
		WillReturnResult(sqlmock.NewResult(0, 0))

	swapped, err := repo.SwapRefreshToken(context.Background(), "u-1", "stale", "new")
	if err != nil {
		t.Fatalf("SwapRefreshToken error: %v", err)
	}
	if swapped {
		t.Fatal("expected swap to fail for stale token")
	}
}

func TestSetRefreshToken_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+current_refresh_token\s*=\s*\$2`).
		WithArgs("u-1", "rt").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetRefreshToken(context.Background(), "u-1", "rt"); err != nil {
		t.Fatalf("SetRefreshToken error: %v", err)
	}
}

func TestClearRefreshToken_UnknownAccount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+current_refresh_token\s*=\s*NULL`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ClearRefreshToken(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdatePassword_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$2`).
		WithArgs("u-1", "newhash").
		WillReturnError(errors.New("db down"))

	err := repo.UpdatePassword(context.Background(), "u-1", "newhash")
	if err == nil {
		t.Fatal("expected wrapped db error")
	}
}
