package users

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// sliceConverter lets []string reach the mock as-is, mirroring the pgx
// stdlib driver, which accepts slice parameters via driver.NamedValueChecker;
// everything else goes through the default converter.
type sliceConverter struct{}

func (sliceConverter) ConvertValue(v any) (driver.Value, error) {
	if _, ok := v.([]string); ok {
		return v, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.ValueConverterOption(sliceConverter{}))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleUser(now time.Time) *models.User {
	return &models.User{
		Username:     "alice",
		PasswordHash: "$2a$12$hash",
		FirstName:    "Alice",
		LastName:     "A",
		Phone:        "555-0001",
		JoinAt:       now,
		LastLoginAt:  now,
	}
}

const insertQ = `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*password,\s*first_name,\s*last_name,\s*phone,\s*join_at,\s*last_login_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	u := sampleUser(now)

	mock.ExpectExec(insertQ).
		WithArgs("alice", "$2a$12$hash", "Alice", "A", "555-0001", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DuplicateUsername(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(insertQ).
		WithArgs("alice", "$2a$12$hash", "Alice", "A", "555-0001", now, now).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), sampleUser(now))
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want common.ErrorConflict, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(insertQ).
		WithArgs("alice", "$2a$12$hash", "Alice", "A", "555-0001", now, now).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), sampleUser(now))
	if !errors.Is(err, common.ErrorStorage) {
		t.Fatalf("want common.ErrorStorage, got %v", err)
	}
	if !regexp.MustCompile(`db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

const selectQ = `(?s)^SELECT\s+username,\s*password,\s*first_name,\s*last_name,\s*phone,\s*join_at,\s*last_login_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`

func TestGetByUsername_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"username", "password", "first_name", "last_name", "phone", "join_at", "last_login_at"}).
		AddRow("alice", "$2a$12$hash", "Alice", "A", "555-0001", now, now)
	mock.ExpectQuery(selectQ).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if got.Username != "alice" || got.PasswordHash != "$2a$12$hash" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestList_Ordered(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+users\s+ORDER\s+BY\s+username\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"username", "password", "first_name", "last_name", "phone", "join_at", "last_login_at"}).
		AddRow("alice", "h1", "Alice", "A", "555-0001", now, now).
		AddRow("bob", "h2", "Bob", "B", "555-0002", now, now)
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].Username != "alice" || got[1].Username != "bob" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestListByUsernames(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+users\s+WHERE\s+username\s*=\s*ANY\(\$1\)\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"username", "password", "first_name", "last_name", "phone", "join_at", "last_login_at"}).
		AddRow("bob", "h2", "Bob", "B", "555-0002", now, now)
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.ListByUsernames(context.Background(), []string{"bob", "ghost"})
	if err != nil {
		t.Fatalf("ListByUsernames error: %v", err)
	}
	if len(got) != 1 || got[0].Username != "bob" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

const updateLoginQ = `(?s)^UPDATE\s+users\s+SET\s+last_login_at\s*=\s*\$2\s+WHERE\s+username\s*=\s*\$1\s*$`

func TestUpdateLastLogin_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(updateLoginQ).
		WithArgs("alice", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateLastLogin(context.Background(), "alice", now); err != nil {
		t.Fatalf("UpdateLastLogin error: %v", err)
	}
}

func TestUpdateLastLogin_UnknownUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(updateLoginQ).
		WithArgs("ghost", now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateLastLogin(context.Background(), "ghost", now)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
