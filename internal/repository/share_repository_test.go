package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newShareRepoMock(t *testing.T) (*ShareRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewShareRepo(db), mock, db
}

const (
	qShareByTour = `(?s)SELECT\s+id,\s*tour_id,\s*share_id,.*FROM\s+tour_shares\s+WHERE\s+tour_id\s*=\s*\?`
	qShareInsert = `INSERT\s+INTO\s+tour_shares\s+\(tour_id,\s*share_id,\s*is_public\)\s+VALUES\s+\(\?,\s*\?,\s*FALSE\)`
)

func shareRow(token string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(
		[]string{"id", "tour_id", "share_id", "is_public", "password_hash", "expires_at", "created_at", "updated_at"}).
		AddRow(int64(1), int64(5), token, false, nil, nil, now, now)
}

// The first GetOrCreate mints a token; the second returns the same token
// with no further INSERT. The ordered expectations hold exactly one insert,
// so a second one would fail the mock.
func TestGetOrCreateShareTokenStable(t *testing.T) {
	repo, mock, db := newShareRepoMock(t)
	defer db.Close()

	const token = "aabbccddeeff00112233445566778899"

	// First call: no row yet, insert, re-read.
	mock.ExpectQuery(qShareByTour).WithArgs(int64(5)).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(qShareInsert).
		WithArgs(int64(5), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(qShareByTour).WithArgs(int64(5)).WillReturnRows(shareRow(token))

	// Second call: the stored row answers directly.
	mock.ExpectQuery(qShareByTour).WithArgs(int64(5)).WillReturnRows(shareRow(token))

	first, err := repo.GetOrCreate(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := repo.GetOrCreate(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ShareID != token || second.ShareID != token {
		t.Fatalf("token changed between calls: %q then %q", first.ShareID, second.ShareID)
	}
	if first.IsPublic || second.IsPublic {
		t.Fatalf("descriptor must start private: %+v", second)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Two requests racing on the first GetOrCreate: the loser's INSERT hits the
// unique tour_id key and must re-read the winner's row instead of failing.
func TestGetOrCreateShareLosesRace(t *testing.T) {
	repo, mock, db := newShareRepoMock(t)
	defer db.Close()

	const token = "00112233445566778899aabbccddeeff"

	mock.ExpectQuery(qShareByTour).WithArgs(int64(5)).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(qShareInsert).
		WithArgs(int64(5), sqlmock.AnyArg()).
		WillReturnError(errors.New("Error 1062: Duplicate entry '5' for key 'tour_id'"))
	mock.ExpectQuery(qShareByTour).WithArgs(int64(5)).WillReturnRows(shareRow(token))

	d, err := repo.GetOrCreate(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ShareID != token {
		t.Fatalf("want winner's token %q, got %q", token, d.ShareID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
