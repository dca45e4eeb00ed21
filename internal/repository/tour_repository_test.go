package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tourify/tourify/internal/model"
)

func newTourRepoMock(t *testing.T) (*TourRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewTourRepo(db), mock, db
}

const (
	qOwnerCheck     = `SELECT\s+owner_id\s+FROM\s+tours\s+WHERE\s+id\s*=\s*\?`
	qDelAnnotations = `(?s)DELETE\s+a\s+FROM\s+annotations\s+a\s+JOIN\s+steps\s+s\b.*WHERE\s+s\.tour_id\s*=\s*\?`
	qDelSteps       = `DELETE\s+FROM\s+steps\s+WHERE\s+tour_id\s*=\s*\?`
	qDelShares      = `DELETE\s+FROM\s+tour_shares\s+WHERE\s+tour_id\s*=\s*\?`
	qDelTour        = `DELETE\s+FROM\s+tours\s+WHERE\s+id\s*=\s*\?`
	qUpdateTour     = `(?s)UPDATE\s+tours\s+SET\s+title\s*=\s*\?`
	qInsertStep     = `(?s)INSERT\s+INTO\s+steps\b`
	qInsertAnns     = `INSERT\s+INTO\s+annotations\b`
)

// Replace must wipe every existing step and annotation before inserting the
// supplied list, all in one transaction, so no orphaned child rows can
// survive a full replace. Expectations are ordered: the two child DELETEs
// come first, the fresh INSERTs last.
func TestReplaceDeletesChildrenBeforeInsert(t *testing.T) {
	repo, mock, db := newTourRepoMock(t)
	defer db.Close()

	desc := "look here"
	tour := &model.Tour{
		ID:      5,
		OwnerID: 9,
		Title:   "New title",
		Status:  model.StatusDraft,
		Steps: []model.Step{
			{StepOrder: 0, Annotations: []model.Annotation{{Text: "look", X: 10, Y: 20}}},
			{StepOrder: 1, Description: &desc},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(qOwnerCheck).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(int64(9)))
	mock.ExpectExec(qDelAnnotations).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(qDelSteps).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(qUpdateTour).
		WithArgs("New title", sqlmock.AnyArg(), model.StatusDraft, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qInsertStep).
		WithArgs(int64(5), int64(0), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectExec(qInsertAnns).
		WithArgs(int64(101), "look", 10.0, 20.0).
		WillReturnResult(sqlmock.NewResult(201, 1))
	mock.ExpectExec(qInsertStep).
		WithArgs(int64(5), int64(1), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(102, 1))
	mock.ExpectCommit()

	if err := repo.Replace(context.Background(), tour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tour.Steps[0].ID != 101 || tour.Steps[1].ID != 102 {
		t.Fatalf("step ids not populated: %+v", tour.Steps)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReplaceForeignTourForbidden(t *testing.T) {
	repo, mock, db := newTourRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(qOwnerCheck).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(int64(8)))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), &model.Tour{ID: 5, OwnerID: 9, Title: "x", Status: model.StatusDraft})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Deleting a tour must cascade over annotations, steps and the share
// descriptor before removing the tour row, in that order, inside one
// transaction.
func TestDeleteCascadesAllChildren(t *testing.T) {
	repo, mock, db := newTourRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(qOwnerCheck).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(int64(9)))
	mock.ExpectExec(qDelAnnotations).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(qDelSteps).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(qDelShares).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qDelTour).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.DeleteByIDAndOwner(context.Background(), 5, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteMissingTour(t *testing.T) {
	repo, mock, db := newTourRepoMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(qOwnerCheck).
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.DeleteByIDAndOwner(context.Background(), 5, 9)
	if !errors.Is(err, ErrTourNotFound) {
		t.Fatalf("want ErrTourNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetPublishedFiltersByStatus(t *testing.T) {
	repo, mock, db := newTourRepoMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+id,\s*owner_id,\s*title,.*FROM\s+tours\s+WHERE\s+id\s*=\s*\?\s+AND\s+status\s*=\s*\?`
	now := time.Now().UTC()

	mock.ExpectQuery(q).
		WithArgs(int64(5), model.StatusPublished).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "owner_id", "title", "description", "status", "created_at", "updated_at"}).
			AddRow(int64(5), int64(9), "Tour", nil, model.StatusPublished, now, now))
	mock.ExpectQuery(`(?s)SELECT\s+id,\s*tour_id,\s*step_order,.*FROM\s+steps\s+WHERE\s+tour_id\s*=\s*\?`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "tour_id", "step_order", "image_url", "video_url", "description"}))

	got, err := repo.GetPublished(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 5 || got.Status != model.StatusPublished {
		t.Fatalf("unexpected tour: %+v", got)
	}

	// Draft or private rows never match the status predicate, so the same
	// lookup comes back as not-found.
	mock.ExpectQuery(q).
		WithArgs(int64(6), model.StatusPublished).
		WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetPublished(context.Background(), 6); !errors.Is(err, ErrTourNotFound) {
		t.Fatalf("want ErrTourNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
