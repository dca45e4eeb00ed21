package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions

	"github.com/tourify/tourify/internal/model"
)

// ErrStepNotFound is returned when a step lookup fails.
var ErrStepNotFound = errors.New("step not found")

// StepRepo provides the per-step mutations that do not go through the
// full-replace path: swapping a step's media and adding or removing single
// annotations. Ownership is always resolved through the parent tour.
type StepRepo struct {
	db *sql.DB // underlying database connection
}

// NewStepRepo constructs a StepRepo with the given DB handle.
func NewStepRepo(db *sql.DB) *StepRepo {
	return &StepRepo{db: db}
}

// AttachMedia replaces the step's media reference and deletes all of its
// annotations in the same transaction. Annotations are positioned against a
// specific image or video; against different media they are meaningless, so
// clearing them is a consistency rule, not a side effect. kind selects
// which column is set; the other one is nulled.
func (r *StepRepo) AttachMedia(ctx context.Context, tourID, stepID, ownerID uint64, url, kind string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if err = r.checkStep(ctx, tx, tourID, stepID, ownerID); err != nil {
		return err
	}

	var q string
	if kind == model.MediaVideo {
		q = `UPDATE steps SET video_url = ?, image_url = NULL WHERE id = ?`
	} else {
		q = `UPDATE steps SET image_url = ?, video_url = NULL WHERE id = ?`
	}
	if _, err = tx.ExecContext(ctx, q, url, stepID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM annotations WHERE step_id = ?`, stepID); err != nil {
		return err
	}
	err = touchTour(ctx, tx, tourID)
	return err
}

// AddAnnotation appends one annotation to a step. Text validation and
// coordinate clamping happen in the handler via the model helpers; the
// repository only persists. On success a.ID and a.StepID are populated.
func (r *StepRepo) AddAnnotation(ctx context.Context, tourID, stepID, ownerID uint64, a *model.Annotation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if err = r.checkStep(ctx, tx, tourID, stepID, ownerID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO annotations (step_id, text, x, y) VALUES (?, ?, ?, ?)`,
		stepID, a.Text, a.X, a.Y)
	if err != nil {
		return err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return err
	}
	a.ID = uint64(id)
	a.StepID = stepID

	err = touchTour(ctx, tx, tourID)
	return err
}

// RemoveAnnotation deletes one annotation from a step. Removing an id that
// does not exist (or was already removed) is a no-op, not an error.
func (r *StepRepo) RemoveAnnotation(ctx context.Context, tourID, stepID, ownerID, annotationID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if err = r.checkStep(ctx, tx, tourID, stepID, ownerID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM annotations WHERE id = ? AND step_id = ?`, annotationID, stepID); err != nil {
		return err
	}
	err = touchTour(ctx, tx, tourID)
	return err
}

// checkStep verifies that the step exists inside the given tour and that
// the tour belongs to ownerID. Missing tour or step yields the respective
// not-found sentinel; a foreign tour yields ErrForbidden.
func (r *StepRepo) checkStep(ctx context.Context, tx *sql.Tx, tourID, stepID, ownerID uint64) error {
	if err := checkOwner(ctx, tx, tourID, ownerID); err != nil {
		return err
	}
	var id uint64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM steps WHERE id = ? AND tour_id = ?`, stepID, tourID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStepNotFound
		}
		return err
	}
	return nil
}

// touchTour refreshes the parent tour's updated_at; every mutation of the
// document, however small, counts as an update of the tour.
func touchTour(ctx context.Context, tx *sql.Tx, tourID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE tours SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, tourID)
	return err
}
