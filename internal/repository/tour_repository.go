// Package repository contains data access logic separated from HTTP
// handlers. This file covers the tour aggregate: fetch-with-children,
// create, destructive full replace, status patch and cascading delete.
// A tour owns its steps, each step owns its annotations, and all multi-row
// writes run inside a single transaction so a failure partway leaves the
// previous consistent state.
package repository

import (
	"context"      // context allows passing deadlines and cancellation to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used for sentinel definitions and errors.Is

	"github.com/tourify/tourify/internal/model"
)

// ErrTourNotFound is returned when a tour cannot be found in the DB.
var ErrTourNotFound = errors.New("tour not found")

// TourRepo encapsulates all database queries related to tours and their
// nested steps and annotations.
type TourRepo struct {
	db *sql.DB // underlying connection pool
}

// NewTourRepo constructs a TourRepo with the provided DB handle.
func NewTourRepo(db *sql.DB) *TourRepo {
	return &TourRepo{db: db}
}

// Create inserts a new tour together with any nested steps and annotations
// in one transaction. Step order must already be dense and zero-based
// (model.SanitizeSteps). On success the tour's ID, timestamps and child IDs
// are populated.
func (r *TourRepo) Create(ctx context.Context, t *model.Tour) error {
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

	const qInsert = `INSERT INTO tours (owner_id, title, description, status) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert, t.OwnerID, t.Title, nullString(t.Description), t.Status)
	if err != nil {
		return err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return err
	}
	t.ID = uint64(id)

	if err = insertSteps(ctx, tx, t.ID, t.Steps); err != nil {
		return err
	}

	// Follow-up SELECT to populate the DB-assigned timestamp fields.
	const qSelect = `SELECT created_at, updated_at FROM tours WHERE id = ?`
	err = tx.QueryRowContext(ctx, qSelect, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
	return err
}

// GetByIDAndOwner fetches a full tour document for its owner, steps ordered
// by step_order ascending with annotations attached. It returns
// ErrTourNotFound when no such tour exists and ErrForbidden when the tour
// belongs to someone else.
func (r *TourRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Tour, error) {
	t, err := r.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	if t.Steps, err = r.loadSteps(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID fetches a full tour document without an ownership filter. Used by
// the share-token viewer path after the share descriptor has been checked.
func (r *TourRepo) GetByID(ctx context.Context, id uint64) (*model.Tour, error) {
	t, err := r.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Steps, err = r.loadSteps(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

// GetPublished fetches a full tour document only when its status is
// "published". Any other case, including a tour that exists but is draft or
// private, comes back as ErrTourNotFound so callers cannot distinguish an
// unpublished tour from a missing one.
func (r *TourRepo) GetPublished(ctx context.Context, id uint64) (*model.Tour, error) {
	const q = `SELECT id, owner_id, title, description, status, created_at, updated_at
	           FROM tours WHERE id = ? AND status = ?`
	t, err := scanTour(r.db.QueryRowContext(ctx, q, id, model.StatusPublished))
	if err != nil {
		return nil, err
	}
	if t.Steps, err = r.loadSteps(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

// ListByOwner returns all tours owned by ownerID, each with ordered steps
// and annotations, ordered by id.
func (r *TourRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Tour, error) {
	const q = `SELECT id, owner_id, title, description, status, created_at, updated_at
	           FROM tours WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Tour
	for rows.Next() {
		var (
			t    model.Tour
			desc sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &desc, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			t.Description = &desc.String
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range out {
		if t.Steps, err = r.loadSteps(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Replace performs the destructive full-replace update: within one
// transaction, every existing step and annotation of the tour is deleted
// and the supplied steps are inserted fresh, then the tour metadata is
// updated. There is no diffing of individual steps; two concurrent calls
// are last-writer-wins.
func (r *TourRepo) Replace(ctx context.Context, t *model.Tour) error {
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

	if err = checkOwner(ctx, tx, t.ID, t.OwnerID); err != nil {
		return err
	}

	// Wipe children first: annotations hang off steps, steps off the tour.
	if _, err = tx.ExecContext(ctx,
		`DELETE a FROM annotations a
		 JOIN steps s ON s.id = a.step_id
		 WHERE s.tour_id = ?`, t.ID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM steps WHERE tour_id = ?`, t.ID); err != nil {
		return err
	}

	const qUpdate = `UPDATE tours
	                 SET title = ?, description = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	                 WHERE id = ?`
	if _, err = tx.ExecContext(ctx, qUpdate, t.Title, nullString(t.Description), t.Status, t.ID); err != nil {
		return err
	}

	err = insertSteps(ctx, tx, t.ID, t.Steps)
	return err
}

// UpdateStatus patches only the lifecycle status of a tour. All transitions
// between draft, published and private are legal; validation of the value
// happens in the handler.
func (r *TourRepo) UpdateStatus(ctx context.Context, id, ownerID uint64, status string) error {
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

	if err = checkOwner(ctx, tx, id, ownerID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE tours SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id)
	return err
}

// DeleteByIDAndOwner removes a tour and all dependent records (steps,
// annotations, share descriptor) provided it belongs to the specified
// owner. The deletion occurs within a transaction to maintain integrity.
func (r *TourRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
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

	if err = checkOwner(ctx, tx, id, ownerID); err != nil {
		return err
	}

	// Cascade: annotations -> steps -> share descriptor -> tour.
	if _, err = tx.ExecContext(ctx,
		`DELETE a FROM annotations a
		 JOIN steps s ON s.id = a.step_id
		 WHERE s.tour_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM steps WHERE tour_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM tour_shares WHERE tour_id = ?`, id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM tours WHERE id = ?`, id)
	return err
}

// getByID loads tour metadata only (no children).
func (r *TourRepo) getByID(ctx context.Context, id uint64) (*model.Tour, error) {
	const q = `SELECT id, owner_id, title, description, status, created_at, updated_at
	           FROM tours WHERE id = ?`
	return scanTour(r.db.QueryRowContext(ctx, q, id))
}

// scanTour scans one tour row, mapping sql.ErrNoRows to ErrTourNotFound.
func scanTour(row *sql.Row) (*model.Tour, error) {
	var (
		t    model.Tour
		desc sql.NullString
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &desc, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	if desc.Valid {
		t.Description = &desc.String
	}
	return &t, nil
}

// checkOwner verifies inside a transaction that the tour exists and belongs
// to ownerID. Returns ErrTourNotFound or ErrForbidden accordingly.
func checkOwner(ctx context.Context, tx *sql.Tx, id, ownerID uint64) error {
	var dbOwnerID uint64
	err := tx.QueryRowContext(ctx, `SELECT owner_id FROM tours WHERE id = ?`, id).Scan(&dbOwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTourNotFound
		}
		return err
	}
	if dbOwnerID != ownerID {
		return ErrForbidden
	}
	return nil
}

// insertSteps inserts the given steps and their annotations for a tour.
// Annotations of one step go in as a single multi-VALUES statement; their
// generated IDs are not read back because callers re-fetch the document.
func insertSteps(ctx context.Context, tx *sql.Tx, tourID uint64, steps []model.Step) error {
	const qStep = `INSERT INTO steps (tour_id, step_order, image_url, video_url, description)
	               VALUES (?, ?, ?, ?, ?)`
	for i := range steps {
		s := &steps[i]
		res, err := tx.ExecContext(ctx, qStep, tourID, s.StepOrder,
			nullString(s.ImageURL), nullString(s.VideoURL), nullString(s.Description))
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		s.ID = uint64(id)
		s.TourID = tourID

		if len(s.Annotations) == 0 {
			continue
		}
		q := `INSERT INTO annotations (step_id, text, x, y) VALUES `
		args := make([]any, 0, len(s.Annotations)*4)
		for j, a := range s.Annotations {
			if j > 0 {
				q += ", "
			}
			q += "(?, ?, ?, ?)"
			args = append(args, s.ID, a.Text, a.X, a.Y)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

// loadSteps returns the tour's steps ordered by step_order ascending, each
// with its annotations attached. Annotations are fetched with one JOIN
// query and grouped by step in memory.
func (r *TourRepo) loadSteps(ctx context.Context, tourID uint64) ([]model.Step, error) {
	const qSteps = `SELECT id, tour_id, step_order, image_url, video_url, description
	                FROM steps WHERE tour_id = ? ORDER BY step_order ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, qSteps, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := make([]model.Step, 0)
	index := make(map[uint64]int) // step id -> position in steps
	for rows.Next() {
		var (
			s                 model.Step
			img, video, descr sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.TourID, &s.StepOrder, &img, &video, &descr); err != nil {
			return nil, err
		}
		if img.Valid {
			s.ImageURL = &img.String
		}
		if video.Valid {
			s.VideoURL = &video.String
		}
		if descr.Valid {
			s.Description = &descr.String
		}
		s.Annotations = make([]model.Annotation, 0)
		index[s.ID] = len(steps)
		steps = append(steps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return steps, nil
	}

	const qAnns = `SELECT a.id, a.step_id, a.text, a.x, a.y
	               FROM annotations a
	               JOIN steps s ON s.id = a.step_id
	               WHERE s.tour_id = ?`
	annRows, err := r.db.QueryContext(ctx, qAnns, tourID)
	if err != nil {
		return nil, err
	}
	defer annRows.Close()

	for annRows.Next() {
		var a model.Annotation
		if err := annRows.Scan(&a.ID, &a.StepID, &a.Text, &a.X, &a.Y); err != nil {
			return nil, err
		}
		if pos, ok := index[a.StepID]; ok {
			steps[pos].Annotations = append(steps[pos].Annotations, a)
		}
	}
	if err := annRows.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

// nullString maps an optional string to its SQL representation.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
