// Package model defines the persisted row types shared by repositories and
// handlers, together with the pure validation rules applied before any row
// is written: tour status values, dense step ordering and annotation
// coordinate clamping.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tourify/tourify/internal/geometry"
)

// Tour lifecycle states. Every transition between them is legal; only
// StatusPublished exposes a tour on the public fetch path.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusPrivate   = "private"
)

// Media kinds accepted for a step.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// ErrEmptyTitle is returned when a tour is created or replaced without a title.
var ErrEmptyTitle = errors.New("title is required")

// Tour represents a row in the `tours` table plus its ordered steps.
// OwnerID is never serialized into API responses.
type Tour struct {
	ID          uint64    `json:"id"`          // tours.id
	OwnerID     uint64    `json:"-"`           // tours.owner_id
	Title       string    `json:"title"`       // tours.title
	Description *string   `json:"description"` // tours.description (nullable)
	Status      string    `json:"status"`      // tours.status
	CreatedAt   time.Time `json:"created_at"`  // tours.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // tours.updated_at
	Steps       []Step    `json:"steps"`       // ordered by step_order ascending
}

// Step represents one slide of a tour: a media reference plus its
// annotations. Annotations carry no order; steps do, via StepOrder.
type Step struct {
	ID          uint64       `json:"id"`          // steps.id
	TourID      uint64       `json:"tour_id"`     // steps.tour_id
	StepOrder   uint32       `json:"step_order"`  // zero-based display position
	ImageURL    *string      `json:"image_url"`   // steps.image_url (nullable)
	VideoURL    *string      `json:"video_url"`   // steps.video_url (nullable)
	Description *string      `json:"description"` // steps.description (nullable)
	Annotations []Annotation `json:"annotations"` // unordered within the step
}

// Annotation is a positioned text callout on a step's media. X and Y are
// percentages of the media bounding box, always inside [0,100].
type Annotation struct {
	ID     uint64  `json:"id"`      // annotations.id
	StepID uint64  `json:"step_id"` // annotations.step_id
	Text   string  `json:"text"`    // annotations.text
	X      float64 `json:"x"`       // horizontal percent position
	Y      float64 `json:"y"`       // vertical percent position
}

// StepInput is the client-supplied shape of a step inside create/replace
// requests. The position in the input slice becomes the step's order.
type StepInput struct {
	ImageURL    *string           `json:"image_url"`
	VideoURL    *string           `json:"video_url"`
	Description *string           `json:"description"`
	Annotations []AnnotationInput `json:"annotations"`
}

// AnnotationInput is the client-supplied shape of an annotation.
type AnnotationInput struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ValidStatus reports whether s is one of the three tour states.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusPrivate:
		return true
	}
	return false
}

// ValidMediaKind reports whether k names a supported media kind.
func ValidMediaKind(k string) bool {
	return k == MediaImage || k == MediaVideo
}

// NormalizeTitle trims the title and rejects an empty result.
func NormalizeTitle(raw string) (string, error) {
	t := strings.TrimSpace(raw)
	if t == "" {
		return "", ErrEmptyTitle
	}
	return t, nil
}

// SanitizeSteps converts client step inputs into insertable Step values.
// Each step receives a dense zero-based StepOrder equal to its slice index,
// and every annotation is clamped into the [0,100] percentage box. An
// annotation with empty text fails the whole batch so a replace never
// half-applies.
func SanitizeSteps(inputs []StepInput) ([]Step, error) {
	steps := make([]Step, 0, len(inputs))
	for i, in := range inputs {
		s := Step{
			StepOrder:   uint32(i),
			ImageURL:    in.ImageURL,
			VideoURL:    in.VideoURL,
			Description: in.Description,
		}
		for j, a := range in.Annotations {
			text := strings.TrimSpace(a.Text)
			if text == "" {
				return nil, fmt.Errorf("step %d annotation %d: text is required", i, j)
			}
			p := geometry.ClampPoint(geometry.Point{X: a.X, Y: a.Y})
			s.Annotations = append(s.Annotations, Annotation{Text: text, X: p.X, Y: p.Y})
		}
		steps = append(steps, s)
	}
	return steps, nil
}
