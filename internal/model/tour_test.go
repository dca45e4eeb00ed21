package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidStatus(StatusDraft))
	assert.True(t, ValidStatus(StatusPublished))
	assert.True(t, ValidStatus(StatusPrivate))
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidStatus("PUBLISHED"))
	assert.False(t, ValidStatus(""))
}

func TestValidMediaKind(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidMediaKind(MediaImage))
	assert.True(t, ValidMediaKind(MediaVideo))
	assert.False(t, ValidMediaKind("gif"))
	assert.False(t, ValidMediaKind(""))
}

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	got, err := NormalizeTitle("  Onboarding Walkthrough ")
	require.NoError(t, err)
	assert.Equal(t, "Onboarding Walkthrough", got)

	_, err = NormalizeTitle("   ")
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestSanitizeStepsAssignsDenseOrder(t *testing.T) {
	t.Parallel()

	url := "https://cdn.example.com/a.png"
	steps, err := SanitizeSteps([]StepInput{
		{ImageURL: &url},
		{},
		{VideoURL: &url},
	})
	require.NoError(t, err)
	require.Len(t, steps, 3)
	for i, s := range steps {
		assert.Equal(t, uint32(i), s.StepOrder)
	}
	assert.Equal(t, &url, steps[0].ImageURL)
	assert.Equal(t, &url, steps[2].VideoURL)
}

func TestSanitizeStepsClampsAnnotationCoords(t *testing.T) {
	t.Parallel()

	steps, err := SanitizeSteps([]StepInput{
		{Annotations: []AnnotationInput{
			{Text: "click here", X: -12, Y: 250},
			{Text: " trimmed ", X: 40, Y: 60},
		}},
	})
	require.NoError(t, err)
	require.Len(t, steps, 1)
	require.Len(t, steps[0].Annotations, 2)

	assert.Equal(t, 0.0, steps[0].Annotations[0].X)
	assert.Equal(t, 100.0, steps[0].Annotations[0].Y)
	assert.Equal(t, "trimmed", steps[0].Annotations[1].Text)
	assert.Equal(t, 40.0, steps[0].Annotations[1].X)
}

func TestSanitizeStepsRejectsEmptyAnnotationText(t *testing.T) {
	t.Parallel()

	_, err := SanitizeSteps([]StepInput{
		{Annotations: []AnnotationInput{{Text: "ok", X: 1, Y: 1}}},
		{Annotations: []AnnotationInput{{Text: "   ", X: 2, Y: 2}}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 annotation 0")
}

func TestSanitizeStepsEmptyInput(t *testing.T) {
	t.Parallel()

	steps, err := SanitizeSteps(nil)
	require.NoError(t, err)
	assert.Empty(t, steps)
	assert.NotNil(t, steps) // serializes as [] not null
}

func TestShareDescriptorExpired(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	noExpiry := &ShareDescriptor{}
	assert.False(t, noExpiry.Expired(now))

	past := now.Add(-time.Hour)
	expired := &ShareDescriptor{ExpiresAt: &past}
	assert.True(t, expired.Expired(now))

	future := now.Add(time.Hour)
	active := &ShareDescriptor{ExpiresAt: &future}
	assert.False(t, active.Expired(now))
}
