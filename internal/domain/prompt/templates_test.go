package prompt

import (
	"errors"
	"testing"

	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/storage"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) (*Templates, *storage.MemoryDocument) {
	t.Helper()
	doc := storage.NewMemoryDocument("prompts")
	doc.Set([]byte(`{"code/review": "Review this diff", "code/go/explain": "Explain this Go", "daily": "Standup notes"}`))
	return NewTemplates(doc), doc
}

func TestTemplatesGet(t *testing.T) {
	tpl, _ := seeded(t)

	got, err := tpl.Get("daily")
	require.NoError(t, err)
	assert.Equal(t, types.Template{Key: "daily", Text: "Standup notes"}, got)

	_, err = tpl.Get("nope")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTemplatesList(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{"", []string{"code/go/explain", "code/review", "daily"}},
		{"code/*", []string{"code/review"}},
		{"code/**", []string{"code/go/explain", "code/review"}},
		{"*", []string{"daily"}},
		{"missing/**", []string{}},
	}

	tpl, _ := seeded(t)
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := tpl.List(tt.pattern)
			require.NoError(t, err)

			keys := make([]string, 0, len(got))
			for _, g := range got {
				keys = append(keys, g.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestTemplatesListRejectsBadPattern(t *testing.T) {
	tpl, _ := seeded(t)

	_, err := tpl.List("code/[")
	assert.ErrorIs(t, err, ErrBadPattern)
}

func TestTemplatesSetPersists(t *testing.T) {
	tpl, doc := seeded(t)

	require.NoError(t, tpl.Set("code/review", "Review carefully"))
	require.NoError(t, tpl.Set("new/one", "Hello"))
	assert.Equal(t, 2, doc.Writes())

	reloaded := NewTemplates(doc)
	got, err := reloaded.Get("code/review")
	require.NoError(t, err)
	assert.Equal(t, "Review carefully", got.Text)
	_, err = reloaded.Get("new/one")
	assert.NoError(t, err)
}

func TestTemplatesSetValidates(t *testing.T) {
	tpl, doc := seeded(t)

	assert.Error(t, tpl.Set("bad key", "x"))
	assert.Error(t, tpl.Set("ok", "  "))
	assert.Zero(t, doc.Writes())
}

func TestTemplatesSetRollsBackOnWriteFailure(t *testing.T) {
	tpl, doc := seeded(t)
	doc.FailWrites(errors.New("read-only"))

	assert.Error(t, tpl.Set("daily", "changed"))

	got, err := tpl.Get("daily")
	require.NoError(t, err)
	assert.Equal(t, "Standup notes", got.Text)
}

func TestTemplatesDelete(t *testing.T) {
	tpl, _ := seeded(t)

	deleted, err := tpl.Delete("daily")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = tpl.Delete("daily")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTemplatesMalformedDocumentStartsEmpty(t *testing.T) {
	doc := storage.NewMemoryDocument("prompts")
	doc.Set([]byte(`["not", "a", "map"]`))

	got, err := NewTemplates(doc).List("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
