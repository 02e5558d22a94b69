package merge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// ---------------------------------------------------------------------------
// FileStore
// ---------------------------------------------------------------------------

func newTestFileStore(t *testing.T, content string) *FileStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.json")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return NewFileStore(path)
}

func TestFileStore_GetMissingFile(t *testing.T) {
	s := newTestFileStore(t, "")

	obj, err := s.Get("workbench.colorCustomizations")
	require.NoError(t, err)
	assert.Empty(t, obj)
}

func TestFileStore_GetMissingKey(t *testing.T) {
	s := newTestFileStore(t, `{"editor.fontSize": 14}`)

	obj, err := s.Get("workbench.colorCustomizations")
	require.NoError(t, err)
	assert.Empty(t, obj)
}

func TestFileStore_GetDottedKeyIsLiteral(t *testing.T) {
	// The dotted settings key is one literal top-level key, not a path into
	// nested objects.
	s := newTestFileStore(t, `{
		"workbench": {"colorCustomizations": {"nested.key": "#000"}},
		"workbench.colorCustomizations": {"editor.background": "#112233"}
	}`)

	obj, err := s.Get("workbench.colorCustomizations")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"editor.background": "#112233"}, obj)
}

func TestFileStore_GetNonObjectValue(t *testing.T) {
	s := newTestFileStore(t, `{"workbench.colorCustomizations": "oops"}`)

	_, err := s.Get("workbench.colorCustomizations")
	assert.Error(t, err)
}

func TestFileStore_UpdateCreatesFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "sub", "settings.json"))

	require.NoError(t, s.Update("workbench.colorCustomizations", map[string]any{
		"editor.background": "#112233",
	}))

	obj, err := s.Get("workbench.colorCustomizations")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"editor.background": "#112233"}, obj)
}

func TestFileStore_UpdatePreservesOtherEntries(t *testing.T) {
	s := newTestFileStore(t, `{
		"editor.fontSize": 14,
		"files.autoSave": "onFocusChange",
		"workbench.colorCustomizations": {"old.key": "#000"}
	}`)

	require.NoError(t, s.Update("workbench.colorCustomizations", map[string]any{
		"editor.background": "#112233",
	}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	doc := gjson.ParseBytes(data)
	assert.Equal(t, int64(14), doc.Get(`editor\.fontSize`).Int())
	assert.Equal(t, "onFocusChange", doc.Get(`files\.autoSave`).String())
	assert.Equal(t, "#112233", doc.Get(`workbench\.colorCustomizations.editor\.background`).String())
	assert.False(t, doc.Get(`workbench\.colorCustomizations.old\.key`).Exists())
}

func TestFileStore_UpdateLeavesValidJSON(t *testing.T) {
	s := newTestFileStore(t, `{"a": 1}`)

	require.NoError(t, s.Update("k.ey", map[string]any{"t.oken": "#fff"}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := newTestFileStore(t, "")
	value := map[string]any{
		"editor.background": "#112233",
		MetaKey: map[string]any{
			"keys":      []any{"editor.background"},
			"appliedAt": "2026-08-31T12:00:00Z",
		},
	}

	require.NoError(t, s.Update("test.colors", value))

	got, err := s.Get("test.colors")
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

// ---------------------------------------------------------------------------
// escapeKey
// ---------------------------------------------------------------------------

func TestEscapeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"workbench.colorCustomizations", `workbench\.colorCustomizations`},
		{"a.b.c", `a\.b\.c`},
		{"star*key", `star\*key`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeKey(tt.in))
		})
	}
}

// ---------------------------------------------------------------------------
// MemStore
// ---------------------------------------------------------------------------

func TestMemStore_CopySemantics(t *testing.T) {
	s := NewMemStore()
	value := map[string]any{"a.b": "#000"}

	require.NoError(t, s.Update("k", value))
	value["a.b"] = "mutated"

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "#000", got["a.b"])

	got["a.b"] = "mutated-again"

	again, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "#000", again["a.b"])
}

func TestMemStore_FailWrites(t *testing.T) {
	s := NewMemStore()
	s.FailWrites = true

	err := s.Update("k", map[string]any{})
	require.Error(t, err)

	var persistErr *PersistError
	assert.ErrorAs(t, err, &persistErr)
}
