package palette

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// writePalette writes content to a temp palette file and returns the path.
func writePalette(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "colors.json")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	return p
}

// readKind asserts Read fails and returns the failure kind.
func readKind(t *testing.T, path string) Kind {
	t.Helper()

	_, err := Read(path)
	require.Error(t, err)

	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)

	return readErr.Kind
}

// ---------------------------------------------------------------------------
// ValidHex
// ---------------------------------------------------------------------------

func TestValidHex(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"short rgb", "#fff", true},
		{"short rgba", "#fffa", true},
		{"full rgb", "#112233", true},
		{"full rgba", "#11223344", true},
		{"uppercase", "#AABBCC", true},
		{"mixed case", "#aAbBcC", true},
		{"missing hash", "112233", false},
		{"five digits", "#12345", false},
		{"seven digits", "#1234567", false},
		{"nine digits", "#123456789", false},
		{"non-hex chars", "#gggggg", false},
		{"named color", "red", false},
		{"empty", "", false},
		{"hash only", "#", false},
		{"trailing space", "#112233 ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidHex(tt.value))
		})
	}
}

// ---------------------------------------------------------------------------
// ResolvePath
// ---------------------------------------------------------------------------

func TestResolvePath_CustomVerbatim(t *testing.T) {
	p, err := ResolvePath("/tmp/some/colors.json")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/some/colors.json", p)
}

func TestResolvePath_HomeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, err := ResolvePath("~/palette/colors.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "palette", "colors.json"), p)
}

func TestResolvePath_Default(t *testing.T) {
	p, err := ResolvePath("")
	require.NoError(t, err)

	root, err := os.UserConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "matugen", "colors.json"), p)
}

// ---------------------------------------------------------------------------
// Read failure taxonomy
// ---------------------------------------------------------------------------

func TestRead_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := Read(path)
	require.Error(t, err)

	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, KindNotFound, readErr.Kind)
	assert.Contains(t, readErr.Error(), path)
}

func TestRead_ReadError(t *testing.T) {
	// Reading a directory fails without being a not-exist error.
	assert.Equal(t, KindReadError, readKind(t, t.TempDir()))
}

func TestRead_ParseError(t *testing.T) {
	assert.Equal(t, KindParseError, readKind(t, writePalette(t, "{not json")))
}

func TestRead_ShapeError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"array", `["#112233"]`},
		{"null", `null`},
		{"string", `"#112233"`},
		{"number", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, KindShapeError, readKind(t, writePalette(t, tt.content)))
		})
	}
}

func TestRead_EmptyObject(t *testing.T) {
	assert.Equal(t, KindEmptyPalette, readKind(t, writePalette(t, `{}`)))
}

func TestRead_NoDotIsEmptyPalette(t *testing.T) {
	// "nodothere" has no token separator → zero usable tokens.
	assert.Equal(t, KindEmptyPalette, readKind(t, writePalette(t, `{"nodothere":"#fff"}`)))
}

func TestRead_OnlyMetadataIsEmptyPalette(t *testing.T) {
	assert.Equal(t, KindEmptyPalette, readKind(t, writePalette(t, `{"_meta":{"variant":"x"}}`)))
}

// ---------------------------------------------------------------------------
// Read success and per-key skipping
// ---------------------------------------------------------------------------

func TestRead_MixedPalette(t *testing.T) {
	path := writePalette(t, `{
		"_meta": {"variant": "x"},
		"editor.background": "#112233",
		"bad.token": "notacolor"
	}`)

	pal, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, 1, pal.Colors.Len())
	assert.Equal(t, 1, pal.Skipped)

	hex, ok := pal.Colors.Get("editor.background")
	require.True(t, ok)
	assert.Equal(t, "#112233", hex)
}

func TestRead_SkipRules(t *testing.T) {
	path := writePalette(t, `{
		"_variant": "dark",
		"editor.background": "#112233",
		"editor.foreground": "#FFEEDDCC",
		"statusBar.background": "#abc",
		"notoken": "#112233",
		"bad.type": 42,
		"bad.bool": true,
		"bad.null": null,
		"bad.object": {"nested": "#fff"},
		"bad.hex": "12345"
	}`)

	pal, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, 3, pal.Colors.Len())
	// notoken, bad.type, bad.bool, bad.null, bad.object, bad.hex — but not _variant.
	assert.Equal(t, 6, pal.Skipped)
}

func TestRead_PreservesFileOrder(t *testing.T) {
	path := writePalette(t, `{
		"zeta.color": "#111111",
		"alpha.color": "#222222",
		"mid.color": "#333333"
	}`)

	pal, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta.color", "alpha.color", "mid.color"}, pal.Colors.Tokens())
}

func TestReadError_Unwrap(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
