package palette

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Default palette location under the user's configuration root.
const (
	defaultSubdir   = "matugen"
	defaultFilename = "colors.json"
)

// Kind classifies why a palette read failed.
type Kind int

const (
	// KindNotFound means the palette file does not exist.
	KindNotFound Kind = iota

	// KindReadError means the file exists but could not be read.
	KindReadError

	// KindParseError means the content is not valid JSON.
	KindParseError

	// KindShapeError means the content parsed but is not a JSON object.
	KindShapeError

	// KindEmptyPalette means the file is well-formed but contains zero
	// usable color tokens.
	KindEmptyPalette
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindReadError:
		return "read-error"
	case KindParseError:
		return "parse-error"
	case KindShapeError:
		return "shape-error"
	case KindEmptyPalette:
		return "empty-palette"
	default:
		return "unknown"
	}
}

// ReadError reports a failed palette read. Reads fail routinely and
// recoverably (the generator may be mid-write), so callers branch on Kind
// instead of treating the failure as fatal.
type ReadError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("palette file not found: %s", e.Path)
	case KindReadError:
		return fmt.Sprintf("reading palette %s: %v", e.Path, e.Err)
	case KindParseError:
		return fmt.Sprintf("palette %s is not valid JSON", e.Path)
	case KindShapeError:
		return fmt.Sprintf("palette %s is not a flat JSON object", e.Path)
	case KindEmptyPalette:
		return fmt.Sprintf("palette %s contains no usable color tokens", e.Path)
	default:
		return fmt.Sprintf("reading palette %s failed", e.Path)
	}
}

func (e *ReadError) Unwrap() error { return e.Err }

// Palette is the validated result of a successful read.
type Palette struct {
	// Colors holds the accepted tokens in palette file order. Never empty.
	Colors *ColorMap

	// Skipped counts candidate entries rejected per-key (bad token shape,
	// non-string value, invalid hex). Informational only.
	Skipped int
}

// hexPattern matches #RGB, #RGBA, #RRGGBB, and #RRGGBBAA, case-insensitive.
var hexPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidHex reports whether s is an accepted hex color string.
func ValidHex(s string) bool {
	return hexPattern.MatchString(s)
}

// ResolvePath resolves the palette file location. A non-empty custom path is
// returned verbatim after expanding a leading "~"; an empty custom path
// resolves to the default location under the user's configuration root.
func ResolvePath(custom string) (string, error) {
	if custom != "" {
		if custom == "~" || strings.HasPrefix(custom, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("expanding home directory: %w", err)
			}

			return filepath.Join(home, strings.TrimPrefix(custom, "~")), nil
		}

		return custom, nil
	}

	root, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}

	return filepath.Join(root, defaultSubdir, defaultFilename), nil
}

// Read loads the palette file at path and extracts its usable color tokens.
// Keys prefixed with "_" are metadata and ignored. A key is a usable token
// when it contains a "." separator and its value is a valid hex string;
// anything else is skipped per-key, never failing the whole read. A read
// with zero usable tokens fails with KindEmptyPalette so a half-written
// palette cannot blank the theme.
func Read(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ReadError{Kind: KindNotFound, Path: path, Err: err}
		}

		return nil, &ReadError{Kind: KindReadError, Path: path, Err: err}
	}

	if !gjson.ValidBytes(data) {
		return nil, &ReadError{Kind: KindParseError, Path: path}
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, &ReadError{Kind: KindShapeError, Path: path}
	}

	colors := NewColorMap()

	var skipped int

	doc.ForEach(func(key, value gjson.Result) bool {
		token := key.String()

		// Metadata entries are not color candidates and don't count as skipped.
		if strings.HasPrefix(token, "_") {
			return true
		}

		if !strings.Contains(token, ".") {
			skipped++
			return true
		}

		if value.Type != gjson.String {
			skipped++
			return true
		}

		if !ValidHex(value.Str) {
			slog.Debug("skipping token with invalid hex value",
				slog.String("token", token),
				slog.String("value", value.Str),
			)

			skipped++

			return true
		}

		colors.Set(token, value.Str)

		return true
	})

	if colors.Len() == 0 {
		return nil, &ReadError{Kind: KindEmptyPalette, Path: path}
	}

	return &Palette{Colors: colors, Skipped: skipped}, nil
}
