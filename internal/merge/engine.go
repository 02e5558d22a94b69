// Package merge computes and applies settings updates from palette colors.
// The engine tracks which keys it owns inside the shared settings object so
// merges are reversible: keys owned by neither the previous nor the new
// palette are never read, deleted, or overwritten.
package merge

import (
	"time"

	"matubridge/internal/palette"
)

// DefaultSettingsKey is the settings entry holding the color overrides.
const DefaultSettingsKey = "workbench.colorCustomizations"

// Status describes the engine's current ownership inside the settings object.
type Status struct {
	Count     int    `json:"count"`
	AppliedAt string `json:"appliedAt,omitempty"`
}

// Engine merges palette colors into the shared settings object through a
// Store. The settings object is externally owned; the engine exclusively
// owns only the metadata record under MetaKey.
type Engine struct {
	store Store
	key   string
	now   func() time.Time
}

// NewEngine creates an Engine bound to store and the settings entry key.
// An empty key selects DefaultSettingsKey.
func NewEngine(store Store, key string) *Engine {
	if key == "" {
		key = DefaultSettingsKey
	}

	return &Engine{store: store, key: key, now: time.Now}
}

// SettingsKey returns the settings entry the engine operates on.
func (e *Engine) SettingsKey() string { return e.key }

// Apply merges colors into the settings object: previously owned keys are
// removed first (a plain overlay would leak removed tokens forever), the new
// tokens are written unconditionally, and the ownership metadata is replaced.
// An empty color map therefore acts as a clear.
func (e *Engine) Apply(colors *palette.ColorMap) error {
	current, err := e.store.Get(e.key)
	if err != nil {
		return err
	}

	return e.store.Update(e.key, e.merge(current, colors))
}

// Preview returns the current settings object and the object Apply would
// persist for colors, without writing anything.
func (e *Engine) Preview(colors *palette.ColorMap) (current, next map[string]any, err error) {
	current, err = e.store.Get(e.key)
	if err != nil {
		return nil, nil, err
	}

	return current, e.merge(current, colors), nil
}

// merge builds the next settings object from current ownership plus colors.
func (e *Engine) merge(current map[string]any, colors *palette.ColorMap) map[string]any {
	meta := metaFrom(current)

	next := make(map[string]any, len(current)+colors.Len()+1)
	for k, v := range current {
		next[k] = v
	}

	for _, owned := range meta.Keys {
		delete(next, owned)
	}

	delete(next, MetaKey)

	tokens := colors.Tokens()
	for _, token := range tokens {
		hex, _ := colors.Get(token)
		next[token] = hex
	}

	next[MetaKey] = ManagedMeta{
		Keys:      tokens,
		AppliedAt: e.now().UTC().Format(time.RFC3339),
	}.encode()

	return next
}

// Clear removes every owned key and the metadata record, restoring the
// settings object to its pre-bridge state. Returns the number of token keys
// actually removed; (0, nil) when nothing is owned.
func (e *Engine) Clear() (int, error) {
	current, err := e.store.Get(e.key)
	if err != nil {
		return 0, err
	}

	meta := metaFrom(current)
	if len(meta.Keys) == 0 {
		return 0, nil
	}

	next := make(map[string]any, len(current))
	for k, v := range current {
		next[k] = v
	}

	var removed int

	for _, owned := range meta.Keys {
		if _, ok := next[owned]; ok {
			removed++
		}

		delete(next, owned)
	}

	delete(next, MetaKey)

	return removed, e.store.Update(e.key, next)
}

// ManagedStatus reports current ownership without mutating anything.
func (e *Engine) ManagedStatus() (Status, error) {
	current, err := e.store.Get(e.key)
	if err != nil {
		return Status{}, err
	}

	meta := metaFrom(current)

	return Status{Count: len(meta.Keys), AppliedAt: meta.AppliedAt}, nil
}
