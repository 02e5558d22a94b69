// Package palette loads, parses, and validates matugen-generated palette
// files into a clean color mapping. It owns no lasting state: reading a
// palette never mutates configuration.
package palette

// ColorMap is an ordered mapping from color-token identifiers to validated
// hex color strings. Iteration order follows the palette file so ownership
// metadata records tokens in a stable order.
type ColorMap struct {
	order  []string
	values map[string]string
}

// NewColorMap returns an empty ColorMap.
func NewColorMap() *ColorMap {
	return &ColorMap{values: make(map[string]string)}
}

// Set inserts or overwrites a token. A token keeps its original position
// when overwritten.
func (m *ColorMap) Set(token, hex string) {
	if _, ok := m.values[token]; !ok {
		m.order = append(m.order, token)
	}

	m.values[token] = hex
}

// Get returns the hex value for token and whether it is present.
func (m *ColorMap) Get(token string) (string, bool) {
	v, ok := m.values[token]
	return v, ok
}

// Len returns the number of tokens.
func (m *ColorMap) Len() int {
	return len(m.order)
}

// Tokens returns the token identifiers in insertion order.
func (m *ColorMap) Tokens() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)

	return out
}
