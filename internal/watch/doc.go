// Package watch monitors the palette file for filesystem changes. It
// debounces rapid change bursts into single apply invocations and
// deliberately ignores deletions, so losing the palette file never blanks
// the applied theme.
package watch
