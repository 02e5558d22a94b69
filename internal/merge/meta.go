package merge

// MetaKey is the reserved sub-key inside the settings object that records
// which tokens matubridge currently owns. Only keys listed there may be
// deleted on the next apply.
const MetaKey = "__matugenBridge"

// ManagedMeta records the owned tokens and when they were applied. It is
// replaced wholesale on every successful apply.
type ManagedMeta struct {
	Keys      []string `json:"keys"`
	AppliedAt string   `json:"appliedAt"`
}

// metaFrom extracts the ManagedMeta stored under MetaKey in obj. Missing or
// malformed metadata degrades to empty ownership; a broken record must never
// block an apply.
func metaFrom(obj map[string]any) ManagedMeta {
	raw, ok := obj[MetaKey].(map[string]any)
	if !ok {
		return ManagedMeta{}
	}

	var meta ManagedMeta

	if at, ok := raw["appliedAt"].(string); ok {
		meta.AppliedAt = at
	}

	keys, ok := raw["keys"].([]any)
	if !ok {
		return meta
	}

	for _, k := range keys {
		if s, ok := k.(string); ok {
			meta.Keys = append(meta.Keys, s)
		}
	}

	return meta
}

// encode returns the JSON-shaped map form stored in the settings object.
func (m ManagedMeta) encode() map[string]any {
	keys := make([]any, len(m.Keys))
	for i, k := range m.Keys {
		keys[i] = k
	}

	return map[string]any{
		"keys":      keys,
		"appliedAt": m.AppliedAt,
	}
}
