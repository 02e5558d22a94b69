// Package maputil provides deep-copy helpers for the JSON-shaped maps the
// merge engine and stores hand around, so callers never alias a stored
// settings object.
package maputil

// DeepCopyMap performs a deep copy of a JSON-shaped map[string]any.
func DeepCopyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))

	for k, v := range src {
		switch val := v.(type) {
		case map[string]any:
			dst[k] = DeepCopyMap(val)
		case []any:
			dst[k] = DeepCopySlice(val)
		default:
			dst[k] = v
		}
	}

	return dst
}

// DeepCopySlice performs a deep copy of a JSON-shaped []any.
func DeepCopySlice(src []any) []any {
	if src == nil {
		return nil
	}

	dst := make([]any, len(src))

	for i, v := range src {
		switch val := v.(type) {
		case map[string]any:
			dst[i] = DeepCopyMap(val)
		case []any:
			dst[i] = DeepCopySlice(val)
		default:
			dst[i] = v
		}
	}

	return dst
}
