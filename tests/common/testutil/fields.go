//go:build unit || e2e

package testutil

// Field mutates one key of a request map; a nil value removes the key,
// which is how tests drop required fields.
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
			return
		}
		m[key] = value
	}
}
