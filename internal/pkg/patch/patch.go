package patch

// Coalesce dereferences p when set, otherwise returns fallback. Used to
// fold optional request fields into plain values.
func Coalesce[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
