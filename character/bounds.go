package character

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// ClampRelationship bounds v to the intimacy/trust range [0, 10].
func ClampRelationship(v float64) float64 {
	return Clamp(v, 0, 10)
}

// KeepLast drops the oldest items so that at most limit remain.
func KeepLast[T any](items []T, limit int) []T {
	if limit < 0 || len(items) <= limit {
		return items
	}
	out := make([]T, limit)
	copy(out, items[len(items)-limit:])
	return out
}

// PruneLowest removes the lowest-scoring items until at most limit remain.
// Among equal scores the oldest (earliest) item goes first; survivors keep
// their relative order.
func PruneLowest[T any](items []T, limit int, score func(T) float64) []T {
	for limit >= 0 && len(items) > limit {
		lowest := 0
		for i := 1; i < len(items); i++ {
			if score(items[i]) < score(items[lowest]) {
				lowest = i
			}
		}
		items = append(items[:lowest], items[lowest+1:]...)
	}
	return items
}
