package viewstate

// Common change functions for Container.Apply and Container.Confirm.
// All of them return fresh slices; the input is never mutated in place.

// Remove drops every element matching pred.
func Remove[T any](pred func(T) bool) func([]T) []T {
	return func(items []T) []T {
		out := make([]T, 0, len(items))
		for _, it := range items {
			if !pred(it) {
				out = append(out, it)
			}
		}
		return out
	}
}

// Replace swaps every element matching pred for with. Used by Confirm
// to install the server's authoritative record over the optimistic one.
func Replace[T any](pred func(T) bool, with T) func([]T) []T {
	return func(items []T) []T {
		out := make([]T, len(items))
		for i, it := range items {
			if pred(it) {
				out[i] = with
			} else {
				out[i] = it
			}
		}
		return out
	}
}

// Patch applies fn to every element matching pred.
func Patch[T any](pred func(T) bool, fn func(T) T) func([]T) []T {
	return func(items []T) []T {
		out := make([]T, len(items))
		for i, it := range items {
			if pred(it) {
				out[i] = fn(it)
			} else {
				out[i] = it
			}
		}
		return out
	}
}
