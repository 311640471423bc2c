package mapfn

// ConvertSlice converts a slice of type T to a slice of type R using the provided function
func ConvertSlice[T any, R any](input []T, fn func(T) R) []R {
	result := make([]R, len(input))
	for i, v := range input {
		result[i] = fn(v)
	}
	return result
}
