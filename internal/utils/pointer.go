package utils

// Ptr returns a pointer to a copy of v.
//
//	req.Temperature = utils.Ptr(0.2)
func Ptr[T any](v T) *T {
	return &v
}
