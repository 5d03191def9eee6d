// Package patch implements the merge-update rule shared by every update
// handler: a field present in the request body (a non-nil pointer after JSON
// decoding) overwrites the stored value, including explicit empty strings
// and zeros; an omitted field keeps the stored value.
package patch

// String returns *v when the field was present, old otherwise.
func String(v *string, old string) string {
	if v != nil {
		return *v
	}
	return old
}

// StringPtr merges into a nullable column.
func StringPtr(v *string, old *string) *string {
	if v != nil {
		return v
	}
	return old
}

// Float returns *v when the field was present, old otherwise.
func Float(v *float64, old float64) float64 {
	if v != nil {
		return *v
	}
	return old
}

// FloatPtr merges into a nullable column.
func FloatPtr(v *float64, old *float64) *float64 {
	if v != nil {
		return v
	}
	return old
}

// Uint returns *v when the field was present, old otherwise.
func Uint(v *uint, old uint) uint {
	if v != nil {
		return *v
	}
	return old
}

// UintPtr merges into a nullable column.
func UintPtr(v *uint, old *uint) *uint {
	if v != nil {
		return v
	}
	return old
}
