package enums

import (
	"fmt"
	"slices"
)

// parse matches raw against the known values of an enum; kind names the enum
// in the error.
func parse[T ~string](known []T, raw, kind string) (T, error) {
	if v := T(raw); slices.Contains(known, v) {
		return v, nil
	}
	return "", fmt.Errorf("invalid %s %q", kind, raw)
}
