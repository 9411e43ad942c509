package enums

import "fmt"

// parse returns the member of set spelled exactly as raw.
func parse[T ~string](set []T, raw, kind string) (T, error) {
	for _, v := range set {
		if string(v) == raw {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", kind, raw)
}
