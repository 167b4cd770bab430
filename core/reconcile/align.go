package reconcile

// Realign returns values re-indexed to follow persisted.
//
// submitted and values are parallel: values[i] belongs to submitted[i]. For every
// key of persisted the result holds the value of that key's first position in
// submitted. Keys that cannot be matched back get the zero value of V.
// Entries of values beyond len(submitted) are ignored.
func Realign[K comparable, V any](submitted []K, values []V, persisted []K) []V {
	position := make(map[K]int, len(submitted))
	for i, key := range submitted {
		if _, seen := position[key]; !seen {
			position[key] = i
		}
	}

	out := make([]V, len(persisted))
	for i, key := range persisted {
		if pos, ok := position[key]; ok && pos < len(values) {
			out[i] = values[pos]
		}
	}
	return out
}

// Unique returns keys with duplicates removed, keeping the first occurrence.
func Unique[K comparable](keys []K) []K {
	seen := make(map[K]struct{}, len(keys))
	out := make([]K, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// Substitute returns (keys minus from) union {to}, deduplicated.
// The result keeps the order of keys, with to taking the place of the first
// from it replaces when to is not already present.
func Substitute[K comparable](keys []K, from, to K) []K {
	out := make([]K, 0, len(keys)+1)
	for _, key := range keys {
		if key == from {
			key = to
		}
		out = append(out, key)
	}
	out = Unique(out)
	for _, key := range out {
		if key == to {
			return out
		}
	}
	return append(out, to)
}

// Contains reports whether key is in keys.
func Contains[K comparable](keys []K, key K) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
