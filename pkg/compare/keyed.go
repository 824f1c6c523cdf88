package compare

// keyedDiff classifies two slices of schema objects by a derived key.
// Objects whose key appears only in source land in added, objects whose
// key appears only in target land in removed, and objects present on both
// sides are handed to diffValue, which returns the value-level diff and
// whether the pair actually differs. Input order is preserved in every
// bucket. Keys are expected to be unique within each slice.
//
// Every per-entity comparison in this package is an instantiation of this
// one function; only the key derivation and the value diff vary.
func keyedDiff[V any, D any](source, target []V, keyOf func(V) string, diffValue func(source, target V) (D, bool)) (added, removed []V, modified []D) {
	sourceKeys := make(map[string]struct{}, len(source))
	for _, v := range source {
		sourceKeys[keyOf(v)] = struct{}{}
	}
	targetByKey := make(map[string]V, len(target))
	for _, v := range target {
		targetByKey[keyOf(v)] = v
	}

	for _, sv := range source {
		tv, ok := targetByKey[keyOf(sv)]
		if !ok {
			added = append(added, sv)
			continue
		}
		if d, differs := diffValue(sv, tv); differs {
			modified = append(modified, d)
		}
	}

	for _, tv := range target {
		if _, ok := sourceKeys[keyOf(tv)]; !ok {
			removed = append(removed, tv)
		}
	}

	return added, removed, modified
}

// keyedPresence is keyedDiff for object kinds that are only tracked by
// presence: matched pairs are never inspected, so the only outputs are
// the added and removed buckets.
func keyedPresence[V any](source, target []V, keyOf func(V) string) (added, removed []V) {
	added, removed, _ = keyedDiff(source, target, keyOf, func(V, V) (struct{}, bool) {
		return struct{}{}, false
	})
	return added, removed
}
