package favorites

// reconcileImport cleans up an imported favorites document and returns a new
// mapping with its display order. The input map is not modified.
//
// When the order lists titles that have no favorite while the same number of
// favorites are left unlisted, the document is assumed to have been renamed
// by hand: the unlisted favorites, taken in document key order, are moved
// position by position under the missing titles. Afterwards dangling and
// duplicate titles are dropped and unlisted favorites are appended in
// document key order.
func reconcileImport(favorites map[string]string, keys []string, order []string) (map[string]string, []string) {
	out := make(map[string]string, len(favorites))
	for k, v := range favorites {
		out[k] = v
	}
	if order == nil {
		order = append([]string{}, keys...)
	}

	listed := make(map[string]bool, len(order))
	var missing []string
	duplicateMissing := false
	seenMissing := map[string]bool{}
	for _, t := range order {
		listed[t] = true
		if _, ok := out[t]; ok {
			continue
		}
		if seenMissing[t] {
			duplicateMissing = true
		}
		seenMissing[t] = true
		missing = append(missing, t)
	}

	var unlisted []string
	for _, k := range keys {
		if _, ok := out[k]; ok && !listed[k] {
			unlisted = append(unlisted, k)
		}
	}

	renamed := make(map[string]string, len(missing))
	if len(missing) > 0 && len(missing) == len(unlisted) && !duplicateMissing {
		for i, title := range missing {
			out[title] = out[unlisted[i]]
			delete(out, unlisted[i])
			renamed[unlisted[i]] = title
		}
	}

	docKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		if title, ok := renamed[k]; ok {
			k = title
		}
		docKeys = append(docKeys, k)
	}
	return out, orderByKeys(out, order, docKeys)
}

// orderByKeys drops titles without a favorite and duplicates from order, then
// appends the unlisted titles following keys. Titles absent from keys go
// last in lexical order.
func orderByKeys(favorites map[string]string, order, keys []string) []string {
	seen := make(map[string]bool, len(favorites))
	out := make([]string, 0, len(favorites))
	add := func(titles []string) {
		for _, t := range titles {
			if _, ok := favorites[t]; !ok || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	add(order)
	add(keys)
	return append(out, reconcileOrder(favorites, out)[len(out):]...)
}
