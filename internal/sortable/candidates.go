package sortable

// buildCandidates measures every item of source's accept set except dragged.
// Order is accept-set order, then item order within each list; the first
// overlapping candidate wins, so this order is the tie-break.
//
// Proxies never join a list's sequence, so there is nothing else to exclude.
func buildCandidates(source *List, dragged *Item) []Candidate {
	var out []Candidate
	for _, id := range source.opts.acceptSet(source.id) {
		l, ok := source.coord.Lookup(id)
		if !ok {
			continue
		}
		for _, it := range l.items {
			if it == dragged {
				continue
			}
			out = append(out, newCandidate(it, l.host.Bounds(it)))
		}
	}
	return out
}
