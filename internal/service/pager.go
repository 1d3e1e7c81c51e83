package service

// PageOfBuyers selects one fixed-size page from the buyer list using a
// caller-supplied offset. Pure and deterministic: the same list and offset
// always yield the same page. Negative offsets clamp to zero; offsets past
// the end yield an empty page with nextOffset clamped to the list length.
func PageOfBuyers(buyers []string, offset, pageSize int) (page []string, nextOffset int, hasMore bool) {
	start := offset
	if start < 0 {
		start = 0
	}
	if start > len(buyers) {
		start = len(buyers)
	}

	end := start + pageSize
	if end > len(buyers) {
		end = len(buyers)
	}

	return buyers[start:end], end, end < len(buyers)
}
