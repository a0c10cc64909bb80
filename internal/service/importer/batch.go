package importer

// chunk splits items into order-preserving, non-overlapping slices of at most
// size elements; the last chunk may be shorter. size must be >= 1, which
// config validation guarantees before any job reaches this point.
func chunk[T any](items []T, size int) [][]T {
	if size < 1 {
		panic("chunk: size must be >= 1")
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
