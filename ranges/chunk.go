package ranges

import "math"

// ChunkRange splits r into contiguous pieces no longer than maxSize, front to
// back. A non-positive maxSize means no chunking and r is returned whole, as
// is a range with an infinite endpoint. Ranges with End <= Start produce no
// chunks.
func ChunkRange[T Number](r *Range[T], maxSize T) []Range[T] {
	if r == nil {
		return []Range[T]{}
	}
	if maxSize <= 0 || math.IsInf(float64(r.Start), 0) || math.IsInf(float64(r.End), 0) {
		return []Range[T]{*r}
	}

	chunks := []Range[T]{}
	// 按位置推进而不是按剩余长度，End-Start 对窄整数类型会溢出
	for start := r.Start; start < r.End; {
		end := start + maxSize
		if end >= r.End || end <= start {
			// 最后一块直接对齐到 End；end <= start 说明加法溢出或浮点精度不足
			end = r.End
		}
		chunks = append(chunks, Range[T]{Start: start, End: end})
		start = end
	}
	return chunks
}

// ChunkRanges applies ChunkRange to every range and flattens the result in
// input order. Overlapping inputs give overlapping chunks; nothing is merged.
// A non-positive maxSize returns ranges unchanged.
func ChunkRanges[T Number](ranges []Range[T], maxSize T) []Range[T] {
	if len(ranges) == 0 {
		return []Range[T]{}
	}
	if maxSize <= 0 {
		return ranges
	}

	chunks := make([]Range[T], 0, len(ranges))
	for i := range ranges {
		chunks = append(chunks, ChunkRange(&ranges[i], maxSize)...)
	}
	return chunks
}
