package ranges

import (
	"slices"
)

// MergeRanges 合并重叠或相接的区间，返回按 Start 升序、互不相交的最小区间集合。
// 输入切片不会被修改。
func MergeRanges[T Number](ranges []Range[T]) []Range[T] {
	if len(ranges) == 0 {
		return []Range[T]{}
	}

	sorted := slices.Clone(ranges)
	slices.SortStableFunc(sorted, func(a, b Range[T]) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})

	merged := make([]Range[T], 0, len(sorted))
	merged = append(merged, sorted[0])
	for _, r := range sorted[1:] {
		top := &merged[len(merged)-1]
		if top.End < r.Start {
			merged = append(merged, r)
			continue
		}
		// 相交或相接
		if r.End > top.End {
			top.End = r.End
		}
	}
	return merged
}
