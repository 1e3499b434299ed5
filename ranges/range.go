package ranges

import "fmt"

// Number 区间端点允许的数值类型，与 compareOrdered 的约束保持一致
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Range 一维数轴上的区间 [Start, End]，例如 epoch 秒或者采样下标
type Range[T Number] struct {
	Start T `json:"start" toml:"start" yaml:"start"`
	End   T `json:"end" toml:"end" yaml:"end"`
}

func New[T Number](start, end T) Range[T] {
	return Range[T]{Start: start, End: end}
}

// Len returns End-Start. Inverted ranges report a non-positive length. For
// integer types the subtraction wraps when the range is wider than T can hold.
func (r Range[T]) Len() T {
	return r.End - r.Start
}

func (r Range[T]) Contains(v T) bool {
	return v >= r.Start && v <= r.End
}

// Overlaps reports whether the two ranges share more than a boundary point.
func (r Range[T]) Overlaps(o Range[T]) bool {
	return r.Start < o.End && o.Start < r.End
}

func (r Range[T]) lower() T {
	return min(r.Start, r.End)
}

func (r Range[T]) upper() T {
	return max(r.Start, r.End)
}

func (r Range[T]) String() string {
	return fmt.Sprintf("[%v, %v]", r.Start, r.End)
}

// Span 返回覆盖所有区间的最小区间，空输入返回 false
func Span[T Number](ranges []Range[T]) (Range[T], bool) {
	if len(ranges) == 0 {
		return Range[T]{}, false
	}
	span := ranges[0]
	for _, r := range ranges[1:] {
		span.Start = min(span.Start, r.Start)
		span.End = max(span.End, r.End)
	}
	return span, true
}
