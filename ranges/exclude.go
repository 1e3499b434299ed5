package ranges

// DetermineExcludedRanges returns the parts of whole that are not covered by
// ranges. A nil whole yields no gaps; an empty covering set yields whole itself.
//
// ranges does not need to be sorted or disjoint, it is merged first.
func DetermineExcludedRanges[T Number](ranges []Range[T], whole *Range[T]) []Range[T] {
	if whole == nil {
		return []Range[T]{}
	}
	if len(ranges) == 0 {
		return []Range[T]{*whole}
	}

	stack := []Range[T]{*whole}
	for _, r := range MergeRanges(ranges) {
		// 丢弃已经被 r 完全覆盖的候选区间
		kept := stack[:0]
		for _, s := range stack {
			if s.lower() < r.lower() || s.upper() > r.upper() {
				kept = append(kept, s)
			}
		}
		stack = kept

		n := len(stack)
		for i := 0; i < n; i++ {
			s := &stack[i]
			if r.End <= s.Start || r.Start >= s.End {
				// r 与 s 不相交
				continue
			}
			switch {
			case s.Start <= r.Start && s.End <= r.End:
				s.End = r.Start
			case s.Start >= r.Start && s.End >= r.End:
				s.Start = r.End
			case s.Start <= r.Start && s.End >= r.End:
				end := s.End
				s.End = r.Start
				stack = append(stack, Range[T]{Start: r.End, End: end})
			}
		}
	}
	return stack
}
