package ranges

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type r = Range[float64]

func ptr(v r) *r { return &v }

func TestMergeRanges(t *testing.T) {
	testCases := []struct {
		name  string
		input []r
		want  []r
	}{
		{"nil", nil, []r{}},
		{"empty", []r{}, []r{}},
		{"single", []r{{1, 5}}, []r{{1, 5}}},
		{"duplicates", []r{{1, 5}, {1, 5}}, []r{{1, 5}}},
		{"contained", []r{{1, 10}, {3, 4}}, []r{{1, 10}}},
		{"touching", []r{{1, 5}, {5, 8}}, []r{{1, 8}}},
		{"disjoint unsorted", []r{{6, 8}, {1, 5}}, []r{{1, 5}, {6, 8}}},
		{
			"mixed",
			[]r{{11, 12}, {1, 5}, {1, 8}, {-1, 10}, {3, 4}},
			[]r{{-1, 10}, {11, 12}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := MergeRanges(tc.input)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("MergeRanges(%v) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestMergeRangesDoesNotMutateInput(t *testing.T) {
	input := []r{{11, 12}, {1, 5}, {-1, 10}}
	before := slices.Clone(input)
	MergeRanges(input)
	if diff := cmp.Diff(before, input); diff != "" {
		t.Errorf("input was modified (-before +after):\n%s", diff)
	}
}

func TestMergeRangesIntegers(t *testing.T) {
	got := MergeRanges([]Range[int64]{{20, 30}, {0, 10}, {10, 15}})
	want := []Range[int64]{{0, 15}, {20, 30}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDetermineExcludedRanges(t *testing.T) {
	testCases := []struct {
		name   string
		ranges []r
		whole  *r
		want   []r
	}{
		{"no covering ranges", nil, ptr(r{1, 5}), []r{{1, 5}}},
		{"empty covering ranges", []r{}, ptr(r{1, 5}), []r{{1, 5}}},
		{"no whole range", []r{{1, 5}}, nil, []r{}},
		{"both nil", nil, nil, []r{}},
		{"exact match", []r{{1, 5}}, ptr(r{1, 5}), []r{}},
		{"inside covered", []r{{0, 10}}, ptr(r{1, 5}), []r{}},
		{"leading gap", []r{{1, 5}}, ptr(r{0, 5}), []r{{0, 1}}},
		{"leading gap partial", []r{{1, 5}}, ptr(r{0, 3}), []r{{0, 1}}},
		{"trailing gap", []r{{1, 5}}, ptr(r{1, 6}), []r{{5, 6}}},
		{"trailing gap partial", []r{{1, 5}}, ptr(r{3, 6}), []r{{5, 6}}},
		{"gaps both sides", []r{{1, 5}}, ptr(r{0, 6}), []r{{0, 1}, {5, 6}}},
		{"disjoint cover", []r{{10, 12}}, ptr(r{0, 6}), []r{{0, 6}}},
		{
			"several covered intervals",
			[]r{{7, 8}, {2, 3}, {2.5, 4}},
			ptr(r{0, 10}),
			[]r{{0, 2}, {4, 7}, {8, 10}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetermineExcludedRanges(tc.ranges, tc.whole)
			sortByStart(got)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("DetermineExcludedRanges mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChunkRange(t *testing.T) {
	testCases := []struct {
		name    string
		input   *r
		maxSize float64
		want    []r
	}{
		{"nil range", nil, 2, []r{}},
		{"no max size", ptr(r{1, 5}), 0, []r{{1, 5}}},
		{"negative max size", ptr(r{1, 5}), -3, []r{{1, 5}}},
		{"unit chunks", ptr(r{1, 5}), 1, []r{{1, 2}, {2, 3}, {3, 4}, {4, 5}}},
		{"uneven", ptr(r{0, 5}), 2, []r{{0, 2}, {2, 4}, {4, 5}}},
		{"larger than range", ptr(r{0, 5}), 10, []r{{0, 5}}},
		{"empty range", ptr(r{3, 3}), 1, []r{}},
		{"inverted range", ptr(r{5, 1}), 1, []r{}},
		{"infinite end", ptr(r{0, math.Inf(1)}), 1, []r{{0, math.Inf(1)}}},
		{"infinite start", ptr(r{math.Inf(-1), 0}), 1, []r{{math.Inf(-1), 0}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ChunkRange(tc.input, tc.maxSize)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ChunkRange mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChunkRangeIntegerBounds(t *testing.T) {
	got8 := ChunkRange(&Range[int8]{Start: -100, End: 100}, 50)
	want8 := []Range[int8]{{-100, -50}, {-50, 0}, {0, 50}, {50, 100}}
	if diff := cmp.Diff(want8, got8); diff != "" {
		t.Errorf("int8 chunks mismatch (-want +got):\n%s", diff)
	}

	got8 = ChunkRange(&Range[int8]{Start: 100, End: 127}, 100)
	if diff := cmp.Diff([]Range[int8]{{100, 127}}, got8); diff != "" {
		t.Errorf("overflowing step should clamp to End (-want +got):\n%s", diff)
	}

	got64 := ChunkRange(&Range[int64]{Start: math.MinInt64 + 1, End: math.MaxInt64}, math.MaxInt64)
	want64 := []Range[int64]{{math.MinInt64 + 1, 0}, {0, math.MaxInt64}}
	if diff := cmp.Diff(want64, got64); diff != "" {
		t.Errorf("int64 chunks mismatch (-want +got):\n%s", diff)
	}

	gotU := ChunkRange(&Range[uint8]{Start: 200, End: 255}, 100)
	if diff := cmp.Diff([]Range[uint8]{{200, 255}}, gotU); diff != "" {
		t.Errorf("uint8 chunks mismatch (-want +got):\n%s", diff)
	}
}

func TestOverlaps(t *testing.T) {
	testCases := []struct {
		a, b r
		want bool
	}{
		{r{0, 5}, r{3, 8}, true},
		{r{0, 10}, r{2, 3}, true},
		{r{0, 5}, r{5, 8}, false},
		{r{0, 5}, r{6, 8}, false},
		{r{6, 8}, r{0, 5}, false},
	}
	for _, tc := range testCases {
		if got := tc.a.Overlaps(tc.b); got != tc.want {
			t.Errorf("%v.Overlaps(%v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestChunkRanges(t *testing.T) {
	if got := ChunkRanges[float64](nil, 2); len(got) != 0 {
		t.Errorf("ChunkRanges(nil) = %v, want empty", got)
	}

	input := []r{{0, 3}, {2, 4}}
	got := ChunkRanges(input, 2)
	want := []r{{0, 2}, {2, 3}, {2, 4}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ChunkRanges mismatch (-want +got):\n%s", diff)
	}

	for _, maxSize := range []float64{0, -1} {
		if diff := cmp.Diff(input, ChunkRanges(input, maxSize)); diff != "" {
			t.Errorf("ChunkRanges(%v) should pass through (-want +got):\n%s", maxSize, diff)
		}
	}
}

func TestSpan(t *testing.T) {
	if _, ok := Span[int]([]Range[int]{}); ok {
		t.Error("empty input should have no span")
	}
	span, ok := Span([]Range[int]{{5, 7}, {-2, 1}, {3, 9}})
	if !ok || span != (Range[int]{-2, 9}) {
		t.Errorf("Span = %v, %v", span, ok)
	}
}

func sortByStart[T Number](rs []Range[T]) {
	slices.SortFunc(rs, func(a, b Range[T]) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})
}

// randomRanges 生成整数端点的区间，方便按点校验覆盖关系
func randomRanges(rnd *rand.Rand, n int) []Range[int] {
	out := make([]Range[int], 0, n)
	for i := 0; i < n; i++ {
		start := rnd.Intn(100)
		out = append(out, Range[int]{Start: start, End: start + rnd.Intn(20)})
	}
	return out
}

// covered 以半步为单位采样，判断点是否被区间集合覆盖
func covered(rs []Range[int], halfPoint int) bool {
	for _, r := range rs {
		if 2*r.Start <= halfPoint && halfPoint <= 2*r.End {
			return true
		}
	}
	return false
}

func TestMergeRangesProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		input := randomRanges(rnd, rnd.Intn(8))
		merged := MergeRanges(input)

		if diff := cmp.Diff(merged, MergeRanges(merged)); diff != "" {
			t.Fatalf("merge is not idempotent for %v:\n%s", input, diff)
		}
		for j := 1; j < len(merged); j++ {
			if !(merged[j-1].End < merged[j].Start) {
				t.Fatalf("merged ranges %v are not disjoint", merged)
			}
		}
		for p := -2; p <= 2*130; p++ {
			if covered(input, p) != covered(merged, p) {
				t.Fatalf("coverage differs at %v/2 for %v -> %v", p, input, merged)
			}
		}
	}
}

func TestDetermineExcludedRangesComplement(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		cover := randomRanges(rnd, rnd.Intn(6))
		start := rnd.Intn(100)
		whole := Range[int]{Start: start, End: start + rnd.Intn(40)}

		gaps := DetermineExcludedRanges(cover, &whole)
		merged := MergeRanges(cover)
		for _, g := range gaps {
			if g.Start < whole.Start || g.End > whole.End {
				t.Fatalf("gap %v escapes %v (cover %v)", g, whole, cover)
			}
		}
		// 只检查开区间内部的点，边界点允许同时出现在缺口和覆盖中
		for p := 2*whole.Start + 1; p < 2*whole.End; p++ {
			inGap := false
			for _, g := range gaps {
				if 2*g.Start < p && p < 2*g.End {
					inGap = true
				}
			}
			if inGap == covered(merged, p) && !onBoundary(merged, p) {
				t.Fatalf("point %v/2: inGap=%v covered=%v, whole %v cover %v gaps %v",
					p, inGap, covered(merged, p), whole, cover, gaps)
			}
		}
	}
}

func onBoundary(rs []Range[int], halfPoint int) bool {
	for _, r := range rs {
		if halfPoint == 2*r.Start || halfPoint == 2*r.End {
			return true
		}
	}
	return false
}

func TestChunkRangeTiles(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		start := rnd.Float64() * 1000
		whole := r{Start: start, End: start + rnd.Float64()*500}
		maxSize := rnd.Float64()*50 + 0.5

		chunks := ChunkRange(&whole, maxSize)
		if whole.End > whole.Start && len(chunks) == 0 {
			t.Fatalf("no chunks for %v", whole)
		}
		prev := whole.Start
		for _, c := range chunks {
			if c.Start != prev {
				t.Fatalf("chunk %v does not start at %v", c, prev)
			}
			if c.Len() > maxSize+1e-9 {
				t.Fatalf("chunk %v longer than %v", c, maxSize)
			}
			prev = c.End
		}
		if len(chunks) > 0 && prev != whole.End {
			t.Fatalf("chunks end at %v, want %v", prev, whole.End)
		}
	}
}
