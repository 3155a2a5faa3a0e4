package navgen

import (
	"testing"
)

func TestAddSpanKeepsColumnSorted(t *testing.T) {
	hf := NewHeightfield(4, 4, []float32{0, 0, 0}, []float32{4, 4, 4}, 1, 1)

	hf.AddSpan(1, 1, 6, 8, NULL_AREA, 1)
	hf.AddSpan(1, 1, 0, 2, WALKABLE_AREA, 1)
	hf.AddSpan(1, 1, 3, 5, WALKABLE_AREA, 1)

	checkColumnInvariants(t, hf)

	count := 0
	for s := hf.Column(1, 1); s != nil; s = hf.Next(s) {
		count++
	}
	assertTrue(t, count == 3, "expected three disjoint spans")
}

func TestAddSpanMergesOverlapping(t *testing.T) {
	hf := NewHeightfield(4, 4, []float32{0, 0, 0}, []float32{4, 4, 4}, 1, 1)

	hf.AddSpan(0, 0, 2, 4, NULL_AREA, 1)
	hf.AddSpan(0, 0, 3, 6, WALKABLE_AREA, 1)

	s := hf.Column(0, 0)
	assertTrue(t, s != nil, "column should have a span")
	assertTrue(t, hf.Next(s) == nil, "overlapping spans should merge into one")
	assertTrue(t, s.Smin == 2 && s.Smax == 6, "merged span should cover the union")
	checkColumnInvariants(t, hf)
}

func TestAddSpanAreaMergeThreshold(t *testing.T) {
	hf := NewHeightfield(4, 4, []float32{0, 0, 0}, []float32{4, 4, 4}, 1, 1)

	// Tops within the threshold: the higher area id wins.
	hf.AddSpan(0, 0, 2, 4, WALKABLE_AREA, 1)
	hf.AddSpan(0, 0, 2, 4, NULL_AREA, 1)
	s := hf.Column(0, 0)
	assertTrue(t, s.Area == WALKABLE_AREA, "matching tops should merge to the higher area id")

	// Tops beyond the threshold: the new span's area is kept.
	hf.AddSpan(1, 0, 2, 4, WALKABLE_AREA, 1)
	hf.AddSpan(1, 0, 2, 8, NULL_AREA, 1)
	s = hf.Column(1, 0)
	assertTrue(t, s.Area == NULL_AREA, "distant tops should not merge area ids")
}

func TestSpanPoolGrowth(t *testing.T) {
	w, h := 64, 64
	hf := NewHeightfield(w, h, []float32{0, 0, 0}, []float32{float32(w), 16, float32(h)}, 1, 1)

	// More spans than a single pool page holds.
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			hf.AddSpan(x, z, 0, 1, WALKABLE_AREA, 1)
		}
	}
	assertTrue(t, len(hf.pools) > 1, "pool should have grown beyond one page")
	assertTrue(t, hf.walkableSpanCount() == w*h, "every column should hold one walkable span")
	checkColumnInvariants(t, hf)
}

func TestFreedSpansAreReused(t *testing.T) {
	hf := NewHeightfield(4, 4, []float32{0, 0, 0}, []float32{4, 16, 4}, 1, 1)

	// Merging returns nodes to the free list; repeated merges in one column
	// must not grow the pool.
	for i := 0; i < SPANS_PER_POOL*2; i++ {
		hf.AddSpan(2, 2, 0, 2, WALKABLE_AREA, 1)
	}
	assertTrue(t, len(hf.pools) == 1, "merge churn should recycle freed spans")
}
