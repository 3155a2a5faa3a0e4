package navgen

import (
	"testing"

	"voxnav/common"
)

func TestBuildCompactHeightfieldCounts(t *testing.T) {
	cfg := testConfig(12, 12)
	geom := &Geometry{}
	appendQuad(geom, 0, 0, 10, 10, 0)
	appendQuad(geom, 2, 2, 8, 8, 2)

	hf := rasterizeScene(t, cfg, geom)
	chf := &CompactHeightfield{}
	if !BuildCompactHeightfield(nil, cfg.WalkableHeight, cfg.WalkableClimb, hf, chf) {
		t.Fatalf("compaction failed")
	}

	assertTrue(t, chf.SpanCount == hf.walkableSpanCount(), "span count must match the solid field")

	total := 0
	for i := range chf.Cells {
		total += chf.Cells[i].Count
	}
	assertTrue(t, total == chf.SpanCount, "cell counts must sum to the span count")

	// The open space above a solid span starts at its top.
	for z := 0; z < chf.Height; z++ {
		for x := 0; x < chf.Width; x++ {
			c := &chf.Cells[x+z*chf.Width]
			solid := hf.Column(x, z)
			for i := c.Index; i < c.Index+c.Count; i++ {
				for solid != nil && solid.Area == NULL_AREA {
					solid = hf.Next(solid)
				}
				if solid == nil {
					t.Fatalf("cell (%d,%d): more open spans than walkable solid spans", x, z)
				}
				assertTrue(t, chf.Spans[i].Y == solid.Smax, "open span must start at the solid top")
				solid = hf.Next(solid)
			}
		}
	}
}

func TestCompactNeighborLinksReciprocate(t *testing.T) {
	cfg := testConfig(12, 12)
	geom := &Geometry{}
	appendQuad(geom, 0, 0, 10, 10, 0)
	appendQuad(geom, 2, 2, 8, 8, 2)
	chf := compactScene(t, cfg, geom)

	for z := 0; z < chf.Height; z++ {
		for x := 0; x < chf.Width; x++ {
			c := &chf.Cells[x+z*chf.Width]
			for i := c.Index; i < c.Index+c.Count; i++ {
				s := &chf.Spans[i]
				for dir := 0; dir < 4; dir++ {
					con := GetCon(s, dir)
					if con == NOT_CONNECTED {
						continue
					}
					ax := x + common.GetDirOffsetX(dir)
					az := z + common.GetDirOffsetZ(dir)
					ai := chf.Cells[ax+az*chf.Width].Index + con
					ns := &chf.Spans[ai]
					back := GetCon(ns, (dir+2)&0x3)
					if back == NOT_CONNECTED {
						t.Fatalf("span %d dir %d: neighbor does not link back", i, dir)
					}
					backIndex := chf.Cells[x+z*chf.Width].Index + back
					assertTrue(t, backIndex == i, "neighbor link must reciprocate to the same span")
				}
			}
		}
	}
}

func TestSetConGetConRoundTrip(t *testing.T) {
	s := &CompactSpan{}
	for dir := 0; dir < 4; dir++ {
		SetCon(s, dir, NOT_CONNECTED)
	}
	SetCon(s, 2, 5)
	assertTrue(t, GetCon(s, 2) == 5, "con field must round trip")
	assertTrue(t, GetCon(s, 0) == NOT_CONNECTED, "other directions must be untouched")
	assertTrue(t, GetCon(s, 1) == NOT_CONNECTED, "other directions must be untouched")
	assertTrue(t, GetCon(s, 3) == NOT_CONNECTED, "other directions must be untouched")
}
