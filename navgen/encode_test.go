package navgen

import (
	"bytes"
	"testing"
)

func TestPolyMeshBinRoundTrip(t *testing.T) {
	cfg := testConfig(10, 10)
	mesh := buildScene(t, cfg, flatQuadGeom(), nil).Mesh

	data := mesh.ToBin()
	decoded, err := PolyMeshFromBin(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	assertTrue(t, decoded.NVerts == mesh.NVerts, "vertex count must round trip")
	assertTrue(t, decoded.NPolys == mesh.NPolys, "polygon count must round trip")
	assertTrue(t, decoded.Nvp == mesh.Nvp, "nvp must round trip")
	assertTrue(t, decoded.Cs == mesh.Cs && decoded.Ch == mesh.Ch, "cell sizes must round trip")
	for i := 0; i < mesh.NVerts*3; i++ {
		if decoded.Verts[i] != mesh.Verts[i] {
			t.Fatalf("vertex %d differs after round trip", i)
		}
	}
	for i := 0; i < mesh.NPolys*mesh.Nvp*2; i++ {
		if decoded.Polys[i] != mesh.Polys[i] {
			t.Fatalf("poly slot %d differs after round trip", i)
		}
	}

	// Re-encoding is byte-stable.
	assertTrue(t, bytes.Equal(data, decoded.ToBin()), "re-encode must be byte-identical")
}

func TestPolyMeshBinRejectsGarbage(t *testing.T) {
	if _, err := PolyMeshFromBin([]byte{1, 2, 3}); err == nil {
		t.Fatalf("short data must be rejected")
	}
	if _, err := PolyMeshFromBin(make([]byte, 64)); err == nil {
		t.Fatalf("bad magic must be rejected")
	}
}

func TestPolyMeshMsgpackRoundTrip(t *testing.T) {
	cfg := testConfig(10, 10)
	mesh := buildScene(t, cfg, flatQuadGeom(), nil).Mesh

	data, err := mesh.ToMsgpack()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := PolyMeshFromMsgpack(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	assertTrue(t, decoded.NVerts == mesh.NVerts, "vertex count must round trip")
	assertTrue(t, decoded.NPolys == mesh.NPolys, "polygon count must round trip")
	assertTrue(t, len(decoded.Verts) == len(mesh.Verts), "vertex array must round trip")
}
