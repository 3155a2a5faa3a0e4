package common

import (
	"testing"
)

func TestClamp(t *testing.T) {
	if Clamp(2, 0, 1) != 1 {
		t.Errorf("higher than range error")
	}
	if Clamp(1, 0, 2) != 1 {
		t.Errorf("within range error")
	}
	if Clamp(0, 1, 2) != 1 {
		t.Errorf("lower than range error")
	}
}

func TestVcross(t *testing.T) {
	v1 := []float32{3, -3, 1}
	v2 := []float32{4, 9, 2}
	result := make([]float32, 3)
	Vcross(result, v1, v2)
	if result[0] != -15 || result[1] != -2 || result[2] != 39 {
		t.Errorf("computes cross product")
	}
	Vcross(result, v1, v1)
	if result[0] != 0 || result[1] != 0 || result[2] != 0 {
		t.Errorf("cross product with itself is zero")
	}
}

func TestVdot(t *testing.T) {
	v1 := []float32{1, 0, 0}
	if Vdot(v1, v1) != 1 {
		t.Errorf("dot normalized vector with itself")
	}
	v2 := []float32{0, 0, 0}
	if Vdot([]float32{1, 2, 3}, v2) != 0 {
		t.Errorf("dot zero vector with anything is zero")
	}
}

func TestDirOffsets(t *testing.T) {
	// The four cardinal directions, counter-clockwise from -x.
	xs := []int{-1, 0, 1, 0}
	zs := []int{0, 1, 0, -1}
	for dir := 0; dir < 4; dir++ {
		if GetDirOffsetX(dir) != xs[dir] || GetDirOffsetZ(dir) != zs[dir] {
			t.Errorf("direction %d offset mismatch", dir)
		}
		if GetDirForOffset(xs[dir], zs[dir]) != dir {
			t.Errorf("direction %d does not round trip", dir)
		}
	}
}

func TestVminVmax(t *testing.T) {
	mn := []float32{1, 5, 3}
	mx := []float32{1, 5, 3}
	v := []float32{2, 4, 6}
	Vmin(mn, v)
	Vmax(mx, v)
	if mn[0] != 1 || mn[1] != 4 || mn[2] != 3 {
		t.Errorf("component-wise minimum")
	}
	if mx[0] != 2 || mx[1] != 5 || mx[2] != 6 {
		t.Errorf("component-wise maximum")
	}
}
