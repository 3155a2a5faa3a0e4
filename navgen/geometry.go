package navgen

// Integer geometry predicates over grid-space vertices. Vertices are
// addressed as sub-slices of a packed array with a 4-int stride
// (x, y, z, flags); only the x and z components participate.

func prev(i, n int) int {
	if i-1 >= 0 {
		return i - 1
	}
	return n - 1
}

func next(i, n int) int {
	if i+1 < n {
		return i + 1
	}
	return 0
}

func getVert4(verts []int, index int) []int {
	return verts[index*4 : index*4+4]
}

func area2(a, b, c []int) int {
	return (b[0]-a[0])*(c[2]-a[2]) - (c[0]-a[0])*(b[2]-a[2])
}

// Returns true iff c is strictly to the left of the directed
// line through a to b.
func left(a, b, c []int) bool {
	return area2(a, b, c) < 0
}

func leftOn(a, b, c []int) bool {
	return area2(a, b, c) <= 0
}

func collinear(a, b, c []int) bool {
	return area2(a, b, c) == 0
}

// Exclusive or: true iff exactly one argument is true.
func xorb(x, y bool) bool {
	return x != y
}

// Returns true iff ab properly intersects cd: they share a point
// interior to both segments. The properness of the intersection is
// ensured by using strict leftness.
func intersectProp(a, b, c, d []int) bool {
	// Eliminate improper cases.
	if collinear(a, b, c) || collinear(a, b, d) ||
		collinear(c, d, a) || collinear(c, d, b) {
		return false
	}
	return xorb(left(a, b, c), left(a, b, d)) && xorb(left(c, d, a), left(c, d, b))
}

// Returns true iff point c lies on the closed segment ab.
// Assumes it is already known that abc are collinear.
func between(a, b, c []int) bool {
	if !collinear(a, b, c) {
		return false
	}
	// If ab not vertical, check betweenness on x; else on z.
	if a[0] != b[0] {
		return ((a[0] <= c[0]) && (c[0] <= b[0])) || ((a[0] >= c[0]) && (c[0] >= b[0]))
	}
	return ((a[2] <= c[2]) && (c[2] <= b[2])) || ((a[2] >= c[2]) && (c[2] >= b[2]))
}

// Returns true iff segments ab and cd intersect, properly or improperly.
func intersect(a, b, c, d []int) bool {
	if intersectProp(a, b, c, d) {
		return true
	}
	return between(a, b, c) || between(a, b, d) ||
		between(c, d, a) || between(c, d, b)
}

func vequal(a, b []int) bool {
	return a[0] == b[0] && a[2] == b[2]
}

// Returns T iff (v_i, v_j) is a proper internal *or* external
// diagonal of P, *ignoring edges incident to v_i and v_j*.
func diagonalie(i, j, n int, verts []int, indices []int) bool {
	d0 := getVert4(verts, indices[i]&0x0fffffff)
	d1 := getVert4(verts, indices[j]&0x0fffffff)

	// For each edge (k,k+1) of P.
	for k := 0; k < n; k++ {
		k1 := next(k, n)
		// Skip edges incident to i or j.
		if !((k == i) || (k1 == i) || (k == j) || (k1 == j)) {
			p0 := getVert4(verts, indices[k]&0x0fffffff)
			p1 := getVert4(verts, indices[k1]&0x0fffffff)

			if vequal(d0, p0) || vequal(d1, p0) || vequal(d0, p1) || vequal(d1, p1) {
				continue
			}

			if intersect(d0, d1, p0, p1) {
				return false
			}
		}
	}
	return true
}

// Returns true iff the diagonal (i,j) is strictly internal to the
// polygon P in the neighborhood of the i endpoint.
func inCone(i, j, n int, verts []int, indices []int) bool {
	pi := getVert4(verts, indices[i]&0x0fffffff)
	pj := getVert4(verts, indices[j]&0x0fffffff)
	pi1 := getVert4(verts, indices[next(i, n)]&0x0fffffff)
	pin1 := getVert4(verts, indices[prev(i, n)]&0x0fffffff)

	// If P[i] is a convex vertex [ i+1 left or on (i-1,i) ].
	if leftOn(pin1, pi, pi1) {
		return left(pi, pj, pin1) && left(pj, pi, pi1)
	}
	// Assume (i-1,i,i+1) not collinear.
	// else P[i] is reflex.
	return !(leftOn(pi, pj, pi1) && leftOn(pj, pi, pin1))
}

// Returns true iff (v_i, v_j) is a proper internal diagonal of P.
func diagonal(i, j, n int, verts []int, indices []int) bool {
	return inCone(i, j, n, verts, indices) && diagonalie(i, j, n, verts, indices)
}

func diagonalieLoose(i, j, n int, verts []int, indices []int) bool {
	d0 := getVert4(verts, indices[i]&0x0fffffff)
	d1 := getVert4(verts, indices[j]&0x0fffffff)

	// For each edge (k,k+1) of P.
	for k := 0; k < n; k++ {
		k1 := next(k, n)
		// Skip edges incident to i or j.
		if !((k == i) || (k1 == i) || (k == j) || (k1 == j)) {
			p0 := getVert4(verts, indices[k]&0x0fffffff)
			p1 := getVert4(verts, indices[k1]&0x0fffffff)

			if vequal(d0, p0) || vequal(d1, p0) || vequal(d0, p1) || vequal(d1, p1) {
				continue
			}

			if intersectProp(d0, d1, p0, p1) {
				return false
			}
		}
	}
	return true
}

func inConeLoose(i, j, n int, verts []int, indices []int) bool {
	pi := getVert4(verts, indices[i]&0x0fffffff)
	pj := getVert4(verts, indices[j]&0x0fffffff)
	pi1 := getVert4(verts, indices[next(i, n)]&0x0fffffff)
	pin1 := getVert4(verts, indices[prev(i, n)]&0x0fffffff)

	// If P[i] is a convex vertex [ i+1 left or on (i-1,i) ].
	if leftOn(pin1, pi, pi1) {
		return leftOn(pi, pj, pin1) && leftOn(pj, pi, pi1)
	}
	// Assume (i-1,i,i+1) not collinear.
	// else P[i] is reflex.
	return !(leftOn(pi, pj, pi1) && leftOn(pj, pi, pin1))
}

func diagonalLoose(i, j, n int, verts []int, indices []int) bool {
	return inConeLoose(i, j, n, verts, indices) && diagonalieLoose(i, j, n, verts, indices)
}
