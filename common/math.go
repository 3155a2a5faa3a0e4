package common

import (
	"cmp"
	"math"
)

// / Returns the square of the value.
func Sqr[T int | int32 | float32 | float64](a T) T {
	return a * a
}

// / Returns the absolute value.
func Abs[T int | int32 | float32 | float64](a T) T {
	if a < 0 {
		return -a
	}
	return a
}

func Min[T cmp.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T cmp.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// / Clamps the value to the specified range.
// / @param[in]		value			The value to clamp.
// / @param[in]		minInclusive	The minimum permitted return value.
// / @param[in]		maxInclusive	The maximum permitted return value.
// / @return The value, clamped to the specified range.
func Clamp[T cmp.Ordered](value, minInclusive, maxInclusive T) T {
	if value < minInclusive {
		return minInclusive
	}
	if value > maxInclusive {
		return maxInclusive
	}
	return value
}

// / Returns the vertex at the index. Vertices are packed [(x, y, z)] * n.
func GetVert3[T int | int32 | float32 | float64](verts []T, index int) []T {
	return verts[index*3 : index*3+3]
}

// / Selects the minimum value of each element from the specified vectors.
// / @param[in,out]	mn	A vector.  (Will be updated with the result.) [(x, y, z)]
// / @param[in]		v	A vector. [(x, y, z)]
func Vmin[T float32 | float64](mn, v []T) {
	mn[0] = Min(mn[0], v[0])
	mn[1] = Min(mn[1], v[1])
	mn[2] = Min(mn[2], v[2])
}

// / Selects the maximum value of each element from the specified vectors.
// / @param[in,out]	mx	A vector.  (Will be updated with the result.) [(x, y, z)]
// / @param[in]		v	A vector. [(x, y, z)]
func Vmax[T float32 | float64](mx, v []T) {
	mx[0] = Max(mx[0], v[0])
	mx[1] = Max(mx[1], v[1])
	mx[2] = Max(mx[2], v[2])
}

// / Performs a vector subtraction. (@p v1 - @p v2)
func Vsub[T float32 | float64](res, v1, v2 []T) {
	res[0] = v1[0] - v2[0]
	res[1] = v1[1] - v2[1]
	res[2] = v1[2] - v2[2]
}

// / Derives the cross product of two vectors. (@p v1 x @p v2)
func Vcross[T float32 | float64](res []T, v1, v2 []T) {
	res[0] = v1[1]*v2[2] - v1[2]*v2[1]
	res[1] = v1[2]*v2[0] - v1[0]*v2[2]
	res[2] = v1[0]*v2[1] - v1[1]*v2[0]
}

// / Derives the dot product of two vectors. (@p v1 . @p v2)
func Vdot[T float32 | float64](v1, v2 []T) T {
	return v1[0]*v2[0] + v1[1]*v2[1] + v1[2]*v2[2]
}

// / Normalizes the vector.
// / @param[in,out]	v	The vector to normalize. [(x, y, z)]
func Vnormalize[T float32 | float64](v []T) {
	d := T(1.0 / math.Sqrt(float64(Sqr(v[0])+Sqr(v[1])+Sqr(v[2]))))
	v[0] *= d
	v[1] *= d
	v[2] *= d
}

// / Gets the standard width (x-axis) offset for the specified direction.
// / @param[in]		direction		The direction. [Limits: 0 <= value < 4]
// / @return The width offset to apply to the current cell position to move in the direction.
func GetDirOffsetX(direction int) int {
	offset := [4]int{-1, 0, 1, 0}
	return offset[direction&0x03]
}

// / Gets the standard height (z-axis) offset for the specified direction.
// / @param[in]		direction		The direction. [Limits: 0 <= value < 4]
// / @return The height offset to apply to the current cell position to move in the direction.
func GetDirOffsetZ(direction int) int {
	offset := [4]int{0, 1, 0, -1}
	return offset[direction&0x03]
}

// / Gets the direction for the specified offset. One of x and z should be 0.
// / @param[in]		offsetX		The x offset. [Limits: -1 <= value <= 1]
// / @param[in]		offsetZ		The z offset. [Limits: -1 <= value <= 1]
// / @return The direction that represents the offset.
func GetDirForOffset(offsetX, offsetZ int) int {
	dirs := [5]int{3, 0, -1, 2, 1}
	return dirs[((offsetZ+1)<<1)+offsetX]
}
