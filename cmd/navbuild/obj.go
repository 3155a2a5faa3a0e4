package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"voxnav/navgen"
)

// loadObjMesh reads a Wavefront OBJ file into a triangle soup. Faces with
// more than three vertices are fanned into triangles; normals, texture
// coordinates, groups and materials are ignored.
func loadObjMesh(path string) (*navgen.Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	geom := &navgen.Geometry{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed vertex line: %q", line)
			}
			var v mgl32.Vec3
			for i := 0; i < 3; i++ {
				val, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("malformed vertex line: %q", line)
				}
				v[i] = float32(val)
			}
			geom.Verts = append(geom.Verts, v[0], v[1], v[2])
			geom.NVerts++
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed face line: %q", line)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, fld := range fields[1:] {
				// A face vertex may be "v", "v/vt", "v//vn" or "v/vt/vn".
				s := fld
				if slash := strings.IndexByte(s, '/'); slash >= 0 {
					s = s[:slash]
				}
				vi, err := strconv.Atoi(s)
				if err != nil {
					return nil, fmt.Errorf("malformed face line: %q", line)
				}
				if vi < 0 {
					vi = geom.NVerts + vi
				} else {
					vi--
				}
				if vi < 0 || vi >= geom.NVerts {
					return nil, fmt.Errorf("face index out of range: %q", line)
				}
				idx = append(idx, vi)
			}
			// Fan triangulation.
			for i := 2; i < len(idx); i++ {
				geom.Tris = append(geom.Tris, idx[0], idx[i-1], idx[i])
				geom.NTris++
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if geom.NTris == 0 {
		return nil, fmt.Errorf("%s: no triangles", path)
	}
	return geom, nil
}

// meshBounds returns the AABB of the soup.
func meshBounds(geom *navgen.Geometry) (mgl32.Vec3, mgl32.Vec3) {
	bmin := mgl32.Vec3{geom.Verts[0], geom.Verts[1], geom.Verts[2]}
	bmax := bmin
	for i := 1; i < geom.NVerts; i++ {
		v := mgl32.Vec3{geom.Verts[i*3], geom.Verts[i*3+1], geom.Verts[i*3+2]}
		for k := 0; k < 3; k++ {
			if v[k] < bmin[k] {
				bmin[k] = v[k]
			}
			if v[k] > bmax[k] {
				bmax[k] = v[k]
			}
		}
	}
	return bmin, bmax
}
