package navgen

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"voxnav/common/rw"
)

// Magic and version of the poly mesh binary format.
const (
	polyMeshMagic   = 0x564e4156 // 'VNAV'
	polyMeshVersion = 1
)

// / Serializes the poly mesh into the little-endian binary format. The
// / output is deterministic for identical meshes.
func (pm *PolyMesh) ToBin() []byte {
	w := rw.NewBinWriter()
	w.WriteUInt32(polyMeshMagic)
	w.WriteUInt32(polyMeshVersion)

	w.WriteInt32(int32(pm.NVerts))
	w.WriteInt32(int32(pm.NPolys))
	w.WriteInt32(int32(pm.MaxPolys))
	w.WriteInt32(int32(pm.Nvp))
	w.WriteInt32(int32(pm.BorderSize))
	w.WriteFloat32s(pm.Bmin[:])
	w.WriteFloat32s(pm.Bmax[:])
	w.WriteFloat32(pm.Cs)
	w.WriteFloat32(pm.Ch)
	w.WriteFloat32(pm.MaxEdgeError)

	for i := 0; i < pm.NVerts*3; i++ {
		w.WriteUInt16(uint16(pm.Verts[i]))
	}
	for i := 0; i < pm.NPolys*pm.Nvp*2; i++ {
		w.WriteUInt16(uint16(pm.Polys[i]))
	}
	for i := 0; i < pm.NPolys; i++ {
		w.WriteUInt16(uint16(pm.Regs[i]))
	}
	for i := 0; i < pm.NPolys; i++ {
		w.WriteUInt16(uint16(pm.Flags[i]))
	}
	for i := 0; i < pm.NPolys; i++ {
		w.WriteUInt8(uint8(pm.Areas[i]))
	}
	return w.GetWriteBytes()
}

// / Deserializes a poly mesh from the binary format produced by ToBin.
func PolyMeshFromBin(data []byte) (*PolyMesh, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("poly mesh data too short: %d bytes", len(data))
	}
	r := rw.NewBinReader(data)
	if magic := r.ReadUInt32(); magic != polyMeshMagic {
		return nil, fmt.Errorf("bad poly mesh magic: 0x%08x", magic)
	}
	if version := r.ReadUInt32(); version != polyMeshVersion {
		return nil, fmt.Errorf("unsupported poly mesh version: %d", version)
	}

	pm := &PolyMesh{}
	pm.NVerts = int(r.ReadInt32())
	pm.NPolys = int(r.ReadInt32())
	pm.MaxPolys = int(r.ReadInt32())
	pm.Nvp = int(r.ReadInt32())
	pm.BorderSize = int(r.ReadInt32())
	r.ReadFloat32s(pm.Bmin[:])
	r.ReadFloat32s(pm.Bmax[:])
	pm.Cs = r.ReadFloat32()
	pm.Ch = r.ReadFloat32()
	pm.MaxEdgeError = r.ReadFloat32()

	pm.Verts = make([]int, pm.NVerts*3)
	for i := range pm.Verts {
		pm.Verts[i] = int(r.ReadUInt16())
	}
	pm.Polys = make([]int, pm.NPolys*pm.Nvp*2)
	for i := range pm.Polys {
		pm.Polys[i] = int(r.ReadUInt16())
	}
	pm.Regs = make([]int, pm.NPolys)
	for i := range pm.Regs {
		pm.Regs[i] = int(r.ReadUInt16())
	}
	pm.Flags = make([]int, pm.NPolys)
	for i := range pm.Flags {
		pm.Flags[i] = int(r.ReadUInt16())
	}
	pm.Areas = make([]int, pm.NPolys)
	for i := range pm.Areas {
		pm.Areas[i] = int(r.ReadUInt8())
	}
	return pm, nil
}

// / Serializes the poly mesh as a msgpack snapshot. The snapshot keeps the
// / exported field layout and is meant for tooling interchange rather than
// / runtime loading.
func (pm *PolyMesh) ToMsgpack() ([]byte, error) {
	return msgpack.Marshal(pm)
}

// / Deserializes a poly mesh from a msgpack snapshot.
func PolyMeshFromMsgpack(data []byte) (*PolyMesh, error) {
	pm := &PolyMesh{}
	if err := msgpack.Unmarshal(data, pm); err != nil {
		return nil, err
	}
	return pm, nil
}

// / Serializes the contour set as a msgpack snapshot.
func (cs *ContourSet) ToMsgpack() ([]byte, error) {
	return msgpack.Marshal(cs)
}
