package rw

import (
	"bytes"
	"encoding/binary"
	"math"
)

// ReaderWriter is a little-endian binary codec over an in-memory buffer.
// Writers start empty; readers wrap an existing byte slice.
type ReaderWriter struct {
	order   binary.ByteOrder
	dataBuf []byte
	rw      bytes.Buffer
}

func NewBinWriter() *ReaderWriter {
	return &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
}

func NewBinReader(data []byte) *ReaderWriter {
	d := &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
	d.rw.Write(data)
	return d
}

func (w *ReaderWriter) GetWriteBytes() []byte {
	return w.rw.Bytes()
}

func (w *ReaderWriter) WriteUInt8(value uint8) {
	w.rw.WriteByte(value)
}

func (w *ReaderWriter) WriteUInt8s(value []uint8) {
	w.rw.Write(value)
}

func (w *ReaderWriter) WriteUInt16(value uint16) {
	w.order.PutUint16(w.dataBuf[:2], value)
	w.rw.Write(w.dataBuf[:2])
}

func (w *ReaderWriter) WriteUInt16s(value []uint16) {
	for _, v := range value {
		w.WriteUInt16(v)
	}
}

func (w *ReaderWriter) WriteInt32(value int32) {
	w.WriteUInt32(uint32(value))
}

func (w *ReaderWriter) WriteInt32s(value []int32) {
	for _, v := range value {
		w.WriteInt32(v)
	}
}

func (w *ReaderWriter) WriteUInt32(value uint32) {
	w.order.PutUint32(w.dataBuf[:4], value)
	w.rw.Write(w.dataBuf[:4])
}

func (w *ReaderWriter) WriteFloat32(value float32) {
	w.WriteUInt32(math.Float32bits(value))
}

func (w *ReaderWriter) WriteFloat32s(value []float32) {
	for _, v := range value {
		w.WriteFloat32(v)
	}
}

func (w *ReaderWriter) ReadUInt8() uint8 {
	b, err := w.rw.ReadByte()
	if err != nil {
		panic(err)
	}
	return b
}

func (w *ReaderWriter) ReadUInt8s(value []uint8) {
	for i := range value {
		value[i] = w.ReadUInt8()
	}
}

func (w *ReaderWriter) ReadUInt16() uint16 {
	_, err := w.rw.Read(w.dataBuf[:2])
	if err != nil {
		panic(err)
	}
	return w.order.Uint16(w.dataBuf[:2])
}

func (w *ReaderWriter) ReadUInt16s(value []uint16) {
	for i := range value {
		value[i] = w.ReadUInt16()
	}
}

func (w *ReaderWriter) ReadUInt32() uint32 {
	_, err := w.rw.Read(w.dataBuf[:4])
	if err != nil {
		panic(err)
	}
	return w.order.Uint32(w.dataBuf[:4])
}

func (w *ReaderWriter) ReadInt32() int32 {
	return int32(w.ReadUInt32())
}

func (w *ReaderWriter) ReadInt32s(value []int32) {
	for i := range value {
		value[i] = w.ReadInt32()
	}
}

func (w *ReaderWriter) ReadFloat32() float32 {
	return math.Float32frombits(w.ReadUInt32())
}

func (w *ReaderWriter) ReadFloat32s(value []float32) {
	for i := range value {
		value[i] = w.ReadFloat32()
	}
}
