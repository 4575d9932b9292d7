package layout

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// GDSII stream record types (record byte and data-type byte combined).
const (
	recHeader   = 0x0002
	recBgnLib   = 0x0102
	recLibName  = 0x0206
	recUnits    = 0x0305
	recEndLib   = 0x0400
	recBgnStr   = 0x0502
	recStrName  = 0x0606
	recEndStr   = 0x0700
	recBoundary = 0x0800
	recAref     = 0x0B00
	recLayer    = 0x0D02
	recDatatype = 0x0E02
	recXY       = 0x1003
	recEndel    = 0x1100
	recSname    = 0x1206
	recColRow   = 0x1302
)

// gdsVersion is the stream format version written in the HEADER record.
const gdsVersion = 600

// gdsTimestamp is the fixed modification/access time stamped into BGNLIB
// and BGNSTR records: year, month, day, hour, minute, second, twice.
// A fixed stamp keeps exports byte-for-byte reproducible.
var gdsTimestamp = [12]uint16{2026, 1, 1, 0, 0, 0, 2026, 1, 1, 0, 0, 0}

// ExportGDS writes the library to a GDSII stream file at path. A failure is
// fatal for the export step only; callers report it without discarding
// earlier results.
func ExportGDS(lib Library, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGDS(lib, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// WriteGDS serializes the library as a GDSII stream: header and units
// (1 nm database unit, 1 µm user unit), one structure per cell in order,
// and the closing record.
func WriteGDS(lib Library, w io.Writer) error {
	bw := bufio.NewWriter(w)
	g := &gdsWriter{w: bw}

	g.recordU16(recHeader, gdsVersion)
	g.recordU16(recBgnLib, gdsTimestamp[:]...)
	g.recordString(recLibName, lib.Name)
	// User units per database unit, then the database unit in metres.
	g.recordReal8(recUnits, 1e-3, DatabaseUnit)

	for _, cell := range lib.Cells {
		g.recordU16(recBgnStr, gdsTimestamp[:]...)
		g.recordString(recStrName, cell.Name)
		for _, poly := range cell.Polygons {
			g.recordU16(recBoundary)
			g.recordU16(recLayer, uint16(poly.Layer))
			g.recordU16(recDatatype, 0)
			g.recordI32(recXY, poly.XY...)
			g.recordU16(recEndel)
		}
		for _, ref := range cell.Arrays {
			g.recordU16(recAref)
			g.recordString(recSname, ref.CellName)
			g.recordU16(recColRow, uint16(ref.Cols), uint16(ref.Rows))
			g.recordI32(recXY,
				ref.X, ref.Y,
				ref.X+int32(ref.Cols)*ref.ColPitchX, ref.Y+int32(ref.Cols)*ref.ColPitchY,
				ref.X+int32(ref.Rows)*ref.RowPitchX, ref.Y+int32(ref.Rows)*ref.RowPitchY,
			)
			g.recordU16(recEndel)
		}
		g.recordU16(recEndStr)
	}

	g.recordU16(recEndLib)

	if g.err != nil {
		return g.err
	}
	return bw.Flush()
}

// gdsWriter emits length-prefixed big-endian records, latching the first
// write error.
type gdsWriter struct {
	w   io.Writer
	err error
}

func (g *gdsWriter) record(recType uint16, data []byte) {
	if g.err != nil {
		return
	}
	var head [4]byte
	binary.BigEndian.PutUint16(head[0:2], uint16(4+len(data)))
	binary.BigEndian.PutUint16(head[2:4], recType)
	if _, err := g.w.Write(head[:]); err != nil {
		g.err = err
		return
	}
	if len(data) > 0 {
		if _, err := g.w.Write(data); err != nil {
			g.err = err
		}
	}
}

func (g *gdsWriter) recordU16(recType uint16, vals ...uint16) {
	data := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint16(data[2*i:], v)
	}
	g.record(recType, data)
}

func (g *gdsWriter) recordI32(recType uint16, vals ...int32) {
	data := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(data[4*i:], uint32(v))
	}
	g.record(recType, data)
}

// recordString writes an ASCII record, NUL-padded to even length.
func (g *gdsWriter) recordString(recType uint16, s string) {
	data := []byte(s)
	if len(data)%2 != 0 {
		data = append(data, 0)
	}
	g.record(recType, data)
}

func (g *gdsWriter) recordReal8(recType uint16, vals ...float64) {
	data := make([]byte, 0, 8*len(vals))
	for _, v := range vals {
		b := encodeReal8(v)
		data = append(data, b[:]...)
	}
	g.record(recType, data)
}

// encodeReal8 converts a float64 to the GDSII excess-64 base-16 8-byte
// floating point format: sign bit, 7-bit exponent (power of 16, excess 64),
// 56-bit mantissa in [1/16, 1).
func encodeReal8(f float64) [8]byte {
	var b [8]byte
	if f == 0 {
		return b
	}

	var sign byte
	if f < 0 {
		sign = 0x80
		f = -f
	}

	exp := 64
	for f >= 1 {
		f /= 16
		exp++
	}
	for f < 1.0/16.0 {
		f *= 16
		exp--
	}
	if exp < 0 {
		exp = 0
	} else if exp > 127 {
		exp = 127
	}

	mant := uint64(f * (1 << 56))
	b[0] = sign | byte(exp)
	for i := 0; i < 7; i++ {
		b[1+i] = byte(mant >> uint(8*(6-i)))
	}
	return b
}
