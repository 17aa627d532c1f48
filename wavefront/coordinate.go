// Package wavefront reads and decodes the state of resident waves.
package wavefront

import "fmt"

// Bit positions of the wave window offset. SE, SH and CU are eight bits wide,
// wave is six bits wide below SIMD, and the low seven bits select a word
// inside the record.
const (
	dumpSEShift   = 7
	dumpSHShift   = 15
	dumpCUShift   = 23
	dumpWaveShift = 31
	dumpSIMDShift = 37
)

// A Coordinate locates a wave slot on the GPU.
type Coordinate struct {
	SE   uint32
	SH   uint32
	CU   uint32
	SIMD uint32
	Wave uint32
}

// DumpOffset returns the wave window offset of the state record of the slot.
func (c Coordinate) DumpOffset() uint64 {
	return uint64(c.SE)<<dumpSEShift |
		uint64(c.SH)<<dumpSHShift |
		uint64(c.CU)<<dumpCUShift |
		uint64(c.Wave)<<dumpWaveShift |
		uint64(c.SIMD)<<dumpSIMDShift
}

// Less orders coordinates by SE, SH, CU, SIMD and wave.
func (c Coordinate) Less(o Coordinate) bool {
	switch {
	case c.SE != o.SE:
		return c.SE < o.SE
	case c.SH != o.SH:
		return c.SH < o.SH
	case c.CU != o.CU:
		return c.CU < o.CU
	case c.SIMD != o.SIMD:
		return c.SIMD < o.SIMD
	default:
		return c.Wave < o.Wave
	}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("se%d.sh%d.cu%d.simd%d.wave%d",
		c.SE, c.SH, c.CU, c.SIMD, c.Wave)
}
