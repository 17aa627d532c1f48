// Package gpr reads the scalar and vector register banks of a wave.
package gpr

import (
	"gitlab.com/akita/wavedump/debugfs"
	"gitlab.com/akita/wavedump/wavefront"
)

// A Bank selects which register file the GPR window reads.
type Bank uint32

// Register banks.
const (
	VGPRBank Bank = 0
	SGPRBank Bank = 1
)

// ThreadsPerWave is the wave size of the AI family.
const ThreadsPerWave = 64

// Bit positions of the GPR window offset. The low twelve bits hold the first
// register to read and are always zero here.
const (
	seShift     = 12
	shShift     = 20
	cuShift     = 28
	waveShift   = 36
	simdShift   = 44
	threadShift = 52
	bankShift   = 60
)

// WindowOffset returns the GPR window offset of one bank of a wave. The thread is
// ignored by the driver for SGPR reads.
func WindowOffset(loc wavefront.Coordinate, thread uint32, bank Bank) uint64 {
	return uint64(loc.SE)<<seShift |
		uint64(loc.SH)<<shShift |
		uint64(loc.CU)<<cuShift |
		uint64(loc.Wave)<<waveShift |
		uint64(loc.SIMD)<<simdShift |
		uint64(thread)<<threadShift |
		uint64(bank)<<bankShift
}

// A Reader fetches register banks through the GPR window.
type Reader struct {
	ch debugfs.Channel
}

// NewReader creates a Reader on an opened GPR window.
func NewReader(ch debugfs.Channel) *Reader {
	return &Reader{ch: ch}
}

// ReadSGPRs reads count scalar registers of the wave at loc.
func (r *Reader) ReadSGPRs(loc wavefront.Coordinate, count int) ([]uint32, error) {
	return debugfs.ReadWords(r.ch, WindowOffset(loc, 0, SGPRBank), count)
}

// ReadVGPRs reads count vector registers of one thread of the wave at loc.
func (r *Reader) ReadVGPRs(
	loc wavefront.Coordinate,
	thread uint32,
	count int,
) ([]uint32, error) {
	return debugfs.ReadWords(r.ch, WindowOffset(loc, thread, VGPRBank), count)
}

// Banks holds the registers of one wave.
type Banks struct {
	SGPRs []uint32
	// VGPRs is indexed by thread.
	VGPRs [][]uint32
	// Exec is the execution mask at the time the wave was read.
	Exec uint64
}

// IsExecuting tells if a thread was enabled in the execution mask.
func (b *Banks) IsExecuting(thread int) bool {
	return b.Exec&(1<<uint(thread)) != 0
}

// Dump reads all registers allocated to a wave. The wave is addressed by the
// location its hardware id reports, not by the slot it was found through.
// VGPRs are read for every thread whether or not it is executing.
func (r *Reader) Dump(wf *wavefront.Wavefront) (*Banks, error) {
	loc := wf.Location()

	sgprs, err := r.ReadSGPRs(loc, int(wf.GPRs.SGPRSize))
	if err != nil {
		return nil, err
	}

	b := &Banks{
		SGPRs: sgprs,
		VGPRs: make([][]uint32, ThreadsPerWave),
		Exec:  wf.EXEC,
	}

	for thread := 0; thread < ThreadsPerWave; thread++ {
		vgprs, err := r.ReadVGPRs(loc, uint32(thread), int(wf.GPRs.VGPRSize))
		if err != nil {
			return nil, err
		}
		b.VGPRs[thread] = vgprs
	}

	return b, nil
}
