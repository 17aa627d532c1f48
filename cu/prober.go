// Package cu probes compute units for resident waves.
package cu

import (
	"errors"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"gitlab.com/akita/wavedump/debugfs"
)

// Offsets of the SQ indirect register pair in the register window.
const (
	SQIndIndex = 0x8de0
	SQIndData  = 0x8de4
)

// Topology of the AI family. SIMDPerCU and WavesPerSIMD bound the wave scan;
// they are not read from the hardware.
const (
	MaxSE        = 4
	SHPerSE      = 1
	CUPerSH      = 16
	SIMDPerCU    = 4
	WavesPerSIMD = 10
)

// probeCommand is written to SQ_IND_INDEX to ask the SQ for the wave
// occupancy of the selected CU.
const probeCommand = 1 << 19

// invalidReadback is what the register window returns when the query itself
// cannot be served.
const invalidReadback = 0xbebebeef

// ErrInvalidQuery is returned when the hardware rejects the activity query.
// It is not the same as a CU without waves.
var ErrInvalidQuery = errors.New("invalid compute unit query")

// A RegisterAccessor reads and writes 32-bit registers.
type RegisterAccessor interface {
	ReadReg(addr uint64) (uint32, error)
	WriteReg(addr uint64, value uint32) error
}

// A Prober tells if a compute unit currently hosts a wave.
type Prober struct {
	regs   RegisterAccessor
	logger log.Logger
}

// NewProber creates a Prober that talks to the given registers.
func NewProber(regs RegisterAccessor, logger log.Logger) *Prober {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &Prober{regs: regs, logger: logger}
}

// IsActive returns true if the CU selected by se, sh and cu hosts at least one
// wave. The readback is a probe result and does not hold register content.
func (p *Prober) IsActive(se, sh, cu uint32) (bool, error) {
	bank := debugfs.BankSelect(se, sh, cu)

	err := p.regs.WriteReg(bank|SQIndIndex, probeCommand)
	if err != nil {
		return false, err
	}

	value, err := p.regs.ReadReg(bank | SQIndData)
	if err != nil {
		return false, err
	}

	if value == invalidReadback {
		level.Warn(p.logger).Log(
			"msg", "compute unit query rejected",
			"se", se, "sh", sh, "cu", cu)
		return false, ErrInvalidQuery
	}

	return value&1 != 0, nil
}
