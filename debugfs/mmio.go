package debugfs

import "encoding/binary"

// Bit positions of the high address bits understood by the register window.
// The same three fields select either SE/SH/CU or ME/pipe/queue depending on
// which mode bit is set.
const (
	SEOrMEShift    = 24
	SHOrPipeShift  = 34
	CUOrQueueShift = 44
	UseRingShift   = 61
	UseBankShift   = 62
)

// BankSelect returns the high address bits that route a register access to
// one SE/SH/CU bank.
func BankSelect(se, sh, cu uint32) uint64 {
	return uint64(se)<<SEOrMEShift |
		uint64(sh)<<SHOrPipeShift |
		uint64(cu)<<CUOrQueueShift |
		1<<UseBankShift
}

// RingSelect returns the high address bits that route a register access to
// one ME/pipe/queue.
func RingSelect(me, pipe, queue uint32) uint64 {
	return uint64(me)<<SEOrMEShift |
		uint64(pipe)<<SHOrPipeShift |
		uint64(queue)<<CUOrQueueShift |
		1<<UseRingShift
}

// MMIO performs 32-bit register transactions through the register window.
type MMIO struct {
	ch Channel
}

// NewMMIO creates an MMIO on top of an opened register window.
func NewMMIO(ch Channel) *MMIO {
	return &MMIO{ch: ch}
}

// ReadReg reads the register at addr. The high bits of addr carry the bank
// selection built by BankSelect or RingSelect.
func (m *MMIO) ReadReg(addr uint64) (uint32, error) {
	buf := make([]byte, 4)
	err := ReadAt(m.ch, addr, buf)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(buf), nil
}

// WriteReg writes value to the register at addr.
func (m *MMIO) WriteReg(addr uint64, value uint32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value)
	return WriteAt(m.ch, addr, buf)
}
