package wavefront

// RecordWords is the number of words in a wave state record.
const RecordWords = 32

// Word indices of the wave state record.
const (
	StatusIndex   = 1
	PCLowIndex    = 2
	PCHighIndex   = 3
	ExecLowIndex  = 4
	ExecHighIndex = 5
	HWIDIndex     = 6
	GPRAllocIndex = 8
	LDSAllocIndex = 9
	TrapStsIndex  = 10
	IBStsIndex    = 11
)

// recordVersion is the value of word 0 of a record the driver filled in.
const recordVersion = 1

// A Record is the raw wave state as dumped by the driver.
type Record [RecordWords]uint32

// IsValid tells if the record describes a live wave.
func (r *Record) IsValid() bool {
	return r[0] == recordVersion && Status(r[StatusIndex]).Valid()
}

// Status returns the SQ_WAVE_STATUS word.
func (r *Record) Status() Status {
	return Status(r[StatusIndex])
}

// PC returns the 64-bit program counter.
func (r *Record) PC() uint64 {
	return uint64(r[PCHighIndex])<<32 | uint64(r[PCLowIndex])
}

// Exec returns the 64-bit execution mask.
func (r *Record) Exec() uint64 {
	return uint64(r[ExecHighIndex])<<32 | uint64(r[ExecLowIndex])
}

// HardwareID decodes the SQ_WAVE_HW_ID word.
func (r *Record) HardwareID() HardwareID {
	return DecodeHardwareID(r[HWIDIndex])
}

// GPRAlloc decodes the SQ_WAVE_GPR_ALLOC word.
func (r *Record) GPRAlloc() GPRAlloc {
	return DecodeGPRAlloc(r[GPRAllocIndex])
}

// LDSAlloc decodes the SQ_WAVE_LDS_ALLOC word.
func (r *Record) LDSAlloc() LDSAlloc {
	return DecodeLDSAlloc(r[LDSAllocIndex])
}

// Status is the SQ_WAVE_STATUS word.
type Status uint32

// Bits of the status word.
const (
	StatusPriv   Status = 1 << 5
	StatusTrapEn Status = 1 << 6
	StatusExecZ  Status = 1 << 9
	StatusHalt   Status = 1 << 13
	StatusTrap   Status = 1 << 14
	StatusValid  Status = 1 << 16
)

// Valid tells if the valid bit is set.
func (s Status) Valid() bool { return s&StatusValid != 0 }

// Halted tells if the wave is halted.
func (s Status) Halted() bool { return s&StatusHalt != 0 }

// InTrap tells if the wave is executing its trap handler.
func (s Status) InTrap() bool { return s&StatusTrap != 0 }

// Privileged tells if the wave runs in privileged mode.
func (s Status) Privileged() bool { return s&StatusPriv != 0 }

// TrapEnabled tells if the wave may enter its trap handler.
func (s Status) TrapEnabled() bool { return s&StatusTrapEn != 0 }

// ExecZero tells if the EXEC mask was zero when the state was sampled.
func (s Status) ExecZero() bool { return s&StatusExecZ != 0 }

func field(word uint32, shift uint, mask uint32) uint32 {
	return (word >> shift) & mask
}

// HardwareID is the location of a wave as reported by the hardware. It may
// differ from the slot the wave was found through.
type HardwareID struct {
	WaveID  uint32
	SIMDID  uint32
	PipeID  uint32
	CUID    uint32
	SHID    uint32
	SEID    uint32
	TGID    uint32
	VMID    uint32
	QueueID uint32
	StateID uint32
	MEID    uint32
}

// DecodeHardwareID splits a SQ_WAVE_HW_ID word into its fields.
func DecodeHardwareID(word uint32) HardwareID {
	return HardwareID{
		WaveID:  field(word, 0, 0xf),
		SIMDID:  field(word, 4, 0x3),
		PipeID:  field(word, 6, 0x3),
		CUID:    field(word, 8, 0xf),
		SHID:    field(word, 12, 0x1),
		SEID:    field(word, 13, 0x3),
		TGID:    field(word, 16, 0xf),
		VMID:    field(word, 20, 0xf),
		QueueID: field(word, 24, 0x7),
		StateID: field(word, 27, 0x7),
		MEID:    field(word, 30, 0x3),
	}
}

// Location returns the coordinate the hardware reports for the wave.
func (id HardwareID) Location() Coordinate {
	return Coordinate{
		SE:   id.SEID,
		SH:   id.SHID,
		CU:   id.CUID,
		SIMD: id.SIMDID,
		Wave: id.WaveID,
	}
}

// GPRAlloc holds the register file allocation of a wave. The sizes are in
// registers, already scaled from the allocation granules.
type GPRAlloc struct {
	VGPRBase uint32
	VGPRSize uint32
	SGPRBase uint32
	SGPRSize uint32
}

// DecodeGPRAlloc decodes a SQ_WAVE_GPR_ALLOC word. SGPRs are allocated in
// blocks of 16 and VGPRs in blocks of 4, the fields hold the block count
// minus one.
func DecodeGPRAlloc(word uint32) GPRAlloc {
	return GPRAlloc{
		VGPRBase: field(word, 0, 0x3f),
		VGPRSize: (field(word, 8, 0x3f) + 1) << 2,
		SGPRBase: field(word, 16, 0x3f),
		SGPRSize: (field(word, 24, 0xf) + 1) << 4,
	}
}

// LDSAlloc holds the LDS allocation of a wave's work-group.
type LDSAlloc struct {
	Base uint32
	Size uint32
}

// DecodeLDSAlloc decodes a SQ_WAVE_LDS_ALLOC word.
func DecodeLDSAlloc(word uint32) LDSAlloc {
	return LDSAlloc{
		Base: field(word, 0, 0xff),
		Size: field(word, 12, 0x1ff),
	}
}
