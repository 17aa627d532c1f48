package wavefront

import "gitlab.com/akita/wavedump/debugfs"

// A Wavefront is a live wave found on the GPU.
type Wavefront struct {
	// Slot is the coordinate the wave was found through.
	Slot Coordinate

	HWID   HardwareID
	GPRs   GPRAlloc
	LDS    LDSAlloc
	Status Status
	PC     uint64
	EXEC   uint64

	Record Record
}

// NewWavefront decodes a valid record found at slot.
func NewWavefront(slot Coordinate, r Record) *Wavefront {
	return &Wavefront{
		Slot:   slot,
		HWID:   r.HardwareID(),
		GPRs:   r.GPRAlloc(),
		LDS:    r.LDSAlloc(),
		Status: r.Status(),
		PC:     r.PC(),
		EXEC:   r.Exec(),
		Record: r,
	}
}

// Location returns where the hardware says the wave lives. Register reads
// must use this location rather than Slot.
func (wf *Wavefront) Location() Coordinate {
	return wf.HWID.Location()
}

// A Reader fetches wave state records from the wave window.
type Reader struct {
	ch debugfs.Channel
}

// NewReader creates a Reader on an opened wave window.
func NewReader(ch debugfs.Channel) *Reader {
	return &Reader{ch: ch}
}

// Read fetches the record of a wave slot. It returns false with a nil error
// if the slot holds no live wave.
func (r *Reader) Read(slot Coordinate) (*Wavefront, bool, error) {
	words, err := debugfs.ReadWords(r.ch, slot.DumpOffset(), RecordWords)
	if err != nil {
		return nil, false, err
	}

	var rec Record
	copy(rec[:], words)

	if !rec.IsValid() {
		return nil, false, nil
	}

	return NewWavefront(slot, rec), true, nil
}
