// Package fakegpu provides an in-memory GPU that serves the amdgpu debugfs
// windows. It is deterministic: the same accesses always return the same
// bytes until the device state is changed.
package fakegpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"

	"gitlab.com/akita/wavedump/cu"
	"gitlab.com/akita/wavedump/debugfs"
	"gitlab.com/akita/wavedump/gpr"
	"gitlab.com/akita/wavedump/wavefront"
)

// ErrClosed is returned by accesses to a closed window.
var ErrClosed = errors.New("window closed")

// An Access is one transfer served by the device.
type Access struct {
	Window string
	Offset uint64
	Size   int
	Write  bool
}

type unit struct {
	se, sh, cu uint32
}

type vgprKey struct {
	loc    wavefront.Coordinate
	thread uint32
}

// A Device is a fake GPU.
type Device struct {
	active  map[unit]bool
	invalid map[unit]bool
	waves   map[wavefront.Coordinate]wavefront.Record
	sgprs   map[wavefront.Coordinate][]uint32
	vgprs   map[vgprKey][]uint32
	regs    map[uint64]uint32

	// OpenErrs makes opening the named window fail.
	OpenErrs map[string]error
	// ReadErrs makes every read on the named window fail.
	ReadErrs map[string]error

	Accesses []Access
	Opened   map[string]int
	Closed   map[string]int
}

// New creates a device with no active compute unit.
func New() *Device {
	return &Device{
		active:   make(map[unit]bool),
		invalid:  make(map[unit]bool),
		waves:    make(map[wavefront.Coordinate]wavefront.Record),
		sgprs:    make(map[wavefront.Coordinate][]uint32),
		vgprs:    make(map[vgprKey][]uint32),
		regs:     make(map[uint64]uint32),
		OpenErrs: make(map[string]error),
		ReadErrs: make(map[string]error),
		Opened:   make(map[string]int),
		Closed:   make(map[string]int),
	}
}

// ActivateCU marks a compute unit as hosting waves.
func (d *Device) ActivateCU(se, sh, cu uint32) {
	d.active[unit{se, sh, cu}] = true
}

// InvalidateCU makes activity queries on a compute unit return the invalid
// query sentinel.
func (d *Device) InvalidateCU(se, sh, cu uint32) {
	d.invalid[unit{se, sh, cu}] = true
}

// PlaceWave makes the wave window return r for the slot.
func (d *Device) PlaceWave(slot wavefront.Coordinate, r wavefront.Record) {
	d.waves[slot] = r
}

// SetSGPRs sets the scalar registers of the wave at a hardware location.
func (d *Device) SetSGPRs(loc wavefront.Coordinate, values []uint32) {
	d.sgprs[loc] = values
}

// SetVGPRs sets the vector registers of one thread of the wave at a hardware
// location.
func (d *Device) SetVGPRs(
	loc wavefront.Coordinate,
	thread uint32,
	values []uint32,
) {
	d.vgprs[vgprKey{loc, thread}] = values
}

// Register returns the last value written to a register address.
func (d *Device) Register(addr uint64) uint32 {
	return d.regs[addr]
}

// AccessesTo lists the accesses served by one window.
func (d *Device) AccessesTo(window string) []Access {
	var list []Access
	for _, a := range d.Accesses {
		if a.Window == window {
			list = append(list, a)
		}
	}
	return list
}

// Open opens a window by path. Only the base name is looked at.
func (d *Device) Open(path string) (debugfs.Channel, error) {
	name := filepath.Base(path)

	switch name {
	case debugfs.RegsFile, debugfs.WaveFile, debugfs.GPRFile:
	default:
		return nil, fmt.Errorf("open %s: no such window", path)
	}

	if err := d.OpenErrs[name]; err != nil {
		return nil, err
	}

	d.Opened[name]++
	return &window{dev: d, name: name}, nil
}

type window struct {
	dev    *Device
	name   string
	pos    uint64
	closed bool
}

func (w *window) Seek(offset uint64) error {
	if w.closed {
		return ErrClosed
	}

	w.pos = offset
	return nil
}

func (w *window) Read(buf []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}

	if err := w.dev.ReadErrs[w.name]; err != nil {
		return 0, err
	}

	w.dev.Accesses = append(w.dev.Accesses,
		Access{Window: w.name, Offset: w.pos, Size: len(buf)})

	var words []uint32
	switch w.name {
	case debugfs.RegsFile:
		words = []uint32{w.dev.readReg(w.pos)}
	case debugfs.WaveFile:
		words = w.dev.readWave(w.pos)
	case debugfs.GPRFile:
		words = w.dev.readGPRs(w.pos)
	}

	for i := range buf {
		buf[i] = 0
	}

	n := 0
	for _, word := range words {
		if n+4 > len(buf) {
			break
		}
		binary.LittleEndian.PutUint32(buf[n:], word)
		n += 4
	}

	if w.name == debugfs.RegsFile {
		return n, nil
	}

	return len(buf), nil
}

func (w *window) Write(buf []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}

	w.dev.Accesses = append(w.dev.Accesses,
		Access{Window: w.name, Offset: w.pos, Size: len(buf), Write: true})

	if w.name != debugfs.RegsFile || len(buf) < 4 {
		return 0, fmt.Errorf("write %s: not supported", w.name)
	}

	w.dev.regs[w.pos] = binary.LittleEndian.Uint32(buf)
	return 4, nil
}

func (w *window) Close() error {
	if w.closed {
		return ErrClosed
	}

	w.closed = true
	w.dev.Closed[w.name]++
	return nil
}

const regOffsetMask = 1<<debugfs.SEOrMEShift - 1

func (d *Device) readReg(addr uint64) uint32 {
	reg := addr & regOffsetMask
	if reg != cu.SQIndData {
		return d.regs[addr]
	}

	bank := addr &^ regOffsetMask
	if d.regs[bank|cu.SQIndIndex] == 0 {
		return 0
	}

	u := unit{
		se: uint32(addr>>debugfs.SEOrMEShift) & 0x3ff,
		sh: uint32(addr>>debugfs.SHOrPipeShift) & 0x3ff,
		cu: uint32(addr>>debugfs.CUOrQueueShift) & 0x3ff,
	}

	switch {
	case d.invalid[u]:
		return 0xbebebeef
	case d.active[u]:
		return 1
	default:
		return 0
	}
}

func (d *Device) readWave(offset uint64) []uint32 {
	slot := wavefront.Coordinate{
		SE:   uint32(offset>>7) & 0xff,
		SH:   uint32(offset>>15) & 0xff,
		CU:   uint32(offset>>23) & 0xff,
		Wave: uint32(offset>>31) & 0x3f,
		SIMD: uint32(offset>>37) & 0xff,
	}

	r, found := d.waves[slot]
	if !found {
		return nil
	}

	return r[:]
}

func (d *Device) readGPRs(offset uint64) []uint32 {
	loc := wavefront.Coordinate{
		SE:   uint32(offset>>12) & 0xff,
		SH:   uint32(offset>>20) & 0xff,
		CU:   uint32(offset>>28) & 0xff,
		Wave: uint32(offset>>36) & 0xff,
		SIMD: uint32(offset>>44) & 0xff,
	}
	thread := uint32(offset>>52) & 0xff
	bank := gpr.Bank(offset>>60) & 0x3

	if bank == gpr.SGPRBank {
		return d.sgprs[loc]
	}

	return d.vgprs[vgprKey{loc, thread}]
}
