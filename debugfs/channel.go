// Package debugfs provides access to the diagnostic windows that the amdgpu
// driver exposes under debugfs.
package debugfs

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortTransfer is returned when a read or a write moves fewer bytes than
// requested.
var ErrShortTransfer = errors.New("short transfer")

// ErrOffsetRange is returned when an offset cannot be represented as a file
// position.
var ErrOffsetRange = errors.New("offset out of range")

// A Channel is one opened debugfs window. A channel is a single cursor: every
// transfer must be preceded by a Seek to the address it targets.
type Channel interface {
	Seek(offset uint64) error
	Read(buf []byte) (int, error)
	Write(buf []byte) (int, error)
	Close() error
}

// ReadAt positions the channel at offset and fills buf with exactly one read.
func ReadAt(ch Channel, offset uint64, buf []byte) error {
	err := ch.Seek(offset)
	if err != nil {
		return fmt.Errorf("seek %#x: %w", offset, err)
	}

	n, err := ch.Read(buf)
	if err != nil {
		return fmt.Errorf("read %#x: %w", offset, err)
	}

	if n != len(buf) {
		return fmt.Errorf("read %#x: got %d of %d bytes: %w",
			offset, n, len(buf), ErrShortTransfer)
	}

	return nil
}

// WriteAt positions the channel at offset and writes buf with exactly one
// write.
func WriteAt(ch Channel, offset uint64, buf []byte) error {
	err := ch.Seek(offset)
	if err != nil {
		return fmt.Errorf("seek %#x: %w", offset, err)
	}

	n, err := ch.Write(buf)
	if err != nil {
		return fmt.Errorf("write %#x: %w", offset, err)
	}

	if n != len(buf) {
		return fmt.Errorf("write %#x: put %d of %d bytes: %w",
			offset, n, len(buf), ErrShortTransfer)
	}

	return nil
}

// ReadWords reads count little-endian 32-bit words starting at offset. The
// returned slice is freshly allocated on every call.
func ReadWords(ch Channel, offset uint64, count int) ([]uint32, error) {
	buf := make([]byte, count*4)
	err := ReadAt(ch, offset, buf)
	if err != nil {
		return nil, err
	}

	words := make([]uint32, count)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}

	return words, nil
}
