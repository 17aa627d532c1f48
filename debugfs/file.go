package debugfs

import (
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// An Opener opens the window at the given path.
type Opener func(path string) (Channel, error)

type fileChannel struct {
	path string
	fd   int
}

// OpenFile opens a debugfs file for reading and writing. The returned channel
// talks to the file descriptor directly so that offsets with high bits set
// reach the driver untouched.
func OpenFile(path string) (Channel, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}

	return &fileChannel{path: path, fd: fd}, nil
}

func (c *fileChannel) Seek(offset uint64) error {
	if offset > math.MaxInt64 {
		return fmt.Errorf("%s: %#x: %w", c.path, offset, ErrOffsetRange)
	}

	_, err := unix.Seek(c.fd, int64(offset), io.SeekStart)
	if err != nil {
		return &os.PathError{Op: "seek", Path: c.path, Err: err}
	}

	return nil
}

func (c *fileChannel) Read(buf []byte) (int, error) {
	n, err := unix.Read(c.fd, buf)
	if err != nil {
		return 0, &os.PathError{Op: "read", Path: c.path, Err: err}
	}

	return n, nil
}

func (c *fileChannel) Write(buf []byte) (int, error) {
	n, err := unix.Write(c.fd, buf)
	if err != nil {
		return 0, &os.PathError{Op: "write", Path: c.path, Err: err}
	}

	return n, nil
}

func (c *fileChannel) Close() error {
	if c.fd < 0 {
		return nil
	}

	err := unix.Close(c.fd)
	c.fd = -1
	if err != nil {
		return &os.PathError{Op: "close", Path: c.path, Err: err}
	}

	return nil
}
