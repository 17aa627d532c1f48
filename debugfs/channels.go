package debugfs

import (
	"path/filepath"
	"strconv"
)

// DefaultRoot is where debugfs is normally mounted.
const DefaultRoot = "/sys/kernel/debug"

// The names of the windows under dri/<instance>.
const (
	RegsFile = "amdgpu_regs"
	WaveFile = "amdgpu_wave"
	GPRFile  = "amdgpu_gpr"
)

// Path returns the location of a window of a DRI instance.
func Path(root string, instance int, name string) string {
	return filepath.Join(root, "dri", strconv.Itoa(instance), name)
}

// Channels bundles the three windows used to inspect waves. They are opened
// together and closed together.
type Channels struct {
	Control      Channel
	WaveDump     Channel
	RegisterDump Channel
}

// OpenChannels opens the register, wave and GPR windows of an instance. If
// any of them fails to open, the ones already opened are closed before the
// error is returned.
func OpenChannels(open Opener, root string, instance int) (*Channels, error) {
	c := &Channels{}
	targets := []struct {
		name string
		dst  *Channel
	}{
		{RegsFile, &c.Control},
		{WaveFile, &c.WaveDump},
		{GPRFile, &c.RegisterDump},
	}

	for _, t := range targets {
		ch, err := open(Path(root, instance, t.name))
		if err != nil {
			c.Close()
			return nil, err
		}
		*t.dst = ch
	}

	return c, nil
}

// IsOpen tells if all three windows are available.
func (c *Channels) IsOpen() bool {
	return c != nil &&
		c.Control != nil && c.WaveDump != nil && c.RegisterDump != nil
}

// Close releases every window that is still open. It returns the first
// error encountered, after attempting to close all of them.
func (c *Channels) Close() error {
	var firstErr error

	for _, ch := range []*Channel{&c.Control, &c.WaveDump, &c.RegisterDump} {
		if *ch == nil {
			continue
		}

		err := (*ch).Close()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		*ch = nil
	}

	return firstErr
}
