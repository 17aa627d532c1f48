package dumper

import (
	"errors"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/rs/xid"

	"gitlab.com/akita/wavedump/cu"
	"gitlab.com/akita/wavedump/debugfs"
	"gitlab.com/akita/wavedump/device"
	"gitlab.com/akita/wavedump/gpr"
	"gitlab.com/akita/wavedump/wavefront"
)

// ErrUnsupportedDevice is returned when the device is not of a family whose
// waves can be inspected.
var ErrUnsupportedDevice = errors.New("unsupported device")

// A Gate decides if a DRI instance can be inspected.
type Gate interface {
	IsSupported(instance int) bool
}

// Builder can build sessions.
type Builder struct {
	instance    int
	debugfsRoot string
	sysfsRoot   string
	opener      debugfs.Opener
	gate        Gate
	logger      log.Logger
	out         io.Writer
	dumpGPRs    bool
}

// MakeBuilder creates a builder with default parameters. By default, the
// session inspects instance 0 through the real debugfs, prints to stdout and
// dumps registers.
func MakeBuilder() Builder {
	return Builder{
		debugfsRoot: debugfs.DefaultRoot,
		sysfsRoot:   device.DefaultSysfsRoot,
		opener:      debugfs.OpenFile,
		logger:      log.NewNopLogger(),
		out:         os.Stdout,
		dumpGPRs:    true,
	}
}

// WithInstance sets the DRI instance to inspect.
func (b Builder) WithInstance(instance int) Builder {
	b.instance = instance
	return b
}

// WithDebugfsRoot sets where debugfs is mounted.
func (b Builder) WithDebugfsRoot(root string) Builder {
	b.debugfsRoot = root
	return b
}

// WithSysfsRoot sets where sysfs is mounted.
func (b Builder) WithSysfsRoot(root string) Builder {
	b.sysfsRoot = root
	return b
}

// WithOpener sets how the debugfs windows are opened.
func (b Builder) WithOpener(opener debugfs.Opener) Builder {
	b.opener = opener
	return b
}

// WithGate replaces the device family check.
func (b Builder) WithGate(gate Gate) Builder {
	b.gate = gate
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger log.Logger) Builder {
	b.logger = logger
	return b
}

// WithOutput sets where the text report is written.
func (b Builder) WithOutput(out io.Writer) Builder {
	b.out = out
	return b
}

// WithGPRDump sets if the registers of every wave found are dumped.
func (b Builder) WithGPRDump(enabled bool) Builder {
	b.dumpGPRs = enabled
	return b
}

// Build checks the device and opens its windows. Nothing stays open if an
// error is returned.
func (b Builder) Build() (*Session, error) {
	if b.opener == nil || b.out == nil {
		panic("dumper: builder has no opener or output")
	}

	id := xid.New().String()
	logger := b.logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = log.With(logger, "session", id)

	gate := b.gate
	if gate == nil {
		gate = device.NewGateFrom(b.debugfsRoot, b.sysfsRoot, logger)
	}

	if !gate.IsSupported(b.instance) {
		level.Error(logger).Log(
			"msg", "device not supported", "instance", b.instance)
		return nil, ErrUnsupportedDevice
	}

	channels, err := debugfs.OpenChannels(b.opener, b.debugfsRoot, b.instance)
	if err != nil {
		level.Error(logger).Log(
			"msg", "cannot open debugfs windows",
			"instance", b.instance, "err", err)
		return nil, err
	}

	level.Info(logger).Log("msg", "session started", "instance", b.instance)

	s := &Session{
		id:       id,
		instance: b.instance,
		channels: channels,
		prober:   cu.NewProber(debugfs.NewMMIO(channels.Control), logger),
		waves:    wavefront.NewReader(channels.WaveDump),
		gprs:     gpr.NewReader(channels.RegisterDump),
		report:   newReport(b.out),
		dumpGPRs: b.dumpGPRs,
		logger:   logger,
	}

	return s, nil
}
