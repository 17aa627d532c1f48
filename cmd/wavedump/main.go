// Command wavedump prints the state and registers of the waves resident on an
// AMD GPU.
package main

import (
	"flag"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/tebeka/atexit"

	"gitlab.com/akita/wavedump/debugfs"
	"gitlab.com/akita/wavedump/device"
	"gitlab.com/akita/wavedump/dumper"
	"gitlab.com/akita/wavedump/monitoring"
	"gitlab.com/akita/wavedump/profiler"
)

var instanceFlag = flag.Int("instance", 0, "The DRI instance to inspect.")
var gprFlag = flag.Bool("gpr", true,
	"Dump the SGPRs and VGPRs of every wave found.")
var jsonFlag = flag.String("json", "",
	"Write the scan result as JSON to this file.")
var serveFlag = flag.String("serve", "",
	"After the first scan, serve the scan API on this address.")
var debugfsRootFlag = flag.String("debugfs-root", debugfs.DefaultRoot,
	"Where debugfs is mounted.")
var sysfsRootFlag = flag.String("sysfs-root", device.DefaultSysfsRoot,
	"Where sysfs is mounted.")
var logLevelFlag = flag.String("log-level", "info",
	"One of debug, info, warn and error.")
var noColorFlag = flag.Bool("no-color", false, "Disable colored output.")

// exitNoActiveCU is the exit code used when the scan found no active CU.
const exitNoActiveCU = 2

func newLogger(lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	var option level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		option = level.AllowDebug()
	case "warn":
		option = level.AllowWarn()
	case "error":
		option = level.AllowError()
	default:
		option = level.AllowInfo()
	}

	return level.NewFilter(logger, option)
}

func main() {
	flag.Parse()

	if *noColorFlag {
		color.NoColor = true
	}

	logger := newLogger(*logLevelFlag)

	session, err := dumper.MakeBuilder().
		WithInstance(*instanceFlag).
		WithDebugfsRoot(*debugfsRootFlag).
		WithSysfsRoot(*sysfsRootFlag).
		WithLogger(logger).
		WithGPRDump(*gprFlag).
		Build()
	if err != nil {
		level.Error(logger).Log("msg", "cannot start session", "err", err)
		atexit.Exit(1)
	}

	atexit.Register(func() {
		err := session.Close()
		if err != nil {
			level.Error(logger).Log("msg", "cannot close session", "err", err)
		}
	})

	result, err := session.Scan()
	if err != nil {
		level.Error(logger).Log("msg", "scan failed", "err", err)
		atexit.Exit(1)
	}

	if *jsonFlag != "" {
		err = profiler.ReportJSON(*jsonFlag, result)
		if err != nil {
			level.Error(logger).Log("msg", "cannot write report", "err", err)
			atexit.Exit(1)
		}
	}

	if *serveFlag != "" {
		server := monitoring.NewServer(session, logger)
		server.Record(result)
		err = server.ListenAndServe(*serveFlag)
		level.Error(logger).Log("msg", "monitoring server stopped", "err", err)
		atexit.Exit(1)
	}

	if !result.FoundActiveCU() {
		level.Info(logger).Log("msg", "no active compute unit found")
		atexit.Exit(exitNoActiveCU)
	}

	atexit.Exit(0)
}
