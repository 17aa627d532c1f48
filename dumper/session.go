// Package dumper walks a GPU for resident waves and reports their state.
package dumper

import (
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"gitlab.com/akita/wavedump/cu"
	"gitlab.com/akita/wavedump/debugfs"
	"gitlab.com/akita/wavedump/gpr"
	"gitlab.com/akita/wavedump/profiler"
	"gitlab.com/akita/wavedump/wavefront"
)

// ErrSessionClosed is returned when scanning with a closed session.
var ErrSessionClosed = errors.New("session closed")

// A Session owns the debugfs windows of one GPU. It is not safe for
// concurrent use.
type Session struct {
	id       string
	instance int
	channels *debugfs.Channels
	prober   *cu.Prober
	waves    *wavefront.Reader
	gprs     *gpr.Reader
	report   *report
	dumpGPRs bool
	logger   log.Logger
}

// ID returns the unique id of the session.
func (s *Session) ID() string {
	return s.id
}

// Instance returns the DRI instance inspected by the session.
func (s *Session) Instance() int {
	return s.instance
}

// Close releases the debugfs windows.
func (s *Session) Close() error {
	if !s.channels.IsOpen() {
		return nil
	}

	level.Info(s.logger).Log("msg", "session closed")
	return s.channels.Close()
}

// Scan walks every compute unit and every wave slot of the active ones. The
// report of each wave is written as soon as it is found. Any failure to talk
// to the hardware aborts the scan and no result is returned.
func (s *Session) Scan() (*Result, error) {
	if !s.channels.IsOpen() {
		return nil, ErrSessionClosed
	}

	timer := profiler.NewWallTime()
	timer.Start("scan")

	res := newResult(s.id, s.instance)

	for se := uint32(0); se < cu.MaxSE; se++ {
		for sh := uint32(0); sh < cu.SHPerSE; sh++ {
			for c := uint32(0); c < cu.CUPerSH; c++ {
				err := s.scanCU(res, ComputeUnit{SE: se, SH: sh, CU: c})
				if err != nil {
					return nil, err
				}
			}
		}
	}

	res.Walltime = timer.Interval("scan")

	level.Info(s.logger).Log(
		"msg", "scan done",
		"active_cus", len(res.ActiveCUs),
		"waves", res.Waves.Len(),
		"still_active", len(res.StillActive),
		"walltime", res.Walltime)

	return res, nil
}

func (s *Session) scanCU(res *Result, unit ComputeUnit) error {
	active, err := s.prober.IsActive(unit.SE, unit.SH, unit.CU)
	if err != nil {
		return fmt.Errorf("probe %s: %w", unit, err)
	}

	if !active {
		return nil
	}

	res.ActiveCUs = append(res.ActiveCUs, unit)

	err = s.report.header()
	if err != nil {
		return err
	}

	found := 0
	for simd := uint32(0); simd < cu.SIMDPerCU; simd++ {
		for wave := uint32(0); wave < cu.WavesPerSIMD; wave++ {
			slot := wavefront.Coordinate{
				SE: unit.SE, SH: unit.SH, CU: unit.CU,
				SIMD: simd, Wave: wave,
			}

			ok, err := s.scanSlot(res, slot)
			if err != nil {
				return err
			}

			if ok {
				found++
			}
		}
	}

	if found == 0 {
		level.Info(s.logger).Log(
			"msg", "compute unit still active after detailed scan",
			"cu", unit)
		res.StillActive = append(res.StillActive, unit)
	}

	return nil
}

func (s *Session) scanSlot(res *Result, slot wavefront.Coordinate) (bool, error) {
	wf, found, err := s.waves.Read(slot)
	if err != nil {
		return false, fmt.Errorf("read wave %s: %w", slot, err)
	}

	if !found {
		return false, nil
	}

	w := &Wave{Wavefront: wf}
	if s.dumpGPRs {
		w.Banks, err = s.gprs.Dump(wf)
		if err != nil {
			return false, fmt.Errorf("read registers of %s: %w",
				wf.Location(), err)
		}
	}

	if wf.Location() != slot {
		level.Debug(s.logger).Log(
			"msg", "wave reports another location",
			"slot", slot, "location", wf.Location())
	}

	err = s.report.wave(w)
	if err != nil {
		return false, err
	}

	if prev := res.Waves.Insert(w); prev != nil {
		level.Warn(s.logger).Log(
			"msg", "wave found through two slots",
			"location", wf.Location(),
			"first", prev.Slot, "second", slot)
	}

	return true, nil
}
