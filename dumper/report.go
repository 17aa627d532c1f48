package dumper

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"gitlab.com/akita/wavedump/wavefront"
)

const tableHeader = "SE SH CU SIMD WAVE WAVE_STATUS" +
	"   PC_LOW    PC_HI  EXEC_LO  EXEC_HI" +
	" WAVE_HW_ID GPR_ALLOC LDS_ALLOC" +
	" WAVE_TRAPSTS WAVE_IB_STS"

var headerColor = color.New(color.Bold, color.FgCyan)

type report struct {
	out io.Writer
}

func newReport(out io.Writer) *report {
	return &report{out: out}
}

func (r *report) header() error {
	_, err := fmt.Fprintln(r.out, headerColor.Sprint(tableHeader))
	return err
}

// wave writes the table line of a wave. The coordinates are those of the
// slot the wave was found through.
func (r *report) wave(w *Wave) error {
	rec := &w.Record
	slot := w.Slot

	_, err := fmt.Fprintf(r.out,
		"%2d %2d %2d %4d %4d    "+
			"%08x %08x %08x %08x "+
			"%08x   %08x  %08x  %08x"+
			"     %08x    %08x\n",
		slot.SE, slot.SH, slot.CU, slot.SIMD, slot.Wave,
		rec[wavefront.StatusIndex],
		rec[wavefront.PCLowIndex],
		rec[wavefront.PCHighIndex],
		rec[wavefront.ExecLowIndex],
		rec[wavefront.ExecHighIndex],
		rec[wavefront.HWIDIndex],
		rec[wavefront.GPRAllocIndex],
		rec[wavefront.LDSAllocIndex],
		rec[wavefront.TrapStsIndex],
		rec[wavefront.IBStsIndex])
	if err != nil {
		return err
	}

	if w.Banks == nil {
		return nil
	}

	return w.Banks.Write(r.out)
}
