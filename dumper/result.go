package dumper

import (
	"encoding/json"
	"fmt"

	"gitlab.com/akita/wavedump/gpr"
	"gitlab.com/akita/wavedump/wavefront"
)

// A ComputeUnit is identified by its SE, SH and CU indices.
type ComputeUnit struct {
	SE uint32 `json:"se"`
	SH uint32 `json:"sh"`
	CU uint32 `json:"cu"`
}

func (u ComputeUnit) String() string {
	return fmt.Sprintf("se%d.sh%d.cu%d", u.SE, u.SH, u.CU)
}

// A Wave is a wave found by a scan, with its registers if they were dumped.
type Wave struct {
	*wavefront.Wavefront
	Banks *gpr.Banks
}

// Result is the outcome of a complete scan.
type Result struct {
	SessionID string
	Instance  int
	// ActiveCUs lists the compute units the activity probe reported active.
	ActiveCUs []ComputeUnit
	// StillActive lists the active compute units on which no wave was found
	// by the detailed scan.
	StillActive []ComputeUnit
	Waves       *WaveTable
	Walltime    float64
}

func newResult(sessionID string, instance int) *Result {
	return &Result{
		SessionID: sessionID,
		Instance:  instance,
		Waves:     NewWaveTable(),
	}
}

// FoundActiveCU tells if any compute unit was active during the scan.
func (r *Result) FoundActiveCU() bool {
	return len(r.ActiveCUs) > 0
}

// Drained lists the active compute units whose waves were all read.
func (r *Result) Drained() []ComputeUnit {
	still := make(map[ComputeUnit]bool, len(r.StillActive))
	for _, u := range r.StillActive {
		still[u] = true
	}

	var list []ComputeUnit
	for _, u := range r.ActiveCUs {
		if !still[u] {
			list = append(list, u)
		}
	}

	return list
}

// WavesOn lists the waves the hardware places on a compute unit.
func (r *Result) WavesOn(u ComputeUnit) []*Wave {
	var list []*Wave
	r.Waves.Ascend(func(w *Wave) bool {
		loc := w.Location()
		if loc.SE == u.SE && loc.SH == u.SH && loc.CU == u.CU {
			list = append(list, w)
		}
		return true
	})
	return list
}

type waveJSON struct {
	Slot     wavefront.Coordinate `json:"slot"`
	Location wavefront.Coordinate `json:"location"`
	HWID     wavefront.HardwareID `json:"hw_id"`
	GPRs     wavefront.GPRAlloc   `json:"gpr_alloc"`
	LDS      wavefront.LDSAlloc   `json:"lds_alloc"`
	Status   uint32               `json:"status"`
	Halted   bool                 `json:"halted"`
	InTrap   bool                 `json:"in_trap"`
	TrapEn   bool                 `json:"trap_enabled"`
	Priv     bool                 `json:"privileged"`
	ExecZ    bool                 `json:"exec_zero"`
	PC       uint64               `json:"pc"`
	EXEC     uint64               `json:"exec"`
	TrapSts  uint32               `json:"trapsts"`
	IBSts    uint32               `json:"ib_sts"`
	SGPRs    []uint32             `json:"sgprs,omitempty"`
	VGPRs    [][]uint32           `json:"vgprs,omitempty"`
}

// MarshalJSON renders the wave with its decoded fields.
func (w *Wave) MarshalJSON() ([]byte, error) {
	j := waveJSON{
		Slot:     w.Slot,
		Location: w.Location(),
		HWID:     w.HWID,
		GPRs:     w.GPRs,
		LDS:      w.LDS,
		Status:   uint32(w.Status),
		Halted:   w.Status.Halted(),
		InTrap:   w.Status.InTrap(),
		TrapEn:   w.Status.TrapEnabled(),
		Priv:     w.Status.Privileged(),
		ExecZ:    w.Status.ExecZero(),
		PC:       w.PC,
		EXEC:     w.EXEC,
		TrapSts:  w.Record[wavefront.TrapStsIndex],
		IBSts:    w.Record[wavefront.IBStsIndex],
	}

	if w.Banks != nil {
		j.SGPRs = w.Banks.SGPRs
		j.VGPRs = w.Banks.VGPRs
	}

	return json.Marshal(j)
}

// MarshalJSON renders the result with the waves in hardware order.
func (r *Result) MarshalJSON() ([]byte, error) {
	waves := make([]*Wave, 0, r.Waves.Len())
	r.Waves.Ascend(func(w *Wave) bool {
		waves = append(waves, w)
		return true
	})

	return json.Marshal(struct {
		SessionID   string        `json:"session_id"`
		Instance    int           `json:"instance"`
		ActiveCUs   []ComputeUnit `json:"active_cus"`
		StillActive []ComputeUnit `json:"still_active"`
		Waves       []*Wave       `json:"waves"`
		Walltime    float64       `json:"walltime"`
	}{
		SessionID:   r.SessionID,
		Instance:    r.Instance,
		ActiveCUs:   r.ActiveCUs,
		StillActive: r.StillActive,
		Waves:       waves,
		Walltime:    r.Walltime,
	})
}
