package dumper

import (
	"github.com/google/btree"

	"gitlab.com/akita/wavedump/wavefront"
)

type waveItem struct {
	loc  wavefront.Coordinate
	slot wavefront.Coordinate
	wave *Wave
}

func (i waveItem) Less(than btree.Item) bool {
	o := than.(waveItem)
	if i.loc != o.loc {
		return i.loc.Less(o.loc)
	}
	return i.slot.Less(o.slot)
}

// A WaveTable keeps waves ordered by the location their hardware id reports,
// then by the slot they were read from.
type WaveTable struct {
	tree *btree.BTree
}

// NewWaveTable creates an empty table.
func NewWaveTable() *WaveTable {
	return &WaveTable{tree: btree.New(2)}
}

// Insert adds a wave. Waves read from different slots are all kept, even
// when they report the same location. The first wave already recorded at
// that location is returned, or nil if there is none.
func (t *WaveTable) Insert(w *Wave) *Wave {
	loc := w.Location()

	var prev *Wave
	t.tree.AscendGreaterOrEqual(waveItem{loc: loc}, func(i btree.Item) bool {
		if item := i.(waveItem); item.loc == loc && item.slot != w.Slot {
			prev = item.wave
		}
		return false
	})

	t.tree.ReplaceOrInsert(waveItem{loc: loc, slot: w.Slot, wave: w})

	return prev
}

// Len returns the number of waves in the table.
func (t *WaveTable) Len() int {
	return t.tree.Len()
}

// Ascend calls f on every wave in location order until f returns false.
func (t *WaveTable) Ascend(f func(w *Wave) bool) {
	t.tree.Ascend(func(i btree.Item) bool {
		return f(i.(waveItem).wave)
	})
}
