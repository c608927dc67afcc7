package ranges

import (
	"encoding/binary"

	chd "github.com/opencoff/go-chd"
)

// canonIndex maps a canonical-hand key to the raw index of its bucket's
// canonical representative. Built once per board from the board's bucketing
// pass, then queried once per combination while assigning weights/aliases.
// Backed by go-chd's minimal perfect hash (spec §4.2's "canonical
// hand-indexer") instead of a plain Go map, since the key set is known and
// static for the lifetime of one board's initialization.
type canonIndex struct {
	mph    *chd.CHD
	values []int
	// fallback is used when the key set is too small for CHD's displacement
	// search to converge (go-chd needs a handful of keys); a plain map still
	// gives the same O(1) contract for those boards.
	fallback map[uint16]int
}

func newCanonIndex(keyToRaw map[uint16]int) *canonIndex {
	if len(keyToRaw) < 8 {
		return &canonIndex{fallback: keyToRaw}
	}

	b := chd.NewBuilder()
	keys := make([]uint16, 0, len(keyToRaw))
	for k := range keyToRaw {
		keys = append(keys, k)
		b.Add(keyBytes(k))
	}

	mph, err := b.Freeze(1.0)
	if err != nil {
		return &canonIndex{fallback: keyToRaw}
	}

	values := make([]int, len(keys))
	for _, k := range keys {
		idx := mph.Find(keyBytes(k))
		values[idx] = keyToRaw[k]
	}
	return &canonIndex{mph: mph, values: values}
}

func (c *canonIndex) get(key uint16) (int, bool) {
	if c.fallback != nil {
		v, ok := c.fallback[key]
		return v, ok
	}
	idx := c.mph.Find(keyBytes(key))
	if idx >= uint32(len(c.values)) {
		return 0, false
	}
	return c.values[idx], true
}

func keyBytes(k uint16) []byte {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], k)
	return buf[:]
}
