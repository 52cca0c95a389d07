package evjoy

import (
	"log"
	"sort"
)

// wordBits is the width of one capability bitmask word as returned by
// the EVIOCGBIT ioctl on a 64-bit kernel.
const wordBits = 64

// CapabilityQuery supplies the raw capability bitmasks of a device.
// TypeBits covers event types [0, EV_CNT); CodeBits covers the codes of
// one event type. The number of scannable codes follows from the word
// count of the returned slice.
type CapabilityQuery interface {
	TypeBits() ([]uint64, error)
	CodeBits(evType uint16) ([]uint64, error)
}

// Capabilities is an immutable snapshot of the event types and codes a
// device supports. A code is listed iff the kernel reported its
// capability bit set. Codes are in ascending order.
type Capabilities struct {
	events map[uint16][]uint16
}

// DecodeCapabilities scans the bitmasks reported by q into a
// Capabilities snapshot. EV_SYN is always skipped, it has no enumerable
// codes. A failed query is not an error: the result is simply empty for
// the part that failed, with a warning on the log.
func DecodeCapabilities(q CapabilityQuery) Capabilities {
	caps := Capabilities{events: map[uint16][]uint16{}}
	typeBits, err := q.TypeBits()
	if err != nil {
		log.Printf("WARN: capability query failed, assuming no capabilities: %v", err)
		return caps
	}
	for t := uint16(1); t < EV_CNT; t++ {
		if !bitSet(typeBits, t) {
			continue
		}
		codeBits, err := q.CodeBits(t)
		if err != nil {
			// Some devices report a type but reject the per-type
			// query (EINVAL for EV_REP is common).
			log.Printf("WARN: capability query for type %d failed: %v", t, err)
			continue
		}
		codes := decodeBitmap(codeBits)
		if len(codes) > 0 {
			caps.events[t] = codes
		}
	}
	return caps
}

func bitSet(words []uint64, bit uint16) bool {
	i := int(bit) / wordBits
	if i >= len(words) {
		return false
	}
	return words[i]>>(uint(bit)%wordBits)&1 == 1
}

func decodeBitmap(words []uint64) []uint16 {
	var codes []uint16
	for c := 0; c < len(words)*wordBits; c++ {
		if bitSet(words, uint16(c)) {
			codes = append(codes, uint16(c))
		}
	}
	return codes
}

// Types returns the supported event types in ascending order.
func (c Capabilities) Types() []uint16 {
	types := make([]uint16, 0, len(c.events))
	for t := range c.events {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Codes returns the supported codes of one event type, ascending.
// The returned slice is shared, callers must not modify it.
func (c Capabilities) Codes(evType uint16) []uint16 {
	return c.events[evType]
}

// Has reports whether the device supports the given event type.
func (c Capabilities) Has(evType uint16) bool {
	_, ok := c.events[evType]
	return ok
}
