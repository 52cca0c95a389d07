package evjoy

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/holoplot/go-evdev"
)

// EventSize is the wire size of one kernel input_event record on a
// 64-bit system: two 8-byte time fields, type, code, value.
const EventSize = 24

// Event types, from linux/input-event-codes.h.
const (
	EV_SYN uint16 = 0x00
	EV_KEY uint16 = 0x01
	EV_REL uint16 = 0x02
	EV_ABS uint16 = 0x03
	EV_MSC uint16 = 0x04
	EV_SW  uint16 = 0x05
	EV_LED uint16 = 0x11
	EV_SND uint16 = 0x12
	EV_REP uint16 = 0x14
	EV_FF  uint16 = 0x15
	EV_PWR uint16 = 0x16

	EV_MAX uint16 = 0x1f
	EV_CNT        = EV_MAX + 1
)

// Synchronization codes.
const (
	SYN_REPORT    uint16 = 0
	SYN_CONFIG    uint16 = 1
	SYN_MT_REPORT uint16 = 2
)

// Highest code per event type, for sizing capability bitmasks.
const (
	KEY_MAX uint16 = 0x2ff
	REL_MAX uint16 = 0x0f
	ABS_MAX uint16 = 0x3f
)

// Event is one decoded input_event record. The timestamp is the
// kernel-reported timeval; no monotonicity is guaranteed.
type Event struct {
	Sec   uint64
	Usec  uint64
	Type  uint16
	Code  uint16
	Value int32
}

var MalformedRecordErr = fmt.Errorf("malformed event record")

// UnmarshalEvent decodes one little-endian input_event record.
// The buffer must hold at least EventSize bytes.
func UnmarshalEvent(b []byte) (Event, error) {
	if len(b) < EventSize {
		return Event{}, fmt.Errorf("%w: got %d bytes, need %d", MalformedRecordErr, len(b), EventSize)
	}
	return Event{
		Sec:   binary.LittleEndian.Uint64(b[0:8]),
		Usec:  binary.LittleEndian.Uint64(b[8:16]),
		Type:  binary.LittleEndian.Uint16(b[16:18]),
		Code:  binary.LittleEndian.Uint16(b[18:20]),
		Value: int32(binary.LittleEndian.Uint32(b[20:24])),
	}, nil
}

// MarshalEvent encodes ev into a fresh EventSize-byte record.
func MarshalEvent(ev Event) []byte {
	b := make([]byte, EventSize)
	binary.LittleEndian.PutUint64(b[0:8], ev.Sec)
	binary.LittleEndian.PutUint64(b[8:16], ev.Usec)
	binary.LittleEndian.PutUint16(b[16:18], ev.Type)
	binary.LittleEndian.PutUint16(b[18:20], ev.Code)
	binary.LittleEndian.PutUint32(b[20:24], uint32(ev.Value))
	return b
}

// Time converts the kernel timeval to a time.Time.
func (ev Event) Time() time.Time {
	return time.Unix(int64(ev.Sec), int64(ev.Usec)*1000)
}

// TypeName returns the kernel name of the event type, e.g. "EV_KEY".
func (ev Event) TypeName() string {
	return evdev.TypeName(evdev.EvType(ev.Type))
}

// CodeName returns the kernel name of the event code, e.g. "BTN_TRIGGER".
func (ev Event) CodeName() string {
	return evdev.CodeName(evdev.EvType(ev.Type), evdev.EvCode(ev.Code))
}

func (ev Event) String() string {
	return fmt.Sprintf("%d.%06d %s %s %d", ev.Sec, ev.Usec, ev.TypeName(), ev.CodeName(), ev.Value)
}
