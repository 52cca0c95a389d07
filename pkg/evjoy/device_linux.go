//go:build linux

package evjoy

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"unsafe"
)

// deviceID mirrors struct input_id.
type deviceID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// ID identifies a device on its bus.
type ID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// AbsParams mirrors struct input_absinfo: the current value and the
// calibration parameters of one absolute axis.
type AbsParams struct {
	Value      int32
	Min        int32
	Max        int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

func (p AbsParams) String() string {
	return fmt.Sprintf("value %d, min %d, max %d, fuzz %d, flat %d", p.Value, p.Min, p.Max, p.Fuzz, p.Flat)
}

// Device is an open evdev character device node. It is the record
// source and capability query behind a Dispatcher.
type Device struct {
	f    *os.File
	path string

	name          string
	id            ID
	driverVersion int32
	caps          Capabilities

	closeOnce sync.Once
	closeErr  error
}

// OpenDevice opens one of the /dev/input/event* nodes and queries its
// identity and capabilities. Identity queries that fail are replaced by
// zero values with a warning, matching the kernel driver convention
// that a device without a name is still usable.
func OpenDevice(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open device %q: %w", path, err)
	}
	d := &Device{f: f, path: path}

	var id deviceID
	if err := ioctl(f.Fd(), eviocgid(), unsafe.Pointer(&id)); err != nil {
		log.Printf("WARN: couldn't get device ID of %q: %v", path, err)
	}
	d.id = ID{BusType: id.BusType, Vendor: id.Vendor, Product: id.Product, Version: id.Version}

	if err := ioctl(f.Fd(), eviocgversion(), unsafe.Pointer(&d.driverVersion)); err != nil {
		log.Printf("WARN: couldn't get driver version of %q: %v", path, err)
	}

	var name [256]byte
	if err := ioctl(f.Fd(), eviocgname(uintptr(len(name))), unsafe.Pointer(&name[0])); err != nil {
		log.Printf("WARN: couldn't get device name of %q: %v", path, err)
		d.name = "Unknown Device"
	} else if i := bytes.IndexByte(name[:], 0); i >= 0 {
		d.name = string(name[:i])
	} else {
		d.name = string(name[:])
	}

	d.caps = DecodeCapabilities(d)
	return d, nil
}

// Path returns the device node this Device was opened from.
func (d *Device) Path() string { return d.path }

// Name returns the device name reported by the kernel.
func (d *Device) Name() string { return d.name }

// ID returns the bus identity of the device.
func (d *Device) ID() ID { return d.id }

// DriverVersion returns the evdev protocol version, major.minor.patch
// packed into one int32.
func (d *Device) DriverVersion() int32 { return d.driverVersion }

// Capabilities returns the capability snapshot taken at open time.
func (d *Device) Capabilities() Capabilities { return d.caps }

// TypeBits implements CapabilityQuery.
func (d *Device) TypeBits() ([]uint64, error) {
	words := make([]uint64, (int(EV_CNT)+wordBits-1)/wordBits)
	if err := ioctl(d.f.Fd(), eviocgbit(0, uintptr(len(words)*8)), unsafe.Pointer(&words[0])); err != nil {
		return nil, fmt.Errorf("EVIOCGBIT for event types: %w", err)
	}
	return words, nil
}

// CodeBits implements CapabilityQuery. The bitmask is sized for
// KEY_MAX, the largest code space of any event type; the kernel only
// fills the part the type actually uses.
func (d *Device) CodeBits(evType uint16) ([]uint64, error) {
	words := make([]uint64, (int(KEY_MAX)+1+wordBits-1)/wordBits)
	if err := ioctl(d.f.Fd(), eviocgbit(evType, uintptr(len(words)*8)), unsafe.Pointer(&words[0])); err != nil {
		return nil, fmt.Errorf("EVIOCGBIT for type %d: %w", evType, err)
	}
	return words, nil
}

// AbsParams queries the axis parameters of one EV_ABS code.
func (d *Device) AbsParams(axis uint16) (AbsParams, error) {
	var p AbsParams
	if err := ioctl(d.f.Fd(), eviocgabs(axis), unsafe.Pointer(&p)); err != nil {
		return AbsParams{}, fmt.Errorf("EVIOCGABS for axis %d: %w", axis, err)
	}
	return p, nil
}

// ReadRecord implements RecordSource. It blocks until one full record
// arrived.
func (d *Device) ReadRecord(buf []byte) error {
	_, err := io.ReadFull(d.f, buf[:EventSize])
	return err
}

// Close releases the device node. Safe to call more than once.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.f.Close()
	})
	return d.closeErr
}
