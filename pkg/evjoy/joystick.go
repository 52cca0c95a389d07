package evjoy

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// JoystickState holds the consolidated state of all buttons and axes of
// one device. It is owned by the JoystickFilter and handed to listeners
// by reference for the duration of a callback only; its contents mutate
// again afterwards, so listeners must copy what they want to keep.
type JoystickState struct {
	buttons []bool
	axes    []int32
	axisMin []int32
	axisMax []int32
}

func newJoystickState(numButtons, numAxes int) *JoystickState {
	return &JoystickState{
		buttons: make([]bool, numButtons),
		axes:    make([]int32, numAxes),
		axisMin: make([]int32, numAxes),
		axisMax: make([]int32, numAxes),
	}
}

// NumButtons returns how many buttons the device reports.
func (s *JoystickState) NumButtons() int { return len(s.buttons) }

// NumAxes returns how many absolute axes the device reports.
func (s *JoystickState) NumAxes() int { return len(s.axes) }

// Button returns the pressed state of button i.
func (s *JoystickState) Button(i int) bool { return s.buttons[i] }

// Axis returns the last value of axis i.
func (s *JoystickState) Axis(i int) int32 { return s.axes[i] }

// AxisMin returns the smallest value seen on axis i, for calibration.
func (s *JoystickState) AxisMin(i int) int32 { return s.axisMin[i] }

// AxisMax returns the largest value seen on axis i, for calibration.
func (s *JoystickState) AxisMax(i int) int32 { return s.axisMax[i] }

func (s *JoystickState) String() string {
	var b strings.Builder
	b.WriteString("buttons: [")
	for i, pressed := range s.buttons {
		if i > 0 {
			b.WriteString(" ")
		}
		if pressed {
			b.WriteString("1")
		} else {
			b.WriteString("0")
		}
	}
	b.WriteString("] axes: [")
	for i, v := range s.axes {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteString("]")
	return b.String()
}

// JoystickListener receives consolidated updates at synchronization
// boundaries. The changed bitmap and the state are only valid for the
// duration of the call.
type JoystickListener interface {
	ButtonsChanged(changed []bool, state *JoystickState)
	AxesMoved(changed []bool, state *JoystickState)
}

// JoystickFilter consolidates the raw events between two EV_SYN markers
// into one update per button group and axis group. It subscribes itself
// to the dispatcher it is constructed with and runs entirely on that
// dispatcher's goroutine.
//
// Button codes are taken from the EV_KEY capability list and axis codes
// from the EV_ABS list; the Nth code in a list maps to dense index N.
// An event value is only flagged as changed when it differs from the
// value currently stored, repeats within one frame stay silent. At a
// sync marker button listeners are notified before axis listeners, then
// both change bitmaps are cleared.
type JoystickFilter struct {
	buttonCodes []uint16
	axisCodes   []uint16
	buttonIndex map[uint16]int
	axisIndex   map[uint16]int

	state         *JoystickState
	buttonChanged []bool
	axisChanged   []bool

	mu        sync.Mutex
	listeners []JoystickListener
}

// NewJoystickFilter builds the dense index mapping from caps and
// registers the filter on d.
func NewJoystickFilter(d *Dispatcher, caps Capabilities) *JoystickFilter {
	f := &JoystickFilter{
		buttonCodes: caps.Codes(EV_KEY),
		axisCodes:   caps.Codes(EV_ABS),
		buttonIndex: map[uint16]int{},
		axisIndex:   map[uint16]int{},
	}
	for i, code := range f.buttonCodes {
		f.buttonIndex[code] = i
	}
	for i, code := range f.axisCodes {
		f.axisIndex[code] = i
	}
	f.state = newJoystickState(len(f.buttonCodes), len(f.axisCodes))
	f.buttonChanged = make([]bool, len(f.buttonCodes))
	f.axisChanged = make([]bool, len(f.axisCodes))
	d.AddListener(f)
	return f
}

// ButtonCode returns the event code behind dense button index i.
func (f *JoystickFilter) ButtonCode(i int) uint16 { return f.buttonCodes[i] }

// AxisCode returns the event code behind dense axis index i.
func (f *JoystickFilter) AxisCode(i int) uint16 { return f.axisCodes[i] }

// SetAxisRange seeds the calibration bounds of axis i, typically from
// the EVIOCGABS parameters of the device. Observed values keep widening
// the bounds afterwards.
func (f *JoystickFilter) SetAxisRange(i int, min, max int32) {
	f.state.axisMin[i] = min
	f.state.axisMax[i] = max
}

// Event implements InputListener.
func (f *JoystickFilter) Event(ev Event) {
	switch ev.Type {
	case EV_KEY:
		f.handleButton(ev.Code, ev.Value > 0)
	case EV_ABS:
		f.handleAxis(ev.Code, ev.Value)
	case EV_SYN:
		f.flush()
	default:
		// Not part of the joystick model.
	}
}

func (f *JoystickFilter) handleButton(code uint16, pressed bool) {
	i, ok := f.buttonIndex[code]
	if !ok {
		log.Printf("WARN: button code %d not in capability mapping, device may report capabilities improperly", code)
		return
	}
	f.buttonChanged[i] = pressed != f.state.buttons[i]
	f.state.buttons[i] = pressed
}

func (f *JoystickFilter) handleAxis(code uint16, value int32) {
	i, ok := f.axisIndex[code]
	if !ok {
		log.Printf("WARN: axis code %d not in capability mapping, device may report capabilities improperly", code)
		return
	}
	f.axisChanged[i] = value != f.state.axes[i]
	f.state.axes[i] = value
	if value < f.state.axisMin[i] {
		f.state.axisMin[i] = value
	}
	if value > f.state.axisMax[i] {
		f.state.axisMax[i] = value
	}
}

// flush notifies listeners about everything that changed since the last
// sync marker, buttons first, and clears the change bitmaps.
func (f *JoystickFilter) flush() {
	anyButton := false
	for _, changed := range f.buttonChanged {
		anyButton = anyButton || changed
	}
	anyAxis := false
	for _, changed := range f.axisChanged {
		anyAxis = anyAxis || changed
	}

	f.mu.Lock()
	listeners := make([]JoystickListener, len(f.listeners))
	copy(listeners, f.listeners)
	f.mu.Unlock()

	for _, l := range listeners {
		if anyButton {
			l.ButtonsChanged(f.buttonChanged, f.state)
		}
		if anyAxis {
			l.AxesMoved(f.axisChanged, f.state)
		}
	}

	for i := range f.buttonChanged {
		f.buttonChanged[i] = false
	}
	for i := range f.axisChanged {
		f.axisChanged[i] = false
	}
}

// AddListener registers l. Adding a listener that is already
// registered has no effect.
func (f *JoystickFilter) AddListener(l JoystickListener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, known := range f.listeners {
		if known == l {
			return
		}
	}
	f.listeners = append(f.listeners, l)
}

// RemoveListener unregisters l.
func (f *JoystickFilter) RemoveListener(l JoystickListener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, known := range f.listeners {
		if known == l {
			f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
			return
		}
	}
}
