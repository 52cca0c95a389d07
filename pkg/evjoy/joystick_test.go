package evjoy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func joystickCaps(buttons, axes []uint16) Capabilities {
	caps := Capabilities{events: map[uint16][]uint16{}}
	if len(buttons) > 0 {
		caps.events[EV_KEY] = buttons
	}
	if len(axes) > 0 {
		caps.events[EV_ABS] = axes
	}
	return caps
}

type joystickCollector struct {
	buttonCalls [][]bool
	axisCalls   [][]bool
	buttons     []bool
	axes        []int32
}

func (c *joystickCollector) ButtonsChanged(changed []bool, state *JoystickState) {
	c.buttonCalls = append(c.buttonCalls, append([]bool(nil), changed...))
	c.buttons = make([]bool, state.NumButtons())
	for i := range c.buttons {
		c.buttons[i] = state.Button(i)
	}
}

func (c *joystickCollector) AxesMoved(changed []bool, state *JoystickState) {
	c.axisCalls = append(c.axisCalls, append([]bool(nil), changed...))
	c.axes = make([]int32, state.NumAxes())
	for i := range c.axes {
		c.axes[i] = state.Axis(i)
	}
}

func newTestFilter(caps Capabilities) *JoystickFilter {
	return NewJoystickFilter(NewDispatcher(newScriptSource()), caps)
}

func TestJoystickFilterIndexMapping(t *testing.T) {
	f := newTestFilter(joystickCaps([]uint16{288, 289, 290}, []uint16{0, 1, 6}))
	require.Equal(t, 3, f.state.NumButtons())
	require.Equal(t, 3, f.state.NumAxes())
	require.Equal(t, uint16(288), f.ButtonCode(0))
	require.Equal(t, uint16(290), f.ButtonCode(2))
	require.Equal(t, uint16(6), f.AxisCode(2))
}

func TestJoystickFilterChangeFlagPolicy(t *testing.T) {
	f := newTestFilter(joystickCaps(nil, []uint16{0}))
	c := &joystickCollector{}
	f.AddListener(c)

	f.Event(Event{Type: EV_ABS, Code: 0, Value: 10})
	require.Equal(t, []bool{true}, f.axisChanged)

	// A resend of the current value within the same frame clears the
	// flag again, the consumer only hears about actual changes.
	f.Event(Event{Type: EV_ABS, Code: 0, Value: 10})
	require.Equal(t, []bool{false}, f.axisChanged)

	f.Event(Event{Type: EV_ABS, Code: 0, Value: 11})
	require.Equal(t, []bool{true}, f.axisChanged)

	f.Event(Event{Type: EV_SYN, Code: SYN_REPORT})
	require.Equal(t, [][]bool{{true}}, c.axisCalls)
	require.Equal(t, []int32{11}, c.axes)
}

func TestJoystickFilterButtonRepeat(t *testing.T) {
	f := newTestFilter(joystickCaps([]uint16{288}, nil))
	c := &joystickCollector{}
	f.AddListener(c)

	f.Event(Event{Type: EV_KEY, Code: 288, Value: 1})
	f.Event(Event{Type: EV_KEY, Code: 288, Value: 1})
	require.Equal(t, []bool{false}, f.buttonChanged)
	f.Event(Event{Type: EV_SYN, Code: SYN_REPORT})
	require.Empty(t, c.buttonCalls)

	// Any positive value counts as pressed, so 2 -> 1 is not a change.
	f.Event(Event{Type: EV_KEY, Code: 288, Value: 2})
	require.Equal(t, []bool{false}, f.buttonChanged)
	f.Event(Event{Type: EV_KEY, Code: 288, Value: 0})
	require.Equal(t, []bool{true}, f.buttonChanged)
}

func TestJoystickFilterSyncResetsBitmaps(t *testing.T) {
	f := newTestFilter(joystickCaps([]uint16{288}, []uint16{0}))
	c := &joystickCollector{}
	f.AddListener(c)

	f.Event(Event{Type: EV_KEY, Code: 288, Value: 1})
	f.Event(Event{Type: EV_ABS, Code: 0, Value: 7})
	f.Event(Event{Type: EV_SYN, Code: SYN_REPORT})
	require.Len(t, c.buttonCalls, 1)
	require.Len(t, c.axisCalls, 1)

	// No changes since the flush, the next sync must stay silent.
	f.Event(Event{Type: EV_SYN, Code: SYN_REPORT})
	require.Len(t, c.buttonCalls, 1)
	require.Len(t, c.axisCalls, 1)
}

func TestJoystickFilterUnmappedCode(t *testing.T) {
	f := newTestFilter(joystickCaps([]uint16{288}, []uint16{0}))
	c := &joystickCollector{}
	f.AddListener(c)

	f.Event(Event{Type: EV_KEY, Code: 500, Value: 1})
	f.Event(Event{Type: EV_ABS, Code: 9, Value: 100})
	f.Event(Event{Type: EV_SYN, Code: SYN_REPORT})
	require.Empty(t, c.buttonCalls)
	require.Empty(t, c.axisCalls)
}

func TestJoystickFilterIgnoresOtherTypes(t *testing.T) {
	f := newTestFilter(joystickCaps([]uint16{288}, nil))
	c := &joystickCollector{}
	f.AddListener(c)

	f.Event(Event{Type: EV_MSC, Code: 4, Value: 0x90001})
	f.Event(Event{Type: EV_REL, Code: 0, Value: 5})
	f.Event(Event{Type: EV_SYN, Code: SYN_REPORT})
	require.Empty(t, c.buttonCalls)
	require.Empty(t, c.axisCalls)
}

func TestJoystickFilterAxisCalibration(t *testing.T) {
	f := newTestFilter(joystickCaps(nil, []uint16{0}))
	f.SetAxisRange(0, -128, 127)
	require.Equal(t, int32(-128), f.state.AxisMin(0))
	require.Equal(t, int32(127), f.state.AxisMax(0))

	// Observed values outside the seeded bounds widen them.
	f.Event(Event{Type: EV_ABS, Code: 0, Value: 200})
	require.Equal(t, int32(200), f.state.AxisMax(0))
	f.Event(Event{Type: EV_ABS, Code: 0, Value: -300})
	require.Equal(t, int32(-300), f.state.AxisMin(0))
	require.Equal(t, int32(127), f.state.AxisMax(0))
}

func TestJoystickFilterFlushOrder(t *testing.T) {
	f := newTestFilter(joystickCaps([]uint16{288}, []uint16{0}))
	var order []string
	f.AddListener(&orderListener{tag: "a", out: &order})
	f.AddListener(&orderListener{tag: "b", out: &order})

	f.Event(Event{Type: EV_KEY, Code: 288, Value: 1})
	f.Event(Event{Type: EV_ABS, Code: 0, Value: 3})
	f.Event(Event{Type: EV_SYN, Code: SYN_REPORT})
	// Buttons flush before axes, listeners in registration order.
	require.Equal(t, []string{"a:buttons", "a:axes", "b:buttons", "b:axes"}, order)
}

type orderListener struct {
	tag string
	out *[]string
}

func (l *orderListener) ButtonsChanged(changed []bool, state *JoystickState) {
	*l.out = append(*l.out, l.tag+":buttons")
}

func (l *orderListener) AxesMoved(changed []bool, state *JoystickState) {
	*l.out = append(*l.out, l.tag+":axes")
}

func TestJoystickFilterEndToEnd(t *testing.T) {
	caps := joystickCaps([]uint16{288, 289}, []uint16{0})
	d := NewDispatcher(newScriptSource(
		Event{Type: EV_KEY, Code: 288, Value: 1},
		Event{Type: EV_ABS, Code: 0, Value: 100},
		Event{Type: EV_SYN, Code: SYN_REPORT},
	))
	f := NewJoystickFilter(d, caps)
	c := &joystickCollector{}
	f.AddListener(c)
	require.Nil(t, d.Start())
	<-d.Done()
	require.Nil(t, d.Close())

	require.Equal(t, [][]bool{{true, false}}, c.buttonCalls)
	require.Equal(t, []bool{true, false}, c.buttons)
	require.Equal(t, [][]bool{{true}}, c.axisCalls)
	require.Equal(t, []int32{100}, c.axes)
}

func TestJoystickStateString(t *testing.T) {
	f := newTestFilter(joystickCaps([]uint16{288, 289}, []uint16{0}))
	f.Event(Event{Type: EV_KEY, Code: 289, Value: 1})
	f.Event(Event{Type: EV_ABS, Code: 0, Value: -5})
	require.Equal(t, "buttons: [0 1] axes: [-5]", f.state.String())
}
