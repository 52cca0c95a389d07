package evjoy

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// RecordSource produces raw event records. ReadRecord fills buf with
// exactly EventSize bytes, blocking until they are available, and
// returns an error otherwise. Close must be idempotent.
type RecordSource interface {
	ReadRecord(buf []byte) error
	Close() error
}

// InputListener receives every decoded event of a dispatcher,
// synchronously on the dispatcher's own goroutine. A slow listener
// delays all further delivery for that device.
type InputListener interface {
	Event(ev Event)
}

var (
	LoopRunningErr = fmt.Errorf("dispatch loop already started")
	LoopClosedErr  = fmt.Errorf("dispatch loop is closed")
)

// Dispatcher runs the read-decode-fanout cycle of one device on a
// dedicated goroutine. Listeners are notified in registration order.
// A Dispatcher is single-use: once closed it cannot be restarted.
type Dispatcher struct {
	src RecordSource

	mu        sync.Mutex
	listeners []InputListener
	started   bool
	closed    bool

	stop chan struct{}
	done chan struct{}
	err  error
}

func NewDispatcher(src RecordSource) *Dispatcher {
	return &Dispatcher{
		src:  src,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start begins the read cycle on a new goroutine.
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return LoopClosedErr
	}
	if d.started {
		return LoopRunningErr
	}
	d.started = true
	go d.run()
	return nil
}

func (d *Dispatcher) run() {
	defer close(d.done)
	buf := make([]byte, EventSize)
	for {
		select {
		case <-d.stop:
			return
		default:
		}
		if err := d.src.ReadRecord(buf); err != nil {
			d.err = err
			return
		}
		ev, err := UnmarshalEvent(buf)
		if err != nil {
			d.err = err
			return
		}
		d.dispatch(ev)
	}
}

func (d *Dispatcher) dispatch(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, l := range d.listeners {
		l.Event(ev)
	}
}

// AddListener registers l. Adding a listener that is already
// registered has no effect.
func (d *Dispatcher) AddListener(l InputListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, known := range d.listeners {
		if known == l {
			return
		}
	}
	d.listeners = append(d.listeners, l)
}

// RemoveListener unregisters l. Removing an unknown listener has no
// effect.
func (d *Dispatcher) RemoveListener(l InputListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, known := range d.listeners {
		if known == l {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

// Close requests termination, waits until the read cycle has exited and
// then releases the record source. After Close returns no listener is
// notified again. The return value is the terminal status of the loop:
// nil after a clean end of stream or an explicit close, the read or
// decode error otherwise.
//
// The stop request is cooperative. A read that is blocked on a silent
// device keeps the loop alive until the source produces a record,
// errors, or is closed by another goroutine.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return d.terminalErr()
	}
	d.closed = true
	started := d.started
	d.mu.Unlock()

	close(d.stop)
	if started {
		<-d.done
	} else {
		close(d.done)
	}
	if err := d.src.Close(); err != nil {
		return err
	}
	return d.terminalErr()
}

func (d *Dispatcher) terminalErr() error {
	if errors.Is(d.err, io.EOF) {
		return nil
	}
	return d.err
}

// Done is closed once the read cycle has exited, whether through Close
// or through a source failure.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// Err returns the error that terminated the read cycle, if any.
// It is meaningful once Done is closed.
func (d *Dispatcher) Err() error {
	return d.err
}
