package payment

import (
	"context"
	"log"
	"time"

	"github.com/qmuntal/stateless"
)

// Poller lifecycle states. Stopped is terminal: a checkout session builds a
// fresh poller each time the QR dialog becomes visible.
const (
	StateIdle    = "idle"
	StatePolling = "polling"
	StateStopped = "stopped"
)

const (
	triggerStart = "start"
	triggerStop  = "stop"
)

// Ticker is the schedulable part of time.Ticker, injectable for tests.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds a ticker for the given interval.
type TickerFactory func(d time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewTicker is the production TickerFactory.
func NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// CheckFunc performs one automatic status check. Failures inside the check
// are logged by the owner, never surfaced to the user; only manual checks
// go through a path that returns errors.
type CheckFunc func(ctx context.Context)

// Poller drives recurring payment-status checks for a displayed payment
// request. It performs one immediate check on start, then checks on a fixed
// interval until stopped. Stopping is deterministic: once Stop returns, no
// further check fires.
type Poller struct {
	interval  time.Duration
	newTicker TickerFactory
	check     CheckFunc

	machine *stateless.StateMachine
	ctx     context.Context
	done    chan struct{}
}

// NewPoller creates a poller in the Idle state.
func NewPoller(interval time.Duration, factory TickerFactory, check CheckFunc) *Poller {
	if factory == nil {
		factory = NewTicker
	}

	p := &Poller{
		interval:  interval,
		newTicker: factory,
		check:     check,
		done:      make(chan struct{}),
	}

	m := stateless.NewStateMachine(StateIdle)

	m.Configure(StateIdle).
		Permit(triggerStart, StatePolling).
		Permit(triggerStop, StateStopped)

	m.Configure(StatePolling).
		OnEntry(func(_ context.Context, _ ...any) error {
			go p.loop()
			return nil
		}).
		Permit(triggerStop, StateStopped)

	m.Configure(StateStopped).
		OnEntry(func(_ context.Context, _ ...any) error {
			close(p.done)
			return nil
		}).
		Ignore(triggerStop).
		Ignore(triggerStart)

	p.machine = m

	return p
}

// Start begins polling. The context is carried into every check; pass one
// that outlives the triggering request.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx = ctx
	return p.machine.Fire(triggerStart)
}

// Stop cancels the scheduled checks. Safe to call in any state, repeatedly.
func (p *Poller) Stop() {
	if err := p.machine.Fire(triggerStop); err != nil {
		log.Printf("[Poller] Stop ignored: %v", err)
	}
}

// State returns the current lifecycle state.
func (p *Poller) State() string {
	return p.machine.MustState().(string)
}

func (p *Poller) loop() {
	// Immediate first check, no initial delay.
	select {
	case <-p.done:
		return
	default:
	}

	p.check(p.ctx)

	ticker := p.newTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C():
			// A tick can race with Stop; drop it once stopped.
			select {
			case <-p.done:
				return
			default:
			}

			p.check(p.ctx)
		}
	}
}
