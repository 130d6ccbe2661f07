package level

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCadence is the publish rate for level updates (~60 Hz),
// independent of hardware buffer arrival.
const DefaultCadence = time.Second / 60

// Meter is an atomic level cell. The real-time audio callback is the
// single writer; readers never observe a torn value.
type Meter struct {
	bits atomic.Uint64
}

// Set stores the current level.
func (m *Meter) Set(v float64) {
	m.bits.Store(math.Float64bits(v))
}

// Level returns the most recently stored level.
func (m *Meter) Level() float64 {
	return math.Float64frombits(m.bits.Load())
}

// Reset sets the level back to 0.
func (m *Meter) Reset() {
	m.Set(0)
}

// Publisher samples a Meter at a fixed cadence and delivers the latest
// value on a channel. The channel holds at most one value; a slow consumer
// sees the most recent level, never a stale backlog.
type Publisher struct {
	meter    *Meter
	interval time.Duration

	mu   sync.Mutex
	ch   chan float64
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewPublisher creates a publisher for m at the given cadence. A
// nonpositive interval uses DefaultCadence.
func NewPublisher(m *Meter, interval time.Duration) *Publisher {
	if interval <= 0 {
		interval = DefaultCadence
	}
	return &Publisher{
		meter:    m,
		interval: interval,
		ch:       make(chan float64, 1),
	}
}

// Levels returns the channel level updates are delivered on.
func (p *Publisher) Levels() <-chan float64 {
	return p.ch
}

// Start begins publishing. Calling Start while running is a no-op.
func (p *Publisher) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop != nil {
		return
	}
	p.stop = make(chan struct{})
	p.wg.Add(1)

	stop := p.stop
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.publish(p.meter.Level())
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts publishing and delivers a final 0 so consumers reset their
// display. Idempotent.
func (p *Publisher) Stop() {
	p.mu.Lock()
	if p.stop == nil {
		p.mu.Unlock()
		return
	}
	close(p.stop)
	p.stop = nil
	p.mu.Unlock()

	p.wg.Wait()
	p.publish(0)
}

// publish replaces any undelivered value with v (latest wins).
func (p *Publisher) publish(v float64) {
	select {
	case p.ch <- v:
	default:
		select {
		case <-p.ch:
		default:
		}
		select {
		case p.ch <- v:
		default:
		}
	}
}
