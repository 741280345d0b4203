package main

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// The carrier is 38 kHz. The timer ticks at double that so the tick
// handler can produce both edges of the carrier wave, and a slot lasts
// 21 carrier cycles.
const (
	carrierHz       = 38000
	tickPeriod      = time.Second / (2 * carrierHz)
	subSlotsPerSlot = 42 // (high + low) * 21
)

var errEngineBusy = errors.New("transmission already in progress")

// irLine drives the IR LED. Implementations decide polarity; active
// means "emitting".
type irLine interface {
	SetActive()
	SetInactive()
}

// pulseTimer invokes tick at a fixed period until tick returns false or
// Stop is called. Stop must not return while a tick is still running.
type pulseTimer interface {
	Start(period time.Duration, tick func() bool)
	Stop()
}

// transmitter walks an armed slot buffer from the timer tick context.
// Everything below busy is owned by the tick while busy is set; the
// foreground may only touch it after winning the CAS in arm or after
// Stop has quiesced the timer.
type transmitter struct {
	line  irLine
	timer pulseTimer

	busy uint32

	slots       slotBuffer
	repeatCount int
	currentSlot int
	currentSub  int

	statMu      sync.Mutex
	sentFrames  int64
	sentRepeats int64
	busyRejects int64
}

func newTransmitter(line irLine, timer pulseTimer) *transmitter {
	line.SetInactive()
	return &transmitter{line: line, timer: timer}
}

func (t *transmitter) IsIdle() bool {
	return atomic.LoadUint32(&t.busy) == 0
}

// arm stores the pulse train and starts the timer. Only one
// transmission may be in flight; a second arm fails with errEngineBusy
// instead of corrupting the running one.
func (t *transmitter) arm(slots slotBuffer, repeat int) error {
	if repeat < 1 {
		return errors.New("repeat count must be at least 1")
	}
	if !atomic.CompareAndSwapUint32(&t.busy, 0, 1) {
		t.statMu.Lock()
		t.busyRejects++
		t.statMu.Unlock()
		return errEngineBusy
	}

	t.slots = slots
	t.currentSlot = 0
	t.currentSub = 0
	t.repeatCount = repeat

	t.statMu.Lock()
	t.sentFrames++
	t.sentRepeats += int64(repeat)
	t.statMu.Unlock()

	log.Debugf("transmitter armed: %d slots, repeat %d", slots.count, repeat)
	t.timer.Start(tickPeriod, t.tick)
	return nil
}

// tick is the playback state machine. It runs once per half carrier
// cycle and must stay tiny: one slot lookup, one pin write, cursor
// arithmetic. Returning false stops the timer.
func (t *transmitter) tick() bool {
	mark := t.slots.at(t.currentSlot)

	if mark && t.currentSub%2 == 0 {
		t.line.SetActive()
	} else {
		t.line.SetInactive()
	}

	t.currentSub++
	if t.currentSub < subSlotsPerSlot {
		return true
	}
	t.currentSub = 0

	t.currentSlot++
	if t.currentSlot < t.slots.count {
		return true
	}
	t.currentSlot = 0

	t.repeatCount--
	if t.repeatCount > 0 {
		return true
	}

	// Transmission complete: idle the pin and release the engine.
	t.line.SetInactive()
	atomic.StoreUint32(&t.busy, 0)
	return false
}

// Stop cancels an in-flight transmission. It quiesces the timer first
// so the reset below cannot interleave with a tick, then forces the
// line inactive and returns the engine to idle. Safe to call when idle.
func (t *transmitter) Stop() {
	t.timer.Stop()
	t.line.SetInactive()
	t.repeatCount = 0
	t.currentSlot = 0
	t.currentSub = 0
	atomic.StoreUint32(&t.busy, 0)
}

type transmitterStats struct {
	Frames      int64 `json:"frames"`
	Repeats     int64 `json:"repeats"`
	BusyRejects int64 `json:"busyRejects"`
}

// stats returns and resets the transmit counters, in the style of the
// periodic stats poller.
func (t *transmitter) stats() transmitterStats {
	t.statMu.Lock()
	defer t.statMu.Unlock()
	s := transmitterStats{Frames: t.sentFrames, Repeats: t.sentRepeats, BusyRejects: t.busyRejects}
	t.sentFrames, t.sentRepeats, t.busyRejects = 0, 0, 0
	return s
}

// tickerTimer is the host binding of pulseTimer, driven by a
// time.Ticker goroutine. Hosts cannot hold 13 us periods exactly, but
// consumer IR receivers tolerate the jitter; the abstraction exists so
// firmware targets can supply a hardware timer instead.
type tickerTimer struct {
	mu   sync.Mutex
	quit chan struct{}
	done chan struct{}
}

func (tt *tickerTimer) Start(period time.Duration, tick func() bool) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	quit := make(chan struct{})
	done := make(chan struct{})
	tt.quit = quit
	tt.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				if !tick() {
					return
				}
			}
		}
	}()
}

func (tt *tickerTimer) Stop() {
	tt.mu.Lock()
	quit, done := tt.quit, tt.done
	tt.quit, tt.done = nil, nil
	tt.mu.Unlock()

	if quit == nil {
		return
	}
	close(quit)
	<-done
}
