package main

import (
	log "github.com/sirupsen/logrus"
)

// The protocol transmits every state packet twice back to back so the
// receiver can discard a corrupted pass. The deflector command is the
// exception and goes out once.
const (
	stateRepeat     = 2
	deflectorRepeat = 1
)

// Remote owns the encoder pipeline and the transmission engine for one
// IR emitter.
type Remote struct {
	engine  *transmitter
	journal *journal
}

func newRemote(line irLine, timer pulseTimer, j *journal) *Remote {
	return &Remote{engine: newTransmitter(line, timer), journal: j}
}

// SendState encodes and transmits the given logical state. Returns
// errEngineBusy if a transmission is already in flight; the caller can
// poll IsIdle and retry.
func (r *Remote) SendState(ac ACState) error {
	packet := packState(ac)
	return r.sendFrame(buildFrame(packet.bytes()), stateRepeat)
}

// MoveDeflector transmits the fixed deflector-move command.
func (r *Remote) MoveDeflector() error {
	return r.sendFrame(buildFrame(deflectorCommand), deflectorRepeat)
}

// SendRaw frames and transmits 3 literal protocol bytes.
func (r *Remote) SendRaw(data [3]byte, repeat int) error {
	return r.sendFrame(buildFrame(data), repeat)
}

func (r *Remote) sendFrame(f rawFrame, repeat int) error {
	slots := buildPulses(f)
	if err := r.engine.arm(slots, repeat); err != nil {
		log.Debugf("send rejected: %s", err.Error())
		return err
	}
	log.Infof("transmitting frame %s x%d (%d slots)", f, repeat, slots.count)
	r.journal.record(f, repeat)
	return nil
}

// IsIdle reports whether the engine can accept a new transmission.
func (r *Remote) IsIdle() bool {
	return r.engine.IsIdle()
}

// Stop cancels any in-flight transmission and idles the emitter.
func (r *Remote) Stop() {
	r.engine.Stop()
}

func (r *Remote) stats() transmitterStats {
	return r.engine.stats()
}
