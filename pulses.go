package main

import (
	"fmt"
)

// Bit timing, pulse-width encoded. T is one slot.
//
//              ________          _     _   _
// signal:    _|        |________| |___| |_| | ...  (without carrier)
// meaning:    "start condition"   "1"  "0"
// slots:       11111111 00000000 1 000 1 0 1
//
// A "0" bit is 1T mark + 1T space, a "1" bit is 1T mark + 3T space.
// The start condition is 8T mark + 8T space, the stop marker is 1T mark
// followed by 8T of trailing silence.
const (
	startMarkSlots  = 8
	startSpaceSlots = 8
	stopSpaceSlots  = 8
	frameBits       = 8 * len(rawFrame{})

	// Worst case: every bit a "1" at 4 slots each, plus start and stop.
	slotCapacity = startMarkSlots + startSpaceSlots + 4*frameBits + 1 + stopSpaceSlots
)

// slotBuffer is a bit-per-slot pulse train: bit k set means slot k is a
// mark (carrier on), clear means space. Fixed capacity, no allocation.
type slotBuffer struct {
	bits  [(slotCapacity + 7) / 8]uint8
	count int
}

func (s *slotBuffer) at(k int) bool {
	return s.bits[k/8]&(1<<(k%8)) != 0
}

// appendMark adds one mark slot followed by spaces space slots. Spaces
// are just cursor advances, the backing array starts zeroed.
func (s *slotBuffer) appendMark(spaces int) {
	if s.count+1+spaces > slotCapacity {
		// Unreachable with a 6-byte frame; a programming error, not
		// a runtime condition.
		panic(fmt.Sprintf("pulse train overflow: %d slots exceeds capacity %d", s.count+1+spaces, slotCapacity))
	}
	s.bits[s.count/8] |= 1 << (s.count % 8)
	s.count += 1 + spaces
}

// buildPulses expands a frame into its slot train. Pure: the same frame
// always yields the same buffer.
func buildPulses(f rawFrame) slotBuffer {
	var s slotBuffer

	// Start condition: 8T mark, 8T space.
	for i := 0; i < startMarkSlots; i++ {
		s.bits[s.count/8] |= 1 << (s.count % 8)
		s.count++
	}
	s.count += startSpaceSlots

	// Data, MSB first.
	for _, b := range f {
		for i := 0; i < 8; i++ {
			if b&(1<<7) != 0 {
				s.appendMark(3)
			} else {
				s.appendMark(1)
			}
			b <<= 1
		}
	}

	// Stop marker and trailing silence.
	s.appendMark(stopSpaceSlots)

	return s
}

// decodeSlots is the inverse of buildPulses. It exists for the journal
// replay path and as a test oracle; the transmitter never decodes.
func decodeSlots(s slotBuffer) (rawFrame, error) {
	var f rawFrame

	k := 0
	for ; k < startMarkSlots; k++ {
		if !s.at(k) {
			return f, fmt.Errorf("slot %d: start condition mark missing", k)
		}
	}
	for ; k < startMarkSlots+startSpaceSlots; k++ {
		if s.at(k) {
			return f, fmt.Errorf("slot %d: start condition space missing", k)
		}
	}

	for bit := 0; bit < frameBits; bit++ {
		if !s.at(k) {
			return f, fmt.Errorf("slot %d: bit %d mark missing", k, bit)
		}
		k++
		spaces := 0
		for k < s.count && !s.at(k) {
			spaces++
			k++
		}
		switch {
		case bit == frameBits-1:
			// Last data bit runs into the stop marker; its space run
			// ends at the next mark regardless.
		case spaces != 1 && spaces != 3:
			return f, fmt.Errorf("bit %d: space run of %d slots", bit, spaces)
		}
		if spaces >= 3 {
			f[bit/8] |= 1 << (7 - bit%8)
		}
	}

	if k >= s.count || !s.at(k) {
		return f, fmt.Errorf("slot %d: stop marker missing", k)
	}
	if k+1+stopSpaceSlots != s.count {
		return f, fmt.Errorf("stop marker at slot %d does not terminate train of %d", k, s.count)
	}

	return f, nil
}
