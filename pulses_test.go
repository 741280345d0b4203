package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectedSlots applies the protocol formula: 16 start slots, 2 slots
// per 0 bit, 4 per 1 bit, 9 stop slots.
func expectedSlots(f rawFrame) int {
	n := startMarkSlots + startSpaceSlots
	for _, b := range f {
		for i := 0; i < 8; i++ {
			if b&(1<<i) != 0 {
				n += 4
			} else {
				n += 2
			}
		}
	}
	return n + 1 + stopSpaceSlots
}

func TestSlotCountFormula(t *testing.T) {
	payloads := [][3]byte{
		{0xB2, 0x5F, 0x70},
		{0xB2, 0x7B, 0xE0},
		deflectorCommand,
		{0x00, 0x00, 0x00},
		{0xFF, 0xFF, 0xFF},
	}
	for _, p := range payloads {
		f := buildFrame(p)
		s := buildPulses(f)
		assert.Equal(t, expectedSlots(f), s.count, "frame %s", f)
	}
}

func TestSlotCountConstantForComplementFrames(t *testing.T) {
	// Complement framing fixes the population count at 24 ones and 24
	// zeros, so every state packet occupies exactly the same airtime.
	want := startMarkSlots + startSpaceSlots + 24*4 + 24*2 + 1 + stopSpaceSlots
	assert.Equal(t, 169, want)

	for _, ac := range []ACState{
		{Enabled: true, Mode: ModeCool, FanLevel: 2, Temperature: 22},
		{Enabled: true, Mode: ModeHeat, FanLevel: 0, Temperature: 30},
		{Enabled: false},
	} {
		f := buildFrame(packState(ac).bytes())
		assert.Equal(t, want, buildPulses(f).count)
	}
}

func TestBuildPulsesStartAndStopShape(t *testing.T) {
	s := buildPulses(buildFrame([3]byte{0xB2, 0x5F, 0x70}))

	for k := 0; k < startMarkSlots; k++ {
		assert.True(t, s.at(k), "start mark slot %d", k)
	}
	for k := startMarkSlots; k < startMarkSlots+startSpaceSlots; k++ {
		assert.False(t, s.at(k), "start space slot %d", k)
	}

	stopMark := s.count - 1 - stopSpaceSlots
	assert.True(t, s.at(stopMark), "stop marker")
	for k := stopMark + 1; k < s.count; k++ {
		assert.False(t, s.at(k), "trailing space slot %d", k)
	}
}

func TestBuildPulsesDeterministic(t *testing.T) {
	f := buildFrame(packState(ACState{Enabled: true, Mode: ModeAuto, Temperature: 21}).bytes())
	assert.Equal(t, buildPulses(f), buildPulses(f))
}

func TestPulsesRoundTrip(t *testing.T) {
	payloads := [][3]byte{
		{0xB2, 0x5F, 0x70},
		{0xB2, 0x7B, 0xE0},
		deflectorCommand,
		{0x00, 0x00, 0x00},
		{0xFF, 0xFF, 0xFF},
		{0xA5, 0x3C, 0x81},
	}
	for _, p := range payloads {
		f := buildFrame(p)
		got, err := decodeSlots(buildPulses(f))
		require.NoError(t, err, "frame %s", f)
		assert.Equal(t, f, got)
	}
}

func TestDecodeSlotsRejectsMalformedTrains(t *testing.T) {
	f := buildFrame([3]byte{0xB2, 0x5F, 0x70})

	missingStart := buildPulses(f)
	missingStart.bits[0] &^= 1 << 3 // clear a start condition mark
	_, err := decodeSlots(missingStart)
	assert.Error(t, err)

	markInStartSpace := buildPulses(f)
	markInStartSpace.bits[1] |= 1 << 2 // slot 10, inside the start space
	_, err = decodeSlots(markInStartSpace)
	assert.Error(t, err)

	truncated := buildPulses(f)
	truncated.count -= 4
	_, err = decodeSlots(truncated)
	assert.Error(t, err)
}

func TestAppendMarkOverflowPanics(t *testing.T) {
	var s slotBuffer
	s.count = slotCapacity - 1
	assert.Panics(t, func() { s.appendMark(3) })
}
