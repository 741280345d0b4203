package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackStateCoolMediumFan22(t *testing.T) {
	ac := ACState{Enabled: true, Mode: ModeCool, FanLevel: 2, Temperature: 22}
	p := packState(ac)

	assert.Equal(t, uint8(0b1111), p.state)
	assert.Equal(t, uint8(0b0101), p.fan)
	assert.Equal(t, uint8(0b0000), p.command)
	assert.Equal(t, uint8(0b0111), p.temp)
	assert.Equal(t, [3]byte{0xB2, 0x5F, 0x70}, p.bytes())
}

func TestPackStateOffIgnoresOtherFields(t *testing.T) {
	want := [3]byte{0xB2, 0x7B, 0xE0}

	states := []ACState{
		{Enabled: false},
		{Enabled: false, Mode: ModeHeat, FanLevel: 3, Temperature: 30},
		{Enabled: false, Mode: ModeFan, FanLevel: 1, Temperature: -40},
		{Enabled: false, Mode: ModeAuto, Temperature: 99},
	}
	for _, ac := range states {
		assert.Equal(t, want, packState(ac).bytes(), "off packet should not depend on %+v", ac)
	}
}

func TestPackStateAutoModeForcesFanNibble(t *testing.T) {
	for level := uint8(0); level < 4; level++ {
		p := packState(ACState{Enabled: true, Mode: ModeAuto, FanLevel: level, Temperature: 24})
		assert.Equal(t, uint8(fanAuto), p.fan, "fan level %d", level)
	}
}

func TestPackStateFanModeDropsTemperature(t *testing.T) {
	for _, temp := range []int{17, 24, 30, -5, 99} {
		p := packState(ACState{Enabled: true, Mode: ModeFan, FanLevel: 1, Temperature: temp})
		assert.Equal(t, uint8(tempOff), p.temp, "temperature %d", temp)
	}
}

func TestPackStateTemperatureTable(t *testing.T) {
	tests := []struct {
		temp int
		want uint8
	}{
		{17, 0b0000},
		{22, 0b0111},
		{24, 0b0100},
		{30, 0b1011},
		{16, tempInvalid},
		{31, tempInvalid},
		{-10, tempInvalid},
		{100, tempInvalid},
	}
	for _, tt := range tests {
		p := packState(ACState{Enabled: true, Mode: ModeCool, FanLevel: 1, Temperature: tt.temp})
		assert.Equal(t, tt.want, p.temp, "temperature %d", tt.temp)
	}
}

func TestPackStateFanTable(t *testing.T) {
	for level, want := range fanTable {
		p := packState(ACState{Enabled: true, Mode: ModeCool, FanLevel: uint8(level), Temperature: 24})
		assert.Equal(t, want, p.fan, "fan level %d", level)
	}
}

func TestPackStateDeterministic(t *testing.T) {
	ac := ACState{Enabled: true, Mode: ModeHeat, FanLevel: 3, Temperature: 26}
	assert.Equal(t, packState(ac), packState(ac))
}

func TestBuildFrameComplementInvariant(t *testing.T) {
	payloads := [][3]byte{
		{0xB2, 0x5F, 0x70},
		{0xB2, 0x7B, 0xE0},
		deflectorCommand,
		{0x00, 0xFF, 0xA5},
	}
	for _, p := range payloads {
		f := buildFrame(p)
		for i := 0; i < len(f); i += 2 {
			assert.Equal(t, byte(0xFF), f[i]^f[i+1], "frame %s index %d", f, i)
		}
		require.NoError(t, verifyFrame(f))
		assert.Equal(t, p, f.payload())
	}
}

func TestVerifyFrameRejectsCorruption(t *testing.T) {
	f := buildFrame([3]byte{0xB2, 0x5F, 0x70})
	for i := range f {
		corrupt := f
		corrupt[i] ^= 0x10
		assert.Error(t, verifyFrame(corrupt), "flipped bit in byte %d", i)
	}
}
