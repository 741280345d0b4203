package main

import (
	"fmt"
)

// ACState is the logical remote state a caller wants transmitted.
type ACState struct {
	Enabled     bool  `json:"enabled"`
	Mode        Mode  `json:"-"`
	FanLevel    uint8 `json:"fanLevel"`
	Temperature int   `json:"temperature"`
}

// dataPacket holds the four logical protocol fields before they are
// packed into wire bytes. Built fresh for every transmission.
type dataPacket struct {
	magic   uint8
	state   uint8 // low nibble of byte 1
	fan     uint8 // high nibble of byte 1
	command uint8 // low nibble of byte 2
	temp    uint8 // high nibble of byte 2
}

// rawFrame is the 6-byte wire unit: each data byte followed by its
// bitwise complement, which the receiver uses for error checking.
type rawFrame [6]byte

// packState encodes the logical state into a data packet. It is total:
// every input maps to some valid packet, out-of-range temperatures and
// fan levels degrade to the protocol fallback codes.
func packState(ac ACState) dataPacket {
	if !ac.Enabled {
		// The fixed off packet. The remaining fields are ignored.
		return dataPacket{
			magic:   packetMagic,
			state:   stateOff,
			fan:     fanOff,
			command: 0b0000,
			temp:    tempOff,
		}
	}

	p := dataPacket{
		magic:   packetMagic,
		state:   stateOn,
		command: uint8(ac.Mode),
	}

	if ac.Mode == ModeAuto {
		p.fan = fanAuto
	} else {
		p.fan = fanTable[ac.FanLevel&0x03]
	}

	if ac.Mode == ModeFan {
		p.temp = tempOff
	} else if ac.Temperature >= tempLow && ac.Temperature <= tempHigh {
		p.temp = temperatureTable[ac.Temperature-tempLow]
	} else {
		p.temp = tempInvalid
	}

	return p
}

// bytes packs the nibbles into the 3 wire bytes.
func (p dataPacket) bytes() [3]byte {
	return [3]byte{
		p.magic,
		p.fan<<4 | p.state&0x0F,
		p.temp<<4 | p.command&0x0F,
	}
}

// buildFrame interleaves each packet byte with its complement.
func buildFrame(data [3]byte) rawFrame {
	var f rawFrame
	for i, b := range data {
		f[2*i] = b
		f[2*i+1] = ^b
	}
	return f
}

// verifyFrame checks the complement invariant. Frames we build always
// pass; this guards the journal replay path against corrupt input.
func verifyFrame(f rawFrame) error {
	for i := 0; i < len(f); i += 2 {
		if f[i]^f[i+1] != 0xFF {
			return fmt.Errorf("frame byte %d (%02x) does not match complement %02x", i/2, f[i], f[i+1])
		}
	}
	return nil
}

// payload returns the 3 data bytes of a verified frame.
func (f rawFrame) payload() [3]byte {
	return [3]byte{f[0], f[2], f[4]}
}

func (f rawFrame) String() string {
	return fmt.Sprintf("%02x%02x%02x%02x%02x%02x", f[0], f[1], f[2], f[3], f[4], f[5])
}
