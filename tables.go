package main

// Midea remote data packet, 3 bytes:
// [1010 0010] [ffff ssss] [tttt cccc]
//
// The first byte is a constant. The second carries the fan nibble in the
// high half and the power state nibble in the low half. The third carries
// the temperature nibble in the high half and the mode command in the low
// half.

const packetMagic = 0xB2

// Power state nibbles.
const (
	stateOn  = 0b1111
	stateOff = 0b1011
)

// Fan nibbles outside the level table.
const (
	fanAuto = 0b0001 // forced whenever mode is auto
	fanOff  = 0b0111 // used by the fixed off packet
)

// Temperature nibbles outside the degree table.
const (
	tempOff     = 0b1110 // fan-only mode, temperature irrelevant
	tempInvalid = 0b0100 // out-of-range fallback
)

// Mode is the protocol command nibble.
type Mode uint8

const (
	ModeCool Mode = 0b0000
	ModeHeat Mode = 0b1100
	ModeAuto Mode = 0b1000
	ModeFan  Mode = 0b0100
)

// Supported target temperature range in Celsius.
const (
	tempLow  = 17
	tempHigh = 30
)

// temperatureTable converts a temperature in Celsius to the scrambled
// Midea code. Index is degrees above tempLow.
var temperatureTable = [tempHigh - tempLow + 1]uint8{
	0b0000, // 17 C
	0b0001, // 18 C
	0b0011, // 19 C
	0b0010, // 20 C
	0b0110, // 21 C
	0b0111, // 22 C
	0b0101, // 23 C
	0b0100, // 24 C
	0b1100, // 25 C
	0b1101, // 26 C
	0b1001, // 27 C
	0b1000, // 28 C
	0b1010, // 29 C
	0b1011, // 30 C
}

// fanTable converts fan level 0..3 to its nibble.
var fanTable = [4]uint8{
	0b1011, // 0 - automatic
	0b1001, // 1 - low
	0b0101, // 2 - medium
	0b0011, // 3 - high
}

// deflectorCommand is the fixed "move deflector" packet. It bypasses the
// state encoder entirely and is sent without the usual double repeat.
var deflectorCommand = [3]byte{0xB2, 0x0F, 0xE0}
