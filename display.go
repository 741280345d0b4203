package main

import (
	"io"

	"github.com/tarm/serial"
	log "github.com/sirupsen/logrus"
)

// segmentPatterns maps a digit to its 7-segment image. The latch driver
// sinks current, so bytes go out inverted.
var segmentPatterns = [17]uint8{
	0x3F, // 0
	0x06, // 1
	0x5B, // 2
	0x4F, // 3
	0x66, // 4
	0x6D, // 5
	0x7D, // 6
	0x07, // 7
	0x7F, // 8
	0x6F, // 9
	0x77, // A
	0x7C, // b
	0x39, // C
	0x5E, // d
	0x79, // E
	0x71, // F
	0x00, // blank
}

const segmentBlank = 16

// display drives the two-digit 7-segment panel behind a serial-attached
// shift register. All writes are blocking and best-effort: a missing or
// failed panel must never block a transmission.
type display struct {
	port io.WriteCloser
}

func openDisplay(device string) *display {
	d := &display{}
	if device == "" {
		return d
	}

	c := &serial.Config{Name: device, Baud: 9600}
	port, err := serial.OpenPort(c)
	if err != nil {
		log.Warnf("display unavailable on %s: %s", device, err.Error())
		return d
	}
	d.port = port
	log.Infof("display on serial port %s", device)
	return d
}

func (d *display) write(digits [2]uint8) {
	if d == nil || d.port == nil {
		return
	}
	buf := []byte{0xFF - segmentPatterns[digits[0]], 0xFF - segmentPatterns[digits[1]]}
	if _, err := d.port.Write(buf); err != nil {
		log.Errorf("error writing to display: %s", err.Error())
	}
}

// ShowDecimal renders a value 0..99 as two BCD digits.
func (d *display) ShowDecimal(value uint8) {
	d.write([2]uint8{(value / 10) % 10, value % 10})
}

// ShowHex renders a byte as two hex digits.
func (d *display) ShowHex(value uint8) {
	d.write([2]uint8{(value >> 4) & 0x0F, value & 0x0F})
}

func (d *display) Blank() {
	d.write([2]uint8{segmentBlank, segmentBlank})
}

// showState tracks the remote state: target temperature when running,
// blank when off.
func (d *display) showState(ac ACState) {
	switch {
	case !ac.Enabled, ac.Mode == ModeFan:
		d.Blank()
	default:
		d.ShowDecimal(uint8(ac.Temperature))
	}
}

func (d *display) Close() {
	if d == nil || d.port == nil {
		return
	}
	d.Blank()
	if err := d.port.Close(); err != nil {
		log.Warnf("error closing display port: %s", err.Error())
	}
	d.port = nil
}
