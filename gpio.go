package main

import (
	"fmt"

	"github.com/davecheney/gpio"
	log "github.com/sirupsen/logrus"
)

// gpioLine drives the IR LED through a sysfs GPIO pin. Whether the LED
// emits on a high or low level depends on how it is wired (direct vs.
// through a transistor), so polarity is configuration, not protocol.
type gpioLine struct {
	pin       gpio.Pin
	activeLow bool
}

func openGPIOLine(pinNumber int, activeLow bool) (*gpioLine, error) {
	pin, err := gpio.OpenPin(pinNumber, gpio.ModeOutput)
	if err != nil {
		return nil, fmt.Errorf("opening GPIO %d: %w", pinNumber, err)
	}
	log.Infof("IR LED on GPIO %d (active-low: %v)", pinNumber, activeLow)
	l := &gpioLine{pin: pin, activeLow: activeLow}
	l.SetInactive()
	return l, nil
}

func (l *gpioLine) SetActive() {
	if l.activeLow {
		l.pin.Clear()
	} else {
		l.pin.Set()
	}
}

func (l *gpioLine) SetInactive() {
	if l.activeLow {
		l.pin.Set()
	} else {
		l.pin.Clear()
	}
}

func (l *gpioLine) Close() {
	l.SetInactive()
	if err := l.pin.Close(); err != nil {
		log.Errorf("error closing GPIO pin: %s", err.Error())
	}
}
