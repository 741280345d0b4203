package main

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickerTimerSelfStop(t *testing.T) {
	tt := &tickerTimer{}
	var ticks int64

	tt.Start(time.Millisecond, func() bool {
		return atomic.AddInt64(&ticks, 1) < 5
	})

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt64(&ticks) < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, int64(5), atomic.LoadInt64(&ticks))

	// a timer that stopped itself accepts Stop without blocking
	tt.Stop()
}

func TestTickerTimerStopQuiesces(t *testing.T) {
	tt := &tickerTimer{}
	var ticks int64

	tt.Start(time.Millisecond, func() bool {
		atomic.AddInt64(&ticks, 1)
		return true
	})

	time.Sleep(10 * time.Millisecond)
	tt.Stop()

	// no tick may run after Stop returns
	after := atomic.LoadInt64(&ticks)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt64(&ticks))
}

func TestTickerTimerStopWithoutStart(t *testing.T) {
	tt := &tickerTimer{}
	tt.Stop() // must not panic or block
}
