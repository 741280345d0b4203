package main

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// APIStateConfig is the partial-update shape accepted over HTTP and
// MQTT. Nil fields are left unchanged.
type APIStateConfig struct {
	Enabled     *bool   `json:"enabled"`
	Mode        *string `json:"mode"`
	FanLevel    *string `json:"fanLevel"`
	Temperature *int    `json:"temperature"`
}

// StateSnapshot is the externally visible remote state.
type StateSnapshot struct {
	Enabled     bool   `json:"enabled"`
	Mode        string `json:"mode"`
	FanLevel    string `json:"fanLevel"`
	Temperature int    `json:"temperature"`
	Idle        bool   `json:"idle"`
}

// stateStore holds the last state the daemon transmitted. The AC has no
// back channel, so this is the source of truth for partial updates.
type stateStore struct {
	mu sync.Mutex
	ac ACState
}

var state = &stateStore{
	ac: ACState{
		Enabled:     false,
		Mode:        ModeAuto,
		FanLevel:    0,
		Temperature: 24,
	},
}

func (s *stateStore) get() ACState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ac
}

func (s *stateStore) snapshot() StateSnapshot {
	ac := s.get()
	return StateSnapshot{
		Enabled:     ac.Enabled,
		Mode:        rawModeToString(ac.Mode),
		FanLevel:    rawFanLevelToString(ac.FanLevel),
		Temperature: ac.Temperature,
		Idle:        remote.IsIdle(),
	}
}

// applyState merges a partial update, transmits the result, and commits
// it only if the transmission was accepted. A busy engine leaves the
// stored state untouched so a retry sends the intended update.
func applyState(cfg *APIStateConfig) error {
	state.mu.Lock()
	defer state.mu.Unlock()

	ac := state.ac

	if cfg.Enabled != nil {
		ac.Enabled = *cfg.Enabled
	}
	if cfg.Mode != nil {
		mode, ok := stringModeToRaw(*cfg.Mode)
		if !ok {
			return fmt.Errorf("invalid mode '%s'", *cfg.Mode)
		}
		ac.Mode = mode
	}
	if cfg.FanLevel != nil {
		level, ok := stringFanLevelToRaw(*cfg.FanLevel)
		if !ok {
			return fmt.Errorf("invalid fan level '%s'", *cfg.FanLevel)
		}
		ac.FanLevel = level
	}
	if cfg.Temperature != nil {
		// Out of range is not an error: the encoder clamps to the
		// protocol fallback code, matching the remote's behavior.
		ac.Temperature = *cfg.Temperature
	}

	if err := remote.SendState(ac); err != nil {
		return err
	}

	state.ac = ac
	publishState()
	disp.showState(ac)
	return nil
}

// publishState pushes the committed state to websocket listeners and
// the MQTT broker. Callers hold state.mu.
func publishState() {
	snap := StateSnapshot{
		Enabled:     state.ac.Enabled,
		Mode:        rawModeToString(state.ac.Mode),
		FanLevel:    rawFanLevelToString(state.ac.FanLevel),
		Temperature: state.ac.Temperature,
		Idle:        remote.IsIdle(),
	}
	stateCache.update("acstate", snap)
	stateCache.update("mqtt/mideair/power", onOff(snap.Enabled))
	stateCache.update("mqtt/mideair/mode", snap.Mode)
	stateCache.update("mqtt/mideair/fan", snap.FanLevel)
	stateCache.update("mqtt/mideair/temperature", strconv.Itoa(snap.Temperature))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// putState applies one string-valued setting, the shape MQTT delivers.
func putState(setting string, value string) error {
	value = strings.TrimSpace(value)

	cfg := &APIStateConfig{}
	switch setting {
	case "power":
		enabled := value == "on" || value == "true" || value == "1"
		cfg.Enabled = &enabled
	case "mode":
		cfg.Mode = &value
	case "fan":
		cfg.FanLevel = &value
	case "temperature":
		t, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid temperature '%s'", value)
		}
		cfg.Temperature = &t
	case "deflector":
		return remote.MoveDeflector()
	default:
		return fmt.Errorf("unknown setting '%s'", setting)
	}

	err := applyState(cfg)
	if err != nil {
		log.Errorf("failed to apply %s=%s: %s", setting, value, err.Error())
	}
	return err
}
