package main

func rawModeToString(mode Mode) string {
	switch mode {
	case ModeCool:
		return "cool"
	case ModeHeat:
		return "heat"
	case ModeAuto:
		return "auto"
	case ModeFan:
		return "fan"
	default:
		return "unknown"
	}
}

func stringModeToRaw(mode string) (Mode, bool) {
	switch mode {
	case "cool":
		return ModeCool, true
	case "heat":
		return ModeHeat, true
	case "auto":
		return ModeAuto, true
	case "fan":
		return ModeFan, true
	default:
		return ModeAuto, false
	}
}

func rawFanLevelToString(level uint8) string {
	switch level {
	case 0:
		return "auto"
	case 1:
		return "low"
	case 2:
		return "med"
	case 3:
		return "high"
	default:
		return "unknown"
	}
}

func stringFanLevelToRaw(level string) (uint8, bool) {
	switch level {
	case "auto":
		return 0, true
	case "low":
		return 1, true
	case "med":
		return 2, true
	case "high":
		return 3, true
	default:
		return 0, false
	}
}
