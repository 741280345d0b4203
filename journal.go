package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/npat-efault/crc16"
	log "github.com/sirupsen/logrus"
)

var crcConfig = &crc16.Conf{
	Poly: 0x8005, BitRev: true,
	IniVal: 0x0, FinVal: 0x0,
	BigEnd: false,
}

// journal is an append-only record of transmitted frames. Each line is
// "<ms-offset> <frame-hex> <repeat> <crc-hex>" where the CRC covers the
// frame bytes, so a logged frame can later be replayed with confidence
// that the log itself is not corrupt.
type journal struct {
	f      *os.File
	basems int64
}

func openJournal(path string) *journal {
	j := &journal{basems: time.Now().UnixMilli()}
	if path == "" {
		return j
	}

	var err error
	j.f, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0755)
	if err != nil {
		log.Errorf("failed to open transmit journal '%s': %s", path, err)
	} else {
		log.Debugf("opened transmit journal '%s'", path)
	}
	return j
}

func (j *journal) record(f rawFrame, repeat int) {
	if j == nil || j.f == nil {
		return
	}
	msd := time.Now().UnixMilli() - j.basems
	sum := crc16.Checksum(crcConfig, f[:])
	_, err := fmt.Fprintf(j.f, "%08d %s %d %04x\n", msd, f, repeat, sum)
	if err != nil {
		log.Error("journal write failed: ", err)
		return
	}
	if err := j.f.Sync(); err != nil {
		log.Error("journal sync failed: ", err)
	}
}

func (j *journal) Close() {
	if j == nil || j.f == nil {
		return
	}
	if err := j.f.Close(); err != nil {
		log.Warnf("error closing transmit journal: %s", err.Error())
	}
	j.f = nil
}

// parseJournalLine recovers a frame and repeat count from a journal
// line, rejecting entries whose CRC or complement bytes do not check
// out.
func parseJournalLine(line string) (rawFrame, int, error) {
	var f rawFrame

	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) != 4 {
		return f, 0, fmt.Errorf("journal line has %d fields, want 4", len(fields))
	}

	raw, err := hex.DecodeString(fields[1])
	if err != nil || len(raw) != len(f) {
		return f, 0, fmt.Errorf("bad frame hex '%s'", fields[1])
	}
	copy(f[:], raw)

	var repeat int
	if _, err := fmt.Sscanf(fields[2], "%d", &repeat); err != nil || repeat < 1 {
		return f, 0, fmt.Errorf("bad repeat count '%s'", fields[2])
	}

	var sum uint16
	if _, err := fmt.Sscanf(fields[3], "%x", &sum); err != nil {
		return f, 0, fmt.Errorf("bad checksum '%s'", fields[3])
	}
	if sum != crc16.Checksum(crcConfig, f[:]) {
		return f, 0, fmt.Errorf("checksum mismatch on frame %s", f)
	}
	if err := verifyFrame(f); err != nil {
		return f, 0, err
	}

	return f, repeat, nil
}

// replay re-transmits a previously journaled frame through the raw
// path.
func (r *Remote) replay(line string) error {
	f, repeat, err := parseJournalLine(line)
	if err != nil {
		return err
	}
	return r.SendRaw(f.payload(), repeat)
}
