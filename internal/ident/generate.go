package ident

import (
	"fmt"
	"math/rand/v2"
	"os"
	"regexp"
	"time"
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewWorkEffort generates a work effort identifier embedding now's date and a
// fresh random suffix.
func NewWorkEffort(now time.Time) ID {
	return ID{Kind: KindWorkEffort, Date: now, Suffix: randomSuffix(4)}
}

// NewCheckpoint generates a checkpoint identifier embedding now's date and
// wall-clock time.
func NewCheckpoint(now time.Time) ID {
	return ID{Kind: KindCheckpoint, Date: now, Clock: now.Format(ClockLayout)}
}

// NewTicket generates a ticket identifier under the given parent work effort.
// The ticket inherits the parent's date component. seq must be 1-999; use
// NextSequence to compute the next unused number.
func NewTicket(parent ID, seq int) (ID, error) {
	if parent.Kind != KindWorkEffort {
		return ID{}, fmt.Errorf("ticket parent must be a work effort, got %s", parent.Kind)
	}
	if seq < 1 || seq > 999 {
		return ID{}, fmt.Errorf("ticket sequence %d out of range 1-999", seq)
	}
	return ID{Kind: KindTicket, Date: parent.Date, Seq: seq}, nil
}

// NextSequence scans the ticket files in dir for identifiers sharing datePart
// and returns the next unused sequence number. A missing or empty directory
// yields 1.
func NextSequence(dir, datePart string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 1
	}

	re := regexp.MustCompile(`^TKT-` + regexp.QuoteMeta(datePart) + `-(\d{3})`)
	max := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n := atoi3(m[1])
		if n > max {
			max = n
		}
	}
	return max + 1
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return string(b)
}

func atoi3(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
