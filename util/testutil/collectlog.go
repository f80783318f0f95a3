package testutil

import (
	"bytes"
	"log"
	"strings"
	"sync"
	"testing"
)

// CollectLog runs fn with the standard logger writing to a buffer and
// returns the logged lines. The lines are also passed to t.Logf.
func CollectLog(t *testing.T, fn func()) []string {
	t.Helper()

	// keep for later restoration
	origOut, origFlags := log.Writer(), log.Flags()
	defer func() {
		log.SetOutput(origOut)
		log.SetFlags(origFlags)
	}()

	w := &lockedBuffer{}
	log.SetOutput(w)
	log.SetFlags(0)

	fn()

	s := strings.TrimRight(w.String(), "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for _, l := range lines {
		t.Logf("log: %s", l)
	}
	return lines
}

// Lines that contain all the substrings.
func FilterLines(lines []string, subs ...string) []string {
	u := []string{}
	for _, l := range lines {
		ok := true
		for _, s := range subs {
			if !strings.Contains(l, s) {
				ok = false
				break
			}
		}
		if ok {
			u = append(u, l)
		}
	}
	return u
}

//----------

// Loggers may be used from other goroutines (reapers, watchers).
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
