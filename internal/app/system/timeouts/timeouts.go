// Package timeouts provides the deadline tiers handlers use with
// context.WithTimeout for database work.
//
// Tiers:
//   - Ping: connectivity checks
//   - Short: single-document reads
//   - Medium: list queries and simple writes
//   - Long: cascading writes across collections
package timeouts

import (
	"sync/atomic"
	"time"
)

type tier struct {
	v atomic.Int64
}

func newTier(d time.Duration) *tier {
	t := &tier{}
	t.v.Store(int64(d))
	return t
}

func (t *tier) get() time.Duration { return time.Duration(t.v.Load()) }

var (
	ping   = newTier(2 * time.Second)
	short  = newTier(5 * time.Second)
	medium = newTier(10 * time.Second)
	long   = newTier(30 * time.Second)
)

// Ping returns the deadline for connectivity checks.
func Ping() time.Duration { return ping.get() }

// Short returns the deadline for single-document reads, such as get by
// ID or resolving a session user.
func Short() time.Duration { return short.get() }

// Medium returns the deadline for list queries and simple writes, such
// as task lists or a notification page.
func Medium() time.Duration { return medium.get() }

// Long returns the deadline for operations spanning collections, such
// as a project delete with its cascade.
func Long() time.Duration { return long.get() }

// Configure overrides the deadline tiers. Zero values keep the current
// setting. Call during startup, before handlers run.
func Configure(pingD, shortD, mediumD, longD time.Duration) {
	for _, s := range []struct {
		t *tier
		d time.Duration
	}{{ping, pingD}, {short, shortD}, {medium, mediumD}, {long, longD}} {
		if s.d > 0 {
			s.t.v.Store(int64(s.d))
		}
	}
}
