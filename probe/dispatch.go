// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package probe

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// Result is the outcome of a single handshake attempt.  Err is non-nil
// exactly when Outcome is OutcomeFailed.
type Result struct {
	Addr    *net.TCPAddr
	Outcome Outcome
	Err     error
}

// Summary holds the aggregate counts over a batch of handshake attempts.
type Summary struct {
	Success int
	Partial int
	Failed  int
}

// String returns the Summary in human-readable form.
func (s Summary) String() string {
	return fmt.Sprintf("%d OK | %d partially OK | %d failed",
		s.Success, s.Partial, s.Failed)
}

// Run performs a handshake attempt against every target concurrently and
// returns one result per target, in input order.  Every target runs to
// completion or deadline regardless of how its siblings fare; results are
// only visible once all attempts have finished.
func (p *Prober) Run(targets []*net.TCPAddr) []Result {
	results := make([]Result, len(targets))
	var wg sync.WaitGroup
	for i, addr := range targets {
		wg.Add(1)
		go func(i int, addr *net.TCPAddr) {
			defer wg.Done()

			// Each goroutine owns its result slot exclusively, so
			// no synchronization beyond the wait group is needed.
			outcome, err := p.probe(addr)
			results[i] = Result{Addr: addr, Outcome: outcome, Err: err}
		}(i, addr)
	}
	wg.Wait()
	return results
}

// probe dials the target and performs the handshake under a single deadline
// covering both.  When the deadline fires, the pending read or write fails
// with a timeout error which is treated like any other i/o failure.
func (p *Prober) probe(addr *net.TCPAddr) (Outcome, error) {
	log.Debugf("Starting handshake with %s", addr)

	deadline := time.Now().Add(p.cfg.Timeout)
	dial := p.cfg.Dial
	if dial == nil {
		dial = net.DialTimeout
	}
	conn, err := dial("tcp", addr.String(), time.Until(deadline))
	if err != nil {
		return OutcomeFailed, err
	}
	defer conn.Close()
	if err := conn.SetDeadline(deadline); err != nil {
		return OutcomeFailed, err
	}

	return p.Handshake(conn)
}

// Summarize folds per-target results into aggregate counts.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case OutcomeSuccess:
			s.Success++
		case OutcomePartial:
			s.Partial++
		default:
			s.Failed++
		}
	}
	return s
}
