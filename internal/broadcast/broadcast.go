// Package broadcast fans a single operation out across every host named
// in a target list, running one worker per target and collecting the
// results in input order, per spec.md §4.5.
package broadcast

import (
	"context"
	"sync"
	"time"

	"scout/internal/pool"
	"scout/internal/target"
)

// Result is one target's outcome from a fan-out call.
type Result struct {
	Target    string
	HostName  string
	OK        bool
	Payload   string
	Error     string
	ElapsedMs int64
}

// Op is the per-target unit of work: given the session and the path
// parsed off that target's own address, return a human-readable
// payload. A failing Op never aborts its siblings — each worker is
// isolated from the others.
type Op func(ctx context.Context, sess pool.Session, path string) (string, error)

// Run parses each raw target, resolves its host through p, and runs op
// against it concurrently with every other target. No goroutine pool or
// implicit concurrency cap is applied beyond whatever max_pool_size
// already enforces on dialing — spec.md §4.5 calls this out explicitly,
// since the targets are typically a handful of catalog hosts, not
// thousands. The returned slice preserves the order targets were given
// in, regardless of which worker finishes first.
func Run(ctx context.Context, p *pool.Pool, targets []string, op Op) []Result {
	results := make([]Result, len(targets))

	var wg sync.WaitGroup
	wg.Add(len(targets))
	for i, raw := range targets {
		go func(i int, raw string) {
			defer wg.Done()
			results[i] = runOne(ctx, p, raw, op)
		}(i, raw)
	}
	wg.Wait()

	return results
}

func runOne(ctx context.Context, p *pool.Pool, raw string, op Op) Result {
	start := time.Now()
	res := Result{Target: raw}

	t, err := target.RequireHost(raw)
	if err != nil {
		res.Error = err.Error()
		res.ElapsedMs = time.Since(start).Milliseconds()
		return res
	}
	res.HostName = t.Host

	payload, err := pool.WithSession(ctx, p, t.Host, func(sess pool.Session) (string, error) {
		return op(ctx, sess, t.Path)
	})
	res.ElapsedMs = time.Since(start).Milliseconds()
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.OK = true
	res.Payload = payload
	return res
}
