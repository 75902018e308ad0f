// Package pool manages a bounded set of live SSH connections, one per
// catalog host, shared across every MCP tool call for the life of the
// process.
package pool

import (
	"container/list"
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"scout/internal/config"
	"scout/internal/scerr"
)

// entry is the payload stored in the LRU list; list.Element.Value holds
// a *entry.
type entry struct {
	hostName string
	sess     Session
	lastUsed time.Time
}

// Pool is the process-wide connection cache described in spec.md §3–§4.3:
// an insertion-ordered table of at most max_pool_size live connections,
// evicted least-recently-used first, with dialing serialized per host so
// concurrent callers for the same host collapse onto a single connect.
type Pool struct {
	cfg     *config.Config
	catalog *config.Catalog

	metaMu sync.Mutex
	order  *list.List               // front = least recently used, back = most recently used
	index  map[string]*list.Element // hostName -> element

	hostLocksMu sync.Mutex
	hostLocks   map[string]*sync.Mutex

	hostKeyCallback ssh.HostKeyCallback
	systemKey       *systemKey

	// dialFunc performs the actual connect; a field rather than a direct
	// call to defaultDial so tests can substitute a fake and exercise the
	// locking/LRU machinery without real network I/O.
	dialFunc func(config.SSHHost) (Session, error)

	stopReap chan struct{}
	reapWG   sync.WaitGroup
}

// New constructs a Pool bound to catalog and starts its idle reaper. The
// returned Pool must be closed with Shutdown.
func New(cfg *config.Config, catalog *config.Catalog) (*Pool, error) {
	if cfg.MaxPoolSize <= 0 {
		return nil, scerr.New(scerr.KindConfig, "max_pool_size must be positive")
	}

	hostKeyCallback, err := buildHostKeyCallback(cfg)
	if err != nil {
		return nil, err
	}

	p := &Pool{
		cfg:             cfg,
		catalog:         catalog,
		order:           list.New(),
		index:           make(map[string]*list.Element),
		hostLocks:       make(map[string]*sync.Mutex),
		hostKeyCallback: hostKeyCallback,
		systemKey:       newSystemKey(""),
		stopReap:        make(chan struct{}),
	}
	p.dialFunc = p.defaultDial

	p.reapWG.Add(1)
	go p.reapLoop()

	return p, nil
}

func (p *Pool) hostLock(hostName string) *sync.Mutex {
	p.hostLocksMu.Lock()
	defer p.hostLocksMu.Unlock()
	l, ok := p.hostLocks[hostName]
	if !ok {
		l = &sync.Mutex{}
		p.hostLocks[hostName] = l
	}
	return l
}

// lookupLocked returns the live session cached for hostName, evicting and
// discarding a stale (closed) entry found along the way. Must be called
// with metaMu held.
func (p *Pool) lookupLocked(hostName string) Session {
	el, ok := p.index[hostName]
	if !ok {
		return nil
	}
	e := el.Value.(*entry)
	if !e.sess.IsOpen() {
		p.order.Remove(el)
		delete(p.index, hostName)
		return nil
	}
	p.order.MoveToBack(el)
	e.lastUsed = time.Now()
	return e.sess
}

// Acquire returns the pooled session for hostName, dialing a new
// connection if none is cached or the cached one has gone stale. Per
// spec.md §4.3: a fast path reuses an existing connection without ever
// taking the per-host lock; only the dial itself is serialized per host,
// and the meta-lock is held only for the lookups and the final
// registration step, never across the dial.
func (p *Pool) Acquire(ctx context.Context, hostName string) (Session, error) {
	p.metaMu.Lock()
	sess := p.lookupLocked(hostName)
	p.metaMu.Unlock()
	if sess != nil {
		return sess, nil
	}

	lock := p.hostLock(hostName)
	lock.Lock()
	defer lock.Unlock()

	p.metaMu.Lock()
	sess = p.lookupLocked(hostName)
	p.metaMu.Unlock()
	if sess != nil {
		return sess, nil
	}

	host, ok := p.catalog.Host(hostName)
	if !ok {
		return nil, scerr.New(scerr.KindValidation, "unknown host: "+hostName)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	newSess, err := p.dialFunc(host)
	if err != nil {
		return nil, err
	}

	var evicted Session
	p.metaMu.Lock()
	if p.order.Len() >= p.cfg.MaxPoolSize {
		if front := p.order.Front(); front != nil {
			victim := front.Value.(*entry)
			p.order.Remove(front)
			delete(p.index, victim.hostName)
			evicted = victim.sess
			log.Printf("[pool] evicted %s (lru, max_pool_size=%d)", victim.hostName, p.cfg.MaxPoolSize)
		}
	}
	el := p.order.PushBack(&entry{hostName: hostName, sess: newSess, lastUsed: time.Now()})
	p.index[hostName] = el
	p.metaMu.Unlock()

	if evicted != nil {
		evicted.Close()
	}

	return newSess, nil
}

// Invalidate drops and closes the cached connection for hostName, if any.
// Used by the retry wrapper when an executor's call fails with a
// transport-level error, and by callers that observe a session has gone
// bad out of band.
func (p *Pool) Invalidate(hostName string) {
	p.metaMu.Lock()
	el, ok := p.index[hostName]
	var victim Session
	if ok {
		victim = el.Value.(*entry).sess
		p.order.Remove(el)
		delete(p.index, hostName)
	}
	p.metaMu.Unlock()

	if victim != nil {
		victim.Close()
	}
}

// reapLoop closes connections idle longer than idle_timeout, ticking at
// half that interval so no connection outlives its budget by more than
// one tick (half of idle_timeout), per spec.md §4.3.
func (p *Pool) reapLoop() {
	defer p.reapWG.Done()

	interval := p.cfg.IdleTimeout / 2
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopReap:
			return
		case <-ticker.C:
			p.reapOnce()
		}
	}
}

func (p *Pool) reapOnce() {
	now := time.Now()
	var victims []Session

	p.metaMu.Lock()
	for el := p.order.Front(); el != nil; {
		next := el.Next()
		e := el.Value.(*entry)
		if !e.sess.IsOpen() || now.Sub(e.lastUsed) > p.cfg.IdleTimeout {
			p.order.Remove(el)
			delete(p.index, e.hostName)
			victims = append(victims, e.sess)
			log.Printf("[pool] reaped idle connection to %s", e.hostName)
		}
		el = next
	}
	p.metaMu.Unlock()

	for _, v := range victims {
		v.Close()
	}
}

// Shutdown stops the idle reaper and closes every pooled connection.
func (p *Pool) Shutdown() {
	close(p.stopReap)
	p.reapWG.Wait()

	p.metaMu.Lock()
	var victims []Session
	for el := p.order.Front(); el != nil; el = el.Next() {
		victims = append(victims, el.Value.(*entry).sess)
	}
	p.order.Init()
	p.index = make(map[string]*list.Element)
	p.metaMu.Unlock()

	for _, v := range victims {
		v.Close()
	}
}

// Len reports the number of live pooled connections, for tests and
// diagnostics.
func (p *Pool) Len() int {
	p.metaMu.Lock()
	defer p.metaMu.Unlock()
	return p.order.Len()
}
