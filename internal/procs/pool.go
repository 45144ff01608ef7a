package procs

import "sync"

// Pool keeps process handles alive between ticks so per-process CPU can be
// measured over the tick interval. Entries are keyed by PID and validated by
// create time, so a recycled PID gets a fresh handle.
type Pool struct {
	mu         sync.Mutex
	entries    map[int32]*poolEntry
	generation uint64
}

// poolEntry holds a handle and what we cache about its process.
type poolEntry struct {
	handle   Handle
	created  int64
	user     string
	haveUser bool
	lastSeen uint64
}

// NewPool creates an empty handle pool.
func NewPool() *Pool {
	return &Pool{
		entries: make(map[int32]*poolEntry),
	}
}

// Begin starts a new enumeration pass. Entries not acquired before the next
// Sweep are evicted.
func (p *Pool) Begin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
}

// Acquire returns the pooled handle for pid when its create time matches,
// otherwise stores fresh in its place. reused reports which one was returned.
func (p *Pool) Acquire(pid int32, created int64, fresh Handle) (h Handle, reused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if entry, ok := p.entries[pid]; ok && entry.created == created {
		entry.lastSeen = p.generation
		return entry.handle, true
	}

	p.entries[pid] = &poolEntry{
		handle:   fresh,
		created:  created,
		lastSeen: p.generation,
	}
	return fresh, false
}

// User returns the cached owner of pid, if one was stored.
func (p *Pool) User(pid int32) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if entry, ok := p.entries[pid]; ok && entry.haveUser {
		return entry.user, true
	}
	return "", false
}

// SetUser caches the owner of pid.
func (p *Pool) SetUser(pid int32, user string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if entry, ok := p.entries[pid]; ok {
		entry.user = user
		entry.haveUser = true
	}
}

// Sweep evicts every entry not acquired since Begin and returns how many
// were removed.
func (p *Pool) Sweep() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	removed := 0
	for pid, entry := range p.entries {
		if entry.lastSeen != p.generation {
			delete(p.entries, pid)
			removed++
		}
	}
	return removed
}

// Remove drops pid from the pool.
func (p *Pool) Remove(pid int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, pid)
}

func (p *Pool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
