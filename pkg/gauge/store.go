package gauge

import (
	"hash/fnv"
	"sync"
	"time"
)

// State is the per-conversation gauge record, keyed by "userId:conversationId".
type State struct {
	Intent      string
	Intensity   float64
	LastUpdated time.Time
	LastSwitch  time.Time
}

// Store is the injectable key-value abstraction behind the gauge. Update must
// run fn as a per-key critical section: decay and the switch decision both
// read-then-write the same record, possibly from two in-flight requests in
// the same conversation.
type Store interface {
	// Update applies fn atomically to the state under key. found reports
	// whether the key existed; fn's return value is stored and returned.
	Update(key string, fn func(prev State, found bool) State) State
	// Peek returns the current state without mutating it.
	Peek(key string) (State, bool)
	// Reset drops all state. Intended for tests.
	Reset()
	// Len returns the number of live keys.
	Len() int
}

const shardCount = 32

// shardedStore is the default Store: a fixed shard array with one mutex per
// shard, so concurrent conversations contend only when they hash together.
// A single global lock would serialize every chat request in the process.
type shardedStore struct {
	shards [shardCount]storeShard
}

type storeShard struct {
	mu sync.Mutex
	m  map[string]State
}

// NewStore returns an empty in-memory sharded store.
func NewStore() Store {
	s := &shardedStore{}
	for i := range s.shards {
		s.shards[i].m = make(map[string]State)
	}
	return s
}

func (s *shardedStore) shard(key string) *storeShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &s.shards[h.Sum32()%shardCount]
}

func (s *shardedStore) Update(key string, fn func(prev State, found bool) State) State {
	sh := s.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	prev, found := sh.m[key]
	next := fn(prev, found)
	sh.m[key] = next
	return next
}

func (s *shardedStore) Peek(key string) (State, bool) {
	sh := s.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	st, ok := sh.m[key]
	return st, ok
}

func (s *shardedStore) Reset() {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		sh.m = make(map[string]State)
		sh.mu.Unlock()
	}
}

func (s *shardedStore) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += len(sh.m)
		sh.mu.Unlock()
	}
	return n
}

// SweepIdle evicts entries whose LastUpdated is older than maxIdle. Gauge
// state is ephemeral; eviction costs a conversation its accumulated
// confidence, never correctness.
func SweepIdle(s Store, maxIdle time.Duration, now time.Time) int {
	ss, ok := s.(*shardedStore)
	if !ok {
		return 0
	}
	evicted := 0
	cutoff := now.Add(-maxIdle)
	for i := range ss.shards {
		sh := &ss.shards[i]
		sh.mu.Lock()
		for key, st := range sh.m {
			if st.LastUpdated.Before(cutoff) {
				delete(sh.m, key)
				evicted++
			}
		}
		sh.mu.Unlock()
	}
	return evicted
}
