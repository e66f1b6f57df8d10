package memory

import (
	"hash/maphash"
	"sync"

	"github.com/houshuang/alif/pkg/lemma"
)

// LockTable partitions per-lemma write locks across a fixed number of
// shards, each guarded by its own sync.Mutex. This generalizes the
// teacher's session.Manager (a single sync.RWMutex guarding one
// map[string]*Session) to many independent mutexes so that writes to
// distinct lemmas may proceed in parallel while no two concurrent updates
// on the same lemma ever race.
type LockTable struct {
	shards []sync.Mutex
	seed   maphash.Seed
}

// DefaultShardCount is a deliberate setpoint, documented as tunable: large
// enough that two hot lemmas rarely collide, small enough to keep the
// table cheap to allocate per process.
const DefaultShardCount = 256

// NewLockTable creates a LockTable with n shards. n<=0 uses DefaultShardCount.
func NewLockTable(n int) *LockTable {
	if n <= 0 {
		n = DefaultShardCount
	}
	return &LockTable{shards: make([]sync.Mutex, n), seed: maphash.MakeSeed()}
}

func (t *LockTable) shardFor(id lemma.ID) *sync.Mutex {
	var h maphash.Hash
	h.SetSeed(t.seed)
	var buf [8]byte
	v := uint64(id)
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
	return &t.shards[h.Sum64()%uint64(len(t.shards))]
}

// Lock acquires the shard guarding id. The caller must call the returned
// unlock function exactly once.
func (t *LockTable) Lock(id lemma.ID) (unlock func()) {
	m := t.shardFor(id)
	m.Lock()
	return m.Unlock
}

// WithLock runs fn while holding id's shard.
func (t *LockTable) WithLock(id lemma.ID, fn func()) {
	unlock := t.Lock(id)
	defer unlock()
	fn()
}
