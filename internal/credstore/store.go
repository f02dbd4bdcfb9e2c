package credstore

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/wifid/internal/logging"
	"github.com/muurk/wifid/internal/wifierr"
)

// DefaultCapacity is the credential bound used when none is configured.
const DefaultCapacity = 10

// Persistence is the storage collaborator. The store does not interpret
// the medium; implementations may back onto a file, flash, or anything
// else.
type Persistence interface {
	Load() ([]Credential, error)
	Save([]Credential) error
}

// Store is a bounded, thread-safe cache of network credentials keyed by
// SSID. When full, the entry with the smallest Timestamp (least
// recently successful) is evicted; among equal timestamps the earliest
// inserted entry goes first.
//
// Persistence is best-effort: a failed Save is reported to the caller
// but the in-memory mutation is kept, favoring availability of the
// in-memory view over strict durability. All operations serialize on a
// single mutex held for the full operation, including the unavoidable
// Save call.
type Store struct {
	mu          sync.Mutex
	creds       []Credential // insertion order
	capacity    int
	initialized bool
	persist     Persistence

	now func() time.Time
}

// NewStore creates a store bounded to capacity entries. A capacity
// below 1 is clamped to 1. The persistence collaborator may be nil, in
// which case the store is memory-only.
func NewStore(capacity int, persist Persistence) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		creds:    make([]Credential, 0, capacity),
		capacity: capacity,
		persist:  persist,
		now:      time.Now,
	}
}

// Initialize loads the persisted credential set. It is idempotent; a
// load failure is logged and the store starts empty rather than
// failing. Every other operation returns KindInvalidState until
// Initialize has succeeded once.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if s.persist != nil {
		loaded, err := s.persist.Load()
		if err != nil {
			logging.Warn("Failed to load persisted credentials, starting empty",
				zap.Error(err))
		} else {
			for _, c := range loaded {
				if err := c.Validate(); err != nil {
					logging.Warn("Dropping invalid persisted credential",
						zap.String("ssid", c.SSID),
						zap.Error(err))
					continue
				}
				if len(s.creds) >= s.capacity {
					s.evictOldestLocked()
				}
				s.creds = append(s.creds, c.Clone())
			}
		}
	}

	s.initialized = true
	logging.Info("Credential store initialized",
		zap.Int("count", len(s.creds)),
		zap.Int("capacity", s.capacity))
	return nil
}

// AddOrUpdate inserts a credential or replaces the entry with the same
// SSID. The credential is validated first; on validation failure
// nothing is mutated. Replacement keeps the caller-supplied stats
// verbatim - callers wanting bump-recency semantics must use
// TouchSuccess. When inserting at capacity, the least recently
// successful entry is evicted first.
func (s *Store) AddOrUpdate(c Credential) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized()
	}

	if i := s.indexLocked(c.SSID); i >= 0 {
		s.creds[i].Wipe()
		s.creds[i] = c.Clone()
		logging.Debug("Updated credential", zap.String("ssid", c.SSID))
	} else {
		if len(s.creds) >= s.capacity {
			s.evictOldestLocked()
		}
		s.creds = append(s.creds, c.Clone())
		logging.Debug("Added credential", zap.String("ssid", c.SSID))
	}

	return s.saveLocked("add_or_update")
}

// Lookup returns a deep copy of the credential for ssid, never a
// reference into the store.
func (s *Store) Lookup(ssid string) (Credential, error) {
	if ssid == "" {
		return Credential{}, wifierr.New(wifierr.KindInvalidParameter, "SSID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return Credential{}, errNotInitialized()
	}

	i := s.indexLocked(ssid)
	if i < 0 {
		return Credential{}, wifierr.Newf(wifierr.KindNotFound,
			"credential not found for SSID: %s", ssid)
	}
	return s.creds[i].Clone(), nil
}

// TouchSuccess is the dedicated bump-recency path: it stamps the entry
// with the current time, increments its connection count, records the
// observed signal strength and persists. The updated credential copy is
// returned; a persistence failure is reported alongside the kept
// in-memory update.
func (s *Store) TouchSuccess(ssid string, signal int32) (Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return Credential{}, errNotInitialized()
	}

	i := s.indexLocked(ssid)
	if i < 0 {
		return Credential{}, wifierr.Newf(wifierr.KindNotFound,
			"credential not found for SSID: %s", ssid)
	}

	s.creds[i].Timestamp = s.now()
	s.creds[i].ConnectionCount++
	s.creds[i].LastSignal = signal

	cred := s.creds[i].Clone()
	return cred, s.saveLocked("touch_success")
}

// Remove deletes the credential for ssid, wiping its secret.
func (s *Store) Remove(ssid string) error {
	if ssid == "" {
		return wifierr.New(wifierr.KindInvalidParameter, "SSID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized()
	}

	i := s.indexLocked(ssid)
	if i < 0 {
		return wifierr.Newf(wifierr.KindNotFound,
			"credential not found for SSID: %s", ssid)
	}

	s.creds[i].Wipe()
	s.creds = append(s.creds[:i], s.creds[i+1:]...)
	logging.Debug("Removed credential", zap.String("ssid", ssid))

	return s.saveLocked("remove")
}

// ListSSIDs returns stored SSIDs ordered most recently used first.
// The ordering is a selection convenience for UIs, not a correctness
// invariant.
func (s *Store) ListSSIDs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil, errNotInitialized()
	}

	idx := make([]int, len(s.creds))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.creds[idx[a]].Timestamp.After(s.creds[idx[b]].Timestamp)
	})

	ssids := make([]string, len(idx))
	for n, i := range idx {
		ssids[n] = s.creds[i].SSID
	}
	return ssids, nil
}

// ClearAll wipes and empties the store, then persists the empty set.
// Clearing an already empty store is a no-op.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized()
	}

	for i := range s.creds {
		s.creds[i].Wipe()
	}
	s.creds = s.creds[:0]
	logging.Info("Cleared all credentials")

	return s.saveLocked("clear_all")
}

// Count returns the number of stored credentials.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return 0, errNotInitialized()
	}
	return len(s.creds), nil
}

// Capacity returns the configured credential bound.
func (s *Store) Capacity() int {
	return s.capacity
}

// indexLocked returns the position of ssid, or -1. Callers hold s.mu.
func (s *Store) indexLocked(ssid string) int {
	for i := range s.creds {
		if s.creds[i].SSID == ssid {
			return i
		}
	}
	return -1
}

// evictOldestLocked removes the entry with the smallest Timestamp.
// Ties break toward the earliest inserted entry: the scan keeps the
// first minimum it sees. Callers hold s.mu.
func (s *Store) evictOldestLocked() {
	if len(s.creds) == 0 {
		return
	}
	oldest := 0
	for i := 1; i < len(s.creds); i++ {
		if s.creds[i].Timestamp.Before(s.creds[oldest].Timestamp) {
			oldest = i
		}
	}
	evicted := s.creds[oldest]
	logging.LogEviction(evicted.SSID, evicted.Timestamp.Unix())
	evicted.Wipe()
	s.creds = append(s.creds[:oldest], s.creds[oldest+1:]...)
}

// saveLocked persists the current set. The in-memory mutation is never
// rolled back on failure. Callers hold s.mu.
func (s *Store) saveLocked(op string) error {
	if s.persist == nil {
		return nil
	}

	snapshot := make([]Credential, len(s.creds))
	for i := range s.creds {
		snapshot[i] = s.creds[i].Clone()
	}

	err := s.persist.Save(snapshot)
	logging.LogPersistence(op, len(snapshot), err)
	for i := range snapshot {
		snapshot[i].Wipe()
	}
	if err != nil {
		return wifierr.Wrap(wifierr.KindStoreFailed,
			"failed to persist credentials (in-memory state kept)", err)
	}
	return nil
}

func errNotInitialized() error {
	return wifierr.New(wifierr.KindInvalidState, "credential store not initialized")
}
