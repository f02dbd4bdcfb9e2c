package credstore

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/muurk/wifid/internal/wifierr"
)

// memPersist is an in-memory Persistence for tests. It can be primed
// with load data and forced to fail.
type memPersist struct {
	loaded   []Credential
	loadErr  error
	saved    [][]Credential
	saveErr  error
	saveSeen int
}

func (m *memPersist) Load() ([]Credential, error) {
	return m.loaded, m.loadErr
}

func (m *memPersist) Save(creds []Credential) error {
	m.saveSeen++
	cp := make([]Credential, len(creds))
	for i := range creds {
		cp[i] = creds[i].Clone()
	}
	m.saved = append(m.saved, cp)
	return m.saveErr
}

func newTestStore(t *testing.T, capacity int) *Store {
	t.Helper()
	s := NewStore(capacity, nil)
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return s
}

func mustCount(t *testing.T, s *Store) int {
	t.Helper()
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	return n
}

func credAt(ssid string, unix int64) Credential {
	c := NewCredential(ssid, "passphrase1")
	c.Timestamp = time.Unix(unix, 0)
	return c
}

// TestOperationsBeforeInitialize tests the invalid-state guard
func TestOperationsBeforeInitialize(t *testing.T) {
	s := NewStore(5, nil)

	tests := []struct {
		name string
		op   func() error
	}{
		{"AddOrUpdate", func() error { return s.AddOrUpdate(NewCredential("a", "")) }},
		{"Lookup", func() error { _, err := s.Lookup("a"); return err }},
		{"TouchSuccess", func() error { _, err := s.TouchSuccess("a", -50); return err }},
		{"Remove", func() error { return s.Remove("a") }},
		{"ListSSIDs", func() error { _, err := s.ListSSIDs(); return err }},
		{"ClearAll", func() error { return s.ClearAll() }},
		{"Count", func() error { _, err := s.Count(); return err }},
		{"ExportSnapshot", func() error { _, err := s.ExportSnapshot(); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !wifierr.IsInvalidState(err) {
				t.Errorf("%s before Initialize = %v, want invalid state", tt.name, err)
			}
		})
	}
}

// TestInitializeIdempotent tests that repeated initialization is safe
func TestInitializeIdempotent(t *testing.T) {
	persist := &memPersist{loaded: []Credential{credAt("home", 100)}}
	s := NewStore(5, persist)

	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatalf("second Initialize() error = %v", err)
	}
	if got := mustCount(t, s); got != 1 {
		t.Errorf("Count() = %d, want 1 (no double-load)", got)
	}
}

// TestInitializeLoadFailureStartsEmpty tests that a load failure does
// not fail initialization
func TestInitializeLoadFailureStartsEmpty(t *testing.T) {
	persist := &memPersist{loadErr: errors.New("flash corrupt")}
	s := NewStore(5, persist)

	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize() should tolerate load failure, got %v", err)
	}
	if got := mustCount(t, s); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}

	// Store is usable afterwards.
	if err := s.AddOrUpdate(NewCredential("home", "passphrase1")); err != nil {
		t.Errorf("AddOrUpdate() after failed load = %v, want nil", err)
	}
}

// TestAddOrUpdateValidatesFirst tests that invalid credentials cause no
// mutation
func TestAddOrUpdateValidatesFirst(t *testing.T) {
	s := newTestStore(t, 5)

	tests := []struct {
		name string
		cred Credential
	}{
		{"empty ssid", NewCredential("", "passphrase1")},
		{"long ssid", NewCredential(strings.Repeat("s", 33), "passphrase1")},
		{"short password", NewCredential("net", "short")},
		{"static without addresses", func() Credential {
			c := NewCredential("net", "passphrase1")
			c.UseStatic = true
			return c
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.AddOrUpdate(tt.cred)
			if !wifierr.IsInvalidParameter(err) {
				t.Errorf("AddOrUpdate() = %v, want invalid parameter", err)
			}
			if got := mustCount(t, s); got != 0 {
				t.Errorf("Count() = %d after rejected insert, want 0", got)
			}
		})
	}
}

// TestEvictionKeepsCapacity tests the §bounded-cache property: capacity+1
// distinct SSIDs leave exactly capacity entries, evicting the smallest
// timestamp
func TestEvictionKeepsCapacity(t *testing.T) {
	const capacity = 3
	s := newTestStore(t, capacity)

	// Timestamps deliberately out of insertion order; "net-20" is the
	// least recently successful at eviction time.
	stamps := map[string]int64{"net-50": 50, "net-20": 20, "net-80": 80}
	for ssid, unix := range stamps {
		if err := s.AddOrUpdate(credAt(ssid, unix)); err != nil {
			t.Fatalf("AddOrUpdate(%s) error = %v", ssid, err)
		}
	}

	if err := s.AddOrUpdate(credAt("net-60", 60)); err != nil {
		t.Fatalf("AddOrUpdate(net-60) error = %v", err)
	}

	if got := mustCount(t, s); got != capacity {
		t.Fatalf("Count() = %d, want %d", got, capacity)
	}
	if _, err := s.Lookup("net-20"); !wifierr.IsNotFound(err) {
		t.Errorf("Lookup(net-20) = %v, want not found (evicted)", err)
	}
	for _, keep := range []string{"net-50", "net-80", "net-60"} {
		if _, err := s.Lookup(keep); err != nil {
			t.Errorf("Lookup(%s) = %v, want kept", keep, err)
		}
	}
}

// TestEvictionTieBreak tests that equal timestamps evict the earliest
// inserted entry
func TestEvictionTieBreak(t *testing.T) {
	s := newTestStore(t, 2)

	if err := s.AddOrUpdate(credAt("first", 10)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddOrUpdate(credAt("second", 10)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddOrUpdate(credAt("third", 30)); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Lookup("first"); !wifierr.IsNotFound(err) {
		t.Errorf("tie-break should evict the earliest inserted entry, Lookup(first) = %v", err)
	}
	if _, err := s.Lookup("second"); err != nil {
		t.Errorf("Lookup(second) = %v, want kept", err)
	}
}

// TestUpdateExistingNeverChangesSize tests in-place replacement
func TestUpdateExistingNeverChangesSize(t *testing.T) {
	s := newTestStore(t, 3)

	if err := s.AddOrUpdate(credAt("home", 100)); err != nil {
		t.Fatal(err)
	}

	// Replace with caller-supplied stats; they are kept verbatim.
	updated := credAt("home", 5)
	updated.ConnectionCount = 42
	if err := s.AddOrUpdate(updated); err != nil {
		t.Fatal(err)
	}

	if got := mustCount(t, s); got != 1 {
		t.Errorf("Count() = %d after update, want 1", got)
	}

	got, err := s.Lookup("home")
	if err != nil {
		t.Fatal(err)
	}
	if got.ConnectionCount != 42 || got.Timestamp.Unix() != 5 {
		t.Errorf("update should keep caller-supplied stats verbatim, got count=%d ts=%d",
			got.ConnectionCount, got.Timestamp.Unix())
	}
}

// TestLookupReturnsCopy tests that mutating a returned credential does
// not affect the store
func TestLookupReturnsCopy(t *testing.T) {
	s := newTestStore(t, 3)
	if err := s.AddOrUpdate(NewCredential("home", "passphrase1")); err != nil {
		t.Fatal(err)
	}

	got, err := s.Lookup("home")
	if err != nil {
		t.Fatal(err)
	}
	got.Password.Wipe()
	got.ConnectionCount = 99

	again, err := s.Lookup("home")
	if err != nil {
		t.Fatal(err)
	}
	if again.Password.Reveal() != "passphrase1" {
		t.Error("wiping a returned copy must not affect the stored secret")
	}
	if again.ConnectionCount != 0 {
		t.Error("mutating a returned copy must not affect stored stats")
	}
}

// TestTouchSuccess tests the dedicated bump-recency path
func TestTouchSuccess(t *testing.T) {
	s := newTestStore(t, 3)
	s.now = func() time.Time { return time.Unix(5000, 0) }

	if err := s.AddOrUpdate(credAt("home", 100)); err != nil {
		t.Fatal(err)
	}

	cred, err := s.TouchSuccess("home", -42)
	if err != nil {
		t.Fatalf("TouchSuccess() error = %v", err)
	}
	if cred.ConnectionCount != 1 {
		t.Errorf("ConnectionCount = %d, want 1", cred.ConnectionCount)
	}
	if cred.Timestamp.Unix() != 5000 {
		t.Errorf("Timestamp = %d, want 5000", cred.Timestamp.Unix())
	}
	if cred.LastSignal != -42 {
		t.Errorf("LastSignal = %d, want -42", cred.LastSignal)
	}

	if _, err := s.TouchSuccess("absent", -42); !wifierr.IsNotFound(err) {
		t.Errorf("TouchSuccess(absent) = %v, want not found", err)
	}
}

// TestRemoveMissing tests the not-found contract and that the store is
// unchanged
func TestRemoveMissing(t *testing.T) {
	s := newTestStore(t, 3)
	if err := s.AddOrUpdate(NewCredential("home", "passphrase1")); err != nil {
		t.Fatal(err)
	}

	err := s.Remove("absent")
	if !wifierr.IsNotFound(err) {
		t.Errorf("Remove(absent) = %v, want not found", err)
	}
	if got := mustCount(t, s); got != 1 {
		t.Errorf("Count() = %d after failed remove, want 1", got)
	}

	if err := s.Remove("home"); err != nil {
		t.Errorf("Remove(home) = %v, want nil", err)
	}
	if got := mustCount(t, s); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
}

// TestListSSIDsOrder tests MRU-first ordering (timestamps 10, 30, 20
// return as 30, 20, 10)
func TestListSSIDsOrder(t *testing.T) {
	s := newTestStore(t, 5)

	for _, c := range []Credential{
		credAt("net-10", 10),
		credAt("net-30", 30),
		credAt("net-20", 20),
	} {
		if err := s.AddOrUpdate(c); err != nil {
			t.Fatal(err)
		}
	}

	ssids, err := s.ListSSIDs()
	if err != nil {
		t.Fatalf("ListSSIDs() error = %v", err)
	}

	want := []string{"net-30", "net-20", "net-10"}
	if len(ssids) != len(want) {
		t.Fatalf("ListSSIDs() returned %d entries, want %d", len(ssids), len(want))
	}
	for i := range want {
		if ssids[i] != want[i] {
			t.Errorf("ListSSIDs()[%d] = %q, want %q", i, ssids[i], want[i])
		}
	}
}

// TestClearAllIdempotent tests clearing, including on an empty store
func TestClearAllIdempotent(t *testing.T) {
	s := newTestStore(t, 3)
	if err := s.AddOrUpdate(NewCredential("home", "passphrase1")); err != nil {
		t.Fatal(err)
	}

	if err := s.ClearAll(); err != nil {
		t.Errorf("ClearAll() = %v, want nil", err)
	}
	if got := mustCount(t, s); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
	if err := s.ClearAll(); err != nil {
		t.Errorf("second ClearAll() = %v, want nil", err)
	}
}

// TestPersistenceFailureKeepsMutation tests the availability-over-durability
// trade-off
func TestPersistenceFailureKeepsMutation(t *testing.T) {
	persist := &memPersist{saveErr: errors.New("flash write failed")}
	s := NewStore(3, persist)
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}

	err := s.AddOrUpdate(NewCredential("home", "passphrase1"))
	if !wifierr.IsStoreFailed(err) {
		t.Fatalf("AddOrUpdate() with failing persistence = %v, want store failed", err)
	}

	// The in-memory mutation is kept.
	if _, lerr := s.Lookup("home"); lerr != nil {
		t.Errorf("Lookup() after failed persist = %v, want credential present", lerr)
	}
}

// TestSavedSetNeverContainsWipedSecrets tests what reaches the
// persistence collaborator
func TestSavedSetNeverContainsWipedSecrets(t *testing.T) {
	persist := &memPersist{}
	s := NewStore(3, persist)
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}

	if err := s.AddOrUpdate(NewCredential("home", "passphrase1")); err != nil {
		t.Fatal(err)
	}
	if persist.saveSeen != 1 {
		t.Fatalf("Save called %d times, want 1", persist.saveSeen)
	}
	saved := persist.saved[0]
	if len(saved) != 1 || saved[0].Password.Reveal() != "passphrase1" {
		t.Error("persistence should receive the live secret")
	}
}

// TestConcurrentAccess exercises the store from multiple goroutines;
// run with -race
func TestConcurrentAccess(t *testing.T) {
	s := newTestStore(t, 8)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = s.AddOrUpdate(credAt(fmt.Sprintf("net-%d", i%10), int64(i)))
		}
	}()

	for i := 0; i < 100; i++ {
		_, _ = s.Lookup(fmt.Sprintf("net-%d", i%10))
		_, _ = s.ListSSIDs()
		_, _ = s.Count()
	}
	<-done
}

// TestCapacityClamp tests that a capacity below 1 is clamped
func TestCapacityClamp(t *testing.T) {
	s := NewStore(0, nil)
	if got := s.Capacity(); got != 1 {
		t.Errorf("Capacity() = %d, want 1", got)
	}
}
