package credstore

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// TestExportSnapshotNeverContainsSecrets tests that no password
// material reaches the snapshot
func TestExportSnapshotNeverContainsSecrets(t *testing.T) {
	s := newTestStore(t, 5)
	if err := s.AddOrUpdate(NewCredential("home", "hunter2hunter2")); err != nil {
		t.Fatal(err)
	}

	out, err := s.ExportSnapshot()
	if err != nil {
		t.Fatalf("ExportSnapshot() error = %v", err)
	}
	if strings.Contains(string(out), "hunter2") {
		t.Fatalf("snapshot contains password material: %s", out)
	}
	if strings.Contains(string(out), "password") {
		t.Fatalf("snapshot contains a password key: %s", out)
	}
}

// TestExportSnapshotShape tests the exact entry keys and values
func TestExportSnapshotShape(t *testing.T) {
	s := newTestStore(t, 5)

	c := NewCredential("home", "passphrase1")
	c.UseStatic = true
	c.StaticIP = "192.168.1.50"
	c.Gateway = "192.168.1.1"
	c.Subnet = "255.255.255.0"
	c.Timestamp = time.Unix(1700000000, 0)
	c.ConnectionCount = 3
	if err := s.AddOrUpdate(c); err != nil {
		t.Fatal(err)
	}

	out, err := s.ExportSnapshot()
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Credentials []map[string]interface{} `json:"credentials"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if len(decoded.Credentials) != 1 {
		t.Fatalf("snapshot has %d entries, want 1", len(decoded.Credentials))
	}

	entry := decoded.Credentials[0]
	if len(entry) != 4 {
		t.Errorf("entry has %d keys, want exactly 4: %v", len(entry), entry)
	}
	if entry["ssid"] != "home" {
		t.Errorf("ssid = %v, want home", entry["ssid"])
	}
	if entry["useStatic"] != true {
		t.Errorf("useStatic = %v, want true", entry["useStatic"])
	}
	if entry["timestamp"] != float64(1700000000) {
		t.Errorf("timestamp = %v, want 1700000000", entry["timestamp"])
	}
	if entry["connectionCount"] != float64(3) {
		t.Errorf("connectionCount = %v, want 3", entry["connectionCount"])
	}
}

// TestExportSnapshotEscapesSSIDs tests entity escaping of hostile SSIDs
func TestExportSnapshotEscapesSSIDs(t *testing.T) {
	s := newTestStore(t, 5)
	hostile := `My<Net>&"x"`
	if err := s.AddOrUpdate(NewCredential(hostile, "passphrase1")); err != nil {
		t.Fatal(err)
	}

	out, err := s.ExportSnapshot()
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Credentials []struct {
			SSID string `json:"ssid"`
		} `json:"credentials"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	got := decoded.Credentials[0].SSID
	if strings.ContainsAny(got, "<>\"&") && !strings.Contains(got, "&lt;") {
		t.Errorf("SSID not escaped: %q", got)
	}
	want := "My&lt;Net&gt;&amp;&#34;x&#34;"
	if got != want {
		t.Errorf("escaped SSID = %q, want %q", got, want)
	}
}

// TestExportSnapshotZeroTimestamp tests that a never-connected
// credential exports timestamp 0
func TestExportSnapshotZeroTimestamp(t *testing.T) {
	s := newTestStore(t, 5)
	c := NewCredential("fresh", "passphrase1")
	c.Timestamp = time.Time{}
	if err := s.AddOrUpdate(c); err != nil {
		t.Fatal(err)
	}

	out, err := s.ExportSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Credentials []struct {
			Timestamp uint64 `json:"timestamp"`
		} `json:"credentials"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Credentials[0].Timestamp != 0 {
		t.Errorf("timestamp = %d, want 0", decoded.Credentials[0].Timestamp)
	}
}
