package credstore

import (
	"encoding/json"
	"html"

	"github.com/muurk/wifid/internal/wifierr"
)

// snapshotEntry is the exported view of one credential. Exactly these
// four keys, in this order; secrets are never part of a snapshot.
type snapshotEntry struct {
	SSID            string `json:"ssid"`
	UseStatic       bool   `json:"useStatic"`
	Timestamp       uint64 `json:"timestamp"`
	ConnectionCount uint32 `json:"connectionCount"`
}

type snapshot struct {
	Credentials []snapshotEntry `json:"credentials"`
}

// ExportSnapshot produces a serializable view of the store for backup
// and diagnostics. SSIDs are entity-escaped so the output can be
// embedded in a text/HTML context without markup injection.
func (s *Store) ExportSnapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil, errNotInitialized()
	}

	snap := snapshot{Credentials: make([]snapshotEntry, 0, len(s.creds))}
	for i := range s.creds {
		c := &s.creds[i]
		snap.Credentials = append(snap.Credentials, snapshotEntry{
			SSID:            html.EscapeString(c.SSID),
			UseStatic:       c.UseStatic,
			Timestamp:       unixOrZero(c),
			ConnectionCount: c.ConnectionCount,
		})
	}

	out, err := json.Marshal(snap)
	if err != nil {
		return nil, wifierr.Wrap(wifierr.KindStoreFailed,
			"failed to encode credential snapshot", err)
	}
	return out, nil
}

func unixOrZero(c *Credential) uint64 {
	if c.Timestamp.IsZero() {
		return 0
	}
	return uint64(c.Timestamp.Unix())
}
