package credstore

import (
	"net"
	"time"

	"github.com/muurk/wifid/internal/validate"
	"github.com/muurk/wifid/internal/wifierr"
)

// Secret holds a network passphrase in a wipeable buffer. The store
// zeroes secrets before releasing any copy it owns; callers holding
// transient copies are expected to call Wipe promptly after use.
type Secret []byte

// NewSecret copies the passphrase into a fresh buffer.
func NewSecret(passphrase string) Secret {
	if passphrase == "" {
		return nil
	}
	s := make(Secret, len(passphrase))
	copy(s, passphrase)
	return s
}

// String masks the secret so accidental %v formatting never leaks it.
func (s Secret) String() string {
	if len(s) == 0 {
		return ""
	}
	return "[redacted]"
}

// Reveal returns the passphrase for handing to the radio capability.
func (s Secret) Reveal() string {
	return string(s)
}

// Len returns the passphrase length in bytes.
func (s Secret) Len() int {
	return len(s)
}

// Clone returns an independent copy of the secret.
func (s Secret) Clone() Secret {
	if len(s) == 0 {
		return nil
	}
	out := make(Secret, len(s))
	copy(out, s)
	return out
}

// Wipe zeroes the underlying buffer.
func (s Secret) Wipe() {
	for i := range s {
		s[i] = 0
	}
}

// Credential is one stored network identity: the SSID key, its secret,
// optional static addressing, and usage metadata maintained by the
// store.
type Credential struct {
	SSID     string
	Password Secret

	// BSSID optionally pins a specific access point. All-zero means
	// unset.
	BSSID [6]byte

	// Static addressing, used only when UseStatic is set.
	UseStatic bool
	StaticIP  string
	Gateway   string
	Subnet    string
	DNS1      string
	DNS2      string

	// Timestamp is the last successful use. Eviction removes the entry
	// with the smallest Timestamp.
	Timestamp time.Time

	// ConnectionCount is monotonic; it never decreases for a live entry.
	ConnectionCount uint32

	// LastSignal is the signal strength (dBm) observed on the last
	// successful use. Diagnostics only.
	LastSignal int32
}

// NewCredential builds a credential for the given network.
func NewCredential(ssid, passphrase string) Credential {
	return Credential{
		SSID:       ssid,
		Password:   NewSecret(passphrase),
		LastSignal: -120,
	}
}

// Validate checks the credential against the wireless parameter rules.
func (c *Credential) Validate() error {
	if err := validate.SSID(c.SSID); err != nil {
		return err
	}
	if err := validate.Password(c.Password.Reveal()); err != nil {
		return err
	}
	if c.UseStatic {
		for _, f := range []struct{ name, value string }{
			{"static IP", c.StaticIP},
			{"gateway", c.Gateway},
			{"subnet mask", c.Subnet},
		} {
			if f.value == "" {
				return wifierr.Newf(wifierr.KindInvalidParameter,
					"%s is required when static addressing is set", f.name)
			}
			if net.ParseIP(f.value) == nil {
				return wifierr.Newf(wifierr.KindInvalidParameter,
					"%s is not a valid IP address: %q", f.name, f.value)
			}
		}
	}
	return nil
}

// Clone returns a deep copy, including an independent secret buffer.
// The store hands out clones only, so concurrent mutation can never
// tear a caller's view.
func (c *Credential) Clone() Credential {
	out := *c
	out.Password = c.Password.Clone()
	return out
}

// Wipe zeroes the secret buffer. Called by the store on removal,
// eviction and clearAll.
func (c *Credential) Wipe() {
	c.Password.Wipe()
}

// HasBSSID reports whether the credential pins a specific access point.
func (c *Credential) HasBSSID() bool {
	return c.BSSID != [6]byte{}
}
