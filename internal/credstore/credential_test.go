package credstore

import (
	"strings"
	"testing"

	"github.com/muurk/wifid/internal/wifierr"
)

// TestCredentialValidate tests validation boundaries
func TestCredentialValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Credential)
		wantErr bool
	}{
		{"valid", func(c *Credential) {}, false},
		{"open network", func(c *Credential) { c.Password = nil }, false},
		{"empty ssid", func(c *Credential) { c.SSID = "" }, true},
		{"ssid at limit", func(c *Credential) { c.SSID = strings.Repeat("s", 32) }, false},
		{"ssid over limit", func(c *Credential) { c.SSID = strings.Repeat("s", 33) }, true},
		{"password at min", func(c *Credential) { c.Password = NewSecret("12345678") }, false},
		{"password below min", func(c *Credential) { c.Password = NewSecret("1234567") }, true},
		{"password at max", func(c *Credential) { c.Password = NewSecret(strings.Repeat("p", 63)) }, false},
		{"password over max", func(c *Credential) { c.Password = NewSecret(strings.Repeat("p", 64)) }, true},
		{"static complete", func(c *Credential) {
			c.UseStatic = true
			c.StaticIP = "192.168.1.50"
			c.Gateway = "192.168.1.1"
			c.Subnet = "255.255.255.0"
		}, false},
		{"static missing gateway", func(c *Credential) {
			c.UseStatic = true
			c.StaticIP = "192.168.1.50"
			c.Subnet = "255.255.255.0"
		}, true},
		{"static bad address", func(c *Credential) {
			c.UseStatic = true
			c.StaticIP = "not-an-ip"
			c.Gateway = "192.168.1.1"
			c.Subnet = "255.255.255.0"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCredential("home", "passphrase1")
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr && !wifierr.IsInvalidParameter(err) {
				t.Errorf("Validate() = %v, want invalid parameter", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

// TestSecretMasking tests that secrets never leak via String
func TestSecretMasking(t *testing.T) {
	s := NewSecret("topsecret")
	if got := s.String(); strings.Contains(got, "topsecret") {
		t.Errorf("String() = %q leaks the secret", got)
	}
	if got := s.Reveal(); got != "topsecret" {
		t.Errorf("Reveal() = %q, want topsecret", got)
	}
}

// TestSecretWipe tests that Wipe zeroes the buffer
func TestSecretWipe(t *testing.T) {
	s := NewSecret("topsecret")
	s.Wipe()
	for i, b := range s {
		if b != 0 {
			t.Fatalf("byte %d = %#x after Wipe, want 0", i, b)
		}
	}
}

// TestCredentialCloneIndependence tests that a clone has its own secret
// buffer
func TestCredentialCloneIndependence(t *testing.T) {
	orig := NewCredential("home", "passphrase1")
	clone := orig.Clone()

	clone.Password.Wipe()
	if orig.Password.Reveal() != "passphrase1" {
		t.Error("wiping a clone must not affect the original secret")
	}
}

// TestCredentialWipe tests full-credential wiping
func TestCredentialWipe(t *testing.T) {
	c := NewCredential("home", "passphrase1")
	c.Wipe()
	for _, b := range c.Password {
		if b != 0 {
			t.Fatal("password bytes survived Wipe")
		}
	}
}

// TestHasBSSID tests the zero-value check
func TestHasBSSID(t *testing.T) {
	c := NewCredential("home", "passphrase1")
	if c.HasBSSID() {
		t.Error("fresh credential should have no BSSID")
	}
	c.BSSID = [6]byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}
	if !c.HasBSSID() {
		t.Error("HasBSSID() = false with BSSID set")
	}
}
