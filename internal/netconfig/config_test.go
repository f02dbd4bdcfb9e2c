package netconfig

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/wifid/internal/wifierr"
)

func validNetwork() NetworkConfig {
	cfg := NewNetworkConfig()
	cfg.SSID = "HomeNetwork"
	cfg.Password = "hunter2hunter2"
	return cfg
}

// TestNetworkConfigValidate tests section-level network validation
func TestNetworkConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NetworkConfig)
		wantErr bool
	}{
		{"Valid: defaults plus ssid", func(c *NetworkConfig) {}, false},
		{"Valid: open network", func(c *NetworkConfig) { c.Password = "" }, false},
		{"Valid: with hostname", func(c *NetworkConfig) { c.Hostname = "living-room" }, false},
		{"Valid: static addressing", func(c *NetworkConfig) {
			c.UseStaticIP = true
			c.StaticIP = "192.168.1.50"
			c.Gateway = "192.168.1.1"
			c.Subnet = "255.255.255.0"
			c.DNS1 = "1.1.1.1"
		}, false},
		{"Invalid: empty ssid", func(c *NetworkConfig) { c.SSID = "" }, true},
		{"Invalid: short password", func(c *NetworkConfig) { c.Password = "short" }, true},
		{"Invalid: bad hostname", func(c *NetworkConfig) { c.Hostname = "-bad" }, true},
		{"Invalid: timeout too small", func(c *NetworkConfig) { c.ConnectionTimeoutMs = 4000 }, true},
		{"Invalid: timeout too large", func(c *NetworkConfig) { c.ConnectionTimeoutMs = 300001 }, true},
		{"Invalid: zero retries", func(c *NetworkConfig) { c.MaxRetries = 0 }, true},
		{"Invalid: static without addresses", func(c *NetworkConfig) { c.UseStaticIP = true }, true},
		{"Invalid: static with bad gateway", func(c *NetworkConfig) {
			c.UseStaticIP = true
			c.StaticIP = "192.168.1.50"
			c.Gateway = "not-an-ip"
			c.Subnet = "255.255.255.0"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validNetwork()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !wifierr.IsInvalidParameter(err) {
				t.Errorf("expected invalid parameter kind, got %v", err)
			}
		})
	}
}

// TestPortalConfigValidate tests portal section validation
func TestPortalConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PortalConfig)
		wantErr bool
	}{
		{"Valid: open AP", func(c *PortalConfig) {}, false},
		{"Valid: secured AP", func(c *PortalConfig) { c.APPassword = "portalpass" }, false},
		{"Valid: auth with credentials", func(c *PortalConfig) {
			c.EnableAuth = true
			c.AuthUsername = "admin"
			c.AuthPassword = "secretpw"
		}, false},
		{"Invalid: empty AP ssid", func(c *PortalConfig) { c.APSSID = "" }, true},
		{"Invalid: short AP password", func(c *PortalConfig) { c.APPassword = "short" }, true},
		{"Invalid: channel 0", func(c *PortalConfig) { c.Channel = 0 }, true},
		{"Invalid: channel 14", func(c *PortalConfig) { c.Channel = 14 }, true},
		{"Invalid: port below 80", func(c *PortalConfig) { c.Port = 79 }, true},
		{"Invalid: bad AP IP", func(c *PortalConfig) { c.APIP = "nope" }, true},
		{"Invalid: auth without username", func(c *PortalConfig) {
			c.EnableAuth = true
			c.AuthPassword = "secretpw"
		}, true},
		{"Invalid: auth without password", func(c *PortalConfig) {
			c.EnableAuth = true
			c.AuthUsername = "admin"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewPortalConfig()
			cfg.APSSID = "wifid-setup"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAggregateCrossFieldRules tests rules checked only at aggregate
// validation time
func TestAggregateCrossFieldRules(t *testing.T) {
	base := func() *Config {
		cfg := NewConfig()
		cfg.Network = validNetwork()
		cfg.Portal.APSSID = "wifid-setup"
		return cfg
	}

	t.Run("valid default aggregate", func(t *testing.T) {
		if err := base().Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("file logging requires filesystem feature", func(t *testing.T) {
		cfg := base()
		cfg.Debug.EnableFile = true
		err := cfg.Validate()
		if !wifierr.IsInvalidParameter(err) {
			t.Fatalf("Validate() = %v, want invalid parameter", err)
		}
		if !strings.Contains(err.Error(), "filesystem feature") {
			t.Errorf("message should name the cross-field rule: %q", err.Error())
		}

		// Enabling the feature satisfies the rule.
		cfg.Features.Enable(FeatureFilesystem)
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() after enabling filesystem = %v, want nil", err)
		}
	})

	t.Run("filesystem feature bounds max file size", func(t *testing.T) {
		cfg := base()
		cfg.Features.Enable(FeatureFilesystem)
		cfg.MaxFileSize = 512
		if err := cfg.Validate(); !wifierr.IsInvalidParameter(err) {
			t.Errorf("Validate() = %v, want invalid parameter", err)
		}

		// Without the feature the size is not checked.
		cfg.Features.Disable(FeatureFilesystem)
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() without filesystem feature = %v, want nil", err)
		}
	})

	t.Run("section errors surface from aggregate", func(t *testing.T) {
		cfg := base()
		cfg.Memory.JSONBufferSize = 100
		if err := cfg.Validate(); !wifierr.IsInvalidParameter(err) {
			t.Errorf("Validate() = %v, want invalid parameter", err)
		}
	})
}

// TestFeatureSet tests enable/disable/has semantics
func TestFeatureSet(t *testing.T) {
	fs := DefaultFeatures()

	if !fs.Has(FeatureCredentials) || !fs.Has(FeaturePortal) || !fs.Has(FeatureJSON) {
		t.Error("default set should include credentials, portal, json")
	}
	if fs.Has(FeatureOTA) {
		t.Error("default set should not include ota")
	}

	fs.Enable(FeatureOTA)
	if !fs.Has(FeatureOTA) {
		t.Error("Enable() should add the feature")
	}

	fs.Disable(FeatureOTA)
	if fs.Has(FeatureOTA) {
		t.Error("Disable() should remove the feature")
	}

	clone := fs.Clone()
	clone.Enable(FeatureDebug)
	if fs.Has(FeatureDebug) {
		t.Error("Clone() should be independent of the original")
	}
}

// TestConnectionParamsProjection tests the one-way projection
func TestConnectionParamsProjection(t *testing.T) {
	cfg := validNetwork()
	cfg.Hostname = "device42"
	cfg.UseStaticIP = true
	cfg.StaticIP = "10.0.0.5"
	cfg.Gateway = "10.0.0.1"
	cfg.Subnet = "255.0.0.0"
	cfg.DNS1 = "9.9.9.9"

	before := cfg
	params := cfg.ConnectionParams()

	if params.SSID != cfg.SSID || params.Password != cfg.Password {
		t.Error("projection should carry identity fields")
	}
	if params.Hostname != "device42" || params.StaticIP != "10.0.0.5" {
		t.Error("projection should carry network settings")
	}
	if params.PerAttemptTimeout != cfg.ConnectionTimeout() {
		t.Errorf("PerAttemptTimeout = %v, want %v", params.PerAttemptTimeout, cfg.ConnectionTimeout())
	}
	if params.MaxRetries != cfg.MaxRetries {
		t.Errorf("MaxRetries = %d, want %d", params.MaxRetries, cfg.MaxRetries)
	}
	if cfg != before {
		t.Error("projection must not mutate the source configuration")
	}
}

// TestConfigFileRoundTrip tests YAML save/load including the feature
// list encoding
func TestConfigFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := NewConfig()
	cfg.Network = validNetwork()
	cfg.Portal.APSSID = "wifid-setup"
	cfg.Features.Enable(FeatureDebug)

	if err := cfg.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if loaded.Network.SSID != cfg.Network.SSID {
		t.Errorf("SSID = %q, want %q", loaded.Network.SSID, cfg.Network.SSID)
	}
	if !loaded.Features.Has(FeatureDebug) {
		t.Error("loaded config should keep the debug feature")
	}
	if loaded.Portal.APIP != "172.217.28.1" {
		t.Errorf("APIP = %q, want default kept", loaded.Portal.APIP)
	}
}

// TestLoadFileMissing tests that a missing config file yields defaults
func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Network.MaxRetries != 3 || cfg.Network.ConnectionTimeoutMs != 30000 {
		t.Error("missing file should produce default network policy")
	}
}
