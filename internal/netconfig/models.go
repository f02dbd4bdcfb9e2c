package netconfig

import (
	"net"
	"time"

	"github.com/muurk/wifid/internal/validate"
	"github.com/muurk/wifid/internal/wifierr"
)

// NetworkConfig describes one target network for a connection sequence.
// It is a transient input supplied per call, not owned by any store.
type NetworkConfig struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password,omitempty"`
	Hostname string `yaml:"hostname,omitempty"`

	// Static addressing, used only when UseStaticIP is set.
	UseStaticIP bool   `yaml:"use_static_ip,omitempty"`
	StaticIP    string `yaml:"static_ip,omitempty"`
	Gateway     string `yaml:"gateway,omitempty"`
	Subnet      string `yaml:"subnet,omitempty"`
	DNS1        string `yaml:"dns1,omitempty"`
	DNS2        string `yaml:"dns2,omitempty"`

	ValidateCertificates bool `yaml:"validate_certificates,omitempty"`

	// ConnectionTimeoutMs bounds a single association attempt.
	ConnectionTimeoutMs int `yaml:"connection_timeout_ms"`
	MaxRetries          int `yaml:"max_retries"`
}

// NewNetworkConfig returns a NetworkConfig with default retry policy.
func NewNetworkConfig() NetworkConfig {
	return NetworkConfig{
		ConnectionTimeoutMs: 30000,
		MaxRetries:          3,
	}
}

// ConnectionTimeout returns the per-attempt timeout as a duration.
func (c *NetworkConfig) ConnectionTimeout() time.Duration {
	return time.Duration(c.ConnectionTimeoutMs) * time.Millisecond
}

// Validate checks the whole network configuration: field syntax per the
// wireless limits plus structural rules for static addressing.
func (c *NetworkConfig) Validate() error {
	if err := validate.SSID(c.SSID); err != nil {
		return err
	}
	if err := validate.Password(c.Password); err != nil {
		return err
	}
	if c.Hostname != "" {
		if err := validate.Hostname(c.Hostname); err != nil {
			return err
		}
	}
	if err := validate.ConnectionTimeout(c.ConnectionTimeout()); err != nil {
		return err
	}
	if c.MaxRetries < 1 {
		return wifierr.Newf(wifierr.KindInvalidParameter,
			"max retries must be at least 1, got %d", c.MaxRetries)
	}
	if c.UseStaticIP {
		if err := requireIP("static IP", c.StaticIP); err != nil {
			return err
		}
		if err := requireIP("gateway", c.Gateway); err != nil {
			return err
		}
		if err := requireIP("subnet mask", c.Subnet); err != nil {
			return err
		}
		if c.DNS1 != "" {
			if err := requireIP("primary DNS", c.DNS1); err != nil {
				return err
			}
		}
		if c.DNS2 != "" {
			if err := requireIP("secondary DNS", c.DNS2); err != nil {
				return err
			}
		}
	}
	return nil
}

// PortalConfig describes the access-point fallback mode.
type PortalConfig struct {
	APSSID     string `yaml:"ap_ssid"`
	APPassword string `yaml:"ap_password,omitempty"`

	APIP      string `yaml:"ap_ip"`
	APGateway string `yaml:"ap_gateway"`
	APSubnet  string `yaml:"ap_subnet"`

	Channel int  `yaml:"channel"`
	Hidden  bool `yaml:"hidden,omitempty"`

	EnableAuth   bool   `yaml:"enable_auth,omitempty"`
	AuthRealm    string `yaml:"auth_realm,omitempty"`
	AuthUsername string `yaml:"auth_username,omitempty"`
	AuthPassword string `yaml:"auth_password,omitempty"`

	// TimeoutMs is how long the portal stays up before giving up;
	// zero means no limit.
	TimeoutMs int `yaml:"timeout_ms,omitempty"`
	Port      int `yaml:"port"`
}

// NewPortalConfig returns a PortalConfig with the default AP addressing.
func NewPortalConfig() PortalConfig {
	return PortalConfig{
		APIP:      "172.217.28.1",
		APGateway: "172.217.28.1",
		APSubnet:  "255.255.255.0",
		Channel:   1,
		AuthRealm: "wifid",
		Port:      80,
	}
}

// Validate checks the portal configuration.
func (c *PortalConfig) Validate() error {
	if err := validate.SSID(c.APSSID); err != nil {
		return wifierr.Wrap(wifierr.KindInvalidParameter, "AP SSID invalid", err)
	}
	if err := validate.Password(c.APPassword); err != nil {
		return wifierr.Wrap(wifierr.KindInvalidParameter, "AP password invalid", err)
	}
	if err := validate.Channel(c.Channel); err != nil {
		return err
	}
	if err := validate.Port(c.Port); err != nil {
		return err
	}
	if err := requireIP("AP IP", c.APIP); err != nil {
		return err
	}
	if err := requireIP("AP gateway", c.APGateway); err != nil {
		return err
	}
	if err := requireIP("AP subnet", c.APSubnet); err != nil {
		return err
	}
	if c.EnableAuth {
		if c.AuthUsername == "" {
			return wifierr.New(wifierr.KindInvalidParameter,
				"portal auth enabled but auth username is empty")
		}
		if c.AuthPassword == "" {
			return wifierr.New(wifierr.KindInvalidParameter,
				"portal auth enabled but auth password is empty")
		}
	}
	return nil
}

// MemoryConfig bounds the JSON workspace and low-memory behavior.
type MemoryConfig struct {
	JSONBufferSize     int  `yaml:"json_buffer_size"`
	MaxStringLength    int  `yaml:"max_string_length"`
	LowMemoryThreshold int  `yaml:"low_memory_threshold"`
	EnableMonitoring   bool `yaml:"enable_monitoring"`
}

// NewMemoryConfig returns a MemoryConfig with defaults.
func NewMemoryConfig() MemoryConfig {
	return MemoryConfig{
		JSONBufferSize:     8192,
		MaxStringLength:    4096,
		LowMemoryThreshold: 4096,
		EnableMonitoring:   true,
	}
}

// Validate checks the memory configuration.
func (c *MemoryConfig) Validate() error {
	return validate.JSONBuffer(c.JSONBufferSize, c.MaxStringLength)
}

// SecurityConfig holds input handling and rate limiting switches.
type SecurityConfig struct {
	EnableInputSanitization bool `yaml:"enable_input_sanitization"`
	EnableRateLimiting      bool `yaml:"enable_rate_limiting,omitempty"`
	MaxRequestsPerMinute    int  `yaml:"max_requests_per_minute"`
	LogSecurityEvents       bool `yaml:"log_security_events"`
}

// NewSecurityConfig returns a SecurityConfig with defaults.
func NewSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableInputSanitization: true,
		MaxRequestsPerMinute:    60,
		LogSecurityEvents:       true,
	}
}

// DebugConfig controls optional file-based logging.
type DebugConfig struct {
	EnableFile     bool   `yaml:"enable_file,omitempty"`
	LogFilePath    string `yaml:"log_file_path,omitempty"`
	MaxLogFileSize int    `yaml:"max_log_file_size,omitempty"`
	Level          string `yaml:"level,omitempty"`
	TimestampLogs  bool   `yaml:"timestamp_logs"`
}

// NewDebugConfig returns a DebugConfig with defaults.
func NewDebugConfig() DebugConfig {
	return DebugConfig{
		LogFilePath:    "/var/log/wifid.log",
		MaxLogFileSize: 1024 * 1024,
		Level:          "info",
		TimestampLogs:  true,
	}
}

func requireIP(field, value string) error {
	if value == "" {
		return wifierr.Newf(wifierr.KindInvalidParameter, "%s is required", field)
	}
	if net.ParseIP(value) == nil {
		return wifierr.Newf(wifierr.KindInvalidParameter,
			"%s is not a valid IP address: %q", field, value)
	}
	return nil
}
