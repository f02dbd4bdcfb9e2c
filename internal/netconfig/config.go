package netconfig

import (
	"time"

	"github.com/muurk/wifid/internal/wifierr"
)

// Config is the aggregate wifid configuration: one section per concern
// plus the enabled feature set. Sections validate independently;
// cross-field rules are checked only here, at aggregate validation
// time.
type Config struct {
	Features FeatureSet     `yaml:"features"`
	Network  NetworkConfig  `yaml:"network"`
	Portal   PortalConfig   `yaml:"portal"`
	Memory   MemoryConfig   `yaml:"memory"`
	Security SecurityConfig `yaml:"security"`
	Debug    DebugConfig    `yaml:"debug"`

	// Filesystem limits, relevant only when the filesystem feature is
	// enabled.
	FormatFSOnFail bool `yaml:"format_fs_on_fail,omitempty"`
	MaxFileSize    int  `yaml:"max_file_size"`
	MaxFiles       int  `yaml:"max_files"`
}

// NewConfig returns a Config with defaults for every section and the
// default feature set.
func NewConfig() *Config {
	return &Config{
		Features:    DefaultFeatures(),
		Network:     NewNetworkConfig(),
		Portal:      NewPortalConfig(),
		Memory:      NewMemoryConfig(),
		Security:    NewSecurityConfig(),
		Debug:       NewDebugConfig(),
		MaxFileSize: 1024 * 1024,
		MaxFiles:    50,
	}
}

// Validate runs each section's own validation, then the cross-field
// rules that only make sense with the whole configuration in view.
func (c *Config) Validate() error {
	if err := c.Network.Validate(); err != nil {
		return err
	}
	if err := c.Portal.Validate(); err != nil {
		return err
	}
	if err := c.Memory.Validate(); err != nil {
		return err
	}

	if c.Features.Has(FeatureFilesystem) && c.MaxFileSize < 1024 {
		return wifierr.Newf(wifierr.KindInvalidParameter,
			"max file size too small with filesystem feature enabled (min 1024): %d", c.MaxFileSize)
	}
	if c.Debug.EnableFile && !c.Features.Has(FeatureFilesystem) {
		return wifierr.New(wifierr.KindInvalidParameter,
			"file-based logging requires the filesystem feature to be enabled")
	}
	return nil
}

// ConnectionParams is the flat parameter set the connection orchestrator
// consumes: everything the radio capability needs for one sequence.
type ConnectionParams struct {
	SSID     string
	Password string
	Hostname string

	UseStaticIP bool
	StaticIP    string
	Gateway     string
	Subnet      string
	DNS1        string
	DNS2        string

	PerAttemptTimeout time.Duration
	MaxRetries        int
}

// ConnectionParams projects a network configuration into connection
// parameters. The projection is one-way and pure; nothing is copied
// back into any configuration object.
func (c *NetworkConfig) ConnectionParams() ConnectionParams {
	return ConnectionParams{
		SSID:              c.SSID,
		Password:          c.Password,
		Hostname:          c.Hostname,
		UseStaticIP:       c.UseStaticIP,
		StaticIP:          c.StaticIP,
		Gateway:           c.Gateway,
		Subnet:            c.Subnet,
		DNS1:              c.DNS1,
		DNS2:              c.DNS2,
		PerAttemptTimeout: c.ConnectionTimeout(),
		MaxRetries:        c.MaxRetries,
	}
}

// ConnectionParams projects the aggregate configuration's network
// section.
func (c *Config) ConnectionParams() ConnectionParams {
	return c.Network.ConnectionParams()
}
