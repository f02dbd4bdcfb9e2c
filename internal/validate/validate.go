package validate

import (
	"time"

	"github.com/muurk/wifid/internal/wifierr"
)

// Wireless parameter limits. SSID and password bounds come from the
// 802.11 spec; the rest bound wifid's own configuration surface.
const (
	MaxSSIDLen = 32

	MinPasswordLen = 8
	MaxPasswordLen = 63

	MaxHostnameLen = 63

	MinChannel = 1
	MaxChannel = 13

	MinPort = 80
	MaxPort = 65535

	MinConnectionTimeout = 5 * time.Second
	MaxConnectionTimeout = 300 * time.Second

	MinJSONBufferSize = 1024
	MaxJSONBufferSize = 32768
)

// SSID validates a wireless network name. Valid length is 1-32 bytes.
func SSID(ssid string) error {
	if len(ssid) == 0 {
		return wifierr.New(wifierr.KindInvalidParameter, "SSID cannot be empty")
	}
	if len(ssid) > MaxSSIDLen {
		return wifierr.Newf(wifierr.KindInvalidParameter,
			"SSID too long (max %d bytes): %d bytes", MaxSSIDLen, len(ssid))
	}
	return nil
}

// Password validates a WPA2 passphrase. An empty password denotes an
// open network; otherwise valid length is 8-63 bytes.
func Password(password string) error {
	if len(password) == 0 {
		return nil
	}
	if len(password) < MinPasswordLen {
		return wifierr.Newf(wifierr.KindInvalidParameter,
			"password too short (min %d bytes for WPA2): %d bytes", MinPasswordLen, len(password))
	}
	if len(password) > MaxPasswordLen {
		return wifierr.Newf(wifierr.KindInvalidParameter,
			"password too long (max %d bytes): %d bytes", MaxPasswordLen, len(password))
	}
	return nil
}

// Hostname validates a device hostname: 1-63 bytes, alphanumeric or
// hyphen, and the hyphen may not lead or trail.
func Hostname(hostname string) error {
	if len(hostname) == 0 {
		return wifierr.New(wifierr.KindInvalidParameter, "hostname cannot be empty")
	}
	if len(hostname) > MaxHostnameLen {
		return wifierr.Newf(wifierr.KindInvalidParameter,
			"hostname too long (max %d bytes): %d bytes", MaxHostnameLen, len(hostname))
	}
	for i := 0; i < len(hostname); i++ {
		c := hostname[i]
		if !isAlnum(c) && c != '-' {
			return wifierr.Newf(wifierr.KindInvalidParameter,
				"hostname contains invalid character %q (alphanumeric or '-' only)", c)
		}
	}
	if hostname[0] == '-' || hostname[len(hostname)-1] == '-' {
		return wifierr.New(wifierr.KindInvalidParameter,
			"hostname must not begin or end with '-'")
	}
	return nil
}

// Channel validates a 2.4 GHz wireless channel number (1-13).
func Channel(channel int) error {
	if channel < MinChannel || channel > MaxChannel {
		return wifierr.Newf(wifierr.KindInvalidParameter,
			"wireless channel must be %d-%d, got %d", MinChannel, MaxChannel, channel)
	}
	return nil
}

// Port validates a portal listen port (80-65535).
func Port(port int) error {
	if port < MinPort || port > MaxPort {
		return wifierr.Newf(wifierr.KindInvalidParameter,
			"port must be %d-%d, got %d", MinPort, MaxPort, port)
	}
	return nil
}

// ConnectionTimeout validates a per-attempt association timeout
// (5-300 seconds).
func ConnectionTimeout(timeout time.Duration) error {
	if timeout < MinConnectionTimeout || timeout > MaxConnectionTimeout {
		return wifierr.Newf(wifierr.KindInvalidParameter,
			"connection timeout must be %s-%s, got %s",
			MinConnectionTimeout, MaxConnectionTimeout, timeout)
	}
	return nil
}

// JSONBuffer validates the JSON workspace sizing: buffer within
// 1024-32768 bytes and the maximum string length no more than half the
// buffer.
func JSONBuffer(bufferSize, maxStringLen int) error {
	if bufferSize < MinJSONBufferSize || bufferSize > MaxJSONBufferSize {
		return wifierr.Newf(wifierr.KindInvalidParameter,
			"JSON buffer size must be %d-%d bytes, got %d",
			MinJSONBufferSize, MaxJSONBufferSize, bufferSize)
	}
	if maxStringLen > bufferSize/2 {
		return wifierr.Newf(wifierr.KindInvalidParameter,
			"max string length %d exceeds half the JSON buffer (%d)",
			maxStringLen, bufferSize/2)
	}
	return nil
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
