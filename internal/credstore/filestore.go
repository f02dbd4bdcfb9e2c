package credstore

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// fileVersion is the on-disk schema version.
const fileVersion = 1

// FileStore persists credentials as a YAML file with user-only
// permissions and atomic tmp+rename writes. It is the default
// Persistence collaborator on hosts with a filesystem.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed persistence collaborator at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (fs *FileStore) Path() string {
	return fs.path
}

type credentialFile struct {
	Version     int                `yaml:"version"`
	Credentials []credentialRecord `yaml:"credentials"`
}

type credentialRecord struct {
	SSID            string `yaml:"ssid"`
	Password        string `yaml:"password,omitempty"`
	BSSID           string `yaml:"bssid,omitempty"`
	UseStatic       bool   `yaml:"use_static,omitempty"`
	StaticIP        string `yaml:"static_ip,omitempty"`
	Gateway         string `yaml:"gateway,omitempty"`
	Subnet          string `yaml:"subnet,omitempty"`
	DNS1            string `yaml:"dns1,omitempty"`
	DNS2            string `yaml:"dns2,omitempty"`
	LastSuccessUnix int64  `yaml:"last_success_unix,omitempty"`
	ConnectionCount uint32 `yaml:"connection_count,omitempty"`
	LastSignal      int32  `yaml:"last_signal,omitempty"`
}

// Load reads the persisted credential set. A missing file is an empty
// set, not an error.
func (fs *FileStore) Load() ([]Credential, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var file credentialFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}
	if file.Version != fileVersion {
		return nil, fmt.Errorf("unsupported credential file version: %d (expected %d)",
			file.Version, fileVersion)
	}

	creds := make([]Credential, 0, len(file.Credentials))
	for _, rec := range file.Credentials {
		creds = append(creds, rec.toCredential())
	}
	return creds, nil
}

// Save writes the credential set atomically with 0600 permissions.
func (fs *FileStore) Save(creds []Credential) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	file := credentialFile{
		Version:     fileVersion,
		Credentials: make([]credentialRecord, 0, len(creds)),
	}
	for i := range creds {
		file.Credentials = append(file.Credentials, toRecord(&creds[i]))
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	header := []byte(`# wifid credential store
#
# This file contains network secrets. Keep permissions at 0600.

`)
	data = append(header, data...)

	if err := os.MkdirAll(filepath.Dir(fs.path), 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	// Write to temporary file first (atomic write)
	tmpPath := fs.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary credential file: %w", err)
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename credential file into place: %w", err)
	}

	return nil
}

func toRecord(c *Credential) credentialRecord {
	rec := credentialRecord{
		SSID:            c.SSID,
		Password:        c.Password.Reveal(),
		UseStatic:       c.UseStatic,
		StaticIP:        c.StaticIP,
		Gateway:         c.Gateway,
		Subnet:          c.Subnet,
		DNS1:            c.DNS1,
		DNS2:            c.DNS2,
		ConnectionCount: c.ConnectionCount,
		LastSignal:      c.LastSignal,
	}
	if !c.Timestamp.IsZero() {
		rec.LastSuccessUnix = c.Timestamp.Unix()
	}
	if c.HasBSSID() {
		rec.BSSID = net.HardwareAddr(c.BSSID[:]).String()
	}
	return rec
}

func (rec *credentialRecord) toCredential() Credential {
	c := Credential{
		SSID:            rec.SSID,
		Password:        NewSecret(rec.Password),
		UseStatic:       rec.UseStatic,
		StaticIP:        rec.StaticIP,
		Gateway:         rec.Gateway,
		Subnet:          rec.Subnet,
		DNS1:            rec.DNS1,
		DNS2:            rec.DNS2,
		ConnectionCount: rec.ConnectionCount,
		LastSignal:      rec.LastSignal,
	}
	if rec.LastSuccessUnix != 0 {
		c.Timestamp = time.Unix(rec.LastSuccessUnix, 0)
	}
	if rec.BSSID != "" {
		if hw, err := net.ParseMAC(rec.BSSID); err == nil && len(hw) == 6 {
			copy(c.BSSID[:], hw)
		}
	}
	return c
}
