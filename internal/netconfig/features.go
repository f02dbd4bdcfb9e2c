package netconfig

import (
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/muurk/wifid/internal/wifierr"
)

// Feature names an optional wifid capability. Features form an explicit
// enumerated set rather than a bitmask so configuration files stay
// readable and unknown names are rejected at parse time.
type Feature string

const (
	FeatureOTA         Feature = "ota"
	FeatureUpdate      Feature = "update"
	FeatureFilesystem  Feature = "filesystem"
	FeatureJSON        Feature = "json"
	FeatureCredentials Feature = "credentials"
	FeaturePortal      Feature = "portal"
	FeatureTicker      Feature = "ticker"
	FeatureDebug       Feature = "debug"
)

var knownFeatures = map[Feature]bool{
	FeatureOTA:         true,
	FeatureUpdate:      true,
	FeatureFilesystem:  true,
	FeatureJSON:        true,
	FeatureCredentials: true,
	FeaturePortal:      true,
	FeatureTicker:      true,
	FeatureDebug:       true,
}

// FeatureSet is the set of enabled optional features.
type FeatureSet map[Feature]bool

// DefaultFeatures covers most deployments: credential cache, portal
// fallback, and JSON export.
func DefaultFeatures() FeatureSet {
	return FeatureSet{
		FeatureCredentials: true,
		FeaturePortal:      true,
		FeatureJSON:        true,
	}
}

// MinimalFeatures is the smallest useful set.
func MinimalFeatures() FeatureSet {
	return FeatureSet{
		FeatureCredentials: true,
		FeaturePortal:      true,
	}
}

// AllFeatures enables everything.
func AllFeatures() FeatureSet {
	fs := FeatureSet{}
	for f := range knownFeatures {
		fs[f] = true
	}
	return fs
}

// Has reports whether the feature is enabled.
func (fs FeatureSet) Has(f Feature) bool {
	return fs[f]
}

// Enable adds a feature to the set.
func (fs FeatureSet) Enable(f Feature) {
	fs[f] = true
}

// Disable removes a feature from the set.
func (fs FeatureSet) Disable(f Feature) {
	delete(fs, f)
}

// Clone returns an independent copy of the set.
func (fs FeatureSet) Clone() FeatureSet {
	out := make(FeatureSet, len(fs))
	for f, on := range fs {
		if on {
			out[f] = true
		}
	}
	return out
}

// List returns the enabled features in stable (sorted) order.
func (fs FeatureSet) List() []Feature {
	out := make([]Feature, 0, len(fs))
	for f, on := range fs {
		if on {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarshalYAML renders the set as a sorted list of feature names.
func (fs FeatureSet) MarshalYAML() (interface{}, error) {
	names := make([]string, 0, len(fs))
	for _, f := range fs.List() {
		names = append(names, string(f))
	}
	return names, nil
}

// UnmarshalYAML parses a list of feature names, rejecting unknown ones.
func (fs *FeatureSet) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	out := make(FeatureSet, len(names))
	for _, name := range names {
		f := Feature(name)
		if !knownFeatures[f] {
			return wifierr.Newf(wifierr.KindInvalidParameter,
				"unknown feature %q", name)
		}
		out[f] = true
	}
	*fs = out
	return nil
}
