package config

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
	"k8s.io/utils/ptr"

	"github.com/programme-explorer/session-planner/internal/logging"
	"github.com/programme-explorer/session-planner/pkg/core"
)

const (
	// GlobalDefaultsKey names the preferences entry every profile inherits from.
	GlobalDefaultsKey = "default"

	// DefaultTalkUtility is the base utility of a talk when no entry sets one.
	DefaultTalkUtility = 1.0
)

// Preferences describes how much a visitor values talks.
type Preferences struct {
	// DefaultUtility is the base utility of every talk.
	// Use pointer to allow omitting this field and inheriting from global defaults.
	DefaultUtility *float64 `yaml:"defaultUtility,omitempty" json:"defaultUtility,omitempty"`

	// Streams adds a weight to talks of the named stream.
	Streams map[string]float64 `yaml:"streams,omitempty" json:"streams,omitempty"`

	// Keywords adds a weight per matching talk keyword.
	Keywords map[string]float64 `yaml:"keywords,omitempty" json:"keywords,omitempty"`

	// Papers sets the utility of individual talks by paper id, replacing the
	// computed value.
	Papers map[int64]float64 `yaml:"papers,omitempty" json:"papers,omitempty"`

	// MustAttend lists sessions to force into every plan of the profile.
	MustAttend []core.SessionID `yaml:"mustAttend,omitempty" json:"mustAttend,omitempty"`
}

// PreferencesData holds all parsed entries, keyed by profile name.
type PreferencesData map[string]Preferences

// Validate checks for invalid preference values.
func (p *Preferences) Validate() error {
	if p.DefaultUtility != nil && !isFinite(*p.DefaultUtility) {
		return fmt.Errorf("defaultUtility must be finite, got %v", *p.DefaultUtility)
	}
	for stream, w := range p.Streams {
		if !isFinite(w) {
			return fmt.Errorf("weight of stream %q must be finite, got %v", stream, w)
		}
	}
	for keyword, w := range p.Keywords {
		if !isFinite(w) {
			return fmt.Errorf("weight of keyword %q must be finite, got %v", keyword, w)
		}
	}
	for paper, u := range p.Papers {
		if !isFinite(u) {
			return fmt.Errorf("utility of paper %d must be finite, got %v", paper, u)
		}
	}
	for _, id := range p.MustAttend {
		if id <= 0 {
			return fmt.Errorf("mustAttend ids must be positive, got %d", id)
		}
	}
	return nil
}

// ParsePreferences parses a preferences document. The document maps profile
// names to entries:
//   - "default": values every profile inherits
//   - "<profile>": overrides applied on top of the defaults
//
// Entries that fail to parse or validate are logged and skipped; only a
// document that is not a mapping is an error.
func ParsePreferences(ctx context.Context, data []byte) (PreferencesData, error) {
	logger := logging.FromContext(ctx)

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(PreferencesData, len(keys))
	for _, key := range keys {
		node := raw[key]

		var prefs Preferences
		if err := node.Decode(&prefs); err != nil {
			logger.Info("Failed to parse preferences entry, skipping",
				"key", key,
				"error", err)
			continue
		}

		if err := prefs.Validate(); err != nil {
			logger.Info("Invalid preferences entry, skipping",
				"key", key,
				"error", err)
			continue
		}

		out[key] = prefs
	}

	logger.V(logging.DEBUG).Info("Parsed preferences",
		"profileCount", len(out))

	return out, nil
}

// LoadPreferences reads and parses the preferences file at path. An empty
// path yields no preferences.
func LoadPreferences(ctx context.Context, path string) (PreferencesData, error) {
	if path == "" {
		return make(PreferencesData), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences %s: %w", path, err)
	}
	return ParsePreferences(ctx, data)
}

// ErrUnknownProfile is returned when a named profile has no entry.
var ErrUnknownProfile = errors.New("unknown preferences profile")

// HasProfile reports whether name resolves to an entry. The empty name and
// the defaults key always resolve.
func (data PreferencesData) HasProfile(name string) bool {
	if name == "" || name == GlobalDefaultsKey {
		return true
	}
	_, ok := data[name]
	return ok
}

// Profiles returns the sorted names of all non-default entries.
func (data PreferencesData) Profiles() []string {
	names := make([]string, 0, len(data))
	for name := range data {
		if name != GlobalDefaultsKey {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// GetProfile returns the effective preferences of a profile.
// It merges the profile with global defaults.
func (data PreferencesData) GetProfile(name string) Preferences {
	defaults := data[GlobalDefaultsKey]
	profile, hasProfile := data[name]

	result := Preferences{
		DefaultUtility: defaults.DefaultUtility,
		Streams:        mergeWeights(defaults.Streams, nil),
		Keywords:       mergeWeights(defaults.Keywords, nil),
		Papers:         mergeWeights(defaults.Papers, nil),
		MustAttend:     defaults.MustAttend,
	}
	if !hasProfile || name == GlobalDefaultsKey {
		return result
	}

	// Merge: profile values override defaults
	if profile.DefaultUtility != nil {
		result.DefaultUtility = profile.DefaultUtility
	}
	result.Streams = mergeWeights(result.Streams, profile.Streams)
	result.Keywords = mergeWeights(result.Keywords, profile.Keywords)
	result.Papers = mergeWeights(result.Papers, profile.Papers)
	if len(profile.MustAttend) > 0 {
		result.MustAttend = profile.MustAttend
	}

	return result
}

// BaseUtility returns the configured default utility of a talk.
func (p Preferences) BaseUtility() float64 {
	return ptr.Deref(p.DefaultUtility, DefaultTalkUtility)
}

// HasWeights reports whether the preferences change any talk utility.
// MustAttend does not count.
func (p Preferences) HasWeights() bool {
	return p.DefaultUtility != nil || len(p.Streams) > 0 || len(p.Keywords) > 0 || len(p.Papers) > 0
}

func mergeWeights[K comparable](base, override map[K]float64) map[K]float64 {
	out := make(map[K]float64, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
