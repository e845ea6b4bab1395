package genre

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Conceptual-Machines/melody-api/internal/rhythm"
	"gopkg.in/yaml.v3"
)

// rangeOverride is the YAML form of Range.
type rangeOverride struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// profileOverride is a partial profile. Nil fields keep the built-in value.
type profileOverride struct {
	Rhythms             [][]float64    `yaml:"rhythms"`
	CommonPatternMix    *float64       `yaml:"common_pattern_mix"`
	Velocity            *rangeOverride `yaml:"velocity"`
	Octaves             *rangeOverride `yaml:"octaves"`
	Tendency            *string        `yaml:"tendency"`
	TendencyProbability *float64       `yaml:"tendency_probability"`
	TendencyIntervals   []int          `yaml:"tendency_intervals"`
	CoherenceBias       *float64       `yaml:"coherence_bias"`
	ExtensionFrequency  *float64       `yaml:"extension_frequency"`
	Extensions          []string       `yaml:"extensions"`
	Progressions        [][]string     `yaml:"progressions"`
	FeaturedProgression []string       `yaml:"featured_progression"`
	FeaturedProbability *float64       `yaml:"featured_probability"`
	Description         *string        `yaml:"description"`
}

// LoadRegistry builds the built-in registry and merges the overrides file at
// path over it. An empty path returns the built-ins unchanged.
func LoadRegistry(path string) (*Registry, error) {
	r := NewRegistry()
	if path == "" {
		return r, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open genre profiles: %w", err)
	}
	defer f.Close()

	if err := r.ApplyOverrides(f); err != nil {
		return nil, fmt.Errorf("failed to load genre profiles from %s: %w", path, err)
	}
	return r, nil
}

// ApplyOverrides merges a YAML document of genre name to partial profile into
// the registry. Unknown keys and unknown genres are rejected, and every
// touched profile must validate; on error the registry is left unchanged.
// It must not be called once the registry is shared.
func (r *Registry) ApplyOverrides(src io.Reader) error {
	dec := yaml.NewDecoder(src)
	dec.KnownFields(true)

	var doc map[string]profileOverride
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode overrides: %w", err)
	}

	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	merged := make(map[string]Profile, len(doc))
	var errs []error
	for _, name := range names {
		key := normalize(name)
		base, ok := r.profiles[key]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown genre %q", name))
			continue
		}
		p := doc[name].apply(base)
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		merged[key] = p
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	for key, p := range merged {
		r.profiles[key] = p
	}
	return nil
}

func (o profileOverride) apply(base Profile) Profile {
	p := base.Clone()
	if o.Rhythms != nil {
		p.Rhythms = rhythm.FromDurations(p.Name, o.Rhythms)
	}
	if o.CommonPatternMix != nil {
		p.CommonPatternMix = *o.CommonPatternMix
	}
	if o.Velocity != nil {
		p.Velocity = Range{o.Velocity.Min, o.Velocity.Max}
	}
	if o.Octaves != nil {
		p.Octaves = Range{o.Octaves.Min, o.Octaves.Max}
	}
	if o.Tendency != nil {
		p.Tendency = Tendency(*o.Tendency)
		if d, ok := tendencyDefaults[p.Tendency]; ok {
			p.TendencyProbability = d.probability
			p.TendencyIntervals = append([]int(nil), d.intervals...)
		}
	}
	if o.TendencyProbability != nil {
		p.TendencyProbability = *o.TendencyProbability
	}
	if o.TendencyIntervals != nil {
		p.TendencyIntervals = append([]int(nil), o.TendencyIntervals...)
	}
	if o.CoherenceBias != nil {
		p.CoherenceBias = *o.CoherenceBias
	}
	if o.ExtensionFrequency != nil {
		p.ExtensionFrequency = *o.ExtensionFrequency
	}
	if o.Extensions != nil {
		p.Extensions = append([]string(nil), o.Extensions...)
	}
	if o.Progressions != nil {
		p.Progressions = cloneProgressions(o.Progressions)
	}
	if o.FeaturedProgression != nil {
		p.FeaturedProgression = append([]string(nil), o.FeaturedProgression...)
	}
	if o.FeaturedProbability != nil {
		p.FeaturedProbability = *o.FeaturedProbability
	}
	if o.Description != nil {
		p.Description = *o.Description
	}
	return p
}
