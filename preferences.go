package pagemd

import (
	"context"
	"sort"
	"strconv"
	"time"
)

// Extractor engines.
const (
	ExtractorSelector    = "selector"
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// Converter engines.
const (
	ConverterNative  = "native"
	ConverterLibrary = "library"
)

// Preferences holds the user's persisted defaults.
type Preferences struct {
	// OutputDir is where clipped files are written.
	OutputDir string `json:"outputDir"`

	// Extractor names the content extraction engine.
	Extractor string `json:"extractor"`

	// Converter names the HTML to Markdown engine.
	Converter string `json:"converter"`

	// Render fetches pages through a headless browser when true.
	Render bool `json:"render"`

	// Timeout bounds a single page fetch.
	Timeout time.Duration `json:"timeout"`
}

// DefaultPreferences returns the preferences used before anything is saved.
func DefaultPreferences() *Preferences {
	return &Preferences{
		OutputDir: ".",
		Extractor: ExtractorSelector,
		Converter: ConverterNative,
		Timeout:   10 * time.Second,
	}
}

// Validate returns an error if the preferences contain invalid fields.
func (p *Preferences) Validate() error {
	switch p.Extractor {
	case ExtractorSelector, ExtractorTrafilatura, ExtractorReadability:
	default:
		return Errorf(EINVALID, "unknown extractor %q", p.Extractor)
	}
	switch p.Converter {
	case ConverterNative, ConverterLibrary:
	default:
		return Errorf(EINVALID, "unknown converter %q", p.Converter)
	}
	if p.OutputDir == "" {
		return Errorf(EINVALID, "output directory required")
	}
	if p.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	return nil
}

// PreferencesUpdate represents fields that can be updated on Preferences.
type PreferencesUpdate struct {
	OutputDir *string        `json:"outputDir"`
	Extractor *string        `json:"extractor"`
	Converter *string        `json:"converter"`
	Render    *bool          `json:"render"`
	Timeout   *time.Duration `json:"timeout"`
}

// Apply copies the set fields of upd onto p.
func (upd PreferencesUpdate) Apply(p *Preferences) {
	if upd.OutputDir != nil {
		p.OutputDir = *upd.OutputDir
	}
	if upd.Extractor != nil {
		p.Extractor = *upd.Extractor
	}
	if upd.Converter != nil {
		p.Converter = *upd.Converter
	}
	if upd.Render != nil {
		p.Render = *upd.Render
	}
	if upd.Timeout != nil {
		p.Timeout = *upd.Timeout
	}
}

// Preference keys used by storage and the config command.
const (
	KeyOutputDir = "output_dir"
	KeyExtractor = "extractor"
	KeyConverter = "converter"
	KeyRender    = "render"
	KeyTimeout   = "timeout"
)

// PreferenceKeys returns every preference key in sorted order.
func PreferenceKeys() []string {
	keys := []string{KeyOutputDir, KeyExtractor, KeyConverter, KeyRender, KeyTimeout}
	sort.Strings(keys)
	return keys
}

// Values returns p keyed by preference key, formatted for storage.
func (p *Preferences) Values() map[string]string {
	return map[string]string{
		KeyOutputDir: p.OutputDir,
		KeyExtractor: p.Extractor,
		KeyConverter: p.Converter,
		KeyRender:    strconv.FormatBool(p.Render),
		KeyTimeout:   p.Timeout.String(),
	}
}

// Set parses value and sets the field named by key on upd.
// Returns EINVALID for unknown keys or malformed values.
func (upd *PreferencesUpdate) Set(key, value string) error {
	switch key {
	case KeyOutputDir:
		upd.OutputDir = &value
	case KeyExtractor:
		upd.Extractor = &value
	case KeyConverter:
		upd.Converter = &value
	case KeyRender:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return Errorf(EINVALID, "invalid %s value %q: want true or false", key, value)
		}
		upd.Render = &b
	case KeyTimeout:
		d, err := time.ParseDuration(value)
		if err != nil {
			return Errorf(EINVALID, "invalid %s value %q: want a duration like 10s", key, value)
		}
		upd.Timeout = &d
	default:
		return Errorf(EINVALID, "unknown preference %q", key)
	}
	return nil
}

// PreferenceService represents a service for managing preferences.
type PreferenceService interface {
	// FindPreferences returns the stored preferences, with defaults for
	// anything never saved.
	FindPreferences(ctx context.Context) (*Preferences, error)

	// UpdatePreferences validates and stores the updated preferences.
	// Returns EINVALID if the result fails validation.
	UpdatePreferences(ctx context.Context, upd PreferencesUpdate) (*Preferences, error)
}
