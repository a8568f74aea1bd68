package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/fetch"
)

// File is the on-disk representation of client defaults.
type File struct {
	FollowRedirects   *bool             `json:"followRedirects,omitempty" yaml:"followRedirects,omitempty"`
	UseCaches         *bool             `json:"useCaches,omitempty" yaml:"useCaches,omitempty"`
	ConnectionTimeout *Duration         `json:"connectionTimeout,omitempty" yaml:"connectionTimeout,omitempty"`
	ReadTimeout       *Duration         `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	Headers           map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Vars              map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Duration accepts Go duration strings ("1m30s") or integer milliseconds.
type Duration time.Duration

// ParseDuration parses a Go duration string or a bare integer, which is
// taken as milliseconds.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Duration(time.Duration(ms) * time.Millisecond), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: expected a Go duration or milliseconds", s)
	}
	return Duration(d), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	parsed, err := ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = parsed
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Load reads a defaults file. The format is chosen by extension: .json is
// JSON, anything else is YAML.
func Load(path string) (fetch.Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fetch.Defaults{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes, validates and resolves a defaults file.
func Parse(data []byte, path string) (fetch.Defaults, error) {
	f, err := Decode(data, path)
	if err != nil {
		return fetch.Defaults{}, err
	}
	if errs := Validate(f); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fetch.Defaults{}, fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return f.Defaults(), nil
}

// Decode parses data without validating it.
func Decode(data []byte, path string) (*File, error) {
	var f File

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	return &f, nil
}

// Defaults overlays f on fetch.StandardDefaults, substituting {{name}}
// variables in header values.
func (f *File) Defaults() fetch.Defaults {
	d := fetch.StandardDefaults()
	if f.FollowRedirects != nil {
		d.FollowRedirects = *f.FollowRedirects
	}
	if f.UseCaches != nil {
		d.UseCaches = *f.UseCaches
	}
	if f.ConnectionTimeout != nil {
		d.ConnectionTimeout = time.Duration(*f.ConnectionTimeout)
	}
	if f.ReadTimeout != nil {
		d.ReadTimeout = time.Duration(*f.ReadTimeout)
	}
	for k, v := range f.Headers {
		d.Headers[k] = ProcessVariables(v, f.Vars)
	}
	return d
}

var variablePattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// ProcessVariables replaces {{name}} placeholders with values from vars.
// Unknown placeholders are left in place.
func ProcessVariables(s string, vars map[string]string) string {
	return variablePattern.ReplaceAllStringFunc(s, func(match string) string {
		name := variablePattern.FindStringSubmatch(match)[1]
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})
}
