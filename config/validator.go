package config

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the key of the invalid field
	Path string

	// Message describes the validation error
	Message string
}

// Error returns the error message.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks a decoded file. An empty result means the file is valid.
func Validate(f *File) []ValidationError {
	var errors []ValidationError

	if f.ConnectionTimeout != nil && *f.ConnectionTimeout < 0 {
		errors = append(errors, ValidationError{
			Path:    "connectionTimeout",
			Message: "must not be negative",
		})
	}
	if f.ReadTimeout != nil && *f.ReadTimeout < 0 {
		errors = append(errors, ValidationError{
			Path:    "readTimeout",
			Message: "must not be negative",
		})
	}

	names := make([]string, 0, len(f.Headers))
	for name := range f.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t:") {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("headers.%q", name),
				Message: "invalid header name",
			})
			continue
		}
		resolved := ProcessVariables(f.Headers[name], f.Vars)
		if m := variablePattern.FindStringSubmatch(resolved); m != nil {
			errors = append(errors, ValidationError{
				Path:    "headers." + name,
				Message: fmt.Sprintf("undefined variable %q", m[1]),
			})
		}
	}

	return errors
}
