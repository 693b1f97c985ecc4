package apperr

import (
	"errors"
	"fmt"
)

// ConfigError means a required credential or resource is missing.
// It is raised before any network call and is never retried automatically.
type ConfigError struct {
	Provider string
	Missing  string // env var or resource name
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Provider, e.Missing)
}

func NewConfigError(provider, missing string) error {
	return &ConfigError{Provider: provider, Missing: missing}
}

// ProviderError means the remote provider rejected a request. Body carries
// the provider's raw diagnostic verbatim; nothing is synthesized on top.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Provider, e.Status, e.Body)
}

func NewProviderError(provider string, status int, body []byte) error {
	return &ProviderError{Provider: provider, Status: status, Body: string(body)}
}

// TemplateError means placeholder substitution produced invalid JSON.
type TemplateError struct {
	Template string
	Cause    error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q: %v", e.Template, e.Cause)
}

func (e *TemplateError) Unwrap() error { return e.Cause }

func NewTemplateError(template string, cause error) error {
	return &TemplateError{Template: template, Cause: cause}
}

// TimeoutError means a polling budget expired before the job reached a
// terminal status. The in-flight job is not discarded: LastStatus and the
// job id remain usable, so callers treat this as a soft failure.
type TimeoutError struct {
	Operation  string
	LastStatus string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: polling budget exhausted, last status %q", e.Operation, e.LastStatus)
}

func NewTimeoutError(operation, lastStatus string) error {
	return &TimeoutError{Operation: operation, LastStatus: lastStatus}
}

func IsConfig(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

func IsProvider(err error) bool {
	var e *ProviderError
	return errors.As(err, &e)
}

func IsTemplate(err error) bool {
	var e *TemplateError
	return errors.As(err, &e)
}

func IsTimeout(err error) bool {
	var e *TimeoutError
	return errors.As(err, &e)
}
