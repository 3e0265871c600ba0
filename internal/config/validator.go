package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers console-specific validation rules.
// Must be called before validating ConsoleConfig.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("duration", validateDuration); err != nil {
		return fmt.Errorf("failed to register duration validator: %w", err)
	}
	return nil
}

// validateDuration accepts positive Go durations such as "15s" or "1m30s".
func validateDuration(fl validator.FieldLevel) bool {
	d, err := time.ParseDuration(fl.Field().String())
	return err == nil && d > 0
}

// Validate validates the ConsoleConfig using struct tags and cross-field rules.
// Returns an error with actionable messages if validation fails.
func (c *ConsoleConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := RegisterCustomValidators(v); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if err := c.validateListenAddress(); err != nil {
		return err
	}

	if c.Session.Backend != SessionBackendMemory && c.Session.Path == "" {
		return fmt.Errorf("session.path is required for the %s backend", c.Session.Backend)
	}

	return nil
}

// validateListenAddress rejects non-loopback listeners unless allow_remote is set.
func (c *ConsoleConfig) validateListenAddress() error {
	if c.Server.AllowRemote {
		return nil
	}
	if !IsLoopbackAddr(c.Server.HTTPAddr) {
		return fmt.Errorf("server.http_addr %q is not a loopback address; set server.allow_remote to expose the console", c.Server.HTTPAddr)
	}
	return nil
}

// IsLoopbackAddr reports whether a host:port listens on loopback only.
// An empty host (":8090") binds every interface and is not loopback.
func IsLoopbackAddr(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// BackendTimeout returns the parsed backend timeout.
func (c *ConsoleConfig) BackendTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// formatValidationErrors converts validator.ValidationErrors to user-friendly messages.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

// formatSingleValidationError creates a user-friendly message for a single validation error.
func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "hostname_port":
		return fmt.Sprintf("%s must be a valid host:port", field)
	case "duration":
		return fmt.Sprintf("%s must be a positive duration such as \"15s\"", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, tag)
	}
}
