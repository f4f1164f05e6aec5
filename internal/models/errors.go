package models

import (
	"errors"
	"fmt"
)

// ErrNoDevices is returned when the upstream account has no devices registered.
var ErrNoDevices = errors.New("no devices found")

// ConfigError reports a required setting that is not configured.
type ConfigError struct {
	Setting string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is not set", e.Setting)
}

// UpstreamError is a non-2xx answer from the Nature Remo API.
type UpstreamError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Failed to fetch devices from Nature Remo API: %s - %s", e.Status, e.Body)
}

// StoreError wraps a failure of the persistence layer.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
