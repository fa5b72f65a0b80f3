package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEndpoints(); err != nil {
		return err
	}
	if err := c.validateRecords(); err != nil {
		return err
	}
	if err := c.validateSubmit(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEndpoints() error {
	if err := validateHTTPURL("parse.endpoint", c.Parse.Endpoint); err != nil {
		return err
	}
	if err := validateHTTPURL("records.endpoint", c.Records.Endpoint); err != nil {
		return err
	}
	if c.Parse.Origin == "" {
		return errors.New("parse.origin must be set")
	}
	return nil
}

func (c *Config) validateRecords() error {
	switch c.Records.OnRefreshFailure {
	case RefreshFailureClear, RefreshFailureServeStale:
	default:
		return fmt.Errorf("records.on_refresh_failure must be %q or %q, got %q",
			RefreshFailureClear, RefreshFailureServeStale, c.Records.OnRefreshFailure)
	}
	if c.Records.RefreshIntervalSeconds > 0 && c.Records.RefreshIntervalSeconds < minRefreshIntervalSeconds {
		return fmt.Errorf("records.refresh_interval_seconds must be at least %d", minRefreshIntervalSeconds)
	}
	return nil
}

func (c *Config) validateSubmit() error {
	if c.Submit.Concurrency > maxSubmitConcurrency {
		return fmt.Errorf("submit.concurrency must be at most %d", maxSubmitConcurrency)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.Bind == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.API.Bind); err != nil {
		return fmt.Errorf("api.bind: %w", err)
	}
	return nil
}

func validateHTTPURL(field, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", field, value)
	}
	return nil
}
