package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeParse()
	c.normalizeRecords()
	if c.Submit.Concurrency <= 0 {
		c.Submit.Concurrency = defaultSubmitConcurrency
	}
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	c.API.Token = strings.TrimSpace(c.API.Token)
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Fallback.Path) == "" {
		c.Fallback.Path = defaultFallbackPath
	}
	if c.Fallback.Path, err = expandPath(strings.TrimSpace(c.Fallback.Path)); err != nil {
		return fmt.Errorf("fallback.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeParse() {
	c.Parse.Endpoint = strings.TrimSpace(c.Parse.Endpoint)
	if c.Parse.Endpoint == "" {
		c.Parse.Endpoint = defaultParseEndpoint
	}
	c.Parse.Origin = strings.TrimSpace(c.Parse.Origin)
	if c.Parse.Origin == "" {
		c.Parse.Origin = defaultOrigin
	}
	if c.Parse.TimeoutSeconds <= 0 {
		c.Parse.TimeoutSeconds = defaultParseTimeoutSeconds
	}
}

func (c *Config) normalizeRecords() {
	c.Records.Endpoint = strings.TrimSpace(c.Records.Endpoint)
	if c.Records.Endpoint == "" {
		c.Records.Endpoint = defaultRecordsEndpoint
	}
	if c.Records.TimeoutSeconds <= 0 {
		c.Records.TimeoutSeconds = defaultRecordsTimeoutSeconds
	}
	if c.Records.CacheTTLSeconds <= 0 {
		c.Records.CacheTTLSeconds = defaultCacheTTLSeconds
	}
	policy := strings.ToLower(strings.TrimSpace(c.Records.OnRefreshFailure))
	policy = strings.ReplaceAll(policy, "-", "_")
	if policy == "" {
		policy = defaultRefreshFailurePolicy
	}
	c.Records.OnRefreshFailure = policy
	if c.Records.RefreshIntervalSeconds < 0 {
		c.Records.RefreshIntervalSeconds = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
