package config

// Refresh failure policies accepted by records.on_refresh_failure.
const (
	RefreshFailureClear      = "clear"
	RefreshFailureServeStale = "serve_stale"
)

const (
	defaultStateDir              = "~/.local/share/gravbot"
	defaultLogDir                = "~/.local/share/gravbot/logs"
	defaultParseEndpoint         = "https://gltp.fwotagprodad.workers.dev/parse"
	defaultRecordsEndpoint       = "https://gltp.fwotagprodad.workers.dev/records"
	defaultOrigin                = "grav bot"
	defaultParseTimeoutSeconds   = 45
	defaultRecordsTimeoutSeconds = 10
	defaultCacheTTLSeconds       = 60 * 60 * 3
	defaultFallbackPath          = "~/.local/share/gravbot/replay_uuids.txt"
	defaultSubmitConcurrency     = 4
	defaultAPIBind               = "127.0.0.1:7489"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultRefreshFailurePolicy  = RefreshFailureClear
	maxSubmitConcurrency         = 32
	minRefreshIntervalSeconds    = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Parse: Parse{
			Endpoint:       defaultParseEndpoint,
			Origin:         defaultOrigin,
			TimeoutSeconds: defaultParseTimeoutSeconds,
		},
		Records: Records{
			Endpoint:         defaultRecordsEndpoint,
			TimeoutSeconds:   defaultRecordsTimeoutSeconds,
			CacheTTLSeconds:  defaultCacheTTLSeconds,
			OnRefreshFailure: defaultRefreshFailurePolicy,
		},
		Fallback: Fallback{
			Path: defaultFallbackPath,
		},
		Submit: Submit{
			Concurrency: defaultSubmitConcurrency,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
