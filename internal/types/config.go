package types

type RunMode string

const (
	// ModeLocal runs the API server with local defaults (in-memory cache, debug logs)
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running just the API server
	ModeAPI RunMode = "api"
	// ModeMigrate applies the database migrations and exits
	ModeMigrate RunMode = "migrate"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// CacheBackend selects the implementation behind the recommendation result cache
type CacheBackend string

const (
	CacheBackendInMemory CacheBackend = "inmemory"
	CacheBackendRedis    CacheBackend = "redis"
	CacheBackendNone     CacheBackend = "none"
)
