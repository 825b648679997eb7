package config

import "time"

const (
	envConfigFile      = "DASHBOARD_CONFIG"
	envDotenvFile      = "DASHBOARD_ENV_FILE"
	envPort            = "PORT"
	envRefreshInterval = "REFRESH_INTERVAL"
	envSearchDebounce  = "SEARCH_DEBOUNCE"
	envBackendSource   = "BACKEND_SOURCE"
	envBackendBaseURL  = "BACKEND_BASE_URL"
	envUpcomingPath    = "BACKEND_UPCOMING_PATH"
	envLivePath        = "BACKEND_LIVE_PATH"
	envBackendTimeout  = "BACKEND_TIMEOUT"
	envFollowBackend   = "FOLLOW_BACKEND"
	envFollowPath      = "FOLLOW_PATH"
	envFollowKey       = "FOLLOW_KEY"
	envTimezone        = "DISPLAY_TIMEZONE"
	envTimeLayout      = "DISPLAY_TIME_LAYOUT"
	envDefaultRegion   = "DEFAULT_REGION"
	envDefaultGame     = "DEFAULT_GAME"
	envOnlyFollowed    = "DEFAULT_ONLY_FOLLOWED"
	envCORSOrigins     = "CORS_ORIGINS"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"

	SourceFixture = "fixture"
	SourceHTTP    = "http"

	defaultDotenvFile = ".env"
	defaultPort       = "4000"
	// The dashboard polls every 30 seconds.
	defaultRefreshInterval = 30 * time.Second
	defaultSearchDebounce  = 300 * time.Millisecond
	defaultBackendSource   = SourceFixture
	defaultBackendBaseURL  = "http://localhost:8080"
	defaultUpcomingPath    = "/api/upcoming"
	defaultLivePath        = "/api/live"
	defaultBackendTimeout  = 5 * time.Second
	defaultFollowBackend   = "file"
	defaultFollowPath      = "data/follows"
	defaultFollowKey       = "selectedTeamIds"
	defaultTimezone        = "UTC"
	defaultTimeLayout      = "Jan 2, 2006 3:04 PM MST"
	defaultCORSOrigin      = "*"
	defaultMetricsPort     = "9090"
	defaultServiceName     = "esports-dashboard"
)
