package config

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool   `toml:"enabled"`
	Port         string `toml:"port"`
	OtlpEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
	OtlpInsecure bool   `toml:"otlp_insecure"`
}

func defaultMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:      true,
		Port:         defaultMetricsPort,
		ServiceName:  defaultServiceName,
		OtlpInsecure: true,
	}
}

func applyMetricsEnv(m *MetricsConfig) {
	m.Enabled = boolEnvOrDefault(envMetricsOn, m.Enabled)
	m.Port = envOrDefault(envMetricsPort, m.Port)
	m.OtlpEndpoint = envOrDefault(envOtelEndpoint, m.OtlpEndpoint)
	m.ServiceName = envOrDefault(envOtelService, m.ServiceName)
	m.OtlpInsecure = boolEnvOrDefault(envOtelInsecure, m.OtlpInsecure)
}
