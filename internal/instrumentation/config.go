package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Exporter types accepted by MetricsExporter and TracingExporter.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Status label values shared by metrics and audit records.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName identifies this process in telemetry (default: calendar-mcp).
	ServiceName string

	// ServiceVersion is stamped into the telemetry resource.
	ServiceVersion string

	// ServiceInstanceID distinguishes replicas; the hostname (usually the
	// pod name) is used when empty.
	ServiceInstanceID string

	// K8sNamespace and K8sPodName annotate telemetry when running in a
	// cluster. Both are optional.
	K8sNamespace string
	K8sPodName   string

	// Enabled turns the whole stack on or off. With false the provider is
	// inert and every recorder becomes a no-op.
	Enabled bool

	// MetricsExporter selects how metrics leave the process: prometheus
	// (scrape endpoint), otlp, or stdout.
	MetricsExporter string

	// TracingExporter selects the span exporter: otlp, stdout, or none.
	// With none, spans are never sampled but still carry ids for the
	// audit stream.
	TracingExporter string

	// OTLPEndpoint is the collector address for the otlp exporters,
	// without a protocol prefix (e.g. "localhost:4318").
	OTLPEndpoint string

	// OTLPInsecure skips TLS on OTLP export. Spans and metrics carry
	// operational metadata, so this is for local collectors only.
	OTLPInsecure bool

	// TraceSamplingRate is the head sampling ratio, 0.0 to 1.0.
	TraceSamplingRate float64

	// DetailedLabels adds high-cardinality labels such as the Google
	// account to metrics. Leave off in production deployments with many
	// accounts.
	DetailedLabels bool

	// AuditLogging configures audit logging behavior.
	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled determines if audit logging is active (default: true)
	Enabled bool

	// IncludePII controls whether attendee email addresses appear in audit
	// logs. When false (default), attendees are reduced to counts and domains.
	// When true, route the audit stream to storage with access controls.
	IncludePII bool
}

// DefaultConfig reads the instrumentation configuration from the
// environment, falling back to prometheus metrics, no tracing, and audit
// logging without PII.
func DefaultConfig() Config {
	return Config{
		ServiceName:       envOr("OTEL_SERVICE_NAME", "calendar-mcp"),
		ServiceVersion:    "unknown",
		ServiceInstanceID: envOr("OTEL_SERVICE_INSTANCE_ID", ""),
		K8sNamespace:      envOr("K8S_NAMESPACE", envOr("POD_NAMESPACE", "")),
		K8sPodName:        envOr("K8S_POD_NAME", envOr("HOSTNAME", "")),
		Enabled:           envBoolOr("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   envOr("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   envOr("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      envOr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      envBoolOr("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate: envFloatOr("OTEL_TRACES_SAMPLER_ARG", 0.1),
		DetailedLabels:    envBoolOr("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:    envBoolOr("AUDIT_LOGGING_ENABLED", true),
			IncludePII: envBoolOr("AUDIT_LOGGING_INCLUDE_PII", false),
		},
	}
}

// Validate rejects unknown exporters, out-of-range sampling rates, and OTLP
// exporters without an endpoint. An empty exporter is allowed; the provider
// applies its default.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
		}
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
		}
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	return nil
}

// envOr returns the environment variable's value, or fallback when unset
// or empty.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envFloatOr(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}
