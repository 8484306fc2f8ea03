package config

import "time"

// Default values applied to omitted configuration fields.
const (
	DefaultSiteTitle       = "Documentation"
	DefaultReadmeDir       = "assets/readme"
	DefaultReadmeFilename  = "home-README.md"
	DefaultModelDir        = "assets/api"
	DefaultAddr            = ":8080"
	DefaultHighlightStyle  = "github"
	DefaultTabWidth        = 4
	DefaultMetricsPath     = "/metrics"
	DefaultHealthPath      = "/health"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultWatchDebounce   = 300 * time.Millisecond
)

func applyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultSiteTitle
	}

	if cfg.Content.ReadmeDir == "" {
		cfg.Content.ReadmeDir = DefaultReadmeDir
	}
	if cfg.Content.ReadmeFilename == "" {
		cfg.Content.ReadmeFilename = DefaultReadmeFilename
	}
	if cfg.Content.ModelDir == "" {
		cfg.Content.ModelDir = DefaultModelDir
	}

	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = DefaultAddr
	}
	if cfg.HTTP.ReadTimeout <= 0 {
		cfg.HTTP.ReadTimeout = DefaultReadTimeout
	}
	if cfg.HTTP.WriteTimeout <= 0 {
		cfg.HTTP.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.HTTP.ShutdownTimeout <= 0 {
		cfg.HTTP.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Render.HighlightStyle == "" {
		cfg.Render.HighlightStyle = DefaultHighlightStyle
	}
	if cfg.Render.TabWidth <= 0 {
		cfg.Render.TabWidth = DefaultTabWidth
	}

	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	if cfg.Monitoring.Metrics.Path == "" {
		cfg.Monitoring.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Monitoring.Health.Path == "" {
		cfg.Monitoring.Health.Path = DefaultHealthPath
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}
