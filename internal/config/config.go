// Package config provides ambient daemon settings for please/pleaseedit:
// audit/action-log directory and retention, token cache TTL, the default
// policy file path, and OpenTelemetry export toggles. This is distinct
// from the policy DSL (internal/domain/policy), which is a bespoke INI
// grammar parsed by its own hand-rolled lexer; this package covers only
// the ambient settings a deployment tunes once and rarely touches.
package config

// Settings is the top-level ambient configuration.
type Settings struct {
	// PolicyFile is the root policy file, expanded via include/includedir.
	PolicyFile string `mapstructure:"policy_file" validate:"required"`

	// Strict selects strict policy-validation mode: any syntactic fault
	// aborts the load instead of being skipped with a warning.
	Strict bool `mapstructure:"strict"`

	// ActionLog configures the rotating local action log.
	ActionLog ActionLogSettings `mapstructure:"action_log"`

	// TokenCache configures the password-challenge freshness cache.
	TokenCache TokenCacheSettings `mapstructure:"token_cache"`

	// Tracing configures OpenTelemetry tracing export.
	Tracing TracingSettings `mapstructure:"tracing"`

	// DevMode relaxes file-permission checks on the policy file, for
	// local iteration against a policy owned by a non-root user.
	DevMode bool `mapstructure:"dev_mode"`
}

// ActionLogSettings configures internal/glue/actionlog.
type ActionLogSettings struct {
	// Dir is the directory holding rotated action-<date>[-N].log files.
	Dir string `mapstructure:"dir" validate:"required"`
	// RetentionDays is how long rotated files are kept before deletion.
	RetentionDays int `mapstructure:"retention_days" validate:"min=1"`
	// MaxFileSizeMB is the size at which a log file rotates.
	MaxFileSizeMB int `mapstructure:"max_file_size_mb" validate:"min=1"`
	// Syslog is loaded from the settings file but neither CLI reads it:
	// whether a record is also sent to the host's syslog (Unix only) is
	// decided by the Decision's own `syslog` effect alone.
	Syslog bool `mapstructure:"syslog"`
}

// TokenCacheSettings configures internal/glue/tokencache.
type TokenCacheSettings struct {
	// Dir is the token touch-file directory, default /var/run/please/token.
	Dir string `mapstructure:"dir" validate:"required"`
	// FreshSeconds is the freshness window, default 600 (10 minutes).
	FreshSeconds int `mapstructure:"fresh_seconds" validate:"min=1"`
}

// TracingSettings configures OpenTelemetry tracing export.
type TracingSettings struct {
	// Enabled toggles whether an evaluate() span is emitted at all.
	Enabled bool `mapstructure:"enabled"`
}

// SetDefaults fills in zero-valued fields with the standard defaults,
// mirroring original_source/src/lib.rs's EnvOptions::new() baseline and
// util.rs's token/boot-time constants.
func (s *Settings) SetDefaults() {
	if s.PolicyFile == "" {
		s.PolicyFile = "/etc/please.ini"
	}
	if s.ActionLog.Dir == "" {
		s.ActionLog.Dir = "/var/log/please"
	}
	if s.ActionLog.RetentionDays <= 0 {
		s.ActionLog.RetentionDays = 7
	}
	if s.ActionLog.MaxFileSizeMB <= 0 {
		s.ActionLog.MaxFileSizeMB = 100
	}
	if s.TokenCache.Dir == "" {
		s.TokenCache.Dir = "/var/run/please/token"
	}
	if s.TokenCache.FreshSeconds <= 0 {
		s.TokenCache.FreshSeconds = 600
	}
}

// SetDevDefaults relaxes settings for local development, mirroring the
// teacher's SetDevDefaults pattern: a dev workflow shouldn't need root
// ownership of /etc/please.ini or /var/log/please to iterate.
func (s *Settings) SetDevDefaults() {
	if !s.DevMode {
		return
	}
	if s.ActionLog.Dir == "/var/log/please" {
		s.ActionLog.Dir = "./please-action-log"
	}
	if s.TokenCache.Dir == "/var/run/please/token" {
		s.TokenCache.Dir = "./please-token-cache"
	}
}
