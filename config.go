package agriAuth

import (
	"errors"
	"time"
)

// Config defines a public type used by agriAuth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Identity IdentityConfig
	Session  SessionConfig
	Pipeline PipelineConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
IDENTITY CONFIG
====================================
*/

// IdentityConfig defines a public type used by agriAuth APIs.
//
// IdentityConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type IdentityConfig struct {
	BaseURL string

	LoginPath          string
	RegisterPath       string
	ForgotPasswordPath string
	ResetPasswordPath  string
	RefreshPath        string
	LogoutPath         string
	ProfilePath        string

	RequestTimeout time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by agriAuth APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// Slot names the storage location (cookie name, bucket key, redis key
	// suffix) the store reads and writes.
	Slot string
}

/*
====================================
PIPELINE CONFIG
====================================
*/

// PipelineConfig defines a public type used by agriAuth APIs.
//
// PipelineConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PipelineConfig struct {
	// IdentityField names the payload property stamped onto mutating
	// requests when an identity source is configured.
	IdentityField string

	AttachRequestID bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by agriAuth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by agriAuth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Identity: IdentityConfig{
			RequestTimeout: 15 * time.Second,
		},
		Session: SessionConfig{
			Slot: "agriauth_state",
		},
		Pipeline: PipelineConfig{
			IdentityField:   "created_by",
			AttachRequestID: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig returns the baseline preset: metrics on, audit off, cookie
// slot "agriauth_state". Callers fill in Identity.BaseURL.
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.Identity.BaseURL == "" {
		return errors.New("Identity.BaseURL is required")
	}
	if c.Session.Slot == "" {
		return errors.New("Session.Slot must not be empty")
	}
	if c.Identity.RequestTimeout < 0 {
		return errors.New("Identity.RequestTimeout must not be negative")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit.BufferSize must be positive when audit is enabled")
	}
	return nil
}
