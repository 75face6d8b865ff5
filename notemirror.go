package notemirror

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/notemirror/notemirror/pkg/core"
	"github.com/notemirror/notemirror/pkg/notemirror"
)

// --- Types ---

// Mirror is the assembled cache-coherence core.
type Mirror = notemirror.Mirror

// Config is the file/environment configuration for the mirror.
type Config = notemirror.Config

// StaticCredentials yields a fixed bearer token.
type StaticCredentials = notemirror.StaticCredentials

// EnvCredentials reads the bearer token from an environment variable.
type EnvCredentials = notemirror.EnvCredentials

// --- Configuration ---

// Option defines a functional option for configuring the mirror.
type Option = notemirror.Option

// WithToken sets a static bearer credential.
func WithToken(token string) Option {
	return notemirror.WithToken(token)
}

// WithCredentials injects a custom credential provider.
func WithCredentials(creds core.CredentialProvider) Option {
	return notemirror.WithCredentials(creds)
}

// WithPersistence stores snapshots under dir so the mirror survives restarts.
func WithPersistence(dir string) Option {
	return notemirror.WithPersistence(dir)
}

// WithStore injects a custom mirror store.
func WithStore(store core.Store) Option {
	return notemirror.WithStore(store)
}

// WithPageLimit overrides the fetch page size.
func WithPageLimit(limit int) Option {
	return notemirror.WithPageLimit(limit)
}

// WithMaxPages overrides the fetch page ceiling.
func WithMaxPages(pages int) Option {
	return notemirror.WithMaxPages(pages)
}

// WithTimeout overrides the remote call timeout.
func WithTimeout(d time.Duration) Option {
	return notemirror.WithTimeout(d)
}

// WithOrigins sets the per-kind origin patterns for broadcast matching.
func WithOrigins(origins map[core.Kind][]string) Option {
	return notemirror.WithOrigins(origins)
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return notemirror.WithHTTPClient(client)
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return notemirror.WithLogger(logger)
}

// --- Entry points ---

// New wires a Mirror against the annotation service at baseURL.
func New(baseURL string, opts ...Option) (*Mirror, error) {
	return notemirror.New(baseURL, opts...)
}

// FromConfig assembles a Mirror from a loaded Config.
func FromConfig(cfg Config, opts ...Option) (*Mirror, error) {
	return notemirror.FromConfig(cfg, opts...)
}

// LoadConfig reads the YAML config at path and overlays environment
// variables.
func LoadConfig(path string) (Config, error) {
	return notemirror.LoadConfig(path)
}
