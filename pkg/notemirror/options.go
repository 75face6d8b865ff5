package notemirror

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/notemirror/notemirror/pkg/core"
)

// options holds the internal configuration for the mirror.
type options struct {
	token      string
	persistDir string
	pageLimit  int
	maxPages   int
	timeout    time.Duration
	origins    map[core.Kind][]string
	store      core.Store
	creds      core.CredentialProvider
	httpClient *http.Client
	logger     *slog.Logger
}

// Option defines a functional option for configuring the mirror.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithToken sets a static bearer credential.
func WithToken(token string) Option {
	return func(o *options) {
		o.token = token
	}
}

// WithCredentials injects a custom credential provider. Takes precedence
// over WithToken.
func WithCredentials(creds core.CredentialProvider) Option {
	return func(o *options) {
		o.creds = creds
	}
}

// WithPersistence stores snapshots under dir so the mirror survives
// restarts. Without it the mirror is in-memory only.
func WithPersistence(dir string) Option {
	return func(o *options) {
		o.persistDir = dir
	}
}

// WithStore injects a custom mirror store. Takes precedence over
// WithPersistence.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithPageLimit overrides the fetch page size.
func WithPageLimit(limit int) Option {
	return func(o *options) {
		o.pageLimit = limit
	}
}

// WithMaxPages overrides the fetch page ceiling.
func WithMaxPages(pages int) Option {
	return func(o *options) {
		o.maxPages = pages
	}
}

// WithTimeout overrides the remote call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithOrigins sets the per-kind origin patterns consumers are matched
// against at broadcast time.
func WithOrigins(origins map[core.Kind][]string) Option {
	return func(o *options) {
		o.origins = origins
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
