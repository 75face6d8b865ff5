package notemirror

import (
	"fmt"

	"github.com/notemirror/notemirror/pkg/adapters/disk"
	"github.com/notemirror/notemirror/pkg/adapters/memory"
	"github.com/notemirror/notemirror/pkg/adapters/rest"
	"github.com/notemirror/notemirror/pkg/broadcast"
	"github.com/notemirror/notemirror/pkg/core"
)

// Mirror is the assembled cache-coherence core: the coordinating service
// plus the collaborators callers interact with directly.
type Mirror struct {
	*core.Service

	// Store is the local mirror backing the service.
	Store core.Store

	// Propagator is the broadcast fan-out; register consumers here.
	Propagator *broadcast.Propagator
}

// New wires a Mirror against the annotation service at baseURL.
//
//	m, err := notemirror.New("https://api.example.com",
//		notemirror.WithToken(token),
//		notemirror.WithPersistence(dir),
//		notemirror.WithLogger(logger),
//	)
func New(baseURL string, opts ...Option) (*Mirror, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("notemirror: base URL is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store := o.store
	if store == nil {
		if o.persistDir != "" {
			var err error
			store, err = disk.New(disk.Config{BasePath: o.persistDir, Logger: o.logger})
			if err != nil {
				return nil, fmt.Errorf("notemirror: init persistent store: %w", err)
			}
		} else {
			store = memory.New()
		}
	}

	creds := o.creds
	if creds == nil {
		creds = StaticCredentials(o.token)
	}

	client := rest.NewClient(rest.Config{
		BaseURL:    baseURL,
		Timeout:    o.timeout,
		PageLimit:  o.pageLimit,
		MaxPages:   o.maxPages,
		HTTPClient: o.httpClient,
		Logger:     o.logger,
	})

	propagator := broadcast.New(o.origins, o.logger)
	service := core.NewService(store, client, client, creds, propagator, o.logger)

	return &Mirror{
		Service:    service,
		Store:      store,
		Propagator: propagator,
	}, nil
}

// FromConfig assembles a Mirror from a loaded Config.
func FromConfig(cfg Config, opts ...Option) (*Mirror, error) {
	origins, err := cfg.OriginPatterns()
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithToken(cfg.Token),
		WithPageLimit(cfg.PageLimit),
		WithMaxPages(cfg.MaxPages),
		WithTimeout(cfg.Timeout.Std()),
		WithOrigins(origins),
	}
	if cfg.DataDir != "" {
		base = append(base, WithPersistence(cfg.DataDir))
	}

	return New(cfg.BaseURL, append(base, opts...)...)
}
