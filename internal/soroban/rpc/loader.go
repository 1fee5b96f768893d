package rpc

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const DefaultProbeTimeout = 10 * time.Second

var ErrSDKUnavailable = errors.New("ledger client unavailable")

// Loader resolves the RPC client used for ledger access. Sources are tried
// in order (configured URLs, then the local fallback) and the first healthy
// node on the expected network wins. Resolution happens at most once; its
// outcome, including a failure, is kept for the lifetime of the Loader.
type Loader struct {
	passphrase   string
	urls         []string
	fallbackURL  string
	httpClient   *http.Client
	probeTimeout time.Duration
	preset       *Client

	once   sync.Once
	client *Client
	err    error
}

type LoaderOption func(*Loader)

// WithPreset makes the loader return c without probing anything.
func WithPreset(c *Client) LoaderOption {
	return func(l *Loader) {
		l.preset = c
	}
}

// WithFallback sets the URL of a local node tried after all configured URLs.
func WithFallback(url string) LoaderOption {
	return func(l *Loader) {
		l.fallbackURL = url
	}
}

func WithHTTPClient(httpClient *http.Client) LoaderOption {
	return func(l *Loader) {
		l.httpClient = httpClient
	}
}

func WithProbeTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.probeTimeout = d
	}
}

// NewLoader creates a loader for the network identified by passphrase. An
// empty passphrase skips the network check.
func NewLoader(passphrase string, urls []string, opts ...LoaderOption) *Loader {
	l := &Loader{
		passphrase:   passphrase,
		urls:         urls,
		probeTimeout: DefaultProbeTimeout,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.httpClient == nil {
		l.httpClient = NewHTTPClient(DefaultRequestTimeout)
	}

	return l
}

// Client returns the resolved client, resolving it on first use.
func (l *Loader) Client(ctx context.Context) (*Client, error) {
	if l.preset != nil {
		return l.preset, nil
	}

	l.once.Do(func() {
		// The outcome is shared by every later caller, so the first caller's
		// cancellation must not decide it.
		l.client, l.err = l.resolve(context.WithoutCancel(ctx))
	})

	return l.client, l.err
}

// Sources lists the URLs in the order they are probed.
func (l *Loader) Sources() []string {
	sources := make([]string, 0, len(l.urls)+1)
	seen := make(map[string]struct{}, len(l.urls)+1)

	for _, url := range append(append([]string{}, l.urls...), l.fallbackURL) {
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		sources = append(sources, url)
	}

	return sources
}

func (l *Loader) resolve(ctx context.Context) (*Client, error) {
	sources := l.Sources()
	if len(sources) == 0 {
		return nil, errors.Wrap(ErrSDKUnavailable, "no RPC sources configured")
	}

	var result *multierror.Error

	for _, url := range sources {
		c := NewClient(url, l.httpClient)

		if err := l.probe(ctx, c); err != nil {
			_ = c.Close()
			log.Warn().Str("url", url).Err(err).Msg("Soroban RPC source unavailable, trying next")
			result = multierror.Append(result, errors.WithMessage(err, url))
			continue
		}

		log.Info().Str("url", url).Msg("Resolved Soroban RPC source")
		return c, nil
	}

	return nil, errors.Wrap(ErrSDKUnavailable, result.Error())
}

func (l *Loader) probe(ctx context.Context, c *Client) error {
	ctx, cancel := context.WithTimeout(ctx, l.probeTimeout)
	defer cancel()

	health, err := c.GetHealth(ctx)
	if err != nil {
		return err
	}

	if health.Status != HealthStatusHealthy {
		return errors.Errorf("node reports status %q", health.Status)
	}

	if l.passphrase == "" {
		return nil
	}

	network, err := c.GetNetwork(ctx)
	if err != nil {
		return err
	}

	if network.Passphrase != l.passphrase {
		return errors.Errorf("node is on network %q, expected %q", network.Passphrase, l.passphrase)
	}

	return nil
}
