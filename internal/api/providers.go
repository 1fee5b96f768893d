package api

import (
	"testing"
	"time"

	"github.com/chapool/go-docseal/internal/config"
	"github.com/chapool/go-docseal/internal/metrics"
	"github.com/chapool/go-docseal/internal/registry"
	"github.com/chapool/go-docseal/internal/seal"
	"github.com/chapool/go-docseal/internal/soroban/rpc"
	"github.com/chapool/go-docseal/internal/wallet"
	"github.com/chapool/go-docseal/internal/wallet/keypair"
	"github.com/chapool/go-docseal/internal/wallet/remote"
	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// PROVIDERS - https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

// NoTest is used by the production injector, which has no *testing.T to pass.
func NoTest() []*testing.T {
	return nil
}

// NewClock returns the wall clock, or a mock clock frozen at a fixed date
// when a *testing.T is passed.
//
//nolint:ireturn
func NewClock(t ...*testing.T) time2.Clock {
	var clock time2.Clock

	useMock := len(t) > 0 && t[0] != nil

	if useMock {
		clock = time2.NewMockClock(time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC))
	} else {
		clock = time2.DefaultClock
	}

	return clock
}

func NewLoader(cfg config.Server) *rpc.Loader {
	return rpc.NewLoader(cfg.Soroban.NetworkPassphrase, cfg.Soroban.RPCURLs,
		rpc.WithFallback(cfg.Soroban.LocalRPCURL),
		rpc.WithProbeTimeout(cfg.Soroban.ProbeTimeout),
		rpc.WithHTTPClient(rpc.NewHTTPClient(cfg.Soroban.RequestTimeout)),
	)
}

// NewWalletProvider returns the provider selected by WALLET_PROVIDER, nil for "none".
//
//nolint:ireturn
func NewWalletProvider(cfg config.Server) (wallet.Provider, error) {
	switch cfg.Wallet.Provider {
	case config.WalletProviderKeypair:
		p, err := keypair.New(cfg.Wallet.SecretSeed, cfg.Soroban.NetworkPassphrase)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create keypair wallet")
		}
		log.Info().Str("address", p.Address()).Msg("Using keypair wallet")
		return p, nil
	case config.WalletProviderRemote:
		opts := []remote.Option{}
		if cfg.Wallet.RequestTimeout > 0 {
			opts = append(opts, remote.WithHTTPClient(rpc.NewHTTPClient(cfg.Wallet.RequestTimeout)))
		}

		p, err := remote.New(cfg.Wallet.RemoteEndpoint, cfg.Wallet.RemoteAPIKey, opts...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create remote wallet")
		}
		return p, nil
	case config.WalletProviderNone, "":
		log.Warn().Msg("No wallet provider configured, chain seals are disabled")
		return nil, nil
	default:
		return nil, errors.Errorf("unknown wallet provider %q", cfg.Wallet.Provider)
	}
}

//nolint:ireturn
func NewSealService(cfg config.Server, loader *rpc.Loader, w wallet.Provider, m *metrics.Service) (seal.Service, error) {
	return seal.NewService(SealConfig(cfg), seal.FromLoader(loader), w, seal.WithRecorder(m))
}

// SealConfig maps the server config onto the seal workflow's config.
func SealConfig(cfg config.Server) seal.Config {
	return seal.Config{
		ContractID:        cfg.Soroban.ContractID,
		NetworkPassphrase: cfg.Soroban.NetworkPassphrase,
		BaseFee:           cfg.Soroban.BaseFee,
		TxTimeout:         cfg.Soroban.TxTimeout,
		QueryTimeout:      cfg.Soroban.QueryTimeout,
		ServiceFee: seal.ServiceFee{
			Enabled:     cfg.Soroban.ServiceFee.Enabled,
			Destination: cfg.Soroban.ServiceFee.Destination,
			Amount:      cfg.Soroban.ServiceFee.Amount,
		},
		Poll: seal.RetryPolicy{
			Interval:    cfg.Soroban.PollInterval,
			MaxAttempts: cfg.Soroban.PollMaxAttempts,
		},
	}
}

func NewRegistry(clock time2.Clock) *registry.Registry {
	return registry.New(clock)
}
