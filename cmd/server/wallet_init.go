package server

import (
	"context"
	"time"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/chapool/go-docseal/internal/wallet"
	"github.com/rs/zerolog/log"
)

const (
	walletConnectTimeout = 30 * time.Second

	// Interval the registry gauges are refreshed at, seals update them
	// immediately as well.
	registryMetricsInterval = 30 * time.Second
)

// connectWallet runs the wallet connect handshake so a misconfigured wallet
// shows up at startup. Failures are logged, chain seals then fail with
// ErrWalletUnavailable until the wallet becomes reachable.
func connectWallet(ctx context.Context, s *api.Server) {
	if s.Wallet == nil {
		log.Warn().Msg("No wallet provider configured, skipping wallet connect")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, walletConnectTimeout)
	defer cancel()

	address, err := wallet.Connect(ctx, s.Wallet, s.Config.Wallet.ExpectedNetwork)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect wallet")
		return
	}

	log.Info().Str("address", address).Str("network", s.Config.Soroban.Network).Msg("Wallet connected")
}

// runRegistryMetrics keeps the registry gauges current until ctx is done.
func runRegistryMetrics(ctx context.Context, s *api.Server) {
	ticker := time.NewTicker(registryMetricsInterval)
	defer ticker.Stop()

	for {
		s.Metrics.SetRegistrySize(s.Registry.Stats())

		select {
		case <-ctx.Done():
			log.Debug().Msg("Stopping registry metrics worker")
			return
		case <-ticker.C:
		}
	}
}
