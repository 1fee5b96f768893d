//go:build wireinject

package api

import (
	"testing"

	"github.com/chapool/go-docseal/internal/config"
	"github.com/chapool/go-docseal/internal/metrics"
	"github.com/chapool/go-docseal/internal/soroban/rpc"
	"github.com/google/wire"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	NewWalletProvider,
	NewSealService,
	NewRegistry,
	metrics.New,
	NewClock,
)

// InitNewServer returns a new Server instance.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, NewLoader, NoTest)
	return new(Server), nil
}

// InitNewServerWithLoader returns a new Server instance resolving ledger access
// through the given loader. All the other components are initialized via go wire
// according to the configuration.
func InitNewServerWithLoader(
	_ config.Server,
	_ *rpc.Loader,
	t ...*testing.T,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
