package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/chapool/go-docseal/internal/test"
	"github.com/chapool/go-docseal/internal/util/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithServer(t *testing.T) {
	test.WithTestLedger(t, func(s *api.Server, ledger test.Ledger) {
		ctx := t.Context()

		var testError = errors.New("test error")

		s.Config.Logger.PrettyPrintConsole = false
		resultErr := command.WithServer(ctx, s.Config, func(ctx context.Context, s *api.Server) error {
			client, err := s.Loader.Client(ctx)
			require.NoError(t, err)

			assert.Equal(t, ledger.Node.URL(), client.URL())
			assert.NotNil(t, s.Wallet)

			return testError
		})

		assert.Equal(t, testError, resultErr)
	})
}

func TestNewSubcommandGroup(t *testing.T) {
	group := command.NewSubcommandGroup("probe", command.NewSubcommandGroup("liveness"))

	assert.Equal(t, "probe", group.Use)
	require.Len(t, group.Commands(), 1)
	assert.Equal(t, "liveness", group.Commands()[0].Use)
}
