package common_test

import (
	"net/http"
	"testing"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/chapool/go-docseal/internal/test"
	"github.com/chapool/go-docseal/internal/test/sorobantest"
	"github.com/stretchr/testify/require"
)

func TestGetReadyReadiness(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		require.Equal(t, "Ready.", res.Body.String())
	})
}

func TestGetReadyReadinessBroken(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		// forcefully remove an initialized component to check if ready state works
		s.Registry = nil

		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, 521, res.Result().StatusCode)
		require.Equal(t, "Not ready.", res.Body.String())
	})
}

func TestGetReadyLedgerUnhealthyNotReady(t *testing.T) {
	test.WithTestLedger(t, func(s *api.Server, ledger test.Ledger) {
		ledger.Node.Update(func(n *sorobantest.Node) {
			n.HealthStatus = "unhealthy"
		})

		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, 521, res.Result().StatusCode)
		require.Equal(t, "Not ready.", res.Body.String())
	})
}

func TestGetReadyOldNodeNotReady(t *testing.T) {
	test.WithTestLedger(t, func(s *api.Server, ledger test.Ledger) {
		ledger.Node.Update(func(n *sorobantest.Node) {
			n.Version = "21.4.0"
		})

		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, 521, res.Result().StatusCode)
	})
}
