package probe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/chapool/go-docseal/internal/config"
	"github.com/chapool/go-docseal/internal/util/command"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs liveness probes",
		Long: `Checks that the local server answers /health.

Exits with a non-zero code if the server is not alive.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				log.Fatal().Err(err).Msgf("Failed to parse args")
			}

			if err := runLiveness(cmd.Context(), verbose); err != nil {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func runLiveness(ctx context.Context, verbose bool) error {
	cfg := config.DefaultServiceConfigFromEnv()
	command.ConfigureLogger(cfg)

	ctx, cancel := context.WithTimeout(ctx, cfg.Management.LivenessTimeout)
	defer cancel()

	url := healthURL(cfg.Echo.ListenAddress)

	if err := probeHealth(ctx, url); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("Liveness probe failed")
		return err
	}

	if verbose {
		log.Info().Str("url", url).Msg("Liveness probe succeeded")
	}

	return nil
}

func healthURL(listenAddress string) string {
	host, port, err := net.SplitHostPort(listenAddress)
	if err != nil {
		return "http://" + strings.TrimRight(listenAddress, "/") + "/health"
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}

	return fmt.Sprintf("http://%s/health", net.JoinHostPort(host, port))
}

func probeHealth(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "server unreachable")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d", res.StatusCode)
	}

	return nil
}
