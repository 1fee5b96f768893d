package probe

import (
	"context"
	"os"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/chapool/go-docseal/internal/config"
	"github.com/chapool/go-docseal/internal/soroban/rpc"
	"github.com/chapool/go-docseal/internal/util/command"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs readiness probes",
		Long: `Resolves the Soroban RPC node and checks its version.

Exits with a non-zero code if no usable node is found.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				log.Fatal().Err(err).Msgf("Failed to parse args")
			}

			if err := runReadiness(cmd.Context(), verbose); err != nil {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func runReadiness(ctx context.Context, verbose bool) error {
	cfg := config.DefaultServiceConfigFromEnv()
	command.ConfigureLogger(cfg)

	ctx, cancel := context.WithTimeout(ctx, cfg.Management.ReadinessTimeout)
	defer cancel()

	loader := api.NewLoader(cfg)

	client, err := loader.Client(ctx)
	if err != nil {
		log.Warn().Err(err).Strs("sources", loader.Sources()).Msg("Readiness probe failed, no ledger client")
		return err
	}

	info, err := rpc.CheckVersion(ctx, client, cfg.Soroban.MinRPCVersion)
	if err != nil {
		log.Warn().Err(err).Str("url", client.URL()).Msg("Readiness probe failed, RPC node version check")
		return err
	}

	if verbose {
		log.Info().
			Str("url", client.URL()).
			Str("version", info.Version).
			Uint32("protocol_version", info.ProtocolVersion).
			Msg("Readiness probe succeeded")
	}

	return nil
}
