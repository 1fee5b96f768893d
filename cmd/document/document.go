package document

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/chapool/go-docseal/internal/api"
	"github.com/chapool/go-docseal/internal/config"
	"github.com/chapool/go-docseal/internal/seal"
	"github.com/chapool/go-docseal/internal/util/command"
	"github.com/chapool/go-docseal/internal/wallet"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	stellarkp "github.com/stellar/go/keypair"
)

const (
	accountFlag = "account"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("document",
		newHash(),
		newHas(),
		newRecords(),
		newSeal(),
		newStatus(),
	)
}

func loadConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()
	command.ConfigureLogger(cfg)
	return cfg
}

// newService returns a seal service on the configured network. w may be nil
// for read-only use.
//
//nolint:ireturn
func newService(cfg config.Server, w wallet.Provider) (seal.Service, error) {
	return seal.NewService(api.SealConfig(cfg), seal.FromLoader(api.NewLoader(cfg)), w)
}

// resolveAccount returns the --account flag, falling back to the address of
// WALLET_SECRET_SEED.
func resolveAccount(cmd *cobra.Command, cfg config.Server) (string, error) {
	account, err := cmd.Flags().GetString(accountFlag)
	if err != nil {
		return "", err
	}

	if account = strings.TrimSpace(account); account != "" {
		return account, nil
	}

	if cfg.Wallet.SecretSeed != "" {
		kp, err := stellarkp.ParseFull(cfg.Wallet.SecretSeed)
		if err != nil {
			return "", errors.Wrap(err, "invalid WALLET_SECRET_SEED")
		}
		return kp.Address(), nil
	}

	return "", errors.New("--account is required without WALLET_SECRET_SEED")
}

// readSecret returns WALLET_SECRET_SEED or prompts for the seed on the
// terminal without echoing it.
func readSecret(cfg config.Server) (string, error) {
	if cfg.Wallet.SecretSeed != "" {
		return cfg.Wallet.SecretSeed, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("WALLET_SECRET_SEED is not set and stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "Secret seed: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "failed to read secret seed")
	}

	return strings.TrimSpace(string(raw)), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
