package document

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newHas() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "has <doc_hash>",
		Short: "Asks the contract whether a document hash has been sealed",
		Long: `Simulates a has_document call. Prints true, false or unknown; unknown
exits with code 2.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			account, err := resolveAccount(cmd, cfg)
			if err != nil {
				return err
			}

			svc, err := newService(cfg, nil)
			if err != nil {
				return err
			}

			exists := svc.HasDocument(cmd.Context(), args[0], account)
			if exists == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "unknown")
				os.Exit(2)
			}

			fmt.Fprintln(cmd.OutOrStdout(), *exists)
			return nil
		},
	}

	cmd.Flags().String(accountFlag, "", "Account used as the simulation source.")

	return cmd
}
