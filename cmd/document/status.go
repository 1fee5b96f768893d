package document

import (
	"github.com/spf13/cobra"
)

func newStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status <tx_hash>",
		Short: "Prints the current status of a submitted transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			svc, err := newService(cfg, nil)
			if err != nil {
				return err
			}

			tx, err := svc.TransactionStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printJSON(cmd, tx)
		},
	}
}
