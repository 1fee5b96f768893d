package document

import (
	"github.com/chapool/go-docseal/internal/seal"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type recordsOutput struct {
	DocHash  string                `json:"doc_hash"`
	Count    uint32                `json:"count"`
	Records  []seal.OnChainRecord  `json:"records"`
	Metadata *seal.OnChainMetadata `json:"metadata"`
}

func newRecords() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records <doc_hash>",
		Short: "Prints the seals and signer metadata the contract holds for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			ctx := cmd.Context()
			docHash := args[0]

			account, err := resolveAccount(cmd, cfg)
			if err != nil {
				return err
			}

			svc, err := newService(cfg, nil)
			if err != nil {
				return err
			}

			count, ok := svc.CountDocuments(ctx, docHash, account)
			if !ok {
				return errors.New("failed to query count_documents")
			}

			records, ok := svc.GetDocuments(ctx, docHash, account)
			if !ok {
				return errors.New("failed to query get_documents")
			}

			metadata, ok := svc.GetMetadata(ctx, docHash, account)
			if !ok {
				return errors.New("failed to query get_metadata")
			}

			return printJSON(cmd, recordsOutput{
				DocHash:  docHash,
				Count:    count,
				Records:  records,
				Metadata: metadata,
			})
		},
	}

	cmd.Flags().String(accountFlag, "", "Account used as the simulation source.")

	return cmd
}
