package document

import (
	"fmt"
	"os"
	"strings"

	"github.com/chapool/go-docseal/internal/seal"
	"github.com/chapool/go-docseal/internal/wallet"
	"github.com/chapool/go-docseal/internal/wallet/keypair"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type sealFlags struct {
	DocType        string
	VCText         string
	BusinessID     string
	StudentName    string
	AllowedSigners []string
	MaxSigners     int64
	SignerType     int64
	FirstSeal      bool
}

func newSeal() *cobra.Command {
	var flags sealFlags

	cmd := &cobra.Command{
		Use:   "seal <file>",
		Short: "Seals a document on the contract",
		Long: `Hashes the file, builds a seal_document call, signs it with the key from
WALLET_SECRET_SEED (prompted for when unset), submits it and waits for the
ledger to confirm it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			ctx := cmd.Context()

			secret, err := readSecret(cfg)
			if err != nil {
				return err
			}

			w, err := keypair.New(secret, cfg.Soroban.NetworkPassphrase)
			if err != nil {
				return err
			}

			signer, err := wallet.Connect(ctx, w, cfg.Wallet.ExpectedNetwork)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "failed to open document")
			}
			defer f.Close()

			payload, err := seal.NewPayload(seal.Form{
				Document:       f,
				Signer:         signer,
				DocType:        flags.DocType,
				VCText:         flags.VCText,
				BusinessID:     flags.BusinessID,
				StudentName:    flags.StudentName,
				AllowedSigners: strings.Join(flags.AllowedSigners, "\n"),
				MaxSigners:     flags.MaxSigners,
				SignerType:     flags.SignerType,
				FirstSeal:      flags.FirstSeal,
			})
			if err != nil {
				return err
			}

			svc, err := newService(cfg, w)
			if err != nil {
				return err
			}

			log.Info().Str("doc_hash", payload.DocHash).Str("signer", signer).Msg("Submitting seal")

			result, err := svc.SubmitSeal(ctx, *payload, signer)
			if err != nil {
				if result != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "transaction %s did not confirm\n", result.Hash)
				}
				return err
			}

			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&flags.DocType, "doc-type", seal.DefaultDocType, "Document type.")
	cmd.Flags().StringVar(&flags.VCText, vcTextFlag, "", "Verifiable credential text, hashed into vc_hash.")
	cmd.Flags().StringVar(&flags.BusinessID, "business-id", "", "Business identifier.")
	cmd.Flags().StringVar(&flags.StudentName, "student-name", "", "Student name, required on the first seal.")
	cmd.Flags().StringSliceVar(&flags.AllowedSigners, "allowed-signer", nil, "Account allowed to seal the document, repeatable. The signer is always added.")
	cmd.Flags().Int64Var(&flags.MaxSigners, "max-signers", 2, "Maximum number of seals, at least the number of allowed signers.")
	cmd.Flags().Int64Var(&flags.SignerType, "signer-type", seal.SignerTypeUser, "Signer type, 0 user or 1 business. Forced to 1 on the first seal.")
	cmd.Flags().BoolVar(&flags.FirstSeal, "first", false, "This is the first seal of the document.")

	return cmd
}
