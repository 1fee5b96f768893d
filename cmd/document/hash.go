package document

import (
	"fmt"
	"os"

	"github.com/chapool/go-docseal/internal/seal"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const vcTextFlag = "vc-text"

func newHash() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash <file>",
		Short: "Prints the document hash of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "failed to open document")
			}
			defer f.Close()

			docHash, err := seal.DigestReader(f)
			if err != nil {
				return errors.Wrap(err, "failed to hash document")
			}

			fmt.Fprintln(cmd.OutOrStdout(), docHash)

			if cmd.Flags().Changed(vcTextFlag) {
				vcText, err := cmd.Flags().GetString(vcTextFlag)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), seal.DigestText(vcText))
			}

			return nil
		},
	}

	cmd.Flags().String(vcTextFlag, "", "Also print the hash of this credential text.")

	return cmd
}
