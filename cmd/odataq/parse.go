package main

import (
	"encoding/json"
	"errors"

	"github.com/phrazzld/odata-api/internal/odata"
	"github.com/spf13/cobra"
)

// errQueryRejected makes the command exit non-zero after the error object
// has been printed.
var errQueryRejected = errors.New("query rejected")

func newParseCmd() *cobra.Command {
	var (
		decode bool
		indent bool
	)

	cmd := &cobra.Command{
		Use:   "parse <query>",
		Short: "Parse a query string and print the result as JSON",
		Example: `  odataq parse '$filter=lastName eq ''Smith''&$top=5'
  odataq parse --decode '$filter=pid%20gt%2010'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outcome odata.Outcome
			if decode {
				outcome = odata.DecodeAndParse(args[0])
			} else {
				outcome = odata.NewOutcome(args[0])
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if indent {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(outcome); err != nil {
				return err
			}

			if !outcome.OK() {
				return errQueryRejected
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&decode, "decode", false, "percent-decode the query string first, as the server does")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent the JSON output")
	return cmd
}
