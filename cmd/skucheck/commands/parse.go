package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"skucheck/internal/quantity"
	api "skucheck/pkg/contracts/api/v1"
)

func parseCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse DESCRIPTION...",
		Short: "Print the packaged quantity found in each description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := quantity.New()
			resp := api.ParseResponse{Results: make([]api.ParseResult, len(args))}
			for i, d := range args {
				resp.Results[i] = api.ParseResult{Description: d, Quantity: parser.Parse(d)}
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DESCRIÇÃO\tTRECHO\tQUANTIDADE\tTIPO")
			for _, r := range resp.Results {
				amount := "-"
				if r.Quantity.Found() {
					amount = fmt.Sprintf("%d", r.Quantity.Normalized)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Description, r.Quantity.MatchedText, amount, r.Quantity.Kind)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the results as JSON")
	return cmd
}
