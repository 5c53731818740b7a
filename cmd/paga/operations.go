package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/kod2ulz/paga-business/api"
	"github.com/spf13/cobra"
)

func newOperationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List supported operations and their signature fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tTRANSPORT\tSIGNATURE")
			for _, op := range api.Operations() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", op.Name, op.Transport, strings.Join(op.SignatureFields, ","))
			}
			return w.Flush()
		},
	}
}
