package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/trezcool/learnerair/core/activity"
)

func (cli *commandLine) statsCmd() *cobra.Command {
	var filter activity.Filter

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the aggregated rewards & sanctions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, stats, err := cli.ledger.Stats(cmd.Context(), filter)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&filter.Type, "type", "", "One of all, reward, sanction")
	flags.StringVar(&filter.Date, "date", "", "A yyyy-mm-dd date")
	flags.StringVar(&filter.YearGroup, "year", "", "A year group")
	flags.StringVar(&filter.Class, "class", "", "A class")
	return cmd
}
