package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gucfop/internal/timeseries"
)

func newQueryCommand(a *app) *cobra.Command {
	var (
		flux string
		raw  bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a Flux query and print the result as TSV",
		Long: `Run a Flux query against the configured organisation.

By default the result is normalised: the result and table columns are
dropped and _time becomes a leading unix_epoch_s column. Use --raw to
print every column unchanged.`,
		Example: `  gucfop query --flux 'from(bucket:"points") |> range(start:-1h)'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.influx(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeInflux(client)

			var table timeseries.Table
			if raw {
				table, err = client.Query(cmd.Context(), flux)
			} else {
				table, err = client.QueryNormalized(cmd.Context(), flux)
			}
			if err != nil {
				return err
			}
			return writeTSV(a.stdout, table)
		},
	}

	cmd.Flags().StringVar(&flux, "flux", "", "Flux query")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the result without normalisation")
	_ = cmd.MarkFlagRequired("flux")
	return cmd
}

// writeTSV prints a header row followed by one line per table row.
func writeTSV(w io.Writer, table timeseries.Table) error {
	tw := csv.NewWriter(w)
	tw.Comma = '\t'

	if err := tw.Write(table.Columns); err != nil {
		return err
	}
	line := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i := range line {
			line[i] = ""
			if i < len(row) {
				line[i] = formatCell(row[i])
			}
		}
		if err := tw.Write(line); err != nil {
			return err
		}
	}
	tw.Flush()
	return tw.Error()
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(t)
	}
}
