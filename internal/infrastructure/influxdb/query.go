package influxdb

import (
	"context"
	"fmt"

	"github.com/nerrad567/gucfop/internal/timeseries"
)

// Query runs a Flux query against the configured organisation and
// returns the result flattened into one table.
//
// Column order follows first appearance across the result's tables.
// Cells for columns a record's table lacks are nil.
func (c *Client) Query(ctx context.Context, flux string) (timeseries.Table, error) {
	if !c.IsConnected() {
		return timeseries.Table{}, ErrNotConnected
	}

	result, err := c.client.QueryAPI(c.cfg.Org).Query(ctx, flux)
	if err != nil {
		return timeseries.Table{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer result.Close() //nolint:errcheck // read-only response body

	var table timeseries.Table
	index := make(map[string]int)

	for result.Next() {
		if result.TableChanged() {
			for _, col := range result.TableMetadata().Columns() {
				name := col.Name()
				if name == "" {
					continue
				}
				if _, ok := index[name]; !ok {
					index[name] = len(table.Columns)
					table.Columns = append(table.Columns, name)
				}
			}
		}

		row := make([]any, len(table.Columns))
		for name, value := range result.Record().Values() {
			if i, ok := index[name]; ok {
				row[i] = value
			}
		}
		table.Rows = append(table.Rows, row)
	}
	if err := result.Err(); err != nil {
		return timeseries.Table{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	// Rows read before a later table added columns are short.
	for i, row := range table.Rows {
		if len(row) < len(table.Columns) {
			table.Rows[i] = append(row, make([]any, len(table.Columns)-len(row))...)
		}
	}

	return table, nil
}

// QueryNormalized runs a Flux query and normalises the result with
// timeseries.NormalizeQueryResult.
func (c *Client) QueryNormalized(ctx context.Context, flux string) (timeseries.Table, error) {
	table, err := c.Query(ctx, flux)
	if err != nil {
		return timeseries.Table{}, err
	}
	return timeseries.NormalizeQueryResult(table), nil
}
