package gold

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-medallion/pkg/errors"
)

// SymbolStats aggregates one symbol of a gold file.
type SymbolStats struct {
	Symbol    string
	Rows      int64
	FirstDate string
	LastDate  string
	// MeanReturn is invalid when the symbol has no daily returns.
	MeanReturn sql.NullFloat64
}

// Summary describes a gold file.
type Summary struct {
	TotalRows int64
	Symbols   []SymbolStats
}

// Summarize queries a gold CSV file with an in-memory DuckDB.
func Summarize(ctx context.Context, path string) (*Summary, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to open duckdb", err)
	}
	defer db.Close()

	// Every column is read as text so an all-empty metric column keeps a usable type.
	view := fmt.Sprintf(`CREATE VIEW gold_metrics AS SELECT * FROM read_csv_auto('%s', header = true, all_varchar = true);`,
		strings.ReplaceAll(path, "'", "''"))

	if _, err := db.ExecContext(ctx, view); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read gold file %s", path)
	}

	query, args, err := squirrel.
		Select("symbol", "COUNT(*)", "MIN(date)", "MAX(date)", "AVG(TRY_CAST(NULLIF(daily_return, '') AS DOUBLE))").
		From("gold_metrics").
		GroupBy("symbol").
		OrderBy("symbol").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build summary query", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query gold file", err)
	}
	defer rows.Close()

	summary := &Summary{}

	for rows.Next() {
		var stats SymbolStats
		if err := rows.Scan(&stats.Symbol, &stats.Rows, &stats.FirstDate, &stats.LastDate, &stats.MeanReturn); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan summary row", err)
		}

		summary.TotalRows += stats.Rows
		summary.Symbols = append(summary.Symbols, stats)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate summary rows", err)
	}

	return summary, nil
}
