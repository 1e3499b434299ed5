package mysql

import (
	"context"
	"database/sql"

	"github.com/xuenqlve/rangekit/chunk"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/fetch"
	"github.com/xuenqlve/rangekit/ranges"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type Fetcher[T ranges.Number] struct {
	db    queryer
	query chunk.Query
}

var _ fetch.Fetcher[int64] = (*Fetcher[int64])(nil)

func NewFetcher[T ranges.Number](db *sql.DB, query chunk.Query) (*Fetcher[T], error) {
	if !query.Valid() {
		return nil, errors.NewRangeErrorMessage(errors.ErrCodeConfig, "mysql query needs table and time-column")
	}
	return &Fetcher[T]{db: db, query: query}, nil
}

func (f *Fetcher[T]) Fetch(ctx context.Context, req fetch.Request[T]) ([]fetch.Row, error) {
	query, args := chunk.BuildSelect(&f.query, req.Key, req.Range, req.Samples)
	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Annotatef(err, "query %s", query)
	}
	defer rows.Close()
	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]fetch.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Trace(err)
	}
	result := make([]fetch.Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err = rows.Scan(pointers...); err != nil {
			return nil, errors.Trace(err)
		}
		row := make(fetch.Row, len(columns))
		for i, column := range columns {
			row[column] = normalize(values[i])
		}
		result = append(result, row)
	}
	return result, errors.Trace(rows.Err())
}

// parseTime=false 时驱动返回 []byte
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
