package clickhouse

import (
	"context"
	"reflect"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/xuenqlve/rangekit/chunk"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/fetch"
	"github.com/xuenqlve/rangekit/ranges"
)

type querier interface {
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
}

// rowScanner 是 driver.Rows 中扫描需要的部分
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	ColumnTypes() []driver.ColumnType
	Err() error
}

type Fetcher[T ranges.Number] struct {
	conn  querier
	query chunk.Query
}

var _ fetch.Fetcher[int64] = (*Fetcher[int64])(nil)

func NewFetcher[T ranges.Number](conn driver.Conn, query chunk.Query) (*Fetcher[T], error) {
	if !query.Valid() {
		return nil, errors.NewRangeErrorMessage(errors.ErrCodeConfig, "clickhouse query needs table and time-column")
	}
	return &Fetcher[T]{conn: conn, query: query}, nil
}

func (f *Fetcher[T]) Fetch(ctx context.Context, req fetch.Request[T]) ([]fetch.Row, error) {
	query, args := chunk.BuildSelect(&f.query, req.Key, req.Range, req.Samples)
	rows, err := f.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Annotatef(err, "query %s", query)
	}
	defer rows.Close()
	return scanRows(rows)
}

// scanRows 按列的 ScanType 分配目标变量，ClickHouse 驱动不接受 *any
func scanRows(rows rowScanner) ([]fetch.Row, error) {
	columnTypes := rows.ColumnTypes()
	result := make([]fetch.Row, 0)
	for rows.Next() {
		dest := make([]any, len(columnTypes))
		for i, ct := range columnTypes {
			dest[i] = reflect.New(ct.ScanType()).Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Trace(err)
		}
		row := make(fetch.Row, len(columnTypes))
		for i, ct := range columnTypes {
			row[ct.Name()] = reflect.ValueOf(dest[i]).Elem().Interface()
		}
		result = append(result, row)
	}
	return result, errors.Trace(rows.Err())
}
