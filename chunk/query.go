package chunk

import (
	"github.com/xuenqlve/rangekit/ranges"
)

// Query 描述如何把一次区间请求翻译成 SQL，MySQL 和 ClickHouse 共用
type Query struct {
	Schema     string   `toml:"schema" json:"schema" yaml:"schema"`
	Table      string   `toml:"table" json:"table" yaml:"table"`
	KeyColumn  string   `toml:"key-column" json:"key-column" yaml:"key-column"`
	TimeColumn string   `toml:"time-column" json:"time-column" yaml:"time-column"`
	Columns    []string `toml:"columns" json:"columns" yaml:"columns"`
	// 额外的 WHERE 条件，原样拼接
	Filter string `toml:"filter" json:"filter" yaml:"filter"`
}

func (q *Query) Valid() bool {
	return q.Table != "" && q.TimeColumn != ""
}

// BuildSelect returns the statement and args selecting r for key, ordered by
// the time column and limited to samples rows when samples > 0.
func BuildSelect[T ranges.Number](q *Query, key string, r ranges.Range[T], samples int) (string, []any) {
	c := FromRange(q.KeyColumn, key, q.TimeColumn, r)
	query, args := SelectSQL(TableName(q.Schema, q.Table), q.Columns, c, q.Filter, q.TimeColumn)
	if samples > 0 {
		query += " LIMIT ?"
		args = append(args, samples)
	}
	return query, args
}
