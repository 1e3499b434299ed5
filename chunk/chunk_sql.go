package chunk

import (
	"fmt"
	"strings"
)

const (
	lt  = "<"
	gte = ">="
)

// ColumnName 用反引号转义列名
func ColumnName(column string) string {
	return fmt.Sprintf("`%s`", strings.ReplaceAll(column, "`", "``"))
}

// TableName `schema`.`table`，schema 为空时只返回表名
func TableName(schema, table string) string {
	if schema == "" {
		return ColumnName(table)
	}
	return ColumnName(schema) + "." + ColumnName(table)
}

// WhereSQL 生成带占位符的 WHERE 条件，extra 为额外的过滤条件
func WhereSQL(chunk *Chunk, extra string) (where string, args []any) {
	conditions := make([]string, 0, len(chunk.Bounds)*2)
	args = make([]any, 0, len(chunk.Bounds)*2)
	for _, bound := range chunk.Bounds {
		column := ColumnName(bound.Column)
		if bound.equal() {
			conditions = append(conditions, fmt.Sprintf("%s = ?", column))
			args = append(args, bound.Lower)
			continue
		}
		if bound.HasLower {
			conditions = append(conditions, fmt.Sprintf("%s %s ?", column, gte))
			args = append(args, bound.Lower)
		}
		if bound.HasUpper {
			conditions = append(conditions, fmt.Sprintf("%s %s ?", column, lt))
			args = append(args, bound.Upper)
		}
	}

	where = strings.Join(conditions, " AND ")
	switch {
	case where == "":
		return extra, args
	case extra != "":
		return fmt.Sprintf("(%s) AND (%s)", where, extra), args
	}
	return where, args
}

// SelectSQL SELECT cols FROM table WHERE ... ORDER BY orderColumn
func SelectSQL(table string, columns []string, chunk *Chunk, extra, orderColumn string) (string, []any) {
	cols := "*"
	if len(columns) > 0 {
		escaped := make([]string, 0, len(columns))
		for _, column := range columns {
			escaped = append(escaped, ColumnName(column))
		}
		cols = strings.Join(escaped, ", ")
	}
	query := fmt.Sprintf("SELECT %s FROM %s", cols, table)
	where, args := WhereSQL(chunk, extra)
	if where != "" {
		query += " WHERE " + where
	}
	if orderColumn != "" {
		query += " ORDER BY " + ColumnName(orderColumn)
	}
	return query, args
}
