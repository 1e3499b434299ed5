package fetch

import (
	"slices"

	"github.com/xuenqlve/rangekit/compare"
	"github.com/xuenqlve/rangekit/ranges"
)

// MergeRows 拼接成功请求的数据，orderBy 不为空时按这些列稳定排序。
// 失败的请求被跳过。
func MergeRows[T ranges.Number](results []Result[T], orderBy ...string) ([]Row, error) {
	var rows []Row
	for _, r := range results {
		if r.Err == nil {
			rows = append(rows, r.Rows...)
		}
	}
	if len(orderBy) == 0 || len(rows) < 2 {
		return rows, nil
	}

	var sortErr error
	slices.SortStableFunc(rows, func(a, b Row) int {
		flag, err := compare.Columns(orderBy, a, b)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return flag
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return rows, nil
}
