package compare

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/xuenqlve/rangekit/errors"
)

const (
	Greater = 1
	Less    = -1
	Equal   = 0
)

// Compare 比较数据源返回的两个值，nil 最小。
// 不同的数值类型统一按 float64 比较，其它类型不一致时返回错误
func Compare(left, right any) (int, error) {
	switch {
	case left == nil && right == nil:
		return Equal, nil
	case left == nil:
		return Less, nil
	case right == nil:
		return Greater, nil
	}

	switch lv := left.(type) {
	case string:
		if rv, ok := right.(string); ok {
			return strings.Compare(lv, rv), nil
		}
	case []byte:
		if rv, ok := right.([]byte); ok {
			return bytes.Compare(lv, rv), nil
		}
	case bool:
		if rv, ok := right.(bool); ok {
			return compareBool(lv, rv), nil
		}
	case time.Time:
		if rv, ok := right.(time.Time); ok {
			return lv.Compare(rv), nil
		}
	case int64:
		// 同为 int64 时不经过 float64，避免大整数丢精度
		if rv, ok := right.(int64); ok {
			return cmp.Compare(lv, rv), nil
		}
	case uint64:
		if rv, ok := right.(uint64); ok {
			return cmp.Compare(lv, rv), nil
		}
	}

	leftNum, leftIsNum := toFloat64(left)
	rightNum, rightIsNum := toFloat64(right)
	if leftIsNum && rightIsNum {
		return cmp.Compare(leftNum, rightNum), nil
	}
	return 0, errors.Errorf("[Compare] type error left:%v type %T, right:%v type %T", left, left, right, right)
}

// Columns 依次比较 columns 上的值，第一个不相等的列决定结果
func Columns(columns []string, left, right map[string]any) (int, error) {
	for _, column := range columns {
		leftValue, ok := left[column]
		if !ok {
			return 0, fmt.Errorf("column %s not found in %v", column, left)
		}
		rightValue, ok := right[column]
		if !ok {
			return 0, fmt.Errorf("column %s not found in %v", column, right)
		}
		flag, err := Compare(leftValue, rightValue)
		if err != nil {
			return 0, errors.Annotatef(err, "column %s", column)
		}
		if flag != Equal {
			return flag, nil
		}
	}
	return Equal, nil
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return Equal
	case a:
		return Greater
	}
	return Less
}

func toFloat64(val any) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
