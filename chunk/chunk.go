package chunk

import (
	"github.com/xuenqlve/rangekit/ranges"
)

// Bound 单列的扫描边界，范围条件为左闭右开 [Lower, Upper)，
// Lower == Upper 时退化为等值条件
type Bound struct {
	Column string
	Lower  any
	Upper  any

	HasLower bool
	HasUpper bool
}

func (b *Bound) equal() bool {
	return b.HasLower && b.HasUpper && b.Lower == b.Upper
}

// Chunk 一次分块查询的全部边界，按添加顺序生成条件
type Chunk struct {
	Bounds       []*Bound
	columnOffset map[string]int
}

func NewChunk() *Chunk {
	return &Chunk{
		Bounds:       make([]*Bound, 0, 2),
		columnOffset: make(map[string]int),
	}
}

// FromRange 生成 keyColumn = key AND column in [r.Start, r.End) 的分块，
// keyColumn 为空时只有时间范围
func FromRange[T ranges.Number](keyColumn, key, column string, r ranges.Range[T]) *Chunk {
	c := NewChunk()
	if keyColumn != "" {
		c.Equal(keyColumn, key)
	}
	return c.Update(column, r.Start, r.End, true, true)
}

// Equal 添加等值条件
func (c *Chunk) Equal(column string, value any) *Chunk {
	return c.Update(column, value, value, true, true)
}

func (c *Chunk) Update(column string, lower, upper any, updateLower, updateUpper bool) *Chunk {
	if offset, ok := c.columnOffset[column]; ok {
		// update the bound
		if updateLower {
			c.Bounds[offset].Lower = lower
			c.Bounds[offset].HasLower = true
		}
		if updateUpper {
			c.Bounds[offset].Upper = upper
			c.Bounds[offset].HasUpper = true
		}
		return c
	}
	// add a new bound
	c.Bounds = append(c.Bounds, &Bound{
		Column:   column,
		Lower:    lower,
		Upper:    upper,
		HasLower: updateLower,
		HasUpper: updateUpper,
	})
	c.columnOffset[column] = len(c.Bounds) - 1
	return c
}

func (c *Chunk) Clone() *Chunk {
	newChunk := NewChunk()
	for _, bound := range c.Bounds {
		newChunk.Update(bound.Column, bound.Lower, bound.Upper, bound.HasLower, bound.HasUpper)
	}
	return newChunk
}
