// 列式内存表: 各pipeline加载/重塑数据的唯一载体
// float列用NaN表示缺失; 完全行删除(complete-case)用bitset做保留掩码
package frame

import (
	"math"
	"sort"
	"strconv"

	"github.com/bits-and-blooms/bitset"

	"bpstat/infra/errorx"
	"bpstat/infra/errorx/errCode"
)

type Table struct {
	nrow  int
	order []string // 列顺序, 输出与遍历都按此
	fcols map[string][]float64
	scols map[string][]string
}

func NewTable() *Table {
	return &Table{
		fcols: make(map[string][]float64),
		scols: make(map[string][]string),
	}
}

func (t *Table) NRows() int { return t.nrow }

func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

func (t *Table) HasCol(name string) bool {
	_, fok := t.fcols[name]
	_, sok := t.scols[name]
	return fok || sok
}

func (t *Table) AddFloat(name string, vals []float64) error {
	if t.HasCol(name) {
		return errorx.Newf(errCode.INVALID_VALUE, "column %s already exists", name)
	}
	if len(t.order) > 0 && len(vals) != t.nrow {
		return errorx.Newf(errCode.INVALID_VALUE, "column %s length %d != nrow %d", name, len(vals), t.nrow)
	}
	t.nrow = len(vals)
	t.fcols[name] = vals
	t.order = append(t.order, name)
	return nil
}

func (t *Table) AddString(name string, vals []string) error {
	if t.HasCol(name) {
		return errorx.Newf(errCode.INVALID_VALUE, "column %s already exists", name)
	}
	if len(t.order) > 0 && len(vals) != t.nrow {
		return errorx.Newf(errCode.INVALID_VALUE, "column %s length %d != nrow %d", name, len(vals), t.nrow)
	}
	t.nrow = len(vals)
	t.scols[name] = vals
	t.order = append(t.order, name)
	return nil
}

func (t *Table) Float(name string) ([]float64, bool) {
	c, ok := t.fcols[name]
	return c, ok
}

func (t *Table) Str(name string) ([]string, bool) {
	c, ok := t.scols[name]
	return c, ok
}

// keyAt 把任意列的第i行转成分组键
func (t *Table) keyAt(name string, i int) string {
	if c, ok := t.scols[name]; ok {
		return c[i]
	}
	if c, ok := t.fcols[name]; ok {
		return strconv.FormatFloat(c[i], 'g', -1, 64)
	}
	return ""
}

// subset 按保留掩码切出新表, 列顺序不变
func (t *Table) subset(keep *bitset.BitSet) *Table {
	out := NewTable()
	n := int(keep.Count())
	for _, name := range t.order {
		if c, ok := t.fcols[name]; ok {
			vals := make([]float64, 0, n)
			for i := 0; i < t.nrow; i++ {
				if keep.Test(uint(i)) {
					vals = append(vals, c[i])
				}
			}
			_ = out.AddFloat(name, vals)
			continue
		}
		c := t.scols[name]
		vals := make([]string, 0, n)
		for i := 0; i < t.nrow; i++ {
			if keep.Test(uint(i)) {
				vals = append(vals, c[i])
			}
		}
		_ = out.AddString(name, vals)
	}
	return out
}

// DropNaN 完全行删除: cols中任一列为NaN则整行丢弃
// cols为空时检查所有float列
func (t *Table) DropNaN(cols ...string) *Table {
	if len(cols) == 0 {
		for _, name := range t.order {
			if _, ok := t.fcols[name]; ok {
				cols = append(cols, name)
			}
		}
	}
	keep := bitset.New(uint(t.nrow))
	keep.FlipRange(0, uint(t.nrow))
	for _, name := range cols {
		c, ok := t.fcols[name]
		if !ok {
			continue
		}
		for i := 0; i < t.nrow; i++ {
			if math.IsNaN(c[i]) {
				keep.Clear(uint(i))
			}
		}
	}
	return t.subset(keep)
}

// Filter 按行谓词保留
func (t *Table) Filter(pred func(i int) bool) *Table {
	keep := bitset.New(uint(t.nrow))
	for i := 0; i < t.nrow; i++ {
		if pred(i) {
			keep.Set(uint(i))
		}
	}
	return t.subset(keep)
}

// GroupIndices 按key列分组, 返回 组键->行号 与确定性排序后的组键
func (t *Table) GroupIndices(key string) (map[string][]int, []string, error) {
	if !t.HasCol(key) {
		return nil, nil, errorx.Newf(errCode.INVALID_VALUE, "group key %s not found", key)
	}
	groups := make(map[string][]int)
	for i := 0; i < t.nrow; i++ {
		k := t.keyAt(key, i)
		groups[k] = append(groups[k], i)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return groups, keys, nil
}
