package frame

import (
	"math"

	"bpstat/infra/errorx"
	"bpstat/infra/errorx/errCode"
)

// GroupMean 按key列对val列求组内均值, NaN值跳过
// 某组全为NaN时该组无结果(不产生键)
func (t *Table) GroupMean(key, val string) (map[string]float64, error) {
	c, ok := t.fcols[val]
	if !ok {
		return nil, errorx.Newf(errCode.INVALID_VALUE, "value column %s missing or not numeric", val)
	}
	groups, keys, err := t.GroupIndices(key)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(groups))
	for _, k := range keys {
		sum, n := 0.0, 0
		for _, i := range groups[k] {
			if math.IsNaN(c[i]) {
				continue
			}
			sum += c[i]
			n++
		}
		if n > 0 {
			out[k] = sum / float64(n)
		}
	}
	return out, nil
}

// JoinMean 把组均值按key回填成新列, 无匹配的行填NaN
// (典型用法: SY行上挂该受试者DI读数均值; 没有任何DI读数的受试者
// 在使用该派生列的模型里会被complete-case剔除)
func (t *Table) JoinMean(key, newName string, means map[string]float64) error {
	if !t.HasCol(key) {
		return errorx.Newf(errCode.INVALID_VALUE, "join key %s not found", key)
	}
	vals := make([]float64, t.nrow)
	for i := 0; i < t.nrow; i++ {
		if m, ok := means[t.keyAt(key, i)]; ok {
			vals[i] = m
		} else {
			vals[i] = math.NaN()
		}
	}
	return t.AddFloat(newName, vals)
}
