package frame

import (
	"bpstat/infra/errorx"
	"bpstat/infra/errorx/errCode"
)

// Melt 宽转长: 每个(源行, 测量列)生成一行
// 输出行数 = 输入行数 × len(valueVars), 缺失值在此处不过滤:
// 缺失是按测量发生的, 完全行删除必须在melt之后做
func (t *Table) Melt(idVars, valueVars []string, varName, valName string) (*Table, error) {
	if len(valueVars) == 0 {
		return nil, errorx.New(errCode.EMPTY_VALUE, "no value columns to melt")
	}
	for _, v := range valueVars {
		if _, ok := t.fcols[v]; !ok {
			return nil, errorx.Newf(errCode.INVALID_VALUE, "value column %s missing or not numeric", v)
		}
	}
	for _, v := range idVars {
		if !t.HasCol(v) {
			return nil, errorx.Newf(errCode.INVALID_VALUE, "id column %s not found", v)
		}
	}

	nOut := t.nrow * len(valueVars)
	out := NewTable()

	// id列: 行主序展开, 每源行连续重复len(valueVars)次
	for _, id := range idVars {
		if c, ok := t.fcols[id]; ok {
			vals := make([]float64, 0, nOut)
			for i := 0; i < t.nrow; i++ {
				for range valueVars {
					vals = append(vals, c[i])
				}
			}
			if err := out.AddFloat(id, vals); err != nil {
				return nil, err
			}
			continue
		}
		c := t.scols[id]
		vals := make([]string, 0, nOut)
		for i := 0; i < t.nrow; i++ {
			for range valueVars {
				vals = append(vals, c[i])
			}
		}
		if err := out.AddString(id, vals); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, nOut)
	vals := make([]float64, 0, nOut)
	for i := 0; i < t.nrow; i++ {
		for _, v := range valueVars {
			names = append(names, v)
			vals = append(vals, t.fcols[v][i])
		}
	}
	if err := out.AddString(varName, names); err != nil {
		return nil, err
	}
	if err := out.AddFloat(valName, vals); err != nil {
		return nil, err
	}
	return out, nil
}
