package frame

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"strings"

	"bpstat/infra/errorx"
	"bpstat/infra/errorx/errCode"
)

// ReadCSV 读取带表头的csv
// floatCols解析为数值列(空串/解析失败→NaN), stringCols原样保留, 其余列忽略
func ReadCSV(path string, floatCols, stringCols []string) (*Table, error) {
	fid, err := os.Open(path)
	if err != nil {
		return nil, errorx.Newf(errCode.IO_ERROR, "open %s: %v", path, err)
	}
	defer fid.Close()

	rd := csv.NewReader(fid)
	rd.TrimLeadingSpace = true
	records, err := rd.ReadAll()
	if err != nil {
		return nil, errorx.Newf(errCode.PARSE_ERROR, "read %s: %v", path, err)
	}
	if len(records) < 1 {
		return nil, errorx.Newf(errCode.EMPTY_VALUE, "%s has no header", path)
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}

	n := len(records) - 1
	out := NewTable()

	for _, name := range stringCols {
		idx, ok := colIdx[name]
		if !ok {
			return nil, errorx.Newf(errCode.PARSE_ERROR, "%s: column %s not in header", path, name)
		}
		vals := make([]string, n)
		for i := 0; i < n; i++ {
			vals[i] = strings.TrimSpace(records[i+1][idx])
		}
		if err := out.AddString(name, vals); err != nil {
			return nil, err
		}
	}

	for _, name := range floatCols {
		idx, ok := colIdx[name]
		if !ok {
			return nil, errorx.Newf(errCode.PARSE_ERROR, "%s: column %s not in header", path, name)
		}
		vals := make([]float64, n)
		for i := 0; i < n; i++ {
			vals[i] = parseFloatNaN(records[i+1][idx])
		}
		if err := out.AddFloat(name, vals); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parseFloatNaN(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "." || strings.EqualFold(s, "nan") {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// InnerJoin 按key内连接: 保留左表行序, 右表同键首行的非键列并入
// 右表无匹配的左行丢弃 (三份抽取表按SEQN合并)
func (t *Table) InnerJoin(rhs *Table, key string) (*Table, error) {
	if !t.HasCol(key) || !rhs.HasCol(key) {
		return nil, errorx.Newf(errCode.INVALID_VALUE, "join key %s must exist on both sides", key)
	}
	rIdx := make(map[string]int, rhs.nrow)
	for i := 0; i < rhs.nrow; i++ {
		k := rhs.keyAt(key, i)
		if _, seen := rIdx[k]; !seen {
			rIdx[k] = i
		}
	}

	matched := make([]int, 0, t.nrow)  // 左表行号
	rmatched := make([]int, 0, t.nrow) // 对应右表行号
	for i := 0; i < t.nrow; i++ {
		if j, ok := rIdx[t.keyAt(key, i)]; ok {
			matched = append(matched, i)
			rmatched = append(rmatched, j)
		}
	}

	out := NewTable()
	for _, name := range t.order {
		if c, ok := t.fcols[name]; ok {
			vals := make([]float64, len(matched))
			for i, src := range matched {
				vals[i] = c[src]
			}
			if err := out.AddFloat(name, vals); err != nil {
				return nil, err
			}
			continue
		}
		c := t.scols[name]
		vals := make([]string, len(matched))
		for i, src := range matched {
			vals[i] = c[src]
		}
		if err := out.AddString(name, vals); err != nil {
			return nil, err
		}
	}
	for _, name := range rhs.order {
		if name == key || out.HasCol(name) {
			continue
		}
		if c, ok := rhs.fcols[name]; ok {
			vals := make([]float64, len(rmatched))
			for i, src := range rmatched {
				vals[i] = c[src]
			}
			if err := out.AddFloat(name, vals); err != nil {
				return nil, err
			}
			continue
		}
		c := rhs.scols[name]
		vals := make([]string, len(rmatched))
		for i, src := range rmatched {
			vals[i] = c[src]
		}
		if err := out.AddString(name, vals); err != nil {
			return nil, err
		}
	}
	return out, nil
}
