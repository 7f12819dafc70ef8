package mixedlm

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"bpstat/frame"
	"bpstat/infra/errorx"
	"bpstat/infra/errorx/errCode"
)

// groupData 单个分组的设计矩阵
type groupData struct {
	key string
	X   *mat.Dense    // n_g × p 固定效应
	Z   *mat.Dense    // n_g × zc 随机效应 [截距|斜率|各分量指示列]
	y   *mat.VecDense // n_g
}

type design struct {
	feNames []string
	reNames []string // 随机截距+斜率列名
	vcNames []string
	vcSizes []int // 各分量的指示列数
	groups  []groupData
	n       int // 总行数
	p       int // 固定效应列数
	q       int // 随机截距+斜率列数
	zc      int // Z总列数 = q + Σ vcSizes
}

// buildDesign 从长表构造分组设计矩阵
// 先对模型用到的数值列做complete-case删除, 再分组切块
func buildDesign(tbl *frame.Table, spec ModelSpec) (*design, error) {
	if spec.Response == "" || spec.GroupKey == "" {
		return nil, errorx.New(errCode.INVALID_VALUE, "response与group key不能为空")
	}
	clean := tbl.DropNaN(spec.numericCols()...)
	n := clean.NRows()
	if n == 0 {
		return nil, errorx.New(errCode.EMPTY_VALUE, "complete-case删除后无剩余行")
	}

	y, ok := clean.Float(spec.Response)
	if !ok {
		return nil, errorx.Newf(errCode.INVALID_VALUE, "响应列 %s 缺失或非数值", spec.Response)
	}

	// 固定效应列: 截距 + 各项 (分类项展开为哑变量, 基准水平丢弃)
	feCols := [][]float64{ones(n)}
	feNames := []string{"Intercept"}
	for _, term := range spec.FixedEffects {
		if !term.Categorical {
			c, ok := clean.Float(term.Name)
			if !ok {
				return nil, errorx.Newf(errCode.INVALID_VALUE, "固定效应列 %s 缺失或非数值", term.Name)
			}
			feCols = append(feCols, c)
			feNames = append(feNames, term.Name)
			continue
		}
		sc, ok := clean.Str(term.Name)
		if !ok {
			return nil, errorx.Newf(errCode.INVALID_VALUE, "分类列 %s 缺失或非字符串", term.Name)
		}
		for _, lv := range levelsOf(sc)[1:] {
			dummy := make([]float64, n)
			for i, v := range sc {
				if v == lv {
					dummy[i] = 1
				}
			}
			feCols = append(feCols, dummy)
			feNames = append(feNames, "C("+term.Name+")["+lv+"]")
		}
	}

	// 随机效应列: 截距 + 斜率
	reCols := [][]float64{ones(n)}
	reNames := []string{"Group"}
	for _, s := range spec.RandomSlopes {
		c, ok := clean.Float(s)
		if !ok {
			return nil, errorx.Newf(errCode.INVALID_VALUE, "随机斜率列 %s 缺失或非数值", s)
		}
		reCols = append(reCols, c)
		reNames = append(reNames, s)
	}

	// 方差分量指示列
	vcCols := make([][]float64, 0)
	vcNames := make([]string, 0, len(spec.VarComponents))
	vcSizes := make([]int, 0, len(spec.VarComponents))
	for _, vc := range spec.VarComponents {
		vcNames = append(vcNames, vc.Name)
		vcSizes = append(vcSizes, len(vc.Indicators))
		for _, ind := range vc.Indicators {
			c, ok := clean.Float(ind)
			if !ok {
				return nil, errorx.Newf(errCode.INVALID_VALUE, "指示列 %s 缺失或非数值", ind)
			}
			vcCols = append(vcCols, c)
		}
	}

	p := len(feCols)
	q := len(reCols)
	zc := q + len(vcCols)
	if n <= p {
		return nil, errorx.Newf(errCode.INVALID_VALUE, "样本数 %d 不足以估计 %d 个固定效应", n, p)
	}

	groups, keys, err := clean.GroupIndices(spec.GroupKey)
	if err != nil {
		return nil, err
	}

	d := &design{
		feNames: feNames,
		reNames: reNames,
		vcNames: vcNames,
		vcSizes: vcSizes,
		n:       n,
		p:       p,
		q:       q,
		zc:      zc,
	}
	zCols := append(append([][]float64{}, reCols...), vcCols...)
	for _, k := range keys {
		idx := groups[k]
		ng := len(idx)
		X := mat.NewDense(ng, p, nil)
		Z := mat.NewDense(ng, zc, nil)
		yv := mat.NewVecDense(ng, nil)
		for r, src := range idx {
			for c := 0; c < p; c++ {
				X.Set(r, c, feCols[c][src])
			}
			for c := 0; c < zc; c++ {
				Z.Set(r, c, zCols[c][src])
			}
			yv.SetVec(r, y[src])
		}
		d.groups = append(d.groups, groupData{key: k, X: X, Z: Z, y: yv})
	}
	return d, nil
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func levelsOf(col []string) []string {
	seen := make(map[string]struct{})
	levels := make([]string, 0, 4)
	for _, v := range col {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			levels = append(levels, v)
		}
	}
	sort.Strings(levels)
	return levels
}
