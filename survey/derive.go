package survey

import (
	"math"
	"strings"

	"bpstat/frame"
	"bpstat/infra/errorx"
	"bpstat/infra/errorx/errCode"
	"bpstat/pkg/utils/myTools"
)

// BuildLong 宽转长 + 派生列
// 顺序有讲究: 缺失按测量发生, 所以先melt再做complete-case;
// mean_di/mean_sy靠互补类型的组均值回填, 没有互补读数的受试者拿NaN,
// 用到该派生列的模型会在拟合前把这些行剔掉
func BuildLong(wide *frame.Table) (*frame.Table, error) {
	idVars := []string{"SEQN", "RIDAGEYR", "RIAGENDR", "BMXBMI"}
	valueVars := append(append([]string{}, SYCols...), DICols...)

	long, err := wide.Melt(idVars, valueVars, "bpvar", "bp")
	if err != nil {
		return nil, err
	}
	long = long.DropNaN("bp")
	if long.NRows() == 0 {
		return nil, errorx.New(errCode.EMPTY_VALUE, "所有血压测量均缺失")
	}

	bpvar, _ := long.Str("bpvar")
	n := long.NRows()

	// 测量类型与重复序号都从源列名提取 (BPXSY3 → SY, 3)
	bptype := make([]string, n)
	rep := make([]float64, n)
	sy := make([]float64, n)
	di := make([]float64, n)
	for i, v := range bpvar {
		if strings.HasPrefix(v, "BPXSY") {
			bptype[i] = "SY"
			sy[i] = 1
		} else {
			bptype[i] = "DI"
			di[i] = 1
		}
		rep[i] = float64(v[len(v)-1] - '0')
	}
	if err := long.AddString("bptype", bptype); err != nil {
		return nil, err
	}
	if err := long.AddFloat("rep", rep); err != nil {
		return nil, err
	}
	if err := long.AddFloat("sy", sy); err != nil {
		return nil, err
	}
	if err := long.AddFloat("di", di); err != nil {
		return nil, err
	}

	// 中心化重复序号
	repMean := myTools.ArrMean(rep)
	repCen := make([]float64, n)
	for i := range rep {
		repCen[i] = rep[i] - repMean
	}
	if err := long.AddFloat("rep_cen", repCen); err != nil {
		return nil, err
	}

	// 类型×序号指示列 (异方差探测模型的方差分量用)
	for r := 1; r <= 4; r++ {
		syr := make([]float64, n)
		dir := make([]float64, n)
		for i := range rep {
			if int(rep[i]) == r {
				if sy[i] == 1 {
					syr[i] = 1
				} else {
					dir[i] = 1
				}
			}
		}
		if err := long.AddFloat(syRepCol(r), syr); err != nil {
			return nil, err
		}
		if err := long.AddFloat(diRepCol(r), dir); err != nil {
			return nil, err
		}
	}

	// 性别0/1指示 (来源编码: 1=男, 2=女)
	sex, _ := long.Float("RIAGENDR")
	sexM := make([]float64, n)
	for i, v := range sex {
		switch {
		case math.IsNaN(v):
			sexM[i] = math.NaN()
		case v == 1:
			sexM[i] = 1
		}
	}
	if err := long.AddFloat("sexM", sexM); err != nil {
		return nil, err
	}

	// 互补类型的受试者均值
	diRows := long.Filter(func(i int) bool { return bptype[i] == "DI" })
	diMeans, err := diRows.GroupMean("SEQN", "bp")
	if err != nil {
		return nil, err
	}
	if err := long.JoinMean("SEQN", "mean_di", diMeans); err != nil {
		return nil, err
	}
	syRows := long.Filter(func(i int) bool { return bptype[i] == "SY" })
	syMeans, err := syRows.GroupMean("SEQN", "bp")
	if err != nil {
		return nil, err
	}
	if err := long.JoinMean("SEQN", "mean_sy", syMeans); err != nil {
		return nil, err
	}

	return long, nil
}

func syRepCol(r int) string { return "sy" + string(rune('0'+r)) }
func diRepCol(r int) string { return "di" + string(rune('0'+r)) }
