package survey

import (
	"bpstat/frame"
	"bpstat/infra/errorx"
	"bpstat/infra/errorx/errCode"
	"bpstat/ml/mixedlm"
	"bpstat/ml/ols"
)

// FitOutcome 序列中单个模型的结果, OLS与Mixed二选一
type FitOutcome struct {
	Name     string
	Desc     string
	OLS      *ols.MultiLinearModel
	OLSNames []string
	Mixed    *mixedlm.MixedResult
}

// 固定效应基准项
func baseTerms() []mixedlm.Term {
	return []mixedlm.Term{
		{Name: "RIDAGEYR"},
		{Name: "sexM"},
		{Name: "BMXBMI"},
	}
}

func rowsOf(long *frame.Table, kind string) *frame.Table {
	bt, _ := long.Str("bptype")
	return long.Filter(func(i int) bool { return bt[i] == kind })
}

// RunModels 按固定顺序跑model1..model11
// 未收敛的拟合照常进入结果 (Converged=false), 绝不中断序列
func RunModels(long *frame.Table) ([]FitOutcome, error) {
	sy := rowsOf(long, "SY")
	di := rowsOf(long, "DI")

	out := make([]FitOutcome, 0, 11)

	// model1: 仅固定效应的OLS基线, 方差结构有意错配, 用来对照
	m1, names, err := fitOLS(sy, "bp", []string{"RIDAGEYR", "sexM", "BMXBMI"})
	if err != nil {
		return nil, err
	}
	out = append(out, FitOutcome{
		Name: "model1", Desc: "OLS baseline on systolic (variance misspecified)",
		OLS: m1, OLSNames: names,
	})

	type mix struct {
		name, desc string
		tbl        *frame.Table
		spec       mixedlm.ModelSpec
	}
	jointFE := append(baseTerms(), mixedlm.Term{Name: "bptype", Categorical: true})
	seq := []mix{
		{"model2", "random intercept per subject, systolic", sy,
			mixedlm.ModelSpec{Response: "bp", FixedEffects: baseTerms(), GroupKey: "SEQN"}},
		{"model3", "model2 + subject mean diastolic covariate", sy,
			mixedlm.ModelSpec{Response: "bp", FixedEffects: append(baseTerms(), mixedlm.Term{Name: "mean_di"}), GroupKey: "SEQN"}},
		{"model4", "random intercept per subject, diastolic", di,
			mixedlm.ModelSpec{Response: "bp", FixedEffects: baseTerms(), GroupKey: "SEQN"}},
		{"model5", "model4 + random slope on repetition index (raw)", di,
			mixedlm.ModelSpec{Response: "bp", FixedEffects: baseTerms(), GroupKey: "SEQN", RandomSlopes: []string{"rep"}}},
		{"model6", "model4 + random slope on repetition index (centered)", di,
			mixedlm.ModelSpec{Response: "bp", FixedEffects: baseTerms(), GroupKey: "SEQN", RandomSlopes: []string{"rep_cen"}}},
		{"model7", "joint systolic+diastolic, shared random intercept", long,
			mixedlm.ModelSpec{Response: "bp", FixedEffects: jointFE, GroupKey: "SEQN"}},
		{"model8", "model7 + one variance component over both types (shared)", long,
			mixedlm.ModelSpec{Response: "bp", FixedEffects: jointFE, GroupKey: "SEQN",
				VarComponents: []mixedlm.VarComponent{{Name: "bp", Indicators: []string{"sy", "di"}}}}},
		{"model9", "model7 + separate variance component per type", long,
			mixedlm.ModelSpec{Response: "bp", FixedEffects: jointFE, GroupKey: "SEQN",
				VarComponents: []mixedlm.VarComponent{
					{Name: "sy", Indicators: []string{"sy"}},
					{Name: "di", Indicators: []string{"di"}},
				}}},
		// 异方差探测对: 10/11按重复序号拆开一侧的方差分量,
		// 两个拟合不要求一致, 也允许不收敛, 照常报告
		{"model10", "model9 with diastolic variance split per repetition", long,
			mixedlm.ModelSpec{Response: "bp", FixedEffects: jointFE, GroupKey: "SEQN",
				VarComponents: []mixedlm.VarComponent{
					{Name: "sy", Indicators: []string{"sy"}},
					{Name: "di", Indicators: []string{"di1", "di2", "di3", "di4"}},
				}}},
		{"model11", "model9 with systolic variance split per repetition", long,
			mixedlm.ModelSpec{Response: "bp", FixedEffects: jointFE, GroupKey: "SEQN",
				VarComponents: []mixedlm.VarComponent{
					{Name: "sy", Indicators: []string{"sy1", "sy2", "sy3", "sy4"}},
					{Name: "di", Indicators: []string{"di"}},
				}}},
	}

	for _, m := range seq {
		res, err := mixedlm.Fit(m.tbl, m.spec)
		if err != nil {
			return nil, errorx.Newf(errCode.INVALID_VALUE, "%s 构建失败: %v", m.name, err)
		}
		out = append(out, FitOutcome{Name: m.name, Desc: m.desc, Mixed: res})
	}
	return out, nil
}

// fitOLS 复用complete-case后的列组装矩阵
func fitOLS(tbl *frame.Table, response string, cols []string) (*ols.MultiLinearModel, []string, error) {
	used := append([]string{response}, cols...)
	clean := tbl.DropNaN(used...)
	if clean.NRows() == 0 {
		return nil, nil, errorx.New(errCode.EMPTY_VALUE, "complete-case删除后无剩余行")
	}
	y, _ := clean.Float(response)
	X := make([][]float64, clean.NRows())
	for i := range X {
		X[i] = make([]float64, len(cols))
	}
	for j, c := range cols {
		col, ok := clean.Float(c)
		if !ok {
			return nil, nil, errorx.Newf(errCode.INVALID_VALUE, "列 %s 缺失或非数值", c)
		}
		for i := range col {
			X[i][j] = col[i]
		}
	}
	m, err := ols.MultiRegression(X, y, true)
	if err != nil {
		return nil, nil, err
	}
	names := append([]string{"Intercept"}, cols...)
	return &m, names, nil
}
