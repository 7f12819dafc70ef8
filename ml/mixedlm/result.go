package mixedlm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// MixedResult 一次REML拟合的结构化结果
// 未收敛时字段来自最后一个迭代点, Converged=false, 不丢弃
type MixedResult struct {
	Spec      ModelSpec
	FENames   []string  // 固定效应列名 (含Intercept与哑变量)
	FE        []float64 // 固定效应系数
	FESE      []float64 // 标准误 (根号内为负时为NaN)
	ZStats    []float64
	PValues   []float64
	RENames   []string      // 随机截距/斜率名
	CovRe     *mat.SymDense // 随机效应协方差, 方差单位(σ̂²·LLᵀ)
	VCNames   []string
	VCVars    []float64 // 各命名分量方差, 方差单位
	Scale     float64   // 残差方差σ̂²
	REML      float64   // REML准则(越小越好)
	NObs      int
	NGroups   int
	Converged bool
}

// ICC 组内相关 = 随机截距方差/(随机截距方差+残差方差)
// 任一分量为负或分母非正时为NaN (调用方据此打violation标记)
func (r *MixedResult) ICC() float64 {
	if r.CovRe == nil || r.CovRe.SymmetricDim() == 0 {
		return math.NaN()
	}
	v := r.CovRe.At(0, 0)
	if v < 0 || r.Scale < 0 {
		return math.NaN()
	}
	den := v + r.Scale
	if den <= 0 {
		return math.NaN()
	}
	return v / den
}
