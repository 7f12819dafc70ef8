package mediation

import (
	"math"

	"github.com/gonum/stat"

	"bpstat/infra/errorx"
	"bpstat/infra/errorx/errCode"
	"bpstat/ml/ols"
	"bpstat/numpy/npRandom"
	"bpstat/pkg/utils/myTools"
)

// MediationResult 反事实插入式估计的点估计与标准误
// 这是简化版示例估计量: 忽略两个子模型自身的拟合不确定性,
// 标准误只来自单位级对比的抽样波动 (已写明的设计, 不是bug)
type MediationResult struct {
	Mode          Mode
	N             int
	MediatorModel ols.MultiLinearModel // m ~ 1 + x
	OutcomeModel  ols.MultiLinearModel // y ~ 1 + x + m
	AIE           float64              // 平均间接效应
	AIESE         float64
	ADE           float64 // 平均直接效应
	ADESE         float64
}

// CI95 返回 估计 ± 1.96·SE
func ci95(est, se float64) (float64, float64) {
	return est - 1.96*se, est + 1.96*se
}

func (r *MediationResult) AIEInterval() (float64, float64) { return ci95(r.AIE, r.AIESE) }
func (r *MediationResult) ADEInterval() (float64, float64) { return ci95(r.ADE, r.ADESE) }

// Estimate 两步反事实模拟:
//  1. 拟合 m ~ 1+x 与 y ~ 1+x+m (最小二乘交给ml/ols)
//  2. 把暴露固定在0/1代入中介模型, 按模型估计的残差尺度注入噪声
//     得到反事实中介抽样 m0/m1, 再代入结局模型得四组预测值:
//     y00=ŷ(0,m0) y01=ŷ(0,m1) y10=ŷ(1,m0) y11=ŷ(1,m1)
//
// AIE_i = ((y01-y00)+(y11-y10))/2  (暴露各固定一档后取平均)
// ADE_i = ((y10-y00)+(y11-y01))/2  (中介各固定一档后取平均)
// SE = 单位级对比的样本标准差 / sqrt(n)
func Estimate(data SimData, rng *npRandom.Rng) (MediationResult, error) {
	n := len(data.X)
	if n < 4 || len(data.M) != n || len(data.Y) != n {
		return MediationResult{}, errorx.New(errCode.INVALID_VALUE, "模拟数据长度非法")
	}

	mx := make([][]float64, n)
	ox := make([][]float64, n)
	for i := 0; i < n; i++ {
		mx[i] = []float64{data.X[i]}
		ox[i] = []float64{data.X[i], data.M[i]}
	}
	mm, err := ols.MultiRegression(mx, data.M, true)
	if err != nil {
		return MediationResult{}, err
	}
	om, err := ols.MultiRegression(ox, data.Y, true)
	if err != nil {
		return MediationResult{}, err
	}

	sigmaM := math.Sqrt(mm.Sigma2)
	eps0 := rng.StandardNormal(n)
	eps1 := rng.StandardNormal(n)

	aie := make([]float64, n)
	ade := make([]float64, n)
	for i := 0; i < n; i++ {
		m0 := mm.Predict([]float64{1, 0}) + sigmaM*eps0[i]
		m1 := mm.Predict([]float64{1, 1}) + sigmaM*eps1[i]
		y00 := om.Predict([]float64{1, 0, m0})
		y01 := om.Predict([]float64{1, 0, m1})
		y10 := om.Predict([]float64{1, 1, m0})
		y11 := om.Predict([]float64{1, 1, m1})
		aie[i] = 0.5 * ((y01 - y00) + (y11 - y10))
		ade[i] = 0.5 * ((y10 - y00) + (y11 - y01))
	}

	sq := math.Sqrt(float64(n))
	return MediationResult{
		N:             n,
		MediatorModel: mm,
		OutcomeModel:  om,
		AIE:           stat.Mean(aie, nil),
		AIESE:         myTools.ArrStd(aie) / sq,
		ADE:           stat.Mean(ade, nil),
		ADESE:         myTools.ArrStd(ade) / sq,
	}, nil
}
