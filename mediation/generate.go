package mediation

import (
	"bpstat/infra/errorx"
	"bpstat/infra/errorx/errCode"
	"bpstat/numpy/npRandom"
)

// SimData 每行一个模拟受试者: x暴露, m中介, y结局
type SimData struct {
	X []float64
	M []float64
	Y []float64
}

// Generate 按模式生成(x, m, y), 噪声均为iid N(0,1)
// 线性配方 (真实因果系数均为1):
//
//	mode 0: m = em,     y = x + ey      (只有直接路径)
//	mode 1: m = x + em, y = m + ey      (只有间接路径)
//	mode 2: m = x + em, y = x + m + ey  (两条路径)
//
// 固定seed下输出逐bit一致
func Generate(mode Mode, n int, rng *npRandom.Rng) (SimData, error) {
	if n <= 0 {
		return SimData{}, errorx.New(errCode.INVALID_VALUE, "样本量必须为正")
	}
	x := rng.StandardNormal(n)
	em := rng.StandardNormal(n)
	ey := rng.StandardNormal(n)

	m := make([]float64, n)
	y := make([]float64, n)
	switch mode {
	case MODE_NO_MEDIATION:
		for i := 0; i < n; i++ {
			m[i] = em[i]
			y[i] = x[i] + ey[i]
		}
	case MODE_FULL_MEDIATION:
		for i := 0; i < n; i++ {
			m[i] = x[i] + em[i]
			y[i] = m[i] + ey[i]
		}
	case MODE_PARTIAL_MEDIATION:
		for i := 0; i < n; i++ {
			m[i] = x[i] + em[i]
			y[i] = x[i] + m[i] + ey[i]
		}
	default:
		return SimData{}, errorx.Newf(errCode.INVALID_VALUE, "未知模式 %d", mode)
	}
	return SimData{X: x, M: m, Y: y}, nil
}
