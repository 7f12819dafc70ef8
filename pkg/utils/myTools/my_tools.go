package myTools

import "math"

// 算术平均, 空切片返回NaN
func ArrMean(arr []float64) float64 {
	if len(arr) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range arr {
		sum += v
	}
	return sum / float64(len(arr))
}

// 样本标准差 (n-1)
func ArrStd(arr []float64) float64 {
	n := len(arr)
	if n < 2 {
		return math.NaN()
	}
	mean := ArrMean(arr)
	sum := 0.0
	for _, v := range arr {
		sum += (v - mean) * (v - mean)
	}
	return math.Sqrt(sum / float64(n-1))
}

func DotProduct(x, y []float64) float64 {
	sum := 0.0
	for i := range x {
		sum += x[i] * y[i]
	}
	return sum
}

// 成对剔除NaN: 任一侧为NaN则整对丢弃
func MaskIsNaNBoth(x, y []float64) ([]float64, []float64) {
	maskX := make([]float64, 0, len(x))
	maskY := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		maskX = append(maskX, x[i])
		maskY = append(maskY, y[i])
	}
	return maskX, maskY
}
