package ols

import (
	"math"

	"bpstat/pkg/utils/myTools"
)

// 一元线性回归模型的参数
type LinearRegressionModel struct {
	Slope     float64
	Intercept float64
}

// Regression 返回ols斜率项和截距项, 成对NaN先剔除
func Regression(x, y []float64) LinearRegressionModel {
	maskX, maskY, ok := paramsValidate(x, y)
	if !ok {
		return LinearRegressionModel{Slope: math.NaN(), Intercept: math.NaN()}
	}
	n := len(maskX)
	mx, my := myTools.ArrMean(maskX), myTools.ArrMean(maskY)
	m := (myTools.DotProduct(maskX, maskY) - float64(n)*mx*my) /
		(myTools.DotProduct(maskX, maskX) - float64(n)*mx*mx)
	b := my - m*mx
	return LinearRegressionModel{Slope: m, Intercept: b}
}

func paramsValidate(x, y []float64) ([]float64, []float64, bool) {
	if len(x) != len(y) || len(x) < 3 {
		return nil, nil, false
	}
	maskX, maskY := myTools.MaskIsNaNBoth(x, y)
	if len(maskX) < 3 {
		return nil, nil, false
	}
	return maskX, maskY, true
}
