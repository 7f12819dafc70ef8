package ols

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"bpstat/infra/errorx"
	"bpstat/infra/errorx/errCode"
	"bpstat/infra/observe/log/staticLog"
)

type MultiLinearModel struct {
	Coeffs      []float64 // 回归系数
	SE          []float64 // 标准误
	TStats      []float64 // t统计量
	PValues     []float64 // p值（双尾）
	Resids      []float64 // 残差
	AIC         float64
	BIC         float64
	Sigma2      float64 // 残差方差
	RSquared    float64
	AdjRSquared float64
}

// Predict 按拟合系数计算 x·β, x含常数列
func (m *MultiLinearModel) Predict(x []float64) float64 {
	if len(x) != len(m.Coeffs) {
		return math.NaN()
	}
	sum := 0.0
	for i := range x {
		sum += x[i] * m.Coeffs[i]
	}
	return sum
}

func MultiRegressionMat(matX *mat.Dense, matY *mat.VecDense) (MultiLinearModel, error) {
	n, k := matX.Dims()

	// 计算 (X'X)
	var XT mat.Dense
	XT.CloneFrom(matX.T())

	var XTX mat.Dense
	XTX.Mul(&XT, matX)

	// (X'X)^(-1), 不可逆时退回SVD广义逆
	var invXTX mat.Dense
	err := invXTX.Inverse(&XTX)
	if err != nil {
		staticLog.Log.Warnf("XTX矩阵不可逆, 退回广义逆: %s", err)
		pinv, errSVD := PseudoInverse(&XTX)
		if errSVD != nil {
			return MultiLinearModel{}, errSVD
		}
		invXTX.CloneFrom(pinv)
	}

	// (X'Y)
	var XTY mat.VecDense
	XTY.MulVec(&XT, matY)

	// β = (X'X)^(-1) * (X'Y)
	var beta mat.VecDense
	beta.MulVec(&invXTX, &XTY)

	// 预测值 & 残差
	Yhat := mat.NewVecDense(n, nil)
	Yhat.MulVec(matX, &beta)
	resid := mat.NewVecDense(n, nil)
	resid.SubVec(matY, Yhat)

	// RSS
	RSS := mat.Dot(resid, resid)

	df := float64(n - k)
	if df <= 0 {
		return MultiLinearModel{}, errorx.Newf(errCode.INVALID_VALUE, "自由度 df=%v 非法: 样本数 n 必须大于参数数 k", df)
	}

	// 残差方差 σ² = RSS / (n - k)
	sigma2 := RSS / df

	// 标准误 SE = sqrt( diag(σ² * (X'X)^(-1)) )
	// 根号内为负时按约定产出NaN而不是中断
	SE := make([]float64, k)
	tStats := make([]float64, k)
	pValues := make([]float64, k)
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	for i := 0; i < k; i++ {
		SE[i] = math.Sqrt(sigma2 * invXTX.At(i, i))
		tStats[i] = beta.AtVec(i) / SE[i]
		pValues[i] = 2 * tdist.Survival(math.Abs(tStats[i]))
	}

	// R² & 调整后R²
	Ymean := mat.Sum(matY) / float64(n)
	TSS := 0.0
	for i := 0; i < n; i++ {
		diff := matY.AtVec(i) - Ymean
		TSS += diff * diff
	}
	RSq := 1 - RSS/TSS
	AdjRSq := 1 - (1-RSq)*float64(n-1)/df

	// AIC / BIC
	logLik := -0.5 * float64(n) * (1 + math.Log(2*math.Pi*RSS/float64(n)))
	AIC := -2*logLik + 2*float64(k)
	BIC := -2*logLik + float64(k)*math.Log(float64(n))

	coeffs := make([]float64, k)
	for i := 0; i < k; i++ {
		coeffs[i] = beta.AtVec(i)
	}
	return MultiLinearModel{
		Coeffs:      coeffs,
		SE:          SE,
		TStats:      tStats,
		PValues:     pValues,
		Resids:      resid.RawVector().Data,
		AIC:         AIC,
		BIC:         BIC,
		Sigma2:      sigma2,
		RSquared:    RSq,
		AdjRSquared: AdjRSq,
	}, nil
}

// MultiRegression 切片入口, 组装矩阵后走MultiRegressionMat
func MultiRegression(X [][]float64, Y []float64, withConst bool) (MultiLinearModel, error) {
	n := len(Y)
	if n == 0 || len(X) == 0 {
		return MultiLinearModel{}, errorx.New(errCode.EMPTY_VALUE, "输入数据为空")
	}
	if n != len(X) {
		return MultiLinearModel{}, errorx.New(errCode.INVALID_VALUE, "数据长度不匹配")
	}

	if withConst {
		X = addConstantColumn(X)
	}
	k := len(X[0])

	dataX := make([]float64, n*k)
	for i := 0; i < n; i++ {
		copy(dataX[i*k:(i+1)*k], X[i])
	}
	return MultiRegressionMat(mat.NewDense(n, k, dataX), mat.NewVecDense(n, Y))
}

// PseudoInverse 用SVD求广义逆矩阵 (mixedlm的GLS解也依赖)
func PseudoInverse(A *mat.Dense) (*mat.Dense, error) {
	var svd mat.SVD
	ok := svd.Factorize(A, mat.SVDThin)
	if !ok {
		return nil, errorx.New(errCode.INVALID_VALUE, "SVD分解失败")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// 取 Σ 的倒数
	sigma := svd.Values(nil)
	m, n := A.Dims()
	sInv := mat.NewDense(n, m, nil)

	tol := 1e-12 // 小奇异值截断阈值
	for i, val := range sigma {
		if val > tol {
			sInv.Set(i, i, 1.0/val)
		}
	}

	// A⁺ = V * Σ⁺ * Uᵀ
	var temp mat.Dense
	temp.Mul(&v, sInv)
	var uT mat.Dense
	uT.CloneFrom(u.T())

	var pinv mat.Dense
	pinv.Mul(&temp, &uT)

	return &pinv, nil
}

// 添加常数项: 第一列为1
func addConstantColumn(X [][]float64) [][]float64 {
	n := len(X)
	if n == 0 {
		return X
	}
	k := len(X[0])
	newX := make([][]float64, n)
	for i := 0; i < n; i++ {
		newRow := make([]float64, k+1)
		newRow[0] = 1.0
		copy(newRow[1:], X[i])
		newX[i] = newRow
	}
	return newX
}
