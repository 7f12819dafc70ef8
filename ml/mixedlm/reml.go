package mixedlm

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"bpstat/infra/errorx"
	"bpstat/infra/errorx/errCode"
	"bpstat/ml/ols"
)

// 参数向量布局:
//
//	前 q(q+1)/2 个: 随机效应协方差的log-Cholesky (对角存log, 下三角原样)
//	其后 K 个: 各命名方差分量的 log(标准差)
//
// 所有协方差均以σ²为单位profile掉残差方差
func (d *design) nParam() int {
	return d.q*(d.q+1)/2 + len(d.vcNames)
}

// psiFull 组装 zc×zc 的相对协方差 Ψ = blockdiag(LLᵀ, τ₁I, ..., τ_K I)
func (d *design) psiFull(theta []float64) (*mat.SymDense, *mat.TriDense, []float64) {
	L := mat.NewTriDense(d.q, mat.Lower, nil)
	pos := 0
	for i := 0; i < d.q; i++ {
		for j := 0; j <= i; j++ {
			if i == j {
				L.SetTri(i, j, math.Exp(theta[pos]))
			} else {
				L.SetTri(i, j, theta[pos])
			}
			pos++
		}
	}
	tau := make([]float64, len(d.vcNames))
	for k := range tau {
		tau[k] = math.Exp(2 * theta[pos])
		pos++
	}

	psi := mat.NewSymDense(d.zc, nil)
	var re mat.Dense
	re.Mul(L, L.T())
	for i := 0; i < d.q; i++ {
		for j := i; j < d.q; j++ {
			psi.SetSym(i, j, re.At(i, j))
		}
	}
	col := d.q
	for k, size := range d.vcSizes {
		for s := 0; s < size; s++ {
			psi.SetSym(col, col, tau[k])
			col++
		}
	}
	return psi, L, tau
}

// fitState 在θ̂处展开的全部量
type fitState struct {
	beta    *mat.VecDense
	covBeta *mat.SymDense // σ̂²(X'V⁻¹X)⁻¹
	sigma2  float64
	psiRe   *mat.Dense // q×q 相对协方差 LLᵀ
	tau     []float64  // 各分量相对方差
	crit    float64
}

// criterion REML准则 (越小越好); 参数点不可行时返回+Inf
func (d *design) criterion(theta []float64) float64 {
	crit, _, err := d.evaluate(theta, false)
	if err != nil {
		return math.Inf(1)
	}
	return crit
}

// evaluate profiled REML:
//
//	V_g = I + Z_g Ψ Z_gᵀ
//	β̂ = (ΣX'V⁻¹X)⁻¹ ΣX'V⁻¹y,  σ̂² = RSS_gls/(n-p)
//	crit = (n-p)·log σ̂² + Σlog|V_g| + log|ΣX'V⁻¹X|
func (d *design) evaluate(theta []float64, full bool) (float64, *fitState, error) {
	for _, v := range theta {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.Inf(1), nil, errorx.New(errCode.INVALID_VALUE, "参数含NaN/Inf")
		}
	}
	psi, L, tau := d.psiFull(theta)

	XtViX := mat.NewDense(d.p, d.p, nil)
	XtViy := mat.NewVecDense(d.p, nil)
	ytViy := 0.0
	logdetV := 0.0

	for gi := range d.groups {
		g := &d.groups[gi]
		ng, _ := g.X.Dims()

		var ZP, Vd mat.Dense
		ZP.Mul(g.Z, psi)
		Vd.Mul(&ZP, g.Z.T())
		V := mat.NewSymDense(ng, nil)
		for i := 0; i < ng; i++ {
			for j := i; j < ng; j++ {
				v := 0.5 * (Vd.At(i, j) + Vd.At(j, i))
				if i == j {
					v += 1
				}
				V.SetSym(i, j, v)
			}
		}

		var chol mat.Cholesky
		if !chol.Factorize(V) {
			return math.Inf(1), nil, errorx.Newf(errCode.INVALID_VALUE, "组 %s 的V非正定", g.key)
		}
		logdetV += chol.LogDet()

		var ViX mat.Dense
		if err := chol.SolveTo(&ViX, g.X); err != nil {
			return math.Inf(1), nil, errorx.Newf(errCode.INVALID_VALUE, "组 %s 求解V⁻¹X失败: %v", g.key, err)
		}
		var ViY mat.VecDense
		if err := chol.SolveVecTo(&ViY, g.y); err != nil {
			return math.Inf(1), nil, errorx.Newf(errCode.INVALID_VALUE, "组 %s 求解V⁻¹y失败: %v", g.key, err)
		}

		var xtvx mat.Dense
		xtvx.Mul(g.X.T(), &ViX)
		XtViX.Add(XtViX, &xtvx)

		var xtvy mat.VecDense
		xtvy.MulVec(g.X.T(), &ViY)
		XtViy.AddVec(XtViy, &xtvy)

		ytViy += mat.Dot(g.y, &ViY)
	}

	sym := mat.NewSymDense(d.p, nil)
	for i := 0; i < d.p; i++ {
		for j := i; j < d.p; j++ {
			sym.SetSym(i, j, 0.5*(XtViX.At(i, j)+XtViX.At(j, i)))
		}
	}
	var cholP mat.Cholesky
	if !cholP.Factorize(sym) {
		return math.Inf(1), nil, errorx.New(errCode.INVALID_VALUE, "X'V⁻¹X非正定")
	}

	beta := mat.NewVecDense(d.p, nil)
	if err := cholP.SolveVecTo(beta, XtViy); err != nil {
		return math.Inf(1), nil, errorx.Newf(errCode.INVALID_VALUE, "GLS解失败: %v", err)
	}
	rss := ytViy - mat.Dot(beta, XtViy)
	dfe := float64(d.n - d.p)
	if rss <= 0 || math.IsNaN(rss) {
		return math.Inf(1), nil, errorx.New(errCode.INVALID_VALUE, "GLS残差平方和非正")
	}
	sigma2 := rss / dfe
	crit := dfe*math.Log(sigma2) + logdetV + cholP.LogDet()
	if math.IsNaN(crit) || math.IsInf(crit, 0) {
		return math.Inf(1), nil, errorx.New(errCode.INVALID_VALUE, "REML准则数值异常")
	}
	if !full {
		return crit, nil, nil
	}

	covBeta := mat.NewSymDense(d.p, nil)
	if err := cholP.InverseTo(covBeta); err != nil {
		// 病态时退回广义逆, 只影响标准误
		pinv, perr := ols.PseudoInverse(XtViX)
		if perr == nil {
			for i := 0; i < d.p; i++ {
				for j := i; j < d.p; j++ {
					covBeta.SetSym(i, j, 0.5*(pinv.At(i, j)+pinv.At(j, i)))
				}
			}
		}
	}
	covBeta.ScaleSym(sigma2, covBeta)

	var psiRe mat.Dense
	psiRe.Mul(L, L.T())

	return crit, &fitState{
		beta:    beta,
		covBeta: covBeta,
		sigma2:  sigma2,
		psiRe:   &psiRe,
		tau:     tau,
		crit:    crit,
	}, nil
}
