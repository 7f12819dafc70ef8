package mixedlm

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"

	"bpstat/frame"
	"bpstat/infra/observe/log/staticLog"
)

// Fit 对长表按spec做REML拟合
// 结构性问题(缺列/无数据)返回error; 优化器未收敛不是error:
// 告警后用最后迭代点出结果并置Converged=false (报告而不中断)
func Fit(tbl *frame.Table, spec ModelSpec) (*MixedResult, error) {
	d, err := buildDesign(tbl, spec)
	if err != nil {
		return nil, err
	}

	x0 := make([]float64, d.nParam())
	problem := optimize.Problem{Func: d.criterion}
	settings := &optimize.Settings{
		MajorIterations: 5000,
		FuncEvaluations: 20000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 200,
		},
	}

	res, optErr := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})

	xhat := x0
	converged := optErr == nil
	status := optimize.NotTerminated
	if res != nil {
		xhat = res.X
		status = res.Status
		switch status {
		case optimize.IterationLimit, optimize.FunctionEvaluationLimit,
			optimize.RuntimeLimit, optimize.Failure, optimize.NotTerminated:
			converged = false
		}
	} else {
		converged = false
	}
	if !converged {
		staticLog.Log.Warnf("REML未收敛 (status=%v, err=%v), 按最后迭代点出结果", status, optErr)
	}

	_, st, evalErr := d.evaluate(xhat, true)
	if evalErr != nil {
		// 最后迭代点不可求值时退回初值点, 仍然出结果
		staticLog.Log.Warnf("最后迭代点不可求值(%v), 退回初值", evalErr)
		converged = false
		if _, st, evalErr = d.evaluate(x0, true); evalErr != nil {
			return nil, evalErr
		}
	}

	return assemble(d, spec, st, converged), nil
}

func assemble(d *design, spec ModelSpec, st *fitState, converged bool) *MixedResult {
	p := d.p
	fe := make([]float64, p)
	se := make([]float64, p)
	zs := make([]float64, p)
	pv := make([]float64, p)
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	for i := 0; i < p; i++ {
		fe[i] = st.beta.AtVec(i)
		se[i] = math.Sqrt(st.covBeta.At(i, i)) // 负根号内值→NaN
		zs[i] = fe[i] / se[i]
		pv[i] = 2 * norm.Survival(math.Abs(zs[i]))
	}

	covRe := mat.NewSymDense(d.q, nil)
	for i := 0; i < d.q; i++ {
		for j := i; j < d.q; j++ {
			covRe.SetSym(i, j, st.sigma2*st.psiRe.At(i, j))
		}
	}
	vcVars := make([]float64, len(st.tau))
	for k, t := range st.tau {
		vcVars[k] = st.sigma2 * t
	}

	return &MixedResult{
		Spec:      spec,
		FENames:   d.feNames,
		FE:        fe,
		FESE:      se,
		ZStats:    zs,
		PValues:   pv,
		RENames:   d.reNames,
		CovRe:     covRe,
		VCNames:   d.vcNames,
		VCVars:    vcVars,
		Scale:     st.sigma2,
		REML:      st.crit,
		NObs:      d.n,
		NGroups:   len(d.groups),
		Converged: converged,
	}
}
