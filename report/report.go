// 控制台格式化输出: 人读的汇总表, 无机器可读契约
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"bpstat/mediation"
	"bpstat/ml/mixedlm"
	"bpstat/ml/ols"
	"bpstat/numpy/npHist"
)

const rule = "----------------------------------------------------------------"

func header(w io.Writer, title string) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

// fmtF NaN按约定打成空位而不是"NaN"刷屏
func fmtF(v float64) string {
	if math.IsNaN(v) {
		return fmt.Sprintf("%12s", ".")
	}
	return fmt.Sprintf("%12.4f", v)
}

// PrintOLS 打印多元回归汇总
func PrintOLS(w io.Writer, name, desc string, m *ols.MultiLinearModel, coefNames []string) {
	header(w, fmt.Sprintf("%s  %s", name, desc))
	fmt.Fprintf(w, "%-16s %12s %12s %12s %12s\n", "", "Coef.", "Std.Err.", "t", "P>|t|")
	for i, cn := range coefNames {
		fmt.Fprintf(w, "%-16s %s %s %s %s\n", cn,
			fmtF(m.Coeffs[i]), fmtF(m.SE[i]), fmtF(m.TStats[i]), fmtF(m.PValues[i]))
	}
	fmt.Fprintf(w, "R²=%.4f  adjR²=%.4f  σ²=%.4f  AIC=%.2f  BIC=%.2f\n\n",
		m.RSquared, m.AdjRSquared, m.Sigma2, m.AIC, m.BIC)
}

// PrintMixed 打印混合模型汇总, 含收敛标记与ICC
func PrintMixed(w io.Writer, name, desc string, r *mixedlm.MixedResult) {
	header(w, fmt.Sprintf("%s  %s", name, desc))
	conv := "yes"
	if !r.Converged {
		conv = "no"
	}
	fmt.Fprintf(w, "obs: %d  groups: %d  REML: %.2f  converged: %s\n",
		r.NObs, r.NGroups, r.REML, conv)

	fmt.Fprintf(w, "%-20s %12s %12s %12s %12s\n", "", "Coef.", "Std.Err.", "z", "P>|z|")
	for i, cn := range r.FENames {
		fmt.Fprintf(w, "%-20s %s %s %s %s\n", cn,
			fmtF(r.FE[i]), fmtF(r.FESE[i]), fmtF(r.ZStats[i]), fmtF(r.PValues[i]))
	}

	for i, rn := range r.RENames {
		fmt.Fprintf(w, "%-20s %s\n", rn+" Var", fmtF(r.CovRe.At(i, i)))
	}
	for k, vn := range r.VCNames {
		fmt.Fprintf(w, "%-20s %s\n", vn+" Var", fmtF(r.VCVars[k]))
	}
	fmt.Fprintf(w, "%-20s %s\n", "Residual Var", fmtF(r.Scale))

	icc := r.ICC()
	if math.IsNaN(icc) {
		// 负的方差估计会走到这里: 标记violation, 不中断
		fmt.Fprintln(w, "ICC: undefined (variance component violation)")
	} else {
		fmt.Fprintf(w, "ICC: %.4f\n", icc)
	}
	fmt.Fprintln(w)
}

// PrintMediation 打印单个模式的反事实估计
func PrintMediation(w io.Writer, res *mediation.MediationResult) {
	header(w, fmt.Sprintf("mediation  mode=%s  n=%d", res.Mode, res.N))
	fmt.Fprintf(w, "%-16s %12s %12s %25s\n", "", "Estimate", "Std.Err.", "95% CI")
	lo, hi := res.AIEInterval()
	fmt.Fprintf(w, "%-16s %s %s     [%8.4f, %8.4f]\n", "indirect (AIE)", fmtF(res.AIE), fmtF(res.AIESE), lo, hi)
	lo, hi = res.ADEInterval()
	fmt.Fprintf(w, "%-16s %s %s     [%8.4f, %8.4f]\n", "direct   (ADE)", fmtF(res.ADE), fmtF(res.ADESE), lo, hi)
	fmt.Fprintf(w, "mediator model:  m = %.4f + %.4f·x          (σ²=%.4f)\n",
		res.MediatorModel.Coeffs[0], res.MediatorModel.Coeffs[1], res.MediatorModel.Sigma2)
	fmt.Fprintf(w, "outcome  model:  y = %.4f + %.4f·x + %.4f·m (σ²=%.4f)\n\n",
		res.OutcomeModel.Coeffs[0], res.OutcomeModel.Coeffs[1], res.OutcomeModel.Coeffs[2], res.OutcomeModel.Sigma2)
}

// PrintHist 诊断直方图 (ASCII)
func PrintHist(w io.Writer, title string, data []float64, bins int) {
	hist := npHist.Hist(data, bins)
	if hist == nil {
		return
	}
	maxN := 0
	for _, b := range hist {
		if b.Count > maxN {
			maxN = b.Count
		}
	}
	fmt.Fprintln(w, title)
	for _, b := range hist {
		bar := 0
		if maxN > 0 {
			bar = b.Count * 40 / maxN
		}
		fmt.Fprintf(w, "[%9.3f, %9.3f) %6d %s\n", b.From, b.To, b.Count, strings.Repeat("#", bar))
	}
	fmt.Fprintln(w)
}
