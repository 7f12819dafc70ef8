package mixedlm

import (
	"math"
	"strconv"
	"testing"

	"bpstat/frame"
	"bpstat/numpy/npRandom"
)

// 随机截距真值: y = 2 + 0.5x + b_i + e, b~N(0,1), e~N(0,1)
func interceptFixture(t *testing.T, nGroup, perGroup int, seed uint64) *frame.Table {
	t.Helper()
	rng := npRandom.NewRng(seed)
	n := nGroup * perGroup
	ids := make([]string, 0, n)
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for g := 0; g < nGroup; g++ {
		b := rng.StandardNormal(1)[0]
		for j := 0; j < perGroup; j++ {
			x := rng.StandardNormal(1)[0]
			e := rng.StandardNormal(1)[0]
			ids = append(ids, strconv.Itoa(g))
			xs = append(xs, x)
			ys = append(ys, 2+0.5*x+b+e)
		}
	}
	tbl := frame.NewTable()
	if err := tbl.AddString("id", ids); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddFloat("x", xs); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddFloat("y", ys); err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestRandomInterceptRecovery(t *testing.T) {
	tbl := interceptFixture(t, 200, 4, 11)
	res, err := Fit(tbl, ModelSpec{
		Response:     "y",
		FixedEffects: []Term{{Name: "x"}},
		GroupKey:     "id",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Converged {
		t.Fatal("one-parameter REML should converge on clean data")
	}
	if res.NGroups != 200 || res.NObs != 800 {
		t.Fatalf("group bookkeeping wrong: %d groups %d obs", res.NGroups, res.NObs)
	}
	if math.Abs(res.FE[0]-2) > 0.3 {
		t.Fatalf("intercept %v too far from 2", res.FE[0])
	}
	if math.Abs(res.FE[1]-0.5) > 0.2 {
		t.Fatalf("slope %v too far from 0.5", res.FE[1])
	}
	icc := res.ICC()
	if math.IsNaN(icc) || icc < 0 || icc > 1 {
		t.Fatalf("ICC out of [0,1]: %v", icc)
	}
	// 真值0.5, 宽容带
	if icc < 0.25 || icc > 0.75 {
		t.Fatalf("ICC %v too far from 0.5", icc)
	}
	for i, se := range res.FESE {
		if math.IsNaN(se) || se <= 0 {
			t.Fatalf("SE[%d]=%v invalid on clean data", i, se)
		}
	}
}

func TestCategoricalEncoding(t *testing.T) {
	tbl := interceptFixture(t, 60, 4, 3)
	kinds := make([]string, tbl.NRows())
	for i := range kinds {
		if i%2 == 0 {
			kinds[i] = "DI"
		} else {
			kinds[i] = "SY"
		}
	}
	if err := tbl.AddString("bptype", kinds); err != nil {
		t.Fatal(err)
	}
	res, err := Fit(tbl, ModelSpec{
		Response:     "y",
		FixedEffects: []Term{{Name: "x"}, {Name: "bptype", Categorical: true}},
		GroupKey:     "id",
	})
	if err != nil {
		t.Fatal(err)
	}
	// 字典序首水平DI为基准, 只剩SY哑变量
	found := false
	for _, name := range res.FENames {
		if name == "C(bptype)[SY]" {
			found = true
		}
		if name == "C(bptype)[DI]" {
			t.Fatal("base level must be dropped")
		}
	}
	if !found {
		t.Fatalf("dummy column missing: %v", res.FENames)
	}
}

func TestVarianceComponentFit(t *testing.T) {
	tbl := interceptFixture(t, 80, 4, 5)
	ind := make([]float64, tbl.NRows())
	for i := range ind {
		if i%2 == 0 {
			ind[i] = 1
		}
	}
	if err := tbl.AddFloat("even", ind); err != nil {
		t.Fatal(err)
	}
	res, err := Fit(tbl, ModelSpec{
		Response:      "y",
		FixedEffects:  []Term{{Name: "x"}},
		GroupKey:      "id",
		VarComponents: []VarComponent{{Name: "even", Indicators: []string{"even"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.VCVars) != 1 || len(res.VCNames) != 1 {
		t.Fatalf("expected one variance component, got %v", res.VCNames)
	}
	if res.VCVars[0] < 0 {
		t.Fatalf("log-parameterized component went negative: %v", res.VCVars[0])
	}
	icc := res.ICC()
	if !math.IsNaN(icc) && (icc < 0 || icc > 1) {
		t.Fatalf("ICC invariant violated: %v", icc)
	}
}

func TestFitMissingColumn(t *testing.T) {
	tbl := interceptFixture(t, 10, 2, 9)
	if _, err := Fit(tbl, ModelSpec{Response: "nope", FixedEffects: nil, GroupKey: "id"}); err == nil {
		t.Fatal("missing response must be a structural error")
	}
}
