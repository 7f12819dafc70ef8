package survey

import (
	"math"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"bpstat/frame"
	"bpstat/numpy/npRandom"
)

func loadFixture(t *testing.T) *frame.Table {
	t.Helper()
	wide, err := Load(Files{
		Demo: filepath.Join("testdata", "demo.csv"),
		Bmx:  filepath.Join("testdata", "bmx.csv"),
		Bpx:  filepath.Join("testdata", "bpx.csv"),
	})
	require.NoError(t, err)
	return wide
}

func TestLoadInnerJoin(t *testing.T) {
	wide := loadFixture(t)
	// demo∩bmx∩bpx = 62161..62165 (62166无人口学, 62169无体测)
	require.Equal(t, 5, wide.NRows())
	seqn, _ := wide.Str("SEQN")
	require.NotContains(t, seqn, "62166")
	require.NotContains(t, seqn, "62169")
}

func TestBuildLongInvariants(t *testing.T) {
	wide := loadFixture(t)
	long, err := BuildLong(wide)
	require.NoError(t, err)

	// 5源行×8测量列=40, 缺14个测量 → 26
	require.Equal(t, 26, long.NRows())

	seqn, _ := long.Str("SEQN")
	bptype, _ := long.Str("bptype")
	rep, _ := long.Float("rep")
	bp, _ := long.Float("bp")
	sexM, _ := long.Float("sexM")
	meanDI, _ := long.Float("mean_di")

	counts := map[string]map[string]int{}
	for i := range seqn {
		require.True(t, bptype[i] == "SY" || bptype[i] == "DI")
		require.GreaterOrEqual(t, rep[i], 1.0)
		require.LessOrEqual(t, rep[i], 4.0)
		require.False(t, math.IsNaN(bp[i]), "complete-case must have removed NaN bp")
		if counts[seqn[i]] == nil {
			counts[seqn[i]] = map[string]int{}
		}
		counts[seqn[i]][bptype[i]]++

		switch seqn[i] {
		case "62161":
			require.Equal(t, 1.0, sexM[i])
			if bptype[i] == "SY" {
				require.InDelta(t, 68.0, meanDI[i], 1e-9)
			}
		case "62162":
			require.Equal(t, 0.0, sexM[i])
		case "62164":
			if bptype[i] == "SY" {
				require.InDelta(t, 82.0, meanDI[i], 1e-9)
			}
		case "62165":
			// 无任何DI读数 → mean_di必须是NaN
			require.True(t, math.IsNaN(meanDI[i]))
		}
	}
	// 每受试者1-4条SY与0-4条DI
	for id, c := range counts {
		require.GreaterOrEqual(t, c["SY"], 1, id)
		require.LessOrEqual(t, c["SY"], 4, id)
		require.LessOrEqual(t, c["DI"], 4, id)
	}
}

// 合成宽表: 真实随机截距结构, 足够撑起11个模型的冒烟运行
func syntheticWide(t *testing.T, nSubj int, seed uint64) *frame.Table {
	t.Helper()
	rng := npRandom.NewRng(seed)
	seqn := make([]string, nSubj)
	age := make([]float64, nSubj)
	sex := make([]float64, nSubj)
	bmi := make([]float64, nSubj)
	bpcols := map[string][]float64{}
	names := append(append([]string{}, SYCols...), DICols...)
	for _, c := range names {
		bpcols[c] = make([]float64, nSubj)
	}
	for i := 0; i < nSubj; i++ {
		seqn[i] = strconv.Itoa(70000 + i)
		age[i] = 20 + 50*rng.Float64()
		sex[i] = float64(1 + rng.IntN(2))
		bmi[i] = 20 + 12*rng.Float64()
		b := rng.Normal(0, 6, 1)[0] // 受试者随机截距
		for r := 1; r <= 4; r++ {
			bpcols["BPXSY"+strconv.Itoa(r)][i] = 120 + 0.3*age[i] + b + rng.Normal(0, 5, 1)[0]
			bpcols["BPXDI"+strconv.Itoa(r)][i] = 70 + 0.1*age[i] + b + rng.Normal(0, 4, 1)[0]
		}
	}
	wide := frame.NewTable()
	require.NoError(t, wide.AddString("SEQN", seqn))
	require.NoError(t, wide.AddFloat("RIDAGEYR", age))
	require.NoError(t, wide.AddFloat("RIAGENDR", sex))
	require.NoError(t, wide.AddFloat("BMXBMI", bmi))
	for _, c := range names {
		require.NoError(t, wide.AddFloat(c, bpcols[c]))
	}
	return wide
}

func TestRunModelsSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("11 REML fits, skip in -short")
	}
	long, err := BuildLong(syntheticWide(t, 120, 31))
	require.NoError(t, err)

	outcomes, err := RunModels(long)
	require.NoError(t, err)
	require.Len(t, outcomes, 11)

	// 固定顺序
	for i, o := range outcomes {
		require.Equal(t, "model"+strconv.Itoa(i+1), o.Name)
	}
	require.NotNil(t, outcomes[0].OLS)
	require.Nil(t, outcomes[0].Mixed)

	for _, o := range outcomes[1:] {
		require.NotNil(t, o.Mixed, o.Name)
		// ICC不变量: 两个分量非负时必落在[0,1], 否则NaN
		icc := o.Mixed.ICC()
		if !math.IsNaN(icc) {
			require.GreaterOrEqual(t, icc, 0.0, o.Name)
			require.LessOrEqual(t, icc, 1.0, o.Name)
		}
		require.Positive(t, o.Mixed.NObs, o.Name)
		require.Positive(t, o.Mixed.NGroups, o.Name)
	}

	// 干净的随机截距数据上, 基础随机截距模型应当收敛
	require.True(t, outcomes[1].Mixed.Converged, "model2 should converge on clean data")
}
