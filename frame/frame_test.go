package frame

import (
	"math"
	"testing"
)

func wideFixture(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable()
	if err := tbl.AddString("SEQN", []string{"101", "102", "103"}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddFloat("AGE", []float64{40, 55, 62}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddFloat("SY1", []float64{120, 130, math.NaN()}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddFloat("SY2", []float64{122, math.NaN(), 140}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddFloat("DI1", []float64{80, 85, 90}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddFloat("DI2", []float64{82, 87, math.NaN()}); err != nil {
		t.Fatal(err)
	}
	return tbl
}

// 重塑往返: 过滤前行数 = 输入行数 × 被melt列数, 且每行能追溯到唯一源行
func TestMeltRowCountAndTraceability(t *testing.T) {
	tbl := wideFixture(t)
	long, err := tbl.Melt([]string{"SEQN", "AGE"}, []string{"SY1", "SY2", "DI1", "DI2"}, "bpvar", "bp")
	if err != nil {
		t.Fatal(err)
	}
	if long.NRows() != 3*4 {
		t.Fatalf("expected %d rows before filtering, got %d", 3*4, long.NRows())
	}

	seqn, _ := long.Str("SEQN")
	age, _ := long.Float("AGE")
	wantAge := map[string]float64{"101": 40, "102": 55, "103": 62}
	counts := map[string]int{}
	for i := range seqn {
		counts[seqn[i]]++
		if age[i] != wantAge[seqn[i]] {
			t.Fatalf("row %d: id columns do not match source row %s", i, seqn[i])
		}
	}
	for k, c := range counts {
		if c != 4 {
			t.Fatalf("subject %s appears %d times, want 4", k, c)
		}
	}
}

// 缺失过滤必须在melt之后: 某次测量缺失只丢该测量行
func TestCompleteCaseAfterMelt(t *testing.T) {
	tbl := wideFixture(t)
	long, err := tbl.Melt([]string{"SEQN"}, []string{"SY1", "SY2", "DI1", "DI2"}, "bpvar", "bp")
	if err != nil {
		t.Fatal(err)
	}
	clean := long.DropNaN("bp")
	// 3个NaN测量 → 12-3=9行
	if clean.NRows() != 9 {
		t.Fatalf("expected 9 complete rows, got %d", clean.NRows())
	}
	seqn, _ := clean.Str("SEQN")
	bpvar, _ := clean.Str("bpvar")
	for i := range seqn {
		if seqn[i] == "102" && bpvar[i] == "SY2" {
			t.Fatal("missing measurement survived the drop")
		}
	}
}

// 受试者有k个DI读数时, 回填均值 = 恰好这k个值的算术平均
func TestGroupMeanJoin(t *testing.T) {
	tbl := wideFixture(t)
	long, err := tbl.Melt([]string{"SEQN"}, []string{"DI1", "DI2"}, "bpvar", "bp")
	if err != nil {
		t.Fatal(err)
	}
	di := long.DropNaN("bp")
	means, err := di.GroupMean("SEQN", "bp")
	if err != nil {
		t.Fatal(err)
	}
	if got := means["101"]; got != 81 {
		t.Fatalf("subject 101 mean: got %v want 81", got)
	}
	if got := means["103"]; got != 90 { // DI2缺失, 均值只含DI1
		t.Fatalf("subject 103 mean: got %v want 90", got)
	}

	sy := NewTable()
	_ = sy.AddString("SEQN", []string{"101", "103", "999"})
	_ = sy.AddFloat("bp", []float64{120, 140, 150})
	if err := sy.JoinMean("SEQN", "mean_di", means); err != nil {
		t.Fatal(err)
	}
	md, _ := sy.Float("mean_di")
	if md[0] != 81 || md[1] != 90 {
		t.Fatalf("joined means wrong: %v", md)
	}
	if !math.IsNaN(md[2]) {
		t.Fatal("subject without complementary readings must get NaN")
	}
}

func TestInnerJoin(t *testing.T) {
	lhs := NewTable()
	_ = lhs.AddString("SEQN", []string{"1", "2", "3"})
	_ = lhs.AddFloat("AGE", []float64{30, 40, 50})
	rhs := NewTable()
	_ = rhs.AddString("SEQN", []string{"3", "1"})
	_ = rhs.AddFloat("BMI", []float64{27.5, 22.1})

	out, err := lhs.InnerJoin(rhs, "SEQN")
	if err != nil {
		t.Fatal(err)
	}
	if out.NRows() != 2 {
		t.Fatalf("expected 2 matched rows, got %d", out.NRows())
	}
	seqn, _ := out.Str("SEQN")
	bmi, _ := out.Float("BMI")
	if seqn[0] != "1" || bmi[0] != 22.1 || seqn[1] != "3" || bmi[1] != 27.5 {
		t.Fatalf("join misaligned: %v %v", seqn, bmi)
	}
}
