// 重复测量血压数据管线: 三份调查抽取表 → 长表 → 混合模型序列
package survey

import (
	"bpstat/frame"
)

// 调查抽取表的固定schema (来源调查决定, 每受试者最多4次SY+4次DI读数)
var (
	SYCols = []string{"BPXSY1", "BPXSY2", "BPXSY3", "BPXSY4"}
	DICols = []string{"BPXDI1", "BPXDI2", "BPXDI3", "BPXDI4"}
)

// Files 三份csv抽取表路径, 均以SEQN为主键
type Files struct {
	Demo string // 人口学: SEQN, RIDAGEYR, RIAGENDR
	Bmx  string // 体测: SEQN, BMXBMI
	Bpx  string // 血压: SEQN, BPXSY1..4, BPXDI1..4
}

// Load 读三份抽取表并按SEQN内连接成一张宽表
func Load(f Files) (*frame.Table, error) {
	demo, err := frame.ReadCSV(f.Demo, []string{"RIDAGEYR", "RIAGENDR"}, []string{"SEQN"})
	if err != nil {
		return nil, err
	}
	bmx, err := frame.ReadCSV(f.Bmx, []string{"BMXBMI"}, []string{"SEQN"})
	if err != nil {
		return nil, err
	}
	bpCols := append(append([]string{}, SYCols...), DICols...)
	bpx, err := frame.ReadCSV(f.Bpx, bpCols, []string{"SEQN"})
	if err != nil {
		return nil, err
	}

	wide, err := demo.InnerJoin(bmx, "SEQN")
	if err != nil {
		return nil, err
	}
	return wide.InnerJoin(bpx, "SEQN")
}
