// 混合效应线性模型 (随机截距/随机斜率/命名方差分量), REML估计
// 优化器与线性代数交给gonum, 本包只负责组内设计矩阵与profiled似然
package mixedlm

// Term 固定效应项
type Term struct {
	Name        string
	Categorical bool // true时按字符串列做哑变量编码, 首个水平(字典序)为基准
}

// VarComponent 命名方差分量: 一组0/1指示列共享一个方差
type VarComponent struct {
	Name       string
	Indicators []string
}

// ModelSpec 模型配置, 替代公式字符串:
// 响应列 + 有序固定效应项 + 分组键 + 可选随机斜率列 + 可选方差分量
// (随机截距总是包含在内)
type ModelSpec struct {
	Response      string
	FixedEffects  []Term
	GroupKey      string
	RandomSlopes  []string
	VarComponents []VarComponent
}

// 模型里实际要求非缺失的数值列
func (s ModelSpec) numericCols() []string {
	cols := []string{s.Response}
	for _, t := range s.FixedEffects {
		if !t.Categorical {
			cols = append(cols, t.Name)
		}
	}
	cols = append(cols, s.RandomSlopes...)
	for _, vc := range s.VarComponents {
		cols = append(cols, vc.Indicators...)
	}
	return cols
}
