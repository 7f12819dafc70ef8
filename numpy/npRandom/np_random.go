// 仿 np.random.default_rng 的显式种子随机源
// 各生成/采样函数不再共享全局generator, 由调用方传入Rng (可复现)
package npRandom

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

type Rng struct {
	rnd  *rand.Rand
	norm distuv.Normal
}

// NewRng 固定seed可复现: 同一seed下产出序列逐bit一致
func NewRng(seed uint64) *Rng {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Rng{
		rnd:  rand.New(src),
		norm: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

// StandardNormal 抽取n个N(0,1)样本
func (r *Rng) StandardNormal(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = r.norm.Rand()
	}
	return out
}

// Normal 抽取n个N(mu, sigma^2)样本
func (r *Rng) Normal(mu, sigma float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mu + sigma*r.norm.Rand()
	}
	return out
}

// Float64 [0,1)均匀
func (r *Rng) Float64() float64 {
	return r.rnd.Float64()
}

// IntN [0,n)均匀整数
func (r *Rng) IntN(n int) int {
	return r.rnd.IntN(n)
}
