package game

import (
	"math/rand"
	"sync"
	"time"
)

// RandomGenerator 随机数生成器接口
// 引擎内所有随机决策（事件抽取、死亡判定、满意度漂移、衰减幅度、怀孕概率）
// 都必须经过这个接口，便于测试时注入确定性实现。
type RandomGenerator interface {
	// Next 生成下一个随机数 [0,1)
	Next() float64

	// NextInt 生成指定范围内的随机整数（闭区间 [min,max]）
	NextInt(min, max int) int

	// Chance 以概率p返回true
	Chance(p float64) bool

	// Seed 设置种子
	Seed(seed int64)
}

// DefaultRandomGenerator 基于math/rand的默认实现
type DefaultRandomGenerator struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomGenerator 创建以当前时间为种子的随机数生成器
func NewRandomGenerator() *DefaultRandomGenerator {
	return NewSeededRandomGenerator(time.Now().UnixNano())
}

// NewSeededRandomGenerator 创建指定种子的随机数生成器（用于确定性测试）
func NewSeededRandomGenerator(seed int64) *DefaultRandomGenerator {
	return &DefaultRandomGenerator{
		r: rand.New(rand.NewSource(seed)),
	}
}

// Next 生成下一个随机数 [0,1)
func (g *DefaultRandomGenerator) Next() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.r.Float64()
}

// NextInt 生成指定范围内的随机整数（闭区间）
func (g *DefaultRandomGenerator) NextInt(min, max int) int {
	if min >= max {
		return min
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return min + g.r.Intn(max-min+1)
}

// Chance 以概率p返回true
func (g *DefaultRandomGenerator) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return g.Next() < p
}

// Seed 设置种子
func (g *DefaultRandomGenerator) Seed(seed int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.r = rand.New(rand.NewSource(seed))
}
