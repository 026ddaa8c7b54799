package game

import (
	apperrors "github.com/wfunc/life-sim/internal/errors"
)

// StatKind 角色属性类型
type StatKind string

const (
	StatHealth       StatKind = "health"       // 健康
	StatHappiness    StatKind = "happiness"    // 快乐
	StatIntelligence StatKind = "intelligence" // 智力
	StatWealth       StatKind = "wealth"       // 财富
)

// Effects 属性变化映射，wealth为无界增减，其余增减后截断到[0,100]
type Effects map[StatKind]int

// CharacterStats 角色核心属性
// 只能由LifeEngine持有并通过效果应用修改。
type CharacterStats struct {
	Age          int     `json:"age"`
	Health       int     `json:"health"`
	Happiness    int     `json:"happiness"`
	Intelligence int     `json:"intelligence"`
	Wealth       float64 `json:"wealth"`
}

// NewCharacterStats 创建初始角色属性
func NewCharacterStats() *CharacterStats {
	return &CharacterStats{
		Age:          0,
		Health:       100,
		Happiness:    50,
		Intelligence: 50,
		Wealth:       0,
	}
}

// clampStat 截断属性值到[0,100]
func clampStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ApplyEffects 应用属性变化
// wealth无界（允许负债），其余属性截断到[0,100]。
// 未知属性类型直接报错，不做静默忽略。
func (s *CharacterStats) ApplyEffects(effects Effects) error {
	// 先校验再变更，保证失败时属性不被部分更新
	for kind := range effects {
		switch kind {
		case StatHealth, StatHappiness, StatIntelligence, StatWealth:
		default:
			return apperrors.Newf(apperrors.ErrInvalidStatKind, "属性: %s", kind)
		}
	}

	for kind, delta := range effects {
		switch kind {
		case StatHealth:
			s.Health = clampStat(s.Health + delta)
		case StatHappiness:
			s.Happiness = clampStat(s.Happiness + delta)
		case StatIntelligence:
			s.Intelligence = clampStat(s.Intelligence + delta)
		case StatWealth:
			s.Wealth += float64(delta)
		}
	}

	return nil
}

// Get 按属性类型读取当前值（wealth取整用于门槛比较）
func (s *CharacterStats) Get(kind StatKind) (int, bool) {
	switch kind {
	case StatHealth:
		return s.Health, true
	case StatHappiness:
		return s.Happiness, true
	case StatIntelligence:
		return s.Intelligence, true
	case StatWealth:
		return int(s.Wealth), true
	}
	return 0, false
}

// AdjustForAge 每年一次的自然属性调整
// 50岁后健康额外每年-2；健康±5、快乐±10随机波动；25岁前智力+0~2。
func (s *CharacterStats) AdjustForAge(rng RandomGenerator) {
	if s.Age > 50 {
		s.Health = clampStat(s.Health - 2)
	}

	s.Health = clampStat(s.Health + rng.NextInt(-5, 5))
	s.Happiness = clampStat(s.Happiness + rng.NextInt(-10, 10))

	if s.Age < 25 {
		s.Intelligence = clampStat(s.Intelligence + rng.NextInt(0, 2))
	}
}
