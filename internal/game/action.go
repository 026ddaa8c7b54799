package game

import (
	"fmt"
	"math"
	"sort"

	apperrors "github.com/wfunc/life-sim/internal/errors"
)

// NoMaxAge 表示行动没有年龄上限
const NoMaxAge = math.MaxInt32

// Action 可自由执行的行动定义（进程启动时构建，之后不可变）
type Action struct {
	Name         string           `json:"name"`         // 行动标识
	Label        string           `json:"label"`        // 叙事用的过去式短语
	Type         string           `json:"type"`         // 分类标签
	MinAge       int              `json:"min_age"`      // 最小年龄（含）
	MaxAge       int              `json:"max_age"`      // 最大年龄（含）
	Requirements map[StatKind]int `json:"requirements"` // 属性门槛
	Effects      Effects          `json:"effects"`      // 属性变化
	Description  string           `json:"description"`  // 结果描述
}

// IsAvailable 判断行动是否满足年龄与属性门槛
func (a *Action) IsAvailable(stats *CharacterStats) bool {
	if stats.Age < a.MinAge || stats.Age > a.MaxAge {
		return false
	}

	for kind, minValue := range a.Requirements {
		value, ok := stats.Get(kind)
		if !ok || value < minValue {
			return false
		}
	}

	return true
}

// Execute 执行行动并应用效果，门槛不满足时报错且不产生任何变更
func (a *Action) Execute(stats *CharacterStats) (string, error) {
	if !a.IsAvailable(stats) {
		return "", apperrors.New(apperrors.ErrActionUnavailable, a.Name)
	}

	if err := stats.ApplyEffects(a.Effects); err != nil {
		return "", err
	}

	return fmt.Sprintf("You %s. %s", a.Label, a.Description), nil
}

// DefaultActions 行动目录
func DefaultActions() map[string]*Action {
	return map[string]*Action{
		"study": {
			Name:        "study",
			Label:       "studied hard",
			Type:        "education",
			MinAge:      6,
			MaxAge:      30,
			Effects:     Effects{StatIntelligence: 10, StatHappiness: -5, StatWealth: -500},
			Description: "Your intelligence increased but you feel tired.",
		},
		"exercise": {
			Name:        "exercise",
			Label:       "exercised",
			Type:        "health",
			MinAge:      5,
			MaxAge:      NoMaxAge,
			Effects:     Effects{StatHealth: 15, StatHappiness: 5, StatWealth: -100},
			Description: "You feel healthier and more energetic!",
		},
		"work": {
			Name:         "work",
			Label:        "worked overtime",
			Type:         "career",
			MinAge:       16,
			MaxAge:       NoMaxAge,
			Requirements: map[StatKind]int{StatHealth: 30},
			Effects:      Effects{StatWealth: 2000, StatHappiness: -10, StatHealth: -5},
			Description:  "You earned extra money but feel exhausted.",
		},
		"party": {
			Name:        "party",
			Label:       "went to a party",
			Type:        "social",
			MinAge:      13,
			MaxAge:      NoMaxAge,
			Effects:     Effects{StatHappiness: 20, StatHealth: -5, StatWealth: -200},
			Description: "You had a great time socializing!",
		},
		"meditate": {
			Name:        "meditate",
			Label:       "meditated",
			Type:        "wellness",
			MinAge:      10,
			MaxAge:      NoMaxAge,
			Effects:     Effects{StatHappiness: 15, StatHealth: 5},
			Description: "You feel more peaceful and centered.",
		},
	}
}

// AvailableActionNames 返回当前可用的行动名称（有序，便于展示）
func AvailableActionNames(actions map[string]*Action, stats *CharacterStats) []string {
	names := make([]string, 0, len(actions))
	for name, action := range actions {
		if action.IsAvailable(stats) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
