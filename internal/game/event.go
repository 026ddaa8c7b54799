package game

import (
	apperrors "github.com/wfunc/life-sim/internal/errors"
)

// AgeBand 事件池年龄段（左闭右开）
type AgeBand string

const (
	BandChildhood AgeBand = "childhood" // [0,13)
	BandTeenage   AgeBand = "teenage"   // [13,20)
	BandAdult     AgeBand = "adult"     // [20,65)
	BandElderly   AgeBand = "elderly"   // [65,∞)
)

// BandForAge 按年龄选择事件池
func BandForAge(age int) AgeBand {
	switch {
	case age < 13:
		return BandChildhood
	case age < 20:
		return BandTeenage
	case age < 65:
		return BandAdult
	default:
		return BandElderly
	}
}

// EventChoice 事件的分支选项
type EventChoice struct {
	Text    string  `json:"text"`    // 选择后的叙事
	Effects Effects `json:"effects"` // 选择的属性变化
}

// LifeEvent 随机人生事件定义（不可变，只被抽取）
type LifeEvent struct {
	Text    string                 `json:"text"`
	Effects Effects                `json:"effects,omitempty"`
	Choices map[string]EventChoice `json:"choices,omitempty"`
}

// HasChoices 是否为分支事件
func (e *LifeEvent) HasChoices() bool {
	return len(e.Choices) > 0
}

// Resolve 结算事件
// 无分支事件直接应用效果；分支事件必须给出已定义的选项标签。
func (e *LifeEvent) Resolve(stats *CharacterStats, choiceLabel string) (string, error) {
	if !e.HasChoices() {
		if err := stats.ApplyEffects(e.Effects); err != nil {
			return "", err
		}
		return e.Text, nil
	}

	choice, ok := e.Choices[choiceLabel]
	if !ok {
		return "", apperrors.New(apperrors.ErrInvalidChoice, choiceLabel)
	}

	if err := stats.ApplyEffects(choice.Effects); err != nil {
		return "", err
	}

	return choice.Text, nil
}

// EventCatalog 按年龄段分池的事件目录
// 实现者不变量：每个年龄段至少有1个事件。
type EventCatalog struct {
	pools map[AgeBand][]*LifeEvent
}

// NewEventCatalog 用给定事件池创建目录
func NewEventCatalog(pools map[AgeBand][]*LifeEvent) *EventCatalog {
	return &EventCatalog{pools: pools}
}

// PickRandom 按年龄选池后等概率抽取一个事件
func (c *EventCatalog) PickRandom(age int, rng RandomGenerator) *LifeEvent {
	pool := c.pools[BandForAge(age)]
	return pool[rng.NextInt(0, len(pool)-1)]
}

// DefaultEventCatalog 默认事件目录
func DefaultEventCatalog() *EventCatalog {
	return NewEventCatalog(map[AgeBand][]*LifeEvent{
		BandChildhood: {
			{Text: "You learned to walk!", Effects: Effects{StatHappiness: 10, StatIntelligence: 5}},
			{Text: "You made your first friend!", Effects: Effects{StatHappiness: 15}},
			{Text: "You started school!", Effects: Effects{StatIntelligence: 10, StatHappiness: 5}},
		},
		BandTeenage: {
			{Text: "You got your first crush!", Effects: Effects{StatHappiness: 10}},
			{Text: "You joined a school club!", Effects: Effects{StatIntelligence: 10, StatHappiness: 5}},
			{Text: "You learned to drive!", Effects: Effects{StatHappiness: 15}},
			{
				Text: "A classmate offered you a cigarette behind the gym.",
				Choices: map[string]EventChoice{
					"Accept": {
						Text:    "You tried it and felt awful afterwards.",
						Effects: Effects{StatHealth: -10, StatHappiness: 5},
					},
					"Refuse": {
						Text:    "You walked away feeling good about yourself.",
						Effects: Effects{StatHappiness: 5, StatIntelligence: 2},
					},
				},
			},
		},
		BandAdult: {
			{Text: "You got your first job!", Effects: Effects{StatWealth: 1000, StatHappiness: 10}},
			{Text: "You moved into your own place!", Effects: Effects{StatHappiness: 20, StatWealth: -5000}},
			{Text: "You went on vacation!", Effects: Effects{StatHappiness: 25, StatWealth: -2000}},
			{
				Text: "An old friend asked you to invest in their startup.",
				Choices: map[string]EventChoice{
					"Invest": {
						Text:    "You wrote the check. Time will tell if it pays off.",
						Effects: Effects{StatWealth: -3000, StatHappiness: 5},
					},
					"Decline": {
						Text:    "You politely declined and kept your savings.",
						Effects: Effects{StatHappiness: -2},
					},
				},
			},
		},
		BandElderly: {
			{Text: "You retired!", Effects: Effects{StatHappiness: 15, StatWealth: -1000}},
			{Text: "You became a grandparent!", Effects: Effects{StatHappiness: 30}},
			{Text: "You took up gardening!", Effects: Effects{StatHappiness: 10, StatHealth: 5}},
		},
	})
}
