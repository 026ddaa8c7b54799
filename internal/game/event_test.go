package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/wfunc/life-sim/internal/errors"
)

func TestBandForAge(t *testing.T) {
	tests := []struct {
		name string
		age  int
		want AgeBand
	}{
		{"出生", 0, BandChildhood},
		{"童年上界", 12, BandChildhood},
		{"青少年下界", 13, BandTeenage},
		{"青少年上界", 19, BandTeenage},
		{"成年下界", 20, BandAdult},
		{"成年上界", 64, BandAdult},
		{"老年下界", 65, BandElderly},
		{"高龄", 100, BandElderly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BandForAge(tt.age))
		})
	}
}

func TestResolve_NoChoices(t *testing.T) {
	event := &LifeEvent{
		Text:    "You went on vacation!",
		Effects: Effects{StatHappiness: 25, StatWealth: -2000},
	}
	stats := NewCharacterStats()

	text, err := event.Resolve(stats, "")
	require.NoError(t, err)

	assert.Equal(t, "You went on vacation!", text)
	assert.Equal(t, 75, stats.Happiness)
	assert.Equal(t, -2000.0, stats.Wealth)
}

func TestResolve_WithChoices(t *testing.T) {
	newEvent := func() *LifeEvent {
		return &LifeEvent{
			Text: "A classmate offered you a cigarette behind the gym.",
			Choices: map[string]EventChoice{
				"Accept": {Text: "You tried it.", Effects: Effects{StatHealth: -10, StatHappiness: 5}},
				"Refuse": {Text: "You walked away.", Effects: Effects{StatHappiness: 5, StatIntelligence: 2}},
			},
		}
	}

	t.Run("有效选项应用对应效果", func(t *testing.T) {
		stats := NewCharacterStats()
		text, err := newEvent().Resolve(stats, "Refuse")
		require.NoError(t, err)

		assert.Equal(t, "You walked away.", text)
		assert.Equal(t, 55, stats.Happiness)
		assert.Equal(t, 52, stats.Intelligence)
		assert.Equal(t, 100, stats.Health)
	})

	t.Run("无效选项报错且属性不变", func(t *testing.T) {
		stats := NewCharacterStats()
		_, err := newEvent().Resolve(stats, "Run away")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidChoice))

		assert.Equal(t, 100, stats.Health)
		assert.Equal(t, 50, stats.Happiness)
	})
}

func TestPickRandom(t *testing.T) {
	catalog := DefaultEventCatalog()

	t.Run("按年龄段抽取", func(t *testing.T) {
		// 索引0：童年池的第一个事件
		event := catalog.PickRandom(5, &scriptedRNG{ints: []int{0}})
		require.NotNil(t, event)
		assert.Equal(t, "You learned to walk!", event.Text)
	})

	t.Run("每个年龄段都有事件", func(t *testing.T) {
		for _, age := range []int{0, 13, 20, 65} {
			assert.NotNil(t, catalog.PickRandom(age, neverRNG()))
		}
	})
}

func TestDefaultEventCatalog_HasChoiceEvents(t *testing.T) {
	catalog := DefaultEventCatalog()

	// 青少年池的第4个事件是分支事件
	event := catalog.PickRandom(15, &scriptedRNG{ints: []int{3}})
	require.NotNil(t, event)
	assert.True(t, event.HasChoices())
	assert.Contains(t, event.Choices, "Accept")
	assert.Contains(t, event.Choices, "Refuse")
}
