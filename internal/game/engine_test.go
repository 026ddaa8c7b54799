package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/wfunc/life-sim/internal/errors"
)

func newTestEngine(t *testing.T, rng RandomGenerator) *LifeEngine {
	engine := NewLifeEngine(DefaultEngineOptions(), rng)
	_, err := engine.StartGame()
	require.NoError(t, err)
	return engine
}

func TestStartGame(t *testing.T) {
	engine := NewLifeEngine(DefaultEngineOptions(), neverRNG())

	result, err := engine.StartGame()
	require.NoError(t, err)
	assert.Equal(t, "Game started! You are now 0 years old.", result.Message)

	// 初始带父母两位家人
	snapshot, err := engine.Snapshot()
	require.NoError(t, err)
	require.Len(t, snapshot.Relationships, 2)
	assert.Equal(t, "Mom", snapshot.Relationships[0].Name)
	assert.Equal(t, 75, snapshot.Relationships[0].Level)
	assert.Equal(t, "Dad", snapshot.Relationships[1].Name)

	// 重复开局报错
	_, err = engine.StartGame()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrGameAlreadyStarted))
}

func TestOperationsBeforeStart(t *testing.T) {
	engine := NewLifeEngine(DefaultEngineOptions(), neverRNG())

	_, err := engine.AdvanceYear()
	assert.True(t, apperrors.Is(err, apperrors.ErrGameNotStarted))

	_, err = engine.PerformAction("study")
	assert.True(t, apperrors.Is(err, apperrors.ErrGameNotStarted))

	_, err = engine.Snapshot()
	assert.True(t, apperrors.Is(err, apperrors.ErrGameNotStarted))
}

func TestAdvanceYear_FixedSequence(t *testing.T) {
	engine := newTestEngine(t, neverRNG())

	result, err := engine.AdvanceYear()
	require.NoError(t, err)
	require.True(t, result.Success)

	snapshot, err := engine.Snapshot()
	require.NoError(t, err)

	// 随机波动全部取区间最小值：健康-5，快乐-10，智力+0
	// 事件固定抽到童年池第一个（快乐+10，智力+5）
	assert.Equal(t, 1, snapshot.Stats.Age)
	assert.Equal(t, 95, snapshot.Stats.Health)
	assert.Equal(t, 50, snapshot.Stats.Happiness)
	assert.Equal(t, 55, snapshot.Stats.Intelligence)
	// 生日零花钱：年龄×10
	assert.Equal(t, 10.0, snapshot.Stats.Wealth)
	assert.Equal(t, 3, snapshot.ActionsLeft)
	assert.Contains(t, result.Lines[0], "Happy birthday")
}

func TestAdvanceYear_BirthdayAllowanceScalesWithAge(t *testing.T) {
	engine := newTestEngine(t, neverRNG())

	_, err := engine.AdvanceYear()
	require.NoError(t, err)
	_, err = engine.AdvanceYear()
	require.NoError(t, err)

	snapshot, err := engine.Snapshot()
	require.NoError(t, err)
	// 10 + 20
	assert.Equal(t, 30.0, snapshot.Stats.Wealth)
}

func TestPendingEventBlocksAdvance(t *testing.T) {
	engine := newTestEngine(t, neverRNG())

	// 用只含分支事件的目录替换默认目录
	engine.events = NewEventCatalog(map[AgeBand][]*LifeEvent{
		BandChildhood: {
			{
				Text: "A stranger offered you candy.",
				Choices: map[string]EventChoice{
					"Take it":   {Text: "You took the candy.", Effects: Effects{StatHappiness: 5}},
					"Refuse it": {Text: "You ran home.", Effects: Effects{StatIntelligence: 2}},
				},
			},
		},
		BandTeenage: {{Text: "Quiet year.", Effects: Effects{}}},
		BandAdult:   {{Text: "Quiet year.", Effects: Effects{}}},
		BandElderly: {{Text: "Quiet year.", Effects: Effects{}}},
	})

	_, err := engine.AdvanceYear()
	require.NoError(t, err)

	snapshot, err := engine.Snapshot()
	require.NoError(t, err)
	require.NotNil(t, snapshot.PendingEvent)
	assert.Equal(t, []string{"Refuse it", "Take it"}, snapshot.PendingEvent.Choices)

	// 未处理事件时不能推进
	result, err := engine.AdvanceYear()
	require.NoError(t, err)
	assert.False(t, result.Success)

	// 无效选项报错且事件保持待处理
	_, err = engine.ResolveEvent("Eat it")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidChoice))

	result, err = engine.ResolveEvent("Take it")
	require.NoError(t, err)
	assert.Equal(t, "You took the candy.", result.Message)

	// 处理后可以继续推进
	result, err = engine.AdvanceYear()
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestResolveEvent_NoPending(t *testing.T) {
	engine := newTestEngine(t, neverRNG())

	_, err := engine.ResolveEvent("Take it")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNoPendingEvent))
}

func TestPerformAction(t *testing.T) {
	t.Run("消耗行动点", func(t *testing.T) {
		engine := newTestEngine(t, neverRNG())
		engine.stats.Age = 20

		for i := 0; i < 3; i++ {
			result, err := engine.PerformAction("meditate")
			require.NoError(t, err)
			assert.True(t, result.Success)
		}

		// 第4次软拒绝
		result, err := engine.PerformAction("meditate")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "No actions left")
	})

	t.Run("未知行动硬错误", func(t *testing.T) {
		engine := newTestEngine(t, neverRNG())

		_, err := engine.PerformAction("rob_bank")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnknownAction))
	})

	t.Run("门槛不满足软拒绝且不消耗行动点", func(t *testing.T) {
		engine := newTestEngine(t, neverRNG())
		// 0岁不能学习

		result, err := engine.PerformAction("study")
		require.NoError(t, err)
		assert.False(t, result.Success)

		snapshot, _ := engine.Snapshot()
		assert.Equal(t, 3, snapshot.ActionsLeft)
	})
}

func TestApplyForJob(t *testing.T) {
	t.Run("满足条件入职", func(t *testing.T) {
		engine := newTestEngine(t, neverRNG())
		engine.stats.Age = 16

		result, err := engine.ApplyForJob("retail")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Contains(t, result.Message, "Retail Worker")

		snapshot, _ := engine.Snapshot()
		require.NotNil(t, snapshot.Career)
		assert.Equal(t, 25000.0, snapshot.Career.Salary)
	})

	t.Run("条件不足软拒绝", func(t *testing.T) {
		engine := newTestEngine(t, neverRNG())
		engine.stats.Age = 30

		result, err := engine.ApplyForJob("doctor")
		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("在职时不能重复申请", func(t *testing.T) {
		engine := newTestEngine(t, neverRNG())
		engine.stats.Age = 18

		_, err := engine.ApplyForJob("retail")
		require.NoError(t, err)

		result, err := engine.ApplyForJob("office")
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "Quit first")
	})

	t.Run("未知职业硬错误", func(t *testing.T) {
		engine := newTestEngine(t, neverRNG())

		_, err := engine.ApplyForJob("astronaut_king")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnknownCareer))
	})
}

func TestQuitJob(t *testing.T) {
	engine := newTestEngine(t, neverRNG())
	engine.stats.Age = 16

	// 没有工作时软拒绝
	result, err := engine.QuitJob()
	require.NoError(t, err)
	assert.False(t, result.Success)

	_, err = engine.ApplyForJob("retail")
	require.NoError(t, err)

	result, err = engine.QuitJob()
	require.NoError(t, err)
	assert.True(t, result.Success)

	snapshot, _ := engine.Snapshot()
	assert.Nil(t, snapshot.Career)
	// 辞职快乐-10
	assert.Equal(t, 40, snapshot.Stats.Happiness)
}

func TestCareerIncomeOnAdvance(t *testing.T) {
	engine := newTestEngine(t, neverRNG())
	engine.stats.Age = 18

	_, err := engine.ApplyForJob("office")
	require.NoError(t, err)

	wealthBefore := engine.stats.Wealth
	_, err = engine.AdvanceYear()
	require.NoError(t, err)

	// 薪资随机微调取最小值-2%
	snapshot, _ := engine.Snapshot()
	assert.InDelta(t, wealthBefore+190+35000*0.98, snapshot.Stats.Wealth, 0.01)
}

func TestStartCollege(t *testing.T) {
	t.Run("智力不足软拒绝", func(t *testing.T) {
		engine := newTestEngine(t, neverRNG())
		engine.stats.Age = 18
		engine.stats.Wealth = 50000

		result, err := engine.StartCollege("MEDICINE")
		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("学费不够软拒绝", func(t *testing.T) {
		engine := newTestEngine(t, neverRNG())
		engine.stats.Age = 18
		engine.stats.Intelligence = 90

		result, err := engine.StartCollege("MEDICINE")
		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("入学时一次性扣除学费", func(t *testing.T) {
		engine := newTestEngine(t, neverRNG())
		engine.stats.Age = 18
		engine.stats.Intelligence = 90
		engine.stats.Wealth = 30000

		result, err := engine.StartCollege("MEDICINE")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 5000.0, engine.stats.Wealth)

		// 重复入学软拒绝
		result, err = engine.StartCollege("ARTS")
		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("未知专业硬错误", func(t *testing.T) {
		engine := newTestEngine(t, neverRNG())

		_, err := engine.StartCollege("ASTROLOGY")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnknownMajor))
	})
}

func TestGraduationBonus(t *testing.T) {
	engine := newTestEngine(t, neverRNG())
	engine.stats.Age = 25 // 避开智力自然增长
	engine.stats.Intelligence = 60
	engine.stats.Wealth = 20000

	_, err := engine.StartCollege("ARTS") // 学制4年
	require.NoError(t, err)

	var graduated bool
	for i := 0; i < 4; i++ {
		result, err := engine.AdvanceYear()
		require.NoError(t, err)
		for _, line := range result.Lines {
			if line == "You graduated with a degree in Arts!" {
				graduated = true
			}
		}
	}

	assert.True(t, graduated)
	// 毕业智力+10
	assert.Equal(t, 70, engine.stats.Intelligence)
	assert.True(t, engine.education.Graduated)
}

func TestRelationshipFlow(t *testing.T) {
	engine := newTestEngine(t, neverRNG())
	engine.stats.Age = 20

	// 找伴侣
	result, err := engine.FindPartner()
	require.NoError(t, err)
	require.True(t, result.Success)

	partner := engine.relations.Partner()
	require.NotNil(t, partner)
	partner.Level = 80

	// 求婚
	result, err = engine.InteractWithRelationship(partner.Name, InteractionPropose)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.True(t, partner.IsMarried)
	assert.Equal(t, -5000.0, engine.stats.Wealth)

	// 怀孕（概率命中）
	engine.rng = &scriptedRNG{floats: []float64{0.05}}
	result, err = engine.InteractWithRelationship(partner.Name, InteractionMakeLove)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.True(t, engine.pendingChild)

	// 命名子女
	result, err = engine.NameChild("Lily")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.False(t, engine.pendingChild)

	children := engine.relations.Children()
	require.Len(t, children, 1)
	assert.Equal(t, "Lily", children[0].Name)
	assert.Equal(t, 100, children[0].Level)
}

func TestInteractWithRelationship_Errors(t *testing.T) {
	engine := newTestEngine(t, neverRNG())

	_, err := engine.InteractWithRelationship("Stranger", "Hang out")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrRelationshipNotFound))

	_, err = engine.InteractWithRelationship("Mom", "Go on date")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnknownInteraction))
}

func TestNameChild_NotExpecting(t *testing.T) {
	engine := newTestEngine(t, neverRNG())

	result, err := engine.NameChild("Lily")
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestFindFriend_AgeGate(t *testing.T) {
	engine := newTestEngine(t, neverRNG())

	// 0岁不能交朋友
	result, err := engine.FindFriend()
	require.NoError(t, err)
	assert.False(t, result.Success)

	engine.stats.Age = 10
	result, err = engine.FindFriend()
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestAdoptPet(t *testing.T) {
	engine := newTestEngine(t, neverRNG())
	engine.stats.Wealth = 1000

	result, err := engine.AdoptPet("Rex", "DOG")
	require.NoError(t, err)
	require.True(t, result.Success)

	// 花费购买价，快乐+10
	assert.Equal(t, 500.0, engine.stats.Wealth)
	assert.Equal(t, 60, engine.stats.Happiness)

	// 钱不够时软拒绝
	engine.stats.Wealth = 100
	result, err = engine.AdoptPet("Whiskers", "CAT")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 100.0, engine.stats.Wealth)
}

func TestPetLifecycleThroughEngine(t *testing.T) {
	engine := newTestEngine(t, neverRNG())
	engine.stats.Wealth = 1000

	_, err := engine.AdoptPet("Rex", "DOG")
	require.NoError(t, err)

	// 互动：玩家快乐+5
	happinessBefore := engine.stats.Happiness
	result, err := engine.InteractWithPet("Rex", "Play")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, happinessBefore+5, engine.stats.Happiness)

	// 安乐死：快乐-15
	happinessBefore = engine.stats.Happiness
	_, err = engine.PutDownPet("Rex")
	require.NoError(t, err)
	assert.Equal(t, happinessBefore-15, engine.stats.Happiness)

	// 已死亡的宠物重复安乐死是软拒绝，不再扣快乐
	happinessBefore = engine.stats.Happiness
	result, err = engine.PutDownPet("Rex")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, happinessBefore, engine.stats.Happiness)

	// 已死亡的宠物不可送养，历史记录保留
	result, err = engine.GiveUpPet("Rex")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Len(t, engine.pets.All(), 1)

	_, err = engine.InteractWithPet("Ghost", "Play")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrPetNotFound))
}

func TestGiveUpPetThroughEngine(t *testing.T) {
	engine := newTestEngine(t, neverRNG())
	engine.stats.Wealth = 1000

	_, err := engine.AdoptPet("Rex", "DOG")
	require.NoError(t, err)

	happinessBefore := engine.stats.Happiness
	result, err := engine.GiveUpPet("Rex")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, happinessBefore-10, engine.stats.Happiness)
	assert.Empty(t, engine.pets.All())
}

func TestNaturalDeath(t *testing.T) {
	engine := newTestEngine(t, neverRNG())
	engine.stats.Age = 80
	// 死亡判定命中（事件抽取不消耗浮点）
	engine.rng = &scriptedRNG{floats: []float64{0.005}}

	result, err := engine.AdvanceYear()
	require.NoError(t, err)

	var died bool
	for _, line := range result.Lines {
		if line == "You have passed away at age 81 due to natural causes." {
			died = true
		}
	}
	assert.True(t, died)

	snapshot, err := engine.Snapshot()
	require.NoError(t, err)
	assert.False(t, snapshot.Alive)
	assert.Equal(t, "natural causes", snapshot.DeathCause)

	// 死亡后推进是无操作软拒绝：属性不变，无新日志
	statsBefore := *engine.stats
	result, err = engine.AdvanceYear()
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Lines)
	assert.Equal(t, statsBefore, *engine.stats)

	// 其他操作报错
	_, err = engine.PerformAction("meditate")
	assert.True(t, apperrors.Is(err, apperrors.ErrGameOver))
}

func TestNaturalDeathChanceScalesWithAge(t *testing.T) {
	t.Run("刚到判定年龄时概率为零", func(t *testing.T) {
		engine := newTestEngine(t, neverRNG())
		engine.stats.Age = 69
		// 70岁时概率为(70-70)*0.01=0，任何掷点都不会命中
		engine.rng = &scriptedRNG{floats: []float64{0.0}}

		result, err := engine.AdvanceYear()
		require.NoError(t, err)

		snapshot, err := engine.Snapshot()
		require.NoError(t, err)
		assert.True(t, snapshot.Alive)
		assert.Equal(t, 70, snapshot.Stats.Age)
		for _, line := range result.Lines {
			assert.NotContains(t, line, "passed away")
		}
	})

	t.Run("每超龄一年概率增加1%", func(t *testing.T) {
		engine := newTestEngine(t, neverRNG())
		engine.stats.Age = 99
		// 100岁时概率为(100-70)*0.01=0.30，0.05的掷点必定命中
		engine.rng = &scriptedRNG{floats: []float64{0.05}}

		result, err := engine.AdvanceYear()
		require.NoError(t, err)

		var died bool
		for _, line := range result.Lines {
			if line == "You have passed away at age 100 due to natural causes." {
				died = true
			}
		}
		assert.True(t, died)

		snapshot, err := engine.Snapshot()
		require.NoError(t, err)
		assert.False(t, snapshot.Alive)
		assert.Equal(t, "natural causes", snapshot.DeathCause)
	})
}

func TestCatalog(t *testing.T) {
	engine := NewLifeEngine(DefaultEngineOptions(), neverRNG())

	catalog := engine.Catalog()

	assert.Len(t, catalog.Actions, 5)
	assert.Len(t, catalog.Majors, 5)
	assert.Len(t, catalog.Careers, 17)
	assert.Len(t, catalog.Species, 8)
	// 行动按名称排序
	assert.Equal(t, "exercise", catalog.Actions[0].Name)
}
