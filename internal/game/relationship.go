package game

import (
	"fmt"

	apperrors "github.com/wfunc/life-sim/internal/errors"
)

// RelationType 关系类型
type RelationType string

const (
	RelationFamily  RelationType = "family"  // 家人
	RelationFriend  RelationType = "friend"  // 朋友
	RelationPartner RelationType = "partner" // 伴侣
	RelationChild   RelationType = "child"   // 子女
)

// Gender 性别
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// 特殊互动标签
const (
	InteractionMakeLove = "Make love"
	InteractionPropose  = "Propose"
	InteractionBreakUp  = "Break up"
)

// 亲密互动的关系等级门槛与意外怀孕概率
const (
	intimacyLevelThreshold = 75
	pregnancyChance        = 0.1
	unplannedPregnancyCost = 20 // 未婚怀孕的额外快乐损耗
)

// InteractionEffect 互动效果表条目
type InteractionEffect struct {
	LevelChange   int `json:"level_change"`
	Happiness     int `json:"happiness"`
	Wealth        int `json:"wealth,omitempty"`
	RequiresLevel int `json:"requires_level,omitempty"`
}

// 三张固定互动效果表：伴侣 / 朋友 / 家人与子女
var partnerInteractions = map[string]InteractionEffect{
	"Go on date":        {LevelChange: 10, Happiness: 10, Wealth: -100},
	InteractionMakeLove: {LevelChange: 15, Happiness: 15},
	InteractionPropose:  {LevelChange: 20, Happiness: 20, Wealth: -5000, RequiresLevel: 80},
	InteractionBreakUp:  {LevelChange: -100, Happiness: -30},
}

var friendInteractions = map[string]InteractionEffect{
	"Hang out":          {LevelChange: 5, Happiness: 5},
	"Deep conversation": {LevelChange: 10, Happiness: 8},
	"Go on vacation":    {LevelChange: 15, Happiness: 15, Wealth: -1000},
	"Have an argument":  {LevelChange: -20, Happiness: -15},
}

var familyInteractions = map[string]InteractionEffect{
	"Spend time together": {LevelChange: 5, Happiness: 5},
	"Have dinner":         {LevelChange: 8, Happiness: 8, Wealth: -50},
	"Share stories":       {LevelChange: 10, Happiness: 10},
	"Have an argument":    {LevelChange: -15, Happiness: -10},
}

// InteractionsForType 返回关系类型适用的互动效果表
func InteractionsForType(relType RelationType) map[string]InteractionEffect {
	switch relType {
	case RelationPartner:
		return partnerInteractions
	case RelationFriend:
		return friendInteractions
	default:
		return familyInteractions
	}
}

// ChildRef 父母条目下的子女反引用
type ChildRef struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
	Age    int    `json:"age"`
}

// Relationship 一段具名关系
type Relationship struct {
	Name      string       `json:"name"`
	Type      RelationType `json:"type"`
	Level     int          `json:"level"` // 亲密度 [0,100]
	Age       int          `json:"age"`
	IsFamily  bool         `json:"is_family"`
	IsMarried bool         `json:"is_married"`
	Gender    Gender       `json:"gender,omitempty"`
	Children  []ChildRef   `json:"children,omitempty"`
}

// InteractionResult 互动结果
// Success=false 表示软性业务拒绝（等级不足等），不是错误。
type InteractionResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Happiness int    `json:"happiness"` // 对玩家快乐的影响
	Wealth    int    `json:"wealth"`    // 对玩家财富的影响
	Pregnancy bool   `json:"pregnancy"` // 意外怀孕标记
	Breakup   bool   `json:"breakup"`   // 通知调用方移除这段关系
}

// Interact 执行一次互动
// 未知互动标签是硬错误；等级门槛不满足返回软拒绝结果。
func (r *Relationship) Interact(label string, rng RandomGenerator) (*InteractionResult, error) {
	table := InteractionsForType(r.Type)
	effect, ok := table[label]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrUnknownInteraction, "%s 不适用于 %s", label, r.Type)
	}

	if effect.RequiresLevel > 0 && r.Level < effect.RequiresLevel {
		return &InteractionResult{
			Success: false,
			Message: fmt.Sprintf("Relationship level too low for %s. Need level %d", label, effect.RequiresLevel),
		}, nil
	}

	// 亲密互动：等级门槛75，成功后10%概率意外怀孕
	if label == InteractionMakeLove {
		if r.Level < intimacyLevelThreshold {
			return &InteractionResult{
				Success: false,
				Message: fmt.Sprintf("%s is not close enough for intimate interactions. Need level %d+", r.Name, intimacyLevelThreshold),
			}, nil
		}

		result := &InteractionResult{
			Success:   true,
			Message:   fmt.Sprintf("You made love with %s", r.Name),
			Happiness: effect.Happiness,
			Wealth:    effect.Wealth,
			Pregnancy: rng.Chance(pregnancyChance),
		}
		if result.Pregnancy && !r.IsMarried {
			result.Happiness -= unplannedPregnancyCost
		}
		r.Level = clampStat(r.Level + effect.LevelChange)
		return result, nil
	}

	// 分手：关系删除由调用方执行，这里只发信号
	if label == InteractionBreakUp {
		return &InteractionResult{
			Success:   true,
			Message:   fmt.Sprintf("You broke up with %s.", r.Name),
			Happiness: effect.Happiness,
			Wealth:    effect.Wealth,
			Breakup:   true,
		}, nil
	}

	// 求婚：单向转换，婚姻永久生效
	if label == InteractionPropose {
		r.IsMarried = true
		r.Level = clampStat(r.Level + effect.LevelChange)
		return &InteractionResult{
			Success:   true,
			Message:   fmt.Sprintf("%s said yes! You are now married.", r.Name),
			Happiness: effect.Happiness,
			Wealth:    effect.Wealth,
		}, nil
	}

	r.Level = clampStat(r.Level + effect.LevelChange)

	return &InteractionResult{
		Success:   true,
		Message:   fmt.Sprintf("You chose to %q with %s", label, r.Name),
		Happiness: effect.Happiness,
		Wealth:    effect.Wealth,
	}, nil
}

// AddChild 在父母条目下登记一名子女
func (r *Relationship) AddChild(name string, gender Gender) ChildRef {
	child := ChildRef{Name: name, Gender: gender}
	r.Children = append(r.Children, child)
	return child
}

// RelationshipConfig 建立关系的参数
type RelationshipConfig struct {
	Name     string
	Type     RelationType
	Level    int
	Age      int
	IsFamily bool
	Gender   Gender
}

// RelationshipGraph 具名关系集合，强制容量不变量
type RelationshipGraph struct {
	relationships map[string]*Relationship
	order         []string // 插入顺序，保证遍历与展示稳定
	maxFriends    int
	maxChildren   int
	minFriendAge  int
	minPartnerAge int
	rng           RandomGenerator
}

// GraphConfig 关系图容量配置
type GraphConfig struct {
	MaxFriends    int
	MaxChildren   int
	MinFriendAge  int
	MinPartnerAge int
}

// NewRelationshipGraph 创建关系图
func NewRelationshipGraph(cfg GraphConfig, rng RandomGenerator) *RelationshipGraph {
	return &RelationshipGraph{
		relationships: make(map[string]*Relationship),
		maxFriends:    cfg.MaxFriends,
		maxChildren:   cfg.MaxChildren,
		minFriendAge:  cfg.MinFriendAge,
		minPartnerAge: cfg.MinPartnerAge,
		rng:           rng,
	}
}

// Get 按名字查找关系
func (g *RelationshipGraph) Get(name string) *Relationship {
	return g.relationships[name]
}

// Partner 当前伴侣，没有返回nil
func (g *RelationshipGraph) Partner() *Relationship {
	for _, name := range g.order {
		if r := g.relationships[name]; r != nil && r.Type == RelationPartner {
			return r
		}
	}
	return nil
}

// Friends 当前朋友列表
func (g *RelationshipGraph) Friends() []*Relationship {
	return g.byType(RelationFriend)
}

// Children 当前子女列表
func (g *RelationshipGraph) Children() []*Relationship {
	return g.byType(RelationChild)
}

func (g *RelationshipGraph) byType(relType RelationType) []*Relationship {
	var result []*Relationship
	for _, name := range g.order {
		if r := g.relationships[name]; r != nil && r.Type == relType {
			result = append(result, r)
		}
	}
	return result
}

// All 全部关系（插入顺序）
func (g *RelationshipGraph) All() []*Relationship {
	result := make([]*Relationship, 0, len(g.relationships))
	for _, name := range g.order {
		if r := g.relationships[name]; r != nil {
			result = append(result, r)
		}
	}
	return result
}

// CanFindFriend 是否还能交新朋友
func (g *RelationshipGraph) CanFindFriend(playerAge int) bool {
	return playerAge >= g.minFriendAge && len(g.Friends()) < g.maxFriends
}

// CanFindPartner 是否可以找伴侣
func (g *RelationshipGraph) CanFindPartner(playerAge int) bool {
	return playerAge >= g.minPartnerAge && g.Partner() == nil
}

// CanHaveChild 是否可以要孩子（需已婚伴侣且未达子女上限）
func (g *RelationshipGraph) CanHaveChild() bool {
	partner := g.Partner()
	return partner != nil && partner.IsMarried && len(g.Children()) < g.maxChildren
}

// Add 建立新关系，容量不变量在这里强制
// 超出容量（第二个伴侣、朋友/子女满额）或重名时返回nil（软拒绝）。
func (g *RelationshipGraph) Add(cfg RelationshipConfig) *Relationship {
	if _, exists := g.relationships[cfg.Name]; exists {
		return nil
	}

	switch cfg.Type {
	case RelationPartner:
		if g.Partner() != nil {
			return nil
		}
	case RelationFriend:
		if len(g.Friends()) >= g.maxFriends {
			return nil
		}
	case RelationChild:
		if len(g.Children()) >= g.maxChildren {
			return nil
		}
	}

	r := &Relationship{
		Name:     cfg.Name,
		Type:     cfg.Type,
		Level:    cfg.Level,
		Age:      cfg.Age,
		IsFamily: cfg.IsFamily,
		Gender:   cfg.Gender,
	}
	g.relationships[cfg.Name] = r
	g.order = append(g.order, cfg.Name)
	return r
}

// Remove 删除一段关系
func (g *RelationshipGraph) Remove(name string) bool {
	if _, ok := g.relationships[name]; !ok {
		return false
	}
	delete(g.relationships, name)
	for i, n := range g.order {
		if n == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return true
}

var (
	maleFriendNames    = []string{"Alex", "Chris", "Sam", "Tom", "Ryan"}
	femaleFriendNames  = []string{"Kate", "Amy", "Rachel", "Emily", "Jessica"}
	malePartnerNames   = []string{"James", "Michael", "David", "John", "Robert"}
	femalePartnerNames = []string{"Emma", "Sophie", "Sarah", "Lisa", "Anna"}
)

func (g *RelationshipGraph) randomGender() Gender {
	if g.rng.Chance(0.5) {
		return GenderMale
	}
	return GenderFemale
}

func pickName(names []string, rng RandomGenerator) string {
	return names[rng.NextInt(0, len(names)-1)]
}

// FindPartner 随机遇到一位伴侣（年龄相仿±5），不满足前置条件返回nil
func (g *RelationshipGraph) FindPartner(playerAge int) *Relationship {
	if !g.CanFindPartner(playerAge) {
		return nil
	}

	gender := g.randomGender()
	names := malePartnerNames
	if gender == GenderFemale {
		names = femalePartnerNames
	}

	return g.Add(RelationshipConfig{
		Name:   pickName(names, g.rng),
		Type:   RelationPartner,
		Level:  50,
		Age:    playerAge + g.rng.NextInt(-5, 5),
		Gender: gender,
	})
}

// FindFriend 随机结识一位朋友（年龄相仿±3），不满足前置条件返回nil
func (g *RelationshipGraph) FindFriend(playerAge int) *Relationship {
	if !g.CanFindFriend(playerAge) {
		return nil
	}

	gender := g.randomGender()
	names := maleFriendNames
	if gender == GenderFemale {
		names = femaleFriendNames
	}

	return g.Add(RelationshipConfig{
		Name:   pickName(names, g.rng),
		Type:   RelationFriend,
		Level:  30,
		Age:    playerAge + g.rng.NextInt(-3, 3),
		Gender: gender,
	})
}

// AddChild 生育一名子女
// 要求指定的关系是已婚伴侣且未达子女上限，否则返回nil。
func (g *RelationshipGraph) AddChild(parentName, childName string, gender Gender) *Relationship {
	if !g.CanHaveChild() {
		return nil
	}

	parent := g.Get(parentName)
	if parent == nil || parent.Type != RelationPartner || !parent.IsMarried {
		return nil
	}

	child := g.Add(RelationshipConfig{
		Name:     childName,
		Type:     RelationChild,
		Level:    100,
		IsFamily: true,
		Gender:   gender,
	})
	if child == nil {
		return nil
	}

	parent.AddChild(childName, gender)
	return child
}

// partnerDeathChance 伴侣年度死亡概率（按伴侣年龄分段）
func partnerDeathChance(age int) float64 {
	switch {
	case age < 30:
		return 0.001
	case age < 50:
		return 0.005
	case age < 70:
		return 0.01
	case age < 80:
		return 0.03
	case age < 90:
		return 0.08
	default:
		return 0.15
	}
}

// YearlyUpdate 年度更新
// 所有关系年龄+1；非家人且未婚的关系亲密度随机衰减5~10；
// 朋友亲密度低于25时每年有40%概率断交；伴侣按年龄段做死亡判定。
// 返回本年度产生的叙事事件。
func (g *RelationshipGraph) YearlyUpdate() []string {
	var toRemove []string
	var events []string

	for _, name := range g.order {
		r := g.relationships[name]
		if r == nil {
			continue
		}

		r.Age++

		if !r.IsFamily && !r.IsMarried {
			r.Level = clampStat(r.Level - g.rng.NextInt(5, 10))

			if r.Type == RelationFriend && r.Level < 25 && g.rng.Chance(0.4) {
				toRemove = append(toRemove, r.Name)
				events = append(events, fmt.Sprintf("You lost touch with %s.", r.Name))
				continue
			}
		}

		if r.Type == RelationPartner && g.rng.Chance(partnerDeathChance(r.Age)) {
			toRemove = append(toRemove, r.Name)
			events = append(events, fmt.Sprintf("Your partner %s has passed away due to natural causes.", r.Name))
		}
	}

	for _, name := range toRemove {
		g.Remove(name)
	}

	return events
}
