package game

import (
	"fmt"

	apperrors "github.com/wfunc/life-sim/internal/errors"
)

// PetSpecies 物种模板
type PetSpecies struct {
	Key             string  `json:"key"`
	Emoji           string  `json:"emoji"`
	Name            string  `json:"name"`
	Cost            float64 `json:"cost"`
	MaintenanceCost float64 `json:"maintenance_cost"` // 目录字段，当前不扣费
	Lifespan        int     `json:"lifespan"`         // 预期寿命（年）
}

// DefaultPetSpecies 内置物种目录
func DefaultPetSpecies() map[string]*PetSpecies {
	return map[string]*PetSpecies{
		"DOG":        {Key: "DOG", Emoji: "🐕", Name: "Dog", Cost: 500, MaintenanceCost: 100, Lifespan: 13},
		"CAT":        {Key: "CAT", Emoji: "🐱", Name: "Cat", Cost: 400, MaintenanceCost: 80, Lifespan: 15},
		"BIRD":       {Key: "BIRD", Emoji: "🦜", Name: "Bird", Cost: 200, MaintenanceCost: 50, Lifespan: 10},
		"RABBIT":     {Key: "RABBIT", Emoji: "🐰", Name: "Rabbit", Cost: 300, MaintenanceCost: 60, Lifespan: 8},
		"GUINEA_PIG": {Key: "GUINEA_PIG", Emoji: "🐹", Name: "Guinea Pig", Cost: 250, MaintenanceCost: 40, Lifespan: 6},
		"MOUSE":      {Key: "MOUSE", Emoji: "🐭", Name: "Mouse", Cost: 100, MaintenanceCost: 20, Lifespan: 2},
		"FISH":       {Key: "FISH", Emoji: "🐠", Name: "Fish", Cost: 150, MaintenanceCost: 30, Lifespan: 3},
		"HAMSTER":    {Key: "HAMSTER", Emoji: "🐹", Name: "Hamster", Cost: 150, MaintenanceCost: 25, Lifespan: 2},
	}
}

// 宠物互动效果
type petInteraction struct {
	Bond      int
	Happiness int // 宠物快乐
	Health    int // 宠物健康
	Message   string
}

var petInteractions = map[string]petInteraction{
	"Play":      {Bond: 10, Happiness: 15, Health: -5, Message: "You played with %s. %s loved it!"},
	"Feed":      {Bond: 5, Happiness: 10, Health: 10, Message: "You fed %s a delicious treat."},
	"Vet Visit": {Bond: -5, Happiness: -10, Health: 30, Message: "You took %s to the vet. %s is much healthier now."},
}

// Pet 一只具体的宠物
type Pet struct {
	Name       string      `json:"name"`
	Species    *PetSpecies `json:"species"`
	Age        int         `json:"age"`
	Health     int         `json:"health"`    // [0,100]
	Happiness  int         `json:"happiness"` // [0,100]
	Bond       int         `json:"bond"`      // [0,100]
	Alive      bool        `json:"alive"`
	DeathCause string      `json:"death_cause,omitempty"`
}

// NewPet 创建新宠物
func NewPet(name string, species *PetSpecies) *Pet {
	return &Pet{
		Name:      name,
		Species:   species,
		Age:       0,
		Health:    100,
		Happiness: 50,
		Bond:      50,
		Alive:     true,
	}
}

// Interact 与宠物互动，属性双端截断在[0,100]
// 未知互动标签是硬错误；已死亡的宠物互动无效果只返回提示。
func (p *Pet) Interact(label string) (string, error) {
	effect, ok := petInteractions[label]
	if !ok {
		return "", apperrors.Newf(apperrors.ErrUnknownPetAction, "未知的宠物互动: %s", label)
	}

	if !p.Alive {
		return fmt.Sprintf("%s is no longer with you.", p.Name), nil
	}

	p.Bond = clampStat(p.Bond + effect.Bond)
	p.Happiness = clampStat(p.Happiness + effect.Happiness)
	p.Health = clampStat(p.Health + effect.Health)

	return fmt.Sprintf(effect.Message, p.Name, p.Name), nil
}

// die 宠物死亡，属性归零并记录死因
func (p *Pet) die(cause string) {
	p.Alive = false
	p.DeathCause = cause
	p.Health = 0
	p.Happiness = 0
	p.Bond = 0
}

// AgeYear 宠物年度老化
// 健康按寿命占比衰减，快乐与羁绊随机衰减；
// 超过寿命80%后死亡概率线性上升，健康归零也会死亡。
// 返回true表示宠物在本年度死亡。
func (p *Pet) AgeYear(rng RandomGenerator) bool {
	if !p.Alive {
		return false
	}

	p.Age++

	decay := int(float64(p.Age) / float64(p.Species.Lifespan) * 10)
	p.Health = clampStat(p.Health - decay)
	p.Happiness = clampStat(p.Happiness - rng.NextInt(5, 10))
	p.Bond = clampStat(p.Bond - rng.NextInt(3, 7))

	deathChance := (float64(p.Age) - float64(p.Species.Lifespan)*0.8) / float64(p.Species.Lifespan)
	if deathChance < 0 {
		deathChance = 0
	}

	if p.Health <= 0 || rng.Chance(deathChance) {
		p.die("natural causes")
		return true
	}
	return false
}

// PetRoster 宠物集合，活宠上限固定，死亡宠物保留在历史中
type PetRoster struct {
	pets      []*Pet
	species   map[string]*PetSpecies
	maxLiving int
	rng       RandomGenerator
}

// NewPetRoster 创建宠物集合
func NewPetRoster(maxLiving int, rng RandomGenerator) *PetRoster {
	return &PetRoster{
		species:   DefaultPetSpecies(),
		maxLiving: maxLiving,
		rng:       rng,
	}
}

// Species 按key查找物种，未知key是硬错误
func (r *PetRoster) Species(key string) (*PetSpecies, error) {
	s, ok := r.species[key]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrUnknownPetSpecies, "未知的宠物物种: %s", key)
	}
	return s, nil
}

// AllSpecies 物种目录
func (r *PetRoster) AllSpecies() map[string]*PetSpecies {
	return r.species
}

// Living 当前存活的宠物
func (r *PetRoster) Living() []*Pet {
	var result []*Pet
	for _, p := range r.pets {
		if p.Alive {
			result = append(result, p)
		}
	}
	return result
}

// All 全部宠物（含已死亡）
func (r *PetRoster) All() []*Pet {
	return r.pets
}

// Find 按名字查找宠物
func (r *PetRoster) Find(name string) *Pet {
	for _, p := range r.pets {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// CanAdopt 是否还能领养
func (r *PetRoster) CanAdopt() bool {
	return len(r.Living()) < r.maxLiving
}

// Adopt 领养一只宠物
// 活宠满额或重名时返回nil（软拒绝），物种key未知是硬错误。
func (r *PetRoster) Adopt(name, speciesKey string) (*Pet, error) {
	species, err := r.Species(speciesKey)
	if err != nil {
		return nil, err
	}

	if !r.CanAdopt() || r.Find(name) != nil {
		return nil, nil
	}

	pet := NewPet(name, species)
	r.pets = append(r.pets, pet)
	return pet, nil
}

// PutDown 安乐死，宠物保留在历史中
// 已死亡的宠物返回nil（软拒绝）。
func (r *PetRoster) PutDown(name string) (*Pet, error) {
	pet := r.Find(name)
	if pet == nil {
		return nil, apperrors.Newf(apperrors.ErrPetNotFound, "找不到宠物: %s", name)
	}
	if !pet.Alive {
		return nil, nil
	}
	pet.die("euthanasia")
	return pet, nil
}

// GiveUp 送养，宠物从集合中移除
// 已死亡的宠物保留在历史中，返回nil（软拒绝）。
func (r *PetRoster) GiveUp(name string) (*Pet, error) {
	for i, p := range r.pets {
		if p.Name == name {
			if !p.Alive {
				return nil, nil
			}
			r.pets = append(r.pets[:i], r.pets[i+1:]...)
			return p, nil
		}
	}
	return nil, apperrors.Newf(apperrors.ErrPetNotFound, "找不到宠物: %s", name)
}

// YearlyUpdate 全体宠物年度老化，返回死亡叙事
func (r *PetRoster) YearlyUpdate() []string {
	var events []string
	for _, p := range r.pets {
		if p.AgeYear(r.rng) {
			events = append(events, fmt.Sprintf("Your %s %s has passed away at age %d. Rest in peace.", p.Species.Name, p.Name, p.Age))
		}
	}
	return events
}
