package game

import (
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/wfunc/life-sim/internal/errors"
	"github.com/wfunc/life-sim/internal/logger"
	"github.com/wfunc/life-sim/internal/utils"
	"go.uber.org/zap"
)

// EngineOptions 引擎平衡参数
type EngineOptions struct {
	ActionsPerYear       int
	MaxLivingPets        int
	MaxFriends           int
	MaxChildren          int
	MinFriendAge         int
	MinPartnerAge        int
	BirthdayAllowance    float64
	GraduationIntBonus   int
	DeathCheckAge        int
	DeathChancePerYear   float64
	QuitJobHappinessCost int
	AdoptHappinessBonus  int
}

// DefaultEngineOptions 默认平衡参数
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		ActionsPerYear:       3,
		MaxLivingPets:        3,
		MaxFriends:           3,
		MaxChildren:          3,
		MinFriendAge:         6,
		MinPartnerAge:        16,
		BirthdayAllowance:    10.0,
		GraduationIntBonus:   10,
		DeathCheckAge:        70,
		DeathChancePerYear:   0.01,
		QuitJobHappinessCost: 10,
		AdoptHappinessBonus:  10,
	}
}

// CommandResult 一次操作的结果，Lines为叙事文本
type CommandResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Lines   []string `json:"lines,omitempty"`
}

func softReject(message string) *CommandResult {
	return &CommandResult{Success: false, Message: message}
}

func ok(message string, lines ...string) *CommandResult {
	return &CommandResult{Success: true, Message: message, Lines: lines}
}

// LifeEngine 人生模拟引擎，单局游戏的全部状态与规则
type LifeEngine struct {
	mu sync.Mutex

	opts    EngineOptions
	rng     RandomGenerator
	started bool
	alive   bool

	stats       *CharacterStats
	actionsLeft int
	actions     map[string]*Action
	events      *EventCatalog
	education   *Education
	careers     map[string]*JobTemplate
	career      *Career
	relations   *RelationshipGraph
	pets        *PetRoster

	pendingEvent *LifeEvent
	pendingChild bool
	deathCause   string

	log *zap.Logger
}

// NewLifeEngine 创建引擎，状态为未开始
func NewLifeEngine(opts EngineOptions, rng RandomGenerator) *LifeEngine {
	actions := make(map[string]*Action)
	for _, a := range DefaultActions() {
		actions[a.Name] = a
	}

	return &LifeEngine{
		opts:    opts,
		rng:     rng,
		actions: actions,
		events:  DefaultEventCatalog(),
		careers: DefaultCareers(),
		log:     logger.GetModuleLogger("engine"),
	}
}

// StartGame 开始新的一局，初始带父母两位家人
func (e *LifeEngine) StartGame() (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil, apperrors.New(apperrors.ErrGameAlreadyStarted, "游戏已经开始")
	}

	e.started = true
	e.alive = true
	e.stats = NewCharacterStats()
	e.actionsLeft = e.opts.ActionsPerYear
	e.education = NewEducation(DefaultMajors())
	e.relations = NewRelationshipGraph(GraphConfig{
		MaxFriends:    e.opts.MaxFriends,
		MaxChildren:   e.opts.MaxChildren,
		MinFriendAge:  e.opts.MinFriendAge,
		MinPartnerAge: e.opts.MinPartnerAge,
	}, e.rng)
	e.pets = NewPetRoster(e.opts.MaxLivingPets, e.rng)

	e.relations.Add(RelationshipConfig{Name: "Mom", Type: RelationFamily, Level: 75, Age: 28, IsFamily: true, Gender: GenderFemale})
	e.relations.Add(RelationshipConfig{Name: "Dad", Type: RelationFamily, Level: 75, Age: 30, IsFamily: true, Gender: GenderMale})

	e.log.Info("新游戏开始")
	return ok("Game started! You are now 0 years old."), nil
}

// ensureActive 校验游戏处于可操作状态
func (e *LifeEngine) ensureActive() error {
	if !e.started {
		return apperrors.New(apperrors.ErrGameNotStarted, "游戏尚未开始")
	}
	if !e.alive {
		return apperrors.New(apperrors.ErrGameOver, "游戏已结束")
	}
	return nil
}

// AdvanceYear 推进一年，按固定顺序结算各子系统
// 存在未处理的选择事件时软拒绝，直到ResolveEvent被调用。
// 游戏结束后推进是无操作的软拒绝，不产生任何状态变化。
func (e *LifeEngine) AdvanceYear() (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, apperrors.New(apperrors.ErrGameNotStarted, "游戏尚未开始")
	}
	if !e.alive {
		return softReject("Your life has already ended."), nil
	}
	if e.pendingEvent != nil {
		return softReject("You must respond to the current event before time moves on."), nil
	}

	var lines []string

	// 1. 年龄与生日零花钱
	e.stats.Age++
	allowance := float64(e.stats.Age) * e.opts.BirthdayAllowance
	e.stats.Wealth += allowance
	lines = append(lines, fmt.Sprintf("Happy birthday! You are now %d years old. You received %s.", e.stats.Age, utils.FormatMoney(allowance)))

	// 2. 学业推进与毕业
	if e.education.Enrolled() {
		if e.education.StudyYear() {
			major := e.education.Major()
			e.stats.Intelligence = clampStat(e.stats.Intelligence + e.opts.GraduationIntBonus)
			lines = append(lines, fmt.Sprintf("You graduated with a degree in %s!", major.Name))
		}
	}

	// 3. 年龄相关的属性漂移
	e.stats.AdjustForAge(e.rng)

	// 4. 工作结算，高满意度时有小概率晋升
	if e.career != nil {
		satisfaction, salary := e.career.YearlyUpdate(e.rng)
		e.stats.Wealth += salary
		e.stats.Happiness = clampStat(e.stats.Happiness + (satisfaction-50)/10)
		lines = append(lines, fmt.Sprintf("You earned %s as a %s.", utils.FormatMoney(salary), e.career.JobTitle))
		if satisfaction >= 70 && e.rng.Chance(0.1) {
			lines = append(lines, e.career.Promote())
		}
	}

	// 5. 关系年度更新
	lines = append(lines, e.relations.YearlyUpdate()...)

	// 6. 宠物年度更新
	lines = append(lines, e.pets.YearlyUpdate()...)

	// 7. 恢复行动点
	e.actionsLeft = e.opts.ActionsPerYear

	// 8. 抽取年度事件
	if event := e.events.PickRandom(e.stats.Age, e.rng); event != nil {
		if event.HasChoices() {
			e.pendingEvent = event
			lines = append(lines, event.Text)
		} else if text, err := event.Resolve(e.stats, ""); err == nil {
			lines = append(lines, text)
		}
	}

	// 9. 自然死亡判定，超龄后每年概率线性递增
	deathChance := float64(e.stats.Age-e.opts.DeathCheckAge) * e.opts.DeathChancePerYear
	if deathChance < 0 {
		deathChance = 0
	}
	if e.rng.Chance(deathChance) {
		e.die("natural causes")
		lines = append(lines, fmt.Sprintf("You have passed away at age %d due to natural causes.", e.stats.Age))
	} else if e.stats.Health <= 0 {
		e.die("poor health")
		lines = append(lines, fmt.Sprintf("You have passed away at age %d due to poor health.", e.stats.Age))
	}

	e.log.Debug("推进一年", zap.Int("age", e.stats.Age), zap.Bool("alive", e.alive))
	return ok(fmt.Sprintf("Year %d", e.stats.Age), lines...), nil
}

func (e *LifeEngine) die(cause string) {
	e.alive = false
	e.deathCause = cause
	e.log.Info("角色死亡", zap.Int("age", e.stats.Age), zap.String("cause", cause))
}

// ResolveEvent 处理当前待选择事件
func (e *LifeEngine) ResolveEvent(choice string) (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureActive(); err != nil {
		return nil, err
	}
	if e.pendingEvent == nil {
		return nil, apperrors.New(apperrors.ErrNoPendingEvent, "当前没有待处理的事件")
	}

	outcome, err := e.pendingEvent.Resolve(e.stats, choice)
	if err != nil {
		return nil, err
	}
	e.pendingEvent = nil
	return ok(outcome), nil
}

// PerformAction 执行一次年度行动
func (e *LifeEngine) PerformAction(name string) (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureActive(); err != nil {
		return nil, err
	}

	action, exists := e.actions[name]
	if !exists {
		return nil, apperrors.Newf(apperrors.ErrUnknownAction, "未知的行动: %s", name)
	}
	if e.actionsLeft <= 0 {
		return softReject("No actions left this year. Advance to the next year first."), nil
	}

	message, err := action.Execute(e.stats)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrActionUnavailable) {
			return softReject(fmt.Sprintf("You can't %s right now.", name)), nil
		}
		return nil, err
	}

	e.actionsLeft--
	if e.stats.Health <= 0 {
		e.die("poor health")
		return ok(message, fmt.Sprintf("You have passed away at age %d due to poor health.", e.stats.Age)), nil
	}
	return ok(message), nil
}

// ApplyForJob 申请职位
func (e *LifeEngine) ApplyForJob(careerKey string) (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureActive(); err != nil {
		return nil, err
	}

	template, exists := e.careers[careerKey]
	if !exists {
		return nil, apperrors.Newf(apperrors.ErrUnknownCareer, "未知的职业: %s", careerKey)
	}
	if e.career != nil {
		return softReject(fmt.Sprintf("You already work as a %s. Quit first.", e.career.JobTitle)), nil
	}
	if !template.CanApply(e.stats, e.education) {
		return softReject(fmt.Sprintf("You don't meet the requirements for %s.", template.JobTitle)), nil
	}

	e.career = NewCareer(template)
	e.log.Info("入职", zap.String("job", template.JobTitle), zap.String("company", template.Company))
	return ok(fmt.Sprintf("Congratulations! You are now a %s at %s earning %s per year.",
		template.JobTitle, template.Company, utils.FormatMoney(template.Salary))), nil
}

// QuitJob 辞职，工龄超过5年有遣散费
func (e *LifeEngine) QuitJob() (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureActive(); err != nil {
		return nil, err
	}
	if e.career == nil {
		return softReject("You don't have a job to quit."), nil
	}

	severance, message := e.career.Quit()
	e.career = nil
	e.stats.Wealth += severance
	e.stats.Happiness = clampStat(e.stats.Happiness - e.opts.QuitJobHappinessCost)
	return ok(message), nil
}

// StartCollege 入学指定专业，学费一次性预付
func (e *LifeEngine) StartCollege(majorKey string) (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureActive(); err != nil {
		return nil, err
	}

	major, err := e.education.Lookup(majorKey)
	if err != nil {
		return nil, err
	}
	if e.education.Enrolled() {
		return softReject(fmt.Sprintf("You are already studying %s.", e.education.Major().Name)), nil
	}
	if e.stats.Intelligence < major.IntelligenceReq {
		return softReject(fmt.Sprintf("You need %d intelligence to study %s.", major.IntelligenceReq, major.Name)), nil
	}
	tuition := float64(major.Cost)
	if e.stats.Wealth < tuition {
		return softReject(fmt.Sprintf("You can't afford the %s tuition of %s.", major.Name, utils.FormatMoney(tuition))), nil
	}

	e.education.StartMajor(majorKey)
	e.stats.Wealth -= tuition
	return ok(fmt.Sprintf("You enrolled in %s. Tuition of %s paid. %d years to graduate.",
		major.Name, utils.FormatMoney(tuition), major.Duration)), nil
}

// InteractWithRelationship 与指定关系互动
func (e *LifeEngine) InteractWithRelationship(name, interaction string) (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureActive(); err != nil {
		return nil, err
	}

	r := e.relations.Get(name)
	if r == nil {
		return nil, apperrors.Newf(apperrors.ErrRelationshipNotFound, "找不到关系: %s", name)
	}

	result, err := r.Interact(interaction, e.rng)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return softReject(result.Message), nil
	}

	e.stats.Happiness = clampStat(e.stats.Happiness + result.Happiness)
	e.stats.Wealth += float64(result.Wealth)

	lines := []string{}
	if result.Breakup {
		e.relations.Remove(name)
	}
	if result.Pregnancy && r.IsMarried && e.relations.CanHaveChild() {
		e.pendingChild = true
		lines = append(lines, fmt.Sprintf("%s is pregnant! Name your child when they arrive.", r.Name))
	}

	return ok(result.Message, lines...), nil
}

// FindFriend 结识新朋友
func (e *LifeEngine) FindFriend() (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureActive(); err != nil {
		return nil, err
	}

	friend := e.relations.FindFriend(e.stats.Age)
	if friend == nil {
		return softReject("You couldn't make a new friend right now."), nil
	}
	return ok(fmt.Sprintf("You became friends with %s!", friend.Name)), nil
}

// FindPartner 寻找伴侣
func (e *LifeEngine) FindPartner() (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureActive(); err != nil {
		return nil, err
	}

	partner := e.relations.FindPartner(e.stats.Age)
	if partner == nil {
		return softReject("You couldn't find a partner right now."), nil
	}
	return ok(fmt.Sprintf("You started dating %s!", partner.Name)), nil
}

// NameChild 命名并迎接待出生的子女
func (e *LifeEngine) NameChild(name string) (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureActive(); err != nil {
		return nil, err
	}
	if !e.pendingChild {
		return softReject("You are not expecting a child."), nil
	}

	partner := e.relations.Partner()
	if partner == nil {
		e.pendingChild = false
		return softReject("You are not expecting a child."), nil
	}

	gender := GenderMale
	if e.rng.Chance(0.5) {
		gender = GenderFemale
	}

	child := e.relations.AddChild(partner.Name, name, gender)
	if child == nil {
		e.pendingChild = false
		return softReject("You couldn't welcome another child."), nil
	}

	e.pendingChild = false
	e.stats.Happiness = clampStat(e.stats.Happiness + 20)
	return ok(fmt.Sprintf("Welcome to the world, %s!", name)), nil
}

// AdoptPet 领养宠物，花费购买价并提升快乐
func (e *LifeEngine) AdoptPet(name, speciesKey string) (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureActive(); err != nil {
		return nil, err
	}

	species, err := e.pets.Species(speciesKey)
	if err != nil {
		return nil, err
	}
	if e.stats.Wealth < species.Cost {
		return softReject(fmt.Sprintf("You can't afford a %s. It costs %s.", species.Name, utils.FormatMoney(species.Cost))), nil
	}

	pet, err := e.pets.Adopt(name, speciesKey)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return softReject("You can't care for another pet right now."), nil
	}

	e.stats.Wealth -= species.Cost
	e.stats.Happiness = clampStat(e.stats.Happiness + e.opts.AdoptHappinessBonus)
	return ok(fmt.Sprintf("You adopted a %s named %s! %s", species.Name, name, species.Emoji)), nil
}

// InteractWithPet 与宠物互动，成功时玩家快乐+5
func (e *LifeEngine) InteractWithPet(name, interaction string) (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureActive(); err != nil {
		return nil, err
	}

	pet := e.pets.Find(name)
	if pet == nil {
		return nil, apperrors.Newf(apperrors.ErrPetNotFound, "找不到宠物: %s", name)
	}

	message, err := pet.Interact(interaction)
	if err != nil {
		return nil, err
	}
	if pet.Alive {
		e.stats.Happiness = clampStat(e.stats.Happiness + 5)
	}
	return ok(message), nil
}

// PutDownPet 安乐死，快乐-15
func (e *LifeEngine) PutDownPet(name string) (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureActive(); err != nil {
		return nil, err
	}

	pet, err := e.pets.PutDown(name)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return softReject(fmt.Sprintf("%s has already passed away.", name)), nil
	}

	e.stats.Happiness = clampStat(e.stats.Happiness - 15)
	return ok(fmt.Sprintf("You said goodbye to %s. Rest in peace.", pet.Name)), nil
}

// GiveUpPet 送养，快乐-10
func (e *LifeEngine) GiveUpPet(name string) (*CommandResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureActive(); err != nil {
		return nil, err
	}

	pet, err := e.pets.GiveUp(name)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return softReject(fmt.Sprintf("%s has already passed away.", name)), nil
	}

	e.stats.Happiness = clampStat(e.stats.Happiness - 10)
	return ok(fmt.Sprintf("You gave %s up for adoption. A new family will care for them.", pet.Name)), nil
}

// PendingEventSnapshot 待处理事件视图
type PendingEventSnapshot struct {
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

// CareerSnapshot 当前工作视图
type CareerSnapshot struct {
	JobTitle        string  `json:"job_title"`
	Company         string  `json:"company"`
	Salary          float64 `json:"salary"`
	Satisfaction    int     `json:"satisfaction"`
	YearsInPosition int     `json:"years_in_position"`
}

// EducationSnapshot 学业视图
type EducationSnapshot struct {
	MajorName    string `json:"major_name,omitempty"`
	YearsStudied int    `json:"years_studied"`
	Graduated    bool   `json:"graduated"`
}

// StateSnapshot 对外暴露的完整游戏状态
type StateSnapshot struct {
	Started          bool                  `json:"started"`
	Alive            bool                  `json:"alive"`
	DeathCause       string                `json:"death_cause,omitempty"`
	Stats            CharacterStats        `json:"stats"`
	ActionsLeft      int                   `json:"actions_left"`
	AvailableActions []string              `json:"available_actions"`
	Career           *CareerSnapshot       `json:"career,omitempty"`
	Education        *EducationSnapshot    `json:"education,omitempty"`
	Relationships    []*Relationship       `json:"relationships"`
	Pets             []*Pet                `json:"pets"`
	PendingEvent     *PendingEventSnapshot `json:"pending_event,omitempty"`
	PendingChild     bool                  `json:"pending_child"`
}

// Snapshot 导出当前游戏状态的只读副本
func (e *LifeEngine) Snapshot() (*StateSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, apperrors.New(apperrors.ErrGameNotStarted, "游戏尚未开始")
	}

	snap := &StateSnapshot{
		Started:          true,
		Alive:            e.alive,
		DeathCause:       e.deathCause,
		Stats:            *e.stats,
		ActionsLeft:      e.actionsLeft,
		AvailableActions: AvailableActionNames(e.actions, e.stats),
		Relationships:    e.relations.All(),
		Pets:             e.pets.All(),
		PendingChild:     e.pendingChild,
	}

	if e.career != nil {
		snap.Career = &CareerSnapshot{
			JobTitle:        e.career.JobTitle,
			Company:         e.career.Company,
			Salary:          e.career.Salary,
			Satisfaction:    e.career.Satisfaction,
			YearsInPosition: e.career.YearsInPosition,
		}
	}

	if e.education.Enrolled() || e.education.Graduated {
		es := &EducationSnapshot{
			YearsStudied: e.education.YearsStudied,
			Graduated:    e.education.Graduated,
		}
		if major := e.education.Major(); major != nil {
			es.MajorName = major.Name
		}
		snap.Education = es
	}

	if e.pendingEvent != nil {
		pe := &PendingEventSnapshot{Text: e.pendingEvent.Text}
		for label := range e.pendingEvent.Choices {
			pe.Choices = append(pe.Choices, label)
		}
		sort.Strings(pe.Choices)
		snap.PendingEvent = pe
	}

	return snap, nil
}

// Catalog 目录数据：可选专业、职业与宠物物种
type Catalog struct {
	Actions []*Action               `json:"actions"`
	Majors  map[string]*Major       `json:"majors"`
	Careers map[string]*JobTemplate `json:"careers"`
	Species map[string]*PetSpecies  `json:"species"`
}

// Catalog 导出静态目录，供客户端展示可选项
func (e *LifeEngine) Catalog() *Catalog {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, 0, len(e.actions))
	for name := range e.actions {
		names = append(names, name)
	}
	sort.Strings(names)

	actions := make([]*Action, 0, len(names))
	for _, name := range names {
		actions = append(actions, e.actions[name])
	}

	species := DefaultPetSpecies()
	if e.pets != nil {
		species = e.pets.AllSpecies()
	}

	return &Catalog{
		Actions: actions,
		Majors:  DefaultMajors(),
		Careers: e.careers,
		Species: species,
	}
}
