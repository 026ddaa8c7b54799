package game

import (
	"fmt"

	"github.com/wfunc/life-sim/internal/utils"
)

// JobTemplate 职业模板（静态目录）
type JobTemplate struct {
	Key             string  `json:"key"`
	JobTitle        string  `json:"job_title"`
	Company         string  `json:"company"`
	Salary          float64 `json:"salary"`           // 起薪
	BaseHappiness   int     `json:"base_happiness"`   // 职业的基础快乐值（展示用）
	MinAge          int     `json:"min_age"`          // 年龄门槛
	MinIntelligence int     `json:"min_intelligence"` // 智力门槛
	RequiredMajor   string  `json:"required_major,omitempty"`
}

// CanApply 申请资格判定：年龄、智力，以及需要专业的职业要求对应专业毕业
func (t *JobTemplate) CanApply(stats *CharacterStats, education *Education) bool {
	if stats.Age < t.MinAge || stats.Intelligence < t.MinIntelligence {
		return false
	}

	if t.RequiredMajor != "" {
		if !education.Graduated || education.CurrentMajor != t.RequiredMajor {
			return false
		}
	}

	return true
}

// Career 在职状态（申请成功时创建，辞职时销毁）
type Career struct {
	JobTitle        string  `json:"job_title"`
	Company         string  `json:"company"`
	Salary          float64 `json:"salary"`
	Satisfaction    int     `json:"satisfaction"`
	YearsInPosition int     `json:"years_in_position"`
}

// NewCareer 从模板创建在职状态
func NewCareer(tpl *JobTemplate) *Career {
	return &Career{
		JobTitle:     tpl.JobTitle,
		Company:      tpl.Company,
		Salary:       tpl.Salary,
		Satisfaction: 50,
	}
}

// YearlyUpdate 年度更新
// 在职年限+1，满意度±10随机游走，薪资按[-2%,+5%]随机微调。
// 返回更新后的满意度与薪资，由引擎折算进快乐与财富。
func (c *Career) YearlyUpdate(rng RandomGenerator) (satisfaction int, salary float64) {
	c.YearsInPosition++
	c.Satisfaction = clampStat(c.Satisfaction + rng.NextInt(-10, 10))
	c.Salary *= 1 + float64(rng.NextInt(-2, 5))/100
	return c.Satisfaction, c.Salary
}

// Promote 晋升：薪资×1.1，满意度+10，在职年限清零
func (c *Career) Promote() string {
	c.Salary *= 1.1
	c.Satisfaction = clampStat(c.Satisfaction + 10)
	c.YearsInPosition = 0
	return fmt.Sprintf("You got promoted! Your new salary is %s", utils.FormatMoney(c.Salary))
}

// Quit 辞职：在职超过5年有30%年薪的遣散费
// 在职状态由调用方负责丢弃。
func (c *Career) Quit() (severance float64, message string) {
	if c.YearsInPosition > 5 {
		severance = c.Salary * 0.3
	}

	message = "You quit your job!"
	if severance > 0 {
		message = "You quit your job and received severance pay!"
	}
	return severance, message
}

// DefaultCareers 职业目录
func DefaultCareers() map[string]*JobTemplate {
	return map[string]*JobTemplate{
		// 入门职业（无学历要求）
		"retail": {
			Key: "retail", JobTitle: "Retail Worker", Company: "Local Store",
			Salary: 25000, BaseHappiness: 40, MinAge: 16, MinIntelligence: 20,
		},
		"office": {
			Key: "office", JobTitle: "Office Clerk", Company: "Corporate Inc",
			Salary: 35000, BaseHappiness: 45, MinAge: 18, MinIntelligence: 40,
		},

		// 商科职业
		"manager": {
			Key: "manager", JobTitle: "Business Manager", Company: "Enterprise Corp",
			Salary: 75000, BaseHappiness: 65, MinAge: 22, MinIntelligence: 60, RequiredMajor: "BUSINESS",
		},
		"consultant": {
			Key: "consultant", JobTitle: "Management Consultant", Company: "Big Four Consulting",
			Salary: 95000, BaseHappiness: 70, MinAge: 22, MinIntelligence: 70, RequiredMajor: "BUSINESS",
		},
		"entrepreneur": {
			Key: "entrepreneur", JobTitle: "Entrepreneur", Company: "Self-Employed",
			Salary: 120000, BaseHappiness: 80, MinAge: 22, MinIntelligence: 75, RequiredMajor: "BUSINESS",
		},

		// 医学职业
		"doctor": {
			Key: "doctor", JobTitle: "Medical Doctor", Company: "City Hospital",
			Salary: 180000, BaseHappiness: 75, MinAge: 26, MinIntelligence: 85, RequiredMajor: "MEDICINE",
		},
		"surgeon": {
			Key: "surgeon", JobTitle: "Surgeon", Company: "University Hospital",
			Salary: 250000, BaseHappiness: 80, MinAge: 26, MinIntelligence: 90, RequiredMajor: "MEDICINE",
		},
		"psychiatrist": {
			Key: "psychiatrist", JobTitle: "Psychiatrist", Company: "Mental Health Center",
			Salary: 200000, BaseHappiness: 85, MinAge: 26, MinIntelligence: 85, RequiredMajor: "MEDICINE",
		},

		// 工程职业
		"software_engineer": {
			Key: "software_engineer", JobTitle: "Software Engineer", Company: "Tech Giant",
			Salary: 120000, BaseHappiness: 75, MinAge: 22, MinIntelligence: 75, RequiredMajor: "ENGINEERING",
		},
		"mechanical_engineer": {
			Key: "mechanical_engineer", JobTitle: "Mechanical Engineer", Company: "Manufacturing Inc",
			Salary: 90000, BaseHappiness: 70, MinAge: 22, MinIntelligence: 75, RequiredMajor: "ENGINEERING",
		},
		"civil_engineer": {
			Key: "civil_engineer", JobTitle: "Civil Engineer", Company: "Construction Corp",
			Salary: 85000, BaseHappiness: 65, MinAge: 22, MinIntelligence: 75, RequiredMajor: "ENGINEERING",
		},

		// 教育职业
		"teacher": {
			Key: "teacher", JobTitle: "Teacher", Company: "Public School",
			Salary: 45000, BaseHappiness: 80, MinAge: 22, MinIntelligence: 65, RequiredMajor: "EDUCATION",
		},
		"principal": {
			Key: "principal", JobTitle: "School Principal", Company: "Public School District",
			Salary: 85000, BaseHappiness: 75, MinAge: 30, MinIntelligence: 75, RequiredMajor: "EDUCATION",
		},
		"professor": {
			Key: "professor", JobTitle: "University Professor", Company: "State University",
			Salary: 95000, BaseHappiness: 85, MinAge: 30, MinIntelligence: 85, RequiredMajor: "EDUCATION",
		},

		// 艺术职业
		"artist": {
			Key: "artist", JobTitle: "Professional Artist", Company: "Freelance",
			Salary: 45000, BaseHappiness: 90, MinAge: 22, MinIntelligence: 50, RequiredMajor: "ARTS",
		},
		"musician": {
			Key: "musician", JobTitle: "Professional Musician", Company: "Orchestra",
			Salary: 55000, BaseHappiness: 95, MinAge: 22, MinIntelligence: 50, RequiredMajor: "ARTS",
		},
		"designer": {
			Key: "designer", JobTitle: "Graphic Designer", Company: "Design Studio",
			Salary: 65000, BaseHappiness: 85, MinAge: 22, MinIntelligence: 50, RequiredMajor: "ARTS",
		},
	}
}
