package game

import (
	apperrors "github.com/wfunc/life-sim/internal/errors"
)

// Major 专业定义（静态目录）
type Major struct {
	Key             string   `json:"key"`
	Name            string   `json:"name"`
	Cost            int      `json:"cost"`             // 学费（入学时一次性扣除）
	Duration        int      `json:"duration"`         // 学制年数
	Careers         []string `json:"careers"`          // 毕业后可申请的职业
	IntelligenceReq int      `json:"intelligence_req"` // 入学智力门槛
}

// DefaultMajors 专业目录
func DefaultMajors() map[string]*Major {
	return map[string]*Major{
		"BUSINESS": {
			Key:             "BUSINESS",
			Name:            "Business",
			Cost:            15000,
			Duration:        4,
			Careers:         []string{"manager", "consultant", "entrepreneur"},
			IntelligenceReq: 60,
		},
		"MEDICINE": {
			Key:             "MEDICINE",
			Name:            "Medicine",
			Cost:            25000,
			Duration:        8, // 含住院实习
			Careers:         []string{"doctor", "surgeon", "psychiatrist"},
			IntelligenceReq: 85,
		},
		"ENGINEERING": {
			Key:             "ENGINEERING",
			Name:            "Engineering",
			Cost:            20000,
			Duration:        4,
			Careers:         []string{"software_engineer", "mechanical_engineer", "civil_engineer"},
			IntelligenceReq: 75,
		},
		"EDUCATION": {
			Key:             "EDUCATION",
			Name:            "Education",
			Cost:            12000,
			Duration:        4,
			Careers:         []string{"teacher", "principal", "professor"},
			IntelligenceReq: 65,
		},
		"ARTS": {
			Key:             "ARTS",
			Name:            "Arts",
			Cost:            10000,
			Duration:        4,
			Careers:         []string{"artist", "musician", "designer"},
			IntelligenceReq: 50,
		},
	}
}

// Education 教育状态：未入学 → 在读 → 已毕业（终态）
type Education struct {
	majors       map[string]*Major
	CurrentMajor string `json:"current_major,omitempty"`
	YearsStudied int    `json:"years_studied"`
	Graduated    bool   `json:"graduated"`
}

// NewEducation 创建教育状态
func NewEducation(majors map[string]*Major) *Education {
	return &Education{majors: majors}
}

// StartMajor 入学，未知专业返回false
func (e *Education) StartMajor(key string) bool {
	if _, ok := e.majors[key]; !ok {
		return false
	}
	e.CurrentMajor = key
	e.YearsStudied = 0
	e.Graduated = false
	return true
}

// StudyYear 推进一年学业，毕业当年返回true
// 未入学或已毕业时为无操作。
func (e *Education) StudyYear() bool {
	if e.CurrentMajor == "" || e.Graduated {
		return false
	}

	e.YearsStudied++
	if e.YearsStudied >= e.majors[e.CurrentMajor].Duration {
		e.Graduated = true
		return true
	}
	return false
}

// Lookup 按key查找专业，未知key是硬错误
func (e *Education) Lookup(key string) (*Major, error) {
	major, ok := e.majors[key]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrUnknownMajor, "未知的专业: %s", key)
	}
	return major, nil
}

// Enrolled 是否在读
func (e *Education) Enrolled() bool {
	return e.CurrentMajor != "" && !e.Graduated
}

// Major 当前专业定义，未入学返回nil
func (e *Education) Major() *Major {
	if e.CurrentMajor == "" {
		return nil
	}
	return e.majors[e.CurrentMajor]
}
