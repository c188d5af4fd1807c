package response_models

// PlanContent is the stored shape of a learning plan. Model output is
// handled as a generic map because it may carry extra keys; this type is
// used wherever the application itself builds a plan.
type PlanContent struct {
	ProjectOverview          ProjectOverview          `json:"project_overview"`
	Features                 Features                 `json:"features"`
	OverallLearningMaterials OverallLearningMaterials `json:"overall_learning_materials"`
	DailyPlan                []DayEntry               `json:"daily_plan"`
	Milestones               []Milestone              `json:"milestones"`
	RewardsSystem            RewardsSystem            `json:"rewards_system"`
	TipsAndMotivation        []string                 `json:"tips_and_motivation"`
}

type ProjectOverview struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	EstimatedDuration    string   `json:"estimated_duration"`
	RecommendedTechStack []string `json:"recommended_tech_stack"`
	UserLevel            string   `json:"user_level"`
	SoftwareType         string   `json:"software_type,omitempty"`
	Prerequisites        []string `json:"prerequisites"`
}

type Features struct {
	Core    []string `json:"core"`
	Stretch []string `json:"stretch"`
}

type OverallLearningMaterials struct {
	Foundational      []string `json:"foundational"`
	ProjectSpecific   []string `json:"project_specific"`
	PaidComprehensive []string `json:"paid_comprehensive"`
}

type DayEntry struct {
	Day          int         `json:"day"`
	Focus        string      `json:"focus"`
	Type         string      `json:"type"`
	Tasks        []TaskEntry `json:"tasks"`
	DailySummary string      `json:"daily_summary"`
}

type TaskEntry struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	TaskType          string            `json:"task_type"`
	Description       string            `json:"description"`
	HowToGuide        string            `json:"how_to_guide"`
	Subtasks          []Subtask         `json:"subtasks"`
	DetailedSteps     []string          `json:"detailed_steps"`
	TimeEstimate      string            `json:"time_estimate"`
	Difficulty        string            `json:"difficulty"`
	SkillsLearned     []string          `json:"skills_learned"`
	CommonMistakes    []CommonMistake   `json:"common_mistakes"`
	LearningMaterials LearningMaterials `json:"learning_materials"`
	Rewards           Reward            `json:"rewards"`
}

type Subtask struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
}

type CommonMistake struct {
	Mistake       string `json:"mistake"`
	Solution      string `json:"solution"`
	PreventionTip string `json:"prevention_tip"`
}

type LearningMaterials struct {
	FreeResources []string `json:"free_resources"`
	Documentation []string `json:"documentation"`
}

type Reward struct {
	XP    int    `json:"xp"`
	Coins int    `json:"coins"`
	Badge string `json:"badge"`
}

type Milestone struct {
	Name        string `json:"name"`
	Day         int    `json:"day"`
	Description string `json:"description"`
	Reward      Reward `json:"reward"`
}

type RewardsSystem struct {
	XPLevels  map[string]string `json:"xp_levels"`
	ShopItems []ShopItem        `json:"shop_items"`
}

type ShopItem struct {
	Item string `json:"item"`
	Cost int    `json:"cost"`
}
