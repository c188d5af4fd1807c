package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"holou/internal/models/response_models"
	"holou/pkg/utils"
)

// NoFrameworkPreference is stored as the framework when the visitor has no
// preference.
const NoFrameworkPreference = "No preference - recommend best option"

// PlanDays is the number of day entries materialized in every plan.
const PlanDays = 7

// PlanInputs are the visitor's answers a plan is generated from.
type PlanInputs struct {
	ProjectDescription string
	DeveloperLevel     string
	Framework          string
	SoftwareType       string
}

func (in PlanInputs) techStack() []string {
	if in.Framework == "" || in.Framework == NoFrameworkPreference {
		return []string{"React", "JavaScript"}
	}
	return []string{in.Framework}
}

func (in PlanInputs) overview() response_models.ProjectOverview {
	title := "Project"
	description := "Learning plan for your project"
	if in.ProjectDescription != "" {
		title = utils.TruncateRunes(in.ProjectDescription, 50)
		description = "Learning plan for " + utils.TruncateRunes(in.ProjectDescription, 100)
	}
	level := in.DeveloperLevel
	if level == "" {
		level = "beginner"
	}
	return response_models.ProjectOverview{
		Title:                title,
		Description:          description,
		EstimatedDuration:    "7 days",
		RecommendedTechStack: in.techStack(),
		UserLevel:            level,
		SoftwareType:         in.SoftwareType,
		Prerequisites:        []string{},
	}
}

// StaticPlanContent builds the deterministic plan used when no model output
// could be used. It depends only on the inputs.
func StaticPlanContent(in PlanInputs) response_models.PlanContent {
	overview := in.overview()
	if in.Framework == "" || in.Framework == NoFrameworkPreference {
		overview.RecommendedTechStack = []string{"React", "JavaScript", "Node.js"}
	}

	days := make([]response_models.DayEntry, 0, PlanDays)
	for i := 1; i <= PlanDays; i++ {
		days = append(days, staticDay(i))
	}

	return response_models.PlanContent{
		ProjectOverview: overview,
		Features:        defaultFeatures(),
		OverallLearningMaterials: response_models.OverallLearningMaterials{
			Foundational:      []string{"JavaScript Basics - https://developer.mozilla.org/en-US/docs/Web/JavaScript/Guide"},
			ProjectSpecific:   []string{"React Guide - https://react.dev/learn"},
			PaidComprehensive: []string{},
		},
		DailyPlan:         days,
		Milestones:        []response_models.Milestone{defaultMilestone()},
		RewardsSystem:     defaultRewardsSystem(),
		TipsAndMotivation: []string{"Keep learning!", "You got this!", "Practice makes perfect!"},
	}
}

// StaticPlan is StaticPlanContent in the generic document form every other
// stage produces.
func StaticPlan(in PlanInputs) (map[string]any, error) {
	doc, err := toDocument(StaticPlanContent(in))
	if err != nil {
		return nil, fmt.Errorf("static plan: %w", err)
	}
	return doc, nil
}

func staticDay(day int) response_models.DayEntry {
	return response_models.DayEntry{
		Day:          day,
		Focus:        fmt.Sprintf("Day %d - Learning and building", day),
		Type:         "mixed",
		Tasks:        staticTasks(day),
		DailySummary: fmt.Sprintf("Completed day %d - learned fundamentals and built features", day),
	}
}

func staticTasks(day int) []response_models.TaskEntry {
	return []response_models.TaskEntry{
		{
			ID:            fmt.Sprintf("D%d-T1", day),
			Title:         fmt.Sprintf("Task %d.1: Setup and basics", day),
			TaskType:      "learning",
			Description:   fmt.Sprintf("Learn the fundamentals for day %d", day),
			HowToGuide:    "Follow the learning resources and complete the exercises",
			Subtasks:      defaultSubtasks(),
			DetailedSteps: defaultDetailedSteps(),
			TimeEstimate:  "2-3 hours",
			Difficulty:    "medium",
			SkillsLearned: []string{"Fundamentals", "Best practices"},
			CommonMistakes: []response_models.CommonMistake{
				{Mistake: "Common error", Solution: "Fix approach", PreventionTip: "Follow guidelines"},
			},
			LearningMaterials: defaultLearningMaterials(),
			Rewards:           defaultTaskReward(),
		},
		{
			ID:          fmt.Sprintf("D%d-T2", day),
			Title:       fmt.Sprintf("Task %d.2: Build feature", day),
			TaskType:    "building",
			Description: fmt.Sprintf("Build a feature for day %d", day),
			HowToGuide:  "Implement the feature using what you learned",
			Subtasks: []response_models.Subtask{
				{Title: "Subtask 1", Description: "Plan feature", Steps: []string{"Step 1", "Step 2"}},
				{Title: "Subtask 2", Description: "Implement feature", Steps: []string{"Step 1", "Step 2"}},
			},
			DetailedSteps: []string{"Step 1: Plan", "Step 2: Code", "Step 3: Test"},
			TimeEstimate:  "3-4 hours",
			Difficulty:    "medium",
			SkillsLearned: []string{"Implementation", "Testing"},
			CommonMistakes: []response_models.CommonMistake{
				{Mistake: "Common error", Solution: "Fix approach", PreventionTip: "Test often"},
			},
			LearningMaterials: response_models.LearningMaterials{
				FreeResources: []string{"Implementation Guide - https://developer.mozilla.org"},
				Documentation: []string{},
			},
			Rewards: response_models.Reward{XP: 30, Coins: 10},
		},
	}
}

func defaultFeatures() response_models.Features {
	return response_models.Features{
		Core:    []string{"Core feature 1", "Core feature 2", "Core feature 3"},
		Stretch: []string{"Advanced feature 1", "Advanced feature 2", "Performance optimization"},
	}
}

func defaultMilestone() response_models.Milestone {
	return response_models.Milestone{
		Name:        "First Week Complete",
		Day:         7,
		Description: "Completed your first week of learning",
		Reward:      response_models.Reward{XP: 100, Coins: 50, Badge: "Week Warrior"},
	}
}

func defaultRewardsSystem() response_models.RewardsSystem {
	return response_models.RewardsSystem{
		XPLevels: map[string]string{
			"level_1": "0-100 XP - Novice Coder",
			"level_2": "101-300 XP - Apprentice Developer",
			"level_3": "301-600 XP - Skilled Builder",
			"level_4": "601-1000 XP - Master Developer",
		},
		ShopItems: []response_models.ShopItem{
			{Item: "Extra hint for difficult task", Cost: 10},
			{Item: "Code review session", Cost: 50},
			{Item: "Skip one optional task", Cost: 30},
		},
	}
}

func defaultSubtasks() []response_models.Subtask {
	return []response_models.Subtask{
		{Title: "Subtask 1", Description: "Complete setup", Steps: []string{"Step 1", "Step 2"}},
		{Title: "Subtask 2", Description: "Practice basics", Steps: []string{"Step 1", "Step 2"}},
	}
}

func defaultDetailedSteps() []string {
	return []string{"Step 1: Setup", "Step 2: Learn", "Step 3: Practice"}
}

func defaultLearningMaterials() response_models.LearningMaterials {
	return response_models.LearningMaterials{
		FreeResources: []string{"React Tutorial - https://react.dev/learn"},
		Documentation: []string{},
	}
}

func defaultTaskReward() response_models.Reward {
	return response_models.Reward{XP: 20, Coins: 5}
}

// toDocument converts a typed value into the generic form decoded model
// output has, numbers included.
func toDocument(v any) (map[string]any, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return nil, err
	}
	doc, ok := generic.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", generic)
	}
	return doc, nil
}

func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// mustGeneric is toGeneric for the package's own literal defaults, which
// always encode.
func mustGeneric(v any) any {
	out, err := toGeneric(v)
	if err != nil {
		panic(err)
	}
	return out
}
