package services

import (
	"encoding/json"
	"errors"
	"strconv"

	"holou/internal/models/response_models"
)

// ErrEmptyDailyPlan means a decoded plan has no day entries. Such a plan is
// never repaired by backfilling.
var ErrEmptyDailyPlan = errors.New("plan has no daily_plan entries")

// ShapePlan turns a decoded model document into a storable plan: the day
// list is cut or padded to PlanDays and every missing field is backfilled.
// estimated_duration is left as the model wrote it.
func ShapePlan(doc map[string]any, in PlanInputs) (map[string]any, error) {
	days, ok := nonEmptyList(doc["daily_plan"])
	if !ok {
		return nil, ErrEmptyDailyPlan
	}

	if len(days) > PlanDays {
		days = days[:PlanDays]
	}
	for n := len(days) + 1; n <= PlanDays; n++ {
		days = append(days, mustGeneric(staticDay(n)))
	}
	doc["daily_plan"] = days

	return NormalizePlan(doc, in)
}

// NormalizePlan fills required fields that are absent, empty or of the
// wrong type. Present values are never replaced, so normalizing twice is the
// same as normalizing once. doc is modified in place.
func NormalizePlan(doc map[string]any, in PlanInputs) (map[string]any, error) {
	days, ok := nonEmptyList(doc["daily_plan"])
	if !ok {
		return nil, ErrEmptyDailyPlan
	}

	normalizeOverview(doc, in)

	features, ok := doc["features"].(map[string]any)
	if !ok {
		features = map[string]any{}
		doc["features"] = features
	}
	defaults := defaultFeatures()
	fillList(features, "core", defaults.Core)
	fillList(features, "stretch", defaults.Stretch)

	if _, ok := doc["overall_learning_materials"].(map[string]any); !ok {
		doc["overall_learning_materials"] = mustGeneric(StaticPlanContent(in).OverallLearningMaterials)
	}
	fillList(doc, "milestones", []response_models.Milestone{defaultMilestone()})
	if rewards, ok := doc["rewards_system"].(map[string]any); !ok || len(rewards) == 0 {
		doc["rewards_system"] = mustGeneric(defaultRewardsSystem())
	}
	fillList(doc, "tips_and_motivation", []string{"Keep learning!", "You got this!", "Practice makes perfect!"})

	for i, raw := range days {
		days[i] = normalizeDay(raw, i+1)
	}
	doc["daily_plan"] = days

	return doc, nil
}

func normalizeOverview(doc map[string]any, in PlanInputs) {
	overview, ok := doc["project_overview"].(map[string]any)
	if !ok {
		overview = map[string]any{}
		doc["project_overview"] = overview
	}
	fallback := in.overview()

	fillString(overview, "title", fallback.Title)
	fillString(overview, "description", fallback.Description)
	fillString(overview, "estimated_duration", fallback.EstimatedDuration)
	fillList(overview, "recommended_tech_stack", fallback.RecommendedTechStack)
	fillString(overview, "user_level", fallback.UserLevel)
	if fallback.SoftwareType != "" {
		fillString(overview, "software_type", fallback.SoftwareType)
	}
	if _, ok := overview["prerequisites"].([]any); !ok {
		overview["prerequisites"] = []any{}
	}
}

func normalizeDay(raw any, position int) any {
	day, ok := raw.(map[string]any)
	if !ok {
		return mustGeneric(staticDay(position))
	}

	number, ok := dayNumber(day["day"])
	if !ok {
		number = position
		day["day"] = json.Number(strconv.Itoa(position))
	}

	tasks, ok := nonEmptyList(day["tasks"])
	if !ok {
		day["tasks"] = mustGeneric(staticTasks(number))
		return day
	}

	templates := staticTasks(number)
	for j, rawTask := range tasks {
		task, ok := rawTask.(map[string]any)
		if !ok {
			tasks[j] = mustGeneric(templates[j%len(templates)])
			continue
		}
		normalizeTask(task)
	}
	day["tasks"] = tasks
	return day
}

func normalizeTask(task map[string]any) {
	fillList(task, "subtasks", defaultSubtasks())
	fillList(task, "detailed_steps", defaultDetailedSteps())

	materials, ok := task["learning_materials"].(map[string]any)
	switch {
	case !ok || len(materials) == 0:
		task["learning_materials"] = mustGeneric(defaultLearningMaterials())
	default:
		if _, ok := materials["free_resources"].([]any); !ok {
			materials["free_resources"] = mustGeneric(defaultLearningMaterials().FreeResources)
		}
	}

	if rewards, ok := task["rewards"].(map[string]any); !ok || len(rewards) == 0 {
		task["rewards"] = mustGeneric(defaultTaskReward())
	}
}

func fillString(obj map[string]any, key, def string) {
	if s, ok := obj[key].(string); ok && s != "" {
		return
	}
	obj[key] = def
}

// fillList sets key to a fresh copy of def unless it already holds a
// non-empty list.
func fillList(obj map[string]any, key string, def any) {
	if _, ok := nonEmptyList(obj[key]); ok {
		return
	}
	obj[key] = mustGeneric(def)
}

func nonEmptyList(v any) ([]any, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	return list, true
}

func dayNumber(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil || i <= 0 {
			return 0, false
		}
		return int(i), true
	case float64:
		if n <= 0 || n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, n > 0
	}
	return 0, false
}
