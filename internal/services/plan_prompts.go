package services

import (
	"fmt"
	"strings"
)

const planShape = `{
  "project_overview": {
    "title": "Project name",
    "description": "Short description of the project",
    "estimated_duration": "Length of the whole plan, for example 14 days",
    "recommended_tech_stack": ["tech1", "tech2"],
    "user_level": "complete beginner|beginner|intermediate|advanced",
    "prerequisites": ["Only for complete beginners"]
  },
  "features": {
    "core": ["Feature 1", "Feature 2", "Feature 3"],
    "stretch": ["Stretch feature 1", "Stretch feature 2"]
  },
  "overall_learning_materials": {
    "foundational": ["Title - https://link"],
    "project_specific": ["Title - https://link"],
    "paid_comprehensive": ["Title - https://link"]
  },
  "daily_plan": [
    {
      "day": 1,
      "focus": "Theme of the day",
      "type": "learning|building|mixed",
      "tasks": [
        {
          "id": "D1-T1",
          "title": "Actionable task title about the project",
          "task_type": "learning|building|practice|review",
          "description": "What the task is",
          "how_to_guide": "Short how-to",
          "subtasks": [
            {"title": "Subtask", "description": "Short", "steps": ["Step 1", "Step 2"]}
          ],
          "detailed_steps": ["Step 1", "Step 2", "Step 3"],
          "time_estimate": "2 hours",
          "difficulty": "easy|medium|hard",
          "skills_learned": ["Skill"],
          "common_mistakes": [{"mistake": "Mistake", "solution": "Fix", "prevention_tip": "Tip"}],
          "learning_materials": {
            "free_resources": ["Title - https://link"],
            "documentation": ["Title - https://link"]
          },
          "rewards": {"xp": 20, "coins": 5, "badge": ""}
        }
      ],
      "daily_summary": "Summary of the day"
    }
  ],
  "milestones": [
    {"name": "Milestone", "day": 3, "description": "What was reached", "reward": {"xp": 100, "coins": 50, "badge": "Badge"}}
  ],
  "rewards_system": {
    "xp_levels": {"level_1": "0-100 XP - Novice Coder"},
    "shop_items": [{"item": "Extra hint", "cost": 10}]
  },
  "tips_and_motivation": ["Tip", "Encouragement"]
}`

var primaryInstructions = `You are a senior coding mentor writing a personalized learning plan.

Rules:
- Answer with one JSON object and nothing else. Escape strings properly and never leave trailing commas.
- Every task must be about the visitor's actual project. Avoid generic titles such as "Setup and basics".
- estimated_duration describes the whole plan and may be longer than a week, but daily_plan holds only the first 7 days.
- Write 2 tasks per day, 2 subtasks per task and 1 or 2 real resources per task, formatted "Title - https://link".

Use this structure:
` + planShape

const minimalInstructions = `Answer with one JSON object only, using the same learning plan structure as before but with very short content:
- daily_plan holds exactly the first 7 days; estimated_duration is the length of the whole plan
- 2 tasks per day, 2 subtasks per task, 1 resource per task
- one sentence per description`

const reviewInstructions = `You review learning plans written as JSON and fix them.

Check that required fields are present, that every resource has a real URL, that every task has between 2 and 5 subtasks, and that tasks fit the stated level.

Answer with one JSON object only:
{
  "is_valid": true,
  "quality_score": 0,
  "issues_found": [{"type": "missing_field|invalid_structure|missing_links|incomplete_task", "description": "", "severity": "low|medium|high", "suggestion": ""}],
  "improvements": [""],
  "overall_feedback": "",
  "improved_plan": {}
}
improved_plan is the corrected plan in the original structure. Keep daily_plan to the first 7 days.`

func primaryPrompt(in PlanInputs) string {
	var b strings.Builder
	b.WriteString("Write a learning plan for this project.\n\n")
	writeInputs(&b, in)
	fmt.Fprintf(&b, "\nTailor every task to a %s developer and refer to \"%s\" in task titles and descriptions.\n", in.DeveloperLevel, in.ProjectDescription)
	if in.Framework == NoFrameworkPreference || in.Framework == "" {
		b.WriteString("The visitor has no framework preference, so recommend a fitting stack.\n")
	} else {
		fmt.Fprintf(&b, "Build it with %s.\n", in.Framework)
	}
	b.WriteString("Only the first 7 days go into daily_plan.")
	return b.String()
}

func minimalPrompt(in PlanInputs) string {
	var b strings.Builder
	writeInputs(&b, in)
	b.WriteString("\nWrite a minimal plan: first 7 days only, 2 tasks per day, keep it very brief.")
	return b.String()
}

func reviewPrompt(in PlanInputs, planJSON string) string {
	var b strings.Builder
	b.WriteString("Review this learning plan.\n\n")
	writeInputs(&b, in)
	b.WriteString("\nPlan:\n")
	b.WriteString(planJSON)
	return b.String()
}

func writeInputs(b *strings.Builder, in PlanInputs) {
	fmt.Fprintf(b, "Project: %s\n", in.ProjectDescription)
	fmt.Fprintf(b, "Developer level: %s\n", in.DeveloperLevel)
	fmt.Fprintf(b, "Framework: %s\n", in.Framework)
	fmt.Fprintf(b, "Software type: %s\n", in.SoftwareType)
}
