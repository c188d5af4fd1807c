package response_models

import "encoding/json"

type PlanSummary struct {
	ID                 string `json:"id"`
	ProjectDescription string `json:"project_description"`
	DeveloperLevel     string `json:"developer_level"`
	Framework          string `json:"framework"`
	SoftwareType       string `json:"software_type"`
	Status             string `json:"status"`
	Source             string `json:"source"`
	CreatedAt          string `json:"created_at"`
	ApprovedAt         string `json:"approved_at,omitempty"`
}

type PlanDetail struct {
	PlanSummary
	PlanData json.RawMessage `json:"plan_data"`
}

type PlanListResponse struct {
	Plans    []PlanSummary `json:"plans"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// PlanView is what the results page renders. Exactly one of Plan and
// Message is set.
type PlanView struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Plan    map[string]any `json:"plan,omitempty"`
}
