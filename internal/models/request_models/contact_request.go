package request_models

type WishlistRequest struct {
	Email          string `json:"email" form:"email" binding:"required,email,max=254"`
	FirstName      string `json:"first_name" form:"first_name" binding:"max=100"`
	LastName       string `json:"last_name" form:"last_name" binding:"max=100"`
	CompanyName    string `json:"company_name" form:"company_name" binding:"max=200"`
	JobTitle       string `json:"job_title" form:"job_title" binding:"max=100"`
	AdditionalInfo string `json:"additional_info" form:"additional_info"`
}

type FeedbackRequest struct {
	FeedbackText string `json:"feedback_text" binding:"required,max=5000"`
	Email        string `json:"email" binding:"omitempty,email,max=254"`
	Name         string `json:"name" binding:"max=100"`
}

type PartnerInterestRequest struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	CompanyName string `json:"company_name" binding:"max=200"`
	Name        string `json:"name" binding:"max=100"`
	Message     string `json:"message"`
}
