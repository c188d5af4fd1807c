package db_models

type Feedback struct {
	BaseModel
	FeedbackText string `gorm:"type:text;not null"`
	Email        string `gorm:"size:254"`
	Name         string `gorm:"size:100"`
	SessionKey   string `gorm:"size:64"`
}
