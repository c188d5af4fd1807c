package db_models

type PartnerInterest struct {
	BaseModel
	Email       string `gorm:"size:254;not null"`
	CompanyName string `gorm:"size:200"`
	Name        string `gorm:"size:100"`
	Message     string `gorm:"type:text"`
	SessionKey  string `gorm:"size:64"`
}
