package db_models

type Wishlist struct {
	BaseModel
	Email          string `gorm:"size:254;uniqueIndex;not null"`
	FirstName      string `gorm:"size:100"`
	LastName       string `gorm:"size:100"`
	CompanyName    string `gorm:"size:200"`
	JobTitle       string `gorm:"size:100"`
	AdditionalInfo string `gorm:"type:text"`
	SessionKey     string `gorm:"size:64"`
}
