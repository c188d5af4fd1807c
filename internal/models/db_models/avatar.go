package db_models

// Avatar paths are relative to the media root.
type Avatar struct {
	BaseModel
	SessionKey     string `gorm:"size:64;index"`
	CharacterClass string `gorm:"size:20;not null"`
	Profession     string `gorm:"size:100;not null"`
	OriginalImage  string `gorm:"size:255"`
	GeneratedImage string `gorm:"size:255;not null"`
	Prompt         string `gorm:"type:text"`
}
