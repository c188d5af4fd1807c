package utils

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrRecordNotFound         = errors.New("record not found")
	ErrInvalidPage            = errors.New("invalid page parameter")
	ErrInvalidPageSize        = errors.New("invalid page size parameter")
	ErrDatabaseError          = errors.New("database error")
	ErrInvalidCharacterClass  = errors.New("invalid character class")
	ErrInvalidProfession      = errors.New("profession not allowed for character class")
	ErrInvalidImage           = errors.New("invalid image upload")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrPlanStatusConflict     = errors.New("plan status does not allow this action")
	ErrUnexpectedBehaviorOfAI = errors.New("unexpected response from AI service")
	ErrImageDownload          = errors.New("generated image could not be downloaded")
	ErrStaffLoginDisabled     = errors.New("staff login is not configured")
	ErrResourceUnavailable    = errors.New("resource could not be fetched")
	ErrUnknownExport          = errors.New("unknown export kind")
)
