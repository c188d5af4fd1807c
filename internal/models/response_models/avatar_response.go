package response_models

type AvatarResponse struct {
	Status      string `json:"status"`
	AvatarID    string `json:"avatar_id"`
	AvatarURL   string `json:"avatar_url"`
	DownloadURL string `json:"download_url"`
}

type CharacterClassOption struct {
	Class       string   `json:"class"`
	Professions []string `json:"professions"`
}

type AvatarSummary struct {
	ID             string `json:"id"`
	CharacterClass string `json:"character_class"`
	Profession     string `json:"profession"`
	AvatarURL      string `json:"avatar_url"`
	HasOriginal    bool   `json:"has_original"`
	CreatedAt      string `json:"created_at"`
}

type ResourcePreview struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
