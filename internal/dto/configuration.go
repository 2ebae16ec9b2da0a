package dto

// ConfigEntry is a configuration row exposed to the admin API with its
// decoded value.
type ConfigEntry struct {
	Key         string      `json:"key"`
	Value       interface{} `json:"value"`
	Type        string      `json:"type"`
	Group       string      `json:"group"`
	Description string      `json:"description,omitempty"`
	IsPublic    bool        `json:"is_public"`
}

// SetConfigRequest upserts a configuration value. The payload replaces
// value, type and group; description and visibility survive the upsert.
type SetConfigRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
	Type  string `json:"type" validate:"required,oneof=string text integer boolean json file email url textarea"`
	Group string `json:"group" validate:"required"`
}

// BulkSetConfigRequest holds multiple upserts applied in one transaction.
type BulkSetConfigRequest struct {
	Items []SetConfigRequest `json:"items" validate:"required,min=1,dive"`
}
