package models

import "time"

// ConfigType determines how a stored configuration value is decoded.
type ConfigType string

const (
	ConfigTypeString   ConfigType = "string"
	ConfigTypeText     ConfigType = "text"
	ConfigTypeInteger  ConfigType = "integer"
	ConfigTypeBoolean  ConfigType = "boolean"
	ConfigTypeJSON     ConfigType = "json"
	ConfigTypeFile     ConfigType = "file"
	ConfigTypeEmail    ConfigType = "email"
	ConfigTypeURL      ConfigType = "url"
	ConfigTypeTextarea ConfigType = "textarea"
)

// ConfigGroup partitions configuration keys for bulk retrieval.
type ConfigGroup string

const (
	ConfigGroupGeneral     ConfigGroup = "general"
	ConfigGroupBranding    ConfigGroup = "branding"
	ConfigGroupHomepage    ConfigGroup = "homepage"
	ConfigGroupCredit      ConfigGroup = "credit"
	ConfigGroupMaintenance ConfigGroup = "maintenance"
	ConfigGroupContact     ConfigGroup = "contact"
	ConfigGroupLanguage    ConfigGroup = "language"
	ConfigGroupAbout       ConfigGroup = "about"
	ConfigGroupBanners     ConfigGroup = "banners"
	ConfigGroupOJK         ConfigGroup = "ojk"
	ConfigGroupJoinUs      ConfigGroup = "join_us"
	ConfigGroupCareers     ConfigGroup = "careers"
)

// ConfigGroups lists every known group in display order.
var ConfigGroups = []ConfigGroup{
	ConfigGroupGeneral,
	ConfigGroupBranding,
	ConfigGroupHomepage,
	ConfigGroupCredit,
	ConfigGroupMaintenance,
	ConfigGroupContact,
	ConfigGroupLanguage,
	ConfigGroupAbout,
	ConfigGroupBanners,
	ConfigGroupOJK,
	ConfigGroupJoinUs,
	ConfigGroupCareers,
}

// Configuration represents a persisted typed key/value entry. The raw value
// is always stored as a string and interpreted according to Type.
type Configuration struct {
	Key         string      `db:"key" json:"key"`
	Value       string      `db:"value" json:"value"`
	Type        ConfigType  `db:"type" json:"type"`
	Group       ConfigGroup `db:"group" json:"group"`
	Description *string     `db:"description" json:"description,omitempty"`
	IsPublic    bool        `db:"is_public" json:"is_public"`
	UpdatedBy   *string     `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
