package dto

// UpsertServiceItemRequest creates or updates a financing-service entry.
type UpsertServiceItemRequest struct {
	TitleID   string `json:"title_id" validate:"required"`
	TitleEN   string `json:"title_en"`
	SummaryID string `json:"summary_id"`
	SummaryEN string `json:"summary_en"`
	BodyID    string `json:"body_id"`
	BodyEN    string `json:"body_en"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

// PublicServiceItem is the localized public projection of a service entry.
type PublicServiceItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Body    string `json:"body,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

// UpsertPartnerRequest creates or updates a partner entry.
type UpsertPartnerRequest struct {
	Name       string `json:"name" validate:"required"`
	Logo       string `json:"logo"`
	WebsiteURL string `json:"website_url" validate:"omitempty,url"`
	SortOrder  int    `json:"sort_order"`
	IsActive   *bool  `json:"is_active"`
}

// PublicPartnerItem is the public projection of a partner entry.
type PublicPartnerItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LogoURL    string `json:"logo_url,omitempty"`
	WebsiteURL string `json:"website_url,omitempty"`
}

// UpsertTeamMemberRequest creates or updates a team profile.
type UpsertTeamMemberRequest struct {
	Name       string `json:"name" validate:"required"`
	PositionID string `json:"position_id" validate:"required"`
	PositionEN string `json:"position_en"`
	Photo      string `json:"photo"`
	SortOrder  int    `json:"sort_order"`
	IsActive   *bool  `json:"is_active"`
}

// PublicTeamMember is the localized public projection of a team profile.
type PublicTeamMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	PhotoURL string `json:"photo_url,omitempty"`
}
