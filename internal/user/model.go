// File: internal/user/model.go
package user

import "medical_assistant_backend/internal/domain"

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// UpdatePreferencesRequest carries the preferences to change. Absent fields are left alone.
type UpdatePreferencesRequest struct {
	ShouldHideOnboarding *bool   `json:"should_hide_onboarding,omitempty"`
	UseDynamicColor      *bool   `json:"use_dynamic_color,omitempty"`
	ThemeBrand           *string `json:"theme_brand,omitempty" binding:"omitempty,oneof=DEFAULT ANDROID default android"`
	DarkThemeConfig      *string `json:"dark_theme_config,omitempty" binding:"omitempty,oneof=FOLLOW_SYSTEM LIGHT DARK follow_system light dark"`
}

// changes lists the requested preference writes in a fixed order.
func (r UpdatePreferencesRequest) changes() []preferenceChange {
	var out []preferenceChange
	if r.ShouldHideOnboarding != nil {
		out = append(out, preferenceChange{domain.PreferenceShouldHideOnboarding, *r.ShouldHideOnboarding})
	}
	if r.UseDynamicColor != nil {
		out = append(out, preferenceChange{domain.PreferenceUseDynamicColor, *r.UseDynamicColor})
	}
	if r.ThemeBrand != nil {
		out = append(out, preferenceChange{domain.PreferenceThemeBrand, *r.ThemeBrand})
	}
	if r.DarkThemeConfig != nil {
		out = append(out, preferenceChange{domain.PreferenceDarkThemeConfig, *r.DarkThemeConfig})
	}
	return out
}

type preferenceChange struct {
	pref  domain.Preference
	value interface{}
}

// ProfileResponse is the profile as sent in API responses.
type ProfileResponse struct {
	domain.UserData
	LoggedIn bool `json:"logged_in"`
}

// ToProfileResponse converts a profile to its response shape.
func ToProfileResponse(u domain.UserData) ProfileResponse {
	return ProfileResponse{UserData: u, LoggedIn: u.IsLoggedIn()}
}
