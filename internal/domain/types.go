// File: internal/domain/types.go
package domain

import (
	"fmt"
	"strings"
)

// UserType is the role a profile belongs to.
type UserType string

const (
	UserTypePatient UserType = "patient"
	UserTypeDoctor  UserType = "doctor"
)

// Valid reports whether t is a known role.
func (t UserType) Valid() bool {
	return t == UserTypePatient || t == UserTypeDoctor
}

// ThemeBrand selects the app colour scheme.
type ThemeBrand string

const (
	ThemeBrandDefault ThemeBrand = "DEFAULT"
	ThemeBrandAndroid ThemeBrand = "ANDROID"
)

// DarkThemeConfig selects how dark mode is chosen.
type DarkThemeConfig string

const (
	DarkThemeFollowSystem DarkThemeConfig = "FOLLOW_SYSTEM"
	DarkThemeLight        DarkThemeConfig = "LIGHT"
	DarkThemeDark         DarkThemeConfig = "DARK"
)

// UserData is the persisted and observed user profile. It is comparable so
// streams can drop repeated snapshots.
type UserData struct {
	// Identity
	Name      string   `json:"name"`
	Sex       string   `json:"sex"`
	BornDate  string   `json:"born_date"`
	Address   string   `json:"address"`
	UserType  UserType `json:"user_type,omitempty"`
	PatientID string   `json:"patient_id,omitempty"`
	DoctorID  string   `json:"doctor_id,omitempty"`

	// Medical; which of these are populated depends on UserType.
	ProblemDescription string `json:"problem_description,omitempty"`
	TreatmentDate      string `json:"treatment_date,omitempty"`
	Specialty          string `json:"specialty,omitempty"`
	GraduationDate     string `json:"graduation_date,omitempty"`
	Experience         string `json:"experience,omitempty"`
	Occupation         string `json:"occupation,omitempty"`

	// App preferences
	ThemeBrand           ThemeBrand      `json:"theme_brand"`
	DarkThemeConfig      DarkThemeConfig `json:"dark_theme_config"`
	UseDynamicColor      bool            `json:"use_dynamic_color"`
	ShouldHideOnboarding bool            `json:"should_hide_onboarding"`
}

// DefaultUserData is the profile seen on first launch.
func DefaultUserData() UserData {
	return UserData{
		ThemeBrand:           ThemeBrandDefault,
		DarkThemeConfig:      DarkThemeFollowSystem,
		UseDynamicColor:      false,
		ShouldHideOnboarding: false,
	}
}

// ValidateRole checks that exactly one of PatientID/DoctorID is set and that it
// is the one matching UserType.
func (u UserData) ValidateRole() error {
	hasPatient := strings.TrimSpace(u.PatientID) != ""
	hasDoctor := strings.TrimSpace(u.DoctorID) != ""

	switch u.UserType {
	case UserTypePatient:
		if !hasPatient || hasDoctor {
			return fmt.Errorf("patient profile needs a patient id and no doctor id")
		}
	case UserTypeDoctor:
		if !hasDoctor || hasPatient {
			return fmt.Errorf("doctor profile needs a doctor id and no patient id")
		}
	default:
		return fmt.Errorf("unknown user type %q", u.UserType)
	}
	return nil
}

// WithProfileFrom returns u with identity and medical fields replaced by those
// of src. App preferences are kept.
func (u UserData) WithProfileFrom(src UserData) UserData {
	out := src
	out.ThemeBrand = u.ThemeBrand
	out.DarkThemeConfig = u.DarkThemeConfig
	out.UseDynamicColor = u.UseDynamicColor
	out.ShouldHideOnboarding = u.ShouldHideOnboarding
	return out
}

// IsLoggedIn reports whether a role has been stored.
func (u UserData) IsLoggedIn() bool {
	return u.UserType.Valid()
}

// Preference names the single-field preference setters.
type Preference string

const (
	PreferenceShouldHideOnboarding Preference = "should_hide_onboarding"
	PreferenceUseDynamicColor      Preference = "use_dynamic_color"
	PreferenceThemeBrand           Preference = "theme_brand"
	PreferenceDarkThemeConfig      Preference = "dark_theme_config"
)

// Apply sets the preference on u from a raw value, checking its type.
func (p Preference) Apply(u *UserData, value interface{}) error {
	switch p {
	case PreferenceShouldHideOnboarding, PreferenceUseDynamicColor:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("preference %s expects a boolean, got %T", p, value)
		}
		if p == PreferenceShouldHideOnboarding {
			u.ShouldHideOnboarding = b
		} else {
			u.UseDynamicColor = b
		}
	case PreferenceThemeBrand:
		brand, err := parseThemeBrand(value)
		if err != nil {
			return err
		}
		u.ThemeBrand = brand
	case PreferenceDarkThemeConfig:
		mode, err := parseDarkThemeConfig(value)
		if err != nil {
			return err
		}
		u.DarkThemeConfig = mode
	default:
		return fmt.Errorf("unknown preference %q", p)
	}
	return nil
}

func parseThemeBrand(value interface{}) (ThemeBrand, error) {
	var s string
	switch v := value.(type) {
	case ThemeBrand:
		s = string(v)
	case string:
		s = v
	default:
		return "", fmt.Errorf("theme brand expects a string, got %T", value)
	}
	switch b := ThemeBrand(strings.ToUpper(s)); b {
	case ThemeBrandDefault, ThemeBrandAndroid:
		return b, nil
	}
	return "", fmt.Errorf("unknown theme brand %q", s)
}

func parseDarkThemeConfig(value interface{}) (DarkThemeConfig, error) {
	var s string
	switch v := value.(type) {
	case DarkThemeConfig:
		s = string(v)
	case string:
		s = v
	default:
		return "", fmt.Errorf("dark theme config expects a string, got %T", value)
	}
	switch m := DarkThemeConfig(strings.ToUpper(s)); m {
	case DarkThemeFollowSystem, DarkThemeLight, DarkThemeDark:
		return m, nil
	}
	return "", fmt.Errorf("unknown dark theme config %q", s)
}
