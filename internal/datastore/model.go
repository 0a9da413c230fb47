// File: internal/datastore/model.go
package datastore

import (
	"time"

	"medical_assistant_backend/internal/domain"
)

// preferencesRowID is the id of the single row holding the device profile.
const preferencesRowID = 1

// UserPreferences is the persisted form of domain.UserData. There is only ever one row.
type UserPreferences struct {
	ID uint `gorm:"primaryKey"`

	Name      string `gorm:"type:varchar(255)"`
	Sex       string `gorm:"type:varchar(32)"`
	BornDate  string `gorm:"type:varchar(32)"`
	Address   string `gorm:"type:text"`
	UserType  string `gorm:"type:varchar(16)"`
	PatientID string `gorm:"type:varchar(64)"`
	DoctorID  string `gorm:"type:varchar(64)"`

	ProblemDescription string `gorm:"type:text"`
	TreatmentDate      string `gorm:"type:varchar(32)"`
	Specialty          string `gorm:"type:varchar(128)"`
	GraduationDate     string `gorm:"type:varchar(32)"`
	Experience         string `gorm:"type:varchar(128)"`
	Occupation         string `gorm:"type:varchar(128)"`

	ThemeBrand           string `gorm:"type:varchar(16);not null;default:'DEFAULT'"`
	DarkThemeConfig      string `gorm:"type:varchar(16);not null;default:'FOLLOW_SYSTEM'"`
	UseDynamicColor      bool   `gorm:"not null;default:false"`
	ShouldHideOnboarding bool   `gorm:"not null;default:false"`

	UpdatedAt time.Time
}

// TableName specifies the table name for the UserPreferences model.
func (UserPreferences) TableName() string {
	return "user_preferences"
}

func (p *UserPreferences) toDomain() domain.UserData {
	return domain.UserData{
		Name:                 p.Name,
		Sex:                  p.Sex,
		BornDate:             p.BornDate,
		Address:              p.Address,
		UserType:             domain.UserType(p.UserType),
		PatientID:            p.PatientID,
		DoctorID:             p.DoctorID,
		ProblemDescription:   p.ProblemDescription,
		TreatmentDate:        p.TreatmentDate,
		Specialty:            p.Specialty,
		GraduationDate:       p.GraduationDate,
		Experience:           p.Experience,
		Occupation:           p.Occupation,
		ThemeBrand:           domain.ThemeBrand(p.ThemeBrand),
		DarkThemeConfig:      domain.DarkThemeConfig(p.DarkThemeConfig),
		UseDynamicColor:      p.UseDynamicColor,
		ShouldHideOnboarding: p.ShouldHideOnboarding,
	}
}

func fromDomain(u domain.UserData) UserPreferences {
	return UserPreferences{
		ID:                   preferencesRowID,
		Name:                 u.Name,
		Sex:                  u.Sex,
		BornDate:             u.BornDate,
		Address:              u.Address,
		UserType:             string(u.UserType),
		PatientID:            u.PatientID,
		DoctorID:             u.DoctorID,
		ProblemDescription:   u.ProblemDescription,
		TreatmentDate:        u.TreatmentDate,
		Specialty:            u.Specialty,
		GraduationDate:       u.GraduationDate,
		Experience:           u.Experience,
		Occupation:           u.Occupation,
		ThemeBrand:           string(u.ThemeBrand),
		DarkThemeConfig:      string(u.DarkThemeConfig),
		UseDynamicColor:      u.UseDynamicColor,
		ShouldHideOnboarding: u.ShouldHideOnboarding,
	}
}
