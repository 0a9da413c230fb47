// File: internal/patient/model.go
package patient

import (
	"time"

	"medical_assistant_backend/internal/common"
	"medical_assistant_backend/internal/domain"
)

// Patient is a registry entry for a profile that has logged in on this device.
// Doctors are registered too, keyed by their doctor id.
type Patient struct {
	common.BaseModel
	ExternalID         string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	UserType           domain.UserType `gorm:"type:varchar(16);not null;index"`
	Name               string          `gorm:"type:varchar(255);not null"`
	Sex                string          `gorm:"type:varchar(32)"`
	BornDate           string          `gorm:"type:varchar(32)"`
	Address            string          `gorm:"type:text"`
	ProblemDescription string          `gorm:"type:text"`
	TreatmentDate      string          `gorm:"type:varchar(32)"`
	Specialty          string          `gorm:"type:varchar(255)"`
	Occupation         string          `gorm:"type:varchar(255)"`
	LastLoginAt        time.Time       `gorm:"not null"`
}

// TableName specifies the table name for the Patient model.
func (Patient) TableName() string {
	return "patients"
}

// externalID returns the identifier matching the profile's role.
func externalID(u domain.UserData) string {
	if u.UserType == domain.UserTypeDoctor {
		return u.DoctorID
	}
	return u.PatientID
}

func fromUserData(u domain.UserData, now time.Time) *Patient {
	return &Patient{
		ExternalID:         externalID(u),
		UserType:           u.UserType,
		Name:               u.Name,
		Sex:                u.Sex,
		BornDate:           u.BornDate,
		Address:            u.Address,
		ProblemDescription: u.ProblemDescription,
		TreatmentDate:      u.TreatmentDate,
		Specialty:          u.Specialty,
		Occupation:         u.Occupation,
		LastLoginAt:        now,
	}
}

// --- DTOs ---

// ListQuery filters the registry listing.
type ListQuery struct {
	UserType string `form:"user_type" binding:"omitempty,oneof=patient doctor"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// PatientResponse is a registry entry as sent in API responses.
type PatientResponse struct {
	ID                 string          `json:"id"`
	ExternalID         string          `json:"external_id"`
	UserType           domain.UserType `json:"user_type"`
	Name               string          `json:"name"`
	Sex                string          `json:"sex,omitempty"`
	BornDate           string          `json:"born_date,omitempty"`
	Address            string          `json:"address,omitempty"`
	ProblemDescription string          `json:"problem_description,omitempty"`
	TreatmentDate      string          `json:"treatment_date,omitempty"`
	Specialty          string          `json:"specialty,omitempty"`
	Occupation         string          `json:"occupation,omitempty"`
	LastLoginAt        time.Time       `json:"last_login_at"`
}

// ToPatientResponse converts a Patient model to its response shape.
func ToPatientResponse(p Patient) PatientResponse {
	return PatientResponse{
		ID:                 p.ID.String(),
		ExternalID:         p.ExternalID,
		UserType:           p.UserType,
		Name:               p.Name,
		Sex:                p.Sex,
		BornDate:           p.BornDate,
		Address:            p.Address,
		ProblemDescription: p.ProblemDescription,
		TreatmentDate:      p.TreatmentDate,
		Specialty:          p.Specialty,
		Occupation:         p.Occupation,
		LastLoginAt:        p.LastLoginAt,
	}
}
