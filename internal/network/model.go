// File: internal/network/model.go
package network

import "medical_assistant_backend/internal/domain"

// NetworkUser is the user record as the remote API returns it.
type NetworkUser struct {
	Name               string          `json:"name"`
	Sex                string          `json:"sex"`
	BornDate           string          `json:"bornDate"`
	Address            string          `json:"address"`
	UserType           domain.UserType `json:"userType"`
	ProblemDescription string          `json:"problemDescription,omitempty"`
	TreatmentDate      string          `json:"treatmentDate,omitempty"`
	Specialty          string          `json:"specialty,omitempty"`
	GraduationDate     string          `json:"graduationDate,omitempty"`
	Experience         string          `json:"experience,omitempty"`
	Occupation         string          `json:"occupation,omitempty"`
	PatientID          string          `json:"patientId,omitempty"`
	DoctorID           string          `json:"doctorId,omitempty"`
}

// AsUserData maps the network record onto a profile with first-launch preferences.
func (n NetworkUser) AsUserData() domain.UserData {
	u := domain.DefaultUserData()
	u.Name = n.Name
	u.Sex = n.Sex
	u.BornDate = n.BornDate
	u.Address = n.Address
	u.UserType = n.UserType
	u.ProblemDescription = n.ProblemDescription
	u.TreatmentDate = n.TreatmentDate
	u.Specialty = n.Specialty
	u.GraduationDate = n.GraduationDate
	u.Experience = n.Experience
	u.Occupation = n.Occupation
	u.PatientID = n.PatientID
	u.DoctorID = n.DoctorID
	return u
}

// UserForTestWithPatient is the fixed patient account served by the stub backend.
var UserForTestWithPatient = NetworkUser{
	Name:               "Alexander Francisco",
	Sex:                "Masculino",
	BornDate:           "1995-03-12",
	Address:            "Calle 23 #456, Vedado, La Habana",
	UserType:           domain.UserTypePatient,
	ProblemDescription: "Trastorno de ansiedad generalizada",
	TreatmentDate:      "2023-09-01",
	Occupation:         "Ingeniero de software",
	PatientID:          "P-0001",
}

// UserForTestWithDoctor is the fixed doctor account served by the stub backend.
var UserForTestWithDoctor = NetworkUser{
	Name:           "José Feliciano",
	Sex:            "Masculino",
	BornDate:       "1978-11-02",
	Address:        "Avenida 41 #1203, Playa, La Habana",
	UserType:       domain.UserTypeDoctor,
	Specialty:      "Psiquiatría",
	GraduationDate: "2003-07-15",
	Experience:     "20 años",
	DoctorID:       "D-0001",
}
