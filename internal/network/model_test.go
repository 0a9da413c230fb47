package network

import (
	"testing"

	"medical_assistant_backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestAsUserData(t *testing.T) {
	u := UserForTestWithPatient.AsUserData()

	assert.Equal(t, UserForTestWithPatient.Name, u.Name)
	assert.Equal(t, domain.UserTypePatient, u.UserType)
	assert.Equal(t, "P-0001", u.PatientID)
	assert.Empty(t, u.DoctorID)
	assert.Equal(t, domain.ThemeBrandDefault, u.ThemeBrand)
	assert.Equal(t, domain.DarkThemeFollowSystem, u.DarkThemeConfig)
	assert.False(t, u.UseDynamicColor)
	assert.False(t, u.ShouldHideOnboarding)
}

func TestFixturesSatisfyRoleInvariant(t *testing.T) {
	assert.NoError(t, UserForTestWithPatient.AsUserData().ValidateRole())
	assert.NoError(t, UserForTestWithDoctor.AsUserData().ValidateRole())
}
