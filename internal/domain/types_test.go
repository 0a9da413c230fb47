package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserData_ValidateRole(t *testing.T) {
	tests := []struct {
		name    string
		user    UserData
		wantErr bool
	}{
		{"patient with patient id", UserData{UserType: UserTypePatient, PatientID: "p-1"}, false},
		{"doctor with doctor id", UserData{UserType: UserTypeDoctor, DoctorID: "d-1"}, false},
		{"patient missing id", UserData{UserType: UserTypePatient}, true},
		{"patient with both ids", UserData{UserType: UserTypePatient, PatientID: "p-1", DoctorID: "d-1"}, true},
		{"doctor with patient id", UserData{UserType: UserTypeDoctor, PatientID: "p-1"}, true},
		{"blank id counts as empty", UserData{UserType: UserTypeDoctor, DoctorID: "  "}, true},
		{"unknown role", UserData{UserType: "nurse", PatientID: "p-1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.ValidateRole()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserData_WithProfileFromKeepsPreferences(t *testing.T) {
	current := DefaultUserData()
	current.ShouldHideOnboarding = true
	current.DarkThemeConfig = DarkThemeDark

	incoming := UserData{Name: "Ana", UserType: UserTypePatient, PatientID: "p-9", ThemeBrand: ThemeBrandAndroid}
	merged := current.WithProfileFrom(incoming)

	assert.Equal(t, "Ana", merged.Name)
	assert.Equal(t, "p-9", merged.PatientID)
	assert.True(t, merged.ShouldHideOnboarding)
	assert.Equal(t, DarkThemeDark, merged.DarkThemeConfig)
	assert.Equal(t, ThemeBrandDefault, merged.ThemeBrand)
}

func TestPreference_Apply(t *testing.T) {
	u := DefaultUserData()

	require.NoError(t, PreferenceShouldHideOnboarding.Apply(&u, true))
	require.NoError(t, PreferenceUseDynamicColor.Apply(&u, true))
	require.NoError(t, PreferenceThemeBrand.Apply(&u, "android"))
	require.NoError(t, PreferenceDarkThemeConfig.Apply(&u, DarkThemeLight))

	assert.True(t, u.ShouldHideOnboarding)
	assert.True(t, u.UseDynamicColor)
	assert.Equal(t, ThemeBrandAndroid, u.ThemeBrand)
	assert.Equal(t, DarkThemeLight, u.DarkThemeConfig)

	assert.Error(t, PreferenceUseDynamicColor.Apply(&u, "yes"))
	assert.Error(t, PreferenceThemeBrand.Apply(&u, "neon"))
	assert.Error(t, Preference("font_size").Apply(&u, 12))
}
