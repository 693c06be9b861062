package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("casual user starts active", func(t *testing.T) {
		user, err := NewUser("Wanjiku", "wanjiku@example.com", "254712345678", EmploymentTypeCasual)
		require.NoError(t, err)
		assert.Equal(t, "wanjiku", user.Username)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.True(t, user.IsActive())
	})

	t.Run("salaried user starts pending onboarding", func(t *testing.T) {
		user, err := NewUser("otieno", "", "", EmploymentTypeSalaried)
		require.NoError(t, err)
		assert.Equal(t, UserStatusPending, user.Status)
		assert.False(t, user.IsActive())
		assert.True(t, user.IsSalaried())
	})

	t.Run("rejects malformed phone", func(t *testing.T) {
		_, err := NewUser("otieno", "", "0712345678", EmploymentTypeCasual)
		assert.Error(t, err)
	})

	t.Run("rejects invalid employment type", func(t *testing.T) {
		_, err := NewUser("otieno", "", "", EmploymentType("contract"))
		assert.Error(t, err)
	})
}

func TestUserLifecycle(t *testing.T) {
	user, err := NewUser("otieno", "", "", EmploymentTypeSalaried)
	require.NoError(t, err)

	require.NoError(t, user.Activate())
	assert.True(t, user.IsActive())
	require.NotNil(t, user.ActivatedAt)

	assert.Error(t, user.Activate())

	require.NoError(t, user.Deactivate())
	assert.False(t, user.IsActive())
	assert.Error(t, user.Deactivate())
}
