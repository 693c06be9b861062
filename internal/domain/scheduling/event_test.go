package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	t.Run("creates event with trimmed name", func(t *testing.T) {
		event, err := NewEvent("  Wedding at Karen  ", time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), "Karen", uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "Wedding at Karen", event.Name)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewEvent("   ", time.Now(), "", uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects zero date", func(t *testing.T) {
		_, err := NewEvent("Conference", time.Time{}, "", uuid.New())
		assert.Error(t, err)
	})
}

func TestSetSetupWindow(t *testing.T) {
	event, err := NewEvent("Expo", time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), "KICC", uuid.New())
	require.NoError(t, err)

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)

	require.NoError(t, event.SetSetupWindow(&start, &end))
	assert.Equal(t, &start, event.SetupDate)

	assert.Error(t, event.SetSetupWindow(&end, &start))
}

func TestNewCrewAssignment(t *testing.T) {
	t.Run("creates assignment", func(t *testing.T) {
		a, err := NewCrewAssignment(uuid.New(), uuid.New(), "sound engineer", uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "sound engineer", a.Role)
	})

	t.Run("rejects nil event or user", func(t *testing.T) {
		_, err := NewCrewAssignment(uuid.Nil, uuid.New(), "", uuid.New())
		assert.Error(t, err)
		_, err = NewCrewAssignment(uuid.New(), uuid.Nil, "", uuid.New())
		assert.Error(t, err)
	})
}
