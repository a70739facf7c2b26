package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusDraft, StatusSent, StatusPaid, StatusOverdue} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("cancelled"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("Paid"))
}

func TestTransition(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	earlier := now.AddDate(0, -1, 0)

	t.Run("entering paid stamps the clock", func(t *testing.T) {
		paidDate, err := Transition(StatusPaid, nil, now)
		require.NoError(t, err)
		require.NotNil(t, paidDate)
		assert.Equal(t, now, *paidDate)
	})

	t.Run("leaving paid keeps the existing stamp", func(t *testing.T) {
		paidDate, err := Transition(StatusSent, &earlier, now)
		require.NoError(t, err)
		require.NotNil(t, paidDate)
		assert.Equal(t, earlier, *paidDate)
	})

	t.Run("re-entering paid restamps", func(t *testing.T) {
		paidDate, err := Transition(StatusPaid, &earlier, now)
		require.NoError(t, err)
		require.NotNil(t, paidDate)
		assert.Equal(t, now, *paidDate)
	})

	t.Run("non-paid transition with no stamp stays nil", func(t *testing.T) {
		paidDate, err := Transition(StatusOverdue, nil, now)
		require.NoError(t, err)
		assert.Nil(t, paidDate)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := Transition("cancelled", nil, now)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}
