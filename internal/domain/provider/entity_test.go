//go:build unit

package provider_test

import (
	"testing"

	"taskbridge-server/internal/domain/provider"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider(t *testing.T) {
	t.Run("quote is rate times hours", func(t *testing.T) {
		p, err := provider.NewProvider(uuid.New(), "Clean Sweep Co", "cleaning", 5000, true, true)
		require.NoError(t, err)

		assert.Equal(t, int64(10000), p.QuoteCents(2))
		assert.Equal(t, int64(5000), p.QuoteCents(1))
		assert.Equal(t, int64(40000), p.QuoteCents(8))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := provider.NewProvider(uuid.New(), "", "cleaning", 5000, true, true)
		assert.ErrorIs(t, err, provider.ErrEmptyName)

		_, err = provider.NewProvider(uuid.New(), "Clean Sweep Co", "cleaning", 0, true, true)
		assert.ErrorIs(t, err, provider.ErrNonPositiveRate)
	})
}
