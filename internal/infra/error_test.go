//go:build unit

package infra_test

import (
	"testing"

	"taskbridge-server/internal/infra"
	"taskbridge-server/internal/pkg/errs"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr(t *testing.T) {
	t.Run("defaults to DB failure", func(t *testing.T) {
		err := infra.WrapRepoErr("query failed", errors.New("connection reset"))
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
		assert.False(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("explicit kind wins", func(t *testing.T) {
		err := infra.WrapRepoErr("row missing", nil, infra.KindNotFound)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("kind survives further wrapping", func(t *testing.T) {
		inner := infra.WrapRepoErr("slot taken", errors.New("duplicate key"), infra.KindConflict)
		outer := errs.Wrap(inner, "create booking")
		assert.True(t, infra.IsKind(outer, infra.KindConflict))
	})

	t.Run("nil inner error still carries the kind and message", func(t *testing.T) {
		err := infra.WrapRepoErr("nothing to update", nil, infra.KindNotFound)
		assert.Contains(t, err.Error(), "NOT_FOUND")
		assert.Contains(t, err.Error(), "nothing to update")
	})

	t.Run("plain errors have no kind", func(t *testing.T) {
		assert.False(t, infra.IsKind(errors.New("boom"), infra.KindDBFailure))
		assert.False(t, infra.IsKind(nil, infra.KindDBFailure))
	})
}
