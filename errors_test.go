package sdk_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/nabu-3/sdkgen"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := sdk.NewNotFoundError("table")
		assert.Equal(t, "nabu: table not found", err.Error())
	})

	t.Run("Error with name", func(t *testing.T) {
		err := sdk.NewNotFoundErrorWithID("table", "nb_site")
		assert.Equal(t, "nabu: table not found (name=nb_site)", err.Error())
		assert.Equal(t, "table", err.Label())
		assert.Equal(t, "nb_site", err.ID())
	})

	t.Run("Is", func(t *testing.T) {
		err := sdk.NewNotFoundError("schema")
		assert.True(t, errors.Is(err, sdk.ErrNotFound))
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := sdk.NewNotFoundError("table")
		assert.True(t, sdk.IsNotFound(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, sdk.IsNotFound(wrapped))

		assert.True(t, sdk.IsNotFound(sdk.ErrNotFound))

		assert.False(t, sdk.IsNotFound(errors.New("other error")))
		assert.False(t, sdk.IsNotFound(nil))
	})
}

func TestAggregateError(t *testing.T) {
	t.Run("nil when no errors", func(t *testing.T) {
		assert.NoError(t, sdk.NewAggregateError("generation", nil, nil))
	})

	t.Run("single error", func(t *testing.T) {
		e := errors.New("boom")
		err := sdk.NewAggregateError("manifest", nil, e)
		assert.Equal(t, "nabu: manifest: boom", err.Error())
		assert.ErrorIs(t, err, e)
	})

	t.Run("multiple errors", func(t *testing.T) {
		e1 := sdk.NewNotFoundErrorWithID("table", "a")
		e2 := errors.New("boom")
		err := sdk.NewAggregateError("generation", e1, e2)
		require.Error(t, err)

		var agg *sdk.AggregateError
		require.True(t, errors.As(err, &agg))
		assert.Equal(t, "generation", agg.Batch)
		assert.Len(t, agg.Errors, 2)
		assert.Contains(t, err.Error(), "nabu: generation: 2 errors:")
		assert.Contains(t, err.Error(), "[1] nabu: table not found (name=a)")
		assert.Contains(t, err.Error(), "[2] boom")
		assert.True(t, errors.Is(err, sdk.ErrNotFound))
	})
}
