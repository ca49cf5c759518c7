package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/carelist/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewRegister, "register"},
		{ViewServices, "services"},
		{ViewSettings, "settings"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestViewType_RegisterIsZeroValue(t *testing.T) {
	var v ViewType
	assert.Equal(t, ViewRegister, v)
}

func TestServicesLoaded(t *testing.T) {
	t.Run("with result", func(t *testing.T) {
		msg := ServicesLoaded{Result: domain.LoadResult{Count: 2, Found: true}}
		assert.Equal(t, 2, msg.Result.Count)
		assert.NoError(t, msg.Err)
	})

	t.Run("with corrupt state", func(t *testing.T) {
		msg := ServicesLoaded{Result: domain.LoadResult{Found: true}, Err: domain.ErrCorruptState}
		require.Error(t, msg.Err)
		assert.True(t, errors.Is(msg.Err, domain.ErrCorruptState))
	})
}

func TestServiceAdded_IncompleteDraft(t *testing.T) {
	msg := ServiceAdded{}
	assert.Nil(t, msg.Service)
	assert.NoError(t, msg.Err)
}

func TestServiceDeleted(t *testing.T) {
	msg := ServiceDeleted{ID: "1", Err: domain.ErrPersist}
	assert.Equal(t, "1", msg.ID)
	assert.ErrorIs(t, msg.Err, domain.ErrPersist)
}
