package guard_test

import (
	"errors"
	"testing"

	"orders/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("command must be created via its constructor")

	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_given_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(errNotConstructed)

		require.Error(t, err)
		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero_value_guard_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

func TestConstructorGuard_Embedded(t *testing.T) {
	type command struct {
		orderID string
		guard   guard.ConstructorGuard
	}
	errCommand := errors.New("command is not constructed")

	newCommand := func(orderID string) (command, error) {
		if orderID == "" {
			return command{}, errors.New("order id is required")
		}
		return command{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructor_sets_guard", func(t *testing.T) {
		cmd, err := newCommand("42")

		require.NoError(t, err)
		require.NoError(t, cmd.guard.Validate(errCommand))
	})

	t.Run("literal_fails_validation", func(t *testing.T) {
		cmd := command{orderID: "42"}

		assert.Equal(t, errCommand, cmd.guard.Validate(errCommand))
	})

	t.Run("copy_keeps_guard", func(t *testing.T) {
		cmd, _ := newCommand("42")
		cp := cmd

		require.NoError(t, cp.guard.Validate(errCommand))
	})
}
