package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dsctl/dsctl/errors"
)

func TestErrors(t *testing.T) {
	t.Run("Is", func(t *testing.T) {
		uncoded := errors.New(errors.ErrUncoded, "uncoded error")
		badPath := errors.New(errors.ErrInvalidPath, "empty segment")
		notFound := errors.Newf(errors.ErrNotFound, "no %s found", "users")

		tests := []struct {
			err    error
			target errors.Code
			exp    bool
		}{
			{
				err:    uncoded,
				target: errors.ErrUncoded,
				exp:    true,
			},
			{
				err:    uncoded,
				target: errors.ErrInvalidPath,
				exp:    false,
			},
			{
				err:    badPath,
				target: errors.ErrInvalidPath,
				exp:    true,
			},
			{
				err:    errors.Wrap(notFound, "with message"),
				target: errors.ErrNotFound,
				exp:    true,
			},
			{
				err:    errors.Wrapf(errors.Wrap(badPath, "inner"), "outer %d", 2),
				target: errors.ErrInvalidPath,
				exp:    true,
			},
			{
				err:    fmt.Errorf("plain"),
				target: errors.ErrUncoded,
				exp:    false,
			},
		}

		for i, test := range tests {
			t.Run(fmt.Sprintf("test-%d", i), func(t *testing.T) {
				got := errors.Is(test.err, test.target)
				assert.Equal(t, test.exp, got)
			})
		}
	})

	t.Run("CodeOf", func(t *testing.T) {
		assert.Equal(t, errors.ErrNotUnique,
			errors.CodeOf(errors.Wrap(errors.New(errors.ErrNotUnique, "dup"), "looking up")))
		assert.Equal(t, errors.ErrUncoded, errors.CodeOf(fmt.Errorf("plain")))
	})

	t.Run("Message", func(t *testing.T) {
		err := errors.Wrap(errors.New(errors.ErrCancelled, "cancelled before dispatch"), "row 7")
		assert.Contains(t, err.Error(), "row 7")
		assert.Contains(t, err.Error(), "cancelled before dispatch")
	})
}
