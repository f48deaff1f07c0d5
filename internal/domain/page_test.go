package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageQueryValidate(t *testing.T) {
	cases := []struct {
		name string
		q    PageQuery
		ok   bool
	}{
		{"first page", PageQuery{Page: 0, Size: 10}, true},
		{"max size", PageQuery{Page: 3, Size: MaxPageSize}, true},
		{"largest page that fits", PageQuery{Page: math.MaxInt / MaxPageSize, Size: MaxPageSize}, true},
		{"negative page", PageQuery{Page: -1, Size: 10}, false},
		{"zero size", PageQuery{Page: 0, Size: 0}, false},
		{"oversized", PageQuery{Page: 0, Size: MaxPageSize + 1}, false},
		{"offset overflows", PageQuery{Page: math.MaxInt/MaxPageSize + 1, Size: MaxPageSize}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.q.Validate()
			if tc.ok {
				require.NoError(t, err)
				assert.GreaterOrEqual(t, tc.q.Offset(), 0)
				return
			}
			require.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}
