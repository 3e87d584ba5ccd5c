package kernel_test

import (
	"testing"
	"time"

	"orders/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf(t *testing.T) {
	bogota := time.FixedZone("COT", -5*60*60)
	in := time.Date(2026, 3, 31, 22, 30, 0, 0, bogota)

	got := kernel.DateOf(in)

	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestAddDays(t *testing.T) {
	base := time.Date(2026, 12, 30, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, time.Date(2027, 1, 7, 0, 0, 0, 0, time.UTC), kernel.AddDays(base, 8))
	assert.Equal(t, time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC), kernel.AddDays(base, 0))
}

func TestParseDate(t *testing.T) {
	got, err := kernel.ParseDate("2026-05-17")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 17, 0, 0, 0, 0, time.UTC), got)

	_, err = kernel.ParseDate("17/05/2026")
	require.Error(t, err)
}
