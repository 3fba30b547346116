package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/hallpass/internal/tally/domain"
)

func TestParseGroup(t *testing.T) {
	g, err := domain.ParseGroup(" Girls ")
	require.NoError(t, err)
	assert.Equal(t, domain.GroupGirls, g)

	g, err = domain.ParseGroup("boys")
	require.NoError(t, err)
	assert.Equal(t, domain.GroupBoys, g)

	_, err = domain.ParseGroup("staff")
	assert.ErrorIs(t, err, domain.ErrUnknownGroup)
}

func TestValidateDelta(t *testing.T) {
	assert.NoError(t, domain.ValidateDelta(1))
	assert.NoError(t, domain.ValidateDelta(-1))
	assert.ErrorIs(t, domain.ValidateDelta(0), domain.ErrInvalidDelta)
	assert.ErrorIs(t, domain.ValidateDelta(2), domain.ErrInvalidDelta)
}

func TestCounts(t *testing.T) {
	c := domain.Counts{Girls: 3, Boys: 4}

	assert.Equal(t, 7, c.Total())
	assert.Equal(t, 3, c.Of(domain.GroupGirls))
	assert.Equal(t, domain.Counts{Girls: 3, Boys: 9}, c.With(domain.GroupBoys, 9))
	assert.Equal(t, 4, c.Boys)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, domain.Clamp(0, -1))
	assert.Equal(t, 1, domain.Clamp(0, 1))
	assert.Equal(t, 4, domain.Clamp(5, -1))
}

func TestNewCountsChanged(t *testing.T) {
	event := domain.NewCountsChanged(domain.GroupBoys, 1, domain.Counts{Girls: 1, Boys: 2})

	assert.Equal(t, domain.RoutingKeyCountsChanged, event.RoutingKey())
	assert.Equal(t, domain.AggregateType, event.AggregateType())
	assert.Equal(t, 3, event.Total)
}
