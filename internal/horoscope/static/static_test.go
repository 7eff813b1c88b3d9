package static

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sternbild/horoskop/internal/horoscope/domain"
)

func TestProvideHoroscope_KnownCombination(t *testing.T) {
	p := New()

	// dice value 64 decodes to triple seven
	results, err := p.ProvideHoroscope(context.Background(), domain.Request{Dice: 64})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Niemand kann dich aufhalten!", results[0].Message)
	assert.Nil(t, results[0].Image)
}

func TestProvideHoroscope_TripleLemonStaysSilent(t *testing.T) {
	p := New()

	results, err := p.ProvideHoroscope(context.Background(), domain.Request{Dice: domain.TripleLemonValue})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProvideHoroscope_InvalidDice(t *testing.T) {
	p := New()

	_, err := p.ProvideHoroscope(context.Background(), domain.Request{Dice: 65})

	assert.Error(t, err)
}

func TestProvideHoroscope_CoversAllCombinationsExceptTripleLemon(t *testing.T) {
	p := New()

	for dice := 1; dice <= 64; dice++ {
		results, err := p.ProvideHoroscope(context.Background(), domain.Request{Dice: dice})
		require.NoError(t, err)
		if dice == domain.TripleLemonValue {
			assert.Empty(t, results)
			continue
		}
		require.Len(t, results, 1, "dice value %d", dice)
		assert.NotEmpty(t, results[0].Message, "dice value %d", dice)
	}
}
