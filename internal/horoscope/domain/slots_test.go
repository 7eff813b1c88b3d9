package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotsForDice(t *testing.T) {
	tests := []struct {
		name string
		dice int
		want Combination
	}{
		{name: "triple bar", dice: 1, want: Combination{SlotBar, SlotBar, SlotBar}},
		{name: "first reel cycles fastest", dice: 2, want: Combination{SlotGrape, SlotBar, SlotBar}},
		{name: "second reel", dice: 5, want: Combination{SlotBar, SlotGrape, SlotBar}},
		{name: "triple lemon", dice: 43, want: Combination{SlotLemon, SlotLemon, SlotLemon}},
		{name: "triple seven", dice: 64, want: Combination{SlotSeven, SlotSeven, SlotSeven}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SlotsForDice(tt.dice)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotsForDice_OutOfRange(t *testing.T) {
	for _, dice := range []int{0, -1, 65} {
		_, err := SlotsForDice(dice)
		assert.Error(t, err, "dice value %d", dice)
	}
}

func TestResult_FormattedMessage(t *testing.T) {
	plain := Result{Message: "Alles wird gut."}
	assert.Equal(t, "Alles wird gut.", plain.FormattedMessage())

	spoiler := Result{Message: "Alles wird gut.", Spoiler: true}
	assert.Equal(t, "<tg-spoiler>Alles wird gut.</tg-spoiler>", spoiler.FormattedMessage())
}
