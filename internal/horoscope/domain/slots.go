// Package domain defines the horoscope provider contract and the slot
// machine value mapping.
package domain

import "fmt"

// Slot is one reel symbol of the Telegram slot machine dice.
type Slot int

const (
	SlotBar Slot = iota
	SlotGrape
	SlotLemon
	SlotSeven
)

func (s Slot) String() string {
	switch s {
	case SlotBar:
		return "bar"
	case SlotGrape:
		return "grape"
	case SlotLemon:
		return "lemon"
	case SlotSeven:
		return "seven"
	default:
		return "unknown"
	}
}

// Combination is the three reels of one slot machine roll.
type Combination [3]Slot

// TripleLemonValue is the dice value of three lemons. Another well-known
// bot reacts to it, so this one stays quiet.
const TripleLemonValue = 43

// SlotsForDice decodes a Telegram slot machine dice value (1..64) into
// its reel combination. The value is a base-4 encoding with the symbol
// order bar, grape, lemon, seven.
func SlotsForDice(value int) (Combination, error) {
	if value < 1 || value > 64 {
		return Combination{}, fmt.Errorf("dice value out of range: %d", value)
	}
	v := value - 1
	return Combination{
		Slot(v % 4),
		Slot(v / 4 % 4),
		Slot(v / 16 % 4),
	}, nil
}
