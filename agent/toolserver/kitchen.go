package toolserver

import (
	"math"
	"strings"
)

var inventory = map[string]struct{}{
	"carne":      {},
	"queso":      {},
	"lechuga":    {},
	"tomate":     {},
	"pan":        {},
	"tocino":     {},
	"salsa":      {},
	"cebolla":    {},
	"pepinillos": {},
}

// ideal preparation times in seconds, per item type.
var idealTimes = map[string]float64{
	"hamburguesa": 5.0,
	"pizza":       8.0,
	"hotdog":      3.0,
}

const defaultIdealTime = 5.0

type Grade struct {
	Label string
	Score int
}

// MissingIngredients returns, in input order, the ingredients not in stock.
func MissingIngredients(ingredients []string) []string {
	var missing []string
	for _, ing := range ingredients {
		if _, ok := inventory[strings.ToLower(strings.TrimSpace(ing))]; !ok {
			missing = append(missing, ing)
		}
	}
	return missing
}

func QualityFor(itemType string, seconds float64) Grade {
	ideal, ok := idealTimes[strings.ToLower(strings.TrimSpace(itemType))]
	if !ok {
		ideal = defaultIdealTime
	}

	diff := math.Abs(seconds - ideal)
	switch {
	case diff < 1.0:
		return Grade{Label: "Premium", Score: 95}
	case diff < 2.0:
		return Grade{Label: "Excelente", Score: 85}
	case diff < 3.0:
		return Grade{Label: "Muy Buena", Score: 75}
	default:
		return Grade{Label: "Buena", Score: 65}
	}
}
