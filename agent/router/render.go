package router

import (
	"strings"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
)

// RenderCards lays the candidate cards out in the same shape the router
// prompt's few-shot examples use.
func RenderCards(cards []contractx.CapabilityCard) string {
	var b strings.Builder
	for _, card := range cards {
		b.WriteString("Name: ")
		b.WriteString(card.DisplayName)
		b.WriteString("\nID: ")
		b.WriteString(card.ID)
		b.WriteString("\nDescripción: ")
		b.WriteString(card.Description)
		b.WriteString("\n")
		for _, skill := range card.Skills {
			b.WriteString("  • ")
			b.WriteString(skill.Name)
			b.WriteString("\n    Tags: ")
			b.WriteString(strings.Join(skill.Tags, ", "))
			b.WriteString("\n")
			if len(skill.Examples) > 0 {
				b.WriteString("    Ejemplos: ")
				b.WriteString(strings.Join(skill.Examples, " | "))
				b.WriteString("\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
