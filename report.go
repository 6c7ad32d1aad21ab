package main

import (
	"fmt"
	"io"
	"strings"

	orchestratorx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/agents/orchestrator"
	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	failColor   = color.New(color.FgRed)
)

func printBanner(w io.Writer, title string) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerColor.Sprint(rule))
	fmt.Fprintln(w, headerColor.Sprint(title))
	fmt.Fprintln(w, headerColor.Sprint(rule))
	fmt.Fprintln(w)
}

// printSummary writes one block per order of the batch, failures included.
func printSummary(w io.Writer, report orchestratorx.BatchReport) {
	printBanner(w, "RESUMEN DE OPERACIONES - RESTAURANTE VIRTUAL")

	for _, outcome := range report.Outcomes {
		fmt.Fprintf(w, "PEDIDO #%d (%s)\n", outcome.Index+1, outcome.Order.ID)
		fmt.Fprintf(w, "   Descripción: %s\n", outcome.Order.Description)

		if outcome.Status() == contractx.OrderFailed {
			fmt.Fprintf(w, "   Estado: %s\n", failColor.Sprint(strings.ToUpper(string(contractx.OrderFailed))))
			if outcome.Err != nil {
				fmt.Fprintf(w, "   Error: %v\n", outcome.Err)
			}
			fmt.Fprintln(w)
			continue
		}

		c := outcome.Completed
		fmt.Fprintf(w, "   Agente: %s\n", c.WorkerName)
		fmt.Fprintf(w, "   Skills usadas: %s\n", strings.Join(c.SkillsUsed, ", "))
		fmt.Fprintf(w, "   Estado: %s\n", okColor.Sprint(strings.ToUpper(string(c.Status))))
		fmt.Fprintln(w)
		for _, line := range strings.Split(c.ResultText, "\n") {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(w, "   %s\n", line)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Completados: %s  Fallidos: %s  (run %s)\n",
		okColor.Sprint(report.Completed()),
		failColor.Sprint(report.Failed()),
		report.RunID,
	)
}

// printDiscovery lists the advertised cards, showing at most two examples per skill.
func printDiscovery(w io.Writer, cards []contractx.CapabilityCard) {
	printBanner(w, "DESCUBRIMIENTO DE AGENTES - AGENT CARDS DISPONIBLES")

	for _, card := range cards {
		fmt.Fprintln(w, headerColor.Sprint(card.DisplayName))
		fmt.Fprintf(w, "   ID: %s\n", card.ID)
		fmt.Fprintf(w, "   Descripción: %s\n", card.Description)
		fmt.Fprintf(w, "   URL: %s\n", card.URL)
		fmt.Fprintf(w, "   Versión: %s\n", card.Version)
		fmt.Fprintf(w, "   Skills (%d):\n", len(card.Skills))
		fmt.Fprintf(w, "      └─ Input: %s\n", strings.Join(card.DefaultInputModes, ", "))
		fmt.Fprintf(w, "      └─ Output: %s\n", strings.Join(card.DefaultOutputModes, ", "))

		for _, skill := range card.Skills {
			fmt.Fprintf(w, "      • %s\n", skill.Name)
			fmt.Fprintf(w, "        ├─ ID: %s\n", skill.ID)
			fmt.Fprintf(w, "        ├─ Descripción: %s\n", skill.Description)
			fmt.Fprintf(w, "        ├─ Tags: %s\n", strings.Join(skill.Tags, ", "))
			fmt.Fprintf(w, "        └─ Ejemplos: %d\n", len(skill.Examples))
			examples := skill.Examples
			if len(examples) > 2 {
				examples = examples[:2]
			}
			for _, ex := range examples {
				fmt.Fprintf(w, "           · %s\n", ex)
			}
		}
		fmt.Fprintln(w)
	}
}
