package main

import (
	"encoding/json"

	workerx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/agents/worker"
	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	"github.com/spf13/cobra"
)

var cardsJSON bool

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Print the capability cards of the kitchen workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		roster, err := workerx.NewRoster()
		if err != nil {
			return err
		}
		cards := make([]contractx.CapabilityCard, 0, len(roster))
		for _, w := range roster {
			cards = append(cards, w.Card())
		}

		if cardsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cards)
		}
		printDiscovery(cmd.OutOrStdout(), cards)
		return nil
	},
}

func init() {
	cardsCmd.Flags().BoolVar(&cardsJSON, "json", false, "print the cards as JSON")
}
