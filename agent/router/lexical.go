package router

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	"github.com/rs/zerolog/log"
)

const (
	tagWeight         = 10
	exampleWeight     = 5
	descriptionWeight = 2
)

// Lexical picks the card whose tags, examples and description best overlap
// the order text. It never calls out and is safe for concurrent use.
type Lexical struct{}

var _ contractx.Router = Lexical{}

func (Lexical) Select(ctx context.Context, description string, candidates []contractx.CapabilityCard) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: description=%q", contractx.ErrNoCandidate, description)
	}

	scores := Score(description, candidates)
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}

	log.Debug().
		Str("component", "router").
		Str("strategy", "lexical").
		Interface("scores", scores).
		Str("worker_id", best.WorkerID).
		Msg("order routed")
	return best.WorkerID, nil
}

// Score rates every candidate against description, in candidate order.
func Score(description string, candidates []contractx.CapabilityCard) []contractx.MatchScore {
	text := strings.ToLower(description)
	words := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		words[w] = struct{}{}
	}

	out := make([]contractx.MatchScore, 0, len(candidates))
	for _, card := range candidates {
		out = append(out, contractx.MatchScore{
			WorkerID: card.ID,
			Score:    scoreCard(text, words, card),
		})
	}
	return out
}

func scoreCard(text string, words map[string]struct{}, card contractx.CapabilityCard) int {
	score := 0

	for _, tag := range card.Tags() {
		if strings.Contains(text, strings.ToLower(tag)) {
			score += tagWeight
		}
	}

	for _, example := range card.Examples() {
		for _, token := range strings.Fields(strings.ToLower(example)) {
			if strings.Contains(text, token) {
				score += exampleWeight
				break
			}
		}
	}

	for _, token := range strings.Fields(strings.ToLower(card.Description)) {
		if _, ok := words[token]; ok {
			score += descriptionWeight
		}
	}

	return score
}
