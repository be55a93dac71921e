package prompt

import (
	"strings"
	"testing"

	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/pkg/llm"
)

func TestBuilderFullPrompt(t *testing.T) {
	houseRules := []*entity.HouseRule{
		{Title: "Free Parking bonus", Description: "Collect 500 from the bank when landing on Free Parking."},
	}
	history := []llm.Message{
		{Role: "user", Content: "How much money do I start with?"},
		{Role: "assistant", Content: "Each player starts with 1500."},
	}
	chunks := []string{
		"Each player begins the game with 1500 in cash.",
		"When a player lands on Free Parking nothing happens.",
	}

	result := NewBuilder("Monopoly", chunks, houseRules, history, "What happens on Free Parking?").Build()

	for _, want := range []string{
		"Monopoly",
		"<official_rules>",
		"Each player begins the game with 1500 in cash.",
		"<house_rules>",
		"Free Parking bonus",
		"<conversation>",
		"Each player starts with 1500.",
		"<question>",
		"What happens on Free Parking?",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// House rules must come after official rules so the override framing reads naturally.
	if strings.Index(result, "<official_rules>") > strings.Index(result, "<house_rules>") {
		t.Error("official rules should precede house rules")
	}
}

func TestBuilderOmitsEmptySections(t *testing.T) {
	result := NewBuilder("Chess", nil, nil, nil, "How does the knight move?").Build()

	if strings.Contains(result, "<official_rules>") {
		t.Error("empty chunk list should omit official rules section")
	}
	if strings.Contains(result, "<house_rules>") {
		t.Error("empty house rules should omit section")
	}
	if strings.Contains(result, "<conversation>") {
		t.Error("empty history should omit conversation section")
	}
	if !strings.Contains(result, "How does the knight move?") {
		t.Error("question must always be present")
	}
}
