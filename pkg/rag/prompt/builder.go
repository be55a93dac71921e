package prompt

import (
	"strings"

	"boardgame-rules-be/internal/entity"
	"boardgame-rules-be/pkg/llm"
)

// Builder assembles the rules-question prompt from retrieved chunks,
// active house rules and recent conversation history.
type Builder struct {
	gameName   string
	chunks     []string
	houseRules []*entity.HouseRule
	history    []llm.Message
	question   string
}

func NewBuilder(gameName string, chunks []string, houseRules []*entity.HouseRule, history []llm.Message, question string) *Builder {
	return &Builder{
		gameName:   gameName,
		chunks:     chunks,
		houseRules: houseRules,
		history:    history,
		question:   question,
	}
}

func (b *Builder) Build() string {
	var prompt strings.Builder

	b.writeTask(&prompt)
	b.writeRulesContext(&prompt)
	b.writeHouseRules(&prompt)
	b.writeHistory(&prompt)
	b.writeQuestion(&prompt)

	return prompt.String()
}

func (b *Builder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a board game rules expert helping players understand the rules of ")
	prompt.WriteString(b.gameName)
	prompt.WriteString(".\n")
	prompt.WriteString("Answer using the official rules excerpts and the table's house rules below.\n")
	prompt.WriteString("When a house rule overrides an official rule, the house rule wins and you should say so.\n")
	prompt.WriteString("If the provided material does not cover the question, say so honestly instead of guessing.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *Builder) writeRulesContext(prompt *strings.Builder) {
	if len(b.chunks) == 0 {
		return
	}

	prompt.WriteString("<official_rules>\n")
	for i, chunk := range b.chunks {
		if i > 0 {
			prompt.WriteString("\n---\n")
		}
		prompt.WriteString(chunk)
	}
	prompt.WriteString("\n</official_rules>\n\n")
}

func (b *Builder) writeHouseRules(prompt *strings.Builder) {
	if len(b.houseRules) == 0 {
		return
	}

	prompt.WriteString("<house_rules>\n")
	for _, rule := range b.houseRules {
		prompt.WriteString("- ")
		prompt.WriteString(rule.Title)
		prompt.WriteString(": ")
		prompt.WriteString(rule.Description)
		prompt.WriteString("\n")
	}
	prompt.WriteString("</house_rules>\n\n")
}

func (b *Builder) writeHistory(prompt *strings.Builder) {
	if len(b.history) == 0 {
		return
	}

	prompt.WriteString("<conversation>\n")
	for _, msg := range b.history {
		prompt.WriteString(msg.Role)
		prompt.WriteString(": ")
		prompt.WriteString(msg.Content)
		prompt.WriteString("\n")
	}
	prompt.WriteString("</conversation>\n\n")
}

func (b *Builder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("<question>\n")
	prompt.WriteString(b.question)
	prompt.WriteString("\n</question>\n\n")
	prompt.WriteString("Now answer the question for the players:")
}
