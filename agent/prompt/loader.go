package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/router.txt
	routerRaw string

	//go:embed template/conversation.txt
	conversationRaw string

	//go:embed template/search.txt
	searchRaw string

	//go:embed template/confirm.txt
	confirmRaw string
)

// PromptSet holds loaded prompt content. Router is an eino FString
// template; the rest are rendered with Render.
type PromptSet struct {
	Router       string
	Conversation string
	Search       string
	Confirm      string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// Safe to call concurrently; the embed is compile-time.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Router:       strings.TrimSpace(routerRaw),
		Conversation: strings.TrimSpace(conversationRaw),
		Search:       strings.TrimSpace(searchRaw),
		Confirm:      strings.TrimSpace(confirmRaw),
	}
}

// Render substitutes {name} placeholders from vars. Unknown placeholders
// are left as-is, so literal JSON braces in templates survive.
func Render(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
