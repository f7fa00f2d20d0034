package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/system.txt
	systemRaw string

	//go:embed template/plan.txt
	planRaw string

	//go:embed template/narrate.txt
	narrateRaw string
)

// Set holds loaded prompt content.
type Set struct {
	System  string
	Plan    string
	Narrate string
}

// LoadSet returns the embedded prompts, trimmed.
func LoadSet() Set {
	return Set{
		System:  strings.TrimSpace(systemRaw),
		Plan:    strings.TrimSpace(planRaw),
		Narrate: strings.TrimSpace(narrateRaw),
	}
}
