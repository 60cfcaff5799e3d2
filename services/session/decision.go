package session

import (
	"encoding/json"
	"strings"
)

// decision is the parsed form of the language model's JSON envelope: either
// a tool call or a direct reply.
type decision struct {
	Tool  string            `json:"tool"`
	Args  map[string]string `json:"args"`
	Reply string            `json:"reply"`
}

// parseDecision extracts the envelope from raw model output. Models wrap
// JSON in markdown fences or preamble text often enough that we scan for
// the outermost object; anything unparseable is treated as a plain reply,
// which keeps a chatty model usable instead of failing the turn.
func parseDecision(raw string) decision {
	trimmed := strings.TrimSpace(raw)

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		var d decision
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &d); err == nil {
			if d.Tool != "" || d.Reply != "" {
				return d
			}
		}
	}

	return decision{Reply: trimmed}
}
