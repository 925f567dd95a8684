package llmanalyze

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// smartDecode tries three parsing strategies in order, exactly as the
// teacher's utils.SmartParse does: raw JSON, repaired JSON, then
// lenient Hjson. LLM output is frequently fenced in markdown code
// blocks, so that's stripped first.
func smartDecode(raw string, out interface{}) error {
	raw = cleanMarkdownFence(raw)
	if raw != "" && !looksLikeMarkdown(raw) {
		return fmt.Errorf("SMART_DECODE_FAILED: response did not parse as markdown or JSON")
	}

	if err := json.Unmarshal([]byte(raw), out); err == nil {
		return nil
	}

	if repaired, err := jsonrepair.RepairJSON(raw); err == nil {
		if err := json.Unmarshal([]byte(repaired), out); err == nil {
			return nil
		}
	}

	var generic interface{}
	if err := hjson.Unmarshal([]byte(raw), &generic); err == nil {
		if reJSON, err := json.Marshal(generic); err == nil {
			if err := json.Unmarshal(reJSON, out); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("SMART_DECODE_FAILED: all parsing strategies exhausted for response")
}
