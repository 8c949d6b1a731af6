package ai

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// parseRanking decodes the provider's JSON response. Markdown fences are
// stripped first; malformed entries are dropped rather than failing the
// whole batch; the result is truncated to topN.
func parseRanking(raw string, topN int) []RankedCandidate {
	cleaned := cleanJSONBlock(raw)
	if !gjson.Valid(cleaned) {
		return nil
	}

	entries := gjson.Get(cleaned, "ranked")
	if !entries.IsArray() {
		return nil
	}

	var ranked []RankedCandidate
	for _, entry := range entries.Array() {
		id, ok := consultantID(entry.Get("consultantId"))
		if !ok {
			continue
		}
		score := entry.Get("score")
		if !score.Exists() {
			continue
		}

		var reasons []string
		for _, r := range entry.Get("reasons").Array() {
			if text := strings.TrimSpace(r.String()); text != "" {
				reasons = append(reasons, text)
			}
		}

		ranked = append(ranked, RankedCandidate{
			ConsultantID: id,
			Score:        clampScore(int(score.Int())),
			Reasons:      reasons,
		})
		if len(ranked) == topN {
			break
		}
	}
	return ranked
}

// consultantID accepts both string and numeric ids; anything that does
// not parse to a positive integer marks the entry malformed.
func consultantID(v gjson.Result) (int64, bool) {
	var id int64
	switch v.Type {
	case gjson.String:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
		if err != nil {
			return 0, false
		}
		id = parsed
	case gjson.Number:
		id = v.Int()
	default:
		return 0, false
	}
	if id <= 0 {
		return 0, false
	}
	return id, true
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// cleanJSONBlock removes markdown code-fence artifacts. Models often wrap
// JSON in ```json ... ``` blocks even when instructed not to.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}
