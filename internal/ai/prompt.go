package ai

import (
	"fmt"
	"strings"
)

const rankingInstruction = `You are an experienced staffing coordinator ranking consultants for a customer's project request.

Rank the candidates below against the project description. Requirements marked MUST outrank requirements marked SHOULD. For every score, cite concrete evidence from the candidate's CV; never invent experience that is not in the CV.

Respond with a single JSON object and nothing else, of exactly this shape:
{"projectRequestId": "%s", "ranked": [{"consultantId": "<id>", "score": <integer 0-100>, "reasons": ["<short evidence-backed reason>", "..."]}]}

Include at most %d candidates, highest score first. Do not wrap the JSON in markdown fences.`

// buildRankingParts assembles the single batched request: the instruction
// block, the project description, and one block per candidate referencing
// the uploaded CV document (or embedding the CV text inline when no
// reference is available).
func buildRankingParts(projectRequestID, projectDescription string, candidates []BatchCandidate, topN int) []Part {
	parts := make([]Part, 0, 2+2*len(candidates))
	parts = append(parts, Part{Text: fmt.Sprintf(rankingInstruction, projectRequestID, topN)})
	parts = append(parts, Part{Text: "PROJECT REQUEST:\n" + strings.TrimSpace(projectDescription)})

	for _, c := range candidates {
		header := fmt.Sprintf("CANDIDATE %s (%s):", formatConsultantID(c.ConsultantID), c.Name)
		if c.ArtifactRef != "" {
			parts = append(parts, Part{Text: header + " see attached CV document."})
			parts = append(parts, Part{FileURI: c.ArtifactRef, MIMEType: "text/plain"})
			continue
		}
		parts = append(parts, Part{Text: header + "\n" + strings.TrimSpace(c.CVText)})
	}
	return parts
}
