package critic

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	// NeutralScore is assumed when the evaluation response carries no
	// parseable score.
	NeutralScore = 5
	maxScore     = 10
)

// Verdict is the structured result of evaluating one finished call.
type Verdict struct {
	// Score rates the operator's performance on a 0-10 scale.
	Score int
	// Issues lists observed problems with the call.
	Issues []string
	// Lessons lists standalone imperative corrections to feed into future
	// call instructions.
	Lessons []string
	// Timestamp records when the verdict was parsed.
	Timestamp time.Time
}

// ParseVerdict reads the tagged-section evaluation layout:
//
//	SCORE: 7
//	ISSUES:
//	- did not confirm the address
//	LESSONS:
//	- Confirm the address twice
//
// The parser is deliberately optimistic: missing or malformed sections
// default (neutral score, empty lists) and never produce an error. External
// model formatting drift must not break the pipeline.
func ParseVerdict(raw string) Verdict {
	verdict := Verdict{Score: NeutralScore, Timestamp: time.Now()}

	section := ""
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch header, rest := splitSectionHeader(line); header {
		case "SCORE":
			section = header
			if score, ok := parseScore(rest); ok {
				verdict.Score = score
			}
			continue
		case "ISSUES", "LESSONS":
			section = header
			line = rest
			if line == "" {
				continue
			}
		}

		item := trimListPrefix(line)
		if item == "" {
			continue
		}

		switch section {
		case "SCORE":
			if score, ok := parseScore(item); ok {
				verdict.Score = score
			}
			section = ""
		case "ISSUES":
			verdict.Issues = append(verdict.Issues, item)
		case "LESSONS":
			verdict.Lessons = append(verdict.Lessons, item)
		}
	}

	return verdict
}

// splitSectionHeader recognizes "SCORE: 7" style headers, tolerating
// markdown emphasis and case drift. It returns the canonical header name
// and whatever followed the colon.
func splitSectionHeader(line string) (header, rest string) {
	cleaned := strings.Trim(line, "*#_ ")
	name, rest, found := strings.Cut(cleaned, ":")
	if !found {
		return "", line
	}

	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "SCORE":
		return "SCORE", strings.TrimSpace(strings.Trim(rest, "*_ "))
	case "ISSUES":
		return "ISSUES", strings.TrimSpace(strings.Trim(rest, "*_ "))
	case "LESSONS":
		return "LESSONS", strings.TrimSpace(strings.Trim(rest, "*_ "))
	}
	return "", line
}

// parseScore extracts the first integer in the text and clamps it to the
// scale.
func parseScore(text string) (int, bool) {
	start := -1
	for i, r := range text {
		if unicode.IsDigit(r) {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	end := start
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}

	score, err := strconv.Atoi(text[start:end])
	if err != nil {
		return 0, false
	}

	if score < 0 {
		score = 0
	} else if score > maxScore {
		score = maxScore
	}
	return score, true
}

func trimListPrefix(line string) string {
	line = strings.TrimLeft(line, "-*• \t")
	// Numbered lists: "1. item" / "2) item"
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		line = line[i+1:]
	}
	return strings.TrimSpace(line)
}
