package critic

import "testing"

func TestParseVerdictReadsWellFormedLayout(t *testing.T) {
	verdict := ParseVerdict(`SCORE: 7
ISSUES:
- did not ask about injuries
- spoke too fast
LESSONS:
- Ask about injuries before logistics
- Slow down when the caller sounds panicked`)

	if verdict.Score != 7 {
		t.Fatalf("expected score 7, got %d", verdict.Score)
	}
	if len(verdict.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %v", len(verdict.Issues), verdict.Issues)
	}
	if len(verdict.Lessons) != 2 {
		t.Fatalf("expected 2 lessons, got %d: %v", len(verdict.Lessons), verdict.Lessons)
	}
	if verdict.Lessons[0] != "Ask about injuries before logistics" {
		t.Fatalf("unexpected first lesson: %q", verdict.Lessons[0])
	}
}

func TestParseVerdictDefaultsMissingScoreToNeutral(t *testing.T) {
	verdict := ParseVerdict(`ISSUES:
- something went wrong
LESSONS:
- Do better`)

	if verdict.Score != NeutralScore {
		t.Fatalf("expected neutral score %d when SCORE is absent, got %d", NeutralScore, verdict.Score)
	}
}

func TestParseVerdictToleratesMarkdownAndCaseDrift(t *testing.T) {
	verdict := ParseVerdict(`**Score:** 9/10
**Issues:**
* minor hesitation
**Lessons:**
1. Confirm the callback number`)

	if verdict.Score != 9 {
		t.Fatalf("expected score 9 through markdown noise, got %d", verdict.Score)
	}
	if len(verdict.Issues) != 1 || verdict.Issues[0] != "minor hesitation" {
		t.Fatalf("unexpected issues: %v", verdict.Issues)
	}
	if len(verdict.Lessons) != 1 || verdict.Lessons[0] != "Confirm the callback number" {
		t.Fatalf("unexpected lessons: %v", verdict.Lessons)
	}
}

func TestParseVerdictScoreOnItsOwnLine(t *testing.T) {
	verdict := ParseVerdict("SCORE:\n8\nLESSONS:\n- Keep it up")

	if verdict.Score != 8 {
		t.Fatalf("expected score 8 from the following line, got %d", verdict.Score)
	}
}

func TestParseVerdictClampsScoreToScale(t *testing.T) {
	if got := ParseVerdict("SCORE: 42").Score; got != 10 {
		t.Fatalf("expected out-of-scale score to clamp at 10, got %d", got)
	}
}

func TestParseVerdictNeverFailsOnGarbage(t *testing.T) {
	for _, raw := range []string{"", "complete nonsense", "SCORE: excellent!", "LESSONS:", ":::::"} {
		verdict := ParseVerdict(raw)
		if verdict.Score != NeutralScore {
			t.Fatalf("input %q: expected neutral score, got %d", raw, verdict.Score)
		}
		if len(verdict.Lessons) != 0 {
			t.Fatalf("input %q: expected no lessons, got %v", raw, verdict.Lessons)
		}
	}
}

func TestFormatTranscriptRendersOneLinePerMessage(t *testing.T) {
	formatted := FormatTranscript([]Message{
		{Role: "caller", Text: "my roof is gone"},
		{Role: "operator", Text: "I understand, are you safe?"},
	})

	expected := "caller: my roof is gone\noperator: I understand, are you safe?\n"
	if formatted != expected {
		t.Fatalf("unexpected transcript rendering:\n%q", formatted)
	}
}
