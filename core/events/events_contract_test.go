package events

import (
	"testing"
	"time"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "call connecting", event: NewCallConnecting("id"), expected: KindCallConnecting},
		{name: "call connected", event: NewCallConnected("id"), expected: KindCallConnected},
		{name: "call ended", event: NewCallEnded("id", time.Second), expected: KindCallEnded},
		{name: "call failed", event: NewCallFailed("id", "reason"), expected: KindCallFailed},
		{name: "caller audio frame", event: NewCallerAudioFrame([]byte{1}), expected: KindCallerAudioFrame},
		{name: "caller fragment", event: NewCallerFragment("frag"), expected: KindCallerFragment},
		{name: "caller message", event: NewCallerMessage("text"), expected: KindCallerMessage},
		{name: "operator audio frame", event: NewOperatorAudioFrame([]byte{1}), expected: KindOperatorAudioFrame},
		{name: "operator speaking started", event: NewOperatorSpeakingStarted(), expected: KindOperatorSpeakingStarted},
		{name: "operator speaking ended", event: NewOperatorSpeakingEnded(), expected: KindOperatorSpeakingEnded},
		{name: "operator fragment", event: NewOperatorFragment("frag"), expected: KindOperatorFragment},
		{name: "operator message", event: NewOperatorMessage("text"), expected: KindOperatorMessage},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestOperatorSpeakingKindsAreDistinct(t *testing.T) {
	started := NewOperatorSpeakingStarted()
	ended := NewOperatorSpeakingEnded()

	if started.Kind() == ended.Kind() {
		t.Fatalf("expected speaking started and speaking ended kinds to differ, both were %q", started.Kind())
	}
}
