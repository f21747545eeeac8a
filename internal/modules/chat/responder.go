package chat

import (
	"context"
	"fmt"
	"strings"
)

// Responder produces the assistant side of a conversation. Implementations
// may call an external model; failures surface as ErrAssistantUnavailable to
// clients.
type Responder interface {
	Reply(ctx context.Context, topic string, history []*Message, userMessage string) (string, error)
}

const generalDisclaimer = "This information is general guidance, not a diagnosis. " +
	"Please consult a licensed clinician for medical advice."

const emergencyDisclaimer = "If this is a medical emergency, stop and contact your " +
	"local emergency services immediately."

var emergencyKeywords = []string{
	"chest pain", "can't breathe", "cannot breathe", "unconscious",
	"severe bleeding", "overdose", "suicide", "stroke", "heart attack",
}

var topicGuidance = map[string]string{
	"fever": "Rest, stay hydrated and monitor your temperature. Seek care if a fever " +
		"exceeds 39°C, lasts more than three days, or is accompanied by a stiff neck or rash.",
	"headache": "Most headaches respond to rest, hydration and over-the-counter pain relief. " +
		"A sudden, severe headache unlike any you have had before warrants urgent evaluation.",
	"cough": "A cough from a common cold usually settles within two weeks. See a clinician " +
		"if you cough up blood, have chest pain, or symptoms persist beyond three weeks.",
	"rash": "Keep the area clean and avoid scratching. Photograph the rash so a clinician " +
		"can track changes, and seek care if it spreads rapidly or blisters.",
}

// CannedResponder is a deterministic placeholder assistant. It pattern-matches
// a handful of common complaints and always appends a safety disclaimer.
type CannedResponder struct{}

func NewCannedResponder() *CannedResponder {
	return &CannedResponder{}
}

func (r *CannedResponder) Reply(_ context.Context, topic string, _ []*Message, userMessage string) (string, error) {
	lower := strings.ToLower(userMessage)

	for _, kw := range emergencyKeywords {
		if strings.Contains(lower, kw) {
			return fmt.Sprintf("%s\n\n%s", emergencyDisclaimer, generalDisclaimer), nil
		}
	}

	for keyword, guidance := range topicGuidance {
		if strings.Contains(lower, keyword) {
			return fmt.Sprintf("%s\n\n%s", guidance, generalDisclaimer), nil
		}
	}

	reply := "Thank you for sharing. Could you describe when the symptoms started, " +
		"how severe they are, and anything that makes them better or worse?"
	if topic != "" {
		reply = fmt.Sprintf("Regarding %q: %s", topic, reply)
	}
	return fmt.Sprintf("%s\n\n%s", reply, generalDisclaimer), nil
}
