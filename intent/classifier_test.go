package intent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smtech/assistant/intent"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  intent.Intent
	}{
		{"ceo", "Who is the CEO?", intent.FactCEO},
		{"founder", "tell me about your founder", intent.FactCEO},
		{"ceo padded", "   WHO IS THE CEO   ", intent.FactCEO},
		{"web pricing", "What is the cost of website development?", intent.FactWebPricing},
		{"web pricing rate", "your rate for a web project", intent.FactWebPricing},
		{"price without web", "what is the price of consulting", intent.None},
		{"about assistant", "who are you exactly?", intent.FactAboutAssistant},
		{"capabilities", "what can you do", intent.FactAboutAssistant},
		{"digital marketing", "Do you offer digital marketing?", intent.FactDigitalMarketing},
		{"greeting exact", "hi", intent.Greeting},
		{"greeting prefix", "hello there, nice to meet you", intent.Greeting},
		{"greeting multiword", "good morning", intent.Greeting},
		{"greeting uppercase", "HEY", intent.Greeting},
		{"help", "can you help me with something", intent.HelpRequest},
		{"assistance", "I need assistance with my account", intent.HelpRequest},
		{"appreciation", "thanks, that was useful", intent.Appreciation},
		{"appreciation great", "great answer", intent.Appreciation},
		{"none", "what is your inventory tracking module", intent.None},
		{"empty", "   ", intent.None},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, intent.Classify(tc.query))
		})
	}
}

func TestClassifyGreetingRequiresWordBoundary(t *testing.T) {
	// "history" contains "hi" but must not classify as a greeting.
	assert.Equal(t, intent.None, intent.Classify("history"))
	assert.Equal(t, intent.None, intent.Classify("hightlights of your work"))
	assert.Equal(t, intent.Greeting, intent.Classify("hi history buffs"))
}

func TestClassifyFactsTakePrecedenceOverGreetings(t *testing.T) {
	// A query that both greets and asks about pricing is a pricing query.
	assert.Equal(t, intent.FactWebPricing, intent.Classify("hi, what does website development cost?"))
	assert.Equal(t, intent.FactCEO, intent.Classify("hello, who is the founder?"))
}

func TestClassifyHelpBeatsAppreciation(t *testing.T) {
	// "help me" is a help request even when phrased gratefully.
	assert.Equal(t, intent.HelpRequest, intent.Classify("thanks, but first help me with pricing docs"))
}

func TestIsFact(t *testing.T) {
	assert.True(t, intent.FactCEO.IsFact())
	assert.True(t, intent.FactDigitalMarketing.IsFact())
	assert.False(t, intent.Greeting.IsFact())
	assert.False(t, intent.None.IsFact())
}
