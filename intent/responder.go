package intent

import (
	"math/rand"
	"time"
)

// Fixed company facts, returned verbatim for their intents.
var factResponses = map[Intent]string{
	FactCEO:            "The CEO of SM Technology is MD. Monir Hossain, who is also the CEO of the parent company, bdCalling IT.",
	FactWebPricing:     "Website development starts at $2,500, depending on project requirements.",
	FactAboutAssistant: "I am an assistant developed to help you with your questions related to the portfolio, client feedback, and the management team of SM Technology.",
	FactDigitalMarketing: "Digital marketing refers to the promotion of products or services using digital channels such as search engines, social media, email, and websites. " +
		"It involves tactics such as search engine optimization, content marketing, email marketing, social media marketing, and online advertising to reach and engage with a target audience.",
}

// Reply pools for conversational intents. The random pick only varies the
// phrasing; every entry is an acceptable answer.
var replyPools = map[Intent][]string{
	Greeting: {
		"Hello! How can I assist you today with SM Technology solutions?",
		"Hi there! I'm your SM Technology AI assistant. What can I do for you?",
		"Greetings! I'm here to help with your AI, mobile app, or web development needs.",
		"Hello! How may I help you with our technology solutions today?",
		"Hi! I'm your SM Technology virtual assistant. How can I support you?",
	},
	HelpRequest: {
		"I'd be happy to help! Please tell me what you need assistance with.",
		"I'm here to help you. Could you please specify what you're looking for?",
		"I'm ready to assist you. What specifically do you need help with?",
		"Sure thing! I'm here to help with your questions about SM Technology solutions. What would you like to know?",
		"I'm at your service. Please let me know how I can assist you with our technology services.",
	},
	Appreciation: {
		"Thank you for your kind words! I'm glad I could be of assistance.",
		"I appreciate your feedback! Is there anything else I can help you with?",
		"Thank you! I'm here to make your experience with SM Technology as smooth as possible.",
		"You're welcome! Feel free to reach out if you need any further assistance.",
		"I'm delighted to hear that! Don't hesitate to ask if you have more questions.",
	},
}

// Responder produces canned responses. The random source is injected so
// tests can pin selection without weakening the any-of-the-pool contract.
type Responder struct {
	rng *rand.Rand
}

func NewResponder(rng *rand.Rand) *Responder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Responder{rng: rng}
}

// Respond returns the canned response for a classified intent. ok is false
// for None, meaning the query needs retrieval.
func (r *Responder) Respond(it Intent) (string, bool) {
	if text, ok := factResponses[it]; ok {
		return text, true
	}
	if pool, ok := replyPools[it]; ok {
		return pool[r.rng.Intn(len(pool))], true
	}
	return "", false
}

// ResponsePool returns a copy of the reply pool for an intent, or the
// single fixed response for fact intents. Callers use it to check pool
// membership; an unknown intent yields nil.
func ResponsePool(it Intent) []string {
	if text, ok := factResponses[it]; ok {
		return []string{text}
	}
	pool, ok := replyPools[it]
	if !ok {
		return nil
	}
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}
