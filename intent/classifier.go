// Package intent classifies raw queries into conversational categories so
// small talk and fixed factual lookups are answered without retrieval.
package intent

import (
	"regexp"
	"strings"
)

// Intent is the conversational category assigned to a query. None means no
// rule matched and the query should be answered through retrieval.
type Intent string

const (
	None                 Intent = ""
	Greeting             Intent = "greeting"
	HelpRequest          Intent = "help_request"
	Appreciation         Intent = "appreciation"
	FactCEO              Intent = "ceo"
	FactWebPricing       Intent = "web_development_price"
	FactAboutAssistant   Intent = "about_assistant"
	FactDigitalMarketing Intent = "digital_marketing"
)

// IsFact reports whether the intent maps to a fixed factual response.
func (i Intent) IsFact() bool {
	switch i {
	case FactCEO, FactWebPricing, FactAboutAssistant, FactDigitalMarketing:
		return true
	}
	return false
}

var (
	ceoPattern   = regexp.MustCompile(`\b(ceo|founder|owner|leader)\b`)
	pricePattern = regexp.MustCompile(`\b(price|cost|rate|fee)\b`)
	webPattern   = regexp.MustCompile(`\b(web|website|development)\b`)
)

var greetings = []string{
	"hi", "hello", "hey", "greetings", "good morning", "good afternoon",
	"good evening", "howdy", "what's up", "hola", "namaste",
}

var helpPhrases = []string{
	"can you help", "help me", "i need help", "assist me",
	"need assistance", "could you help", "support me",
}

var aboutPhrases = []string{
	"who are you", "what are you", "tell me about yourself",
	"what's your name", "what is your name", "what can you do",
}

var appreciationPhrases = []string{
	"thank", "thanks", "appreciate", "helpful", "good job",
	"well done", "great", "awesome", "excellent",
}

type rule struct {
	intent Intent
	match  func(string) bool
}

// Rules are evaluated in order and the first match wins; specific facts
// take precedence over greetings so "hi, what does web development cost?"
// is answered as a pricing question.
var rules = []rule{
	{FactCEO, ceoPattern.MatchString},
	{FactWebPricing, func(q string) bool {
		return pricePattern.MatchString(q) && webPattern.MatchString(q)
	}},
	{FactAboutAssistant, containsAnyOf(aboutPhrases)},
	{FactDigitalMarketing, func(q string) bool {
		return strings.Contains(q, "digital marketing")
	}},
	{Greeting, isGreeting},
	{HelpRequest, containsAnyOf(helpPhrases)},
	{Appreciation, containsAnyOf(appreciationPhrases)},
}

// Classify assigns exactly one Intent to a raw query. Matching is
// case-insensitive and ignores surrounding whitespace.
func Classify(query string) Intent {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return None
	}
	for _, r := range rules {
		if r.match(q) {
			return r.intent
		}
	}
	return None
}

// Greetings match exactly or as a prefix followed by a space, so "history"
// does not match "hi" but "hi there" does.
func isGreeting(q string) bool {
	for _, greeting := range greetings {
		if q == greeting || strings.HasPrefix(q, greeting+" ") {
			return true
		}
	}
	return false
}

func containsAnyOf(phrases []string) func(string) bool {
	return func(q string) bool {
		for _, phrase := range phrases {
			if strings.Contains(q, phrase) {
				return true
			}
		}
		return false
	}
}
