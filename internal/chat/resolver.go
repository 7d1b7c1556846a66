package chat

import (
	"math/rand/v2"
	"strings"
)

// Rule identifies which entry of the rule table produced a reply.
type Rule string

const (
	RuleGreeting   Rule = "greeting"
	RuleOneDay     Rule = "one_day"
	RuleFood       Rule = "food"
	RuleHiddenGems Rule = "hidden_gems"
	RuleBudget     Rule = "budget"
	RuleFamily     Rule = "family"
	RuleSafety     Rule = "safety"
	RuleDefault    Rule = "default"

	// RuleError marks the apology substituted for a failed backend call.
	RuleError Rule = "error"
)

// Generic prompts used when a destination-specific rule has no entry for the
// active destination.
const (
	OneDayPrompt     = "I'd love to help you plan a one-day itinerary! Which destination are you visiting?"
	FoodPrompt       = "I can recommend amazing local food! Which destination are you visiting?"
	HiddenGemsPrompt = "I know some great off-the-beaten-path spots! Which destination interests you?"
)

// Responses is the canned rule-table data supplied by the content source.
type Responses struct {
	Greetings      []string          `yaml:"greetings" validate:"min=1,dive,required"`
	OneDay         map[string]string `yaml:"one_day"`
	BestFood       map[string]string `yaml:"best_food"`
	HiddenGems     map[string]string `yaml:"hidden_gems"`
	BudgetTips     string            `yaml:"budget_tips" validate:"required"`
	FamilyFriendly string            `yaml:"family_friendly" validate:"required"`
	Safety         string            `yaml:"safety" validate:"required"`
	Default        string            `yaml:"default" validate:"required"`
}

// RandomSource picks an index in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Reply is a resolved answer together with the rule that produced it.
type Reply struct {
	Rule Rule
	Text string
}

var greetingWords = []string{"hi", "hello", "hey", "greetings"}

// Resolver maps an utterance to exactly one canned reply. Rules are checked
// in a fixed order and the first match wins.
type Resolver struct {
	resp Responses
	rnd  RandomSource
}

// NewResolver constructs a Resolver. A nil rnd uses the goroutine-safe
// global generator.
func NewResolver(resp Responses, rnd RandomSource) *Resolver {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Resolver{resp: resp, rnd: rnd}
}

// Resolve returns the reply text for utterance. An empty destinationID means
// no destination is active.
func (r *Resolver) Resolve(utterance, destinationID string) string {
	return r.Match(utterance, destinationID).Text
}

// Match is Resolve plus the name of the rule that fired.
func (r *Resolver) Match(utterance, destinationID string) Reply {
	q := strings.ToLower(strings.TrimSpace(utterance))

	switch {
	case isGreeting(q) && len(r.resp.Greetings) > 0:
		return Reply{RuleGreeting, r.resp.Greetings[r.rnd.IntN(len(r.resp.Greetings))]}
	case containsAny(q, "one day", "1 day"):
		return Reply{RuleOneDay, pick(r.resp.OneDay, destinationID, OneDayPrompt)}
	case containsAny(q, "food", "eat", "restaurant"):
		return Reply{RuleFood, pick(r.resp.BestFood, destinationID, FoodPrompt)}
	case containsAny(q, "hidden", "secret", "local"):
		return Reply{RuleHiddenGems, pick(r.resp.HiddenGems, destinationID, HiddenGemsPrompt)}
	case containsAny(q, "budget", "cheap", "affordable"):
		return Reply{RuleBudget, r.resp.BudgetTips}
	case containsAny(q, "family", "kid", "children"):
		return Reply{RuleFamily, r.resp.FamilyFriendly}
	case containsAny(q, "safe", "danger", "security"):
		return Reply{RuleSafety, r.resp.Safety}
	}
	return Reply{RuleDefault, r.resp.Default}
}

// isGreeting reports whether q starts with a greeting word. The word must end
// at a non-letter so "hidden gems" is not a greeting.
func isGreeting(q string) bool {
	for _, w := range greetingWords {
		if !strings.HasPrefix(q, w) {
			continue
		}
		rest := q[len(w):]
		if rest == "" || !isLetter(rest[0]) {
			return true
		}
	}
	return false
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}

func containsAny(q string, cues ...string) bool {
	for _, c := range cues {
		if strings.Contains(q, c) {
			return true
		}
	}
	return false
}

func pick(table map[string]string, destinationID, fallback string) string {
	if destinationID == "" {
		return fallback
	}
	if v, ok := table[destinationID]; ok && v != "" {
		return v
	}
	return fallback
}
