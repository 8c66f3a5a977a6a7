// Package badges evaluates the achievement badges shown on a user's profile.
// Rules are plain threshold checks over chat counters.
package badges

import "strings"

// ReviewWordThreshold is the conversation length, in words, after which
// the client prompts for a review of the match.
const ReviewWordThreshold = 100

// Message is the minimal view of a chat message the rules need.
type Message struct {
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
}

// Ratings holds the star ratings a user received from matches.
type Ratings struct {
	Communication  []int `json:"communication"`
	Respectfulness []int `json:"respectfulness"`
	Authenticity   []int `json:"authenticity"`
}

// Stats is the input to badge evaluation.
type Stats struct {
	UserID        string               `json:"user_id" binding:"required"`
	TotalMatches  int                  `json:"total_matches"`
	Conversations map[string][]Message `json:"conversations"`
	Ratings       Ratings              `json:"ratings"`
	Earned        []string             `json:"earned"`
}

// Badge is a catalogue entry together with its evaluation result.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement string `json:"requirement"`
	Earned      bool   `json:"earned"`
}

type rule struct {
	Badge
	check func(s Stats, t totals) bool
}

type totals struct {
	messages int
	words    int
}

var catalogue = []rule{
	{
		Badge: Badge{ID: "icebreaker", Name: "Icebreaker Pro", Icon: "🎯",
			Description: "Send the first message in 3+ different chats", Requirement: "Start 3 conversations"},
		check: func(s Stats, t totals) bool { return t.messages >= 3 && len(s.Conversations) >= 3 },
	},
	{
		Badge: Badge{ID: "respectful", Name: "Respectful Responder", Icon: "🌟",
			Description: "Receive an average rating of 4+ stars in Respectfulness from 2+ reviews",
			Requirement: "4+ stars in Respectfulness (2+ reviews)"},
		check: func(s Stats, _ totals) bool {
			r := s.Ratings.Respectfulness
			return len(r) >= 2 && average(r) >= 4
		},
	},
	{
		Badge: Badge{ID: "conversationalist", Name: "Great Conversationalist", Icon: "💬",
			Description: "Exchange 1000+ words in conversations with your matches", Requirement: "Exchange 1000+ words total"},
		check: func(_ Stats, t totals) bool { return t.words >= 1000 },
	},
	{
		Badge: Badge{ID: "popular", Name: "Popular Match", Icon: "🔥",
			Description: "Get matched with 5+ different people", Requirement: "Get 5+ matches"},
		check: func(s Stats, _ totals) bool { return s.TotalMatches >= 5 },
	},
	{
		Badge: Badge{ID: "dry_texter", Name: "Dry Texter", Icon: "🏜️",
			Description: "Send 3 consecutive one-word replies in a single conversation",
			Requirement: "Send 3 one-word messages in a row"},
		check: func(s Stats, _ totals) bool { return dryTexter(s) },
	},
	{
		// Needs match timestamps, which are not tracked.
		Badge: Badge{ID: "early_bird", Name: "Early Bird", Icon: "🐦",
			Description: "Send your first message within 1 hour of matching", Requirement: "Quick first message (within 1 hour)"},
		check: never,
	},
	{
		Badge: Badge{ID: "social_butterfly", Name: "Social Butterfly", Icon: "🦋",
			Description: "Have active conversations with 10+ matches simultaneously", Requirement: "Active chats with 10+ matches"},
		check: func(s Stats, _ totals) bool { return len(s.Conversations) >= 10 },
	},
	{
		Badge: Badge{ID: "heart_breaker", Name: "Heart Breaker", Icon: "💔",
			Description: "Receive 20+ likes in a single day", Requirement: "20+ likes in one day"},
		check: never,
	},
	{
		Badge: Badge{ID: "storyteller", Name: "Storyteller", Icon: "📚",
			Description: "Send messages with an average of 50+ words each", Requirement: "Average 50+ words per message"},
		check: func(_ Stats, t totals) bool { return t.messages > 0 && t.words/t.messages >= 50 },
	},
	{
		Badge: Badge{ID: "loyal_user", Name: "Loyal User", Icon: "👑",
			Description: "Use the app for 30 consecutive days", Requirement: "Use app for 30 days straight"},
		check: never,
	},
	{
		Badge: Badge{ID: "perfect_match", Name: "Perfect Match", Icon: "💕",
			Description: "Have a conversation that exceeds 500 messages with one person", Requirement: "500+ messages with one match"},
		check: func(s Stats, _ totals) bool {
			for _, msgs := range s.Conversations {
				if len(msgs) >= 500 {
					return true
				}
			}
			return false
		},
	},
}

// Evaluate returns the full catalogue in display order with Earned set.
func Evaluate(s Stats) []Badge {
	t := count(s)
	out := make([]Badge, 0, len(catalogue))
	for _, r := range catalogue {
		b := r.Badge
		b.Earned = r.check(s, t)
		out = append(out, b)
	}
	return out
}

// NewlyEarned returns earned badges whose id is not in previous.
func NewlyEarned(previous []string, evaluated []Badge) []Badge {
	seen := make(map[string]struct{}, len(previous))
	for _, id := range previous {
		seen[id] = struct{}{}
	}
	var out []Badge
	for _, b := range evaluated {
		if !b.Earned {
			continue
		}
		if _, ok := seen[b.ID]; ok {
			continue
		}
		out = append(out, b)
	}
	return out
}

// ReviewDue reports whether a conversation is long enough to ask for a review.
func ReviewDue(msgs []Message) bool {
	words := 0
	for _, m := range msgs {
		words += wordCount(m.Text)
	}
	return words >= ReviewWordThreshold
}

// count tallies messages and words across all conversations.
func count(s Stats) totals {
	var t totals
	for _, msgs := range s.Conversations {
		for _, m := range msgs {
			t.messages++
			t.words += wordCount(m.Text)
		}
	}
	return t
}

func dryTexter(s Stats) bool {
	for _, msgs := range s.Conversations {
		streak := 0
		for _, m := range msgs {
			if m.SenderID != s.UserID {
				continue
			}
			if wordCount(m.Text) == 1 {
				streak++
				if streak == 3 {
					return true
				}
			} else {
				streak = 0
			}
		}
	}
	return false
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func average(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func never(Stats, totals) bool { return false }
