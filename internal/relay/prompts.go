package relay

const (
	reviewSystemPrompt = "Act like a dating app chat reviewer. Give some feedback on the conversation made by the user. " +
		"The review needs to sound sarcastic and brutally honest. Keep the feedback short."

	suggestSystemPrompt = "You help someone on a dating app keep a chat going. You get the last two messages of a conversation: " +
		"person_one is the user, person_two is their match. Suggest 3 short, natural replies the user could send next."

	suggestListHint   = " Answer with a numbered list and nothing else."
	suggestSchemaHint = " Answer with a JSON object of the form {\"suggestions\": [\"...\"]}."

	replySystemPrompt = "You are playing the role of a person who just swiped right on me. " +
		"I'll send you texts, and you'll respond to them like a regular person."
)

// FallbackReview is returned by Review whenever the provider cannot answer.
const FallbackReview = "Something went wrong. Couldn't get a review."

// DefaultSuggestions are returned by Suggest whenever the provider cannot answer.
var DefaultSuggestions = []string{
	"Hey! How's your day going?",
	"What's something fun you did recently?",
	"Got any weekend plans?",
	"You seem interesting! Tell me more about you.",
	"What's your favorite food?",
}

// CannedReplies stand in for the match when the provider cannot answer.
var CannedReplies = []string{
	"That's really interesting!",
	"I totally agree with you!",
	"Tell me more about that!",
	"Haha, that's funny!",
	"I love that idea!",
	"That sounds amazing!",
	"I've never thought about it that way.",
	"You seem really thoughtful!",
	"Thanks for sharing that with me!",
}
