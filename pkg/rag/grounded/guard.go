package grounded

import "strings"

const (
	GreetingReply  = "Hello. Please upload a document or ask a question about it."
	NoContextReply = "I'm sorry, I don't have any document context to answer from. Please upload a document first."
)

var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true, "greeting": true, "namaste": true, "hola": true,
}

// Guard returns a canned reply when query must not reach the model.
func Guard(query, context string) (string, bool) {
	if greetings[strings.ToLower(strings.TrimSpace(query))] {
		return GreetingReply, true
	}
	if strings.TrimSpace(context) == "" {
		return NoContextReply, true
	}
	return "", false
}
