package service

import "strings"

// ExtractionSystemPrompt asks the model for the room and building slots only
const ExtractionSystemPrompt = `Extract ONLY numeric room and building numbers from the query.
Return JSON format: {"room": "...", "building": "..."}.
Use an empty string for a number that is not in the query. Do not add any other text.`

// PersonaSystemPrompt drives small-talk replies
const PersonaSystemPrompt = `You are Poli, a friendly and helpful AI assistant for Lviv Polytechnic University.
User is chatting with you.
Be polite, concise (1-2 sentences), and encourage them to ask about navigation.
Do NOT invent room numbers.
Current context: Chatting about general things.`

// formatUserMessage prepends the conversation so far to the user's message
func formatUserMessage(history, message string) string {
	if strings.TrimSpace(history) == "" {
		return message
	}
	return "Previous conversation:\n" + history + "\n" + message
}
