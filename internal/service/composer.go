package service

import (
	"strings"

	"poli-assistant/internal/model"
)

// Fixed replies
const (
	EmptyInputReply         = "Please type your message."
	NavigationStartedReply  = "Navigation started! Have a wonderful trip! 🗺️"
	NavigationDeclinedReply = "No problem! Let me know if you need anything else."
	FallbackReply           = "Hello! I'm Poli, ready to help you find rooms."
)

// ResponseKind selects a family of paraphrased replies
type ResponseKind int

const (
	AwaitingBuilding ResponseKind = iota
	RoomNotFound
	ClarifyRequest
	BuildingNotSupported
)

const identityTemplate = "I'm Poli, your AI assistant for Lviv Polytechnic! I can help you navigate Building {supported}. Just ask me about any room."

var responseTemplates = map[ResponseKind][]string{
	AwaitingBuilding: {
		"Sure! I see you're looking for Room {room}. Which building should I check?",
		"Got it — Room {room}. Could you tell me which building it's in?",
		"Room {room} noted! Just need the building number to find it for you.",
	},
	RoomNotFound: {
		"I couldn't find Room {room} in Building {building}. Could you double-check the numbers?",
		"Hmm, Room {room} in Building {building} doesn't seem to exist in my database.",
		"No match for Room {room}, Building {building}. Maybe check the room and building numbers?",
	},
	ClarifyRequest: {
		"I'm not quite sure what you're looking for. Could you specify a room and building?",
		"To help you navigate, I'll need a room number and building.",
		"Which room and building are you trying to find?",
	},
	BuildingNotSupported: {
		"Currently, I can only help with Building {supported} (floors 1 and 2). Building {building} is not available in our system.",
		"I'm sorry, but right now I only have information for Building {supported} with floors 1 and 2. Building {building} is not supported.",
	},
}

var foundTemplates = []string{
	"Found it! {name} (Room {number}) is located at {street}. It is in Building {building}, on the {floor} floor, {wing} wing. Would you like directions?",
	"Room {number} is in the {wing} wing on the {floor} floor. The building address is {street}. Should I guide you?",
	"To find {name}, go to {street}, Building {building}. Head to the {floor} floor, {wing} wing. Ready to start navigation?",
	"That room is at {street} in Building {building}. Look for the {wing} wing on the {floor} floor. Need a map?",
}

// ResponseComposer renders user-facing replies, picking a paraphrase at random
type ResponseComposer struct {
	chooser   Chooser
	supported string // the one building the assistant can navigate
}

// NewResponseComposer creates a composer. A nil chooser seeds from the clock and an
// empty supportedBuilding means "1".
func NewResponseComposer(chooser Chooser, supportedBuilding string) *ResponseComposer {
	if chooser == nil {
		chooser = NewChooser(0)
	}
	if supportedBuilding == "" {
		supportedBuilding = "1"
	}
	return &ResponseComposer{chooser: chooser, supported: supportedBuilding}
}

// Identity introduces the assistant
func (c *ResponseComposer) Identity() string {
	return strings.ReplaceAll(identityTemplate, "{supported}", c.supported)
}

// Compose renders one of the paraphrases of kind
func (c *ResponseComposer) Compose(kind ResponseKind, room, building string) string {
	templates, ok := responseTemplates[kind]
	if !ok {
		return "Please provide more details."
	}
	r := strings.NewReplacer("{room}", room, "{building}", building, "{supported}", c.supported)
	return r.Replace(c.pick(templates))
}

// ComposeFound describes where room is and offers navigation
func (c *ResponseComposer) ComposeFound(room *model.RoomRecord) string {
	if room == nil {
		return "I couldn't find that room. Could you check the room and building numbers?"
	}

	r := strings.NewReplacer(
		"{name}", room.DisplayName(),
		"{number}", orDefault(room.Number, "Unknown"),
		"{building}", orDefault(room.Building, c.supported),
		"{floor}", orDefault(room.Floor, "ground"),
		"{wing}", orDefault(room.Wing, "main"),
		"{street}", orDefault(room.Street, "University Campus"),
	)
	return r.Replace(c.pick(foundTemplates))
}

func (c *ResponseComposer) pick(templates []string) string {
	return templates[c.chooser.Intn(len(templates))]
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
