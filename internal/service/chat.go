package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"poli-assistant/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Turn outcomes, used as metric labels and in the turn log
const (
	outcomeEmpty         = "empty"
	outcomeNavStarted    = "nav_started"
	outcomeNavDeclined   = "nav_declined"
	outcomeIdentity      = "identity"
	outcomeSmallTalk     = "small_talk"
	outcomeNameMatch     = "name_match"
	outcomeFound         = "found"
	outcomeNotFound      = "not_found"
	outcomeNotSupported  = "not_supported"
	outcomeAwaitBuilding = "awaiting_building"
	outcomeAbandoned     = "abandoned"
	outcomeClarify       = "clarify"
	outcomeFallback      = "fallback"
)

var (
	affirmativeReplies = map[string]struct{}{"yes": {}, "sure": {}, "please": {}, "guide": {}, "y": {}, "ok": {}}
	negativeReplies    = map[string]struct{}{"no": {}, "skip": {}, "not now": {}}
)

// personaParams allow a livelier reply than extraction
var personaParams = model.GenerationParams{MaxTokens: 100, Temperature: 0.8}

// TurnLogger records handled turns for auditing
type TurnLogger interface {
	LogTurn(ctx context.Context, turn model.TurnRecord) error
}

// ChatOptions tunes dialogue behaviour
type ChatOptions struct {
	SupportedBuilding string
	HistoryBudget     int
	// AbandonReply answers an abandoned building question with a clarification
	// instead of an empty reply.
	AbandonReply bool
}

// ChatService runs the per-turn dialogue: confirmation handling, small talk, name
// lookup, the pending building question and slot extraction.
type ChatService struct {
	sessions   *SessionStore
	classifier *IntentClassifier
	extractor  *SlotExtractor
	directory  *RoomDirectory
	composer   *ResponseComposer
	queue      *GenerationQueue
	turnLog    TurnLogger
	opts       ChatOptions
	logger     *zap.Logger

	logWG sync.WaitGroup // pending turn log writes
}

// NewChatService creates a new chat service. turnLog may be nil.
func NewChatService(
	sessions *SessionStore,
	classifier *IntentClassifier,
	extractor *SlotExtractor,
	directory *RoomDirectory,
	composer *ResponseComposer,
	queue *GenerationQueue,
	turnLog TurnLogger,
	opts ChatOptions,
	logger *zap.Logger,
) *ChatService {
	if opts.SupportedBuilding == "" {
		opts.SupportedBuilding = "1"
	}
	if opts.HistoryBudget <= 0 {
		opts.HistoryBudget = 1500
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		sessions:   sessions,
		classifier: classifier,
		extractor:  extractor,
		directory:  directory,
		composer:   composer,
		queue:      queue,
		turnLog:    turnLog,
		opts:       opts,
		logger:     logger,
	}
}

type turnResult struct {
	reply   string
	data    model.NavigationData
	outcome string
	room    *model.RoomRecord
}

// HandleTurn processes one user message and always produces a reply
func (s *ChatService) HandleTurn(ctx context.Context, req *model.ChatRequest) *model.ChatResponse {
	startTime := time.Now()

	input := strings.TrimSpace(req.Prompt)
	if input == "" {
		turnsTotal.WithLabelValues(outcomeEmpty).Inc()
		return &model.ChatResponse{Response: EmptyInputReply, SessionID: req.SessionID}
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sess, release := s.sessions.Acquire(sessionID)
	result := s.safeTurn(ctx, sess, input)
	release()

	took := time.Since(startTime).Milliseconds()
	turnsTotal.WithLabelValues(result.outcome).Inc()
	s.logger.Debug("Turn handled",
		zap.String("session_id", sessionID),
		zap.String("outcome", result.outcome),
		zap.Int64("took_ms", took))

	if s.turnLog != nil {
		record := model.TurnRecord{
			SessionID:         sessionID,
			Prompt:            input,
			Response:          result.reply,
			Outcome:           result.outcome,
			NavigationStarted: result.data.NavigationStarted,
			ResponseTimeMs:    int(took),
		}
		if result.room != nil {
			record.RoomKey = result.room.Key()
		}
		// Log turn (non-blocking)
		s.logWG.Add(1)
		go func() {
			defer s.logWG.Done()
			logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.turnLog.LogTurn(logCtx, record); err != nil {
				s.logger.Warn("Failed to log turn", zap.Error(err))
			}
		}()
	}

	return &model.ChatResponse{
		Response:  result.reply,
		SessionID: sessionID,
		Data:      result.data,
	}
}

// safeTurn converts any panic inside the turn into the fallback greeting
func (s *ChatService) safeTurn(ctx context.Context, sess *Session, input string) (result turnResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Turn failed",
				zap.String("session_id", sess.ID),
				zap.Any("panic", r),
				zap.Stack("stack"))
			result = turnResult{reply: FallbackReply, outcome: outcomeFallback}
		}
	}()
	return s.runTurn(ctx, sess, input)
}

func (s *ChatService) runTurn(ctx context.Context, sess *Session, input string) turnResult {
	lower := strings.ToLower(input)

	if room := sess.LastResolvedRoom; room != nil {
		if _, ok := affirmativeReplies[lower]; ok {
			sess.LastResolvedRoom = nil
			sess.History = ""
			return turnResult{
				reply:   NavigationStartedReply,
				data:    model.NewRoomNavigationData(room, true),
				outcome: outcomeNavStarted,
				room:    room,
			}
		}
		if _, ok := negativeReplies[lower]; ok {
			sess.LastResolvedRoom = nil
			sess.History = ""
			return turnResult{reply: NavigationDeclinedReply, outcome: outcomeNavDeclined}
		}
	}

	history := TruncateHistory(sess.History+"\nUser: "+input, s.opts.HistoryBudget)

	if s.classifier.IsSmallTalk(input) {
		if result, ok := s.smallTalk(ctx, input, history); ok {
			if !strings.Contains(lower, "building") && !strings.Contains(lower, "room") {
				sess.History = TruncateHistory("User: "+input+"\nPoli: "+result.reply, s.opts.HistoryBudget)
			} else {
				sess.History = TruncateHistory(history+"\nPoli: "+result.reply, s.opts.HistoryBudget)
			}
			return result
		}
	}

	var result turnResult
	if room := s.directory.LookupByName(input); room != nil {
		result = s.nameMatch(sess, room)
	} else if sess.PendingRoom != "" {
		var ok bool
		result, ok = s.answerPendingBuilding(sess, input)
		if !ok {
			// history is left as it was before this turn
			return result
		}
	} else {
		result = s.resolveSlots(ctx, sess, input, history)
	}

	sess.History = TruncateHistory(history+"\nPoli: "+result.reply, s.opts.HistoryBudget)
	return result
}

// smallTalk answers greetings and noise. ok is false when the model returned nothing,
// in which case the turn continues through room resolution.
func (s *ChatService) smallTalk(ctx context.Context, input, history string) (turnResult, bool) {
	if s.classifier.IsIdentityQuery(input) {
		return turnResult{reply: s.composer.Identity(), outcome: outcomeIdentity}, true
	}

	text, err := s.queue.Generate(ctx, "persona", model.Prompt{
		System:  PersonaSystemPrompt,
		User:    input,
		History: history,
	}, personaParams)
	if err != nil {
		s.logger.Debug("Persona reply degraded", zap.Error(err))
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return turnResult{}, false
	}
	return turnResult{reply: text, outcome: outcomeSmallTalk}, true
}

func (s *ChatService) nameMatch(sess *Session, room *model.RoomRecord) turnResult {
	sess.LastResolvedRoom = room
	return turnResult{
		reply:   s.composer.ComposeFound(room),
		data:    model.NewRoomNavigationData(room, false),
		outcome: outcomeNameMatch,
		room:    room,
	}
}

// answerPendingBuilding treats the first number in input as the building for the
// pending room. ok is false when the question was abandoned.
func (s *ChatService) answerPendingBuilding(sess *Session, input string) (turnResult, bool) {
	room := sess.PendingRoom
	sess.PendingRoom = ""

	building := firstDigits(input)
	if building == "" {
		s.logger.Debug("Pending building question abandoned",
			zap.String("session_id", sess.ID),
			zap.String("room", room))
		if s.opts.AbandonReply {
			return turnResult{reply: s.composer.Compose(ClarifyRequest, "", ""), outcome: outcomeAbandoned}, true
		}
		return turnResult{outcome: outcomeAbandoned}, false
	}

	return s.resolve(sess, room, building), true
}

func (s *ChatService) resolveSlots(ctx context.Context, sess *Session, input, history string) turnResult {
	slots := s.extractor.Extract(ctx, input, history)
	if slots.Building == "" && strings.Contains(strings.ToLower(input), "building 3") {
		slots.Building = "3"
	}

	switch {
	case slots.HasRoom() && slots.HasBuilding():
		return s.resolve(sess, slots.Room, slots.Building)
	case slots.HasRoom():
		// The lookup result does not change the reply: the building is always confirmed.
		speculative := s.directory.Lookup(slots.Room, s.opts.SupportedBuilding)
		s.logger.Debug("Room without building",
			zap.String("room", slots.Room),
			zap.Bool("exists_in_supported_building", speculative != nil))
		sess.PendingRoom = slots.Room
		return turnResult{
			reply:   s.composer.Compose(AwaitingBuilding, slots.Room, ""),
			outcome: outcomeAwaitBuilding,
		}
	default:
		return turnResult{reply: s.composer.Compose(ClarifyRequest, "", ""), outcome: outcomeClarify}
	}
}

// resolve looks up a fully specified room
func (s *ChatService) resolve(sess *Session, room, building string) turnResult {
	if building != s.opts.SupportedBuilding {
		return turnResult{
			reply:   s.composer.Compose(BuildingNotSupported, room, building),
			outcome: outcomeNotSupported,
		}
	}

	record := s.directory.Lookup(room, building)
	if record == nil {
		return turnResult{
			reply:   s.composer.Compose(RoomNotFound, room, building),
			outcome: outcomeNotFound,
		}
	}

	sess.LastResolvedRoom = record
	return turnResult{
		reply:   s.composer.ComposeFound(record),
		data:    model.NewRoomNavigationData(record, false),
		outcome: outcomeFound,
		room:    record,
	}
}

// Close waits for pending turn log writes. Call it before closing the turn log's
// storage and after the server has stopped accepting turns.
func (s *ChatService) Close() {
	s.logWG.Wait()
}

// Stats reports the collaborators' readiness for health endpoints
func (s *ChatService) Stats() model.ServiceStats {
	return model.ServiceStats{
		ModelLoaded:    s.queue.IsEnabled(),
		RoomsLoaded:    s.directory.Len(),
		ActiveSessions: s.sessions.Count(),
	}
}

// SessionSnapshot returns the current state of a session
func (s *ChatService) SessionSnapshot(id string) (model.SessionSnapshot, bool) {
	return s.sessions.Snapshot(id)
}

// ResetSession forgets a session
func (s *ChatService) ResetSession(id string) bool {
	return s.sessions.Reset(id)
}
