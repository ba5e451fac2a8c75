package gemini

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const coachInstruction = `You are an expert career coach. Respond with warm, concise, and highly personalized advice.
- If the user asks for tips, give them relevant and actionable steps.
- If the user seems confused, clarify their goals.
- Never be robotic. Speak naturally and conversationally.
- Include encouragement. Adapt tone to the mood of the question.
- When appropriate, ask follow-up questions to guide them.`

const (
	maxQuestionRunes = 2000
	// MaxSessionTurns is how many exchanges a Session remembers (six messages).
	MaxSessionTurns = 3
)

type chatGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Continue(ctx context.Context, system string, history []Turn, message string) (string, error)
}

// Coach answers career questions. Failures are returned as displayable text.
type Coach struct {
	generator chatGenerator
	logger    *zap.Logger
}

func NewCoach(generator chatGenerator, logger *zap.Logger) *Coach {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coach{generator: generator, logger: logger}
}

// Advise answers a single question without history.
func (c *Coach) Advise(ctx context.Context, query string) string {
	query = sanitizeQuestion(query)
	if query == "" {
		return emptyQuestion
	}

	answer, err := c.generator.GenerateContent(ctx, coachInstruction, query)
	if err != nil {
		return c.failure(err)
	}
	return answer
}

// NewSession starts a conversation that remembers the last MaxSessionTurns exchanges.
func (c *Coach) NewSession() *Session {
	return &Session{coach: c}
}

func (c *Coach) failure(err error) string {
	c.logger.Warn("career coach request failed", zap.Error(err))
	return "🚨 Chatbot API Error: " + err.Error()
}

const emptyQuestion = "🚨 Please ask a career question."

// Session is a multi-turn coach conversation. It is safe for concurrent use,
// though questions are answered one at a time.
type Session struct {
	mu    sync.Mutex
	coach *Coach
	turns []Turn
}

// Advise answers query with the remembered turns as context. Failed exchanges are not remembered.
func (s *Session) Advise(ctx context.Context, query string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = sanitizeQuestion(query)
	if query == "" {
		return emptyQuestion
	}

	answer, err := s.coach.generator.Continue(ctx, coachInstruction, s.turns, query)
	if err != nil {
		return s.coach.failure(err)
	}

	s.turns = append(s.turns, Turn{User: query, Model: answer})
	if len(s.turns) > MaxSessionTurns {
		s.turns = s.turns[len(s.turns)-MaxSessionTurns:]
	}
	return answer
}

// History returns a copy of the remembered turns, oldest first.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.turns...)
}

// sanitizeQuestion trims, caps the length and turns square brackets into
// parentheses so the question cannot pose as a role marker.
func sanitizeQuestion(q string) string {
	q = strings.TrimSpace(q)
	q = strings.NewReplacer("[", "(", "]", ")").Replace(q)
	return strings.TrimSpace(truncateRunes(q, maxQuestionRunes))
}
