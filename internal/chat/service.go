package chat

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suPer8Hu/journal-terminal/internal/ai"
	"github.com/suPer8Hu/journal-terminal/internal/common"
)

var ErrEmptyTranscript = errors.New("nothing to summarize")

const (
	companionPrompt = "You are a calm, curious journaling companion inside a retro terminal. " +
		"Ask one short reflective question at a time and help the user notice what they feel. " +
		"Keep replies under 120 words."
	summaryPrompt = "Turn the following conversation into a first-person journal entry written as the user. " +
		"Return only simple HTML using <p>, <strong>, <em>, <ul> and <li>. No headings, no code fences."
	transcriptLimit = 500
)

type Service struct {
	repo              *Repo
	registry          *ai.Registry
	provider          string
	model             string
	contextWindowSize int
	log               *zap.Logger
}

func NewService(repo *Repo, registry *ai.Registry, provider, model string, contextWindowSize int, log *zap.Logger) *Service {
	if contextWindowSize <= 0 || contextWindowSize > 100 {
		contextWindowSize = 20
	}
	if provider == "" {
		provider = "ollama"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:              repo,
		registry:          registry,
		provider:          provider,
		model:             model,
		contextWindowSize: contextWindowSize,
		log:               log,
	}
}

func (s *Service) CreateSession(ctx context.Context) (*Session, error) {
	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	session := &Session{ID: id}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) GetSession(ctx context.Context, id string) (*Session, error) {
	return s.repo.GetSession(ctx, id)
}

// Complete marks the chat finished; the user moves on to journaling.
func (s *Service) Complete(ctx context.Context, id string) error {
	return s.repo.MarkSessionCompleted(ctx, id)
}

func (s *Service) ListMessages(ctx context.Context, sessionID string, limit int, beforeID uint64) ([]Message, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListMessages(ctx, sessionID, limit, beforeID)
}

func (s *Service) currentProvider(ctx context.Context) (ai.Provider, error) {
	return s.registry.Get(ctx, s.provider, s.model)
}

// window keeps the most recent messages the provider should see, behind the system prompt.
func (s *Service) window(history []ai.Message) []ai.Message {
	if len(history) > s.contextWindowSize {
		history = history[len(history)-s.contextWindowSize:]
	}
	out := make([]ai.Message, 0, len(history)+1)
	out = append(out, ai.Message{Role: ai.RoleSystem, Content: companionPrompt})
	for _, m := range history {
		if m.Role == ai.RoleSystem || strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

// StreamReply streams the assistant's answer to history. With a session id the newest user
// message is stored before streaming and the full reply after it completes.
// Both channels are closed when streaming ends.
func (s *Service) StreamReply(ctx context.Context, sessionID string, history []ai.Message) (<-chan string, <-chan error) {
	out := make(chan string, 16)
	outErrs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(outErrs)

		if sessionID != "" {
			if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
				outErrs <- err
				return
			}
			if n := len(history); n > 0 && history[n-1].Role == ai.RoleUser {
				if err := s.repo.InsertMessage(ctx, &Message{
					SessionID: sessionID,
					Role:      ai.RoleUser,
					Content:   history[n-1].Content,
				}); err != nil {
					outErrs <- err
					return
				}
			}
		}

		provider, err := s.currentProvider(ctx)
		if err != nil {
			outErrs <- err
			return
		}

		chunks, errs := ai.Stream(ctx, provider, s.window(history))
		var b strings.Builder
		for c := range chunks {
			b.WriteString(c)
			select {
			case out <- c:
			case <-ctx.Done():
				// drain so the provider goroutine can finish
				for range chunks {
				}
				outErrs <- ctx.Err()
				return
			}
		}
		if err := <-errs; err != nil {
			outErrs <- err
			return
		}

		if sessionID == "" || b.Len() == 0 {
			return
		}
		if err := s.repo.InsertMessage(ctx, &Message{
			SessionID: sessionID,
			Role:      ai.RoleAssistant,
			Content:   b.String(),
		}); err != nil {
			s.log.Warn("store assistant reply", zap.String("session_id", sessionID), zap.Error(err))
			outErrs <- err
		}
	}()

	return out, outErrs
}

// Transcript loads a session's messages as provider input.
func (s *Service) Transcript(ctx context.Context, sessionID string) ([]ai.Message, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, sessionID, transcriptLimit, 0)
	if err != nil {
		return nil, err
	}
	out := make([]ai.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ai.Message{Role: m.Role, Content: m.Content})
	}
	return out, nil
}

// Summarize writes an HTML journal entry from a transcript.
func (s *Service) Summarize(ctx context.Context, transcript []ai.Message) (string, error) {
	var b strings.Builder
	for _, m := range transcript {
		if m.Role == ai.RoleSystem || strings.TrimSpace(m.Content) == "" {
			continue
		}
		b.WriteString(strings.ToUpper(m.Role))
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(m.Content))
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "", ErrEmptyTranscript
	}

	provider, err := s.currentProvider(ctx)
	if err != nil {
		return "", err
	}
	reply, err := provider.Chat(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: summaryPrompt},
		{Role: ai.RoleUser, Content: b.String()},
	})
	if err != nil {
		return "", err
	}
	return cleanSummary(reply), nil
}

// cleanSummary strips markdown fences some models wrap HTML in.
func cleanSummary(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i >= 0 {
			s = s[i+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// IsNotFound reports a missing session or job.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
