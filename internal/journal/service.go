package journal

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/suPer8Hu/journal-terminal/internal/common"
	"github.com/suPer8Hu/journal-terminal/internal/stats"
)

const (
	defaultTitle = "UNTITLED ENTRY"
	defaultLimit = 200
	maxLimit     = 1000
)

var ErrEmptyContent = errors.New("entry content is empty")

type Service struct {
	repo *Repo
	now  func() time.Time
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

func hasContent(d Draft) bool {
	return strings.TrimSpace(PlainText(d.Content)) != ""
}

// Create stores a new entry. A draft whose content has no visible text is rejected with
// ErrEmptyContent, whatever its title.
func (s *Service) Create(ctx context.Context, d Draft) (*View, error) {
	if !hasContent(d) {
		return nil, ErrEmptyContent
	}
	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	e := &Entry{
		ID:        id,
		SessionID: normalizeSessionID(d.SessionID),
		Title:     titleOrDefault(d.Title),
		Content:   d.Content,
		Tags:      datatypes.JSONSlice[string](NormalizeTags(d.Tags)),
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	v := NewView(*e)
	return &v, nil
}

// Update replaces title, content and tags under the same rule as Create.
func (s *Service) Update(ctx context.Context, id string, d Draft) (*View, error) {
	if !hasContent(d) {
		return nil, ErrEmptyContent
	}
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Title = titleOrDefault(d.Title)
	e.Content = d.Content
	e.Tags = datatypes.JSONSlice[string](NormalizeTags(d.Tags))
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	v := NewView(*e)
	return &v, nil
}

func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := NewView(*e)
	return &v, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

type ListOptions struct {
	Tag       string
	SessionID string
	Limit     int
}

// List returns entries newest first, optionally narrowed to one tag.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]View, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	f := Filter{SessionID: opts.SessionID}
	tag := strings.ToUpper(strings.TrimSpace(opts.Tag))
	if tag == "" {
		f.Limit = limit
	}
	entries, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]View, 0, len(entries))
	for _, e := range entries {
		if tag != "" && !hasTag(e, tag) {
			continue
		}
		out = append(out, NewView(e))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Service) Tags(ctx context.Context) ([]TagCount, error) {
	entries, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	return CountTags(entries), nil
}

// Facts loads the entries stats are computed over. An empty sessionID means all entries.
func (s *Service) Facts(ctx context.Context, sessionID string) ([]stats.Entry, error) {
	entries, err := s.repo.List(ctx, Filter{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	return ToFacts(entries), nil
}

// WordsSince sums word counts of entries created at or after t.
func (s *Service) WordsSince(ctx context.Context, t time.Time) (int, error) {
	entries, err := s.repo.List(ctx, Filter{Since: t})
	if err != nil {
		return 0, err
	}
	total := 0
	for _, e := range entries {
		total += WordCount(e.Content)
	}
	return total, nil
}

func ToFacts(entries []Entry) []stats.Entry {
	out := make([]stats.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, stats.Entry{
			CreatedAt: e.CreatedAt,
			Words:     WordCount(e.Content),
			Tags:      []string(e.Tags),
		})
	}
	return out
}

func hasTag(e Entry, tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func titleOrDefault(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return defaultTitle
	}
	return t
}

func normalizeSessionID(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	v := strings.TrimSpace(*id)
	return &v
}
