package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/suPer8Hu/journal-terminal/internal/achievement"
	"github.com/suPer8Hu/journal-terminal/internal/chat"
	"github.com/suPer8Hu/journal-terminal/internal/goal"
	"github.com/suPer8Hu/journal-terminal/internal/insights"
	"github.com/suPer8Hu/journal-terminal/internal/journal"
	"github.com/suPer8Hu/journal-terminal/internal/prefs"
	"github.com/suPer8Hu/journal-terminal/internal/stats"
)

type Device struct {
	DeviceID  string `json:"device_id"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// RegisterDevice obtains a token for deviceID (empty mints one) and starts using it.
func (c *Client) RegisterDevice(ctx context.Context, deviceID string) (Device, error) {
	var d Device
	if err := c.do(ctx, http.MethodPost, "/device", map[string]string{"device_id": deviceID}, &d); err != nil {
		return Device{}, err
	}
	c.SetToken(d.Token)
	return d, nil
}

func (c *Client) GetPrefs(ctx context.Context) (prefs.Prefs, error) {
	var out struct {
		Prefs prefs.Prefs `json:"prefs"`
	}
	err := c.do(ctx, http.MethodGet, "/prefs", nil, &out)
	return out.Prefs, err
}

func (c *Client) PutPrefs(ctx context.Context, p prefs.Prefs) error {
	return c.do(ctx, http.MethodPut, "/prefs", p, nil)
}

// Sessions

func (c *Client) CreateSession(ctx context.Context) (chat.Session, error) {
	var out struct {
		Session chat.Session `json:"session"`
	}
	err := c.do(ctx, http.MethodPost, "/sessions", nil, &out)
	return out.Session, err
}

func (c *Client) GetSession(ctx context.Context, id string) (chat.Session, error) {
	var out struct {
		Session chat.Session `json:"session"`
	}
	err := c.do(ctx, http.MethodGet, "/sessions/"+esc(id), nil, &out)
	return out.Session, err
}

func (c *Client) CompleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/sessions/"+esc(id)+"/complete", nil, nil)
}

func (c *Client) ListMessages(ctx context.Context, sessionID string, limit int) ([]chat.Message, error) {
	var out struct {
		Messages []chat.Message `json:"messages"`
	}
	path := "/sessions/" + esc(sessionID) + "/messages"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Messages, err
}

func (c *Client) SessionStats(ctx context.Context, sessionID string) (stats.Summary, error) {
	var out struct {
		Stats stats.Summary `json:"stats"`
	}
	err := c.do(ctx, http.MethodGet, "/sessions/"+esc(sessionID)+"/stats", nil, &out)
	return out.Stats, err
}

// Entries

type EntryQuery struct {
	Tag       string
	SessionID string
	Limit     int
}

func (q EntryQuery) encode() string {
	v := url.Values{}
	if q.Tag != "" {
		v.Set("tag", q.Tag)
	}
	if q.SessionID != "" {
		v.Set("session_id", q.SessionID)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) ListEntries(ctx context.Context, q EntryQuery) ([]journal.View, error) {
	var out struct {
		Entries []journal.View `json:"entries"`
	}
	err := c.do(ctx, http.MethodGet, "/entries"+q.encode(), nil, &out)
	return out.Entries, err
}

func (c *Client) GetEntry(ctx context.Context, id string) (journal.View, error) {
	var out struct {
		Entry journal.View `json:"entry"`
	}
	err := c.do(ctx, http.MethodGet, "/entries/"+esc(id), nil, &out)
	return out.Entry, err
}

func (c *Client) CreateEntry(ctx context.Context, d journal.Draft) (journal.View, error) {
	var out struct {
		Entry journal.View `json:"entry"`
	}
	err := c.do(ctx, http.MethodPost, "/entries", d, &out)
	return out.Entry, err
}

func (c *Client) UpdateEntry(ctx context.Context, id string, d journal.Draft) (journal.View, error) {
	var out struct {
		Entry journal.View `json:"entry"`
	}
	err := c.do(ctx, http.MethodPut, "/entries/"+esc(id), d, &out)
	return out.Entry, err
}

// DeleteEntry also makes the client a purge.Deleter.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/entries/"+esc(id), nil, nil)
}

func (c *Client) Tags(ctx context.Context) ([]journal.TagCount, error) {
	var out struct {
		Tags []journal.TagCount `json:"tags"`
	}
	err := c.do(ctx, http.MethodGet, "/tags", nil, &out)
	return out.Tags, err
}

func (c *Client) Stats(ctx context.Context) (stats.Summary, error) {
	var out struct {
		Stats stats.Summary `json:"stats"`
	}
	err := c.do(ctx, http.MethodGet, "/stats", nil, &out)
	return out.Stats, err
}

// Achievements and goals

type Achievements struct {
	Achievements []achievement.Status `json:"achievements"`
	Summary      stats.Summary        `json:"summary"`
}

func (c *Client) Achievements(ctx context.Context, sessionID string) (Achievements, error) {
	var out Achievements
	path := "/achievements"
	if sessionID != "" {
		path += "?session_id=" + url.QueryEscape(sessionID)
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) CheckAchievements(ctx context.Context, sessionID string) (achievement.CheckResult, error) {
	var out achievement.CheckResult
	err := c.do(ctx, http.MethodPost, "/achievements/check", map[string]string{"session_id": sessionID}, &out)
	return out, err
}

func (c *Client) Goal(ctx context.Context, sessionID string) (goal.Progress, error) {
	var out struct {
		Goal goal.Progress `json:"goal"`
	}
	err := c.do(ctx, http.MethodGet, "/goals/"+esc(sessionID), nil, &out)
	return out.Goal, err
}

func (c *Client) SetGoal(ctx context.Context, sessionID string, target int) (goal.Progress, error) {
	var out struct {
		Goal goal.Progress `json:"goal"`
	}
	err := c.do(ctx, http.MethodPut, "/goals/"+esc(sessionID), map[string]int{"target_words": target}, &out)
	return out.Goal, err
}

func (c *Client) Insights(ctx context.Context) (insights.Dashboard, error) {
	var out struct {
		Insights insights.Dashboard `json:"insights"`
	}
	err := c.do(ctx, http.MethodGet, "/insights", nil, &out)
	return out.Insights, err
}

// Summaries and images

func (c *Client) Summarize(ctx context.Context, sessionID string) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	err := c.do(ctx, http.MethodPost, "/sessions/"+esc(sessionID)+"/summary", nil, &out)
	return out.Summary, err
}

func (c *Client) EnqueueSummary(ctx context.Context, sessionID string) (string, error) {
	var out struct {
		JobID string `json:"job_id"`
	}
	err := c.do(ctx, http.MethodPost, "/sessions/"+esc(sessionID)+"/summary/jobs", nil, &out)
	return out.JobID, err
}

func (c *Client) SummaryJob(ctx context.Context, jobID string) (chat.Job, error) {
	var out struct {
		Job chat.Job `json:"job"`
	}
	err := c.do(ctx, http.MethodGet, "/summary-jobs/"+esc(jobID), nil, &out)
	return out.Job, err
}

// Image returns a generated decoration URL, cached for the life of the client.
func (c *Client) Image(ctx context.Context, kind string) (string, error) {
	if v, ok := c.images.Load(kind); ok {
		return v.(string), nil
	}
	var out struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := c.do(ctx, http.MethodPost, "/images", map[string]string{"type": kind}, &out); err != nil {
		return "", err
	}
	c.images.Store(kind, out.ImageURL)
	return out.ImageURL, nil
}
