package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suPer8Hu/journal-terminal/internal/ai"
	"github.com/suPer8Hu/journal-terminal/internal/config"
	"github.com/suPer8Hu/journal-terminal/internal/db"
	"github.com/suPer8Hu/journal-terminal/internal/httpapi/handlers"
	"github.com/suPer8Hu/journal-terminal/internal/prefs"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeProvider struct {
	chunks []string
	err    error
}

func (p *fakeProvider) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	return strings.Join(p.chunks, ""), p.err
}

func (p *fakeProvider) StreamChat(ctx context.Context, messages []ai.Message) (<-chan string, <-chan error) {
	out := make(chan string, len(p.chunks))
	errs := make(chan error, 1)
	for _, c := range p.chunks {
		out <- c
	}
	if p.err != nil {
		errs <- p.err
	}
	close(out)
	close(errs)
	return out, errs
}

type fakeImages struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeImages) GenerateImage(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return "https://img.example/monitor.png", nil
}

type memCache struct {
	mu sync.Mutex
	m  map[string]string
}

func (c *memCache) GetImage(ctx context.Context, scope, kind string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[scope+"/"+kind], nil
}

func (c *memCache) SetImage(ctx context.Context, scope, kind, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[scope+"/"+kind] = url
	return nil
}

type fakePublisher struct{ jobs []string }

func (p *fakePublisher) PublishJob(ctx context.Context, id string) error {
	p.jobs = append(p.jobs, id)
	return nil
}

type testServer struct {
	r      *gin.Engine
	prov   *fakeProvider
	images *fakeImages
	pub    *fakePublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), gdb))

	ts := &testServer{
		prov:   &fakeProvider{chunks: []string{"Hi"}},
		images: &fakeImages{},
		pub:    &fakePublisher{},
	}
	reg := ai.NewRegistry()
	reg.Register("fake", func(ctx context.Context, model string) (ai.Provider, error) {
		return ts.prov, nil
	})

	cfg := config.Default()
	cfg.AIProvider = "fake"
	cfg.DeviceSecret = "test-secret"

	ts.r = NewRouter(handlers.Deps{
		DB:       gdb,
		Cfg:      cfg,
		Registry: reg,
		Prefs:    prefs.NewFileStore(t.TempDir()),
		Images:   &memCache{m: map[string]string{}},
		ImageGen: func(ctx context.Context) (ai.ImageGenerator, error) {
			return ts.images, nil
		},
		Publisher: ts.pub,
	})
	return ts
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type entryData struct {
	Entry struct {
		ID        string   `json:"id"`
		Title     string   `json:"title"`
		Content   string   `json:"content"`
		Tags      []string `json:"tags"`
		WordCount int      `json:"word_count"`
	} `json:"entry"`
}

func TestPingAndNoRoute(t *testing.T) {
	ts := newTestServer(t)
	w, env := ts.do(t, http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)

	w, env = ts.do(t, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40400, env.Code)
}

func TestEntryRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do(t, http.MethodPost, "/entries", gin.H{
		"title":   "Rainy Tuesday",
		"content": "<p>It rained all day.</p>",
		"tags":    []string{"weather", "mood"},
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[entryData](t, env.Data).Entry
	assert.Equal(t, 4, created.WordCount)

	_, env = ts.do(t, http.MethodGet, "/entries/"+created.ID, nil, "")
	got := decode[entryData](t, env.Data).Entry
	assert.Equal(t, "Rainy Tuesday", got.Title)
	assert.Equal(t, "<p>It rained all day.</p>", got.Content)
	assert.ElementsMatch(t, []string{"WEATHER", "MOOD"}, got.Tags)

	w, _ = ts.do(t, http.MethodPut, "/entries/"+created.ID, gin.H{"title": "Sunny", "content": "x", "tags": []string{}}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	_, env = ts.do(t, http.MethodGet, "/entries?tag=weather", nil, "")
	list := decode[struct {
		Entries []json.RawMessage `json:"entries"`
	}](t, env.Data)
	assert.Empty(t, list.Entries)

	w, _ = ts.do(t, http.MethodDelete, "/entries/"+created.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = ts.do(t, http.MethodGet, "/entries/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40402, env.Code)

	w, env = ts.do(t, http.MethodPost, "/entries", gin.H{"content": "<p></p>"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 10002, env.Code)

	w, env = ts.do(t, http.MethodPost, "/entries", gin.H{"title": "Just a title"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 10002, env.Code)
}

func TestChatStream(t *testing.T) {
	ts := newTestServer(t)

	_, env := ts.do(t, http.MethodPost, "/sessions", nil, "")
	sess := decode[struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}](t, env.Data).Session

	w, _ := ts.do(t, http.MethodPost, "/chat/stream", gin.H{
		"session_id": sess.ID,
		"messages":   []gin.H{{"role": "user", "content": "hello"}},
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t,
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\ndata: [DONE]\n\n",
		w.Body.String())

	_, env = ts.do(t, http.MethodGet, "/sessions/"+sess.ID+"/messages", nil, "")
	msgs := decode[struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}](t, env.Data).Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "Hi", msgs[1].Content)
}

func TestChatStream_UpstreamLimits(t *testing.T) {
	cases := []struct {
		status int
		code   int
	}{
		{http.StatusTooManyRequests, 42901},
		{http.StatusPaymentRequired, 40201},
		{http.StatusInternalServerError, 50201},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			ts := newTestServer(t)
			ts.prov.chunks = nil
			ts.prov.err = &ai.StatusError{Provider: "fake", Code: tc.status}

			w, env := ts.do(t, http.MethodPost, "/chat/stream", gin.H{
				"messages": []gin.H{{"role": "user", "content": "hello"}},
			}, "")
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, http.StatusBadGateway, w.Code)
			} else {
				assert.Equal(t, tc.status, w.Code)
			}
			assert.Equal(t, tc.code, env.Code)
		})
	}
}

func TestChatStream_Validation(t *testing.T) {
	ts := newTestServer(t)
	w, _ := ts.do(t, http.MethodPost, "/chat/stream", gin.H{"messages": []gin.H{}}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = ts.do(t, http.MethodPost, "/chat/stream", gin.H{"messages": []gin.H{{"role": "robot", "content": "x"}}}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAchievementsCheckIsIdempotent(t *testing.T) {
	ts := newTestServer(t)
	_, env := ts.do(t, http.MethodPost, "/sessions", nil, "")
	sid := decode[struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}](t, env.Data).Session.ID

	ts.do(t, http.MethodPost, "/entries", gin.H{"content": "first words"}, "")

	type checkData struct {
		Unlocked []struct {
			Key string `json:"key"`
		} `json:"unlocked"`
	}
	_, env = ts.do(t, http.MethodPost, "/achievements/check", gin.H{"session_id": sid}, "")
	first := decode[checkData](t, env.Data)
	var keys []string
	for _, a := range first.Unlocked {
		keys = append(keys, a.Key)
	}
	assert.Contains(t, keys, "FIRST_ENTRY")

	_, env = ts.do(t, http.MethodPost, "/achievements/check", gin.H{"session_id": sid}, "")
	assert.Empty(t, decode[checkData](t, env.Data).Unlocked)

	w, env := ts.do(t, http.MethodPost, "/achievements/check", gin.H{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 10002, env.Code)
}

func TestGoal(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/entries", gin.H{"content": strings.Repeat("word ", 600)}, "")

	type goalData struct {
		Goal struct {
			TargetWords int  `json:"target_words"`
			Percent     int  `json:"percent"`
			Complete    bool `json:"complete"`
		} `json:"goal"`
	}
	_, env := ts.do(t, http.MethodGet, "/goals/S1", nil, "")
	g := decode[goalData](t, env.Data).Goal
	assert.Equal(t, 500, g.TargetWords)
	assert.Equal(t, 100, g.Percent)
	assert.True(t, g.Complete)

	_, env = ts.do(t, http.MethodPut, "/goals/S1", gin.H{"target_words": 1200}, "")
	g = decode[goalData](t, env.Data).Goal
	assert.Equal(t, 50, g.Percent)
	assert.False(t, g.Complete)

	w, _ := ts.do(t, http.MethodPut, "/goals/S1", gin.H{"target_words": 0}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeviceAndPrefs(t *testing.T) {
	ts := newTestServer(t)

	w, _ := ts.do(t, http.MethodGet, "/prefs", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, env := ts.do(t, http.MethodPost, "/device", gin.H{"device_id": "term-1"}, "")
	dev := decode[struct {
		DeviceID string `json:"device_id"`
		Token    string `json:"token"`
	}](t, env.Data)
	assert.Equal(t, "term-1", dev.DeviceID)

	w, _ = ts.do(t, http.MethodPut, "/prefs", gin.H{"theme": "amber", "session_id": "S9"}, dev.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, env = ts.do(t, http.MethodGet, "/prefs", nil, dev.Token)
	p := decode[struct {
		Prefs struct {
			Theme     string `json:"theme"`
			SessionID string `json:"session_id"`
		} `json:"prefs"`
	}](t, env.Data).Prefs
	assert.Equal(t, "amber", p.Theme)
	assert.Equal(t, "S9", p.SessionID)
}

func TestImagesCachedPerDevice(t *testing.T) {
	ts := newTestServer(t)
	_, env := ts.do(t, http.MethodPost, "/device", nil, "")
	tok := decode[struct {
		Token string `json:"token"`
	}](t, env.Data).Token

	type imgData struct {
		ImageURL string `json:"imageUrl"`
		Cached   bool   `json:"cached"`
	}
	_, env = ts.do(t, http.MethodPost, "/images", gin.H{"type": "monitor"}, tok)
	first := decode[imgData](t, env.Data)
	assert.False(t, first.Cached)
	assert.NotEmpty(t, first.ImageURL)

	_, env = ts.do(t, http.MethodPost, "/images", gin.H{"type": "monitor"}, tok)
	assert.True(t, decode[imgData](t, env.Data).Cached)
	assert.Equal(t, 1, ts.images.calls)

	w, _ := ts.do(t, http.MethodPost, "/images", gin.H{"type": "toaster"}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummaryAndJobs(t *testing.T) {
	ts := newTestServer(t)
	_, env := ts.do(t, http.MethodPost, "/sessions", nil, "")
	sid := decode[struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}](t, env.Data).Session.ID

	w, _ := ts.do(t, http.MethodPost, "/sessions/"+sid+"/summary", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.do(t, http.MethodPost, "/chat/stream", gin.H{
		"session_id": sid,
		"messages":   []gin.H{{"role": "user", "content": "today was long"}},
	}, "")

	ts.prov.chunks = []string{"<p>A long day.</p>"}
	_, env = ts.do(t, http.MethodPost, "/sessions/"+sid+"/summary", nil, "")
	assert.Equal(t, "<p>A long day.</p>", decode[struct {
		Summary string `json:"summary"`
	}](t, env.Data).Summary)

	_, env = ts.do(t, http.MethodPost, "/sessions/"+sid+"/summary/jobs", nil, "")
	jobID := decode[struct {
		JobID string `json:"job_id"`
	}](t, env.Data).JobID
	require.NotEmpty(t, jobID)
	assert.Equal(t, []string{jobID}, ts.pub.jobs)

	_, env = ts.do(t, http.MethodGet, "/summary-jobs/"+jobID, nil, "")
	job := decode[struct {
		Job struct {
			Status string `json:"status"`
		} `json:"job"`
	}](t, env.Data).Job
	assert.Equal(t, "queued", job.Status)

	w, env = ts.do(t, http.MethodGet, "/summary-jobs/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40403, env.Code)
}

func TestInsightsSeeded(t *testing.T) {
	ts := newTestServer(t)
	_, a := ts.do(t, http.MethodGet, "/insights?seed=42", nil, "")
	_, b := ts.do(t, http.MethodGet, "/insights?seed=42", nil, "")
	type insData struct {
		Insights struct {
			Headline string `json:"headline"`
			Mood     []struct {
				Value int `json:"value"`
			} `json:"mood"`
		} `json:"insights"`
	}
	da, db := decode[insData](t, a.Data), decode[insData](t, b.Data)
	assert.Len(t, da.Insights.Mood, 7)
	assert.Equal(t, da.Insights.Mood, db.Insights.Mood)
	assert.Equal(t, da.Insights.Headline, db.Insights.Headline)
}

func TestStatsAndTags(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/entries", gin.H{"content": "one two", "tags": []string{"a", "b"}}, "")
	ts.do(t, http.MethodPost, "/entries", gin.H{"content": "three", "tags": []string{"A"}}, "")

	_, env := ts.do(t, http.MethodGet, "/stats", nil, "")
	st := decode[struct {
		Stats map[string]any `json:"stats"`
	}](t, env.Data).Stats
	assert.NotEmpty(t, st)

	_, env = ts.do(t, http.MethodGet, "/tags", nil, "")
	tags := decode[struct {
		Tags []struct {
			Tag   string `json:"tag"`
			Count int    `json:"count"`
		} `json:"tags"`
	}](t, env.Data).Tags
	require.Len(t, tags, 2)
	assert.Equal(t, "A", tags[0].Tag)
	assert.Equal(t, 2, tags[0].Count)
}
