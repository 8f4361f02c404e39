package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wondertales-api/internal/application/narration"
	"wondertales-api/internal/application/safety"
	"wondertales-api/internal/application/story"
	"wondertales-api/internal/config"
	"wondertales-api/internal/interfaces/http/dto"
	"wondertales-api/internal/workflow/chain"
)

// fakeSynthesizer 固定音频后端
type fakeSynthesizer struct{}

func (fakeSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	return []byte("mp3-bytes"), nil
}

func (fakeSynthesizer) Available() bool { return true }

// fakeAudioCache 内存缓存，未命中返回 redis.Nil
type fakeAudioCache struct {
	data map[string][]byte
}

func (f *fakeAudioCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return nil, goredis.Nil
}

func (f *fakeAudioCache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func() ([]byte, error)) ([]byte, bool, error) {
	if v, ok := f.data[key]; ok {
		return v, true, nil
	}
	v, err := loader()
	if err != nil {
		return nil, false, err
	}
	f.data[key] = v
	return v, false, nil
}

// setupTestEngine 组装一个不依赖外部服务的引擎
// LLM 不可用，故事一律走模板；配音走内存缓存
func setupTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "test"
	cfg.LLM.MaxAttempts = 1
	cfg.Features.Narration.Enabled = true
	cfg.Media.OpenAI.NarrationTTL = time.Hour

	filter := safety.NewFilter()
	generator := story.NewGenerator(cfg, chain.NewStoryChain(nil), filter, nil, func() bool { return false })
	narrationSvc := narration.NewService(cfg, fakeSynthesizer{}, &fakeAudioCache{data: make(map[string][]byte)})

	storyHandler := NewStoryHandler(generator, narrationSvc)
	narrationHandler := NewNarrationHandler(narrationSvc)
	healthHandler := NewHealthHandler(nil, nil)

	engine := gin.New()
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/live", healthHandler.Live)
	engine.POST("/v1/stories", storyHandler.Create)
	engine.POST("/v1/stories/validate", storyHandler.Validate)
	engine.GET("/v1/voices", narrationHandler.Voices)
	engine.POST("/v1/narration", narrationHandler.Synthesize)
	engine.GET("/v1/narration/:ref", narrationHandler.Audio)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func validCreateRequest() dto.CreateStoryRequest {
	return dto.CreateStoryRequest{
		Characters: []dto.CharacterDTO{
			{Name: "Emma", Pronouns: "she/her"},
		},
		Topic:      "dragons",
		Keywords:   []string{"wand", "backpack", "wolf"},
		AgeBand:    "5-6",
		LengthTier: "medium",
	}
}

func TestHealthEndpoints(t *testing.T) {
	engine := setupTestEngine(t)

	t.Run("health and live always answer ok", func(t *testing.T) {
		for _, path := range []string{"/health", "/live"} {
			w := doJSON(t, engine, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"ok"`)
		}
	})

	t.Run("ready reports not_ready without redis", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "not_ready")
	})
}

func TestStoryHandler_Validate(t *testing.T) {
	engine := setupTestEngine(t)

	t.Run("valid request", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/v1/stories/validate", validCreateRequest())
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response[dto.ValidateStoryResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Data.Valid)
		assert.Empty(t, resp.Data.Issues)
	})

	t.Run("invalid request lists every issue", func(t *testing.T) {
		req := validCreateRequest()
		req.Keywords = []string{"wand", "backpack", "wolf", "star"}
		req.AgeBand = "2-3"

		w := doJSON(t, engine, http.MethodPost, "/v1/stories/validate", req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response[dto.ValidateStoryResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Data.Valid)
		assert.Len(t, resp.Data.Issues, 2)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/stories/validate", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStoryHandler_Create(t *testing.T) {
	engine := setupTestEngine(t)

	t.Run("creates a story", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/v1/stories", validCreateRequest())
		require.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response[dto.StoryResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Data.ID)
		assert.NotEmpty(t, resp.Data.Title)
		assert.NotEmpty(t, resp.Data.Moral)
		assert.GreaterOrEqual(t, resp.Data.WordCount, resp.Data.TargetMinWords)
		assert.Equal(t, "dragons", resp.Data.Topic)
		assert.Empty(t, resp.Data.NarrationRef)
	})

	t.Run("narration reference is attached on request", func(t *testing.T) {
		req := validCreateRequest()
		req.IncludeNarration = true
		req.NarrationVoice = "magical"

		w := doJSON(t, engine, http.MethodPost, "/v1/stories", req)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response[dto.StoryResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Data.NarrationRef)

		// 引用可以直接换取音频
		audio := doJSON(t, engine, http.MethodGet, "/v1/narration/"+resp.Data.NarrationRef, nil)
		assert.Equal(t, http.StatusOK, audio.Code)
		assert.Equal(t, "mp3-bytes", audio.Body.String())
	})

	t.Run("validation failure is a 422 with all issues", func(t *testing.T) {
		req := validCreateRequest()
		req.Keywords = []string{"wand", "backpack", "wolf", "star"}

		w := doJSON(t, engine, http.MethodPost, "/v1/stories", req)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.NotEmpty(t, resp.Error.Suggestions)
	})

	t.Run("unsafe keywords are rejected", func(t *testing.T) {
		req := validCreateRequest()
		req.Keywords = []string{"ghost", "backpack", "wolf"}

		w := doJSON(t, engine, http.MethodPost, "/v1/stories", req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNarrationHandler(t *testing.T) {
	engine := setupTestEngine(t)

	t.Run("voices are listed in order", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/v1/voices", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response[[]dto.VoiceDTO]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 3)
		assert.Equal(t, "friendly", resp.Data[0].Key)
	})

	t.Run("synthesize returns a stable reference", func(t *testing.T) {
		body := dto.SynthesizeNarrationRequest{Text: "Emma smiled.", Voice: "cheerful"}

		w1 := doJSON(t, engine, http.MethodPost, "/v1/narration", body)
		require.Equal(t, http.StatusOK, w1.Code)
		w2 := doJSON(t, engine, http.MethodPost, "/v1/narration", body)
		require.Equal(t, http.StatusOK, w2.Code)

		var r1, r2 dto.Response[dto.SynthesizeNarrationResponse]
		require.NoError(t, json.Unmarshal(w1.Body.Bytes(), &r1))
		require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &r2))
		assert.Equal(t, r1.Data.Ref, r2.Data.Ref)
		assert.Equal(t, "cheerful", r1.Data.Voice)
	})

	t.Run("missing text is a 400", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/v1/narration", dto.SynthesizeNarrationRequest{Voice: "cheerful"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("expired reference is a 404", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/v1/narration/narration:deadbeef", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
