// Package narration 实现故事配音服务
package narration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"wondertales-api/internal/config"
	"wondertales-api/pkg/logger"
	"wondertales-api/pkg/metrics"
	"wondertales-api/pkg/tracer"
)

// Voice 配音风格
type Voice struct {
	Key         string `json:"key"`
	Provider    string `json:"-"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// defaultVoiceKey 未知风格时回退的风格
const defaultVoiceKey = "friendly"

// voiceTable 风格到提供商音色的映射
var voiceTable = map[string]Voice{
	"friendly": {Key: "friendly", Provider: "nova", DisplayName: "Friendly", Description: "A warm, friendly voice for everyday stories"},
	"cheerful": {Key: "cheerful", Provider: "onyx", DisplayName: "Cheerful", Description: "A bright, upbeat voice full of energy"},
	"magical":  {Key: "magical", Provider: "shimmer", DisplayName: "Magical", Description: "A soft, dreamy voice for magical tales"},
}

var voiceOrder = []string{"friendly", "cheerful", "magical"}

// Voices 返回可用配音风格（固定顺序）
func Voices() []Voice {
	out := make([]Voice, 0, len(voiceOrder))
	for _, key := range voiceOrder {
		out = append(out, voiceTable[key])
	}
	return out
}

// ResolveVoice 解析风格，未知风格回退到 friendly
func ResolveVoice(key string) Voice {
	if v, ok := voiceTable[strings.ToLower(strings.TrimSpace(key))]; ok {
		return v
	}
	return voiceTable[defaultVoiceKey]
}

// Synthesizer 语音合成后端
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
	Available() bool
}

// AudioCache 音频缓存
type AudioCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func() ([]byte, error)) ([]byte, bool, error)
}

// Service 配音服务
// 同一文本同一风格只合成一次，音频按内容哈希缓存
type Service struct {
	backend Synthesizer
	cache   AudioCache
	ttl     time.Duration
	enabled bool
}

// NewService 创建配音服务
func NewService(cfg *config.Config, backend Synthesizer, cache AudioCache) *Service {
	ttl := cfg.Media.OpenAI.NarrationTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		backend: backend,
		cache:   cache,
		ttl:     ttl,
		enabled: cfg.Features.Narration.Enabled,
	}
}

// Available 判断配音能力是否可用
func (s *Service) Available() bool {
	return s != nil && s.enabled && s.backend != nil && s.backend.Available() && s.cache != nil
}

// CacheKey 由文本与风格推导缓存键，相同输入永远得到相同键
func CacheKey(text, voiceKey string) string {
	sum := sha256.Sum256([]byte(text + "\x00" + voiceKey))
	return "narration:" + hex.EncodeToString(sum[:])
}

// Synthesize 合成配音并返回引用，失败时 ok 为 false
// 本方法从不返回错误，故事主流程不受配音故障影响
func (s *Service) Synthesize(ctx context.Context, text, voiceKey string) (ref string, ok bool) {
	ctx, span := tracer.Start(ctx, "narration.Synthesize")
	defer span.End()

	if !s.Available() {
		return "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	voice := ResolveVoice(voiceKey)
	key := CacheKey(text, voice.Key)

	_, hit, err := s.cache.GetOrLoad(ctx, key, s.ttl, func() ([]byte, error) {
		return s.backend.Synthesize(ctx, text, voice.Provider)
	})
	if err != nil {
		logger.Warn(ctx, "narration synthesis failed",
			"voice", voice.Key, "error", err.Error())
		return "", false
	}

	if hit {
		metrics.NarrationCacheTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.NarrationCacheTotal.WithLabelValues("miss").Inc()
	}
	return key, true
}

// Audio 按引用读取已合成的音频
func (s *Service) Audio(ctx context.Context, ref string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "narration.Audio")
	defer span.End()

	if s == nil || s.cache == nil {
		return nil, fmt.Errorf("narration cache not configured")
	}
	if !strings.HasPrefix(ref, "narration:") {
		return nil, fmt.Errorf("invalid narration reference")
	}
	return s.cache.Get(ctx, ref)
}
