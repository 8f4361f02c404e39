// Package illustration 实现插画请求器
package illustration

import (
	"context"
	"fmt"
	"strings"

	"wondertales-api/internal/application/safety"
	"wondertales-api/internal/domain/entity"
	"wondertales-api/pkg/logger"
	"wondertales-api/pkg/metrics"
	"wondertales-api/pkg/tracer"
)

// maxPromptRunes 图像提示词长度上限
const maxPromptRunes = 200

// topicSceneTable 各主题的画面描述
var topicSceneTable = map[entity.Topic]string{
	entity.TopicSpace:     "floating happily among smiling stars and a small rocket",
	entity.TopicCommunity: "at a sunny street fair with cheerful neighbors",
	entity.TopicDragons:   "playing with a gentle smiling dragon in a green valley",
	entity.TopicFairies:   "surrounded by tiny glowing fairies in a flower garden",
}

// ImageGenerator 图像生成后端
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
	Available() bool
}

// Requester 插画请求器，任何失败都只记日志并返回空串
type Requester struct {
	backend ImageGenerator
	filter  *safety.Filter
	enabled bool
}

// NewRequester 创建插画请求器
func NewRequester(backend ImageGenerator, filter *safety.Filter, enabled bool) *Requester {
	return &Requester{
		backend: backend,
		filter:  filter,
		enabled: enabled,
	}
}

// Request 为故事生成插画并返回 URL，失败返回空串
func (r *Requester) Request(ctx context.Context, story *entity.GeneratedStory) string {
	ctx, span := tracer.Start(ctx, "illustration.Request")
	defer span.End()

	if !r.enabled || r.backend == nil || !r.backend.Available() {
		metrics.IllustrationTotal.WithLabelValues("disabled").Inc()
		return ""
	}

	prompt := r.buildPrompt(story)
	url, err := r.backend.GenerateImage(ctx, prompt)
	if err != nil {
		metrics.IllustrationTotal.WithLabelValues("failed").Inc()
		logger.Warn(ctx, "illustration generation failed",
			"story_id", story.ID, "error", err.Error())
		return ""
	}

	metrics.IllustrationTotal.WithLabelValues("ok").Inc()
	return url
}

// buildPrompt 构造儿童友好的画面描述
// 标题先过消毒再进入提示词，整体截断到长度上限
func (r *Requester) buildPrompt(story *entity.GeneratedStory) string {
	scene, ok := topicSceneTable[story.Topic]
	if !ok {
		scene = "having a happy adventure with friends"
	}

	lead := "a happy child"
	if len(story.Characters) > 0 {
		lead = strings.TrimSpace(story.Characters[0].Name)
	}

	title := r.filter.SanitizeForPrompt(story.Title)
	prompt := fmt.Sprintf(
		"A warm, colorful children's book illustration of %s %s, inspired by the story %q. Soft shapes, bright friendly colors, no text.",
		lead, scene, title,
	)

	runes := []rune(prompt)
	if len(runes) > maxPromptRunes {
		prompt = string(runes[:maxPromptRunes])
	}
	return prompt
}
