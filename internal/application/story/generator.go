package story

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wondertales-api/internal/application/safety"
	"wondertales-api/internal/config"
	"wondertales-api/internal/domain/entity"
	"wondertales-api/internal/workflow/chain"
	wfmodel "wondertales-api/internal/workflow/model"
	apperrors "wondertales-api/pkg/errors"
	"wondertales-api/pkg/logger"
	"wondertales-api/pkg/metrics"
	"wondertales-api/pkg/tracer"
)

// RequestValidationError 请求校验错误，携带全部违规信息
type RequestValidationError struct {
	Issues []string
}

// Error 实现 error 接口
func (e *RequestValidationError) Error() string {
	return fmt.Sprintf("story request validation failed: %s", strings.Join(e.Issues, "; "))
}

// IllustrationRequester 插画请求器，失败时返回空串而不是错误
type IllustrationRequester interface {
	Request(ctx context.Context, story *entity.GeneratedStory) string
}

// Generator 故事生成编排器
// 校验 → 提示词 → LLM（含重试）→ 解析 → 内容检查 → 兜底模板
type Generator struct {
	chain        *chain.StoryChain
	filter       *safety.Filter
	illustration IllustrationRequester
	llmAvailable bool

	provider    string
	maxAttempts int
	retryDelay  time.Duration
}

// NewGenerator 创建故事生成编排器
// LLM 可用性在构造时确定一次，生命周期内不再查询
func NewGenerator(cfg *config.Config, storyChain *chain.StoryChain, filter *safety.Filter, illustration IllustrationRequester, llmAvailable func() bool) *Generator {
	maxAttempts := cfg.LLM.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	available := false
	if llmAvailable != nil {
		available = llmAvailable()
	}
	return &Generator{
		chain:        storyChain,
		filter:       filter,
		illustration: illustration,
		llmAvailable: available,
		provider:     cfg.LLM.DefaultProvider,
		maxAttempts:  maxAttempts,
		retryDelay:   cfg.LLM.RetryDelay,
	}
}

// ValidateRequest 校验请求，返回全部违规信息（空切片表示合法）
// 结构校验、关键词安全和主题安全一次性全部报告，
// 与 Generate 的安全门保持同一判定
func (g *Generator) ValidateRequest(req *entity.StoryRequest) []string {
	issues := req.Validate()

	for i, kw := range req.Keywords {
		if strings.TrimSpace(kw) == "" {
			continue
		}
		if len(g.filter.FilterInappropriateKeywords([]string{kw})) == 0 {
			issues = append(issues, fmt.Sprintf("keywords[%d] not suitable for a children's story: %q", i, kw))
		}
	}

	// 主题组合检查只在主题和关键词各自合法时报告，避免重复信息
	if entity.IsValidTopic(req.Topic) && g.filter.ValidateKeywords(req.Keywords) &&
		!g.filter.ValidateThemeSafety(req.Topic, req.Keywords) {
		issues = append(issues, "topic and keyword combination is not suitable for a children's story")
	}

	return issues
}

// Generate 生成故事
// 校验失败返回 RequestValidationError；安全拒绝返回 AppError；
// 其余一切后端故障都被兜底模板吸收，不会向调用方抛出
func (g *Generator) Generate(ctx context.Context, req *entity.StoryRequest) (*entity.GeneratedStory, error) {
	ctx, span := tracer.Start(ctx, "story.Generate")
	defer span.End()

	start := time.Now()
	topic := string(req.Topic)

	if issues := req.Validate(); len(issues) > 0 {
		metrics.StoryGenerationTotal.WithLabelValues(topic, "rejected").Inc()
		return nil, &RequestValidationError{Issues: issues}
	}

	if !g.filter.ValidateKeywords(req.Keywords) {
		metrics.SafetyRejectionsTotal.WithLabelValues("keywords").Inc()
		metrics.StoryGenerationTotal.WithLabelValues(topic, "rejected").Inc()
		return nil, apperrors.New(apperrors.CodeSafetyRejected, "keywords are not suitable for a children's story")
	}
	if !g.filter.ValidateThemeSafety(req.Topic, req.Keywords) {
		metrics.SafetyRejectionsTotal.WithLabelValues("theme").Inc()
		metrics.StoryGenerationTotal.WithLabelValues(topic, "rejected").Inc()
		return nil, apperrors.New(apperrors.CodeSafetyRejected, "keyword and topic combination is not suitable for a children's story")
	}

	var story *entity.GeneratedStory
	outcome := "fallback"

	if g.llmAvailable {
		story = g.generateWithLLM(ctx, req)
		if story != nil {
			outcome = "generated"
		}
	} else {
		logger.Warn(ctx, "llm provider not configured, using template story", "topic", topic)
	}

	if story == nil {
		story = BuildFallbackStory(req, g.filter)
	}

	if req.IncludeIllustration && g.illustration != nil {
		if url := g.illustration.Request(ctx, story); url != "" {
			story.AttachIllustration(url)
		}
	}

	metrics.StoryGenerationTotal.WithLabelValues(topic, outcome).Inc()
	metrics.StoryGenerationDuration.WithLabelValues(topic).Observe(time.Since(start).Seconds())
	metrics.StoryWordCount.WithLabelValues(string(req.AgeBand), string(req.LengthTier)).Observe(float64(story.WordCount))

	logger.Info(ctx, "story generated",
		"story_id", story.ID,
		"topic", topic,
		"outcome", outcome,
		"word_count", story.WordCount,
	)
	return story, nil
}

// generateWithLLM 带重试的 LLM 生成，全部尝试失败时返回 nil
func (g *Generator) generateWithLLM(ctx context.Context, req *entity.StoryRequest) *entity.GeneratedStory {
	vars := BuildPromptVars(req)
	in := &wfmodel.StoryGenerateInput{
		Provider: g.provider,
		Vars:     vars,
	}

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if attempt > 1 && g.retryDelay > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(g.retryDelay):
			}
		}

		msg, err := g.chain.Invoke(ctx, in)
		if err != nil {
			logger.Warn(ctx, "story llm call failed",
				"attempt", attempt, "max_attempts", g.maxAttempts, "error", err.Error())
			continue
		}

		parsed := ParseStoryResponse(msg.Content)
		story := entity.NewGeneratedStory(parsed.Title, parsed.Content, parsed.Moral, req)
		if g.acceptStory(ctx, story) {
			return story
		}

		// 内容检查失败，发起一次更严格的改写并无条件接受结果
		return g.strictRetry(ctx, req, vars, parsed.Content)
	}

	return nil
}

// acceptStory 内容检查：词数窗口、内容安全、词汇难度、角色名出现
func (g *Generator) acceptStory(ctx context.Context, story *entity.GeneratedStory) bool {
	low, high := acceptableWordWindow(story.TargetMinWords, story.TargetMaxWords)
	if story.WordCount < low || story.WordCount > high {
		logger.Debug(ctx, "story word count out of range",
			"word_count", story.WordCount, "low", low, "high", high)
		return false
	}
	if !g.filter.ValidateStoryContent(story.Content) {
		metrics.SafetyRejectionsTotal.WithLabelValues("content").Inc()
		logger.Debug(ctx, "story content failed safety check")
		return false
	}
	if !g.filter.ValidateAgeAppropriateVocabulary(story.Content) {
		metrics.SafetyRejectionsTotal.WithLabelValues("content").Inc()
		logger.Debug(ctx, "story vocabulary too advanced for age band")
		return false
	}
	if !story.ContainsCharacterNames() {
		logger.Debug(ctx, "story is missing requested characters")
		return false
	}
	return true
}

// strictRetry 内容检查失败后的一次改写，结果无条件接受
// 改写调用本身失败时返回 nil，由兜底模板接手
func (g *Generator) strictRetry(ctx context.Context, req *entity.StoryRequest, vars wfmodel.StoryPromptVars, previous string) *entity.GeneratedStory {
	retryIn := &wfmodel.StoryRetryInput{
		Provider:       g.provider,
		Vars:           vars,
		PreviousStory:  previous,
		CharacterNames: CharacterNameList(req),
	}

	msg, err := g.chain.InvokeRetry(ctx, retryIn)
	if err != nil {
		logger.Warn(ctx, "story strict retry failed", "error", err.Error())
		return nil
	}

	parsed := ParseStoryResponse(msg.Content)
	if strings.TrimSpace(parsed.Content) == "" {
		return nil
	}
	return entity.NewGeneratedStory(parsed.Title, parsed.Content, parsed.Moral, req)
}

// acceptableWordWindow 在目标区间上放宽两成
// 下限最低不低于目标下限的一半
func acceptableWordWindow(minWords, maxWords int) (low int, high int) {
	flex := minWords / 5
	low = minWords - flex
	if floor := minWords / 2; low < floor {
		low = floor
	}
	high = maxWords + maxWords/5
	return low, high
}
