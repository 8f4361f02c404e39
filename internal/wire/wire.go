// Package wire 提供依赖装配
package wire

import (
	"context"
	"fmt"

	"wondertales-api/internal/application/illustration"
	"wondertales-api/internal/application/narration"
	"wondertales-api/internal/application/safety"
	"wondertales-api/internal/application/story"
	"wondertales-api/internal/config"
	"wondertales-api/internal/infrastructure/llm"
	infraopenai "wondertales-api/internal/infrastructure/openai"
	"wondertales-api/internal/infrastructure/persistence/redis"
	"wondertales-api/internal/interfaces/http/handler"
	"wondertales-api/internal/interfaces/http/router"
	"wondertales-api/internal/workflow/chain"
	"wondertales-api/pkg/logger"
)

// InitializeApp 组装整个应用并返回路由器和清理函数
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	// 数据层
	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	cache := redis.NewCache(redisClient)

	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			logger.Error(ctx, "failed to close redis client", err)
		}
	}

	// LLM 与媒体后端
	llmFactory := llm.NewEinoFactory(cfg)
	mediaClient := infraopenai.NewMediaClient(cfg)

	// 应用层
	filter := safety.NewFilter()
	storyChain := chain.NewStoryChain(llmFactory)
	illustrator := illustration.NewRequester(mediaClient, filter, cfg.Features.Illustration.Enabled)
	generator := story.NewGenerator(cfg, storyChain, filter, illustrator, llmFactory.Available)
	narrationSvc := narration.NewService(cfg, mediaClient, cache)

	// 接口层
	handlers := router.Handlers{
		Health:    handler.NewHealthHandler(redisClient, llmFactory),
		Story:     handler.NewStoryHandler(generator, narrationSvc),
		Narration: handler.NewNarrationHandler(narrationSvc),
	}

	return router.New(cfg, handlers), cleanup, nil
}
