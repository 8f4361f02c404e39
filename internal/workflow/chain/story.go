package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	llmctx "wondertales-api/internal/domain/service"
	wfmodel "wondertales-api/internal/workflow/model"
	workflowport "wondertales-api/internal/workflow/port"
	workflowprompt "wondertales-api/internal/workflow/prompt"
)

// StoryChain 故事生成链：模板格式化 + ChatModel 调用
type StoryChain struct {
	factory workflowport.ChatModelFactory
}

func NewStoryChain(factory workflowport.ChatModelFactory) *StoryChain {
	return &StoryChain{factory: factory}
}

var storyPromptRegistry = workflowprompt.NewRegistry()

func (c *StoryChain) Invoke(ctx context.Context, in *wfmodel.StoryGenerateInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Vars.CharacterList) == "" {
		return nil, fmt.Errorf("character list is required")
	}
	if in.Vars.MinWords <= 0 || in.Vars.MaxWords <= in.Vars.MinWords {
		return nil, fmt.Errorf("word range is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "story_generate", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatStoryMessages(ctx, in.Vars)
	if err != nil {
		return nil, err
	}

	outMsg, err := chatModel.Generate(ctx, msgs, buildStoryModelOptions(in.Temperature, in.MaxTokens, in.Model)...)
	if err != nil {
		return nil, err
	}
	if outMsg == nil {
		return nil, fmt.Errorf("empty llm response")
	}
	return outMsg, nil
}

// InvokeRetry 针对内容检查失败的故事做一次更严格的改写
func (c *StoryChain) InvokeRetry(ctx context.Context, in *wfmodel.StoryRetryInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.PreviousStory) == "" {
		return nil, fmt.Errorf("previous story is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "story_retry", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	tpl, err := storyPromptRegistry.ChatTemplate(workflowprompt.PromptStoryRetryV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"min_words":       in.Vars.MinWords,
		"max_words":       in.Vars.MaxWords,
		"character_names": strings.TrimSpace(in.CharacterNames),
		"previous_story":  strings.TrimSpace(in.PreviousStory),
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, err
	}

	outMsg, err := chatModel.Generate(ctx, msgs, buildStoryModelOptions(in.Temperature, in.MaxTokens, in.Model)...)
	if err != nil {
		return nil, err
	}
	if outMsg == nil {
		return nil, fmt.Errorf("empty llm response")
	}
	return outMsg, nil
}

func formatStoryMessages(ctx context.Context, vars wfmodel.StoryPromptVars) ([]*schema.Message, error) {
	tpl, err := storyPromptRegistry.ChatTemplate(workflowprompt.PromptStoryGenV1)
	if err != nil {
		return nil, err
	}
	tplVars := map[string]any{
		"age_band":             strings.TrimSpace(vars.AgeBand),
		"character_list":       strings.TrimSpace(vars.CharacterList),
		"pronoun_instructions": strings.TrimSpace(vars.PronounInstructions),
		"topic_context":        strings.TrimSpace(vars.TopicContext),
		"item_instructions":    strings.TrimSpace(vars.ItemInstructions),
		"vocabulary_directive": strings.TrimSpace(vars.VocabularyDirective),
		"min_words":            vars.MinWords,
		"max_words":            vars.MaxWords,
	}
	return tpl.Format(ctx, tplVars)
}

func buildStoryModelOptions(temperature *float32, maxTokens *int, modelName string) []model.Option {
	opts := make([]model.Option, 0, 3)
	if temperature != nil {
		opts = append(opts, model.WithTemperature(*temperature))
	}
	if maxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*maxTokens))
	}
	if strings.TrimSpace(modelName) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(modelName)))
	}
	return opts
}
