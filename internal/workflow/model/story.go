// Package model 定义工作流层的输入输出模型
package model

import "time"

// StoryPromptVars 故事提示词模板变量
// 由应用层的提示词构建器填充，模板层只做占位符替换
type StoryPromptVars struct {
	AgeBand             string
	CharacterList       string
	PronounInstructions string
	TopicContext        string
	ItemInstructions    string
	VocabularyDirective string
	MinWords            int
	MaxWords            int
}

// StoryGenerateInput 故事生成输入
type StoryGenerateInput struct {
	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int

	Vars StoryPromptVars
}

// StoryRetryInput 内容检查失败后的二次生成输入
type StoryRetryInput struct {
	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int

	Vars StoryPromptVars

	// PreviousStory 第一次生成的原文，供模型改写
	PreviousStory string
	// CharacterNames 必须出现在正文中的角色名（逗号分隔）
	CharacterNames string
}

// LLMUsageMeta LLM 调用元数据
type LLMUsageMeta struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Temperature      float64
	GeneratedAt      time.Time
}

// StoryGenerateOutput 故事生成输出（未解析的原始文本）
type StoryGenerateOutput struct {
	Content string
	Meta    LLMUsageMeta
}
