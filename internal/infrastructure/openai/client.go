// Package openai 封装 OpenAI 图像生成与语音合成能力
package openai

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"wondertales-api/internal/config"
)

// MediaClient 调用 OpenAI 的图像与语音接口
type MediaClient struct {
	cfg  config.OpenAIMediaConfig
	opts []option.RequestOption
}

// NewMediaClient 创建媒体客户端，凭证缺失时 Available 返回 false
func NewMediaClient(cfg *config.Config) *MediaClient {
	mediaCfg := cfg.Media.OpenAI
	opts := []option.RequestOption{}
	if strings.TrimSpace(mediaCfg.APIKey) != "" {
		opts = append(opts, option.WithAPIKey(mediaCfg.APIKey))
	}
	if strings.TrimSpace(mediaCfg.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(mediaCfg.BaseURL))
	}
	if mediaCfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(mediaCfg.Timeout))
	}
	return &MediaClient{cfg: mediaCfg, opts: opts}
}

// Available 判断是否配置了可用的凭证
func (c *MediaClient) Available() bool {
	return c != nil && strings.TrimSpace(c.cfg.APIKey) != ""
}

// GenerateImage 生成单张插画并返回图片 URL
func (c *MediaClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("openai media client not configured")
	}

	client := openai.NewClient(c.opts...)
	res, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(c.cfg.ImageModel),
		Size:   openai.ImageGenerateParamsSize(c.cfg.ImageSize),
		N:      openai.Int(1),
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	if res == nil || len(res.Data) == 0 || res.Data[0].URL == "" {
		return "", fmt.Errorf("image generation returned no result")
	}
	return res.Data[0].URL, nil
}

// Synthesize 合成语音并返回 MP3 音频字节
func (c *MediaClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if !c.Available() {
		return nil, fmt.Errorf("openai media client not configured")
	}

	client := openai.NewClient(c.opts...)
	res, err := client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModel(c.cfg.TTSModel),
		Input: text,
		Voice: openai.AudioSpeechNewParamsVoice(voice),
		Speed: openai.Float(c.cfg.TTSSpeed),
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("speech synthesis returned empty audio")
	}
	return data, nil
}
