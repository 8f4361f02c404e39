package dto

// SynthesizeNarrationRequest 配音合成请求
type SynthesizeNarrationRequest struct {
	Text  string `json:"text" binding:"required"`
	Voice string `json:"voice"`
}

// SynthesizeNarrationResponse 配音合成响应
type SynthesizeNarrationResponse struct {
	Ref   string `json:"ref"`
	Voice string `json:"voice"`
}

// VoiceDTO 配音风格
type VoiceDTO struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}
