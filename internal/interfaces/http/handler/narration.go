package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wondertales-api/internal/application/narration"
	"wondertales-api/internal/infrastructure/persistence/redis"
	"wondertales-api/internal/interfaces/http/dto"
)

// NarrationHandler 配音处理器
type NarrationHandler struct {
	narration *narration.Service
}

// NewNarrationHandler 创建配音处理器
func NewNarrationHandler(narrationSvc *narration.Service) *NarrationHandler {
	return &NarrationHandler{narration: narrationSvc}
}

// Voices 列出可用配音风格
// @Summary 列出配音风格
// @Tags Narration
// @Produce json
// @Success 200 {array} dto.VoiceDTO
// @Router /v1/voices [get]
func (h *NarrationHandler) Voices(c *gin.Context) {
	voices := narration.Voices()
	out := make([]dto.VoiceDTO, 0, len(voices))
	for _, v := range voices {
		out = append(out, dto.VoiceDTO{
			Key:         v.Key,
			DisplayName: v.DisplayName,
			Description: v.Description,
		})
	}
	dto.Success(c, out)
}

// Synthesize 合成配音
// @Summary 合成配音
// @Description 为给定文本合成配音，相同文本和风格复用缓存
// @Tags Narration
// @Accept json
// @Produce json
// @Success 200 {object} dto.SynthesizeNarrationResponse
// @Router /v1/narration [post]
func (h *NarrationHandler) Synthesize(c *gin.Context) {
	var req dto.SynthesizeNarrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	voice := narration.ResolveVoice(req.Voice)
	ref, ok := h.narration.Synthesize(c.Request.Context(), req.Text, voice.Key)
	if !ok {
		dto.ServiceUnavailable(c, "narration unavailable")
		return
	}

	dto.Success(c, dto.SynthesizeNarrationResponse{
		Ref:   ref,
		Voice: voice.Key,
	})
}

// Audio 按引用读取配音音频
// @Summary 读取配音音频
// @Tags Narration
// @Produce audio/mpeg
// @Success 200 {file} binary
// @Router /v1/narration/{ref} [get]
func (h *NarrationHandler) Audio(c *gin.Context) {
	ref := c.Param("ref")

	data, err := h.narration.Audio(c.Request.Context(), ref)
	if err != nil {
		if redis.IsNil(err) {
			dto.NotFound(c, "narration audio not found or expired")
			return
		}
		dto.InternalError(c, "failed to read narration audio")
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", data)
}
