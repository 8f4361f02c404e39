package handler

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"wondertales-api/internal/application/narration"
	"wondertales-api/internal/application/story"
	"wondertales-api/internal/interfaces/http/dto"
	"wondertales-api/pkg/errors"
)

// StoryHandler 故事生成处理器
type StoryHandler struct {
	generator *story.Generator
	narration *narration.Service
}

// NewStoryHandler 创建故事生成处理器
func NewStoryHandler(generator *story.Generator, narrationSvc *narration.Service) *StoryHandler {
	return &StoryHandler{
		generator: generator,
		narration: narrationSvc,
	}
}

// Validate 校验故事请求
// @Summary 校验故事请求
// @Description 只做校验不生成，返回全部违规信息
// @Tags Story
// @Accept json
// @Produce json
// @Success 200 {object} dto.ValidateStoryResponse
// @Router /v1/stories/validate [post]
func (h *StoryHandler) Validate(c *gin.Context) {
	var req dto.CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	issues := h.generator.ValidateRequest(req.ToEntity())
	dto.Success(c, dto.ValidateStoryResponse{
		Valid:  len(issues) == 0,
		Issues: issues,
	})
}

// Create 生成故事
// @Summary 生成故事
// @Description 校验请求并生成一篇儿童故事，按需附带插画和配音
// @Tags Story
// @Accept json
// @Produce json
// @Success 201 {object} dto.StoryResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/stories [post]
func (h *StoryHandler) Create(c *gin.Context) {
	var req dto.CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	entityReq := req.ToEntity()
	generated, err := h.generator.Generate(c.Request.Context(), entityReq)
	if err != nil {
		var validationErr *story.RequestValidationError
		if stderrors.As(err, &validationErr) {
			dto.UnprocessableEntity(c, "story request validation failed", &dto.ErrorDetail{
				ErrorCode:   string(errors.CodeValidationFailed),
				Suggestions: validationErr.Issues,
			})
			return
		}
		if errors.IsAppError(err) {
			appErr := errors.AsAppError(err)
			dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
				ErrorCode: string(appErr.Code),
				Details:   appErr.Detail,
			})
			return
		}
		dto.InternalError(c, "story generation failed")
		return
	}

	narrationRef := ""
	if entityReq.IncludeNarration {
		if ref, ok := h.narration.Synthesize(c.Request.Context(), generated.Content, req.NarrationVoice); ok {
			narrationRef = ref
		}
	}

	dto.Created(c, dto.StoryResponseFromEntity(generated, narrationRef))
}
