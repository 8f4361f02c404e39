package dto

import (
	"time"

	"wondertales-api/internal/domain/entity"
)

// CharacterDTO 角色传输对象
type CharacterDTO struct {
	Name     string `json:"name"`
	Pronouns string `json:"pronouns"`
}

// CreateStoryRequest 故事生成请求
// 字段不做 binding 校验，交给领域层一次性报告全部问题
type CreateStoryRequest struct {
	Characters          []CharacterDTO `json:"characters"`
	Topic               string         `json:"topic"`
	Keywords            []string       `json:"keywords"`
	AgeBand             string         `json:"age_band"`
	LengthTier          string         `json:"length_tier"`
	IncludeIllustration bool           `json:"include_illustration"`
	IncludeNarration    bool           `json:"include_narration"`
	NarrationVoice      string         `json:"narration_voice"`
}

// ToEntity 转换为领域请求
// 不做任何校验，非法值原样带入以便 Validate 全量报告
func (r *CreateStoryRequest) ToEntity() *entity.StoryRequest {
	characters := make([]entity.Character, 0, len(r.Characters))
	for _, c := range r.Characters {
		characters = append(characters, entity.Character{
			Name:     c.Name,
			Pronouns: entity.PronounSet(c.Pronouns),
		})
	}
	return &entity.StoryRequest{
		Characters:          characters,
		Topic:               entity.Topic(r.Topic),
		Keywords:            r.Keywords,
		AgeBand:             entity.AgeBand(r.AgeBand),
		LengthTier:          entity.LengthTier(r.LengthTier),
		IncludeIllustration: r.IncludeIllustration,
		IncludeNarration:    r.IncludeNarration,
	}
}

// ValidateStoryResponse 校验结果
type ValidateStoryResponse struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues,omitempty"`
}

// StoryResponse 故事响应
type StoryResponse struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Content         string         `json:"content"`
	Moral           string         `json:"moral"`
	Characters      []CharacterDTO `json:"characters"`
	Topic           string         `json:"topic"`
	AgeBand         string         `json:"age_band"`
	LengthTier      string         `json:"length_tier"`
	WordCount       int            `json:"word_count"`
	TargetMinWords  int            `json:"target_min_words"`
	TargetMaxWords  int            `json:"target_max_words"`
	IllustrationURL string         `json:"illustration_url,omitempty"`
	NarrationRef    string         `json:"narration_ref,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// StoryResponseFromEntity 从领域实体构造响应
func StoryResponseFromEntity(story *entity.GeneratedStory, narrationRef string) StoryResponse {
	characters := make([]CharacterDTO, 0, len(story.Characters))
	for _, c := range story.Characters {
		characters = append(characters, CharacterDTO{
			Name:     c.Name,
			Pronouns: string(c.Pronouns),
		})
	}
	return StoryResponse{
		ID:              story.ID,
		Title:           story.Title,
		Content:         story.Content,
		Moral:           story.Moral,
		Characters:      characters,
		Topic:           string(story.Topic),
		AgeBand:         string(story.AgeBand),
		LengthTier:      string(story.LengthTier),
		WordCount:       story.WordCount,
		TargetMinWords:  story.TargetMinWords,
		TargetMaxWords:  story.TargetMaxWords,
		IllustrationURL: story.IllustrationURL,
		NarrationRef:    narrationRef,
		CreatedAt:       story.CreatedAt,
	}
}
