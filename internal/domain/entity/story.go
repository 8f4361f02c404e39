// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GeneratedStory 生成完成的故事产物
// 由工厂方法创建后不再修改，唯一例外是 IllustrationURL 可由插画请求器事后补挂
type GeneratedStory struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Content         string      `json:"content"`
	Moral           string      `json:"moral"`
	Characters      []Character `json:"characters"`
	Topic           Topic       `json:"topic"`
	AgeBand         AgeBand     `json:"age_band"`
	LengthTier      LengthTier  `json:"length_tier"`
	TargetMinWords  int         `json:"target_min_words"`
	TargetMaxWords  int         `json:"target_max_words"`
	WordCount       int         `json:"word_count"`
	IllustrationURL string      `json:"illustration_url,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// CountWords 统计正文词数（按空白切分）
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// NewGeneratedStory 创建故事产物，自动生成 ID、时间戳，并从正文重新计算词数
// 词数永远以正文为准，不信任上游传入的值
func NewGeneratedStory(title, content, moral string, req *StoryRequest) *GeneratedStory {
	minWords, maxWords := req.TargetWordCountRange()

	characters := make([]Character, len(req.Characters))
	copy(characters, req.Characters)

	return &GeneratedStory{
		ID:             uuid.New().String(),
		Title:          strings.TrimSpace(title),
		Content:        strings.TrimSpace(content),
		Moral:          strings.TrimSpace(moral),
		Characters:     characters,
		Topic:          req.Topic,
		AgeBand:        req.AgeBand,
		LengthTier:     req.LengthTier,
		TargetMinWords: minWords,
		TargetMaxWords: maxWords,
		WordCount:      CountWords(content),
		CreatedAt:      time.Now().UTC(),
	}
}

// AttachIllustration 补挂插画引用，是构造后唯一允许的字段变更
func (s *GeneratedStory) AttachIllustration(url string) {
	if strings.TrimSpace(url) == "" {
		return
	}
	s.IllustrationURL = url
}

// ContainsCharacterNames 检查正文是否包含全部角色名（大小写不敏感）
func (s *GeneratedStory) ContainsCharacterNames() bool {
	lower := strings.ToLower(s.Content)
	for _, c := range s.Characters {
		if !strings.Contains(lower, strings.ToLower(strings.TrimSpace(c.Name))) {
			return false
		}
	}
	return true
}
