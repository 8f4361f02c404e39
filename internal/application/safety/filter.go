// Package safety 提供儿童内容安全过滤器
// 过滤器无状态，策略表全部内置，可被任意组件并发调用
package safety

import (
	"regexp"
	"strings"

	"wondertales-api/internal/domain/entity"
)

// bannedTerms 禁用词表
// 采用子串匹配：宁可误伤无害的超串，也不放过组合出的不当短语
var bannedTerms = []string{
	"scary", "violent", "death", "kill", "hurt", "blood",
	"weapon", "gun", "knife", "fight", "angry", "hate",
	"monster", "ghost", "nightmare", "scream", "evil",
	"demon", "poison", "battle",
}

// complexityPatterns 复杂度特征：长词、分号/冒号、书面连接词
// 命中任意一条即视为超出低龄阅读能力
var complexityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Za-z]{12,}\b`),
	regexp.MustCompile(`[;:]`),
	regexp.MustCompile(`(?i)\b(nevertheless|furthermore|consequently|notwithstanding|nonetheless|moreover|whereas|albeit|henceforth)\b`),
}

// positivityWords 正向词表，安全故事至少要出现其中一个
var positivityWords = []string{
	"happy", "friend", "kind", "help", "love", "smile",
	"fun", "joy", "laugh", "play", "share", "care",
	"brave", "good", "wonderful", "amazing",
}

// longWordAllowList 超过 8 个字母但儿童可以理解的常见词
var longWordAllowList = map[string]struct{}{
	"adventure":  {},
	"adventures": {},
	"beautiful":  {},
	"butterflies": {},
	"celebrate":  {},
	"delicious":  {},
	"different":  {},
	"discovered": {},
	"everything": {},
	"excitement": {},
	"friendship": {},
	"important":  {},
	"neighbors":  {},
	"playground": {},
	"remembered": {},
	"something":  {},
	"sparkling":  {},
	"wonderful":  {},
}

// topicDangerWords 主题相关危险词：单独无害，但与特定主题组合后不安全
var topicDangerWords = map[entity.Topic][]string{
	entity.TopicDragons:   {"fire", "burn", "destroy", "attack", "fierce"},
	entity.TopicSpace:     {"crash", "explode", "invasion", "stranded"},
	entity.TopicCommunity: {"stranger", "danger", "accident", "lost"},
	entity.TopicFairies:   {"curse", "hex", "trick", "wicked"},
}

// sanitizeReplacements 离开进程边界前的不安全词替换表
var sanitizeReplacements = map[string]string{
	"scary":      "surprising",
	"monster":    "creature",
	"frightened": "amazed",
	"dark":       "cozy",
	"violent":    "playful",
	"battle":     "game",
	"sad":        "thoughtful",
	"crying":     "smiling",
	"angry":      "excited",
	"ghost":      "sprite",
	"death":      "sleep",
	"fight":      "race",
}

// neutralSubstitute 兜底替换词，用于替换未在替换表中的禁用词
const neutralSubstitute = "gentle"

var wordTokenPattern = regexp.MustCompile(`[A-Za-z]+`)

// 安全评分参数
const (
	bannedPenalty     = 0.3
	complexityPenalty = 0.15
	positivityBonus   = 0.05
	maxPositivityGain = 0.2
)

// Filter 内容安全过滤器
type Filter struct{}

// NewFilter 创建内容安全过滤器
func NewFilter() *Filter {
	return &Filter{}
}

// ValidateKeywords 校验关键词列表
// 任意关键词（忽略大小写、trim 后）内包含禁用词子串即拒绝
func (f *Filter) ValidateKeywords(keywords []string) bool {
	for _, kw := range keywords {
		if !f.keywordSafe(kw) {
			return false
		}
	}
	return true
}

// FilterInappropriateKeywords 仅保留逐个通过校验的关键词
func (f *Filter) FilterInappropriateKeywords(keywords []string) []string {
	filtered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if f.keywordSafe(kw) {
			filtered = append(filtered, kw)
		}
	}
	return filtered
}

func (f *Filter) keywordSafe(keyword string) bool {
	normalized := strings.ToLower(strings.TrimSpace(keyword))
	for _, banned := range bannedTerms {
		if strings.Contains(normalized, banned) {
			return false
		}
	}
	return true
}

// ValidateStoryContent 校验完整故事文本
// 四个条件缺一不可：非空、无禁用词、无复杂度特征、至少一个正向词
func (f *Filter) ValidateStoryContent(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	lower := strings.ToLower(text)
	for _, banned := range bannedTerms {
		if strings.Contains(lower, banned) {
			return false
		}
	}

	for _, pattern := range complexityPatterns {
		if pattern.MatchString(text) {
			return false
		}
	}

	for _, positive := range positivityWords {
		if strings.Contains(lower, positive) {
			return true
		}
	}
	return false
}

// ValidateAgeAppropriateVocabulary 逐词校验词汇难度
// 比 ValidateStoryContent 更严格，可独立调用
func (f *Filter) ValidateAgeAppropriateVocabulary(text string) bool {
	tokens := wordTokenPattern.FindAllString(text, -1)
	for _, token := range tokens {
		lower := strings.ToLower(token)
		if len(lower) > 2 {
			for _, banned := range bannedTerms {
				if lower == banned {
					return false
				}
			}
		}
		if len(lower) > 8 {
			if _, ok := longWordAllowList[lower]; !ok {
				return false
			}
		}
	}
	return true
}

// ValidateThemeSafety 校验主题与关键词的组合安全性
// 单独安全的词在特定主题下可能变得不安全（如 dragons + fire）
func (f *Filter) ValidateThemeSafety(topic entity.Topic, keywords []string) bool {
	if !f.ValidateKeywords(keywords) {
		return false
	}
	if !entity.IsValidTopic(topic) {
		return false
	}

	danger := topicDangerWords[topic]
	for _, kw := range keywords {
		normalized := strings.ToLower(strings.TrimSpace(kw))
		for _, d := range danger {
			if strings.Contains(normalized, d) {
				return false
			}
		}
	}
	return true
}

// ContentSafetyScore 计算 [0,1] 安全评分，仅用于诊断
// 管线的放行与否只看 Validate* 布尔结果，不看评分
func (f *Filter) ContentSafetyScore(text string) float64 {
	score := 1.0
	lower := strings.ToLower(text)

	for _, banned := range bannedTerms {
		score -= bannedPenalty * float64(strings.Count(lower, banned))
	}

	for _, pattern := range complexityPatterns {
		score -= complexityPenalty * float64(len(pattern.FindAllString(text, -1)))
	}

	bonus := 0.0
	for _, positive := range positivityWords {
		if strings.Contains(lower, positive) {
			bonus += positivityBonus
		}
	}
	if bonus > maxPositivityGain {
		bonus = maxPositivityGain
	}
	score += bonus

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// SanitizeForPrompt 替换文本中的不安全词，用于外发提示词（如插画请求）
// 已知词用替换表，其余禁用词统一换成中性词
func (f *Filter) SanitizeForPrompt(text string) string {
	sanitized := wordTokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		if repl, ok := sanitizeReplacements[strings.ToLower(token)]; ok {
			return repl
		}
		return token
	})

	lower := strings.ToLower(sanitized)
	for _, banned := range bannedTerms {
		for strings.Contains(lower, banned) {
			idx := strings.Index(lower, banned)
			sanitized = sanitized[:idx] + neutralSubstitute + sanitized[idx+len(banned):]
			lower = strings.ToLower(sanitized)
		}
	}
	return sanitized
}
