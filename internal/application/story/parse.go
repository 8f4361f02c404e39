package story

import (
	"strings"
)

// 模型被要求按 TITLE:/STORY:/MORAL: 三段输出
const (
	markerTitle = "TITLE:"
	markerStory = "STORY:"
	markerMoral = "MORAL:"
)

// defaultMoral 解析不出寓意时的兜底
const defaultMoral = "Always be kind and help your friends."

// moralIndicators 启发式解析时用于定位寓意句的提示词
var moralIndicators = []string{
	"learn", "lesson", "important", "remember",
	"always", "never", "should", "kind", "help", "friend",
}

// ParsedStory 从模型原始输出解析出的三段内容
type ParsedStory struct {
	Title   string
	Content string
	Moral   string
	// Structured 为 true 表示按标记解析，false 表示走了启发式
	Structured bool
}

// ParseStoryResponse 解析模型输出
// 优先按 TITLE:/STORY:/MORAL: 标记逐行切分；标记不全时退回启发式解析
func ParseStoryResponse(raw string) ParsedStory {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ParsedStory{Moral: defaultMoral}
	}

	if parsed, ok := parseStructured(raw); ok {
		return parsed
	}
	return parseHeuristic(raw)
}

func parseStructured(raw string) (ParsedStory, bool) {
	var title, moral string
	var storyLines []string
	section := ""
	sawTitle, sawStory := false, false

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, markerTitle):
			title = strings.TrimSpace(strings.TrimPrefix(trimmed, markerTitle))
			section = "title"
			sawTitle = true
		case strings.HasPrefix(trimmed, markerStory):
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, markerStory))
			if rest != "" {
				storyLines = append(storyLines, rest)
			}
			section = "story"
			sawStory = true
		case strings.HasPrefix(trimmed, markerMoral):
			moral = strings.TrimSpace(strings.TrimPrefix(trimmed, markerMoral))
			section = "moral"
		default:
			switch section {
			case "story":
				storyLines = append(storyLines, line)
			case "moral":
				if trimmed != "" {
					if moral != "" {
						moral += " "
					}
					moral += trimmed
				}
			case "title":
				if title == "" && trimmed != "" {
					title = trimmed
				}
			}
		}
	}

	if !sawTitle || !sawStory {
		return ParsedStory{}, false
	}

	content := strings.TrimSpace(strings.Join(storyLines, "\n"))
	if content == "" {
		return ParsedStory{}, false
	}
	if moral == "" {
		moral = defaultMoral
	}
	return ParsedStory{
		Title:      title,
		Content:    content,
		Moral:      ensureMoralPunctuation(moral),
		Structured: true,
	}, true
}

// parseHeuristic 标记缺失时的兜底解析
// 首行当作标题（除非看起来已经是正文），最后一个含寓意提示词的句子当作寓意
func parseHeuristic(raw string) ParsedStory {
	lines := strings.Split(raw, "\n")

	title := ""
	contentStart := 0
	if len(lines) > 0 {
		first := strings.TrimSpace(lines[0])
		if first != "" && !looksLikeProse(first) {
			title = strings.TrimSuffix(strings.TrimSpace(first), ".")
			contentStart = 1
		}
	}

	content := strings.TrimSpace(strings.Join(lines[contentStart:], "\n"))
	if content == "" {
		content = raw
	}

	moral := defaultMoral
	sentences := splitSentences(content)
	for i := len(sentences) - 1; i >= 0; i-- {
		lower := strings.ToLower(sentences[i])
		for _, ind := range moralIndicators {
			if strings.Contains(lower, ind) {
				moral = ensureMoralPunctuation(strings.TrimSpace(sentences[i]))
				i = -1
				break
			}
		}
	}

	return ParsedStory{
		Title:   title,
		Content: content,
		Moral:   moral,
	}
}

// looksLikeProse 判断一行是否更像正文而非标题
func looksLikeProse(line string) bool {
	if len(strings.Fields(line)) > 12 {
		return true
	}
	return strings.HasSuffix(line, ".") && len(strings.Fields(line)) > 8
}

func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(b.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// ensureMoralPunctuation 保证寓意以句末标点结尾
func ensureMoralPunctuation(moral string) string {
	moral = strings.TrimSpace(moral)
	if moral == "" {
		return defaultMoral
	}
	switch moral[len(moral)-1] {
	case '.', '!', '?':
		return moral
	}
	return moral + "."
}
