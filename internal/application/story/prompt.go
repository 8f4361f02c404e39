// Package story 实现故事生成编排
package story

import (
	"fmt"
	"strings"

	"wondertales-api/internal/domain/entity"
	wfmodel "wondertales-api/internal/workflow/model"
)

// pronounForms 代词的三种语法形态
type pronounForms struct {
	Subject    string
	Object     string
	Possessive string
}

var pronounFormTable = map[entity.PronounSet]pronounForms{
	entity.PronounHeHim:    {Subject: "he", Object: "him", Possessive: "his"},
	entity.PronounSheHer:   {Subject: "she", Object: "her", Possessive: "her"},
	entity.PronounTheyThem: {Subject: "they", Object: "them", Possessive: "their"},
}

// topicContextTable 各主题的场景描述，直接进入提示词
var topicContextTable = map[entity.Topic]string{
	entity.TopicSpace:     "a wonderful journey among friendly stars, planets and a cozy little spaceship",
	entity.TopicCommunity: "a cheerful neighborhood where everyone helps each other and works together",
	entity.TopicDragons:   "a magical land of gentle, friendly dragons who love to play and share",
	entity.TopicFairies:   "an enchanted garden where kind fairies sprinkle happiness and help their friends",
}

// itemRoles 前三个关键词在故事中扮演的角色
// 关键词不足三个时用默认道具补齐
var itemRoles = [3]string{
	"a special object the heroes discover",
	"something helpful the heroes carry on their journey",
	"a friendly companion the heroes meet along the way",
}

var defaultItems = [3]string{"magic wand", "adventure backpack", "friendly wolf"}

// vocabularyDirectiveTable 各年龄段的用词指令
var vocabularyDirectiveTable = map[entity.AgeBand]string{
	entity.AgeBand3To4:  "Use very simple words with one or two syllables. Repeat key phrases. Keep every sentence under eight words.",
	entity.AgeBand5To6:  "Use simple, everyday words a kindergartner knows. Keep sentences short and clear.",
	entity.AgeBand7To8:  "Use elementary school vocabulary. Sentences can be a little longer but stay easy to follow.",
	entity.AgeBand9To10: "Use rich but age-appropriate vocabulary. Varied sentence structure is welcome, complex clauses are not.",
}

// BuildPromptVars 将请求展开为提示词模板变量
// 请求必须已通过结构校验，这里不再重复检查
func BuildPromptVars(req *entity.StoryRequest) wfmodel.StoryPromptVars {
	minWords, maxWords := req.TargetWordCountRange()

	names := make([]string, 0, len(req.Characters))
	pronounLines := make([]string, 0, len(req.Characters))
	for _, c := range req.Characters {
		name := strings.TrimSpace(c.Name)
		names = append(names, name)
		forms := pronounFormTable[c.Pronouns]
		pronounLines = append(pronounLines, fmt.Sprintf(
			"- Refer to %s as %q (subject), %q (object) and use %q as the possessive form.",
			name, forms.Subject, forms.Object, forms.Possessive,
		))
	}

	items := make([]string, 3)
	for i := 0; i < 3; i++ {
		if i < len(req.Keywords) && strings.TrimSpace(req.Keywords[i]) != "" {
			items[i] = strings.TrimSpace(req.Keywords[i])
		} else {
			items[i] = defaultItems[i]
		}
	}
	itemLines := make([]string, 0, len(req.Keywords))
	for i, item := range items {
		itemLines = append(itemLines, fmt.Sprintf("- %q plays the part of %s.", item, itemRoles[i]))
	}
	// 五关键词请求的第四、五个没有固定角色，作为自由元素织入
	for i := 3; i < len(req.Keywords); i++ {
		kw := strings.TrimSpace(req.Keywords[i])
		if kw == "" {
			continue
		}
		itemLines = append(itemLines, fmt.Sprintf("- Include %q naturally somewhere in the story.", kw))
	}

	topicContext, ok := topicContextTable[req.Topic]
	if !ok {
		topicContext = topicContextTable[entity.TopicCommunity]
	}
	vocabDirective, ok := vocabularyDirectiveTable[req.AgeBand]
	if !ok {
		vocabDirective = vocabularyDirectiveTable[entity.AgeBand5To6]
	}

	return wfmodel.StoryPromptVars{
		AgeBand:             string(req.AgeBand),
		CharacterList:       strings.Join(names, ", "),
		PronounInstructions: strings.Join(pronounLines, "\n"),
		TopicContext:        topicContext,
		ItemInstructions:    strings.Join(itemLines, "\n"),
		VocabularyDirective: vocabDirective,
		MinWords:            minWords,
		MaxWords:            maxWords,
	}
}

// CharacterNameList 返回逗号分隔的角色名，供重试提示词使用
func CharacterNameList(req *entity.StoryRequest) string {
	names := make([]string, 0, len(req.Characters))
	for _, c := range req.Characters {
		names = append(names, strings.TrimSpace(c.Name))
	}
	return strings.Join(names, ", ")
}
