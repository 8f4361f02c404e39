// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strings"
)

// Topic 故事主题
type Topic string

const (
	TopicSpace     Topic = "space"
	TopicCommunity Topic = "community"
	TopicDragons   Topic = "dragons"
	TopicFairies   Topic = "fairies"
)

// AgeBand 目标年龄段
type AgeBand string

const (
	AgeBand3To4  AgeBand = "3-4"
	AgeBand5To6  AgeBand = "5-6"
	AgeBand7To8  AgeBand = "7-8"
	AgeBand9To10 AgeBand = "9-10"
)

// LengthTier 故事长度档位
type LengthTier string

const (
	LengthShort  LengthTier = "short"
	LengthMedium LengthTier = "medium"
	LengthLong   LengthTier = "long"
)

const (
	// MinCharacters 每个请求最少角色数
	MinCharacters = 1
	// MaxCharacters 每个请求最多角色数
	MaxCharacters = 5
)

// IsValidTopic 检查主题是否在枚举内
func IsValidTopic(t Topic) bool {
	switch t {
	case TopicSpace, TopicCommunity, TopicDragons, TopicFairies:
		return true
	default:
		return false
	}
}

// IsValidAgeBand 检查年龄段是否在枚举内
func IsValidAgeBand(a AgeBand) bool {
	switch a {
	case AgeBand3To4, AgeBand5To6, AgeBand7To8, AgeBand9To10:
		return true
	default:
		return false
	}
}

// IsValidLengthTier 检查长度档位是否在枚举内
func IsValidLengthTier(l LengthTier) bool {
	switch l {
	case LengthShort, LengthMedium, LengthLong:
		return true
	default:
		return false
	}
}

// AllTopics 返回主题枚举（固定顺序）
func AllTopics() []Topic {
	return []Topic{TopicSpace, TopicCommunity, TopicDragons, TopicFairies}
}

// AllAgeBands 返回年龄段枚举（由小到大）
func AllAgeBands() []AgeBand {
	return []AgeBand{AgeBand3To4, AgeBand5To6, AgeBand7To8, AgeBand9To10}
}

// AllLengthTiers 返回长度档位枚举（由短到长）
func AllLengthTiers() []LengthTier {
	return []LengthTier{LengthShort, LengthMedium, LengthLong}
}

// StoryRequest 故事生成请求
// 由接口层构造，编排器只读不改
type StoryRequest struct {
	Characters          []Character `json:"characters"`
	Topic               Topic       `json:"topic"`
	Keywords            []string    `json:"keywords"`
	AgeBand             AgeBand     `json:"age_band"`
	LengthTier          LengthTier  `json:"length_tier"`
	IncludeIllustration bool        `json:"include_illustration"`
	IncludeNarration    bool        `json:"include_narration"`
}

// Validate 结构校验，返回全部违规信息（空切片表示合法）
// 关键词语义安全由内容安全过滤器单独负责，这里只做结构检查
func (r *StoryRequest) Validate() []string {
	var issues []string

	if len(r.Characters) < MinCharacters {
		issues = append(issues, "at least one character is required")
	} else if len(r.Characters) > MaxCharacters {
		issues = append(issues, fmt.Sprintf("maximum %d characters allowed", MaxCharacters))
	}

	for i := range r.Characters {
		c := r.Characters[i]
		path := fmt.Sprintf("characters[%d]", i)
		if !c.ValidateName() {
			issues = append(issues, fmt.Sprintf("%s.name invalid: %q, names must contain only letters and spaces", path, c.Name))
		}
		if !c.ValidatePronouns() {
			issues = append(issues, fmt.Sprintf("%s.pronouns invalid: %q, must be one of he/him, she/her, they/them", path, c.Pronouns))
		}
	}

	if !IsValidTopic(r.Topic) {
		issues = append(issues, fmt.Sprintf("topic invalid: %q, must be one of space, community, dragons, fairies", r.Topic))
	}

	// 关键词数量只允许 3 或 5，其余（包括 4）一律拒绝
	if n := len(r.Keywords); n != 3 && n != 5 {
		issues = append(issues, fmt.Sprintf("keyword count invalid: %d, must provide exactly 3 or 5 keywords", n))
	}
	for i, kw := range r.Keywords {
		if strings.TrimSpace(kw) == "" {
			issues = append(issues, fmt.Sprintf("keywords[%d] must not be blank", i))
		}
	}

	if !IsValidAgeBand(r.AgeBand) {
		issues = append(issues, fmt.Sprintf("age_band invalid: %q, must be one of 3-4, 5-6, 7-8, 9-10", r.AgeBand))
	}
	if !IsValidLengthTier(r.LengthTier) {
		issues = append(issues, fmt.Sprintf("length_tier invalid: %q, must be one of short, medium, long", r.LengthTier))
	}

	return issues
}

// IsValid 检查请求是否合法
func (r *StoryRequest) IsValid() bool {
	return len(r.Validate()) == 0
}

// wordRangeTable 各年龄段 × 长度档位的目标词数范围
// 本表是唯一权威来源，其他组件不得自行推算词数目标
var wordRangeTable = map[AgeBand]map[LengthTier][2]int{
	AgeBand3To4: {
		LengthShort:  {50, 100},
		LengthMedium: {80, 150},
		LengthLong:   {120, 200},
	},
	AgeBand5To6: {
		LengthShort:  {80, 150},
		LengthMedium: {120, 250},
		LengthLong:   {200, 350},
	},
	AgeBand7To8: {
		LengthShort:  {150, 250},
		LengthMedium: {250, 400},
		LengthLong:   {350, 550},
	},
	AgeBand9To10: {
		LengthShort:  {200, 300},
		LengthMedium: {350, 500},
		LengthLong:   {500, 700},
	},
}

// TargetWordCountRange 查询目标词数范围
// 未知组合回退到 5-6/medium，保证调用方总能拿到一个可用区间
func TargetWordCountRange(age AgeBand, tier LengthTier) (min int, max int) {
	if tiers, ok := wordRangeTable[age]; ok {
		if r, ok := tiers[tier]; ok {
			return r[0], r[1]
		}
	}
	r := wordRangeTable[AgeBand5To6][LengthMedium]
	return r[0], r[1]
}

// TargetWordCountRange 返回本请求的目标词数范围
func (r *StoryRequest) TargetWordCountRange() (min int, max int) {
	return TargetWordCountRange(r.AgeBand, r.LengthTier)
}
