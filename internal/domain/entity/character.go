// Package entity 定义领域实体
package entity

import (
	"fmt"
	"regexp"
	"strings"
)

// PronounSet 角色代词组合
type PronounSet string

const (
	PronounHeHim    PronounSet = "he/him"
	PronounSheHer   PronounSet = "she/her"
	PronounTheyThem PronounSet = "they/them"
)

// namePattern 角色名只允许 ASCII 字母和空白
var namePattern = regexp.MustCompile(`^[A-Za-z\s]+$`)

// ValidationError 字段校验错误，携带违规值
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// Character 故事角色
// 构造成功后即视为合法，不再修改
type Character struct {
	Name     string     `json:"name"`
	Pronouns PronounSet `json:"pronouns"`
}

// NewCharacter 创建角色，字段非法时立即失败，不产生半合法对象
func NewCharacter(name string, pronouns PronounSet) (Character, error) {
	c := Character{Name: name, Pronouns: pronouns}
	if !c.ValidateName() {
		return Character{}, &ValidationError{
			Field:   "character name",
			Value:   name,
			Message: "names must contain only letters and spaces",
		}
	}
	if !c.ValidatePronouns() {
		return Character{}, &ValidationError{
			Field:   "character pronouns",
			Value:   string(pronouns),
			Message: "must be one of he/him, she/her, they/them",
		}
	}
	return c, nil
}

// ValidateName 校验角色名：trim 后非空且只含字母和空白
func (c Character) ValidateName() bool {
	trimmed := strings.TrimSpace(c.Name)
	if trimmed == "" {
		return false
	}
	return namePattern.MatchString(trimmed)
}

// ValidatePronouns 校验代词组合是否在枚举内（大小写敏感，不接受同义写法）
func (c Character) ValidatePronouns() bool {
	switch c.Pronouns {
	case PronounHeHim, PronounSheHer, PronounTheyThem:
		return true
	default:
		return false
	}
}
