package i18n

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Translator retrieves localized messages for issue codes.
// data provides optional metadata to embed in the message (for example,
// "property").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang language.Tag }

var dictionaries = map[language.Tag]map[string]string{
	language.English: {
		"required":      "Property '{property}' is required",
		"unknown_key":   "Unknown property {property}",
		"invalid_type":  "Unsupported type for {property} value",
		"immutable":     "Object is immutable",
		"duplicate_key": "Duplicate property {property}",
		"parse_error":   "parse error",
	},
	language.Japanese: {
		"required":      "必須プロパティ '{property}' が不足しています",
		"unknown_key":   "未知のプロパティです: {property}",
		"invalid_type":  "{property} の値の型がサポートされていません",
		"immutable":     "オブジェクトは変更できません",
		"duplicate_key": "プロパティが重複しています: {property}",
		"parse_error":   "解析エラー",
	},
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Japanese})

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: language.English}
)

// SetLanguage switches the built-in Translator language. lang is a BCP 47
// tag ("ja", "ja-JP", "en-GB"); unsupported or malformed tags fall back to
// English.
func SetLanguage(lang string) {
	tag := language.English
	if parsed, err := language.Parse(lang); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No && idx == 1 {
			tag = language.Japanese
		}
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: tag}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: language.English}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
