package i18n

import "strings"

// Translator retrieves localized messages for error codes.
// data provides the message parameters: "detail" always holds the untranslated
// English message; codes may add "value", "type" or "key".
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"parse_error":   "{detail}",
		"duplicate_key": "{detail}",
		"invalid_type":  "Error converting value {value} to type '{type}'.",
		"overflow":      "Value {value} is too large or too small for type '{type}'.",
		"unknown_key":   "Could not find member '{key}' on object of type '{type}'.",
		"required":      "Required property '{key}' not found in JSON.",
	},
	"ja": {
		"parse_error":   "解析エラー: {detail}",
		"duplicate_key": "キーが重複しています: {detail}",
		"invalid_type":  "値 {value} を型 '{type}' に変換できません。",
		"overflow":      "値 {value} は型 '{type}' の範囲外です。",
		"unknown_key":   "型 '{type}' にメンバー '{key}' は存在しません。",
		"required":      "必須プロパティ '{key}' がJSONにありません。",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		if d, ok := data["detail"]; ok && d != "" {
			return d
		}
		return code
	}
	return expand(tmpl, data)
}

// expand replaces {name} placeholders in one pass. A template whose
// placeholders are not all supplied falls back to the detail message.
func expand(tmpl string, data map[string]string) string {
	for _, k := range []string{"value", "type", "key", "detail"} {
		if _, ok := data[k]; !ok && strings.Contains(tmpl, "{"+k+"}") {
			if d := data["detail"]; d != "" {
				return d
			}
			break
		}
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Dict returns the built-in dictionary Translator for lang ("en" or "ja";
// anything else means "en").
func Dict(lang string) Translator {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

// Default is the English dictionary.
var Default Translator = Dict("en")
