// Package i18n отдает тексты бота по ключу и языку.
package i18n

import "strings"

// DefaultLanguage язык, к которому откатывается поиск текста
const DefaultLanguage = "uz"

// Text возвращает текст по ключу: язык, затем язык по умолчанию, затем сам ключ
func Text(lang, key string) string {
	if t, ok := texts[lang][key]; ok {
		return t
	}
	if t, ok := texts[DefaultLanguage][key]; ok {
		return t
	}
	return key
}

// Format подставляет пары имя/значение в плейсхолдеры {name}
func Format(lang, key string, pairs ...string) string {
	text := Text(lang, key)
	if len(pairs) < 2 {
		return text
	}
	oldnew := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		oldnew = append(oldnew, "{"+pairs[i]+"}", pairs[i+1])
	}
	return strings.NewReplacer(oldnew...).Replace(text)
}

// Supported поддерживается ли язык
func Supported(lang string) bool {
	_, ok := texts[lang]
	return ok
}

// Languages коды языков в порядке показа
func Languages() []string {
	out := make([]string, len(languageOrder))
	copy(out, languageOrder)
	return out
}

// LanguageName подпись кнопки для языка
func LanguageName(lang string) string {
	if name, ok := languageNames[lang]; ok {
		return name
	}
	return lang
}

// MatchLabel совпадает ли текст с подписью key на любом из языков.
// Пользователь мог сменить язык, а клавиатура осталась старой.
func MatchLabel(text, key string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, lang := range languageOrder {
		if label, ok := texts[lang][key]; ok && label == text {
			return true
		}
	}
	return false
}
