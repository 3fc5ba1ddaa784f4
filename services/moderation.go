package services

import (
	"log"
	"regexp"
	"strings"
	"sync"
)

// DefaultBannedKeywords базовый список стоп-слов (узбекский, русский, английский)
var DefaultBannedKeywords = []string{
	"seks", "jinsiy", "porno", "skachat porno", "kottalar uchun", "yechinish", "yalangoch", "siki", "sikish", "am", "qo'toq",
	"секс", "порно", "инцест", "член", "вагина", "трах", "сосать", "бля", "шлюха", "голые",
	"sex", "porn", "xxx", "nude", "naked", "fuck", "dick", "pussy", "adult only", "18+", "nsfw",
}

// Причины небезопасного вердикта
const (
	ReasonKeyword  = "keyword"
	ReasonAgeLimit = "age_limit"
	ReasonMetadata = "metadata_keyword"
)

// Verdict результат проверки
type Verdict struct {
	Safe    bool
	Reason  string
	Keyword string
}

// StrikeRecord счётчик нарушений пользователя
type StrikeRecord struct {
	Count   int
	Blocked bool
}

type keywordMatcher struct {
	keyword string
	re      *regexp.Regexp
}

// Moderator проверяет текст и метаданные по списку слов и ведёт страйки.
// Слово совпадает только целиком: по краям начало/конец строки или символ,
// который не буква и не цифра. "am" находит "am", но не "aldamadim".
type Moderator struct {
	matchers []keywordMatcher
	limit    int
	strikes  map[int64]*StrikeRecord
	mutex    sync.Mutex
}

// NewModerator создает модератор. Пустой список = DefaultBannedKeywords.
func NewModerator(keywords []string, strikeLimit int) *Moderator {
	if len(keywords) == 0 {
		keywords = DefaultBannedKeywords
	}
	if strikeLimit <= 0 {
		strikeLimit = 3
	}
	m := &Moderator{limit: strikeLimit, strikes: make(map[int64]*StrikeRecord)}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		pattern := `(?i)(^|[^\p{L}\p{N}])` + regexp.QuoteMeta(kw) + `($|[^\p{L}\p{N}])`
		m.matchers = append(m.matchers, keywordMatcher{keyword: kw, re: regexp.MustCompile(pattern)})
	}
	return m
}

func (m *Moderator) match(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, km := range m.matchers {
		if km.re.MatchString(text) {
			return km.keyword, true
		}
	}
	return "", false
}

// CheckText проверяет пользовательский текст
func (m *Moderator) CheckText(text string) Verdict {
	if kw, hit := m.match(text); hit {
		return Verdict{Safe: false, Reason: ReasonKeyword, Keyword: kw}
	}
	return Verdict{Safe: true}
}

// CheckMetadata проверяет возрастное ограничение, теги, категории, заголовок и описание
func (m *Moderator) CheckMetadata(info *MediaInfo) Verdict {
	if info == nil {
		return Verdict{Safe: true}
	}
	if info.AgeLimit >= 18 {
		return Verdict{Safe: false, Reason: ReasonAgeLimit}
	}
	fields := make([]string, 0, len(info.Tags)+len(info.Categories)+2)
	fields = append(fields, info.Tags...)
	fields = append(fields, info.Categories...)
	fields = append(fields, info.Title, info.Description)
	for _, f := range fields {
		if kw, hit := m.match(f); hit {
			return Verdict{Safe: false, Reason: ReasonMetadata, Keyword: kw}
		}
	}
	return Verdict{Safe: true}
}

// AddStrike засчитывает нарушение и возвращает обновлённую запись
func (m *Moderator) AddStrike(userID int64) StrikeRecord {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	rec, ok := m.strikes[userID]
	if !ok {
		rec = &StrikeRecord{}
		m.strikes[userID] = rec
	}
	rec.Count++
	if rec.Count >= m.limit && !rec.Blocked {
		rec.Blocked = true
		log.Printf("🚫 Пользователь %d заблокирован (%d нарушений)", userID, rec.Count)
	}
	return *rec
}

// Strikes текущая запись пользователя
func (m *Moderator) Strikes(userID int64) StrikeRecord {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if rec, ok := m.strikes[userID]; ok {
		return *rec
	}
	return StrikeRecord{}
}

// IsBlocked заблокирован ли пользователь
func (m *Moderator) IsBlocked(userID int64) bool {
	return m.Strikes(userID).Blocked
}

// Limit порог блокировки
func (m *Moderator) Limit() int {
	return m.limit
}

// Reset снимает блокировку и обнуляет счётчик
func (m *Moderator) Reset(userID int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.strikes, userID)
}
