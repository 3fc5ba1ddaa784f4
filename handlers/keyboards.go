package handlers

import (
	"fmt"
	"strconv"

	"tezBot/i18n"
	"tezBot/services"
	"tezBot/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram ограничивает callback_data 64 байтами
const maxCallbackData = 64

// Префиксы и значения callback_data
const (
	cbSelect   = "sel_"
	cbVideo    = "video_"
	cbAudio    = "audio"
	cbAudioM4A = "audio_m4a"
	cbDownload = "dl_"
	cbLang     = "lang_"
	cbAgain    = "again"
	cbHome     = "home"
)

// resolution кнопка качества видео
type resolution struct {
	label  string
	height int
}

var resolutions = []resolution{
	{"4K Ultra HD", 2160},
	{"2K QHD", 1440},
	{"1080p Full HD", 1080},
	{"720p HD", 720},
	{"480p", 480},
	{"360p", 360},
	{"240p", 240},
}

// callbackData склеивает префикс и полезную нагрузку, обрезая её до лимита
func callbackData(prefix, payload string) string {
	return prefix + utils.TruncateBytes(payload, maxCallbackData-len(prefix))
}

func mainMenuKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(i18n.Text(lang, "menu_music"))),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(i18n.Text(lang, "menu_video")),
			tgbotapi.NewKeyboardButton(i18n.Text(lang, "menu_audio")),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(i18n.Text(lang, "menu_lang")),
			tgbotapi.NewKeyboardButton(i18n.Text(lang, "menu_help")),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// backKeyboard показывается, пока бот ждёт ввод
func backKeyboard(lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(i18n.Text(lang, "menu_back"))),
	)
	kb.ResizeKeyboard = true
	return kb
}

func searchResultsKeyboard(entries []services.SearchEntry) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(entries))
	for i, e := range entries {
		text := fmt.Sprintf("%d. %s", i+1, utils.Truncate(e.Title, 50))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(text, callbackData(cbSelect, e.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// qualityKeyboard MP3 сверху, затем разрешения по два в ряд
func qualityKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎵 MP3", cbAudio)),
	}
	for i := 0; i < len(resolutions); i += 2 {
		var row []tgbotapi.InlineKeyboardButton
		for _, r := range resolutions[i:min(i+2, len(resolutions))] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("📹 "+r.label, cbVideo+strconv.Itoa(r.height)))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func formatKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎵 MP3", cbAudio),
			tgbotapi.NewInlineKeyboardButtonData("🎶 M4A", cbAudioM4A),
		),
	)
}

func doneKeyboard(lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.Text(lang, "search_again"), cbAgain),
			tgbotapi.NewInlineKeyboardButtonData(i18n.Text(lang, "menu_back"), cbHome),
		),
	)
}

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, code := range i18n.Languages() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.LanguageName(code), cbLang+code),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// recognitionKeyboard кнопка «скачать» с поисковым запросом исполнитель - название
func recognitionKeyboard(lang string, track *services.Track) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(i18n.Text(lang, "download_this"), callbackData(cbDownload, track.Query())),
		),
	)
}
