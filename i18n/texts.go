package i18n

// Тексты в HTML-разметке Telegram. Плейсхолдеры {name} подставляет Format.
var texts = map[string]map[string]string{
	"uz": {
		"welcome":          "🌟 <b>Assalomu alaykum! TEZ BOT ga xush kelibsiz!</b>\n\n🤖 Men orqali siz:\n• YouTube, Instagram, TikTok dan video yuklashingiz 📥\n• Musiqa va audio kitoblar topishingiz 🎧\n• Videolarni audio formatga o'girishingiz mumkin.\n\n👇 <b>Davom etish uchun menyudan tanlang:</b>",
		"main_menu":        "Asosiy menyu",
		"menu_music":       "🎵 Musiqa topish",
		"menu_video":       "🎬 Video yuklash",
		"menu_audio":       "🎧 Audio yuklash",
		"menu_help":        "❓ Yordam",
		"menu_back":        "🏠 Bosh sahifa",
		"menu_lang":        "🌐 Tilni o'zgartirish",
		"prompt_music":     "🔍 <b>Musiqa nomini yoki ijrochini yozing.</b>\n\nMisol: <i>Eminem Lose Yourself</i>",
		"prompt_video":     "📥 <b>Video havolasini (link) yuboring:</b>\n(YouTube, Instagram, TikTok)",
		"prompt_audio":     "🔗 <b>Audio ajratib olish uchun video havolasini yuboring:</b>",
		"searching":        "🔎 Qidirilmoqda...",
		"fetching":         "🔎 Ma'lumotlar olinmoqda... ⏳",
		"downloading":      "⏳ Yuklanmoqda... Bir oz kuting.",
		"uploading_video":  "📤 Video yuklanmoqda...",
		"uploading_audio":  "📤 Audio yuklanmoqda...",
		"recognizing":      "🎶 Musiqa aniqlanmoqda... ⏳",
		"results":          "✅ <b>Natijalar:</b>\nKeraklisini tanlang:",
		"not_found":        "❌ Hech narsa topilmadi. Boshqa nom bilan urinib ko'ring.",
		"error":            "❌ Xatolik yuz berdi.",
		"invalid_link":     "❌ <b>Noto'g'ri havola.</b>\nIltimos, to'g'ri video havolasini yuboring.",
		"file_too_large":   "⚠️ Fayl hajmi juda katta ({size} MB). Telegram orqali yuborib bo'lmaydi.",
		"expired":          "⌛ Eskirgan so'rov.",
		"done":             "✅ <b>Tayyor! Yana nima qilamiz?</b>",
		"search_again":     "🔁 Yana qidirish",
		"select_quality":   "📹 <b>{title}</b>\n\nNima yuklab olmoqchisiz?",
		"select_format":    "🎧 <b>{title}</b>\n\nFormatni tanlang:",
		"shazam_found":     "🎵 <b>Topildi!</b>\n\n🎤 <b>Ijrochi:</b> {artist}\n🎼 <b>Musiqa:</b> {title}\n💿 <b>Albom:</b> {album}\n📅 <b>Yil:</b> {year}",
		"shazam_not_found": "❌ Kechirasiz, bu musiqani aniqlay olmadim.",
		"download_this":    "📥 Yuklab olish",
		"warning_adult":    "🚫 <b>Kechirasiz, ushbu ma'lumot 18+ chekloviga ega yoki noto'g'ri so'zlarni o'z ichiga oladi.</b>\n\nBiz pornografik va zararli kontent tarqalishiga qarshimiz.",
		"warning_strike":   "⚠️ <b>Ogohlantirish!</b> ({count}/{limit})\nIltimos, botdan to'g'ri maqsadda foydalaning. Aks holda bloklanasiz.",
		"user_blocked":     "🚫 <b>Siz bloklandingiz.</b>\nBotdan foydalanish qoidalari buzilgani sababli cheklov qo'yildi.",
		"unblocked":        "✅ {id} blokdan chiqarildi.",
		"choose_lang":      "🌐 Tilni tanlang:",
		"lang_changed":     "✅ Til o'zgartirildi.",
		"help":             "❓ <b>Yordam</b>\n\n🎬 Video yoki 🎧 audio yuklash uchun havolani yuboring.\n🎵 Musiqa topish uchun nomini yozing.\n🎤 Musiqani aniqlash uchun audio yoki ovozli xabar yuboring.\n\n/start, /home, /lang, /help",
	},
	"uz_cyrl": {
		"welcome":          "🌟 <b>Ассалому алайкум! TEZ BOT га хуш келибсиз!</b>\n\n🤖 Мен орқали сиз:\n• YouTube, Instagram, TikTok дан видео юклашингиз 📥\n• Мусиқа ва аудио китоблар топишингиз 🎧\n• Видеоларни аудио форматга ўгиришингиз мумкин.\n\n👇 <b>Давом этиш учун менюдан танланг:</b>",
		"main_menu":        "Асосий меню",
		"menu_music":       "🎵 Мусиқа топиш",
		"menu_video":       "🎬 Видео юклаш",
		"menu_audio":       "🎧 Аудио юклаш",
		"menu_help":        "❓ Ёрдам",
		"menu_back":        "🏠 Бош саҳифа",
		"menu_lang":        "🌐 Тилни ўзгартириш",
		"prompt_music":     "🔍 <b>Мусиқа номини ёки ижрочини ёзинг.</b>\n\nМисол: <i>Eminem Lose Yourself</i>",
		"prompt_video":     "📥 <b>Видео ҳаволасини (link) юборинг:</b>\n(YouTube, Instagram, TikTok)",
		"prompt_audio":     "🔗 <b>Аудио ажратиб олиш учун видео ҳаволасини юборинг:</b>",
		"searching":        "🔎 Қидирилмоқда...",
		"downloading":      "⏳ Юкланмоқда... Бир оз кутинг.",
		"uploading_video":  "📤 Видео юкланмоқда...",
		"uploading_audio":  "📤 Аудио юкланмоқда...",
		"not_found":        "❌ Ҳеч нарса топилмади. Бошқа ном билан уриниб кўринг.",
		"error":            "❌ Хатолик юз берди.",
		"invalid_link":     "❌ <b>Нотўғри ҳавола.</b>\nИлтимос, тўғри видео ҳаволасини юборинг.",
		"file_too_large":   "⚠️ Файл ҳажми жуда катта ({size} MB). Telegram орқали юбориб бўлмайди.",
		"done":             "✅ <b>Тайёр! Яна нима қиламиз?</b>",
		"search_again":     "🔁 Яна қидириш",
		"shazam_not_found": "❌ Кечирасиз, бу мусиқани аниқлай олмадим.",
	},
	"ru": {
		"welcome":          "🌟 <b>Привет! Добро пожаловать в TEZ BOT!</b>\n\n🤖 С моей помощью вы можете:\n• Скачивать видео с YouTube, Instagram, TikTok 📥\n• Находить музыку и аудиокниги 🎧\n• Конвертировать видео в аудио формат.\n\n👇 <b>Выберите из меню для продолжения:</b>",
		"main_menu":        "Главное меню",
		"menu_music":       "🎵 Найти музыку",
		"menu_video":       "🎬 Скачать видео",
		"menu_audio":       "🎧 Скачать аудио",
		"menu_help":        "❓ Помощь",
		"menu_back":        "🏠 Главная",
		"menu_lang":        "🌐 Сменить язык",
		"prompt_music":     "🔍 <b>Введите название песни или исполнителя.</b>\n\nПример: <i>Eminem Lose Yourself</i>",
		"prompt_video":     "📥 <b>Отправьте ссылку на видео:</b>\n(YouTube, Instagram, TikTok)",
		"prompt_audio":     "🔗 <b>Отправьте ссылку на видео для извлечения аудио:</b>",
		"searching":        "🔎 Поиск...",
		"fetching":         "🔎 Получаю информацию... ⏳",
		"downloading":      "⏳ Загрузка... Пожалуйста, подождите.",
		"uploading_video":  "📤 Отправка видео...",
		"uploading_audio":  "📤 Отправка аудио...",
		"recognizing":      "🎶 Распознаю музыку... ⏳",
		"results":          "✅ <b>Результаты:</b>\nВыберите нужное:",
		"not_found":        "❌ Ничего не найдено. Попробуйте другое название.",
		"error":            "❌ Произошла ошибка.",
		"invalid_link":     "❌ <b>Неверная ссылка.</b>\nПожалуйста, отправьте правильную ссылку.",
		"file_too_large":   "⚠️ Файл слишком большой ({size} MB) для отправки через Telegram.",
		"expired":          "⌛ Запрос устарел.",
		"done":             "✅ <b>Готово! Что дальше?</b>",
		"search_again":     "🔁 Искать снова",
		"select_quality":   "📹 <b>{title}</b>\n\nЧто будем скачивать?",
		"select_format":    "🎧 <b>{title}</b>\n\nВыберите формат:",
		"shazam_found":     "🎵 <b>Найдено!</b>\n\n🎤 <b>Исполнитель:</b> {artist}\n🎼 <b>Трек:</b> {title}\n💿 <b>Альбом:</b> {album}\n📅 <b>Год:</b> {year}",
		"shazam_not_found": "❌ Извините, не удалось распознать эту музыку.",
		"download_this":    "📥 Скачать",
		"warning_adult":    "🚫 <b>Извините, этот контент имеет ограничение 18+ или содержит недопустимые слова.</b>",
		"warning_strike":   "⚠️ <b>Предупреждение!</b> ({count}/{limit})\nИспользуйте бота по назначению, иначе вы будете заблокированы.",
		"user_blocked":     "🚫 <b>Вы заблокированы</b> за нарушение правил использования бота.",
		"unblocked":        "✅ {id} разблокирован.",
		"choose_lang":      "🌐 Выберите язык:",
		"lang_changed":     "✅ Язык изменён.",
		"help":             "❓ <b>Помощь</b>\n\n🎬 Отправьте ссылку, чтобы скачать видео или 🎧 аудио.\n🎵 Напишите название, чтобы найти музыку.\n🎤 Отправьте аудио или голосовое, чтобы распознать трек.\n\n/start, /home, /lang, /help",
	},
	"en": {
		"welcome":          "🌟 <b>Hello! Welcome to TEZ BOT!</b>\n\n🤖 With me you can:\n• Download videos from YouTube, Instagram, TikTok 📥\n• Find music and audiobooks 🎧\n• Convert videos to audio format.\n\n👇 <b>Select from the menu to continue:</b>",
		"main_menu":        "Main Menu",
		"menu_music":       "🎵 Find Music",
		"menu_video":       "🎬 Download Video",
		"menu_audio":       "🎧 Download Audio",
		"menu_help":        "❓ Help",
		"menu_back":        "🏠 Home",
		"menu_lang":        "🌐 Change Language",
		"prompt_music":     "🔍 <b>Type the song name or artist.</b>\n\nExample: <i>Eminem Lose Yourself</i>",
		"prompt_video":     "📥 <b>Send the video link:</b>\n(YouTube, Instagram, TikTok)",
		"prompt_audio":     "🔗 <b>Send the video link to extract audio:</b>",
		"searching":        "🔎 Searching...",
		"fetching":         "🔎 Fetching details... ⏳",
		"downloading":      "⏳ Downloading... Please wait.",
		"uploading_video":  "📤 Uploading video...",
		"uploading_audio":  "📤 Uploading audio...",
		"recognizing":      "🎶 Recognizing music... ⏳",
		"results":          "✅ <b>Results:</b>\nPick one:",
		"not_found":        "❌ Nothing found. Try another name.",
		"error":            "❌ An error occurred.",
		"invalid_link":     "❌ <b>Invalid link.</b>\n\nPlease send a valid video link.",
		"file_too_large":   "⚠️ File is too large ({size} MB) to send via Telegram.",
		"expired":          "⌛ This request has expired.",
		"done":             "✅ <b>Done! What's next?</b>",
		"search_again":     "🔁 Search Again",
		"select_quality":   "📹 <b>{title}</b>\n\nWhat do you want to download?",
		"select_format":    "🎧 <b>{title}</b>\n\nSelect format:",
		"shazam_found":     "🎵 <b>Found!</b>\n\n🎤 <b>Artist:</b> {artist}\n🎼 <b>Track:</b> {title}\n💿 <b>Album:</b> {album}\n📅 <b>Year:</b> {year}",
		"shazam_not_found": "❌ Sorry, could not identify this music.",
		"download_this":    "📥 Download",
		"warning_adult":    "🚫 <b>Sorry, this content is age restricted or contains inappropriate words.</b>",
		"warning_strike":   "⚠️ <b>Warning!</b> ({count}/{limit})\nPlease use the bot as intended or you will be blocked.",
		"user_blocked":     "🚫 <b>You are blocked</b> for breaking the usage rules.",
		"unblocked":        "✅ {id} unblocked.",
		"choose_lang":      "🌐 Choose a language:",
		"lang_changed":     "✅ Language changed.",
		"help":             "❓ <b>Help</b>\n\n🎬 Send a link to download video or 🎧 audio.\n🎵 Type a name to find music.\n🎤 Send audio or a voice note to identify a track.\n\n/start, /home, /lang, /help",
	},
}

// Подписи кнопок выбора языка
var languageNames = map[string]string{
	"uz":      "🇺🇿 O'zbekcha",
	"uz_cyrl": "🇺🇿 Ўзбекча",
	"ru":      "🇷🇺 Русский",
	"en":      "🇬🇧 English",
}

var languageOrder = []string{"uz", "uz_cyrl", "ru", "en"}
