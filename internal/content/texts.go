package content

import (
	"fmt"

	"morning_bot/internal/model"
)

// UI and message texts per language. Ukrainian is the default; unknown
// languages fall back to it, matching the bot's primary audience.
var texts = map[string]map[string]string{
	model.LangUkrainian: {
		"inspiration_message": "📖 <b>%s</b>\n\n%s",
		"random_day":          "🎲 <b>%s</b> — %s\n\n%s",
		"welcome":             "Вітаю! Я щоранку надсилатиму вам натхнення з обраної книги.\nОберіть книгу: /book",
		"help":                "Команди:\n/book — обрати книгу\n/language — мова (uk/ru/en)\n/time HH:MM — час доставки\n/timezone <IANA> — часовий пояс\n/today — читання за сьогодні\n/random — випадковий день\n/pause — призупинити\n/resume — відновити",
		"choose_book":         "Оберіть книгу:",
		"book_selected":       "Книгу «%s» обрано. Щоденні надсилання о %s.",
		"language_set":        "Мову змінено: %s",
		"time_set":            "Час доставки: %s",
		"timezone_set":        "Часовий пояс: %s",
		"paused":              "Надсилання призупинено. /resume щоб відновити.",
		"resumed":             "Надсилання відновлено.",
		"no_book":             "Спершу оберіть книгу: /book",
		"no_content":          "На сьогодні читання ще немає.",
		"no_inspirations":     "Немає читань для вашої мови.",
		"not_registered":      "Почніть з команди /start",
		"bad_time":            "Невірний формат. Приклад: /time 08:00",
		"bad_timezone":        "Невідомий часовий пояс. Приклад: /timezone Europe/Kyiv",
		"bad_language":        "Підтримувані мови: uk, ru, en",
		"unknown_command":     "Невідома команда. /help — список команд.",
	},
	model.LangRussian: {
		"inspiration_message": "📖 <b>%s</b>\n\n%s",
		"random_day":          "🎲 <b>%s</b> — %s\n\n%s",
		"welcome":             "Здравствуйте! Каждое утро я буду присылать вам вдохновение из выбранной книги.\nВыберите книгу: /book",
		"help":                "Команды:\n/book — выбрать книгу\n/language — язык (uk/ru/en)\n/time HH:MM — время доставки\n/timezone <IANA> — часовой пояс\n/today — чтение за сегодня\n/random — случайный день\n/pause — приостановить\n/resume — возобновить",
		"choose_book":         "Выберите книгу:",
		"book_selected":       "Книга «%s» выбрана. Ежедневная отправка в %s.",
		"language_set":        "Язык изменён: %s",
		"time_set":            "Время доставки: %s",
		"timezone_set":        "Часовой пояс: %s",
		"paused":              "Отправка приостановлена. /resume чтобы возобновить.",
		"resumed":             "Отправка возобновлена.",
		"no_book":             "Сначала выберите книгу: /book",
		"no_content":          "Чтения на сегодня пока нет.",
		"no_inspirations":     "Нет чтений для вашего языка.",
		"not_registered":      "Начните с команды /start",
		"bad_time":            "Неверный формат. Пример: /time 08:00",
		"bad_timezone":        "Неизвестный часовой пояс. Пример: /timezone Europe/Kyiv",
		"bad_language":        "Поддерживаемые языки: uk, ru, en",
		"unknown_command":     "Неизвестная команда. /help — список команд.",
	},
	model.LangEnglish: {
		"inspiration_message": "📖 <b>%s</b>\n\n%s",
		"random_day":          "🎲 <b>%s</b> — %s\n\n%s",
		"welcome":             "Hello! Every morning I will send you an inspiration from your chosen book.\nPick a book: /book",
		"help":                "Commands:\n/book — choose a book\n/language — language (uk/ru/en)\n/time HH:MM — delivery time\n/timezone <IANA> — timezone\n/today — today's reading\n/random — random day\n/pause — pause delivery\n/resume — resume delivery",
		"choose_book":         "Choose a book:",
		"book_selected":       "Book \"%s\" selected. Daily delivery at %s.",
		"language_set":        "Language changed: %s",
		"time_set":            "Delivery time: %s",
		"timezone_set":        "Timezone: %s",
		"paused":              "Delivery paused. /resume to continue.",
		"resumed":             "Delivery resumed.",
		"no_book":             "Pick a book first: /book",
		"no_content":          "No reading for today yet.",
		"no_inspirations":     "No readings available for your language.",
		"not_registered":      "Start with the /start command",
		"bad_time":            "Invalid format. Example: /time 08:00",
		"bad_timezone":        "Unknown timezone. Example: /timezone Europe/Kyiv",
		"bad_language":        "Supported languages: uk, ru, en",
		"unknown_command":     "Unknown command. /help for the command list.",
	},
}

// Text returns the UI string for a key, formatted with args. Unknown
// languages fall back to Ukrainian.
func Text(lang, key string, args ...any) string {
	m, ok := texts[lang]
	if !ok {
		m = texts[model.LangUkrainian]
	}
	tpl, ok := m[key]
	if !ok {
		tpl = texts[model.LangUkrainian][key]
	}
	if len(args) == 0 {
		return tpl
	}
	return fmt.Sprintf(tpl, args...)
}

// InspirationMessage formats the daily delivery message.
func InspirationMessage(lang, bookTitle, body string) string {
	return Text(lang, "inspiration_message", bookTitle, body)
}

// RandomDayMessage formats the /random browsing message.
func RandomDayMessage(lang, bookTitle, date, body string) string {
	return Text(lang, "random_day", bookTitle, date, body)
}
