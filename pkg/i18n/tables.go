package i18n

func builtinTables() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			"profile":                     "profile",
			"profile_image_url":           "profile picture url",
			"profile_name":                "display name",
			"profile_about":               "about",
			"profile_location":            "location",
			"profile_website":             "website",
			"update":                      "update",
			"website_settings":            "website settings",
			"choose_language":             "choose language",
			"choose_currency":             "choose currency",
			"content_preferences":         "content preferences",
			"adult_content_NSFW":          "adult content (NSFW)",
			"always_hide":                 "always hide",
			"always_warn":                 "always warn",
			"always_show":                 "always show",
			"muted_users":                 "muted users",
			"invalid_url":                 "invalid url",
			"name_is_too_long":            "name is too long",
			"name_must_not_begin_with_at": "name must not begin with @",
			"about_is_too_long":           "about is too long",
			"location_is_too_long":        "location is too long",
			"website_url_is_too_long":     "website url is too long",
			"server_returned_error":       "server returned an error",
			"saved":                       "saved",
			"unsaved_changes":             "You have unsaved profile changes.",
			"discard_changes":             "Discard them and exit?",
		},
		"ru": {
			"profile":                     "профиль",
			"profile_image_url":           "ссылка на изображение профиля",
			"profile_name":                "отображаемое имя",
			"profile_about":               "о себе",
			"profile_location":            "местоположение",
			"profile_website":             "сайт",
			"update":                      "обновить",
			"website_settings":            "настройки сайта",
			"choose_language":             "выбрать язык",
			"choose_currency":             "выбрать валюту",
			"content_preferences":         "настройки контента",
			"adult_content_NSFW":          "контент для взрослых (NSFW)",
			"always_hide":                 "всегда скрывать",
			"always_warn":                 "всегда предупреждать",
			"always_show":                 "всегда показывать",
			"muted_users":                 "заблокированные пользователи",
			"invalid_url":                 "неверная ссылка",
			"name_is_too_long":            "имя слишком длинное",
			"name_must_not_begin_with_at": "имя не должно начинаться с @",
			"about_is_too_long":           "описание слишком длинное",
			"location_is_too_long":        "местоположение слишком длинное",
			"website_url_is_too_long":     "ссылка на сайт слишком длинная",
			"server_returned_error":       "ошибка сервера",
			"saved":                       "сохранено",
			"unsaved_changes":             "Есть несохранённые изменения профиля.",
			"discard_changes":             "Отменить их и выйти?",
		},
		"uk": {
			"profile":                     "профіль",
			"profile_image_url":           "посилання на зображення профілю",
			"profile_name":                "ім'я",
			"profile_about":               "про себе",
			"profile_location":            "місцезнаходження",
			"profile_website":             "сайт",
			"update":                      "оновити",
			"website_settings":            "налаштування сайту",
			"choose_language":             "вибрати мову",
			"choose_currency":             "вибрати валюту",
			"content_preferences":         "налаштування контенту",
			"adult_content_NSFW":          "контент для дорослих (NSFW)",
			"always_hide":                 "завжди приховувати",
			"always_warn":                 "завжди попереджати",
			"always_show":                 "завжди показувати",
			"muted_users":                 "заблоковані користувачі",
			"invalid_url":                 "невірне посилання",
			"saved":                       "збережено",
			"server_returned_error":       "помилка сервера",
		},
	}
}
