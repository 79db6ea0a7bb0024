package config

// IsValidLanguageCode reports whether code is a recognized ISO-639-1
// language code. The empty string (auto-detect) is handled by callers.
func IsValidLanguageCode(code string) bool {
	return validLanguageCodes[code]
}

var validLanguageCodes = map[string]bool{
	"en": true, "es": true, "fr": true, "de": true, "it": true, "pt": true,
	"ru": true, "ja": true, "ko": true, "zh": true, "ar": true, "hi": true,
	"nl": true, "sv": true, "da": true, "no": true, "fi": true, "pl": true,
	"tr": true, "he": true, "th": true, "vi": true, "id": true, "ms": true,
	"uk": true, "cs": true, "hu": true, "ro": true, "bg": true, "hr": true,
	"sk": true, "sl": true, "et": true, "lv": true, "lt": true, "mt": true,
	"cy": true, "ga": true, "eu": true, "ca": true, "gl": true, "is": true,
	"mk": true, "sq": true, "az": true, "be": true, "ka": true, "hy": true,
	"kk": true, "ky": true, "tg": true, "uz": true, "mn": true, "ne": true,
	"si": true, "km": true, "lo": true, "my": true, "fa": true, "ps": true,
	"ur": true, "bn": true, "ta": true, "te": true, "ml": true, "kn": true,
	"gu": true, "pa": true, "or": true, "as": true, "mr": true, "sa": true,
	"sw": true, "yo": true, "ig": true, "ha": true, "zu": true, "xh": true,
	"af": true, "am": true, "mg": true, "so": true, "sn": true, "rw": true,
}
