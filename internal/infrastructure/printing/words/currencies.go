package words

import (
	"strings"

	"github.com/logiport/backend/internal/domain/shared"
)

// unitNames is the main and fractional unit of a currency in one language
type unitNames struct {
	Main     string
	Fraction string
}

var currencies = map[string]map[shared.Language]unitNames{
	"USD": {
		shared.LanguageArabic:  {"دولار أمريكي", "سنت"},
		shared.LanguageEnglish: {"US dollars", "cents"},
		shared.LanguageTurkish: {"Amerikan doları", "sent"},
	},
	"EUR": {
		shared.LanguageArabic:  {"يورو", "سنت"},
		shared.LanguageEnglish: {"euros", "cents"},
		shared.LanguageTurkish: {"euro", "sent"},
	},
	"TRY": {
		shared.LanguageArabic:  {"ليرة تركية", "قرش"},
		shared.LanguageEnglish: {"Turkish liras", "kuruş"},
		shared.LanguageTurkish: {"Türk lirası", "kuruş"},
	},
	"GBP": {
		shared.LanguageArabic:  {"جنيه إسترليني", "بنس"},
		shared.LanguageEnglish: {"pounds sterling", "pence"},
		shared.LanguageTurkish: {"İngiliz sterlini", "peni"},
	},
	"SAR": {
		shared.LanguageArabic:  {"ريال سعودي", "هللة"},
		shared.LanguageEnglish: {"Saudi riyals", "halalas"},
		shared.LanguageTurkish: {"Suudi riyali", "halala"},
	},
	"AED": {
		shared.LanguageArabic:  {"درهم إماراتي", "فلس"},
		shared.LanguageEnglish: {"UAE dirhams", "fils"},
		shared.LanguageTurkish: {"BAE dirhemi", "fils"},
	},
	"RUB": {
		shared.LanguageArabic:  {"روبل روسي", "كوبيك"},
		shared.LanguageEnglish: {"Russian rubles", "kopeks"},
		shared.LanguageTurkish: {"Rus rublesi", "kopek"},
	},
	"CNY": {
		shared.LanguageArabic:  {"يوان صيني", "فين"},
		shared.LanguageEnglish: {"Chinese yuan", "fen"},
		shared.LanguageTurkish: {"Çin yuanı", "fen"},
	},
	"JPY": {
		shared.LanguageArabic:  {"ين ياباني", "سين"},
		shared.LanguageEnglish: {"Japanese yen", "sen"},
		shared.LanguageTurkish: {"Japon yeni", "sen"},
	},
	"IQD": {
		shared.LanguageArabic:  {"دينار عراقي", "فلس"},
		shared.LanguageEnglish: {"Iraqi dinars", "fils"},
		shared.LanguageTurkish: {"Irak dinarı", "fils"},
	},
	"EGP": {
		shared.LanguageArabic:  {"جنيه مصري", "قرش"},
		shared.LanguageEnglish: {"Egyptian pounds", "piastres"},
		shared.LanguageTurkish: {"Mısır lirası", "kuruş"},
	},
	"JOD": {
		shared.LanguageArabic:  {"دينار أردني", "فلس"},
		shared.LanguageEnglish: {"Jordanian dinars", "fils"},
		shared.LanguageTurkish: {"Ürdün dinarı", "fils"},
	},
	"KWD": {
		shared.LanguageArabic:  {"دينار كويتي", "فلس"},
		shared.LanguageEnglish: {"Kuwaiti dinars", "fils"},
		shared.LanguageTurkish: {"Kuveyt dinarı", "fils"},
	},
	"OMR": {
		shared.LanguageArabic:  {"ريال عماني", "بيسة"},
		shared.LanguageEnglish: {"Omani rials", "baisa"},
		shared.LanguageTurkish: {"Umman riyali", "baisa"},
	},
	"BHD": {
		shared.LanguageArabic:  {"دينار بحريني", "فلس"},
		shared.LanguageEnglish: {"Bahraini dinars", "fils"},
		shared.LanguageTurkish: {"Bahreyn dinarı", "fils"},
	},
	"QAR": {
		shared.LanguageArabic:  {"ريال قطري", "درهم"},
		shared.LanguageEnglish: {"Qatari riyals", "dirhams"},
		shared.LanguageTurkish: {"Katar riyali", "dirhem"},
	},
}

// currencyUnits returns the unit names of code in lang. Unknown codes keep the
// code itself as main unit and a generic fraction name.
func currencyUnits(code string, lang shared.Language) unitNames {
	code = strings.ToUpper(strings.TrimSpace(code))
	if byLang, ok := currencies[code]; ok {
		if names, ok := byLang[lang]; ok {
			return names
		}
		return byLang[shared.LanguageEnglish]
	}
	switch lang {
	case shared.LanguageArabic:
		return unitNames{Main: orDefault(code, "عملة"), Fraction: "سنت"}
	case shared.LanguageTurkish:
		return unitNames{Main: orDefault(code, "para birimi"), Fraction: "sent"}
	default:
		return unitNames{Main: orDefault(code, "currency"), Fraction: "cents"}
	}
}

// IsKnownCurrency reports whether code has localized unit names
func IsKnownCurrency(code string) bool {
	_, ok := currencies[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
