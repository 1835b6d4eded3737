// Package words spells monetary amounts in Arabic, English and Turkish
// for the "amount in words" line of invoices.
package words

import (
	"strings"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Amount spells amount with its currency, e.g.
// "one thousand two hundred and thirty four US dollars and fifty six cents".
// The sign is ignored and the fraction is rounded to two digits.
func Amount(amount decimal.Decimal, currencyCode string, lang shared.Language) string {
	amount = amount.Abs().Round(2)
	integer := amount.Truncate(0)
	fraction := amount.Sub(integer).Mul(hundred).IntPart()

	units := currencyUnits(currencyCode, lang)
	spell, joiner := spellerFor(lang)

	out := spell(integer.IntPart()) + " " + units.Main
	if fraction > 0 {
		out += " " + joiner + " " + spell(fraction) + " " + units.Fraction
	}
	return strings.TrimSpace(out)
}

// Number spells a non-negative integer in lang
func Number(n int64, lang shared.Language) string {
	spell, _ := spellerFor(lang)
	return spell(n)
}

func spellerFor(lang shared.Language) (func(int64) string, string) {
	switch lang {
	case shared.LanguageArabic:
		return arabic, "و"
	case shared.LanguageTurkish:
		return turkish, "ve"
	default:
		return english, "and"
	}
}

var (
	enOnes = []string{"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}
	enTens   = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
	enScales = []string{"", "thousand", "million", "billion", "trillion"}
)

func english(n int64) string {
	if n <= 0 {
		return "zero"
	}
	chunk := func(x int64) string {
		var w []string
		if x >= 100 {
			w = append(w, enOnes[x/100], "hundred")
			x %= 100
			if x > 0 {
				w = append(w, "and")
			}
		}
		if x >= 20 {
			w = append(w, enTens[x/10])
			if x%10 > 0 {
				w = append(w, enOnes[x%10])
			}
		} else if x > 0 {
			w = append(w, enOnes[x])
		}
		return strings.Join(w, " ")
	}

	var parts []string
	for scale := 0; n > 0 && scale < len(enScales); scale++ {
		if c := n % 1000; c > 0 {
			txt := chunk(c)
			if enScales[scale] != "" {
				txt += " " + enScales[scale]
			}
			parts = append([]string{txt}, parts...)
		}
		n /= 1000
	}
	return strings.Join(parts, " ")
}

var (
	trOnes   = []string{"", "bir", "iki", "üç", "dört", "beş", "altı", "yedi", "sekiz", "dokuz"}
	trTens   = []string{"", "on", "yirmi", "otuz", "kırk", "elli", "altmış", "yetmiş", "seksen", "doksan"}
	trScales = []string{"", "bin", "milyon", "milyar", "trilyon"}
)

func turkish(n int64) string {
	if n <= 0 {
		return "sıfır"
	}
	chunk := func(x int64) string {
		var w []string
		if x >= 100 {
			// "yüz", never "bir yüz"
			if x/100 > 1 {
				w = append(w, trOnes[x/100])
			}
			w = append(w, "yüz")
			x %= 100
		}
		if x >= 10 {
			w = append(w, trTens[x/10])
			x %= 10
		}
		if x > 0 {
			w = append(w, trOnes[x])
		}
		return strings.Join(w, " ")
	}

	var parts []string
	for scale := 0; n > 0 && scale < len(trScales); scale++ {
		if c := n % 1000; c > 0 {
			var txt string
			switch {
			case scale == 1 && c == 1:
				txt = "bin"
			case trScales[scale] != "":
				txt = chunk(c) + " " + trScales[scale]
			default:
				txt = chunk(c)
			}
			parts = append([]string{txt}, parts...)
		}
		n /= 1000
	}
	return strings.Join(parts, " ")
}

var (
	arOnes = []string{"", "واحد", "اثنان", "ثلاثة", "أربعة", "خمسة", "ستة", "سبعة", "ثمانية", "تسعة",
		"عشرة", "أحد عشر", "اثنا عشر", "ثلاثة عشر", "أربعة عشر", "خمسة عشر", "ستة عشر", "سبعة عشر", "ثمانية عشر", "تسعة عشر"}
	arTens     = []string{"", "عشرة", "عشرون", "ثلاثون", "أربعون", "خمسون", "ستون", "سبعون", "ثمانون", "تسعون"}
	arHundreds = []string{"", "مئة", "مئتان", "ثلاثمئة", "أربعمئة", "خمسمئة", "ستمئة", "سبعمئة", "ثمانمئة", "تسعمئة"}
)

// arScale holds the singular, dual, plural (3 to 10) and accusative (11+)
// forms of a power of a thousand
type arScale struct {
	value                        int64
	one, two, plural, accusative string
}

var arScales = []arScale{
	{1_000_000_000, "مليار", "ملياران", "مليارات", "مليار"},
	{1_000_000, "مليون", "مليونان", "ملايين", "مليون"},
	{1_000, "ألف", "ألفان", "آلاف", "ألف"},
}

func arabic(n int64) string {
	if n <= 0 {
		return "صفر"
	}
	below100 := func(x int64) string {
		if x < 20 {
			return arOnes[x]
		}
		if x%10 == 0 {
			return arTens[x/10]
		}
		return arOnes[x%10] + " و " + arTens[x/10]
	}
	below1000 := func(x int64) string {
		var p []string
		if x/100 > 0 {
			p = append(p, arHundreds[x/100])
		}
		if x%100 > 0 {
			p = append(p, below100(x%100))
		}
		return strings.Join(p, " و ")
	}

	var parts []string
	for _, s := range arScales {
		count := n / s.value
		n %= s.value
		switch {
		case count == 0:
		case count == 1:
			parts = append(parts, s.one)
		case count == 2:
			parts = append(parts, s.two)
		case count <= 10:
			parts = append(parts, below1000(count)+" "+s.plural)
		default:
			parts = append(parts, arabic(count)+" "+s.accusative)
		}
	}
	if n > 0 {
		parts = append(parts, below1000(n))
	}
	return strings.Join(parts, " و ")
}
