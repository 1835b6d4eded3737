package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"maps"
	"reflect"
	"strings"
	"time"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/infrastructure/printing/words"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine renders document templates with a build context.
// It uses html/template with formatting helpers for money, weights, dates
// and amounts in words.
type TemplateEngine struct {
	funcMap template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine with default configuration
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{}

	e.funcMap = template.FuncMap{
		// Money and quantities
		"formatMoney":   formatMoney,
		"formatAmount":  formatAmount,
		"formatQty":     formatQty,
		"formatDecimal": formatDecimal,
		"amountInWords": amountInWords,

		// Dates
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,

		// Strings
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"title":    titleCase,
		"trim":     strings.TrimSpace,
		"join":     strings.Join,
		"replace":  strings.ReplaceAll,
		"contains": strings.Contains,
		"truncate": truncate,
		"nl2br":    nl2br,

		// Arithmetic
		"add": add,
		"sub": sub,
		"mul": mul,
		"div": div,
		"inc": func(i int) int { return i + 1 },
		"sum": sum,
		"gt":  gtFunc,

		// Collections
		"seq":      seq,
		"len":      length,
		"empty":    empty,
		"notEmpty": notEmpty,
		"dict":     dict,
		"list":     list,

		// Conditional
		"default":  defaultFunc,
		"coalesce": coalesce,
		"ternary":  ternary,

		// Layout
		"dir":      textDirection,
		"safeHTML": safeHTML,
	}

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render executes content as template name against data.
// Missing map keys render as empty strings.
func (e *TemplateEngine) Render(name, content string, data map[string]any) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", shared.NewDomainError(shared.CodeRenderFailed, "template content is empty: "+name)
	}

	tmpl, err := template.New(name).Option("missingkey=zero").Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", shared.WrapDomainError(shared.CodeRenderFailed, "failed to parse template "+name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", shared.WrapDomainError(shared.CodeRenderFailed, "failed to execute template "+name, err)
	}
	return buf.String(), nil
}

// FuncMap returns a copy of the template function map
func (e *TemplateEngine) FuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// formatMoney formats with two decimals and thousand separators.
// Example: 1234.5 -> "1,234.50"
func formatMoney(v any) string {
	return groupThousands(toDecimal(v).StringFixed(2))
}

// formatAmount formats with the given number of decimals and thousand separators
func formatAmount(v any, places int) string {
	return groupThousands(toDecimal(v).StringFixed(int32(places)))
}

// formatQty formats a quantity or weight, dropping trailing zeros.
// Example: 1250.500 -> "1,250.5"
func formatQty(v any) string {
	return groupThousands(toDecimal(v).Round(3).String())
}

// formatDecimal formats a decimal with specified precision, no grouping
func formatDecimal(v any, precision int) string {
	return toDecimal(v).StringFixed(int32(precision))
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(c)
	}
	if hasFrac {
		return sign + b.String() + "." + frac
	}
	return sign + b.String()
}

// amountInWords spells v in the currency and language given
func amountInWords(v any, currencyCode string, lang any) string {
	l, ok := shared.ParseLanguage(fmt.Sprint(lang))
	if !ok {
		l = shared.DefaultLanguage
	}
	return words.Amount(toDecimal(v), currencyCode, l)
}

// formatDate formats as DD.MM.YYYY, the customs paperwork convention
func formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}

func formatDateTime(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006 15:04")
}

// truncate truncates a string to max runes with optional suffix
func truncate(s string, max int, suffix ...string) string {
	suf := "..."
	if len(suffix) > 0 {
		suf = suffix[0]
	}
	runes := []rune(s)
	sufRunes := []rune(suf)
	if len(runes) <= max {
		return s
	}
	if max <= len(sufRunes) {
		return string(sufRunes[:max])
	}
	return string(runes[:max-len(sufRunes)]) + suf
}

// titleCase converts string to title case using proper Unicode handling
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// nl2br escapes s and turns newlines into <br>
func nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

func textDirection(lang any) string {
	if l, ok := shared.ParseLanguage(fmt.Sprint(lang)); ok && l.IsRTL() {
		return "rtl"
	}
	return "ltr"
}

func gtFunc(a, b any) bool {
	return toDecimal(a).GreaterThan(toDecimal(b))
}

func add(a, b any) decimal.Decimal {
	return toDecimal(a).Add(toDecimal(b))
}

func sub(a, b any) decimal.Decimal {
	return toDecimal(a).Sub(toDecimal(b))
}

func mul(a, b any) decimal.Decimal {
	return toDecimal(a).Mul(toDecimal(b))
}

func div(a, b any) decimal.Decimal {
	bDec := toDecimal(b)
	if bDec.IsZero() {
		return decimal.Zero
	}
	return toDecimal(a).Div(bDec)
}

// sum adds every value, or the named field of every element when the first
// argument is a slice of maps.
// Usage: {{ sum .items "amount" }} or {{ sum 1 2 3 }}
func sum(vals ...any) decimal.Decimal {
	result := decimal.Zero
	if len(vals) == 2 {
		if field, ok := vals[1].(string); ok {
			rv := reflect.ValueOf(vals[0])
			if rv.Kind() == reflect.Slice {
				for i := 0; i < rv.Len(); i++ {
					if m, ok := rv.Index(i).Interface().(map[string]any); ok {
						result = result.Add(toDecimal(m[field]))
					}
				}
				return result
			}
		}
	}
	for _, v := range vals {
		result = result.Add(toDecimal(v))
	}
	return result
}

// seq generates a sequence of integers from 0 to n-1
func seq(n int) []int {
	if n <= 0 {
		return []int{}
	}
	result := make([]int, n)
	for i := range n {
		result[i] = i
	}
	return result
}

func length(v any) int {
	if v == nil {
		return 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len()
	default:
		return 0
	}
}

func empty(v any) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) == ""
	case bool:
		return !val
	case int:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	case decimal.Decimal:
		return val.IsZero()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer:
		return rv.IsNil()
	}
	return false
}

func notEmpty(v any) bool {
	return !empty(v)
}

func defaultFunc(val, def any) any {
	if empty(val) {
		return def
	}
	return val
}

func ternary(condition bool, trueVal, falseVal any) any {
	if condition {
		return trueVal
	}
	return falseVal
}

func coalesce(vals ...any) any {
	for _, v := range vals {
		if !empty(v) {
			return v
		}
	}
	return nil
}

// safeHTML marks a string as safe HTML, bypassing automatic escaping.
// Only for template-owned snippets, never for transaction data.
func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

// dict creates a map from key-value pairs
func dict(pairs ...any) map[string]any {
	result := make(map[string]any)
	for i := 0; i < len(pairs)-1; i += 2 {
		if key, ok := pairs[i].(string); ok {
			result[key] = pairs[i+1]
		}
	}
	return result
}

func list(vals ...any) []any {
	return vals
}

// toDecimal converts various types to decimal.Decimal
func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int32:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case uint:
		return decimal.NewFromInt(int64(val))
	case float32:
		return decimal.NewFromFloat(float64(val))
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// toTime converts various types to time.Time
func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		for _, f := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(f, val); err == nil {
				return t
			}
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}
