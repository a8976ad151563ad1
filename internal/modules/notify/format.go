package notify

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NBSP separates digit groups and the tenge glyph in rendered text
const NBSP = " "

var million = decimal.NewFromInt(1_000_000)

// Money renders a KZT amount without the glyph: NBSP digit groups, no
// fraction for integral values, amounts from a million as "X,Y млн"
// with a decimal comma. Templates supply the trailing "₸" themselves.
func Money(amount decimal.Decimal) string {
	if amount.Abs().GreaterThanOrEqual(million) {
		m := amount.Div(million).Round(1)
		s := m.StringFixed(1)
		return strings.Replace(s, ".", ",", 1) + NBSP + "млн"
	}

	whole := amount.Round(2)
	intPart := whole.IntPart()
	s := groupDigits(strconv.FormatInt(intPart, 10))

	if frac := whole.Sub(decimal.NewFromInt(intPart)); !frac.IsZero() {
		cents := frac.Abs().Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		s += "," + pad2(cents)
	}
	return s
}

// MoneyTenge is Money with the glyph attached, for standalone values
func MoneyTenge(amount decimal.Decimal) string {
	return Money(amount) + NBSP + "₸"
}

// Percent renders an integer percentage without the sign; templates
// carry the "%" literal.
func Percent(v int) string {
	return strconv.Itoa(v)
}

var monthsLocative = [12]string{
	"январе", "феврале", "марте", "апреле", "мае", "июне",
	"июле", "августе", "сентябре", "октябре", "ноябре", "декабре",
}

// Month is the Russian locative month name, as in "в августе"
func Month(t time.Time) string {
	return monthsLocative[t.Month()-1]
}

func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteString(NBSP)
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func pad2(v int64) string {
	if v < 10 {
		return "0" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}
