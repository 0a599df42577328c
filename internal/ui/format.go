package ui

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// formatAmount renders d the Norwegian way: space thousands separator,
// comma decimal separator, two decimals.
func formatAmount(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// formatMoney appends the currency code when there is one.
func formatMoney(d decimal.Decimal, currency string) string {
	if currency == "" {
		return formatAmount(d)
	}
	return formatAmount(d) + " " + currency
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}

// windowRange returns the slice [start, end) of a list of total rows that
// fits height rows and keeps selected in view.
func windowRange(selected, total, height int) (int, int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	start := selected - height/2
	if start < 0 {
		start = 0
	}
	if start+height > total {
		start = total - height
	}
	return start, start + height
}
