package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TokenDisplayDecimals is the precision used when showing token amounts.
const TokenDisplayDecimals = 4

// FormatTokens renders a token amount for humans, e.g. "1,234.5678 XVS".
func FormatTokens(amount decimal.Decimal, symbol string) string {
	s := groupThousands(amount.RoundDown(TokenDisplayDecimals).String())
	if symbol == "" {
		return s
	}
	return s + " " + symbol
}

// FormatUSD renders a USD amount rounded down to cents, e.g. "$1,234.56".
func FormatUSD(amount decimal.Decimal) string {
	s := amount.RoundDown(2).StringFixed(2)
	if strings.HasPrefix(s, "-") {
		return "-$" + groupThousands(s[1:])
	}
	return "$" + groupThousands(s)
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if hasFrac {
		return sign + b.String() + "." + fracPart
	}
	return sign + b.String()
}
