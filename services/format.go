package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR renders amount in rupees with Indian digit grouping and two
// decimals, e.g. 1234567.5 -> "₹12,34,567.50".
func FormatINR(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + "₹" + groupIndian(whole) + "." + frac
}

// groupIndian puts a comma before the last three digits and then before
// every further pair: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

var (
	wordsUnder20 = [...]string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	wordsTens = [...]string{
		"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
	}
	indianScales = []struct {
		size int64
		name string
	}{
		{10000000, "Crore"},
		{100000, "Lakh"},
		{1000, "Thousand"},
		{100, "Hundred"},
	}
)

// AmountToWords spells out a rupee amount using lakhs and crores, e.g.
// 1180 -> "Rupees One Thousand One Hundred Eighty Only". Paise are spelled
// out when present.
func AmountToWords(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	prefix := "Rupees "
	if d.IsNegative() {
		prefix = "Minus Rupees "
		d = d.Neg()
	}
	rupees := d.IntPart()
	paise := d.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).IntPart()

	words := spellIndian(rupees)
	if words == "" {
		words = "Zero"
	}
	if paise > 0 {
		words += " and " + spellIndian(paise) + " Paise"
	}
	return prefix + words + " Only"
}

func spellIndian(n int64) string {
	var parts []string
	for _, scale := range indianScales {
		if n < scale.size {
			continue
		}
		count := n / scale.size
		n %= scale.size
		if count >= 100 {
			// Above 99 crore the crore count itself needs scales.
			parts = append(parts, spellIndian(count)+" "+scale.name)
			continue
		}
		parts = append(parts, spellUnder100(count)+" "+scale.name)
	}
	if n > 0 {
		parts = append(parts, spellUnder100(n))
	}
	return strings.Join(parts, " ")
}

func spellUnder100(n int64) string {
	if n < 20 {
		return wordsUnder20[n]
	}
	if n%10 == 0 {
		return wordsTens[n/10]
	}
	return wordsTens[n/10] + " " + wordsUnder20[n%10]
}
