package forms

import (
	"fmt"
	"strings"
)

// Option is a value/label pair rendered in select inputs.
type Option struct {
	Value string
	Label string
}

// CategoryOptions lists the manuscript categories offered by the wizard.
var CategoryOptions = []Option{
	{Value: "Fiksi", Label: "Fiksi"},
	{Value: "Nonfiksi", Label: "Nonfiksi"},
	{Value: "Puisi", Label: "Puisi"},
	{Value: "Anak", Label: "Buku Anak"},
	{Value: "Pendidikan", Label: "Pendidikan"},
	{Value: "Religi", Label: "Religi"},
}

// SegmentOptions lists the reader segments offered by the wizard.
var SegmentOptions = []Option{
	{Value: "anak", Label: "Anak-anak"},
	{Value: "remaja", Label: "Remaja"},
	{Value: "dewasa", Label: "Dewasa"},
	{Value: "umum", Label: "Umum"},
}

// DisplayOption returns the label for value, or value itself when unknown.
func DisplayOption(options []Option, value string) string {
	for _, option := range options {
		if option.Value == value {
			return option.Label
		}
	}
	return value
}

// FormatBytes renders a byte count for upload summaries.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// NormalizeNationalID keeps only the digits of a NIK for storage.
func NormalizeNationalID(raw string) string {
	return Digits(raw)
}

// NormalizePhone keeps a leading plus sign and the digits of a phone number.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	digits := Digits(raw)
	if strings.HasPrefix(raw, "+") {
		return "+" + digits
	}
	return digits
}
