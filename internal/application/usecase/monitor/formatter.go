package monitor

import (
	"fmt"
	"strings"

	"kimp/internal/domain/model"
)

const (
	ansiReset    = "\033[0m"
	ansiRed      = "\033[31m"
	ansiGreen    = "\033[32m"
	ansiYellow   = "\033[33m"
	ansiDim      = "\033[2m"
	ansiClearEOL = "\033[K"
)

func colorize(s, c string) string { return c + s + ansiReset }

// Formatter renders ranked spread summaries for the console. All rounding
// (two-decimal percents, four-decimal max deviation) happens here and only
// here; the sort upstream runs on unrounded values.
type Formatter struct {
	Threshold float64  // deviation at which the premium is highlighted
	Top       int      // entries shown on the live line
	Exchanges []string // column order
}

func NewFormatter(threshold float64, top int, exchanges []string) *Formatter {
	return &Formatter{Threshold: threshold, Top: top, Exchanges: exchanges}
}

// RenderLive renders the one-line view: the top movers by spread.
func (f *Formatter) RenderLive(board []model.SpreadSummary) string {
	var sb strings.Builder
	sb.WriteString("\r")
	sb.WriteString(colorize("[KIMP] ", ansiDim))

	shown := 0
	for _, sum := range board {
		if !sum.Comparable {
			break
		}
		if shown >= f.Top {
			break
		}
		if shown > 0 {
			sb.WriteString(colorize("  ||  ", ansiDim))
		}
		sb.WriteString(sum.Code)
		sb.WriteString(" ")
		sb.WriteString(colorize(percent2(sum.MaxDeviation), f.deviationColor(sum.MaxDeviation)))
		shown++
	}
	if shown == 0 {
		sb.WriteString(colorize("waiting for data", ansiDim))
	}

	sb.WriteString(ansiClearEOL)
	return sb.String()
}

// RenderTable renders the full ranking, one asset per line.
func (f *Formatter) RenderTable(board []model.SpreadSummary) []string {
	lines := make([]string, 0, len(board))
	for _, sum := range board {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%-12s", sum.Code))

		maxStr := "max --"
		maxCol := ansiDim
		if sum.Comparable {
			maxStr = fmt.Sprintf("max %.4f", sum.MaxDeviation)
			maxCol = f.deviationColor(sum.MaxDeviation)
		}
		sb.WriteString(colorize(fmt.Sprintf("%-12s", maxStr), maxCol))

		for _, ex := range f.Exchanges {
			sb.WriteString("  ")
			sb.WriteString(ex)
			sb.WriteString(" ")
			q, ok := sum.PerExchange[ex]
			if !ok {
				sb.WriteString(colorize("no data", ansiDim))
				continue
			}
			sb.WriteString(FormatKRW(q.Price))
			sb.WriteString(" (")
			sb.WriteString(colorize(percent2(q.Deviation), f.deviationColor(q.Deviation)))
			sb.WriteString(")")
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func (f *Formatter) deviationColor(dev float64) string {
	switch {
	case dev >= f.Threshold:
		return ansiGreen
	case dev > 0:
		return ansiYellow
	default:
		return ansiRed
	}
}

func percent2(dev float64) string {
	return fmt.Sprintf("%+.2f%%", dev*100)
}

// decimalPlaces picks display precision by magnitude, so that sub-KRW coins
// stay readable without drowning BTC in fraction digits.
func decimalPlaces(v float64) int {
	switch {
	case v > 1000:
		return 0
	case v > 100:
		return 1
	case v > 10:
		return 2
	case v > 1:
		return 3
	case v > 0.1:
		return 4
	case v > 0.01:
		return 5
	case v > 0.001:
		return 6
	case v > 0.0001:
		return 7
	default:
		return 8
	}
}

// FormatKRW renders a KRW amount with thousands grouping.
func FormatKRW(v float64) string {
	s := fmt.Sprintf("%.*f", decimalPlaces(v), v)
	intPart, frac, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var sb strings.Builder
	if neg {
		sb.WriteString("-")
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteString(",")
		}
		sb.WriteRune(r)
	}
	if frac != "" {
		sb.WriteString(".")
		sb.WriteString(frac)
	}
	return "₩" + sb.String()
}
