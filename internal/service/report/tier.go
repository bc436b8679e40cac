package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cmlabs-hris/hris-report-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-report-go/internal/pkg/workbook"
)

// Tier is the presentation bucket of an attendance rate.
type Tier string

const (
	TierCritical Tier = "critical"
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierGood     Tier = "good"
)

// Status and day colors: one per observation status plus separate holiday
// and weekend colors for exception day rows.
const (
	ColorPresent workbook.Color = "#22C55E"
	ColorGraced  workbook.Color = "#0EA5E9"
	ColorLate    workbook.Color = "#F59E0B"
	ColorAbsent  workbook.Color = "#EF4444"
	ColorOnLeave workbook.Color = "#8B5CF6"
	ColorHoliday workbook.Color = "#EC4899"
	ColorWeekend workbook.Color = "#64748B"
)

// Tier colors.
const (
	ColorTierCritical workbook.Color = "#DC2626"
	ColorTierLow      workbook.Color = "#F97316"
	ColorTierModerate workbook.Color = "#EAB308"
	ColorTierGood     workbook.Color = "#16A34A"
)

// FillOpacity is the alpha every status and tier fill is painted with over
// a white background.
const FillOpacity = 0.15

// TierForRate buckets a percentage; each lower bound is inclusive.
func TierForRate(rate float64) Tier {
	switch {
	case math.IsNaN(rate) || rate < 60:
		return TierCritical
	case rate < 80:
		return TierLow
	case rate < 90:
		return TierModerate
	default:
		return TierGood
	}
}

func TierColor(tier Tier) workbook.Color {
	switch tier {
	case TierLow:
		return ColorTierLow
	case TierModerate:
		return ColorTierModerate
	case TierGood:
		return ColorTierGood
	}
	return ColorTierCritical
}

// StatusColor maps a status to its color. Unknown values render as a
// regular working day.
func StatusColor(status report.Status) workbook.Color {
	switch status {
	case report.StatusGraced:
		return ColorGraced
	case report.StatusLate:
		return ColorLate
	case report.StatusAbsent:
		return ColorAbsent
	case report.StatusOnLeave:
		return ColorOnLeave
	}
	return ColorPresent
}

// DayColor returns the color of an exception day, holiday first.
func DayColor(kind report.DayKind) workbook.Color {
	switch kind {
	case report.DayHoliday, report.DayHolidayAndWeekend:
		return ColorHoliday
	case report.DayWeekend:
		return ColorWeekend
	}
	return ""
}

// Tint blends c over white at the given alpha.
func Tint(c workbook.Color, alpha float64) workbook.Color {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return c
	}
	rgb, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return c
	}

	blend := func(channel uint64) uint8 {
		return uint8(math.Round(alpha*float64(channel) + (1-alpha)*255))
	}
	r := blend((rgb >> 16) & 0xFF)
	g := blend((rgb >> 8) & 0xFF)
	b := blend(rgb & 0xFF)
	return workbook.Color(fmt.Sprintf("#%02X%02X%02X", r, g, b))
}

func StatusFill(status report.Status) workbook.Color {
	return Tint(StatusColor(status), FillOpacity)
}

func DayFill(kind report.DayKind) workbook.Color {
	if kind == report.DayWorking {
		return ""
	}
	return Tint(DayColor(kind), FillOpacity)
}

func RateFill(rate float64) workbook.Color {
	return Tint(TierColor(TierForRate(rate)), FillOpacity)
}
