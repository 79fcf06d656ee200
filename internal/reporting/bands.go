// Package reporting filters a clinic's patients by activity percentage bands
// and picks the message template for bulk messaging.
package reporting

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/vivamove-backend/internal/models"
)

type Band string

const (
	BandBelow30 Band = "lt30"
	Band30To50  Band = "30-50"
	Band50To80  Band = "50-80"
	BandAbove80 Band = "gt80"
	BandAll     Band = "all"
	bandUnknown Band = ""
)

const templatePref = "motivation_"

// precedence orders bands for template selection; lower wins.
var precedence = map[Band]int{
	BandBelow30: 0,
	Band30To50:  1,
	Band50To80:  2,
	BandAbove80: 3,
	BandAll:     4,
}

// ParseBand accepts the band names used in query strings. Empty means all.
func ParseBand(s string) (Band, error) {
	switch s {
	case "", "all":
		return BandAll, nil
	case "lt30", "<30":
		return BandBelow30, nil
	case "30-50":
		return Band30To50, nil
	case "50-80":
		return Band50To80, nil
	case "gt80", ">80":
		return BandAbove80, nil
	default:
		return bandUnknown, fmt.Errorf("unknown band %q", s)
	}
}

// Classify puts a percentage in exactly one band: <30, [30,50), [50,80], >80.
func Classify(v float64) Band {
	switch {
	case v < 30:
		return BandBelow30
	case v < 50:
		return Band30To50
	case v <= 80:
		return Band50To80
	default:
		return BandAbove80
	}
}

// Accepts reports whether a value falls in the band. BandAll accepts
// everything, including a missing value; other bands reject missing values.
func (b Band) Accepts(v *float64) bool {
	if b == BandAll {
		return true
	}
	if v == nil {
		return false
	}
	return Classify(*v) == b
}

// Template is the message template key suggested for a band.
func (b Band) Template() string {
	switch b {
	case BandBelow30:
		return templatePref + "below_30"
	case Band30To50:
		return templatePref + "30_50"
	case Band50To80:
		return templatePref + "50_80"
	case BandAbove80:
		return templatePref + "above_80"
	default:
		return templatePref + "all"
	}
}

// SuggestBand picks the band whose template is used when both filters are
// set: the one with the smaller precedence index.
func SuggestBand(steps, minutes Band) Band {
	if precedence[minutes] < precedence[steps] {
		return minutes
	}
	return steps
}

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

func ParsePeriod(s string) (Period, error) {
	switch s {
	case "", "weekly":
		return PeriodWeekly, nil
	case "monthly":
		return PeriodMonthly, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Values returns the steps and minutes percentages for the period.
func (p Period) Values(patient *models.Patient) (steps, minutes *float64) {
	if p == PeriodMonthly {
		return patient.MonthlySteps, patient.MonthlyMinutes
	}
	return patient.WeeklySteps, patient.WeeklyMinutes
}
