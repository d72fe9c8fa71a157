// Package format turns raw clinical values into the Spanish display strings
// the report prints. Everything here is pure: no I/O, no clocks, no locale
// state beyond the tables below.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// NA is the placeholder printed for any absent value.
const NA = "N/A"

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var spanishWeekdays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

// Date renders a timestamp as a long Spanish date, e.g.
// "lunes, 15 de marzo de 2024". Zero times render as N/A.
func Date(t time.Time) string {
	if t.IsZero() {
		return NA
	}
	return fmt.Sprintf("%s, %d de %s de %d",
		spanishWeekdays[t.Weekday()], t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// DateShort renders a timestamp as dd/mm/yyyy. Zero times render as N/A.
func DateShort(t time.Time) string {
	if t.IsZero() {
		return NA
	}
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

// Time renders the wall-clock portion in 12-hour Spanish style,
// e.g. "2:05 p. m.".
func Time(t time.Time) string {
	if t.IsZero() {
		return NA
	}
	h := t.Hour()
	suffix := "a. m."
	if h >= 12 {
		suffix = "p. m."
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, t.Minute(), suffix)
}

// DateTime renders "dd/mm/yyyy h:mm a. m.".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return NA
	}
	return DateShort(t) + " " + Time(t)
}

// TimeSeconds is Time with the seconds included, e.g. "2:05:09 p. m.".
func TimeSeconds(t time.Time) string {
	if t.IsZero() {
		return NA
	}
	h := t.Hour()
	suffix := "a. m."
	if h >= 12 {
		suffix = "p. m."
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d:%02d %s", h12, t.Minute(), t.Second(), suffix)
}

// DateTimeSeconds renders "dd/mm/yyyy h:mm:ss a. m.".
func DateTimeSeconds(t time.Time) string {
	if t.IsZero() {
		return NA
	}
	return DateShort(t) + " " + TimeSeconds(t)
}

// DateTimeFull is the long generation stamp: weekday, long date and time
// with seconds, e.g. "sábado, 1 de junio de 2024, 10:30:00 a. m.".
func DateTimeFull(t time.Time) string {
	if t.IsZero() {
		return NA
	}
	return Date(t) + ", " + TimeSeconds(t)
}

// Age returns the completed years between birth and ref as "N años".
// A nil birth date renders as N/A; a birth date after ref clamps to 0.
func Age(birth *time.Time, ref time.Time) string {
	if birth == nil || birth.IsZero() {
		return NA
	}
	years := ref.Year() - birth.Year()
	anniversary := time.Date(ref.Year(), birth.Month(), birth.Day(),
		0, 0, 0, 0, ref.Location())
	if ref.Before(anniversary) {
		years--
	}
	if years < 0 {
		years = 0
	}
	if years == 1 {
		return "1 año"
	}
	return fmt.Sprintf("%d años", years)
}

// AgeDetailed expands Age to completed years, months and days, e.g.
// "39 años, 1 mes, 30 días". A nil birth date renders as N/A; a birth
// date after ref clamps everything to zero.
func AgeDetailed(birth *time.Time, ref time.Time) string {
	if birth == nil || birth.IsZero() {
		return NA
	}
	years := ref.Year() - birth.Year()
	months := int(ref.Month()) - int(birth.Month())
	days := ref.Day() - birth.Day()
	if days < 0 {
		months--
		// Day zero of the current month is the last day of the previous one.
		days += time.Date(ref.Year(), ref.Month(), 0, 0, 0, 0, 0, ref.Location()).Day()
	}
	if months < 0 {
		years--
		months += 12
	}
	if years < 0 {
		years, months, days = 0, 0, 0
	}
	return fmt.Sprintf("%s, %s, %s",
		countNoun(years, "año", "años"),
		countNoun(months, "mes", "meses"),
		countNoun(days, "día", "días"))
}

func countNoun(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// StayDays is the hospitalization length in days, rounding any partial day
// up, with a minimum of one day for a non-negative interval.
func StayDays(admitted time.Time, discharged *time.Time, now time.Time) int {
	end := now
	if discharged != nil && !discharged.IsZero() {
		end = *discharged
	}
	d := end.Sub(admitted)
	if d <= 0 {
		return 1
	}
	days := int(math.Ceil(d.Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// OrNA substitutes N/A for blank strings.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NA
	}
	return s
}

// Deref prints a possibly-nil string-convertible value, falling back to N/A.
func Deref[T any](p *T, render func(T) string) string {
	if p == nil {
		return NA
	}
	return render(*p)
}

// Int formats *int or N/A.
func Int(p *int) string { return Deref(p, func(v int) string { return fmt.Sprintf("%d", v) }) }

// Float1 formats *float64 with one decimal, or N/A.
func Float1(p *float64) string {
	return Deref(p, func(v float64) string { return fmt.Sprintf("%.1f", v) })
}

// BMI computes body-mass index (kg/m²) from weight in kg and height in cm.
// Returns false when either input is missing or non-positive.
func BMI(weightKG, heightCM *float64) (float64, bool) {
	if weightKG == nil || heightCM == nil || *weightKG <= 0 || *heightCM <= 0 {
		return 0, false
	}
	m := *heightCM / 100
	return *weightKG / (m * m), true
}

// BMIClass names the WHO band for a BMI value.
func BMIClass(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Bajo peso"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Sobrepeso"
	default:
		return "Obesidad"
	}
}

// IdealWeight is the Lorentz ideal-weight band in kg for a height in cm.
// The band runs from the female to the male formula; ok is false below
// 150 cm where the formula is undefined.
func IdealWeight(heightCM *float64) (lo, hi float64, ok bool) {
	if heightCM == nil || *heightCM < 150 {
		return 0, 0, false
	}
	h := *heightCM
	lo = h - 100 - (h-150)/2.5
	hi = h - 100 - (h-150)/4
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

// JoinNonEmpty joins the non-blank items with sep.
func JoinNonEmpty(sep string, items ...string) string {
	kept := items[:0:0]
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			kept = append(kept, it)
		}
	}
	return strings.Join(kept, sep)
}
