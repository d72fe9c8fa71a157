package format

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestDateSpanish(t *testing.T) {
	d := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	got := Date(d)
	want := "viernes, 15 de marzo de 2024"
	if got != want {
		t.Fatalf("Date() = %q, want %q", got, want)
	}
	if Date(time.Time{}) != NA {
		t.Fatalf("zero date should format as %q", NA)
	}
}

func TestDateShort(t *testing.T) {
	d := time.Date(2023, time.January, 5, 10, 0, 0, 0, time.UTC)
	if got := DateShort(d); got != "05/01/2023" {
		t.Fatalf("DateShort() = %q", got)
	}
}

func TestTimeTwelveHour(t *testing.T) {
	cases := []struct {
		hour, min int
		want      string
	}{
		{0, 5, "12:05 a. m."},
		{9, 30, "9:30 a. m."},
		{12, 0, "12:00 p. m."},
		{14, 5, "2:05 p. m."},
		{23, 59, "11:59 p. m."},
	}
	for _, tc := range cases {
		d := time.Date(2024, 1, 1, tc.hour, tc.min, 0, 0, time.UTC)
		if got := Time(d); got != tc.want {
			t.Fatalf("Time(%02d:%02d) = %q, want %q", tc.hour, tc.min, got, tc.want)
		}
	}
}

func TestTimeWithSeconds(t *testing.T) {
	d := time.Date(2024, time.June, 1, 14, 5, 9, 0, time.UTC)
	if got := TimeSeconds(d); got != "2:05:09 p. m." {
		t.Fatalf("TimeSeconds() = %q", got)
	}
	if got := DateTimeSeconds(d); got != "01/06/2024 2:05:09 p. m." {
		t.Fatalf("DateTimeSeconds() = %q", got)
	}
	if TimeSeconds(time.Time{}) != NA {
		t.Fatalf("zero time should format as %q", NA)
	}
}

func TestDateTimeFull(t *testing.T) {
	d := time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC)
	want := "sábado, 1 de junio de 2024, 10:30:00 a. m."
	if got := DateTimeFull(d); got != want {
		t.Fatalf("DateTimeFull() = %q, want %q", got, want)
	}
	if DateTimeFull(time.Time{}) != NA {
		t.Fatalf("zero date should format as %q", NA)
	}
}

func TestAge(t *testing.T) {
	ref := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		birth time.Time
		want  string
	}{
		{"birthday passed", time.Date(1990, time.March, 1, 0, 0, 0, 0, time.UTC), "34 años"},
		{"birthday pending", time.Date(1990, time.December, 1, 0, 0, 0, 0, time.UTC), "33 años"},
		{"same day", time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC), "1 año"},
		{"newborn", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), "0 años"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.birth
			if got := Age(&b, ref); got != tc.want {
				t.Fatalf("Age() = %q, want %q", got, tc.want)
			}
		})
	}
	if Age(nil, ref) != NA {
		t.Fatalf("nil birth date should format as %q", NA)
	}
}

func TestAgeDetailed(t *testing.T) {
	ref := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		birth time.Time
		want  string
	}{
		{"full breakdown", time.Date(1990, time.March, 1, 0, 0, 0, 0, time.UTC),
			"34 años, 3 meses, 14 días"},
		{"day borrow", time.Date(1990, time.May, 20, 0, 0, 0, 0, time.UTC),
			"34 años, 0 meses, 26 días"},
		{"exact birthday", time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC),
			"34 años, 0 meses, 0 días"},
		{"singulars", time.Date(2023, time.May, 14, 0, 0, 0, 0, time.UTC),
			"1 año, 1 mes, 1 día"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.birth
			if got := AgeDetailed(&b, ref); got != tc.want {
				t.Fatalf("AgeDetailed() = %q, want %q", got, tc.want)
			}
		})
	}
	if AgeDetailed(nil, ref) != NA {
		t.Fatalf("nil birth date should format as %q", NA)
	}
}

func TestStayDaysCeiling(t *testing.T) {
	in := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	out := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC) // 2 days + 1h
	if got := StayDays(in, &out, out); got != 3 {
		t.Fatalf("StayDays partial day = %d, want 3", got)
	}
	sameDay := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if got := StayDays(in, &sameDay, sameDay); got != 1 {
		t.Fatalf("StayDays same day = %d, want 1", got)
	}
	// Ongoing stay measured against now.
	now := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	if got := StayDays(in, nil, now); got != 5 {
		t.Fatalf("StayDays ongoing = %d, want 5", got)
	}
}

func TestBMIAndIdealWeight(t *testing.T) {
	w, h := 70.0, 175.0
	bmi, ok := BMI(&w, &h)
	if !ok {
		t.Fatal("BMI should be computable")
	}
	if math.Abs(bmi-22.857) > 0.01 {
		t.Fatalf("BMI = %.3f, want ≈22.86", bmi)
	}
	if BMIClass(bmi) != "Normal" {
		t.Fatalf("BMIClass(%.1f) = %q", bmi, BMIClass(bmi))
	}
	lo, hi, ok := IdealWeight(&h)
	if !ok {
		t.Fatal("IdealWeight should be computable")
	}
	if math.Abs(lo-65.0) > 0.01 || math.Abs(hi-68.75) > 0.01 {
		t.Fatalf("IdealWeight = %.2f–%.2f, want 65.00–68.75", lo, hi)
	}
	if _, ok := BMI(nil, &h); ok {
		t.Fatal("BMI without weight should not be computable")
	}
	short := 140.0
	if _, _, ok := IdealWeight(&short); ok {
		t.Fatal("IdealWeight below 150cm should not be computable")
	}
}

func TestOrNA(t *testing.T) {
	if OrNA("  ") != NA {
		t.Fatal("blank should become N/A")
	}
	if OrNA("valor") != "valor" {
		t.Fatal("non-blank should pass through")
	}
}

func TestLabelMappings(t *testing.T) {
	if got := MaritalStatus("union_libre"); got != "Unión libre" {
		t.Fatalf("MaritalStatus = %q", got)
	}
	if got := MaritalStatus("otro_estado"); got != "Otro estado" {
		t.Fatalf("unmapped marital status fallback = %q", got)
	}
	if got := EducationLevel("tecnico"); got != "Técnico" {
		t.Fatalf("EducationLevel = %q", got)
	}
	if got := EducationLevel(""); got != NA {
		t.Fatalf("empty education level = %q", got)
	}
}

func TestHumanizeKey(t *testing.T) {
	cases := map[string]string{
		"dolorToracico": "Dolor torácico", // dictionary hit
		"perdida_peso":  "Perdida peso",
		"otroCampo":     "Otro campo",
	}
	for in, want := range cases {
		if got := HumanizeKey(in); got != want {
			t.Fatalf("HumanizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 4); got != "abcd..." {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("abc", 4); got != "abc" {
		t.Fatalf("Truncate short = %q", got)
	}
	if !strings.HasSuffix(Truncate("señalización", 4), "...") {
		t.Fatal("multibyte truncation should append ellipsis")
	}
}
