package layout

import (
	"strings"
	"testing"
	"time"
)

func TestEnsureSpaceInvariant(t *testing.T) {
	rec := &Recorder{}
	f, cur := NewFlow(rec, LetterGeometry())

	heights := []float64{10, 120, 400, 55, 300, 650, 5, 672}
	for _, h := range heights {
		cur = f.EnsureSpace(cur, h)
		if got := f.Geo.BottomLimit() - cur.Y; got < h {
			t.Fatalf("after EnsureSpace(%v): remaining %v < %v", h, got, h)
		}
		cur.Y += h
	}
}

func TestEnsureSpaceKeepsCursorWhenFits(t *testing.T) {
	rec := &Recorder{}
	f, cur := NewFlow(rec, LetterGeometry())
	cur.Y = 200
	got := f.EnsureSpace(cur, 100)
	if got != cur {
		t.Fatalf("cursor changed although space sufficed: %+v -> %+v", cur, got)
	}
	if rec.PageCount() != 1 {
		t.Fatalf("no page should have been added, got %d", rec.PageCount())
	}
}

func TestEnsureSpaceBreaksPage(t *testing.T) {
	geo := LetterGeometry()
	rec := &Recorder{}
	f, cur := NewFlow(rec, geo)
	cur.Y = geo.BottomLimit() - 30

	got := f.EnsureSpace(cur, 31)
	if got.Page != 2 {
		t.Fatalf("expected page 2, got %d", got.Page)
	}
	if got.Y != geo.Top {
		t.Fatalf("expected reset to top margin %v, got %v", geo.Top, got.Y)
	}
	if rec.PageCount() != 2 {
		t.Fatalf("canvas should have 2 pages, got %d", rec.PageCount())
	}
}

func TestCursorMonotonicity(t *testing.T) {
	rec := &Recorder{}
	f, cur := NewFlow(rec, LetterGeometry())

	steps := []func(Cursor) Cursor{
		func(c Cursor) Cursor { return f.Banner(f.EnsureSpace(c, BannerH+14), "Sección") },
		func(c Cursor) Cursor { return f.KeyValue(c, "Etiqueta", "valor") },
		func(c Cursor) Cursor { return f.Paragraph(c, strings.Repeat("texto largo ", 200), 9) },
		func(c Cursor) Cursor {
			c = f.EnsureSpace(c, TableHeaderH+TableRowH)
			c = f.TableHeader(c, []string{"A", "B"}, []float64{100, 100})
			return f.TableRow(c, []string{"1", "2"}, []float64{100, 100}, false)
		},
		func(c Cursor) Cursor { return f.Rule(f.EnsureSpace(c, 600)) },
	}

	prev := cur
	for i, step := range steps {
		next := step(prev)
		if next.Page < prev.Page {
			t.Fatalf("step %d: page went backwards %d -> %d", i, prev.Page, next.Page)
		}
		if next.Page == prev.Page && next.Y <= prev.Y {
			t.Fatalf("step %d: cursor did not advance on page %d: %v -> %v",
				i, next.Page, prev.Y, next.Y)
		}
		prev = next
	}
}

func TestBannerAdvancesFixedHeight(t *testing.T) {
	rec := &Recorder{}
	f, cur := NewFlow(rec, LetterGeometry())
	got := f.Banner(cur, "Diagnósticos y Alertas")
	if got.Y-cur.Y != BannerH+14 {
		t.Fatalf("banner advance = %v, want %v", got.Y-cur.Y, float64(BannerH+14))
	}
	if !rec.ContainsText("DIAGNÓSTICOS Y ALERTAS") {
		t.Fatalf("banner title not drawn uppercase: %v", rec.Texts())
	}
}

func TestFinisherStampsEveryPage(t *testing.T) {
	rec := &Recorder{}
	f, _ := NewFlow(rec, LetterGeometry())
	rec.AddPage()
	rec.AddPage() // 3 pages total

	fin := Finisher{
		Geo:        f.Geo,
		FooterLeft: "Clínica MIA - HCE",
		PrintedAt:  time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC),
	}
	fin.Finish(rec)

	for page := 1; page <= 3; page++ {
		texts := rec.TextsOnPage(page)
		var foundMark, foundFooter bool
		for _, s := range texts {
			if s == WatermarkText {
				foundMark = true
			}
			if strings.Contains(s, "Página "+itoa(page)+" de 3") {
				foundFooter = true
			}
		}
		if !foundMark {
			t.Fatalf("page %d missing watermark", page)
		}
		if !foundFooter {
			t.Fatalf("page %d missing footer, texts: %v", page, texts)
		}
	}
	if !rec.ContainsText("Impreso: 01/06/2024 10:30") {
		t.Fatal("printed-at stamp missing")
	}
}

func itoa(n int) string {
	return string(rune('0' + n))
}

func TestEstimateLines(t *testing.T) {
	if EstimateLines("", 400, 9) != 0 {
		t.Fatal("blank text should occupy no lines")
	}
	if EstimateLines("corto", 400, 9) != 1 {
		t.Fatal("short text should fit one line")
	}
	long := strings.Repeat("x", 500)
	if EstimateLines(long, 400, 9) < 2 {
		t.Fatal("500 chars in a 400pt column should wrap")
	}
	if got := EstimateLines("a\nb\nc", 400, 9); got != 3 {
		t.Fatalf("3 explicit lines, got %d", got)
	}
}
