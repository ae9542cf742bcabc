package display

import (
	"bytes"
	"testing"
	"time"
)

func TestBoard_StartsUnset(t *testing.T) {
	t.Parallel()

	l := NewBoard().Labels()
	if l.Ready || l.Title != "" || l.Date != "" || l.TsunamiAlert != "" {
		t.Fatalf("expected empty labels, got %+v", l)
	}
}

func TestBoard_SetTextAndChanged(t *testing.T) {
	t.Parallel()

	b := NewBoard()
	wait := b.Changed()

	b.SetText(RegionTitle, "M 6.8")
	select {
	case <-wait:
	case <-time.After(time.Second):
		t.Fatal("Changed channel not closed after SetText")
	}

	if b.Labels().Ready {
		t.Fatal("board must not be ready with only the title set")
	}

	b.SetText(RegionDate, "Sun, 1 Jan 2012")
	b.SetText(RegionTsunamiAlert, "tsunami alert issued")

	l := b.Labels()
	if !l.Ready || l.Title != "M 6.8" || l.Date != "Sun, 1 Jan 2012" || l.TsunamiAlert != "tsunami alert issued" {
		t.Fatalf("unexpected labels %+v", l)
	}
}

func TestBoard_IgnoresUnknownRegion(t *testing.T) {
	t.Parallel()

	b := NewBoard()
	wait := b.Changed()
	b.SetText(Region("footer"), "x")

	if b.Labels().Ready {
		t.Fatal("unknown region must not mark board ready")
	}
	select {
	case <-wait:
		t.Fatal("unknown region must not signal a change")
	default:
	}
}

func TestMulti_FansOut(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	b := NewBoard()
	s := Multi(b, NewConsole(&buf))

	s.SetText(RegionTitle, "quake")

	if b.Labels().Title != "quake" {
		t.Fatalf("board title = %q", b.Labels().Title)
	}
	if buf.String() != "title: quake\n" {
		t.Fatalf("console output = %q", buf.String())
	}
}

func TestBoard_SetTextsSingleChange(t *testing.T) {
	t.Parallel()

	b := NewBoard()
	wait := b.Changed()

	b.SetTexts(
		Update{Region: RegionTitle, Text: "M 7.6"},
		Update{Region: RegionTsunamiAlert, Text: "no tsunami alert issued"},
		Update{Region: Region("footer"), Text: "ignored"},
	)

	select {
	case <-wait:
	default:
		t.Fatal("Changed channel not closed after SetTexts")
	}
	l := b.Labels()
	if !l.Ready || l.Title != "M 7.6" || l.Date != "" || l.TsunamiAlert != "no tsunami alert issued" {
		t.Fatalf("unexpected labels %+v", l)
	}

	next := b.Changed()
	b.SetTexts(Update{Region: Region("footer"), Text: "x"})
	select {
	case <-next:
		t.Fatal("a batch of unknown regions must not signal a change")
	default:
	}
}

func TestMulti_ReplaysBatchOnPlainSurfaces(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	b := NewBoard()
	s := Multi(b, NewConsole(&buf)).(Batcher)

	s.SetTexts(Update{Region: RegionTitle, Text: "quake"}, Update{Region: RegionDate, Text: "today"})

	if l := b.Labels(); !l.Ready || l.Title != "quake" || l.Date != "today" {
		t.Fatalf("board labels = %+v", l)
	}
	if buf.String() != "title: quake\ndate: today\n" {
		t.Fatalf("console output = %q", buf.String())
	}
}
