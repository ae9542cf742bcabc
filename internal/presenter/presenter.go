package presenter

import (
	"time"

	"tsunami_usgs/internal/display"
	"tsunami_usgs/internal/logger"
	"tsunami_usgs/internal/models"
)

// Display strings for the tsunami region.
const (
	AlertNo      = "no tsunami alert issued"
	AlertYes     = "tsunami alert issued"
	NotAvailable = "not available"
)

// DateLayout renders e.g. "Sun, 1 Jan 2012 at 00:00:00 UTC".
const DateLayout = "Mon, 2 Jan 2006 at 15:04:05 MST"

// TsunamiAlertString maps the feed's tsunami flag to its display text.
func TsunamiAlertString(code int) string {
	switch code {
	case 0:
		return AlertNo
	case 1:
		return AlertYes
	default:
		return NotAvailable
	}
}

// DateString formats epoch milliseconds in loc (time.Local when nil).
func DateString(millis int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(millis).In(loc).Format(DateLayout)
}

// Presenter writes an event onto a display surface.
type Presenter struct {
	loc *time.Location
	log *logger.Logger
}

func New(loc *time.Location, log *logger.Logger) *Presenter {
	return &Presenter{loc: loc, log: log}
}

type regionText struct {
	region display.Region
	format func() string
}

// Render sets the three regions. Each region is formatted on its own so a
// failure in one leaves the others in place. Surfaces that accept a batch
// receive the whole record in one call.
func (p *Presenter) Render(s display.Surface, ev models.EarthquakeEvent) {
	regions := []regionText{
		{display.RegionTitle, func() string { return ev.Title() }},
		{display.RegionDate, func() string { return DateString(ev.OccurredAtMillis(), p.loc) }},
		{display.RegionTsunamiAlert, func() string { return TsunamiAlertString(ev.TsunamiAlert()) }},
	}
	p.render(s, regions)
}

func (p *Presenter) render(s display.Surface, regions []regionText) {
	b, ok := s.(display.Batcher)
	if !ok {
		for _, r := range regions {
			p.guard(r.region, func() { s.SetText(r.region, r.format()) })
		}
		return
	}

	updates := make([]display.Update, 0, len(regions))
	for _, r := range regions {
		p.guard(r.region, func() {
			updates = append(updates, display.Update{Region: r.region, Text: r.format()})
		})
	}
	if len(updates) == 0 {
		return
	}
	p.guard("", func() { b.SetTexts(updates...) })
}

func (p *Presenter) guard(region display.Region, fn func()) {
	defer func() {
		if r := recover(); r != nil && p.log != nil {
			p.log.Errorw("render_region_failed", "region", region, "panic", r)
		}
	}()
	fn()
}
