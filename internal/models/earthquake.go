package models

// EarthquakeEvent is the single record read from a USGS feed response.
// Fields are fixed at construction; use NewEarthquakeEvent.
type EarthquakeEvent struct {
	title            string
	occurredAtMillis int64
	tsunamiAlert     int
}

func NewEarthquakeEvent(title string, occurredAtMillis int64, tsunamiAlert int) EarthquakeEvent {
	return EarthquakeEvent{
		title:            title,
		occurredAtMillis: occurredAtMillis,
		tsunamiAlert:     tsunamiAlert,
	}
}

// Title is the human-readable description, e.g. "M 6.8 - offshore region".
func (e EarthquakeEvent) Title() string { return e.title }

// OccurredAtMillis is the event time in epoch milliseconds (UTC).
func (e EarthquakeEvent) OccurredAtMillis() int64 { return e.occurredAtMillis }

// TsunamiAlert is 0 (no alert), 1 (alert issued) or anything else (unknown).
func (e EarthquakeEvent) TsunamiAlert() int { return e.tsunamiAlert }
