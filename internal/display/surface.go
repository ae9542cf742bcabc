package display

// Region names one text area of the screen.
type Region string

const (
	RegionTitle        Region = "title"
	RegionDate         Region = "date"
	RegionTsunamiAlert Region = "tsunami_alert"
)

// Surface is a passive display: it shows whatever text it is handed.
type Surface interface {
	SetText(region Region, text string)
}

// Update is the new text for one region.
type Update struct {
	Region Region
	Text   string
}

// Batcher is a Surface that takes a whole render at once, so readers never
// observe some regions of the new record next to stale or empty ones.
type Batcher interface {
	Surface
	SetTexts(updates ...Update)
}

// Multi fans every update out to all surfaces in order.
func Multi(surfaces ...Surface) Surface {
	return multi(surfaces)
}

type multi []Surface

func (m multi) SetText(region Region, text string) {
	for _, s := range m {
		s.SetText(region, text)
	}
}

// SetTexts hands the batch to surfaces that accept one and replays it
// region by region on the rest.
func (m multi) SetTexts(updates ...Update) {
	for _, s := range m {
		if b, ok := s.(Batcher); ok {
			b.SetTexts(updates...)
			continue
		}
		for _, u := range updates {
			s.SetText(u.Region, u.Text)
		}
	}
}
