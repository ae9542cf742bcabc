package models

// Labels is a snapshot of the three display regions.
type Labels struct {
	Title        string `json:"title"`
	Date         string `json:"date"`
	TsunamiAlert string `json:"tsunami_alert"`
	Ready        bool   `json:"ready"` // false until an event was rendered
}
