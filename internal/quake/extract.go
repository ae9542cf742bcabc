package quake

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"tsunami_usgs/internal/models"
)

var (
	ErrInvalidJSON  = errors.New("quake: response is not a geojson object")
	ErrNoFeatures   = errors.New("quake: response has no features array")
	ErrEmptyResult  = errors.New("quake: features array is empty")
	ErrMissingField = errors.New("quake: required property missing or mistyped")
)

type featureCollection struct {
	Features *[]json.RawMessage `json:"features"`
}

type feature struct {
	Properties map[string]json.RawMessage `json:"properties"`
}

// Extract reads features[0].properties.{title,time,tsunami} from a GeoJSON
// FeatureCollection. It returns an event only when all three are present and
// well typed; every other input yields one of the package errors.
func Extract(body string) (models.EarthquakeEvent, error) {
	var fc featureCollection
	if err := json.Unmarshal([]byte(body), &fc); err != nil {
		return models.EarthquakeEvent{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if fc.Features == nil {
		return models.EarthquakeEvent{}, ErrNoFeatures
	}
	if len(*fc.Features) == 0 {
		return models.EarthquakeEvent{}, ErrEmptyResult
	}

	var first feature
	if err := json.Unmarshal((*fc.Features)[0], &first); err != nil {
		return models.EarthquakeEvent{}, fmt.Errorf("%w: features[0]: %v", ErrInvalidJSON, err)
	}
	if first.Properties == nil {
		return models.EarthquakeEvent{}, fmt.Errorf("%w: properties", ErrMissingField)
	}

	title, err := stringField(first.Properties, "title")
	if err != nil {
		return models.EarthquakeEvent{}, err
	}
	millis, err := intField(first.Properties, "time")
	if err != nil {
		return models.EarthquakeEvent{}, err
	}
	tsunami, err := intField(first.Properties, "tsunami")
	if err != nil {
		return models.EarthquakeEvent{}, err
	}
	if tsunami < math.MinInt32 || tsunami > math.MaxInt32 {
		return models.EarthquakeEvent{}, fmt.Errorf("%w: tsunami out of range", ErrMissingField)
	}

	return models.NewEarthquakeEvent(title, millis, int(tsunami)), nil
}

func stringField(props map[string]json.RawMessage, key string) (string, error) {
	raw, ok := props[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil {
		return "", fmt.Errorf("%w: %s is not a string", ErrMissingField, key)
	}
	return *s, nil
}

func intField(props map[string]json.RawMessage, key string) (int64, error) {
	raw, ok := props[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrMissingField, key, err)
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrMissingField, key)
	}
	i, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrMissingField, key)
	}
	return i, nil
}
