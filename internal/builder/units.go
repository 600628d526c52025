package builder

import (
	"fmt"
	"math"
	"time"
	_ "time/tzdata" // zone rules for hosts without a zoneinfo database
)

const (
	// The gadget assumes Imperial units.
	temperatureUnit = "F"
	windUnit        = "mph"
	// Weatherbit reports mph with units=I.
	windConversion = 1.0
)

// windSpeed renders "<speed> mph", truncating toward zero.
func windSpeed(speed float64) string {
	return fmt.Sprintf("%d %s", int(speed*windConversion), windUnit)
}

// windDisplay renders "<speed> mph <direction>".
func windDisplay(speed float64, direction string) string {
	return fmt.Sprintf("%s %s", windSpeed(speed), direction)
}

// utcOffset is the zone's offset from UTC at instant now.
func utcOffset(zone string, now time.Time) (time.Duration, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return 0, fmt.Errorf("%w: timezone %q: %w", ErrDateParse, zone, err)
	}
	_, offset := now.In(loc).Zone()
	return time.Duration(offset) * time.Second, nil
}

// offsetHours renders an offset as whole hours, truncated toward zero
// (-3h30m becomes "-3").
func offsetHours(offset time.Duration) string {
	return fmt.Sprintf("%d", int64(math.Trunc(offset.Hours())))
}

const (
	observationLayout = "2006-01-02 15:04"
	dateLayout        = "2006-01-02"
)

// localObservationTime shifts the provider's UTC observation time into the
// location's local time.
func localObservationTime(obTime string, offset time.Duration) (time.Time, error) {
	t, err := time.Parse(observationLayout, obTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: ob_time %q: %w", ErrDateParse, obTime, err)
	}
	return t.Add(offset), nil
}

func parseValidDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: valid_date %q: %w", ErrDateParse, s, err)
	}
	return t, nil
}
