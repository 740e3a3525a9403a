package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/ctaridership/internal/models"
)

const (
	FlagStationMissing = "station_missing"
	FlagDateMissing    = "date_missing"
	FlagDayTypeUnknown = "day_type_unknown"
	FlagRidersNegative = "riders_negative"
)

var ErrInvalidRecord = errors.New("invalid ridership record")

// ValidateRecord returns the quality flags raised by a ridership row, or
// nil when it can be stored.
func ValidateRecord(r models.RidershipRecord) []string {
	var flags []string

	if r.StationID <= 0 {
		flags = append(flags, FlagStationMissing)
	}
	if r.Date.IsZero() {
		flags = append(flags, FlagDateMissing)
	}
	switch r.DayType {
	case models.Weekday, models.Saturday, models.SundayHoliday:
	default:
		flags = append(flags, FlagDayTypeUnknown)
	}
	if r.Riders < 0 {
		flags = append(flags, FlagRidersNegative)
	}

	return flags
}

func validateRecords(records []models.RidershipRecord) error {
	for i, r := range records {
		if flags := ValidateRecord(r); len(flags) > 0 {
			return fmt.Errorf("%w: record %d (station %d): %s", ErrInvalidRecord, i, r.StationID, strings.Join(flags, ", "))
		}
	}
	return nil
}
