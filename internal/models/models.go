package models

import "time"

type Station struct {
	ID        int64
	Name      string
	Latitude  float64 // taken from the station's stops; zero when not joined
	Longitude float64
}

type Stop struct {
	ID         int64
	StationID  int64
	Name       string
	Direction  string // "N", "S", "E", "W"
	Accessible bool
	Latitude   float64
	Longitude  float64
}

type Line struct {
	ID    int64
	Color string
}

// DayType is the Type_of_Day classifier stored with each ridership row.
type DayType string

const (
	Weekday       DayType = "W"
	Saturday      DayType = "A"
	SundayHoliday DayType = "U"
)

// DayTypes lists the classifiers in display order.
var DayTypes = []DayType{Weekday, Saturday, SundayHoliday}

func (d DayType) Label() string {
	switch d {
	case Weekday:
		return "Weekday"
	case Saturday:
		return "Saturday"
	case SundayHoliday:
		return "Sunday/holiday"
	default:
		return string(d)
	}
}

type RidershipRecord struct {
	StationID int64
	Date      time.Time
	DayType   DayType
	Riders    int64
}

// DailyCount is one row of a station's ridership for a single date.
type DailyCount struct {
	Date   time.Time
	Riders int64
}

// GroupKey selects the dimension a ridership sum is grouped by.
type GroupKey int

const (
	ByStation GroupKey = iota
	ByMonth
	ByYear
)

func (k GroupKey) String() string {
	switch k {
	case ByStation:
		return "station"
	case ByMonth:
		return "month"
	case ByYear:
		return "year"
	default:
		return "unknown"
	}
}

// Ordering selects how grouped sums are sorted.
type Ordering int

const (
	ByKeyAsc Ordering = iota
	ByValueDesc
	ByValueAsc
)

// GroupTotal is a grouped ridership sum keyed by its display label.
type GroupTotal struct {
	Label  string
	Riders int64
}

type LineStop struct {
	Name       string
	Direction  string
	Accessible bool
}

// Stats summarises the whole database.
type Stats struct {
	Stations  int64
	Stops     int64
	Entries   int64
	FirstDate time.Time
	LastDate  time.Time
	Total     int64
	ByDayType map[DayType]int64
}
