package report

import (
	"time"

	"github.com/shopspring/decimal"
)

const DaysPerWeek = 7

// DaySlot holds the totals of one calendar day; DayIndex 0 is Monday.
type DaySlot struct {
	DayIndex     int             `json:"day_index"`
	Date         string          `json:"date"`
	SalesTotal   decimal.Decimal `json:"sales_total"`
	BookingCount int64           `json:"booking_count"`
}

// WeeklyBucket is the Monday..Sunday sales trend
type WeeklyBucket struct {
	WeekStart  time.Time            `json:"week_start"`
	WeekEnd    time.Time            `json:"week_end"`
	Days       [DaysPerWeek]DaySlot `json:"days"`
	TotalSales decimal.Decimal      `json:"total_sales"`
}

// WeekBounds returns Monday 00:00 and the last instant of Sunday of the week
// containing ref, in ref's location.
func WeekBounds(ref time.Time) (time.Time, time.Time) {
	y, m, d := ref.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())

	dow := int(midnight.Weekday()) // 0 = Sunday
	offset := 1 - dow
	if dow == 0 {
		offset = -6
	}
	start := midnight.AddDate(0, 0, offset)
	end := start.AddDate(0, 0, DaysPerWeek).Add(-time.Nanosecond)
	return start, end
}

// DayIndex maps a weekday to a Monday-anchored index: Monday 0 .. Sunday 6.
func DayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % DaysPerWeek
}

func PreviousWeek(date time.Time) time.Time {
	return date.AddDate(0, 0, -DaysPerWeek)
}

func NextWeek(date time.Time) time.Time {
	return date.AddDate(0, 0, DaysPerWeek)
}

// BucketWeek spreads bookings over the 7 days of ref's week. The bookings are
// expected to be pre-filtered to the week; membership is not re-checked.
// Every booking is counted, only paid ones with a valid total add sales.
func BucketWeek(ref time.Time, bookings []ClassifiedBooking) WeeklyBucket {
	start, end := WeekBounds(ref)
	wb := WeeklyBucket{
		WeekStart:  start,
		WeekEnd:    end,
		TotalSales: decimal.Zero,
	}
	for i := range wb.Days {
		wb.Days[i] = DaySlot{
			DayIndex:   i,
			Date:       start.AddDate(0, 0, i).Format(time.DateOnly),
			SalesTotal: decimal.Zero,
		}
	}

	for _, b := range bookings {
		idx := DayIndex(b.Booking.CreatedAt.In(ref.Location()))
		wb.Days[idx].BookingCount++
		if b.Paid && b.TotalValid {
			wb.Days[idx].SalesTotal = wb.Days[idx].SalesTotal.Add(b.Total)
			wb.TotalSales = wb.TotalSales.Add(b.Total)
		}
	}
	return wb
}
