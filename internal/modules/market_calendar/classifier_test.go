package market_calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	classifier := NewClassifier(defaultTables(t))

	tests := []struct {
		name     string
		date     time.Time
		expected DayClass
	}{
		{"New Year's Day", day(2025, time.January, 1), DayHoliday},
		{"first trading day", day(2025, time.January, 2), DayRegular},
		{"Saturday", day(2025, time.January, 4), DayWeekend},
		{"Sunday", day(2025, time.January, 5), DayWeekend},
		{"Good Friday literal", day(2025, time.April, 18), DayHoliday},
		{"Independence Day Eve", day(2025, time.July, 3), DayEarlyClose},
		{"Christmas Eve", day(2025, time.December, 24), DayEarlyClose},
		{"New Year's Eve", day(2025, time.December, 31), DayRegular},
		{"previous year", day(2024, time.December, 31), DayOutOfRange},
		{"next year", day(2026, time.January, 2), DayOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.date))
		})
	}
}

func TestClassifier_ClassifyIgnoresTimeOfDay(t *testing.T) {
	classifier := NewClassifier(defaultTables(t))

	late := time.Date(2025, time.July, 4, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, DayHoliday, classifier.Classify(late))
}

func TestClassifier_Session(t *testing.T) {
	classifier := NewClassifier(defaultTables(t))

	regular := classifier.Session(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, DayRegular, regular.Class)
	assert.True(t, regular.IsTradingDay())
	assert.Equal(t, time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC), regular.Open)
	assert.Equal(t, time.Date(2025, time.March, 10, 16, 0, 0, 0, time.UTC), regular.Close)

	early := classifier.Session(day(2025, time.November, 28))
	assert.Equal(t, DayEarlyClose, early.Class)
	assert.Equal(t, "Day After Thanksgiving", early.Name)
	assert.Equal(t, 13, early.Close.Hour())

	holiday := classifier.Session(day(2025, time.November, 27))
	assert.Equal(t, DayHoliday, holiday.Class)
	assert.Equal(t, "Thanksgiving Day", holiday.Name)
	assert.False(t, holiday.IsTradingDay())
	assert.True(t, holiday.Open.IsZero())
	assert.True(t, holiday.Close.IsZero())
}

func TestClassifier_Sessions(t *testing.T) {
	sessions := NewClassifier(defaultTables(t)).Sessions()
	assert.Len(t, sessions, 365)

	counts := make(map[DayClass]int)
	for _, s := range sessions {
		counts[s.Class]++
	}
	assert.Equal(t, 104, counts[DayWeekend])
	assert.Equal(t, 10, counts[DayHoliday])
	assert.Equal(t, 3, counts[DayEarlyClose])
	assert.Equal(t, 248, counts[DayRegular])
}

func TestClockTime_Label(t *testing.T) {
	assert.Equal(t, "9:30 AM", ClockTime{Hour: 9, Minute: 30}.Label())
	assert.Equal(t, "1:00 PM", ClockTime{Hour: 13}.Label())
	assert.Equal(t, "4:00 PM", ClockTime{Hour: 16}.Label())
	assert.Equal(t, "16:00", ClockTime{Hour: 16}.String())
}
