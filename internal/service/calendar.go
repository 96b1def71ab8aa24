package service

import "time"

// DrawDates возвращает даты тиражей года в формате YYYY-MM-DD
// по дням недели weekdays, не позже upTo включительно
func DrawDates(year int, weekdays []time.Weekday, upTo time.Time) []string {
	days := make(map[time.Weekday]bool, len(weekdays))
	for _, wd := range weekdays {
		days[wd] = true
	}

	last := time.Date(upTo.Year(), upTo.Month(), upTo.Day(), 0, 0, 0, 0, time.UTC)
	var dates []string
	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year && !d.After(last); d = d.AddDate(0, 0, 1) {
		if days[d.Weekday()] {
			dates = append(dates, d.Format(time.DateOnly))
		}
	}
	return dates
}

// missingDates возвращает даты из wanted, которых нет в stored, сохраняя порядок
func missingDates(wanted, stored []string) []string {
	have := make(map[string]bool, len(stored))
	for _, date := range stored {
		have[date] = true
	}

	var missing []string
	for _, date := range wanted {
		if !have[date] {
			missing = append(missing, date)
		}
	}
	return missing
}
