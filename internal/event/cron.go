package event

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// cron parameters use the classic five-field layout: minute, hour,
// day-of-month, month, day-of-week.
var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ValidateCron checks that expr parses as a five-field cron expression
// and that every day-of-week entry is a plain 0..6 integer, which is
// all RenderCron knows how to describe.
func ValidateCron(expr string) error {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return Invalid("cron", "must have 5 fields")
	}
	if _, err := cronParser.Parse(expr); err != nil {
		return Invalid("cron", err.Error())
	}
	for _, part := range strings.Split(fields[4], ",") {
		day, err := strconv.Atoi(part)
		if err != nil || day < 0 || day > 6 {
			return Invalid("cron", "day-of-week entries must be 0-6")
		}
	}
	return nil
}

// RenderCron turns a stored cron expression into the fixed sentence
// the events page shows, e.g. "Triggered every Mon,Wed,Fri at 8:0".
// Expressions that do not fit the expected shape come back verbatim.
func RenderCron(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return expr
	}
	parts := strings.Split(fields[4], ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		day, err := strconv.Atoi(part)
		if err != nil || day < 0 || day > 6 {
			return expr
		}
		names = append(names, weekdayNames[day])
	}
	return fmt.Sprintf("Triggered every %s at %s:%s",
		strings.Join(names, ","), fields[1], fields[0])
}
