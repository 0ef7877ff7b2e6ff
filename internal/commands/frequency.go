package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// ToCron maps a user-supplied frequency to a cron expression. Presets and
// "every N minutes/hours" phrasing are recognized; anything else is treated
// as a raw cron expression and validated as-is.
func ToCron(text string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))

	switch normalized {
	case "hourly":
		return "0 * * * *", nil
	case "daily":
		return "0 12 * * *", nil
	case "weekly":
		return "0 12 * * 1", nil
	}

	if expr, ok := parseEvery(normalized); ok {
		return expr, nil
	}

	if _, err := cron.ParseStandard(text); err != nil {
		return "", fmt.Errorf("unrecognized frequency %q: %w", text, err)
	}
	return text, nil
}

// parseEvery handles "every N minutes" (1-59) and "every N hours" (1-23).
func parseEvery(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) != 3 || fields[0] != "every" {
		return "", false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", false
	}

	switch strings.TrimSuffix(fields[2], "s") {
	case "minute", "min":
		if n < 1 || n > 59 {
			return "", false
		}
		return fmt.Sprintf("*/%d * * * *", n), true
	case "hour", "hr":
		if n < 1 || n > 23 {
			return "", false
		}
		return fmt.Sprintf("0 */%d * * *", n), true
	}
	return "", false
}
