package hunt

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// Notification texts use Telegram HTML parse mode, so free-form input (error
// messages, zone names) is escaped before interpolation.

func startupMessage(run string, config Config) string {
	var sb strings.Builder
	sb.WriteString("🚀 <b>Capacity hunt started</b>\n")
	fmt.Fprintf(&sb, "Run: <b>%s</b>\n", html.EscapeString(run))
	fmt.Fprintf(&sb, "Zones: %s\n", html.EscapeString(strings.Join(config.Zones, ", ")))
	fmt.Fprintf(&sb, "Interval: %.1fs", config.InitialInterval.Seconds())
	return sb.String()
}

func statusMessage(run string, s Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🤖 <b>Still hunting</b> (%s)\n", html.EscapeString(run))
	fmt.Fprintf(&sb, "Attempts: %d\n", s.TotalAttempts)
	fmt.Fprintf(&sb, "Uptime: %s\n", formatUptime(s.UptimeSeconds))
	fmt.Fprintf(&sb, "Zone: %s\n", html.EscapeString(s.CurrentZone))
	fmt.Fprintf(&sb, "Wait: %.1fs", s.RetryIntervalSeconds)
	if s.LastError != "" {
		fmt.Fprintf(&sb, "\nLast error: %s", html.EscapeString(s.LastError))
	}
	return sb.String()
}

func successMessage(run, zone, id string, s Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎉 <b>Instance created</b> (%s)\n", html.EscapeString(run))
	fmt.Fprintf(&sb, "Zone: %s\n", html.EscapeString(zone))
	fmt.Fprintf(&sb, "<code>%s</code>\n", html.EscapeString(id))
	fmt.Fprintf(&sb, "Attempts: %d in %s", s.TotalAttempts, formatUptime(s.UptimeSeconds))
	return sb.String()
}

func alertMessage(run string, category Category, message string) string {
	return fmt.Sprintf("🚨 <b>%s</b> (%s)\n%s",
		html.EscapeString(string(category)), html.EscapeString(run), html.EscapeString(message))
}

func finalMessage(run string, s Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🛑 <b>Hunt stopped</b> (%s)\n", html.EscapeString(run))
	fmt.Fprintf(&sb, "Outcome: %s\n", html.EscapeString(s.LastOutcome))
	fmt.Fprintf(&sb, "Attempts: %d\n", s.TotalAttempts)
	fmt.Fprintf(&sb, "Uptime: %s\n", formatUptime(s.UptimeSeconds))
	fmt.Fprintf(&sb, "Instances: %d", len(s.InstancesCreated))
	return sb.String()
}

func configErrorMessage(run string, err error) string {
	return fmt.Sprintf("❌ <b>Invalid hunt configuration</b> (%s)\n%s",
		html.EscapeString(run), html.EscapeString(err.Error()))
}

func formatUptime(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
