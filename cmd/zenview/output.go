package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/mzrithm/zenview/internal/ticket"
)

const (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
	gray   = "\033[90m"
)

const (
	boxTopLeft     = "┌"
	boxTopRight    = "┐"
	boxBottomLeft  = "└"
	boxBottomRight = "┘"
	boxHorizontal  = "─"
	boxVertical    = "│"
	boxTeeRight    = "├"
	boxTeeLeft     = "┤"

	checkMark = "✓"
	bullet    = "●"
)

// descriptionWidth is the wrap width for ticket text in detail output.
const descriptionWidth = 70

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// wrapText wraps s on word boundaries at the given width.
func wrapText(s string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := words[0]
		for _, word := range words[1:] {
			if len(line)+1+len(word) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func hasTag(t ticket.Ticket, tag string) bool {
	needle := strings.ToLower(strings.TrimSpace(tag))
	for _, tg := range t.Tags {
		if tg == needle {
			return true
		}
	}
	return false
}

func statusColor(status string) string {
	switch status {
	case "new":
		return yellow
	case "open":
		return red
	case "pending", "hold":
		return blue
	case "solved", "closed":
		return green
	default:
		return gray
	}
}

func printTicketTable(tickets []ticket.Ticket) {
	if len(tickets) == 0 {
		fmt.Println(dim + "No tickets to display" + reset)
		return
	}

	const idWidth = 8
	const statusWidth = 9
	const subjectWidth = 44
	const tagsWidth = 22
	const innerWidth = 1 + idWidth + 2 + statusWidth + 2 + subjectWidth + 2 + tagsWidth + 1

	titleText := "Tickets"
	rightDashes := innerWidth - 2 - len(titleText) - 1
	fmt.Printf("%s%s%s %s%s%s %s%s\n",
		gray, boxTopLeft, boxHorizontal,
		dim+cyan, titleText, reset,
		gray+strings.Repeat(boxHorizontal, rightDashes)+boxTopRight, reset)

	fmt.Printf("%s%s%s %s%s  %s  %s  %s%s %s%s%s\n",
		gray, boxVertical, reset,
		dim, padRight("ID", idWidth),
		padRight("STATUS", statusWidth),
		padRight("SUBJECT", subjectWidth),
		padRight("TAGS", tagsWidth), reset,
		gray, boxVertical, reset)

	fmt.Printf("%s%s%s%s%s\n",
		gray, boxTeeRight,
		strings.Repeat(boxHorizontal, innerWidth),
		boxTeeLeft, reset)

	for _, t := range tickets {
		id := truncate(fmt.Sprintf("#%d", t.ID), idWidth)
		status := truncate(t.Status, statusWidth)
		subject := truncate(t.Subject, subjectWidth)
		tags := truncate(strings.Join(t.Tags, ", "), tagsWidth)

		fmt.Printf("%s%s%s %s%s%s  %s%s%s  %s  %s%s%s %s%s%s\n",
			gray, boxVertical, reset,
			dim+cyan, padRight(id, idWidth), reset,
			statusColor(t.Status), padRight(status, statusWidth), reset,
			padRight(subject, subjectWidth),
			yellow, padRight(tags, tagsWidth), reset,
			gray, boxVertical, reset)
	}

	fmt.Printf("%s%s%s%s%s\n",
		gray, boxBottomLeft,
		strings.Repeat(boxHorizontal, innerWidth),
		boxBottomRight, reset)
}

func printPageFooter(page, pages, total int, fetchedAt time.Time) {
	if total == 0 {
		return
	}
	fmt.Printf("\n%spage %d of %d · %d tickets", dim, page, pages, total)
	if !fetchedAt.IsZero() {
		fmt.Printf(" · fetched %s", fetchedAt.Format("Jan 2 15:04"))
	}
	fmt.Println(reset)
}

func printTicketDetail(t ticket.Ticket) {
	line := gray + strings.Repeat(boxHorizontal, descriptionWidth) + reset
	fmt.Println(line)
	fmt.Printf("%s[Ticket #%d]%s %s%s%s\n", bold+cyan, t.ID, reset, bold, t.Subject, reset)
	fmt.Println(line)

	fmt.Printf("%s %s%s%s\n", padRight("Status:", 14), statusColor(t.Status), t.Status, reset)
	if t.Priority != "" {
		fmt.Printf("%s %s\n", padRight("Priority:", 14), t.Priority)
	}
	fmt.Printf("%s %d\n", padRight("Requester:", 14), t.RequesterID)
	fmt.Printf("%s %d\n", padRight("Assignee:", 14), t.AssigneeID)
	if len(t.Tags) > 0 {
		fmt.Printf("%s %s%s%s\n", padRight("Tags:", 14), yellow, strings.Join(t.Tags, ", "), reset)
	}

	fmt.Println()
	fmt.Println("Description:")
	for _, l := range wrapText(t.Description, descriptionWidth) {
		fmt.Println(l)
	}

	fmt.Println()
	if !t.FetchedAt.IsZero() {
		fmt.Printf("%sZendesk API called: %s%s\n", dim, t.FetchedAt.Format(time.RFC1123), reset)
	}
	fmt.Println(line)
}

// printTagColumns shows tags five to a row, each with its usage count, the
// way the tag report reads best for accounts with many tags.
func printTagColumns(tags []string, counts map[string]int) {
	for i, tag := range tags {
		display := fmt.Sprintf("%s (%d)", tag, counts[tag])
		fmt.Print(padRight(display, 24))
		if (i+1)%5 == 0 {
			fmt.Println()
		}
	}
	if len(tags)%5 != 0 {
		fmt.Println()
	}
}

func printSuccess(msg string) {
	fmt.Printf("%s%s %s%s\n", green, checkMark, msg, reset)
}


