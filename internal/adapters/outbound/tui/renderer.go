package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdidvp/taxes/internal/domain"
)

// ── palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle    = lipgloss.NewStyle().Foreground(dim)
	valueStyle    = lipgloss.NewStyle().Foreground(fg)
	totalStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	separatorLine = lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("─", 28))
)

const labelWidth = 12

// RenderQuote formats an order form as a receipt. The last line is always
// "Total: <total>".
func RenderQuote(form domain.OrderForm) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Sales tax") + "\n")
	b.WriteString("  " + separatorLine + "\n")

	renderRow(&b, "Zipcode", form.Zipcode)
	renderRow(&b, "Tax rate", form.TaxRate+"%")
	renderRow(&b, "Subtotal", form.SubTotal)
	renderRow(&b, "Tax", form.TaxTotal)

	b.WriteString("  " + separatorLine + "\n")
	b.WriteString("  " + totalStyle.Render("Total: "+form.Total) + "\n")

	return b.String()
}

// RenderResult formats the API's reply to a submitted order.
func RenderResult(result *domain.OrderResult) string {
	msg := result.StatusMessage
	if msg == "" {
		msg = "Order submitted"
	}
	return "  " + passStyle.Render("✓") + " " + msg + "\n"
}

// RenderError formats a failure for stderr.
func RenderError(err error) string {
	return failStyle.Render("✗") + " " + err.Error() + "\n"
}

func renderRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s %s\n", labelStyle.Render(padRight(label, labelWidth)), valueStyle.Render(value))
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
