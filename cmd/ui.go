package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(8)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2)
)

type bannerInfo struct {
	Version   string
	ServerURL string
	Origin    string
	Store     string
	LogFile   string
}

// printBanner writes the startup banner to w.
func printBanner(w io.Writer, info bannerInfo) {
	rows := []string{
		titleStyle.Render("formrelay " + info.Version),
		"",
		row("Listen", info.ServerURL+"/submitForm"),
		row("Origin", info.Origin),
		row("Store", info.Store),
	}
	if info.LogFile != "" {
		rows = append(rows, row("Logs", info.LogFile))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(rows, "\n")))
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}
