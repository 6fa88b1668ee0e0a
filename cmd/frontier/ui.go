package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"tradefrontier/internal/game"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)

	tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerCell  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Padding(0, 1)
	bodyCell    = lipgloss.NewStyle().Padding(0, 1)
	currentCell = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("10"))
)

const chartBarWidth = 30

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptInt(label string, min int) (int, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

// renderCommand prints the charter after a command. Refusals come back as
// errors and are printed by main.
func renderCommand(st game.Status, err error) error {
	if err != nil {
		return err
	}
	renderStatus(st)
	return nil
}

func renderStatus(st game.Status) {
	accent.Printf("\n== DAY %d/%d · %s ==\n", min(st.Day, st.MaxDays), st.MaxDays, strings.ToUpper(st.Location))
	fmt.Printf("Coin %s   Net worth %s   Hold %d/%d\n",
		comma(st.Money), comma(st.NetWorth), st.CargoLoad, st.CargoCapacity)
	if st.Message != "" {
		printInfo(st.Message)
	}
	if st.Ticker != "" {
		printWarn(st.Ticker)
	}

	rows := make([][]string, 0, len(st.Quotes))
	for _, q := range st.Quotes {
		rows = append(rows, []string{q.Good, comma(q.Price), strconv.Itoa(q.Bulk), strconv.Itoa(q.Held)})
	}
	fmt.Println(renderTable([]string{"Good", "Price", "Bulk", "Held"}, rows, nil))

	if st.GameOver {
		printError("The charter has ended. Run `frontier restart` for a new one.")
	}
	fmt.Println()
}

func renderRoutes(routes []game.Route) {
	accent.Println("\n== PORTS ==")
	rows := make([][]string, 0, len(routes))
	current := -1
	for i, r := range routes {
		days, cost := strconv.Itoa(r.Days), comma(r.Cost)
		if r.Current {
			days, cost = "-", "-"
			current = i
		}
		rows = append(rows, []string{r.Location, days, cost, strconv.Itoa(r.Charm)})
	}
	fmt.Println(renderTable([]string{"Port", "Days", "Cost", "Charm"}, rows, func(row int) bool { return row == current }))
	fmt.Println()
}

func renderChart(chart game.Chart) {
	accent.Printf("\n== %s ==\n", strings.ToUpper(chart.Option))
	if len(chart.Points) == 0 {
		printInfo("No history yet.")
		return
	}
	lo, hi := chart.Points[0].Value, chart.Points[0].Value
	for _, p := range chart.Points {
		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}
	for i, p := range chart.Points {
		width := chartBarWidth
		if hi > lo {
			width = 1 + int(float64(p.Value-lo)/float64(hi-lo)*float64(chartBarWidth-1))
		}
		bar := strings.Repeat("█", width)
		switch {
		case i == 0:
			bar = neutral.Sprint(bar)
		case p.Value > chart.Points[i-1].Value:
			bar = success.Sprint(bar)
		case p.Value < chart.Points[i-1].Value:
			bar = danger.Sprint(bar)
		default:
			bar = neutral.Sprint(bar)
		}
		fmt.Printf("day %3d %10s %s\n", p.Day, comma(p.Value), bar)
	}
	printInfo("Charts: " + strings.Join(chart.Options, ", "))
	fmt.Println()
}

func renderNews(ticker string, headlines []string) {
	accent.Println("\n== NEWS ==")
	if ticker != "" {
		printWarn(ticker)
	}
	if len(headlines) == 0 {
		printInfo("Quiet seas. No headlines yet.")
		return
	}
	for _, h := range headlines {
		fmt.Println(" - " + h)
	}
	fmt.Println()
}

func renderScores(entries []game.ScoreEntry) {
	accent.Println("\n== BEST CHARTERS ==")
	if len(entries) == 0 {
		printInfo("No finished charters yet.")
		return
	}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			comma(e.NetWorth),
			comma(e.Money),
			truncate(e.LocationName, 18),
			e.Timestamp.Local().Format("2006-01-02 15:04"),
		})
	}
	fmt.Println(renderTable([]string{"Rank", "Net worth", "Coin", "Port", "Finished"}, rows, nil))
	fmt.Println()
}

func renderTable(headers []string, rows [][]string, highlight func(row int) bool) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorder).
		BorderHeader(true).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCell
			case highlight != nil && highlight(row):
				return currentCell
			default:
				return bodyCell
			}
		})
	return t.Render()
}

func comma(v int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.Itoa(v)
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.WriteString(sign)
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		b.WriteByte(',')
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
