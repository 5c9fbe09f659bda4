package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/router"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
)

func printSuccess(msg string) { successColor.Println(msg) }
func printError(msg string)   { errorColor.Println(msg) }
func printWarning(msg string) { warningColor.Println(msg) }

func printDecision(d *router.Decision) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	rows := [][]string{
		{"Spec", d.Spec},
		{"Model", d.Model},
		{"Intent", d.Intent},
		{"Intensity", fmt.Sprintf("%.3f", d.Intensity)},
		{"Switched", fmt.Sprintf("%v", d.Switched)},
		{"Auto web search", fmt.Sprintf("%v", d.AutoWebSearch)},
		{"Toggles", strings.Join(d.TogglesUsed, ", ")},
		{"Reasons", strings.Join(d.Reasons, ", ")},
		{"Keyword hits", strings.Join(d.KeywordHits, ", ")},
		{"Token budget", fmt.Sprintf("%d", d.TokenBudget)},
	}
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
