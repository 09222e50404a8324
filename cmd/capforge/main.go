// capforge CLI - price orders and parse quotes from the command line.
//
// Usage:
//
//	capforge price --request order.json [--format json|text]
//	capforge parse --message-file msg.txt
//	capforge tables validate [--data data]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"capforge/internal/catalog"
	"capforge/internal/pricing"
	"capforge/internal/quote"
	"capforge/pkg/platform"
)

// Exit codes for CI integration.
const (
	exitSuccess    = 0
	exitUsageError = 1
	exitPriceError = 10
	exitParseMiss  = 20
	exitTableError = 30
)

func main() {
	app := &cli.App{
		Name:  "capforge",
		Usage: "Custom-cap pricing and quote extraction",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"CAPFORGE_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "data",
				Value:   "data",
				Usage:   "Directory holding the price table CSV files",
				EnvVars: []string{"CAPFORGE_DATA_DIR"},
			},
		},
		Commands: []*cli.Command{
			priceCommand(),
			parseCommand(),
			tablesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsageError)
	}
}

func priceCommand() *cli.Command {
	return &cli.Command{
		Name:  "price",
		Usage: "Price an order request",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "request",
				Aliases:  []string{"r"},
				Usage:    "Path to an order request JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format (text, json)",
			},
			&cli.BoolFlag{
				Name:  "bake-margin",
				Usage: "Include per-row margins in resolved prices",
			},
		},
		Action: runPrice,
	}
}

func runPrice(c *cli.Context) error {
	log := platform.NewLogger(c.String("log-level"), true)

	raw, err := os.ReadFile(c.String("request"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("read request: %v", err), exitUsageError)
	}
	var req pricing.OrderRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return cli.Exit(fmt.Sprintf("parse request: %v", err), exitUsageError)
	}

	cache := catalog.NewCache(c.String("data"), log)
	engine := pricing.NewEngine(cache, log)
	if c.Bool("bake-margin") {
		engine = engine.WithBakedMargin()
	}

	breakdown, err := engine.PriceOrder(context.Background(), req)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to calculate cost: %v", err), exitPriceError)
	}

	if c.String("format") == "json" {
		return printJSON(breakdown)
	}
	printBreakdown(breakdown)
	return nil
}

func printBreakdown(b *pricing.Breakdown) {
	ai := b.ForAI()
	fmt.Printf("Order: %d pieces (%s)\n\n", b.Quantity, b.ProductTier)
	for _, line := range ai.Lines {
		fmt.Println("  " + line.FormattedLine)
	}
	for _, mold := range ai.Molds {
		fmt.Println("  " + mold.FormattedLine)
	}
	fmt.Println()
	for _, sub := range ai.Subtotals {
		fmt.Println("  " + sub.FormattedLine)
	}
	fmt.Println("\n  " + ai.TotalLine)
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:  "parse",
		Usage: "Extract a structured quote from a chat message",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "message-file",
				Aliases: []string{"m"},
				Usage:   "Path to a file holding the message (default: stdin)",
			},
			&cli.StringFlag{
				Name:  "context",
				Usage: "Path to a preserved-context JSON file from an earlier turn",
			},
		},
		Action: runParse,
	}
}

func runParse(c *cli.Context) error {
	log := platform.NewLogger(c.String("log-level"), true)

	var message []byte
	var err error
	if path := c.String("message-file"); path != "" {
		message, err = os.ReadFile(path)
	} else {
		message, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("read message: %v", err), exitUsageError)
	}

	var preserved *quote.ParsedQuote
	if path := c.String("context"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("read context: %v", err), exitUsageError)
		}
		preserved = &quote.ParsedQuote{}
		if err := json.Unmarshal(raw, preserved); err != nil {
			return cli.Exit(fmt.Sprintf("parse context: %v", err), exitUsageError)
		}
	}

	q := quote.NewParser(log).Parse(string(message), preserved)
	if q == nil {
		fmt.Fprintln(os.Stderr, "no quote found in message")
		os.Exit(exitParseMiss)
	}
	return printJSON(q)
}

func tablesCommand() *cli.Command {
	return &cli.Command{
		Name:  "tables",
		Usage: "Work with the price table files",
		Subcommands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Load every table and report row counts and problems",
				Action: runTablesValidate,
			},
		},
	}
}

func runTablesValidate(c *cli.Context) error {
	dir := c.String("data")
	failures := 0

	check := func(label string, rows int, err error) {
		if err != nil {
			failures++
			fmt.Printf("  %-22s ERROR: %v\n", label, err)
			return
		}
		fmt.Printf("  %-22s %d rows\n", label, rows)
	}

	fmt.Printf("Validating price tables in %s\n\n", dir)
	for _, cat := range []catalog.Category{catalog.Fabric, catalog.Logo, catalog.Closure, catalog.Accessory, catalog.Delivery} {
		t, err := catalog.LoadTable(tablePath(dir, cat), cat)
		rows := 0
		if t != nil {
			rows = len(t.Rows)
		}
		check(cat.String(), rows, err)
	}
	for _, tier := range []catalog.ProductTier{catalog.Tier1, catalog.Tier2, catalog.Tier3} {
		t, err := catalog.LoadTable(fmt.Sprintf("%s/blank_caps_tier%d.csv", dir, int(tier)), catalog.BlankCap)
		rows := 0
		if t != nil {
			rows = len(t.Rows)
		}
		check("blank caps "+tier.String(), rows, err)
	}
	products, err := catalog.LoadProducts(dir + "/products.csv")
	check("product catalog", len(products), err)

	if failures > 0 {
		fmt.Printf("\n%d table(s) failed to load\n", failures)
		os.Exit(exitTableError)
	}
	fmt.Println("\nAll tables loaded")
	return nil
}

func tablePath(dir string, cat catalog.Category) string {
	return fmt.Sprintf("%s/%s.csv", dir, tableFileStem(cat))
}

func tableFileStem(cat catalog.Category) string {
	switch cat {
	case catalog.Fabric:
		return "fabrics"
	case catalog.Logo:
		return "logos"
	case catalog.Closure:
		return "closures"
	case catalog.Accessory:
		return "accessories"
	case catalog.Delivery:
		return "delivery"
	default:
		return strings.ReplaceAll(cat.String(), "-", "_")
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
