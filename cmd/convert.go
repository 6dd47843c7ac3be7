package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/google/subcommands"
	q2b "github.com/mortisj/quicken2beancount"
	"github.com/mortisj/quicken2beancount/forex"
)

// convertCmd holds the flags for the 'convert' subcommand.
type convertCmd struct {
	output      string
	title       string
	currency    string
	lookupRates bool
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert a QIF export to a Beancount ledger" }
func (*convertCmd) Usage() string {
	return `q2b convert [-o <file>] [-title <title>] [-currency <code>] [-lookup-rates] <export.qif>

  Reads a QIF export and writes the equivalent double-entry ledger.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
	f.StringVar(&c.title, "title", "Converted from QIF", "Ledger title option.")
	f.StringVar(&c.currency, "currency", "CAD", "Operating currency of the ledger.")
	f.BoolVar(&c.lookupRates, "lookup-rates", false, "Check inferred exchange rates against historical market rates.")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "convert expects exactly one QIF file")
		return subcommands.ExitUsageError
	}
	b, err := loadBook(f.Arg(0), c.title, c.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := b.Post(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		out, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		w = out
	}
	if err := b.EncodeBeancount(w); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.lookupRates {
		checkRates(b.Exchanges())
	}
	return subcommands.ExitSuccess
}

// checkRates compares each inferred conversion rate against the market
// rate of its day and logs the deviation. Rates are diagnostics only and
// never alter the ledger.
func checkRates(exchanges []q2b.Exchange) {
	client := forex.New()
	for _, ex := range exchanges {
		market, err := client.Rate(ex.From, ex.To, ex.Date)
		if err != nil {
			log.Printf("%s %s/%s: market rate unavailable: %v", ex.Date, ex.From, ex.To, err)
			continue
		}
		inferred, _ := ex.Rate.Float64()
		dev := math.Abs(inferred-market) / market * 100
		log.Printf("%s %s/%s: inferred %.6f, market %.6f (%.1f%% off)", ex.Date, ex.From, ex.To, inferred, market, dev)
	}
}
