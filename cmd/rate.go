package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mortisj/quicken2beancount/date"
	"github.com/mortisj/quicken2beancount/forex"
)

// rateCmd holds the flags for the 'rate' subcommand.
type rateCmd struct {
	from string
	to   string
	day  string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "look up a historical exchange rate" }
func (*rateCmd) Usage() string {
	return `q2b rate [-from <code>] [-to <code>] [-d <date>]

  Prints how many units of the target currency one unit of the source
  currency bought on a given day.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "CAD", "Source currency code.")
	f.StringVar(&c.to, "to", "USD", "Target currency code.")
	f.StringVar(&c.day, "d", date.Today().String(), "Day to look up, as YYYY-MM-DD.")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	rate, err := forex.New().Rate(c.from, c.to, on)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s %s/%s %.6f\n", on, c.from, c.to, rate)
	return subcommands.ExitSuccess
}
