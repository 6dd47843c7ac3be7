package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

// accountsCmd holds the flags for the 'accounts' subcommand.
type accountsCmd struct {
	currency string
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the ledger accounts a QIF export maps to" }
func (*accountsCmd) Usage() string {
	return `q2b accounts [-currency <code>] <export.qif>

  Prints every source account and category with the ledger account it
  becomes, for checking the mapping before converting.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "CAD", "Operating currency of the ledger.")
}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "accounts expects exactly one QIF file")
		return subcommands.ExitUsageError
	}
	b, err := loadBook(f.Arg(0), "", c.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tLEDGER\tCURRENCY")
	for _, a := range b.Accounts() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.QName(), a.Name(), a.Currency().Symbol())
	}
	w.Flush()
	return subcommands.ExitSuccess
}
