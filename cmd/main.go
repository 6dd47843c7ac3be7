// Package cmd implements the q2b subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/google/subcommands"
	q2b "github.com/mortisj/quicken2beancount"
	"github.com/mortisj/quicken2beancount/date"
	"github.com/mortisj/quicken2beancount/qif"
)

// Commands lists every subcommand in display order.
var Commands = []subcommands.Command{
	&convertCmd{},
	&accountsCmd{},
	&rateCmd{},
	&topicCmd{},
}

// loadBook decodes a QIF file and loads it into a fresh book.
func loadBook(path, title, currency string) (*q2b.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	qf, err := qif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	b, err := q2b.NewBook(title, currency, date.Today())
	if err != nil {
		return nil, err
	}
	if err := b.Load(qf); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return b, nil
}
