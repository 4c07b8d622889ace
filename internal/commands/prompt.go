package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/compras-dev/compras/internal/ledger"
	"github.com/compras-dev/compras/internal/model"
)

// prompter asks questions on the command's stdin. One prompter must serve a
// whole command so buffered input is not lost between questions.
type prompter struct {
	in       *bufio.Reader
	out      io.Writer
	currency string
}

func newPrompter(cmd *cobra.Command, currency string) *prompter {
	return &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout(), currency: currency}
}

// readLine returns the next trimmed line. A final line without newline is
// accepted; end of input with nothing read returns io.EOF.
func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Resolve implements ledger.Resolver by showing both items and asking.
// End of input cancels.
func (p *prompter) Resolve(c ledger.Conflict) (ledger.Resolution, error) {
	fmt.Fprintf(p.out, "%q already exists in %s.\n", c.Existing.Product, model.DisplayName(c.Store))
	fmt.Fprintf(p.out, "  existing: %d x %s%s\n", c.Existing.Quantity, p.currency, c.Existing.UnitPrice.StringFixed(2))
	fmt.Fprintf(p.out, "  new:      %d x %s%s\n", c.Incoming.Quantity, p.currency, c.Incoming.UnitPrice.StringFixed(2))
	for {
		fmt.Fprint(p.out, "[s]um, [o]verwrite, [n]ew, [c]ancel: ")
		line, err := p.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return ledger.Cancel, nil
		}
		if err != nil {
			return "", err
		}
		res, err := ledger.ParseResolution(line)
		if err == nil {
			return res, nil
		}
		fmt.Fprintln(p.out, err)
	}
}

// confirm asks a yes/no question. Anything but an explicit yes is a no.
func (p *prompter) confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	line, err := p.readLine()
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(p.out)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes", "s", "si", "sí":
		return true, nil
	}
	return false, nil
}

// resolverFor turns a --on-duplicate value into a resolver. "ask" prompts.
func resolverFor(policy string, p *prompter) (ledger.Resolver, error) {
	if strings.EqualFold(strings.TrimSpace(policy), "ask") {
		return p, nil
	}
	res, err := ledger.ParseResolution(policy)
	if err != nil {
		return nil, err
	}
	return ledger.Policy(res), nil
}
