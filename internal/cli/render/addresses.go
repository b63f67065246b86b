package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/buidlhub/buidl-cli/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AddressesRenderer renders address books and network tables
type AddressesRenderer struct {
	out io.Writer
}

// NewAddressesRenderer creates a new addresses renderer
func NewAddressesRenderer(out io.Writer) *AddressesRenderer {
	return &AddressesRenderer{out: out}
}

// RenderAddresses renders the address book, then records missing from it
func (r *AddressesRenderer) RenderAddresses(result *usecase.ShowAddressesResult) error {
	fmt.Fprintf(r.out, "%s %s\n", sectionHeaderStyle.Sprint("Address book"), faintStyle.Sprint(result.Path))
	fmt.Fprintln(r.out)

	t := newTable()
	t.AppendHeader(table.Row{"Key", "Address", "Nonce", "Transaction"})
	inBook := make(map[string]bool, len(result.Entries))
	for _, e := range result.Entries {
		inBook[strings.ToLower(e.Address)] = true
		nonce, tx := "", ""
		if e.Record != nil {
			nonce = nonceStyle.Sprint(e.Record.Nonce)
			tx = faintStyle.Sprint(e.Record.TransactionHash)
		}
		t.AppendRow(table.Row{nameStyle.Sprint(e.Key), e.Address, nonce, tx})
	}
	fmt.Fprintln(r.out, t.Render())

	other := newTable()
	count := 0
	for _, rec := range result.Records {
		if inBook[strings.ToLower(rec.Address)] {
			continue
		}
		other.AppendRow(table.Row{nameStyle.Sprint(rec.Name), rec.Address})
		count++
	}
	if count > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Other deployment records"))
		fmt.Fprintln(r.out, other.Render())
	}
	return nil
}

// RenderNetworks renders the configured networks and their missing constants
func (r *AddressesRenderer) RenderNetworks(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintf(r.out, "🌐 Available Networks %s\n\n", faintStyle.Sprintf("(%s)", result.Source))

	title := cases.Title(language.English)
	t := newTable()
	t.AppendHeader(table.Row{"", "Network", "Chain ID", "Kind", "Confirmations", "RPC"})
	for _, n := range result.Networks {
		marker := " "
		if n.Selected {
			marker = "▸"
		}
		kind := "live"
		if n.Development {
			kind = "development"
		}
		status := "✅"
		if len(n.MissingConstants) > 0 {
			status = "❌"
		}
		t.AppendRow(table.Row{
			marker,
			fmt.Sprintf("%s %s", status, nameStyle.Sprint(n.Name)),
			n.ChainID,
			title.String(kind),
			n.RequiredConfirmations(),
			faintStyle.Sprint(n.RPCURL),
		})
	}
	fmt.Fprintln(r.out, t.Render())

	for _, n := range result.Networks {
		if len(n.MissingConstants) > 0 {
			fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s is missing %s", n.Name, strings.Join(n.MissingConstants, ", "))))
		}
	}
	return nil
}
