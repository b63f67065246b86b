package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/buidlhub/buidl-cli/internal/domain"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Color styles shared by the renderers
var (
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	nameStyle          = color.New(color.FgGreen, color.Bold)
	addressStyle       = color.New(color.FgWhite)
	nonceStyle         = color.New(color.FgCyan)
	faintStyle         = color.New(color.Faint)
	hintStyle          = color.New(color.FgYellow)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatError formats an error with the error icon, followed by a hint for the
// errors an operator can act on.
func FormatError(err error) string {
	msg := err.Error()
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	out := color.New(color.FgRed).Sprintf("❌ %s", msg)

	if hint := errorHint(err); hint != "" {
		out += "\n" + hintStyle.Sprintf("   %s", hint)
	}
	return out
}

func errorHint(err error) string {
	var (
		cfgErr      *domain.ConfigurationError
		missingErr  *domain.ArtifactMissingError
		mismatchErr *domain.AddressMismatchError
		txErr       *domain.TransactionFailureError
	)
	switch {
	case errors.As(err, &cfgErr):
		if cfgErr.Key != "" {
			return fmt.Sprintf("Set %s for network %s in buidl.toml", cfgErr.Key, cfgErr.Network)
		}
	case errors.As(err, &missingErr):
		if missingErr.Prerequisite != "" {
			return fmt.Sprintf("Run `%s` first", missingErr.Prerequisite)
		}
	case errors.As(err, &mismatchErr):
		return "Addresses handed out by this run are not usable. Redeploy from scratch with a fresh deployer nonce"
	case errors.As(err, &txErr):
		if txErr.TxHash != "" {
			return fmt.Sprintf("Inspect transaction %s", txErr.TxHash)
		}
	}
	return ""
}

// newTable returns a borderless table writer
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	t.Style().Format.Header = text.FormatDefault
	return t
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func shortHex(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}
