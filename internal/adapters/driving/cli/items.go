package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/crmlink/internal/core/domain"
)

var (
	itemsTenant tenantFlags
	itemsJSON   bool
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List contacts, companies and deals for a tenant",
	Long: `Fetch the first page of contacts, companies and deals for a tenant and
print them as integration items. Object types that fail are reported and
skipped.`,
	RunE: runItems,
}

func init() {
	itemsTenant.register(itemsCmd)
	itemsCmd.Flags().BoolVar(&itemsJSON, "json", false, "output items as JSON")
	rootCmd.AddCommand(itemsCmd)
}

func runItems(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	list, err := itemService.ListItems(commandContext(cmd), itemsTenant.tenant())
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}

	if itemsJSON {
		return outputItemsJSON(cmd, list)
	}
	return outputItemsTable(cmd, list)
}

func outputItemsJSON(cmd *cobra.Command, list *domain.ItemList) error {
	if list.Items == nil {
		list.Items = []domain.IntegrationItem{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputItemsTable(cmd *cobra.Command, list *domain.ItemList) error {
	out := cmd.OutOrStdout()

	if len(list.Items) == 0 {
		cmd.Println("No items found.")
	} else {
		rows := make([][]string, len(list.Items))
		for i, item := range list.Items {
			rows[i] = []string{item.ID, string(item.Type), item.Title, detail(item)}
		}
		t := table.New().
			Headers("ID", "TYPE", "TITLE", "DETAIL").
			Rows(rows...)
		if isTerminal(out) {
			header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF7A59"))
			cell := lipgloss.NewStyle().Padding(0, 1)
			t = t.Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#516F90"))).
				StyleFunc(func(row, _ int) lipgloss.Style {
					if row == table.HeaderRow {
						return header.Padding(0, 1)
					}
					return cell
				})
		} else {
			t = t.Border(lipgloss.HiddenBorder())
		}
		fmt.Fprintln(out, t.Render())
	}

	for _, f := range list.Failures {
		cmd.PrintErrf("Skipped %s: %v\n", f.Type, f.Err)
	}
	return nil
}

// detail picks the most useful parameter for the item type.
func detail(item domain.IntegrationItem) string {
	keys := []string{"email", "domain", "dealstage"}
	var parts []string
	for _, k := range keys {
		if v, ok := item.Parameters[k]; ok && v != nil && fmt.Sprint(v) != "" {
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, " ")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
