package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sunstyle/sunstyle/pkg/catalog"
)

// newCatalogCommand creates the catalog command group.
func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the persisted catalog offline",
	}

	cmd.AddCommand(newCatalogListCommand())

	return cmd
}

// newCatalogListCommand creates the catalog list command.
func newCatalogListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items from the persisted document",
		Long: `List the persisted catalog, most-recent-first.

Search matching is case-insensitive and accent-insensitive over nombre,
descripcion and categoria, like the web client's filter.`,
		Example: `  sunstyle catalog list
  sunstyle catalog list --search camisa
  sunstyle catalog list --output yaml`,
		RunE: runCatalogList,
	}

	cmd.Flags().String("db", "", "Path to the persisted catalog document")
	cmd.Flags().StringP("search", "s", "", "Filter items by search term")
	cmd.Flags().StringP("output", "o", "table", "Output format: table, json, yaml")

	return cmd
}

// runCatalogList prints the persisted catalog.
func runCatalogList(cmd *cobra.Command, _ []string) error {
	dbPath := cfg.DBPath
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		dbPath = db
	}

	store := catalog.NewStore(dbPath, logger)
	store.Load()
	items := store.Snapshot()

	if search, _ := cmd.Flags().GetString("search"); search != "" {
		items = filterItems(items, search)
	}

	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "json":
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding catalog as JSON: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(items)
		if err != nil {
			return fmt.Errorf("encoding catalog as YAML: %w", err)
		}
		fmt.Print(string(data))
	case "table":
		printTable(items)
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	return nil
}

// filterItems keeps items matching the search term in nombre, descripcion
// or categoria, folding case and accents ("camión" matches "Camion").
func filterItems(items []catalog.Item, search string) []catalog.Item {
	term := foldText(search)
	out := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		haystack := foldText(item.Nombre + " " + item.Descripcion + " " + item.Categoria)
		if strings.Contains(haystack, term) {
			out = append(out, item)
		}
	}
	return out
}

// foldText lowercases and strips combining marks for accent-insensitive
// matching.
var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldText(s string) string {
	folded, _, err := transform.String(foldTransform, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// printTable writes a compact listing to stdout.
func printTable(items []catalog.Item) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NOMBRE\tPRECIO\tTALLAS\tCATEGORIA\tVENDEDOR\tFECHA")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\t%s\t%s\n",
			item.Nombre,
			item.Precio,
			strings.Join(item.Tallas, ","),
			item.Categoria,
			item.Vendedor,
			item.Fecha.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
	fmt.Printf("\n%d prendas\n", len(items))
}
