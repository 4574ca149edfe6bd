package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"sheetquote/config"
	"sheetquote/services"
)

func newQuoteCmd(app *pocketbase.PocketBase, cfg *config.Config) *cobra.Command {
	var (
		file   string
		margin float64
		noVAT  bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Cost a CSV/XLSX line list against the stored catalog and rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			prepareStore(app, cfg)

			var override *float64
			if cmd.Flags().Changed("margin") {
				override = &margin
			}
			return quoteFile(app, file, override, noVAT, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "line list to cost (.csv or .xlsx)")
	cmd.Flags().Float64Var(&margin, "margin", 0, "profit margin in percent (overrides the stored rate)")
	cmd.Flags().BoolVar(&noVAT, "no-vat", false, "leave VAT out of the final price")
	cmd.MarkFlagRequired("file")

	return cmd
}

// quoteFile imports path, costs the valid rows and writes a summary to w.
// Rows that fail validation are listed and skipped.
func quoteFile(app *pocketbase.PocketBase, path string, margin *float64, noVAT bool, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	imported, err := services.ImportLineItems(filepath.Base(path), f)
	if err != nil {
		return err
	}
	for _, ve := range imported.Errors {
		fmt.Fprintf(w, "satır %d, %s: %s\n", ve.Row, ve.Field, ve.Message)
	}
	if len(imported.Items) == 0 {
		return fmt.Errorf("%s: no valid line items", path)
	}

	catalog, err := services.LoadCatalog(app)
	if err != nil {
		return err
	}
	rates, err := services.LoadRates(app)
	if err != nil {
		return err
	}
	if margin != nil {
		rates.ProfitMarginPct = *margin
	}
	if noVAT {
		rates.VATEnabled = false
	}
	if err := rates.Validate(); err != nil {
		return err
	}

	quote, err := services.Assemble(imported.Items, catalog, rates)
	if err != nil {
		return err
	}
	return writeQuoteSummary(w, imported.Items, quote, rates)
}

func writeQuoteSummary(w io.Writer, items []services.LineItem, q services.Quote, rates services.RateConfig) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tMalzeme\tKalınlık\tAdet\tAğırlık\tMalzeme\tİşçilik\tToplam\t")
	for i, res := range q.Lines {
		name := res.MaterialName
		if res.MaterialFallback {
			name = items[i].MaterialName + " → " + res.MaterialName + " *"
		}
		fmt.Fprintf(tw, "%d\t%s\t%v\t%d\t%s\t%s\t%s\t%s\t\n",
			i+1, name, items[i].ThicknessMM, items[i].Quantity,
			services.FormatKg(res.WeightKg),
			services.FormatTRY(res.MaterialCost),
			services.FormatTRY(res.ProcessCost),
			services.FormatTRY(res.LineTotal))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Toplam ağırlık: %s\n", services.FormatKg(q.TotalWeightKg))
	fmt.Fprintf(w, "Ham maliyet:    %s\n", services.FormatTRY(q.RawCost))
	fmt.Fprintf(w, "Kâr (%s):  %s\n", services.FormatPercent(rates.ProfitMarginPct), services.FormatTRY(q.ProfitAmount))
	if rates.VATEnabled {
		fmt.Fprintf(w, "KDV (%s):  %s\n", services.FormatPercent(rates.VATPct), services.FormatTRY(q.VATAmount))
	}
	fmt.Fprintf(w, "Genel toplam:   %s\n", services.FormatTRY(q.FinalPrice))

	if fb := q.FallbackLines(); len(fb) > 0 {
		nums := make([]string, len(fb))
		for i, n := range fb {
			nums[i] = fmt.Sprint(n)
		}
		fmt.Fprintf(w, "* %s: katalogda yok, %s fiyatı kullanıldı\n", strings.Join(nums, ", "), services.FallbackMaterial.Name)
	}
	return nil
}

func newExtractCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "extract FILE...",
		Short: "Print the measurements read from machine reports as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return extractFiles(cmd.Context(), cfg, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// extractFiles reads each path and writes one measurement per readable
// document to out. Unreadable files are reported on errOut and skipped.
func extractFiles(ctx context.Context, cfg *config.Config, paths []string, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var docs []services.SourceText
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", p, err)
			continue
		}
		text, err := services.DocumentText(filepath.Base(p), f)
		f.Close()
		if err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", p, err)
			continue
		}
		docs = append(docs, services.SourceText{Name: p, Text: text})
	}
	if len(docs) == 0 {
		return fmt.Errorf("no readable documents")
	}

	measurements, err := services.NewExtractor(cfg.ExtractorConfig()).ExtractAll(ctx, docs)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(measurements)
}
