package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/importer"
	"github.com/cleared-dev/ledger/internal/journal"
)

func newJournalImportCommand(opts *globalOptions) *cobra.Command {
	var format, bankCode, contraCode, dateFormat string

	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Post entries from a CSV file, or every CSV in import/",
		Long: `Post entries from a CSV file.

Formats:
  entries  date,reference,description,account_code,type,amount (one row per line)
  bank     date,description,amount (posted against --bank and --contra)

Without a file, every CSV in <dir>/import/ is imported and moved to
import/processed/ once all of its entries are posted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := open(opts, nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			registry := importer.DefaultRegistry(bankCode, contraCode)
			parser, err := registry.Get(format)
			if err != nil {
				return err
			}
			if bp, ok := parser.(*importer.BankParser); ok && dateFormat != "" {
				bp.DateFormat = dateFormat
			}

			var files []importer.File
			if len(args) == 1 {
				files = []importer.File{{Name: filepath.Base(args[0]), Path: args[0]}}
			} else {
				files, err = importer.Pending(ws.dir)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No CSV files in import/")
					return nil
				}
			}

			out := cmd.OutOrStdout()
			total := 0
			for _, fi := range files {
				n, err := importFile(ws, parser, fi.Path)
				total += n
				if err != nil {
					if n == 0 {
						return fmt.Errorf("%s: nothing posted: %w", fi.Name, err)
					}
					ws.commit(fmt.Sprintf("import: %d entries from %s", n, fi.Name))
					return fmt.Errorf("%s: posted %d entries before failing: %w", fi.Name, n, err)
				}
				fmt.Fprintf(out, "%s: posted %d entries\n", fi.Name, n)
				if len(args) == 0 {
					if err := importer.Archive(ws.dir, fi); err != nil {
						return err
					}
				}
				ws.commit(fmt.Sprintf("import: %d entries from %s", n, fi.Name))
			}
			fmt.Fprintf(out, "Imported %d entries\n", total)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "entries", "entries or bank")
	cmd.Flags().StringVar(&bankCode, "bank", "1120", "bank account code for --format bank")
	cmd.Flags().StringVar(&contraCode, "contra", "", "contra account code for --format bank")
	cmd.Flags().StringVar(&dateFormat, "date-format", "", "Go date layout of the bank export")

	return cmd
}

// importFile resolves every parsed entry and posts them as one batch, so a
// rejected row leaves the file unposted and safe to fix and re-run. It
// returns how many entries were posted.
func importFile(ws *workspace, parser importer.Parser, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	entries, err := parser.Parse(f)
	if err != nil {
		return 0, err
	}
	drafts := make([]journal.Draft, 0, len(entries))
	for i, e := range entries {
		draft, err := e.Draft(ws.svc.ResolveCode)
		if err != nil {
			return 0, fmt.Errorf("entry %d (%s): %w", i+1, e.Description, err)
		}
		drafts = append(drafts, draft)
	}

	posted, err := ws.svc.PostAll(drafts)
	return len(posted), err
}
