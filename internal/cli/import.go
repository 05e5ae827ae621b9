package cli

import (
	"fmt"

	"github.com/aidancornelius/murmur-engine/internal/importer"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file.jsonl]",
	Short: "Import health records from a JSONL export",
	Long:  "Bulk-load activity, meal, symptom and sleep records from a JSONL export file. Malformed lines are skipped.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	records, err := importer.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parse export: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("no usable records found")
		return nil
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	stored, err := importer.Apply(db, records)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	fmt.Printf("imported %d of %d records\n", stored, len(records))
	return nil
}
