package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/jcdickinson/oakdoc/internal/archive"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <archive> [key]",
	Short: "Print a record from an archive",
	Long: `Print the record of a type or method, looked up by its canonical key.
Without a key, the archive's manifest is printed.`,
	Example: `  oakdoc show guava-33.0.zip
  oakdoc show guava-33.0.zip 'com.google.common.collect|ImmutableList'
  oakdoc show rt.zip 'java.util|Map.Entry#setValue(java.lang|Object)'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	r, err := archive.Open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	if len(args) == 1 {
		return printXML(r.Manifest().Document())
	}

	key := args[1]
	if strings.Contains(key, "#") {
		method, err := r.Method(key)
		if err != nil {
			return fmt.Errorf("looking up %s: %w", key, err)
		}
		doc := etree.NewDocument()
		doc.SetRoot(method.Copy())
		return printXML(doc)
	}

	doc, err := r.Record(key)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", key, err)
	}
	return printXML(doc)
}

func printXML(doc *etree.Document) error {
	doc.Indent(2)
	if _, err := doc.WriteTo(os.Stdout); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
