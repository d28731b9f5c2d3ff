package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/jcdickinson/oakdoc/internal/archive"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <archive>",
	Short: "List the type keys in an archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	r, err := archive.Open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	keys, err := r.Keys()
	if err != nil {
		return err
	}

	if listJSON {
		m := r.Manifest()
		out, _ := json.MarshalIndent(struct {
			Name    string   `json:"name"`
			Version string   `json:"version"`
			Types   []string `json:"types"`
		}{m.Name, m.Version, keys}, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	if len(keys) == 0 {
		fmt.Println("no types")
		return nil
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}
