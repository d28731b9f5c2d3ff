package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jcdickinson/oakdoc/internal/archive"
	"github.com/jcdickinson/oakdoc/internal/config"
	"github.com/jcdickinson/oakdoc/internal/docs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <model.json[.zst]>",
	Short: "Generate a record archive from a Javadoc model dump",
	Long: `Read a Javadoc model dump and write one XML record per included type,
plus an info.xml manifest, to a ZIP archive. The archive replaces any
existing file at the output path only once it is complete.`,
	Example: `  oakdoc generate --name commons-lang3 --version 3.14.0 model.json
  oakdoc generate -o dist/ --pretty model.json.zst
  OAKDOC_LIBRARY_NAME=guava OAKDOC_LIBRARY_VERSION=33.0 oakdoc generate model.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var generateQuiet bool

func init() {
	f := generateCmd.Flags()
	f.String("name", "", "library name")
	f.String("version", "", "library version")
	f.String("base-url", "", "base URL of the library's Javadoc pages")
	f.String("javadoc-url-pattern", "", "URL pattern of individual Javadoc pages")
	f.String("project-url", "", "library project URL")
	f.StringP("output", "o", "", "output file or directory (default <name>-<version>.zip)")
	f.Bool("pretty", false, "indent the XML records")
	f.Int("compression-level", 6, "deflate level, -2 to 9")
	f.StringSlice("exclude", nil, "glob of record paths to leave out (repeatable)")
	f.BoolVarP(&generateQuiet, "quiet", "q", false, "don't print progress")

	for key, flag := range map[string]string{
		"library.name":                "name",
		"library.version":             "version",
		"library.base_url":            "base-url",
		"library.javadoc_url_pattern": "javadoc-url-pattern",
		"library.project_url":         "project-url",
		"output.path":                 "output",
		"output.pretty_print":         "pretty",
		"output.compression_level":    "compression-level",
		"output.exclude":              "exclude",
	} {
		bindFlag(key, f.Lookup(flag))
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	setupLogger(cfg.LogLevel)

	logger.WithField("model", args[0]).Debug("loading model")
	model, err := docs.Load(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var progress io.Writer = os.Stdout
	if generateQuiet || logger.IsLevelEnabled(logrus.DebugLevel) {
		progress = nil
	}

	path, err := archive.NewWriter(*cfg, logger, progress).Write(ctx, model)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
