package cmd

import (
	"os"

	"github.com/jcdickinson/oakdoc/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configFile string
	v          = config.New()
	logger     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "oakdoc",
	Short: "Package Javadoc models as XML record archives",
	Long: `Convert a library's Javadoc model into one XML record per public type,
plus a manifest, packed into a ZIP archive for chat bots to index.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// generate sets the level again once the config file has been read.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configFile != "" {
			v.SetConfigFile(configFile)
		}
		setupLogger(v.GetString("log_level"))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Fatal("command failed")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./oakdoc.toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	bindFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
}

func setupLogger(level string) {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
}

// bindFlag lets a flag override the config key. Binding only fails for a nil
// flag, which is a programming error.
func bindFlag(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
