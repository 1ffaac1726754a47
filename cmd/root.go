package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luthersystems/taglisp/pkg/config"
	"github.com/luthersystems/taglisp/pkg/lisp"
	"github.com/luthersystems/taglisp/pkg/runtime"
)

var (
	cfgFile      string
	noColor      bool
	noQuoteSugar bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taglisp",
	Short: "A small lisp with tagged values",
	Long: `A small lisp whose values are tagged 64-bit words.  Source files can be
loaded, evaluated interactively, or checked with the built-in self-test.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Usage()
		os.Exit(1)
	},
}

// Execute adds all child commands to the root command and runs it.  This is
// called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Read run configuration from a YAML file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Never color diagnostics")
	rootCmd.PersistentFlags().BoolVar(&noQuoteSugar, "no-quote-sugar", false,
		"Print (quote x) forms in full instead of as 'x")
}

// loadConfig returns the configuration named by --config, or the defaults.
func loadConfig() *config.Config {
	if cfgFile == "" {
		return config.Default()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

// newRuntime creates a runtime from cfg.  Command line flags override the
// configuration.
func newRuntime(cfg *config.Config) *runtime.Runtime {
	options := cfg.RuntimeOptions()
	if noColor {
		options = append(options, runtime.WithColor(false))
	}
	if noQuoteSugar {
		options = append(options, runtime.WithQuoteSugar(false))
	}
	rt, err := runtime.New(options...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return rt
}

// loadEnv returns a core environment with the configured preload files and
// then paths loaded into it.  A failing file terminates the process.
func loadEnv(rt *runtime.Runtime, cfg *config.Config, paths []string) lisp.Expr {
	env := rt.MakeCoreEnv()
	for _, path := range cfg.Preload {
		rt.LoadFile(path, env)
	}
	for _, path := range paths {
		rt.LoadFile(path, env)
	}
	return env
}
