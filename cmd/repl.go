package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luthersystems/taglisp/repl"
)

var replPrompt string

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl [FILE...]",
	Short: "Start an interactive session",
	Long: `Load the given source files and then read, evaluate and print forms from
stdin until it is exhausted.  A failing form is reported and the session
continues.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		rt := newRuntime(cfg)
		env := loadEnv(rt, cfg, args)
		prompt := cfg.Prompt
		if cmd.Flags().Changed("prompt") {
			prompt = replPrompt
		}
		err := repl.New(rt, env, repl.WithPrompt(prompt)).Run()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&replPrompt, "prompt", repl.DefaultPrompt,
		"Prompt written before each form is read")
}
