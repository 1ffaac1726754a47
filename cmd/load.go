package cmd

import (
	"github.com/spf13/cobra"
)

var (
	loadExpression bool
	loadPrint      bool
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load [FILE...]",
	Short: "Load lisp source files",
	Long: `Load lisp source files into a fresh core environment, evaluating each
expression in turn.  Loading stops at the first failure.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		rt := newRuntime(cfg)
		if !loadExpression {
			loadEnv(rt, cfg, args)
			return
		}
		env := loadEnv(rt, cfg, nil)
		for _, src := range args {
			v := rt.LoadString(src, env)
			if loadPrint {
				rt.Println(rt.StdoutStream, rt.Heap.List(v))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().BoolVarP(&loadExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	loadCmd.Flags().BoolVarP(&loadPrint, "print", "p", false,
		"Print the value of each expression argument (with -e)")
}
