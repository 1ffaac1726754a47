package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/luthersystems/taglisp/pkg/selftest"
)

var (
	unitExitOnFail bool
	unitShowPass   bool
)

// unitCmd represents the unit command
var unitCmd = &cobra.Command{
	Use:   "unit",
	Short: "Run the built-in self-test",
	Long: `Run the built-in self-test groups and print one line per assertion
followed by a summary.  The exit status is 1 if any assertion failed.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		rt := newRuntime(cfg)
		rep := &selftest.Reporter{
			W:          os.Stdout,
			Color:      rt.Color,
			ShowPass:   cfg.ShouldShowPass(),
			ExitOnFail: cfg.ExitOnFail,
			Exit:       os.Exit,
		}
		if cmd.Flags().Changed("show-pass") {
			rep.ShowPass = unitShowPass
		}
		if cmd.Flags().Changed("exit-on-fail") {
			rep.ExitOnFail = unitExitOnFail
		}
		selftest.Run(rep, rt)
		if rep.Failed() > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(unitCmd)

	unitCmd.Flags().BoolVar(&unitExitOnFail, "exit-on-fail", false,
		"Exit at the first failing assertion")
	unitCmd.Flags().BoolVar(&unitShowPass, "show-pass", true,
		"Print passing assertions as well as failures")
}
