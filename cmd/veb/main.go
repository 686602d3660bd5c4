// Command veb is an interactive shell and batch
// query tool for a van Emde Boas integer set.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func generateShellCompletion(cmd *cobra.Command, shell string) error {
	switch shell {
	case "bash":
		return cmd.Root().GenBashCompletion(os.Stdout)
	case "zsh":
		return cmd.Root().GenZshCompletion(os.Stdout)
	case "fish":
		return cmd.Root().GenFishCompletion(os.Stdout, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
	default:
		return fmt.Errorf("unsupported shell: %q", shell)
	}
}

func runShell(conf *Config) error {
	tree, err := conf.NewTree()
	if err != nil {
		return err
	}
	sh := NewShell(tree, os.Stdout, conf.Log)
	if conf.NoColor {
		sh.DisableColor()
	}
	prompt := term.IsTerminal(int(os.Stdin.Fd()))
	if prompt {
		fmt.Printf("u = 2^%d; type help for commands\n", tree.UniverseBits())
	}
	return sh.Run(os.Stdin, prompt)
}

// runQuery answers op for each of the values,
// one result per line.
func runQuery(conf *Config, op string, args []string) error {
	switch op {
	case "succ", "pred", "has":
	default:
		return fmt.Errorf("query: unsupported op %q (want succ, pred or has)", op)
	}
	tree, err := conf.NewTree()
	if err != nil {
		return err
	}
	sh := NewShell(tree, os.Stdout, conf.Log)
	if conf.NoColor {
		sh.DisableColor()
	}
	for _, a := range args {
		if err := sh.Exec(op + " " + a); err != nil {
			return err
		}
	}
	return nil
}

func realMain() error {
	var conf Config

	root := &cobra.Command{
		Use:   "veb",
		Short: "veb stores integers from a 2^(2^k) universe and answers successor/predecessor queries",
		Example: `
# Interactive shell over a 2^16 universe:
$ veb -b 16

# Batch queries against values loaded from a file:
$ veb query -b 32 -f values.txt succ 10 0x400 1000000

# Generate shell completion:
$ veb --completion [bash|zsh|fish|powershell]`[1:],
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return conf.Init()
		},
	}

	flags := root.PersistentFlags()
	flags.SortFlags = false
	conf.AddFlags(flags)

	genCompletion := root.Flags().String("completion", "",
		"generate completion script [bash|zsh|fish|powershell]")
	root.RegisterFlagCompletionFunc(
		"completion",
		func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return []string{"bash", "zsh", "fish", "powershell"}, cobra.ShellCompDirectiveDefault
		},
	)

	root.RunE = func(cmd *cobra.Command, args []string) error {
		if *genCompletion != "" {
			return generateShellCompletion(cmd, *genCompletion)
		}
		return runShell(&conf)
	}

	root.AddCommand(&cobra.Command{
		Use:   "shell",
		Short: "read commands from STDIN; type help for the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(&conf)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "query succ|pred|has x...",
		Short: "answer one query per value and exit",
		Args:  cobra.MinimumNArgs(2),
		ValidArgs: []string{
			"succ", "pred", "has",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(&conf, strings.ToLower(args[0]), args[1:])
		},
	})

	err := root.Execute()
	if conf.Log != nil {
		conf.Log.Sync()
	}
	return err
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, "veb:", err)
		os.Exit(1)
	}
}
