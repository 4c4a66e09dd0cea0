// marquee decorates document-authoring block markup into interactive
// components: carousels, video heroes, teasers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "marquee",
		Short:         "Decorate authored block markup into interactive components",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDecorateCommand())
	root.AddCommand(newVersionCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "marquee: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the marquee version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "marquee "+version)
		},
	}
}
