package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List names",
	Long:  "List all names with their digest and blob size, optionally filtered by prefix.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	entries := s.List(prefix)
	for _, e := range entries {
		fmt.Fprintf(out, "%s\t%s\t%d\n", e.Name, e.Digest, e.Size)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "(no entries)")
	}

	return nil
}
