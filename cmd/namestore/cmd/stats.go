package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show name, blob and byte counts",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var rootHashCmd = &cobra.Command{
	Use:   "root",
	Short: "Print the digest of the whole index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s.Root())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(rootHashCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}

	st, err := s.Stats()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "names:\t%d\n", st.Entries)
	fmt.Fprintf(out, "blobs:\t%d\n", st.Blobs)
	fmt.Fprintf(out, "bytes:\t%d\n", st.Bytes)
	return nil
}
