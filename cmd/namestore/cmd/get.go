package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/aweris/namestore"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print the content stored under a name",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	name := args[0]

	s, err := openStore(cmd)
	if err != nil {
		return err
	}

	content, err := s.Get(name)
	if errors.Is(err, namestore.ErrNotFound) {
		return fmt.Errorf("%s: not found", name)
	}
	if err != nil {
		return err
	}

	_, err = io.WriteString(cmd.OutOrStdout(), content)
	return err
}
