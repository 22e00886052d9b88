package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var putCmd = &cobra.Command{
	Use:   "put <name> [file]",
	Short: "Store content under a name",
	Long:  "Store the content of file (or stdin) under name. An existing name is re-pointed.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPut,
}

var putManyCmd = &cobra.Command{
	Use:   "put-many <file>...",
	Short: "Store several files, named by their base names",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPutMany,
}

func init() {
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(putManyCmd)
}

func runPut(cmd *cobra.Command, args []string) error {
	name := args[0]

	var (
		data []byte
		err  error
	)
	if len(args) > 1 {
		data, err = os.ReadFile(args[1])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}

	if err := s.Store(name, string(data)); err != nil {
		return err
	}

	digest, _ := s.Lookup(name)
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, digest)
	return nil
}

func runPutMany(cmd *cobra.Command, args []string) error {
	entries := make(map[string]string, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read content: %w", err)
		}
		name := filepath.Base(path)
		if _, dup := entries[name]; dup {
			return fmt.Errorf("duplicate name %q", name)
		}
		entries[name] = string(data)
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}

	if err := s.StoreBatch(cmd.Context(), entries); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Stored %d names. Root: %s\n", len(entries), s.Root().Short())
	return nil
}
