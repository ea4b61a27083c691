package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Andrew-Robertson/make-SHMR-datasets/relation"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print a summary of a relation file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	ds, err := relation.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Println(args[0])
	relation.Describe(os.Stdout, ds)
	return nil
}
