package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Andrew-Robertson/make-SHMR-datasets/hdf5"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the raw HDF5 structure of a file",
	Long: "Dump walks every group, dataset and attribute in the file and prints\n" +
		"the raw structure. Useful when a file fails validation and the report\n" +
		"alone does not show why.",
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	f, err := hdf5.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Printf("%s (superblock version %d)\n", f.Path(), f.Version())
	err = hdf5.Walk(f.Root(), func(path string, obj interface{}, err error) error {
		if err != nil {
			fmt.Printf("  !! %s: %v\n", path, err)
			return nil
		}
		switch o := obj.(type) {
		case *hdf5.Group:
			fmt.Printf("group   %s\n", path)
		case *hdf5.Dataset:
			fmt.Printf("dataset %s shape=%v\n", path, o.Shape())
		}
		return nil
	})
	if err != nil {
		return err
	}
	return f.WalkAttrs(func(info hdf5.AttrInfo) error {
		if info.Err != nil {
			fmt.Printf("  !! %s: %v\n", info.Path, info.Err)
			return nil
		}
		fmt.Printf("attr    %s = %v\n", info.Path, info.Value)
		return nil
	})
}
