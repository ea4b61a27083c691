package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Andrew-Robertson/make-SHMR-datasets/relation"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file-or-directory>",
	Short: "Validate relation files against the Galacticus format",
	Long: "Validate checks that a relation file carries every group, dataset and\n" +
		"attribute Galacticus expects. Given a directory, every matching file\n" +
		"below it is validated.",
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("pattern", "*.hdf5", "file name pattern for directory validation")
	_ = viper.BindPFlag("pattern", validateCmd.Flags().Lookup("pattern"))
	validateCmd.Flags().Bool("watch", false, "re-validate the file whenever it changes")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return validateDirectory(path, viper.GetString("pattern"))
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchAndValidate(path)
	}

	result, err := relation.Validate(path)
	if err != nil {
		return err
	}
	result.WriteSummary(os.Stdout)
	if !result.Valid {
		return fmt.Errorf("%s failed validation", path)
	}
	return nil
}

func validateDirectory(dir, pattern string) error {
	log.Debug().Str("dir", dir).Str("pattern", pattern).Msg("scanning directory")
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)
	if len(files) == 0 {
		return fmt.Errorf("no files matching %s found in %s", pattern, dir)
	}

	invalid := 0
	for _, path := range files {
		result, err := relation.Validate(path)
		if err != nil {
			fmt.Printf("✗ %s: %v\n\n", path, err)
			invalid++
			continue
		}
		result.WriteSummary(os.Stdout)
		fmt.Println()
		if !result.Valid {
			invalid++
		}
	}
	fmt.Printf("validated %d file(s): %d valid, %d invalid\n", len(files), len(files)-invalid, invalid)
	if invalid > 0 {
		return fmt.Errorf("%d of %d files failed validation", invalid, len(files))
	}
	return nil
}

func watchAndValidate(path string) error {
	revalidate := func() {
		result, err := relation.Validate(path)
		if err != nil {
			log.Error().Err(err).Msg("validation failed")
			return
		}
		result.WriteSummary(os.Stdout)
		fmt.Println()
	}
	revalidate()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory rather than the file itself so that editors and
	// atomic saves that replace the file are still observed.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("watching for changes")

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				log.Debug().Str("op", event.Op.String()).Msg("file changed")
				revalidate()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watch error")
		}
	}
}
