package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Andrew-Robertson/make-SHMR-datasets/parametric"
	"github.com/Andrew-Robertson/make-SHMR-datasets/relation"
)

var resampleCmd = &cobra.Command{
	Use:   "resample <input.hdf5> <output.hdf5>",
	Short: "Interpolate a relation file onto a new halo mass grid",
	Args:  cobra.ExactArgs(2),
	RunE:  runResample,
}

func init() {
	resampleCmd.Flags().Float64("log-mass-min", 10, "log10 of the lowest halo mass (Msun)")
	resampleCmd.Flags().Float64("log-mass-max", 15, "log10 of the highest halo mass (Msun)")
	resampleCmd.Flags().Int("points", 50, "number of halo mass grid points")
	resampleCmd.Flags().String("method", "log-linear", "interpolation method (linear, log-linear, akima)")
	rootCmd.AddCommand(resampleCmd)
}

func runResample(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	logMin, _ := flags.GetFloat64("log-mass-min")
	logMax, _ := flags.GetFloat64("log-mass-max")
	points, _ := flags.GetInt("points")
	method, _ := flags.GetString("method")

	ds, err := relation.Load(args[0])
	if err != nil {
		return err
	}
	masses := parametric.LogSpacedMasses(logMin, logMax, points)
	resampled, err := parametric.Resample(ds, masses, parametric.Method(method))
	if err != nil {
		return err
	}
	if err := relation.Save(resampled, args[1]); err != nil {
		return err
	}
	log.Info().
		Str("input", args[0]).
		Str("output", args[1]).
		Str("method", method).
		Int("points", points).
		Msg("resampled dataset")
	return nil
}
