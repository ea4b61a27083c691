package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Andrew-Robertson/make-SHMR-datasets/parametric"
	"github.com/Andrew-Robertson/make-SHMR-datasets/relation"
)

var createCmd = &cobra.Command{
	Use:   "create <output.hdf5>",
	Short: "Generate a relation file from a published parametric model",
	Long: "Create evaluates a parametric stellar mass - halo mass relation on a\n" +
		"log-spaced halo mass grid and writes it as a Galacticus relation file.\n\n" +
		"Available models: " + strings.Join(parametric.ModelNames(), ", "),
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("model", "behroozi2010", "parametric model to evaluate")
	createCmd.Flags().Float64("log-mass-min", 10, "log10 of the lowest halo mass (Msun)")
	createCmd.Flags().Float64("log-mass-max", 15, "log10 of the highest halo mass (Msun)")
	createCmd.Flags().Int("points", 50, "number of halo mass grid points")
	createCmd.Flags().Float64("redshift", 0, "central redshift of the interval")
	createCmd.Flags().Float64("redshift-width", 0.1, "width of the redshift interval")
	createCmd.Flags().String("label", "SHMR", "dataset label")
	createCmd.Flags().String("reference", "Generated SHMR", "dataset reference")
	createCmd.Flags().String("halo-mass-definition", "virial", "halo mass definition")
	createCmd.Flags().Float64("scatter", 0.16, "log-normal scatter in dex")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	modelName, _ := flags.GetString("model")
	logMin, _ := flags.GetFloat64("log-mass-min")
	logMax, _ := flags.GetFloat64("log-mass-max")
	points, _ := flags.GetInt("points")
	redshift, _ := flags.GetFloat64("redshift")
	width, _ := flags.GetFloat64("redshift-width")
	label, _ := flags.GetString("label")
	reference, _ := flags.GetString("reference")
	definition, _ := flags.GetString("halo-mass-definition")
	scatter, _ := flags.GetFloat64("scatter")

	model, err := parametric.NewModel(modelName, redshift)
	if err != nil {
		return err
	}
	masses := parametric.LogSpacedMasses(logMin, logMax, points)
	ds, err := parametric.Generate(masses, model,
		parametric.WithRedshift(redshift, width),
		parametric.WithLabel(label),
		parametric.WithReference(reference),
		parametric.WithHaloMassDefinition(definition),
		parametric.WithScatter(scatter),
	)
	if err != nil {
		return err
	}
	if err := relation.Save(ds, args[0]); err != nil {
		return err
	}
	log.Info().
		Str("path", args[0]).
		Str("model", modelName).
		Int("points", points).
		Float64("redshift", redshift).
		Msg("wrote dataset")
	return nil
}
