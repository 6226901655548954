package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/plate-kinematics-etl/internal/dataset"
)

func newDatasetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List, fetch, and inspect the registered datasets",
	}
	cmd.AddCommand(newDatasetsListCmd(), newDatasetsFetchCmd(a), newDatasetsShowCmd(a))
	return cmd
}

func newDatasetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered dataset names",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range dataset.Names() {
				spec, err := dataset.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", name, spec.URL)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nseafloor-fabric codes: %v\n", dataset.FabricCodes())
			return nil
		},
	}
}

func newDatasetsFetchCmd(a *app) *cobra.Command {
	var fabricCode, catalogue string

	cmd := &cobra.Command{
		Use:   "fetch <name>",
		Short: "Download a dataset into the cache and print its local path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var path string
			var err error
			switch name := args[0]; name {
			case dataset.NameMagneticPicks:
				path, err = a.store.MagneticPicksPath(ctx)
			case dataset.NameSeafloorFabric:
				path, err = a.store.SeafloorFabricPath(ctx, fabricCode)
			case dataset.NamePacificSeamountAges:
				path, err = a.store.PacificSeamountAgesPath(ctx)
			case dataset.NameSeamountCensus:
				path, err = a.store.SeamountCensusPath(ctx)
			case dataset.NameLargeIgneousProvinces:
				path, err = a.store.LargeIgneousProvincesPath(ctx, catalogue)
			default:
				_, err = dataset.Lookup(name)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&fabricCode, "fabric-code", "FZ", "seafloor-fabric feature-type code")
	cmd.Flags().StringVar(&catalogue, "catalogue", "Whittaker", "large-igneous-province catalogue")
	return cmd
}

func newDatasetsShowCmd(a *app) *cobra.Command {
	var fabricCode, catalogue string

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Fetch and parse a dataset, printing a record summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch name := args[0]; name {
			case dataset.NameMagneticPicks:
				features, err := a.store.MagneticPicks(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "magnetic picks: %d features\n", len(features))
			case dataset.NameSeafloorFabric:
				features, err := a.store.SeafloorFabric(ctx, fabricCode)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "seafloor fabric %s: %d features\n", fabricCode, len(features))
			case dataset.NamePacificSeamountAges:
				records, err := a.store.PacificSeamountAges(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "pacific seamount ages: %d records, columns %v\n", len(records), dataset.SeamountAgeColumns)
			case dataset.NameSeamountCensus:
				records, err := a.store.SeamountCensus(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "seamount census: %d records, columns %v\n", len(records), dataset.CensusColumns)
			case dataset.NameLargeIgneousProvinces:
				features, err := a.store.LargeIgneousProvinces(ctx, catalogue)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "large igneous provinces (%s): %d polygons\n", catalogue, len(features))
			default:
				_, err := dataset.Lookup(name)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fabricCode, "fabric-code", "FZ", "seafloor-fabric feature-type code")
	cmd.Flags().StringVar(&catalogue, "catalogue", "Whittaker", "large-igneous-province catalogue")
	return cmd
}
