package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
	"github.com/couchcryptid/plate-kinematics-etl/internal/recon"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var timeMa float64
	var anchor int

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Resolve the plate configuration at a reconstruction time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := recon.Snapshot(cmd.Context(), a.engine, a.model, timeMa, anchor)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "model: %s\n", a.model.Name)
			fmt.Fprintf(out, "time: %g Ma\n", snap.TimeMa)
			fmt.Fprintf(out, "plates: %d\n", snap.PlateCount())
			fmt.Fprintf(out, "total area: %.0f km2\n", snap.TotalAreaKm2())

			ids := snap.PlateIDs()
			areas := snap.AreasKm2()
			perims := snap.PerimetersKm()
			centroids := snap.Centroids()
			for i := range ids {
				fmt.Fprintf(out, "  plate %-5d area %14.0f km2  perimeter %10.0f km  centroid %8.3f,%7.3f\n",
					ids[i], areas[i], perims[i], centroids[i].Lon, centroids[i].Lat)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&timeMa, "time", 0, "reconstruction time in Ma")
	cmd.Flags().IntVar(&anchor, "anchor", 0, "anchor plate ID")
	return cmd
}

func newVelocitiesCmd(a *app) *cobra.Command {
	var (
		timeMa       float64
		anchor       int
		deltaTime    float64
		distribution string
		n            int
		seed         int64
		output       string
	)

	cmd := &cobra.Command{
		Use:   "velocities",
		Short: "Compute a plate velocity field on a global point distribution",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dist, err := recon.NewDistribution(distribution, n, seed)
			if err != nil {
				return err
			}
			snap, err := recon.Snapshot(cmd.Context(), a.engine, a.model, timeMa, anchor)
			if err != nil {
				return err
			}
			field, err := snap.VelocityField(cmd.Context(), dist, deltaTime)
			if err != nil {
				return err
			}

			w, closeOut, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeOut()

			if err := field.WriteCSV(w); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "rms velocity: %.4f cm/yr over %d points\n", field.RMS(), field.Len())
			return nil
		},
	}

	cmd.Flags().Float64Var(&timeMa, "time", 0, "reconstruction time in Ma")
	cmd.Flags().IntVar(&anchor, "anchor", 0, "anchor plate ID")
	cmd.Flags().Float64Var(&deltaTime, "delta-time", 1, "stage rotation interval in Myr")
	cmd.Flags().StringVar(&distribution, "distribution", recon.DistributionFibonacci, "point distribution (random, fibonacci)")
	cmd.Flags().IntVar(&n, "points", 1000, "number of distribution points")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random distribution seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV path (default stdout)")
	return cmd
}

func newConvergenceCmd(a *app) *cobra.Command {
	var (
		timeMa      float64
		anchor      int
		deltaTime   float64
		samplingDeg float64
		output      string
	)

	cmd := &cobra.Command{
		Use:   "convergence",
		Short: "Sample subduction-zone convergence kinematics at a reconstruction time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := recon.SubductionConvergence(cmd.Context(), a.engine, domain.SubductionQuery{
				Model:             a.model.EngineTag,
				TimeMa:            timeMa,
				VelocityDeltaTime: deltaTime,
				SamplingDeg:       samplingDeg,
				AnchorPlateID:     anchor,
			})
			if err != nil {
				return err
			}

			w, closeOut, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeOut()

			if err := table.WriteCSV(w); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d trench samples at %g Ma\n", table.Len(), timeMa)
			return nil
		},
	}

	cmd.Flags().Float64Var(&timeMa, "time", 0, "reconstruction time in Ma")
	cmd.Flags().IntVar(&anchor, "anchor", 0, "anchor plate ID")
	cmd.Flags().Float64Var(&deltaTime, "delta-time", 1, "stage rotation interval in Myr")
	cmd.Flags().Float64Var(&samplingDeg, "sampling", 0.5, "trench sampling distance in degrees of arc")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV path (default stdout)")
	return cmd
}

func newReconstructCmd(a *app) *cobra.Command {
	var (
		timeMa float64
		anchor int
		mode   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "reconstruct-seamounts",
		Short: "Reconstruct the Pacific seamount age compilation through time",
		Long: `Reconstruct the Pacific seamount age compilation: assign each dated
seamount to a plate, then rotate it either to a fixed reconstruction time
(--time) or to its own time of appearance (--mode birth or mid).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			records, err := a.store.PacificSeamountAges(ctx)
			if err != nil {
				return err
			}
			lons := make([]float64, len(records))
			lats := make([]float64, len(records))
			ages := make([]float64, len(records))
			for i, r := range records {
				lons[i] = r.Lon
				lats[i] = r.Lat
				ages[i] = r.AverageAgeMa
			}

			points, err := recon.NewAgeCodedPoints(lons, lats, ages)
			if err != nil {
				return err
			}
			if err := points.AssignPlates(ctx, a.engine, a.model); err != nil {
				return err
			}

			var reconstructed []recon.ReconstructedPoint
			if mode != "" {
				reconstructed, err = points.ReconstructToAppearance(ctx, recon.AppearanceMode(mode), anchor)
			} else {
				reconstructed, err = points.ReconstructTo(ctx, timeMa, anchor)
			}
			if err != nil {
				return err
			}

			w, closeOut, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeOut()

			if err := writeReconstructedCSV(w, reconstructed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "reconstructed %d of %d seamounts\n", len(reconstructed), points.Len())
			return nil
		},
	}

	cmd.Flags().Float64Var(&timeMa, "time", 0, "fixed reconstruction time in Ma")
	cmd.Flags().IntVar(&anchor, "anchor", 0, "anchor plate ID")
	cmd.Flags().StringVar(&mode, "mode", "", "appearance mode (birth, mid); overrides --time")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV path (default stdout)")
	return cmd
}

func writeReconstructedCSV(w io.Writer, points []recon.ReconstructedPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"lon", "lat", "time", "plate_id"}); err != nil {
		return err
	}
	for _, p := range points {
		record := []string{
			strconv.FormatFloat(p.Lon, 'f', -1, 64),
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
			strconv.FormatFloat(p.TimeMa, 'f', -1, 64),
			strconv.Itoa(p.PlateID),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
