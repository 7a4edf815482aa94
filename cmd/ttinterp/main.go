package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"ttinterp/internal/models"
	"ttinterp/pkg/config"
	"ttinterp/pkg/sweep"
	"ttinterp/pkg/table"
	"ttinterp/pkg/traveltime"
)

func main() {
	configPath := flag.String("config", "ttinterp.yaml", "Configuration file (defaults are used if it does not exist)")
	tablePath := flag.String("table", "", "YAML travel-time table fixture")
	dist := flag.Float64("dist", 0, "Query distance in degrees")
	depth := flag.Float64("depth", 0, "Query depth in km")
	extrapolate := flag.Bool("extrapolate", false, "Allow extrapolation (overrides the config when set)")
	hole := flag.Bool("hole", false, "Declare the query point to lie in a table hole")
	runSweep := flag.Bool("sweep", false, "Evaluate the configured grid instead of a single point")
	writeConfig := flag.String("write-config", "", "Write the default configuration to this path and exit")
	flag.Parse()

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			logrus.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *writeConfig)
		return
	}

	if *tablePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "extrapolate" {
			cfg.Engine.AllowExtrapolation = *extrapolate
		}
	})
	log := cfg.NewLogger()

	fixture, err := models.LoadFixture(*tablePath)
	if err != nil {
		log.Fatalf("Failed to load table: %v", err)
	}
	tbl, err := fixture.ToTable()
	if err != nil {
		log.Fatalf("Invalid table: %v", err)
	}
	log.WithFields(logrus.Fields{
		"phase":     fixture.Phase,
		"distances": tbl.NumDistances(),
		"depths":    tbl.NumDepths(),
	}).Infof("Loaded table, %.1f%% of samples present", tbl.Coverage()*100)

	if *runSweep {
		if err := sweepTable(cfg, tbl, log); err != nil {
			log.Fatalf("Sweep failed: %v", err)
		}
		return
	}

	res, err := traveltime.Interpolate(tbl, traveltime.Query{
		Distance:           *dist,
		Depth:              *depth,
		AllowExtrapolation: cfg.Engine.AllowExtrapolation,
		InHole:             *hole,
		DepthDerivs:        cfg.DepthDerivs(),
	})
	if err != nil {
		log.Fatalf("Lookup failed: %v", err)
	}
	printResult(fixture.Phase, *dist, *depth, res)

	if res.Status.Failed() {
		if knot, ok := tbl.NearestValid(*dist, *depth); ok {
			fmt.Printf("Nearest sample: %.4f s at %.3f deg, %.1f km\n", knot.Value, knot.Distance, knot.Depth)
		}
		os.Exit(2)
	}
}

func printResult(phase string, dist, depth float64, res traveltime.Result) {
	fmt.Printf("%s at %.3f deg, %.1f km\n", phase, dist, depth)
	fmt.Printf("Status:            %d (%s)\n", int(res.Status), res.Status)
	fmt.Printf("Travel time:       %.4f s\n", res.Value)
	fmt.Printf("d/dDistance:       %.6f s/deg\n", res.DistanceDeriv)
	fmt.Printf("d2/dDistance2:     %.6f s/deg^2\n", res.DistanceSecondDeriv)
	fmt.Printf("d/dDepth:          %.6f s/km\n", res.DepthDeriv)
	fmt.Printf("d2/dDepth2:        %.6f s/km^2\n", res.DepthSecondDeriv)
}

func sweepTable(cfg *config.Config, tbl *table.Table, log *logrus.Logger) error {
	s := sweep.NewSweeper(tbl, cfg.SweepParams(), log)
	points, err := s.Run()
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		for _, p := range points {
			fmt.Printf("%8.3f %8.1f %12.4f %4d\n", p.Query.Distance, p.Query.Depth, p.Result.Value, int(p.Result.Status))
		}
	}

	sum := s.Summary()
	fmt.Printf("\nSweep %s: %d points in %.3f seconds\n", sum.RunID, sum.Points, sum.Elapsed.Seconds())
	for _, st := range sum.Statuses() {
		fmt.Printf("- %3d %-40s %d\n", int(st), st, sum.Counts[st])
	}
	if sum.Valued > 0 {
		fmt.Printf("Travel time: mean %.4f s, std dev %.4f s, range [%.4f, %.4f] s\n", sum.Mean, sum.StdDev, sum.Min, sum.Max)
	}
	return nil
}
