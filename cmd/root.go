package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grayscan/grayscan/sim"
	"github.com/grayscan/grayscan/sim/trace"
)

var (
	// shared CLI flags
	seed     int64  // Master seed for seeding noise and candidate sampling
	logLevel string // Log verbosity level

	// simulation parameter flags
	du        float64 // Diffusion rate of the activator field U
	dv        float64 // Diffusion rate of the inhibitor field V
	feed      float64 // Feed rate of U
	kill      float64 // Kill rate of V
	dt        float64 // Integration timestep scale
	threshold float64 // Display threshold (pass-through)
	contrast  float64 // Display contrast (pass-through)
	gamma     float64 // Display gamma (pass-through)
	invert    bool    // Display inversion (pass-through)

	// evaluation flags
	resolution      int // Grid edge length
	totalIterations int // Single steps per evaluation run
	sampleInterval  int // Steps between metric samples

	// scan flags
	targetVisible    int     // Visible-queue size that finishes a scan
	batchSize        int     // Candidates evaluated per batch
	maxBatches       int     // Batch ceiling per scan request
	visibleThreshold float64 // Minimum blended score for visibility
	noAutoTag        bool    // Disable threshold auto-tagging
	traceLevel       string  // Decision trace level
	modelPath        string  // Trained special-likelihood model artifact
	tuningPath       string  // Scan tuning YAML file
	exportPath       string  // Feedback export destination

	// heatmap flags
	feedbackPath string // Exported feedback JSON to aggregate
	axisXSpec    string // X axis as key:min:max:bins
	axisYSpec    string // Y axis as key:min:max:bins
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "grayscan",
	Short: "Headless Gray-Scott pattern explorer and candidate search",
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func flagParams() sim.Params {
	return sim.Params{
		Du:        du,
		Dv:        dv,
		Feed:      feed,
		Kill:      kill,
		Dt:        dt,
		Threshold: threshold,
		Contrast:  contrast,
		Gamma:     gamma,
		Invert:    invert,
	}
}

// runCmd evaluates a single parameter set headlessly and prints its
// metrics series and vitality assessment.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate one parameter set and print its metrics",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		params := flagParams()
		if err := params.Validate(); err != nil {
			logrus.Fatalf("Rejecting parameters: %v", err)
		}

		model, err := loadSpecialModel(modelPath)
		if err != nil {
			logrus.Fatalf("Unable to load special model: %v", err)
		}

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
		evaluator := sim.NewEvaluator(sim.NewEvalConfig(resolution, totalIterations, sampleInterval), rng)

		logrus.Infof("Starting evaluation: resolution=%d, iterations=%d, interval=%d", resolution, totalIterations, sampleInterval)
		startTime := time.Now()

		results, err := evaluator.Evaluate(context.Background(), []sim.Params{params}, nil)
		if err != nil {
			logrus.Fatalf("Evaluation failed: %v", err)
		}

		r := results[0]
		assessment := sim.Classify(r.Average)
		likelihood := model.Score(r.Average, r.Params)

		fmt.Println("=== Evaluation Metrics ===")
		fmt.Printf("Samples              : %d\n", len(r.Samples))
		fmt.Printf("Mean U / V           : %.4f / %.4f\n", r.Average.MeanU, r.Average.MeanV)
		fmt.Printf("Std U / V            : %.4f / %.4f\n", r.Average.StdU, r.Average.StdV)
		fmt.Printf("Activity             : %.5f\n", r.Average.Activity)
		fmt.Printf("Entropy              : %.4f bits\n", r.Average.Entropy)
		fmt.Printf("Vitality             : %s (%.3f)\n", assessment.Category, assessment.Score)
		fmt.Printf("Special likelihood   : %.3f\n", likelihood)
		fmt.Printf("Wall time            : %s\n", time.Since(startTime).Round(time.Millisecond))

		logrus.Info("Evaluation complete.")
	},
}

// scanCmd runs the bounded candidate search loop and prints the ranked
// queue. Ctrl-C cancels after the in-flight candidate.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Search parameter space for interesting candidates",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		model, err := loadSpecialModel(modelPath)
		if err != nil {
			logrus.Fatalf("Unable to load special model: %v", err)
		}

		cfg := sim.DefaultScanConfig()
		cfg.TargetVisible = targetVisible
		cfg.BatchSize = batchSize
		cfg.MaxBatches = maxBatches
		cfg.VisibleThreshold = visibleThreshold
		cfg.AutoTag = !noAutoTag
		if tuningPath != "" {
			if cfg, err = applyScanTuning(cfg, tuningPath); err != nil {
				logrus.Fatalf("Unable to load scan tuning: %v", err)
			}
		}

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
		evaluator := sim.NewEvaluator(sim.NewEvalConfig(resolution, totalIterations, sampleInterval), rng)
		store := sim.NewFeedbackStore()
		scanTrace := trace.NewScanTrace(trace.TraceLevel(traceLevel))
		scanner := sim.NewScanner(cfg, evaluator, model, store, rng, scanTrace)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logrus.Infof("Starting scan: target=%d visible, batches of %d (ceiling %d), seed=%d",
			cfg.TargetVisible, cfg.BatchSize, cfg.MaxBatches, seed)
		startTime := time.Now()

		queue, err := scanner.Scan(ctx, func(frac float64) {
			logrus.Infof("Scan progress: %.0f%%", frac*100)
		})
		if err != nil {
			logrus.Warnf("Scan cancelled: %v", err)
		}

		fmt.Println("=== Ranked Candidates ===")
		for i, c := range queue {
			fmt.Printf("%3d. %-10s blended=%.3f vitality=%.3f special=%.3f feed=%.4f kill=%.4f du=%.3f dv=%.3f\n",
				i+1, c.Assessment.Category, c.BlendedScore, c.Assessment.Score, c.SpecialLikelihood,
				c.Params.Feed, c.Params.Kill, c.Params.Du, c.Params.Dv)
		}
		fmt.Printf("Visible: %d of %d candidates, wall time %s\n",
			len(sim.VisibleCandidates(queue, cfg.VisibleThreshold)), len(queue),
			time.Since(startTime).Round(time.Millisecond))

		if scanTrace.Level == trace.TraceLevelDecisions {
			summary := trace.Summarize(scanTrace)
			fmt.Printf("Auto-tagged: %d special, %d normal, %d undecided (mean blended %.3f)\n",
				summary.AutoSpecialCount, summary.AutoNormalCount, summary.UndecidedCount, summary.MeanBlended)
		}

		if exportPath != "" {
			data, err := store.ExportJSON()
			if err != nil {
				logrus.Fatalf("Unable to serialize feedback: %v", err)
			}
			if err := os.WriteFile(exportPath, data, 0o644); err != nil {
				logrus.Fatalf("Unable to write feedback export: %v", err)
			}
			logrus.Infof("Feedback exported to %s (%d records)", exportPath, store.Len())
		}
	},
}

// heatmapCmd bins an exported feedback file over two parameter axes and
// prints the occupancy grid.
var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Bin exported feedback records over two parameter axes",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		records, err := loadFeedbackRecords(feedbackPath)
		if err != nil {
			logrus.Fatalf("Unable to read feedback file: %v", err)
		}
		axisX, err := parseAxisSpec(axisXSpec)
		if err != nil {
			logrus.Fatalf("Invalid --axis-x: %v", err)
		}
		axisY, err := parseAxisSpec(axisYSpec)
		if err != nil {
			logrus.Fatalf("Invalid --axis-y: %v", err)
		}

		hm := sim.BuildHeatmap(records, axisX, axisY)
		if hm == nil {
			fmt.Println("No data to aggregate.")
			return
		}

		fmt.Printf("=== Heatmap %s x %s (%d records) ===\n", axisX.Key, axisY.Key, hm.Total)
		for y := axisY.Bins - 1; y >= 0; y-- {
			fmt.Printf("%8s |", hm.TicksY[y])
			for x := 0; x < axisX.Bins; x++ {
				fmt.Printf(" %3d", hm.Counts[y][x])
			}
			fmt.Println()
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, scanCmd, heatmapCmd} {
		c.Flags().Int64Var(&seed, "seed", 42, "Master seed for seeding noise and candidate sampling")
		c.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	}

	// simulation parameters
	runCmd.Flags().Float64Var(&du, "du", 0.21, "Diffusion rate of the activator field U")
	runCmd.Flags().Float64Var(&dv, "dv", 0.105, "Diffusion rate of the inhibitor field V")
	runCmd.Flags().Float64Var(&feed, "feed", 0.037, "Feed rate of U")
	runCmd.Flags().Float64Var(&kill, "kill", 0.06, "Kill rate of V")
	runCmd.Flags().Float64Var(&dt, "dt", 1.0, "Integration timestep scale")
	runCmd.Flags().Float64Var(&threshold, "threshold", 0.2, "Display threshold (carried through unchanged)")
	runCmd.Flags().Float64Var(&contrast, "contrast", 1.0, "Display contrast (carried through unchanged)")
	runCmd.Flags().Float64Var(&gamma, "gamma", 1.0, "Display gamma (carried through unchanged)")
	runCmd.Flags().BoolVar(&invert, "invert", false, "Display inversion (carried through unchanged)")

	// evaluation configuration
	for _, c := range []*cobra.Command{runCmd, scanCmd} {
		c.Flags().IntVar(&resolution, "resolution", 96, "Grid edge length for evaluation runs")
		c.Flags().IntVar(&totalIterations, "iterations", 400, "Single steps per evaluation run")
		c.Flags().IntVar(&sampleInterval, "sample-interval", 40, "Steps between metric samples")
		c.Flags().StringVar(&modelPath, "special-model", "", "Path to a trained special-likelihood model JSON (compiled-in default if empty)")
	}

	// scan configuration
	scanCmd.Flags().IntVar(&targetVisible, "target-visible", 50, "Visible-queue size that finishes a scan")
	scanCmd.Flags().IntVar(&batchSize, "batch-size", 6, "Candidates evaluated per batch")
	scanCmd.Flags().IntVar(&maxBatches, "max-batches", 12, "Batch ceiling per scan request")
	scanCmd.Flags().Float64Var(&visibleThreshold, "visible-threshold", 0.45, "Minimum blended score for the visibility filter")
	scanCmd.Flags().BoolVar(&noAutoTag, "no-auto-tag", false, "Disable threshold auto-tagging of candidates")
	scanCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none, decisions)")
	scanCmd.Flags().StringVar(&tuningPath, "tuning", "", "Scan tuning YAML file overriding the defaults")
	scanCmd.Flags().StringVar(&exportPath, "export-feedback", "", "Write the feedback store to this JSON file after scanning")

	// heatmap configuration
	heatmapCmd.Flags().StringVar(&feedbackPath, "feedback", "", "Exported feedback JSON file to aggregate")
	heatmapCmd.Flags().StringVar(&axisXSpec, "axis-x", "feed:0:0.12:24", "X axis as key:min:max:bins")
	heatmapCmd.Flags().StringVar(&axisYSpec, "axis-y", "kill:0:0.08:24", "Y axis as key:min:max:bins")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(heatmapCmd)
}
