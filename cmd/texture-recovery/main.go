package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"texture-recovery/internal/homomorphic"
	"texture-recovery/internal/logger"
	"texture-recovery/internal/pipeline"
)

const appVersion = "1.0.0"

func main() {
	var (
		inputPath = flag.String("input", "", "path to the input image (required)")
		outputDir = flag.String("output", "output", "directory for result images")
		mode      = flag.String("mode", "grayscale", "processing mode: 'grayscale' or 'color'")
		cutoff    = flag.Float64("cutoff", 30, "Butterworth cutoff frequency radius")
		order     = flag.Float64("order", 2, "Butterworth filter order")
		method    = flag.String("method", "chromaticity-preserved", "color method: 'independent', 'chromaticity-preserved', or 'gray-world'")
		gammaLow  = flag.Float64("gamma-low", 0.3, "gain on the illumination component (color mode)")
		gammaHigh = flag.Float64("gamma-high", 2.0, "gain on the reflectance component (color mode)")
		transform = flag.String("transform", "fast", "transform variant: 'fast' or 'direct'")
		logLevel  = flag.String("log-level", "info", "log level: debug, info, warn, or error")
	)
	flag.Parse()

	log := logger.NewConsoleLogger(parseLevel(*logLevel))

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "missing required -input flag")
		flag.Usage()
		os.Exit(2)
	}

	params, err := buildParams(*cutoff, *order, *method, *gammaLow, *gammaHigh, *transform)
	if err != nil {
		log.Error("main", err, nil)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Error("main", fmt.Errorf("failed to create output directory: %w", err), nil)
		os.Exit(1)
	}

	log.Info("main", "starting texture recovery", map[string]interface{}{
		"version":   appVersion,
		"input":     *inputPath,
		"output":    *outputDir,
		"mode":      *mode,
		"cutoff":    params.Cutoff,
		"order":     params.Order,
		"transform": params.Variant.String(),
	})

	coordinator := pipeline.NewCoordinator(log)

	switch *mode {
	case "grayscale":
		outcome, err := coordinator.RunGrayscale(*inputPath, *outputDir, params)
		if err != nil {
			log.Error("main", err, nil)
			os.Exit(1)
		}
		log.Info("main", "recovery complete", map[string]interface{}{
			"mse":          outcome.Metrics.MSE,
			"psnr_db":      outcome.Metrics.PSNR,
			"imag_residue": outcome.Result.Diagnostics.ImagResidue,
		})
	case "color":
		outputPath := filepath.Join(*outputDir, "corrected.png")
		outcome, err := coordinator.RunColor(*inputPath, outputPath, params)
		if err != nil {
			log.Error("main", err, nil)
			os.Exit(1)
		}
		log.Info("main", "correction complete", map[string]interface{}{
			"method":           params.Method.String(),
			"saturated_pixels": outcome.Result.Diagnostics.ClippedPixels,
			"output":           outputPath,
		})
	default:
		log.Error("main", fmt.Errorf("unknown mode %q, expected 'grayscale' or 'color'", *mode), nil)
		os.Exit(2)
	}
}

func buildParams(cutoff, order float64, method string, gammaLow, gammaHigh float64, transform string) (homomorphic.Params, error) {
	params := homomorphic.DefaultParams()
	params.Cutoff = cutoff
	params.Order = order
	params.GammaLow = gammaLow
	params.GammaHigh = gammaHigh

	parsedMethod, err := homomorphic.ParseMethod(method)
	if err != nil {
		return params, err
	}
	params.Method = parsedMethod

	parsedVariant, err := homomorphic.ParseVariant(transform)
	if err != nil {
		return params, err
	}
	params.Variant = parsedVariant

	return params, params.Validate()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
