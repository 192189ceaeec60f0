// Package main provides seedctl, which generates and inspects the demo
// dataset a CropCura session starts from. Equal --seed and --now values
// reproduce the dataset a server started with SEED_VALUE would serve.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cropcura/internal/config"
	"cropcura/internal/seed"
	"cropcura/internal/types"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	seed   uint64
	now    string
	format string
	out    string
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "seedctl",
		Short:         "Generate and inspect the CropCura demo dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().Uint64Var(&opts.seed, "seed", 1, "Generator seed (matches SEED_VALUE)")
	cmd.PersistentFlags().StringVar(&opts.now, "now", "", "Reference time as RFC 3339 (default: current time)")
	cmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "json", "Output format (json, yaml)")

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write the full dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := opts.dataset()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if opts.out != "" {
				f, err := os.Create(opts.out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", opts.out, err)
				}
				defer f.Close()
				w = f
			}
			return encode(w, opts.format, ds)
		},
	}
	generate.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default: stdout)")

	inspect := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := opts.dataset()
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), opts.format, summarize(ds))
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			b := config.NewBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "seedctl version %s (commit: %s, build: %s)\n", b.Version, b.Commit, b.BuildTime)
		},
	}

	cmd.AddCommand(generate, inspect, version)
	return cmd
}

func (o *options) dataset() (seed.Dataset, error) {
	if o.format != "json" && o.format != "yaml" {
		return seed.Dataset{}, fmt.Errorf("unsupported format %q (want json or yaml)", o.format)
	}
	var clock types.Clock = types.RealClock{}
	if o.now != "" {
		t, err := time.Parse(time.RFC3339, o.now)
		if err != nil {
			return seed.Dataset{}, fmt.Errorf("parsing --now: %w", err)
		}
		clock = types.FixedClock{T: t}
	}
	return seed.Generate(seed.Options{Seed: o.seed, Clock: clock}), nil
}

func encode(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Summary counts the dataset by category.
type Summary struct {
	Farmers      int            `json:"farmers" yaml:"farmers"`
	Risk         map[string]int `json:"risk" yaml:"risk"`
	Loans        int            `json:"loans" yaml:"loans"`
	LoanStatus   map[string]int `json:"loanStatus" yaml:"loanStatus"`
	Alerts       int            `json:"alerts" yaml:"alerts"`
	AlertType    map[string]int `json:"alertType" yaml:"alertType"`
	Fields       int            `json:"fields" yaml:"fields"`
	FarmerFields int            `json:"farmerFields" yaml:"farmerFields"`
	Scans        int            `json:"scans" yaml:"scans"`
	ScoreRange   [2]int         `json:"scoreRange" yaml:"scoreRange,flow"`
	TopFarmers   []string       `json:"topFarmers" yaml:"topFarmers"`
}

func summarize(ds seed.Dataset) Summary {
	s := Summary{
		Farmers:    len(ds.Farmers),
		Risk:       map[string]int{},
		Loans:      len(ds.Loans),
		LoanStatus: map[string]int{},
		Alerts:     len(ds.Alerts),
		AlertType:  map[string]int{},
		Fields:     len(ds.Fields),
		Scans:      len(ds.Scans),
		ScoreRange: [2]int{types.MaxScore, types.MinScore},
	}
	for _, f := range ds.Farmers {
		s.Risk[string(f.RiskLevel)]++
		s.ScoreRange[0] = min(s.ScoreRange[0], f.CropCuraScore)
		s.ScoreRange[1] = max(s.ScoreRange[1], f.CropCuraScore)
	}
	for _, l := range ds.Loans {
		s.LoanStatus[string(l.Status)]++
	}
	for _, a := range ds.Alerts {
		s.AlertType[string(a.Type)]++
	}
	for _, fs := range ds.FarmerFields {
		s.FarmerFields += len(fs)
	}

	top := append([]types.Farmer(nil), ds.Farmers...)
	slices.SortStableFunc(top, func(a, b types.Farmer) int { return b.CropCuraScore - a.CropCuraScore })
	for _, f := range top[:min(3, len(top))] {
		s.TopFarmers = append(s.TopFarmers, fmt.Sprintf("%s %s (%d)", f.ID, f.Name, f.CropCuraScore))
	}
	return s
}
