package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/samabhi/MEDnetworksimulation/sim/clinic"
)

// resolveConfig builds the scenario config: defaults, then the --config
// file, then every flag the user set explicitly. Flags left at their default
// never overwrite a value from the file.
func resolveConfig(cmd *cobra.Command) (clinic.Config, error) {
	cfg := clinic.DefaultConfig()
	if configPath != "" {
		loaded, err := clinic.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
		logrus.Infof("Loaded scenario config from %s", configPath)
	}
	if err := applyFlagOverrides(cmd, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid scenario config: %w", err)
	}
	return cfg, nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *clinic.Config) error {
	flags := cmd.Flags()
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("clinics") {
		cfg.Clinics = numClinics
	}
	if flags.Changed("capacity") {
		cfg.Capacity = capacity
		// A bigger clinic starts full unless told otherwise.
		if !flags.Changed("initial-level") && configPath == "" {
			cfg.InitialLevel = capacity
		}
	}
	if flags.Changed("initial-level") {
		cfg.InitialLevel = initialLevel
	}
	if flags.Changed("threshold") {
		cfg.ThresholdPercent = thresholdPercent
	}
	if flags.Changed("counter-capacity") {
		cfg.CounterCapacity = counterCapacity
	}
	if flags.Changed("purchase-rate") {
		cfg.PurchaseRate = purchaseRate
	}
	if flags.Changed("inspection") {
		cfg.Inspection = inspection
	}

	ranges := []struct {
		flag  string
		value []int
		dst   *clinic.Range
	}{
		{"purchase-amount", purchaseAmount, &cfg.PurchaseAmount},
		{"inter-arrival", interArrival, &cfg.InterArrival},
		{"delivery-normal", deliveryNormal, &cfg.Delivery.Normal},
		{"delivery-traffic", deliveryTraffic, &cfg.Delivery.Traffic},
		{"delivery-reroute", deliveryReroute, &cfg.Delivery.Reroute},
	}
	for _, r := range ranges {
		if !flags.Changed(r.flag) {
			continue
		}
		parsed, err := parseRange(r.flag, r.value)
		if err != nil {
			return err
		}
		*r.dst = parsed
	}
	return nil
}

// parseRange turns a "min,max" flag into a Range. A single value is a
// degenerate range.
func parseRange(flag string, values []int) (clinic.Range, error) {
	switch len(values) {
	case 1:
		return clinic.Range{Min: values[0], Max: values[0]}, nil
	case 2:
		return clinic.Range{Min: values[0], Max: values[1]}, nil
	default:
		return clinic.Range{}, fmt.Errorf("--%s expects min,max, got %d values", flag, len(values))
	}
}

func rangeFlag(r clinic.Range) []int {
	return []int{r.Min, r.Max}
}
