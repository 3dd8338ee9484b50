package clinic

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Range is an inclusive integer interval sampled uniformly.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

func (r Range) validate(field string, lowest int) error {
	if r.Min < lowest {
		return fmt.Errorf("%s: min %d must be >= %d", field, r.Min, lowest)
	}
	if r.Max < r.Min {
		return fmt.Errorf("%s: max %d must be >= min %d", field, r.Max, r.Min)
	}
	return nil
}

// DeliveryConfig holds the transit delay range of each road condition.
type DeliveryConfig struct {
	Normal  Range `yaml:"normal"`
	Traffic Range `yaml:"traffic"`
	Reroute Range `yaml:"reroute"`
}

// Config describes one clinic network scenario. It is consumed when the
// network is built and never modified afterwards.
type Config struct {
	Clinics          int            `yaml:"clinics"`
	Capacity         float64        `yaml:"capacity"`          // medication units per clinic
	InitialLevel     float64        `yaml:"initial_level"`     // stock at time zero
	ThresholdPercent float64        `yaml:"threshold_percent"` // restock when level < threshold% of capacity
	CounterCapacity  int            `yaml:"counter_capacity"`  // slots of the shared service counter
	PurchaseAmount   Range          `yaml:"purchase_amount"`   // units per customer
	PurchaseRate     float64        `yaml:"purchase_rate"`     // units bought per second
	InterArrival     Range          `yaml:"inter_arrival"`     // seconds between customers, per clinic
	Delivery         DeliveryConfig `yaml:"delivery"`          // seconds from dispatch to arrival
	Inspection       string         `yaml:"inspection"`        // cron spec evaluated in virtual time
	Horizon          float64        `yaml:"horizon"`           // seconds of virtual time to simulate
	Seed             *int64         `yaml:"seed,omitempty"`    // nil = pick one at startup
}

// DefaultConfig returns the reference scenario: five clinics sharing one
// counter, 100 units each, restocked below 10%.
func DefaultConfig() Config {
	return Config{
		Clinics:          5,
		Capacity:         100,
		InitialLevel:     100,
		ThresholdPercent: 10,
		CounterCapacity:  1,
		PurchaseAmount:   Range{Min: 1, Max: 10},
		PurchaseRate:     1,
		InterArrival:     Range{Min: 10, Max: 300},
		Delivery: DeliveryConfig{
			Normal:  Range{Min: 100, Max: 200},
			Traffic: Range{Min: 400, Max: 600},
			Reroute: Range{Min: 200, Max: 400},
		},
		Inspection: "@every 500s",
		Horizon:    1000,
	}
}

// Threshold returns the absolute stock level below which a truck is called.
func (c Config) Threshold() float64 {
	return c.ThresholdPercent / 100 * c.Capacity
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Clinics < 1 {
		errs = append(errs, fmt.Errorf("clinics: %d must be >= 1", c.Clinics))
	}
	if !(c.Capacity > 0) {
		errs = append(errs, fmt.Errorf("capacity: %v must be > 0", c.Capacity))
	}
	if !(c.InitialLevel >= 0) || c.InitialLevel > c.Capacity {
		errs = append(errs, fmt.Errorf("initial_level: %v must be within [0, %v]", c.InitialLevel, c.Capacity))
	}
	if !(c.ThresholdPercent >= 0) || c.ThresholdPercent > 100 {
		errs = append(errs, fmt.Errorf("threshold_percent: %v must be within [0, 100]", c.ThresholdPercent))
	}
	if c.CounterCapacity < 1 {
		errs = append(errs, fmt.Errorf("counter_capacity: %d must be >= 1", c.CounterCapacity))
	}
	if err := c.PurchaseAmount.validate("purchase_amount", 1); err != nil {
		errs = append(errs, err)
	} else if float64(c.PurchaseAmount.Max) > c.Capacity {
		errs = append(errs, fmt.Errorf("purchase_amount: max %d exceeds capacity %v", c.PurchaseAmount.Max, c.Capacity))
	}
	if !(c.PurchaseRate > 0) {
		errs = append(errs, fmt.Errorf("purchase_rate: %v must be > 0", c.PurchaseRate))
	}
	if err := c.InterArrival.validate("inter_arrival", 0); err != nil {
		errs = append(errs, err)
	} else if c.InterArrival.Max < 1 {
		errs = append(errs, fmt.Errorf("inter_arrival: max %d must be >= 1", c.InterArrival.Max))
	}
	if err := c.Delivery.Normal.validate("delivery.normal", 0); err != nil {
		errs = append(errs, err)
	}
	if err := c.Delivery.Traffic.validate("delivery.traffic", 0); err != nil {
		errs = append(errs, err)
	}
	if err := c.Delivery.Reroute.validate("delivery.reroute", 0); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseInspection(c.Inspection); err != nil {
		errs = append(errs, fmt.Errorf("inspection: %w", err))
	}
	if !(c.Horizon >= 0) {
		errs = append(errs, fmt.Errorf("horizon: %v must be >= 0", c.Horizon))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML scenario file on top of DefaultConfig. Fields
// absent from the file keep their default values; unknown fields are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading scenario config: %w", err)
	}
	if err := DecodeConfig(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing scenario config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig decodes YAML into cfg with strict field checking.
func DecodeConfig(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
