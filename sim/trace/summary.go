package trace

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ClinicSummary aggregates the records of one clinic.
type ClinicSummary struct {
	Arrivals       int
	Served         int
	Deliveries     int
	UnitsSold      float64
	UnitsRestocked float64
}

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalRecords   int
	Arrivals       int
	Served         int
	Deliveries     int
	UnitsSold      float64
	UnitsRestocked float64

	// Customer time from arrival to completed purchase, in seconds.
	MeanWait   float64
	StdDevWait float64 // 0 with fewer than two purchases
	P50Wait    float64
	P90Wait    float64
	MaxWait    float64

	RoadDelays map[string]int            // road condition → count of delayed trucks
	PerClinic  map[string]*ClinicSummary // clinic name → summary
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		RoadDelays: make(map[string]int),
		PerClinic:  make(map[string]*ClinicSummary),
	}
	if st == nil {
		return summary
	}

	summary.TotalRecords = len(st.Records)
	waits := make([]float64, 0)
	for _, r := range st.Records {
		cs := summary.clinic(r.Clinic)
		switch r.Kind {
		case KindArrival:
			summary.Arrivals++
			cs.Arrivals++
		case KindPurchase:
			summary.Served++
			summary.UnitsSold += r.Amount
			cs.Served++
			cs.UnitsSold += r.Amount
			waits = append(waits, r.Elapsed)
		case KindDispatch:
			summary.Deliveries++
			cs.Deliveries++
		case KindRoadDelay:
			summary.RoadDelays[r.Condition]++
		case KindRestock:
			summary.UnitsRestocked += r.Amount
			cs.UnitsRestocked += r.Amount
		}
	}

	if len(waits) > 0 {
		sort.Float64s(waits)
		summary.MeanWait = stat.Mean(waits, nil)
		summary.P50Wait = stat.Quantile(0.5, stat.Empirical, waits, nil)
		summary.P90Wait = stat.Quantile(0.9, stat.Empirical, waits, nil)
		summary.MaxWait = floats.Max(waits)
	}
	if len(waits) > 1 {
		summary.StdDevWait = stat.StdDev(waits, nil)
	}

	return summary
}

func (s *TraceSummary) clinic(name string) *ClinicSummary {
	cs, ok := s.PerClinic[name]
	if !ok {
		cs = &ClinicSummary{}
		s.PerClinic[name] = cs
	}
	return cs
}

// Print writes the summary as a human-readable block.
func (s *TraceSummary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Summary ===")
	fmt.Fprintf(w, "Customers Arrived    : %d\n", s.Arrivals)
	fmt.Fprintf(w, "Customers Served     : %d\n", s.Served)
	fmt.Fprintf(w, "Units Sold           : %.1f\n", s.UnitsSold)
	fmt.Fprintf(w, "Deliveries           : %d\n", s.Deliveries)
	fmt.Fprintf(w, "Units Restocked      : %.1f\n", s.UnitsRestocked)
	if s.Served > 0 {
		fmt.Fprintf(w, "Mean Wait            : %.1f s (stddev %.1f)\n", s.MeanWait, s.StdDevWait)
		fmt.Fprintf(w, "P50 / P90 / Max Wait : %.1f / %.1f / %.1f s\n", s.P50Wait, s.P90Wait, s.MaxWait)
	}

	names := make([]string, 0, len(s.PerClinic))
	for name := range s.PerClinic {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cs := s.PerClinic[name]
		fmt.Fprintf(w, "  %-10s arrived=%d served=%d sold=%.1f deliveries=%d restocked=%.1f\n",
			name, cs.Arrivals, cs.Served, cs.UnitsSold, cs.Deliveries, cs.UnitsRestocked)
	}
}
