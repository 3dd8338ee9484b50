package trace

import (
	"fmt"
	"io"
)

// Road condition names carried in KindRoadDelay records.
const (
	ConditionNormal  = "normal"
	ConditionTraffic = "traffic"
	ConditionReroute = "reroute"
)

// String renders the record as one trace line, prefixed with its virtual
// timestamp.
func (r Record) String() string {
	return fmt.Sprintf("[%8.1f] %s", r.Clock, r.message())
}

func (r Record) message() string {
	switch r.Kind {
	case KindArrival:
		return fmt.Sprintf("%s arriving at %s", r.Subject, r.Clinic)
	case KindPurchase:
		return fmt.Sprintf("%s got %.0f units of medication at %s in %.1f seconds", r.Subject, r.Amount, r.Clinic, r.Elapsed)
	case KindDispatch:
		return fmt.Sprintf("Calling delivery truck for %s (level %.1f)", r.Clinic, r.Amount)
	case KindRoadDelay:
		switch r.Condition {
		case ConditionTraffic:
			return fmt.Sprintf("%s for %s stuck in a lot of traffic, delivery will take time", r.Subject, r.Clinic)
		case ConditionReroute:
			return fmt.Sprintf("Road conditions not optimal for %s, delivery will take time", r.Clinic)
		default:
			return fmt.Sprintf("%s for %s delayed (%s)", r.Subject, r.Clinic, r.Condition)
		}
	case KindTruckArrival:
		return fmt.Sprintf("%s arriving at %s", r.Subject, r.Clinic)
	case KindRestock:
		return fmt.Sprintf("%s restocking %.1f boxes of medication at %s", r.Subject, r.Amount, r.Clinic)
	default:
		return fmt.Sprintf("%s %s at %s", r.Subject, r.Kind, r.Clinic)
	}
}

// WriteTo writes one line per record, in recording order.
func (st *SimulationTrace) WriteTo(w io.Writer) (int64, error) {
	var total int64
	if st == nil {
		return 0, nil
	}
	for _, r := range st.Records {
		n, err := fmt.Fprintln(w, r.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
