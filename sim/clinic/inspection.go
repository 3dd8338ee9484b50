package clinic

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/samabhi/MEDnetworksimulation/sim"
)

// virtualEpoch anchors virtual time zero for cron evaluation.
var virtualEpoch = time.Unix(0, 0).UTC()

var inspectionParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// InspectionSchedule tells a clinic control process when to look at its
// stock next. It accepts cron descriptors ("@every 500s", "@hourly") and
// 5-field cron expressions, evaluated on the virtual clock with time zero at
// the Unix epoch (UTC). Resolution is one virtual second.
type InspectionSchedule struct {
	spec     string
	schedule cron.Schedule
}

// ParseInspection parses a cron spec.
func ParseInspection(spec string) (*InspectionSchedule, error) {
	if spec == "" {
		return nil, fmt.Errorf("empty inspection schedule")
	}
	schedule, err := inspectionParser.Parse(spec)
	if err != nil {
		return nil, err
	}
	// cron gives up after five years without a match and returns zero.
	if schedule.Next(virtualEpoch).IsZero() {
		return nil, fmt.Errorf("inspection schedule %q never fires", spec)
	}
	return &InspectionSchedule{spec: spec, schedule: schedule}, nil
}

// Next returns the first inspection time strictly after now.
func (s *InspectionSchedule) Next(now sim.VTime) sim.VTime {
	t := virtualEpoch.Add(time.Duration(float64(now) * float64(time.Second)))
	next := s.schedule.Next(t)
	return sim.VTime(next.Sub(virtualEpoch).Seconds())
}

func (s *InspectionSchedule) String() string {
	return s.spec
}
