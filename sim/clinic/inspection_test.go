package clinic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samabhi/MEDnetworksimulation/sim"
)

func TestInspectionSchedule_Every(t *testing.T) {
	s, err := ParseInspection("@every 500s")
	require.NoError(t, err)

	assert.Equal(t, sim.VTime(500), s.Next(0))
	assert.Equal(t, sim.VTime(1000), s.Next(500))
	// Sub-second clocks are truncated to the second before adding the period.
	assert.Equal(t, sim.VTime(623), s.Next(123.4))
	assert.Equal(t, "@every 500s", s.String())
}

func TestInspectionSchedule_CronExpression(t *testing.T) {
	// Every five minutes of the virtual day
	s, err := ParseInspection("*/5 * * * *")
	require.NoError(t, err)

	assert.Equal(t, sim.VTime(300), s.Next(0))
	assert.Equal(t, sim.VTime(600), s.Next(300))
	assert.Equal(t, sim.VTime(600), s.Next(301))
}

func TestInspectionSchedule_Hourly(t *testing.T) {
	s, err := ParseInspection("@hourly")
	require.NoError(t, err)
	assert.Equal(t, sim.VTime(3600), s.Next(10))
}

func TestParseInspection_Invalid(t *testing.T) {
	for _, spec := range []string{"", "bogus", "@every", "* * *", "0 0 30 2 *"} {
		_, err := ParseInspection(spec)
		assert.Error(t, err, "spec %q", spec)
	}
}

func TestInspectionSchedule_AlwaysAdvances(t *testing.T) {
	s, err := ParseInspection("@every 1s")
	require.NoError(t, err)
	for now := sim.VTime(0); now < 50; now += 0.25 {
		assert.Greater(t, s.Next(now), now)
	}
}
