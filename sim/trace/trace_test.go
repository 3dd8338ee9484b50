package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidTraceLevel(t *testing.T) {
	assert.True(t, IsValidTraceLevel("none"))
	assert.True(t, IsValidTraceLevel("events"))
	assert.True(t, IsValidTraceLevel(""))
	assert.False(t, IsValidTraceLevel("decisions"))
}

func TestSimulationTrace_Record_AppendsInOrder(t *testing.T) {
	// GIVEN a trace recording events
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})

	// WHEN multiple records are added
	st.Record(Record{Clock: 10, Kind: KindArrival, Clinic: "clinic 0", Subject: "Customer 0"})
	st.Record(Record{Clock: 12, Kind: KindPurchase, Clinic: "clinic 0", Subject: "Customer 0", Amount: 2, Elapsed: 2})

	// THEN insertion order is preserved
	require.Len(t, st.Records, 2)
	assert.Equal(t, KindArrival, st.Records[0].Kind)
	assert.Equal(t, KindPurchase, st.Records[1].Kind)
}

func TestSimulationTrace_Disabled_DropsRecords(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelNone})
	st.Record(Record{Kind: KindArrival})
	assert.Empty(t, st.Records)
	assert.False(t, st.Enabled())

	var nilTrace *SimulationTrace
	assert.NotPanics(t, func() { nilTrace.Record(Record{Kind: KindArrival}) })
	assert.False(t, nilTrace.Enabled())
}

func TestRecord_String_Wording(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{
			name:   "arrival",
			record: Record{Clock: 12, Kind: KindArrival, Clinic: "clinic 1", Subject: "Customer 4"},
			want:   "[    12.0] Customer 4 arriving at clinic 1",
		},
		{
			name:   "purchase",
			record: Record{Clock: 20.5, Kind: KindPurchase, Clinic: "clinic 1", Subject: "Customer 4", Amount: 7, Elapsed: 8.5},
			want:   "[    20.5] Customer 4 got 7 units of medication at clinic 1 in 8.5 seconds",
		},
		{
			name:   "dispatch",
			record: Record{Clock: 500, Kind: KindDispatch, Clinic: "clinic 0", Subject: "Clinic control", Amount: 9},
			want:   "[   500.0] Calling delivery truck for clinic 0 (level 9.0)",
		},
		{
			name:   "traffic",
			record: Record{Clock: 500, Kind: KindRoadDelay, Clinic: "clinic 0", Subject: "Delivery truck", Condition: ConditionTraffic},
			want:   "[   500.0] Delivery truck for clinic 0 stuck in a lot of traffic, delivery will take time",
		},
		{
			name:   "reroute",
			record: Record{Clock: 500, Kind: KindRoadDelay, Clinic: "clinic 0", Subject: "Delivery truck", Condition: ConditionReroute},
			want:   "[   500.0] Road conditions not optimal for clinic 0, delivery will take time",
		},
		{
			name:   "truck arrival",
			record: Record{Clock: 650, Kind: KindTruckArrival, Clinic: "clinic 0", Subject: "Delivery truck"},
			want:   "[   650.0] Delivery truck arriving at clinic 0",
		},
		{
			name:   "restock",
			record: Record{Clock: 650, Kind: KindRestock, Clinic: "clinic 0", Subject: "Delivery truck", Amount: 91},
			want:   "[   650.0] Delivery truck restocking 91.0 boxes of medication at clinic 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.String())
		})
	}
}

func TestSimulationTrace_WriteTo_OneLinePerRecord(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents})
	st.Record(Record{Clock: 1, Kind: KindArrival, Clinic: "clinic 0", Subject: "Customer 0"})
	st.Record(Record{Clock: 2, Kind: KindArrival, Clinic: "clinic 1", Subject: "Customer 0"})

	var buf bytes.Buffer
	n, err := st.WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"[     1.0] Customer 0 arriving at clinic 0",
		"[     2.0] Customer 0 arriving at clinic 1",
	}, lines)
}
