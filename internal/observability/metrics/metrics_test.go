package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestObserveBeforeInitIsNoop(t *testing.T) {
	if simulationTotal != nil {
		t.Skip("metrics already registered")
	}
	ObserveSimulation("electricity", ResultSuccess, time.Millisecond)
	IncCatalogCache(true)
	IncLead("")
}

func TestObserveSimulationCounts(t *testing.T) {
	Init(nil, nil)
	before := counterValue(t, simulationTotal.WithLabelValues("dual", ResultEmpty))
	ObserveSimulation("dual", ResultEmpty, 5*time.Millisecond)
	after := counterValue(t, simulationTotal.WithLabelValues("dual", ResultEmpty))
	if after-before != 1 {
		t.Fatalf("expected counter to increase by 1, got %v", after-before)
	}

	hitsBefore := counterValue(t, catalogCacheTotal.WithLabelValues(cacheHit))
	IncCatalogCache(true)
	if got := counterValue(t, catalogCacheTotal.WithLabelValues(cacheHit)); got-hitsBefore != 1 {
		t.Fatalf("expected cache hit counter to increase by 1, got %v", got-hitsBefore)
	}
}
