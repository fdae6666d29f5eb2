package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterPipelineMetrics_Idempotent(t *testing.T) {
	RegisterPipelineMetrics()
	RegisterPipelineMetrics()

	DocumentFetchTotal.WithLabelValues("ok").Inc()
	if got := testutil.ToFloat64(DocumentFetchTotal.WithLabelValues("ok")); got < 1 {
		t.Errorf("expected document_fetch_total{ok} >= 1, got %f", got)
	}
}
