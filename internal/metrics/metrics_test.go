package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fleet-scheduling/internal/model"
	"github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

func TestCounters(t *testing.T) {
	c := New()
	c.Rejected("flight", scheduling.KindOverlapConflict)
	c.Rejected("flight", scheduling.KindOverlapConflict)
	c.Mutated("maintenance", model.AuditCreated)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.rejected.WithLabelValues("flight", string(scheduling.KindOverlapConflict))))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.mutations.WithLabelValues("maintenance", "CREATED")))
}

func TestHandlerServesFleetCounters(t *testing.T) {
	c := New()
	c.Mutated("flight", model.AuditDeleted)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `fleet_schedule_mutations_total{action="DELETED",entity="flight"} 1`)
}
