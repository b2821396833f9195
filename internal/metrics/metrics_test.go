package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOracleCall(t *testing.T) {
	ok := oracleRequests.WithLabelValues("test_op", "ok")
	failed := oracleRequests.WithLabelValues("test_op", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveOracleCall("test_op", nil, 120*time.Millisecond)
	ObserveOracleCall("test_op", errors.New("timeout"), time.Second)
	ObserveOracleCall("test_op", nil, 80*time.Millisecond)

	assert.Equal(t, okBefore+2, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestInterviewCompletedAndFallbacks(t *testing.T) {
	ready := interviewsCompleted.WithLabelValues("ready")
	before := testutil.ToFloat64(ready)
	InterviewCompleted("ready")
	assert.Equal(t, before+1, testutil.ToFloat64(ready))

	fallbacksBefore := testutil.ToFloat64(skillExtractionFallbacks)
	SkillExtractionFallback()
	assert.Equal(t, fallbacksBefore+1, testutil.ToFloat64(skillExtractionFallbacks))
}

func TestMiddleware_LabelsByRouteAndStatus(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware(func(error) int { return http.StatusConflict }))
	app.Get("/things/:id", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Post("/things/:id", func(c *fiber.Ctx) error { return errors.New("busy") })

	okCounter := httpRequests.WithLabelValues(http.MethodGet, "/things/:id", "200")
	conflictCounter := httpRequests.WithLabelValues(http.MethodPost, "/things/:id", "409")
	okBefore, conflictBefore := testutil.ToFloat64(okCounter), testutil.ToFloat64(conflictCounter)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/things/1", nil),
		httptest.NewRequest(http.MethodGet, "/things/2", nil),
		httptest.NewRequest(http.MethodPost, "/things/3", nil),
	} {
		_, err := app.Test(req)
		require.NoError(t, err)
	}

	assert.Equal(t, okBefore+2, testutil.ToFloat64(okCounter))
	assert.Equal(t, conflictBefore+1, testutil.ToFloat64(conflictCounter))
}

func TestHandlerExposesRegisteredMetrics(t *testing.T) {
	InterviewCompleted("not_ready")

	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "cvcoach_interviews_completed_total")
}
