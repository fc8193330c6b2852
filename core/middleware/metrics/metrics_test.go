package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	b := NewBuilder("upload_agent", "http", "requests", "HTTP requests")
	b.InstanceID = "test"

	app := fiber.New()
	app.Use(b.BuildActiveRequest(), b.BuildResponseTime())
	app.Get("/metrics", b.Handler())
	app.Get("/objects/:bucket", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadGateway, "down")
	})

	for _, path := range []string{"/objects/photos", "/objects/docs", "/fail"} {
		_, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, `upload_agent_http_requests_resp_time_count{instance_id="test",method="GET",pattern="/objects/:bucket",status="200"} 2`)
	assert.Contains(t, text, `pattern="/fail",status="502"`)
	assert.Contains(t, text, "upload_agent_http_requests_active_req")
}
