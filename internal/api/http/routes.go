package httpapi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-forecast-api/internal/common"
	"github.com/i474232898/weather-forecast-api/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. Timestamps
// without an offset are read in loc.
func RegisterRoutes(app *fiber.App, service *weather.Service, loc *time.Location) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"message": "API is running",
		})
	})

	app.Get("/forecasts", func(c *fiber.Ctx) error {
		var req forecastsQuery
		now, then, err := req.bind(c, loc)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}

		pf, err := service.GetForecasts(now, then)
		if err != nil {
			return queryError(err)
		}
		return c.JSON(pf)
	})

	app.Get("/tomorrow", func(c *fiber.Ctx) error {
		var req tomorrowQuery
		now, err := req.bind(c, loc)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}

		dc, err := service.GetTomorrow(now)
		if err != nil {
			return queryError(err)
		}
		return c.JSON(dc)
	})
}

// RegisterMetrics exposes the Prometheus registry at /metrics.
func RegisterMetrics(app *fiber.App, g prometheus.Gatherer) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
}

func queryError(err error) error {
	if errors.Is(err, weather.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}

// forecastsQuery holds query parameters for the forecasts endpoint.
type forecastsQuery struct {
	Now  string `query:"now" validate:"required"`
	Then string `query:"then" validate:"required"`
}

func (q *forecastsQuery) bind(c *fiber.Ctx, loc *time.Location) (now, then time.Time, err error) {
	if err = bindQuery(c, q); err != nil {
		return
	}
	if now, err = parseTime("now", q.Now, loc); err != nil {
		return
	}
	then, err = parseTime("then", q.Then, loc)
	return
}

// tomorrowQuery holds query parameters for the tomorrow endpoint.
type tomorrowQuery struct {
	Now string `query:"now" validate:"required"`
}

func (q *tomorrowQuery) bind(c *fiber.Ctx, loc *time.Location) (time.Time, error) {
	if err := bindQuery(c, q); err != nil {
		return time.Time{}, err
	}
	return parseTime("now", q.Now, loc)
}

func bindQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return err
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("query parameter %q is %s", strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return err
	}
	return nil
}

func parseTime(field, value string, loc *time.Location) (time.Time, error) {
	ts, err := common.ParseQueryTime(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("query parameter %q: %w", field, err)
	}
	return ts, nil
}
