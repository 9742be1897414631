package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mkiyohara/weatherboard/internal/narrative"
	"github.com/mkiyohara/weatherboard/internal/store"
	"github.com/mkiyohara/weatherboard/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, cache *store.SummaryCache, summarizer *narrative.Client) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/day", func(c *fiber.Ctx) error {
		q, err := parseDayQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		readings, err := service.GetDay(c.Context(), q.Date)
		if err != nil {
			return dayFetchError(err)
		}

		return c.JSON(fiber.Map{
			"date":     q.Date,
			"readings": readings,
		})
	})

	v1.Get("/weather/range", func(c *fiber.Ctx) error {
		var req rangeQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		summaries, err := service.GetRange(c.Context(), req.From, req.To, req.order())
		if err != nil {
			if errors.Is(err, weather.ErrInvalidRange) {
				return fiber.NewError(fiber.StatusBadRequest, "from date must not be after to date")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to aggregate range")
		}

		return c.JSON(fiber.Map{
			"from":      req.From,
			"to":        req.To,
			"summaries": summaries,
		})
	})

	v1.Get("/weather/latest", func(c *fiber.Ctx) error {
		summary, err := cache.Latest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no summary available yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read summary cache")
		}
		return c.JSON(summary)
	})

	v1.Get("/weather/day/narrative", func(c *fiber.Ctx) error {
		q, err := parseDayQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if summarizer == nil || !summarizer.Enabled() {
			return fiber.NewError(fiber.StatusServiceUnavailable, "narrative summaries are not configured")
		}

		readings, err := service.GetDay(c.Context(), q.Date)
		if err != nil {
			return dayFetchError(err)
		}
		if len(readings) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "no readings for requested date")
		}

		temps, hums, pressures := metricArrays(readings)

		text, err := summarizer.Summarize(c.Context(), q.Date, temps, hums, pressures)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "failed to generate narrative summary")
		}

		return c.JSON(fiber.Map{
			"date":    q.Date,
			"summary": text,
		})
	})
}

func dayFetchError(err error) error {
	if errors.Is(err, store.ErrPermissionDenied) {
		return fiber.NewError(fiber.StatusForbidden,
			"access to the reading store was denied; check the store token and bucket permissions")
	}
	return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather readings")
}

// metricArrays collects the defined values of each metric, in reading order,
// for the summarizer.
func metricArrays(readings []weather.Reading) (temps, hums, pressures []float64) {
	for _, r := range readings {
		if r.Temperature != nil {
			temps = append(temps, *r.Temperature)
		}
		if r.Humidity != nil {
			hums = append(hums, *r.Humidity)
		}
		if r.Pressure != nil {
			pressures = append(pressures, *r.Pressure)
		}
	}
	return temps, hums, pressures
}

// dayQuery holds query parameters for single-day endpoints.
type dayQuery struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

func parseDayQuery(c *fiber.Ctx) (dayQuery, error) {
	q := dayQuery{Date: c.Query("date")}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// rangeQuery holds query parameters for the range endpoint.
type rangeQuery struct {
	From  string `validate:"required,datetime=2006-01-02"`
	To    string `validate:"required,datetime=2006-01-02"`
	Order string `validate:"omitempty,oneof=asc desc"`
}

func (r *rangeQuery) bind(c *fiber.Ctx) error {
	r.From = c.Query("from")
	r.To = c.Query("to")
	r.Order = c.Query("order")
	return validate.Struct(r)
}

func (r *rangeQuery) order() weather.Order {
	if r.Order == string(weather.OrderDesc) {
		return weather.OrderDesc
	}
	return weather.OrderAsc
}
