package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Logger logs every request through logrus with method, route, status
// and duration fields.
func Logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			entry := logrus.WithFields(logrus.Fields{
				"method":    c.Request().Method,
				"path":      c.Request().URL.Path,
				"status":    c.Response().Status,
				"duration":  time.Since(start),
				"client_ip": c.RealIP(),
			})

			if c.Response().Status >= 500 {
				entry.Error("request failed")
			} else {
				entry.Info("request processed")
			}
			return nil
		}
	}
}
