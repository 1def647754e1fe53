package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/acadex/gradebook-api/internal/grading"
	"github.com/acadex/gradebook-api/internal/middleware"
	"github.com/acadex/gradebook-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func actorIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// sendGradingError maps grading validator sentinels to 400 responses. The
// budget sentinels carry the remaining allowance in their message, so it is
// passed through to the client verbatim.
func sendGradingError(c *fiber.Ctx, err error) (bool, error) {
	switch {
	case errors.Is(err, grading.ErrMissingField),
		errors.Is(err, grading.ErrInvalidPercentage),
		errors.Is(err, grading.ErrInvalidCorte),
		errors.Is(err, grading.ErrCorteBudgetExceeded),
		errors.Is(err, grading.ErrTotalBudgetExceeded):
		return true, utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	return false, nil
}
