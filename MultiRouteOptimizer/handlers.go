package MultiRouteOptimizer

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Public error strings. Details stay in the logs.
const (
	msgRoutingFailed = "OSRM Failed"
	msgSolverFailed  = "Solver failed"
	msgSolverTimeout = "Solver timed out"
)

// OptimizeHandler serves POST /api/optimize
func OptimizeHandler(optimizer *Optimizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Parse request
		var req OptimizeRequest
		if err := c.BodyParser(&req); err != nil {
			return toHTTPError(&ValidationError{Message: "Invalid request body: " + err.Error()})
		}

		route, err := optimizer.Optimize(c.UserContext(), req)
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(OptimizeResponse{
			Path:     route.Path,
			Distance: route.Distance,
			Matrix:   route.Matrix,
			Legs:     AccumulatePath(route.Path, route.Matrix, route.TotalMeters),
		})
	}
}

// toHTTPError maps the pipeline's error taxonomy onto status codes and short messages.
func toHTTPError(err error) error {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return fiber.NewError(fiber.StatusBadRequest, validationErr.Message)
	case errors.As(err, new(*RoutingServiceError)):
		return fiber.NewError(fiber.StatusInternalServerError, msgRoutingFailed)
	case errors.As(err, new(*TimeoutError)):
		return fiber.NewError(fiber.StatusGatewayTimeout, msgSolverTimeout)
	case errors.As(err, new(*SolverExecutionError)):
		return fiber.NewError(fiber.StatusInternalServerError, msgSolverFailed)
	default:
		return err
	}
}
