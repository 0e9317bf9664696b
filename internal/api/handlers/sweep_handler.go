package handlers

import (
	"errors"
	"net/http"

	"auction-settlement/internal/domain"
	"auction-settlement/internal/services"
	"auction-settlement/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SweepHandler exposes manual settlement triggers next to the cron schedule.
type SweepHandler struct {
	settler services.Settler
	log     logger.Logger
}

type CloseResponse struct {
	Closed int `json:"closed"`
}

type PaymentsResponse struct {
	Generated int `json:"generated"`
}

func NewSweepHandler(settler services.Settler, log logger.Logger) *SweepHandler {
	return &SweepHandler{
		settler: settler,
		log:     log,
	}
}

func (h *SweepHandler) Register(g *echo.Group) {
	g.POST("/sweeps", h.RunSweep)
	g.POST("/sweeps/close", h.CloseExpired)
	g.POST("/sweeps/payments", h.GeneratePayments)
	g.GET("/sweeps/:id", h.GetSweep)
}

func (h *SweepHandler) RunSweep(c echo.Context) error {
	h.log.Info("RunSweep endpoint called", "remote_addr", c.RealIP())

	run, err := h.settler.RunOnce(c.Request().Context())
	if err != nil {
		h.log.Error("Settlement run failed", "error", err)
		if run == nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to start settlement run"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
			"run":   run,
		})
	}

	return c.JSON(http.StatusOK, run)
}

func (h *SweepHandler) CloseExpired(c echo.Context) error {
	h.log.Info("CloseExpired endpoint called", "remote_addr", c.RealIP())

	closed, err := h.settler.CloseExpired(c.Request().Context())
	if err != nil {
		h.log.Error("Closure sweep failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list open auctions"})
	}

	return c.JSON(http.StatusOK, CloseResponse{Closed: closed})
}

func (h *SweepHandler) GeneratePayments(c echo.Context) error {
	h.log.Info("GeneratePayments endpoint called", "remote_addr", c.RealIP())

	generated, err := h.settler.GeneratePayments(c.Request().Context())
	if err != nil {
		h.log.Error("Payment sweep failed", "error", err, "generated", generated)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":     err.Error(),
			"generated": generated,
		})
	}

	return c.JSON(http.StatusOK, PaymentsResponse{Generated: generated})
}

func (h *SweepHandler) GetSweep(c echo.Context) error {
	runID := c.Param("id")

	run, err := h.settler.GetRun(c.Request().Context(), runID)
	if errors.Is(err, domain.ErrSweepNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Sweep run not found"})
	}
	if err != nil {
		h.log.Error("Failed to load sweep run", "run_id", runID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load sweep run"})
	}

	return c.JSON(http.StatusOK, run)
}
