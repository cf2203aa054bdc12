package patient

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinrec/clinrec/internal/domain/record"
)

// RecordLister supplies a patient's visit history for the detail view.
// Satisfied by the record service.
type RecordLister interface {
	ListByPatient(ctx context.Context, patientID int64) ([]*record.Record, error)
}

type Handler struct {
	svc     *Service
	records RecordLister
}

func NewHandler(svc *Service, records RecordLister) *Handler {
	return &Handler{svc: svc, records: records}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.ListPatients)
	e.GET("/patient/:id", h.GetPatient)
	e.POST("/new_patient", h.CreatePatient)
}

func (h *Handler) ListPatients(c echo.Context) error {
	patients, err := h.svc.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return c.JSON(http.StatusOK, echo.Map{"patients": patients})
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
	}

	ctx := c.Request().Context()
	p, err := h.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	records, err := h.records.ListByPatient(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	if records == nil {
		records = []*record.Record{}
	}
	return c.JSON(http.StatusOK, echo.Map{"patient": p, "records": records})
}

func (h *Handler) CreatePatient(c echo.Context) error {
	res, err := h.svc.Create(c.Request().Context(), c.FormValue("name"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	if res.Skipped != "" {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "skipped": res.Skipped})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
