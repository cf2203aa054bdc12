package record

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

// PatientDirectory answers existence checks against the patient registry.
// Satisfied by the patient service.
type PatientDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Handler struct {
	svc      *Service
	patients PatientDirectory
}

func NewHandler(svc *Service, patients PatientDirectory) *Handler {
	return &Handler{svc: svc, patients: patients}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/new_record/:patient_id", h.CreateRecord)
	e.POST("/edit_record/:record_id", h.UpdateRecord)
	e.POST("/delete_record/:record_id", h.DeleteRecord)
	e.POST("/upload_document/:record_id", h.UploadDocument)
	e.GET("/download_document/:record_id", h.DownloadDocument)
	e.GET("/export_csv/:patient_id", h.ExportCSV)
	e.POST("/import_csv/:patient_id", h.ImportCSV)
}

var formKeys = []string{"date", "complaint", "doctor", "investigation",
	"diagnosis", "medication", "notes", "follow_up"}

// fieldsFromForm requires every clinical field to be present in the form.
// Present-but-empty values are accepted; date validity is checked later.
func fieldsFromForm(form url.Values) (Fields, error) {
	for _, key := range formKeys {
		if !form.Has(key) {
			return Fields{}, &ValidationError{Field: key, Reason: "is required"}
		}
	}
	return Fields{
		Date:          form.Get("date"),
		Complaint:     form.Get("complaint"),
		Doctor:        form.Get("doctor"),
		Investigation: form.Get("investigation"),
		Diagnosis:     form.Get("diagnosis"),
		Medication:    form.Get("medication"),
		Notes:         form.Get("notes"),
		FollowUp:      form.Get("follow_up"),
	}, nil
}

func paramID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil
}

func (h *Handler) writeErr(c echo.Context, err error) error {
	var ve *ValidationError
	var re *RowError
	switch {
	case errors.Is(err, ErrDocumentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Document not found"})
	case errors.Is(err, ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	case errors.Is(err, ErrPatientNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
	case errors.As(err, &re), errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}

func (h *Handler) CreateRecord(c echo.Context) error {
	patientID, ok := paramID(c, "patient_id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
	}

	form, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed form body"})
	}
	fields, err := fieldsFromForm(form)
	if err != nil {
		return h.writeErr(c, err)
	}

	rec, err := h.svc.Create(c.Request().Context(), patientID, fields)
	if err != nil {
		return h.writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "id": rec.ID})
}

func (h *Handler) UpdateRecord(c echo.Context) error {
	recordID, ok := paramID(c, "record_id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	}

	form, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed form body"})
	}
	fields, err := fieldsFromForm(form)
	if err != nil {
		return h.writeErr(c, err)
	}

	if _, err := h.svc.Update(c.Request().Context(), recordID, fields); err != nil {
		return h.writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *Handler) DeleteRecord(c echo.Context) error {
	recordID, ok := paramID(c, "record_id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	}
	if err := h.svc.Delete(c.Request().Context(), recordID); err != nil {
		return h.writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *Handler) UploadDocument(c echo.Context) error {
	recordID, ok := paramID(c, "record_id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	}

	// A request without a document part is a no-op, not an error.
	var filename string
	var content io.Reader
	if fh, err := c.FormFile("document"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return h.writeErr(c, err)
		}
		defer f.Close()
		filename, content = fh.Filename, f
	}

	res, err := h.svc.AttachDocument(c.Request().Context(), recordID, filename, content)
	if err != nil {
		return h.writeErr(c, err)
	}
	if res.Skipped != "" {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "skipped": res.Skipped})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *Handler) DownloadDocument(c echo.Context) error {
	recordID, ok := paramID(c, "record_id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	}

	rc, name, err := h.svc.OpenDocument(c.Request().Context(), recordID)
	if err != nil {
		return h.writeErr(c, err)
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Stream(http.StatusOK, "application/octet-stream", rc)
}

func (h *Handler) ExportCSV(c echo.Context) error {
	patientID, ok := paramID(c, "patient_id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
	}

	ctx := c.Request().Context()
	exists, err := h.patients.Exists(ctx, patientID)
	if err != nil {
		return h.writeErr(c, err)
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
	}

	// Buffered so an export failure can still produce a JSON error body.
	var buf bytes.Buffer
	if err := h.svc.ExportCSV(ctx, patientID, &buf); err != nil {
		return h.writeErr(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="patient_%d_records.csv"`, patientID))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *Handler) ImportCSV(c echo.Context) error {
	patientID, ok := paramID(c, "patient_id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
	}

	fh, err := c.FormFile("csv_file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No file part"})
	}
	if fh.Filename == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No selected file"})
	}

	f, err := fh.Open()
	if err != nil {
		return h.writeErr(c, err)
	}
	defer f.Close()

	count, err := h.svc.ImportCSV(c.Request().Context(), patientID, f)
	if err != nil {
		return h.writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "imported": count})
}
