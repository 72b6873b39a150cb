package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/seating-chart/internal/exporter"
	"github.com/iliyamo/seating-chart/internal/importer"
	"github.com/iliyamo/seating-chart/internal/model"
)

// maxUpload bounds import files.
const maxUpload = 10 << 20

// uploadBody returns the uploaded file: the multipart field "file" when the
// request is a form upload, the raw request body otherwise.
func uploadBody(c echo.Context) ([]byte, error) {
	var r io.Reader = c.Request().Body
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("form field file: %w", err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(io.LimitReader(r, maxUpload+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxUpload {
		return nil, errors.New("file too large")
	}
	return b, nil
}

// Import replaces the chart with the uploaded file.  :format is csv, xlsx
// or json.  Guest lists become a new chart named by the name query
// parameter.  A file that fails to parse answers 400 and leaves the
// current chart alone.
func (h *PlanningHandler) Import(c echo.Context) error {
	body, err := uploadBody(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	var chart *model.SeatingChart
	switch format := exporter.Format(c.Param("format")); format {
	case exporter.FormatJSON:
		chart, err = importer.LoadJSON(bytes.NewReader(body))
	case exporter.FormatCSV, exporter.FormatXLSX:
		var recs []importer.Record
		if format == exporter.FormatCSV {
			recs, err = importer.ParseCSV(bytes.NewReader(body))
		} else {
			recs, err = importer.ParseXLSX(bytes.NewReader(body))
		}
		if err == nil {
			chart = importer.BuildChart(recs, strings.TrimSpace(c.QueryParam("name")), time.Now().UTC())
		}
	default:
		return errorJSON(c, http.StatusNotFound, "unknown import format")
	}
	if err != nil {
		h.Log.Info("import rejected", zap.String("format", c.Param("format")), zap.Error(err))
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	h.Store.SetChart(chart)
	h.Log.Info("chart imported",
		zap.String("format", c.Param("format")),
		zap.Int("tables", len(chart.Tables)),
		zap.Int("guests", chart.GuestCount()))
	return c.JSON(http.StatusOK, chart)
}

// Export downloads the chart as json, csv or xlsx with a dated file name.
func (h *PlanningHandler) Export(c echo.Context) error {
	chart, err := h.Store.Snapshot()
	if err != nil {
		return errorJSON(c, http.StatusNotFound, "no chart")
	}

	format := exporter.Format(c.Param("format"))
	var buf bytes.Buffer
	switch format {
	case exporter.FormatJSON:
		err = exporter.WriteJSON(&buf, chart)
	case exporter.FormatCSV:
		err = exporter.WriteCSV(&buf, chart)
	case exporter.FormatXLSX:
		err = exporter.WriteXLSX(&buf, chart)
	default:
		return errorJSON(c, http.StatusNotFound, "unknown export format")
	}
	if err != nil {
		h.Log.Error("export failed", zap.String("format", string(format)), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "export failed")
	}

	name := exporter.FileName(format, time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Template downloads the sample guest list.
func (h *PlanningHandler) Template(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="guest-list-template.csv"`)
	return c.Blob(http.StatusOK, exporter.FormatCSV.ContentType(), []byte(importer.CSVTemplate))
}
