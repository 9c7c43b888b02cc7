package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
	"github.com/mamadbah2/ecotrack/internal/server/views"
	"github.com/mamadbah2/ecotrack/internal/service/recorder"
)

const flashCookie = "ecotrack_flash"

// Recorder accepts operator entries.
type Recorder interface {
	RecordCity(ctx context.Context, entry recorder.CityEntry) (recorder.Outcome, error)
	RecordIndustry(ctx context.Context, entry recorder.IndustryEntry) (recorder.Outcome, error)
}

// EntryHandler serves the two entry forms and their JSON counterparts.
type EntryHandler struct {
	recorder Recorder
	cities   []string
	logger   *zap.Logger
}

// NewEntryHandler constructs the entry handler. cities feeds the city picker.
func NewEntryHandler(rec Recorder, cities []string, logger *zap.Logger) *EntryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryHandler{recorder: rec, cities: cities, logger: logger}
}

// CityForm renders an empty city entry form.
func (h *EntryHandler) CityForm(c *gin.Context) {
	c.HTML(http.StatusOK, views.CityForm, views.CityFormPage{
		Cities: h.cities,
		Entry:  models.CityEntryRequest{Date: c.Query("date")},
	})
}

// SubmitCity records a city contribution from the HTML form.
func (h *EntryHandler) SubmitCity(c *gin.Context) {
	var req models.CityEntryRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("invalid city form", zap.Error(err))
	}

	out, err := h.recorder.RecordCity(c.Request.Context(), cityEntry(req))
	if err != nil {
		h.renderFormError(c, err, views.CityForm, views.CityFormPage{Error: err.Error(), Cities: h.cities, Entry: req})
		return
	}

	h.redirect(c, out)
}

// IndustryForm renders an empty industry entry form.
func (h *EntryHandler) IndustryForm(c *gin.Context) {
	c.HTML(http.StatusOK, views.IndustryForm, views.IndustryFormPage{
		Entry: models.IndustryEntryRequest{Date: c.Query("date")},
	})
}

// SubmitIndustry records an industry recovery report from the HTML form.
func (h *EntryHandler) SubmitIndustry(c *gin.Context) {
	var req models.IndustryEntryRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("invalid industry form", zap.Error(err))
	}

	out, err := h.recorder.RecordIndustry(c.Request.Context(), industryEntry(req))
	if err != nil {
		h.renderFormError(c, err, views.IndustryForm, views.IndustryFormPage{Error: err.Error(), Entry: req})
		return
	}

	h.redirect(c, out)
}

// CreateCity is the JSON variant of SubmitCity.
func (h *EntryHandler) CreateCity(c *gin.Context) {
	var req models.CityEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid city payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	out, err := h.recorder.RecordCity(c.Request.Context(), cityEntry(req))
	h.respondJSON(c, out, err)
}

// CreateIndustry is the JSON variant of SubmitIndustry.
func (h *EntryHandler) CreateIndustry(c *gin.Context) {
	var req models.IndustryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid industry payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	out, err := h.recorder.RecordIndustry(c.Request.Context(), industryEntry(req))
	h.respondJSON(c, out, err)
}

func (h *EntryHandler) renderFormError(c *gin.Context, err error, name string, page any) {
	status := http.StatusUnprocessableEntity
	if !recorder.IsValidation(err) {
		h.logger.Error("entry not stored", zap.Error(err), zap.String("request_id", requestID(c)))
		status = http.StatusInternalServerError
	}
	c.HTML(status, name, page)
}

func (h *EntryHandler) redirect(c *gin.Context, out recorder.Outcome) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, out.Message, 60, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, out.Redirect)
}

func (h *EntryHandler) respondJSON(c *gin.Context, out recorder.Outcome, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, out)
	case recorder.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("entry not stored", zap.Error(err), zap.String("request_id", requestID(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store entry"})
	}
}

func cityEntry(req models.CityEntryRequest) recorder.CityEntry {
	return recorder.CityEntry{Date: req.Date, City: req.City, Weight: string(req.Weight)}
}

func industryEntry(req models.IndustryEntryRequest) recorder.IndustryEntry {
	return recorder.IndustryEntry{
		Date:   req.Date,
		Weight: string(req.Weight),
		Res:    string(req.Res),
		Cap:    string(req.Cap),
		Iron:   string(req.Iron),
		Mag:    string(req.Mag),
		Cop:    string(req.Cop),
		Sil:    string(req.Sil),
	}
}

// requestID returns the id assigned by the request id middleware.
func requestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
