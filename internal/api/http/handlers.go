package http

import (
	"errors"
	"image/png"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/TabletOS/backend/internal/domain/app"
	"github.com/GriffinCanCode/TabletOS/backend/internal/domain/tablet"
	"github.com/GriffinCanCode/TabletOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/resource"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/text"
)

// Handlers contains all admin HTTP handlers
type Handlers struct {
	device  *tablet.Device
	catalog *text.Catalog
	lang    string
	metrics *monitoring.Metrics
	frames  *monitoring.FrameStats
}

// AppView is the JSON form of an application
type AppView struct {
	app.Info
	Active        bool   `json:"active"`
	Available     bool   `json:"available"`
	UptimeSeconds int    `json:"uptime_seconds"`
	Error         string `json:"error,omitempty"`
}

// MouseRequest is the body of POST /input/mouse
type MouseRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

// KeyRequest is the body of POST /input/key
type KeyRequest struct {
	Code *int `json:"code" binding:"required"`
}

// NewHandlers creates a new handler set. Names are localized to lang.
func NewHandlers(device *tablet.Device, catalog *text.Catalog, lang string, metrics *monitoring.Metrics) *Handlers {
	if catalog == nil {
		catalog = text.NewCatalog()
	}
	return &Handlers{
		device:  device,
		catalog: catalog,
		lang:    lang,
		metrics: metrics,
	}
}

// WithFrameStats enables the frame time endpoint
func (h *Handlers) WithFrameStats(stats *monitoring.FrameStats) *Handlers {
	h.frames = stats
	return h
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	width, height := h.device.Size()
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"session":     h.device.SessionID(),
		"size":        gin.H{"width": width, "height": height},
		"frames":      h.device.Frames(),
		"registry":    h.device.Registry().Stats(),
		"unavailable": len(h.device.Unavailable()),
	})
}

// ListApps lists all registered apps
func (h *Handlers) ListApps(c *gin.Context) {
	reg := h.device.Registry()
	unavailable := h.device.Unavailable()

	apps := reg.List()
	views := make([]AppView, 0, len(apps))
	for _, a := range apps {
		views = append(views, h.view(a, unavailable[a.ID()]))
	}

	c.JSON(http.StatusOK, gin.H{
		"apps":  views,
		"stats": reg.Stats(),
	})
}

// GetApp returns one app
func (h *Handlers) GetApp(c *gin.Context) {
	appID := c.Param("id")
	if err := app.ValidateID(appID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, ok := h.device.Registry().Get(appID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "app not found", "app_id": appID})
		return
	}
	c.JSON(http.StatusOK, h.view(a, h.device.Unavailable()[appID]))
}

// ActiveApp returns the active app
func (h *Handlers) ActiveApp(c *gin.Context) {
	a, ok := h.device.Registry().Active()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active app"})
		return
	}
	c.JSON(http.StatusOK, h.view(a, nil))
}

// OpenApp activates an app on the device
func (h *Handlers) OpenApp(c *gin.Context) {
	appID := c.Param("id")
	if err := app.ValidateID(appID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.device.Open(appID); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, app.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, tablet.ErrUnavailable), errors.Is(err, tablet.ErrQuarantined):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error(), "app_id": appID})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"app_id":  appID,
	})
}

// CloseApp deactivates the active app
func (h *Handlers) CloseApp(c *gin.Context) {
	h.device.Close()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MouseInput forwards a click to the active app
func (h *Handlers) MouseInput(c *gin.Context) {
	var req MouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.input(c, h.device.MousePressed(*req.X, *req.Y))
}

// KeyInput forwards a key press to the active app
func (h *Handlers) KeyInput(c *gin.Context) {
	var req KeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.input(c, h.device.KeyPressed(*req.Code))
}

// Frame writes the last rendered frame as PNG
func (h *Handlers) Frame(c *gin.Context) {
	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if err := png.Encode(c.Writer, h.device.LastFrame().Image()); err != nil {
		_ = c.Error(err)
	}
}

// ListResources lists resources matching ?pattern= (default "**") in
// ?namespace= (default "tablet")
func (h *Handlers) ListResources(c *gin.Context) {
	loader := h.device.Loader()
	if loader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no resource loader"})
		return
	}

	namespace := c.DefaultQuery("namespace", resource.DefaultNamespace)
	pattern := c.DefaultQuery("pattern", "**")

	ids, err := loader.Glob(namespace, pattern)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, id.String())
	}
	c.JSON(http.StatusOK, gin.H{
		"namespace": namespace,
		"pattern":   pattern,
		"resources": names,
	})
}

// MetricsJSON returns a metrics snapshot
func (h *Handlers) MetricsJSON(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics disabled"})
		return
	}
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// FrameTimes returns the frame time summary
func (h *Handlers) FrameTimes(c *gin.Context) {
	if h.frames == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "frame stats disabled"})
		return
	}
	c.JSON(http.StatusOK, h.frames.Summary())
}

// input reports an application's input error without failing the request
func (h *Handlers) input(c *gin.Context, err error) {
	active := ""
	if a, ok := h.device.Registry().Active(); ok {
		active = a.ID()
	}

	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"delivered":  true,
			"error":      err.Error(),
			"active_app": active,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"delivered":  active != "",
		"active_app": active,
	})
}

func (h *Handlers) view(a app.Application, loadErr error) AppView {
	info := app.Describe(a)
	info.Name = h.catalog.Localize(a.DisplayName(), h.lang)

	v := AppView{
		Info:          info,
		Active:        h.device.Registry().IsActive(a.ID()),
		Available:     h.device.Available(a.ID()),
		UptimeSeconds: a.UpTimeSeconds(),
	}
	if loadErr != nil {
		v.Error = loadErr.Error()
	}
	return v
}
