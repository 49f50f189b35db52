// Package server exposes the planner over HTTP.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piwi3910/LotLayout/internal/engine"
	"github.com/piwi3910/LotLayout/internal/export"
	"github.com/piwi3910/LotLayout/internal/importer"
	"github.com/piwi3910/LotLayout/internal/model"
	"github.com/piwi3910/LotLayout/internal/storage"
)

// DefaultMaxLotSide is the widest or tallest lot, in pixels, the API will
// plan. It matches the preview size limit.
const DefaultMaxLotSide = 4096

// Handler serves the layout API. Requests that omit dimensions are planned
// with the handler's defaults.
type Handler struct {
	dims       model.Dimensions
	publisher  *storage.Publisher
	maxLotSide float64
}

// NewHandler creates a Handler using dims as the default dimensions.
func NewHandler(dims model.Dimensions) *Handler {
	return &Handler{dims: dims, maxLotSide: DefaultMaxLotSide}
}

// SetMaxLotSide changes the largest lot extent accepted, in pixels.
func (h *Handler) SetMaxLotSide(px float64) {
	h.maxLotSide = px
}

// SetPublisher enables the publish endpoints.
func (h *Handler) SetPublisher(p *storage.Publisher) {
	h.publisher = p
}

// LayoutRequest describes a lot to plan.
type LayoutRequest struct {
	Name        string             `json:"name"`
	Boundary    model.Boundary     `json:"boundary"`
	Dimensions  *model.Dimensions  `json:"dimensions,omitempty"`
	Orientation *model.Orientation `json:"orientation,omitempty"`
	Clearance   string             `json:"clearance"`
}

// AuditRequest carries a previously generated layout to be re-checked.
type AuditRequest struct {
	LayoutRequest
	Layout model.Layout `json:"layout"`
}

// PublishRequest plans a lot and uploads the selected formats.
type PublishRequest struct {
	LayoutRequest
	Formats []string `json:"formats"`
}

// requestError is a rejected request, ready to be written as a response.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) send(c echo.Context) error {
	return ErrorWithCode(c, e.status, e.code, e.message)
}

// project turns a request into a validated project. The orientation
// defaults to 90°.
func (h *Handler) project(req LayoutRequest) (model.Project, *requestError) {
	proj := model.NewProject()
	if req.Name != "" {
		proj.Name = req.Name
	}
	proj.Boundary = req.Boundary
	proj.Clearance = model.ParseClearanceMode(req.Clearance)

	dims := h.dims
	if req.Dimensions != nil {
		dims = *req.Dimensions
	}
	dims, err := model.NewDimensions(dims)
	if err != nil {
		return proj, &requestError{http.StatusUnprocessableEntity, CodeInvalidDimensions, err.Error()}
	}
	proj.Dimensions = dims

	if req.Orientation != nil {
		o := *req.Orientation
		if o.Normalize() != o {
			return proj, &requestError{http.StatusBadRequest, CodeInvalidOrientation,
				fmt.Sprintf("unsupported orientation %d, use 0, 60 or 90", int(o))}
		}
		proj.Orientation = o
	}

	if err := model.ValidateBoundary(&proj.Boundary); err != nil {
		return proj, &requestError{http.StatusUnprocessableEntity, CodeInvalidBoundary, err.Error()}
	}
	// The scan visits every pixel row of the extent, so its cost is bounded here.
	ext := proj.Boundary.Polygon().Extent()
	if ext.Width() > h.maxLotSide || ext.Height() > h.maxLotSide {
		return proj, &requestError{http.StatusUnprocessableEntity, CodeLotTooLarge,
			fmt.Sprintf("lot extent %gx%g px exceeds the %g px limit", ext.Width(), ext.Height(), h.maxLotSide)}
	}
	return proj, nil
}

func (h *Handler) planner(proj model.Project) *engine.Planner {
	p := engine.New(proj.Dimensions)
	p.Clearance = proj.Clearance
	return p
}

func badRequest(c echo.Context) error {
	return ErrorWithCode(c, http.StatusBadRequest, CodeBadRequest, "failed to parse request")
}

// Health returns the liveness status of the server.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}

// ParseDimensions reads a dimension tag file from the request body.
func (h *Handler) ParseDimensions(c echo.Context) error {
	dims, err := importer.ParseDimensions(c.Request().Body)
	switch {
	case errors.Is(err, importer.ErrMissingTag):
		return ErrorWithCode(c, http.StatusUnprocessableEntity, CodeMissingTag, err.Error())
	case errors.Is(err, importer.ErrDuplicateTag):
		return ErrorWithCode(c, http.StatusUnprocessableEntity, CodeDuplicateTag, err.Error())
	case err != nil:
		return ErrorWithCode(c, http.StatusBadRequest, CodeBadRequest, err.Error())
	}
	return Success(c, map[string]interface{}{
		"dimensions": dims,
	})
}

// CreateLayout plans a lot at one orientation.
func (h *Handler) CreateLayout(c echo.Context) error {
	var req LayoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	proj, rerr := h.project(req)
	if rerr != nil {
		return rerr.send(c)
	}

	layout := h.planner(proj).Plan(&proj.Boundary, proj.Orientation)
	return Success(c, map[string]interface{}{
		"layout":   layout,
		"stalls":   export.CollectStalls(layout, proj.Dimensions),
		"summary":  export.Summary(layout),
		"estimate": model.EstimateCapacity(proj.Boundary.Polygon().Area(), proj.Dimensions, proj.Orientation),
	})
}

// CompareLayouts plans a lot at every orientation.
func (h *Handler) CompareLayouts(c echo.Context) error {
	var req LayoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	proj, rerr := h.project(req)
	if rerr != nil {
		return rerr.send(c)
	}

	results := h.planner(proj).CompareOrientations(&proj.Boundary)
	best, _ := engine.Best(results)
	return Success(c, map[string]interface{}{
		"results": results,
		"best":    best.Orientation,
	})
}

// PreviewLayout plans a lot and returns the drawing as a PNG.
func (h *Handler) PreviewLayout(c echo.Context) error {
	var req LayoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	proj, rerr := h.project(req)
	if rerr != nil {
		return rerr.send(c)
	}

	layout := h.planner(proj).Plan(&proj.Boundary, proj.Orientation)
	img, err := export.Preview(&proj.Boundary, proj.Dimensions, &layout)
	if errors.Is(err, export.ErrPreviewTooLarge) {
		return ErrorWithCode(c, http.StatusUnprocessableEntity, CodePreviewTooLarge, err.Error())
	}
	if err != nil {
		log.Printf("preview failed: %v", err)
		return ErrorWithCode(c, http.StatusInternalServerError, CodeInternal, "failed to render preview")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Printf("preview encode failed: %v", err)
		return ErrorWithCode(c, http.StatusInternalServerError, CodeInternal, "failed to encode preview")
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// AuditLayout re-checks a supplied layout against the boundary rules.
func (h *Handler) AuditLayout(c echo.Context) error {
	var req AuditRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	proj, rerr := h.project(req.LayoutRequest)
	if rerr != nil {
		return rerr.send(c)
	}

	violations := engine.Audit(req.Layout, &proj.Boundary, proj.Dimensions)
	if violations == nil {
		violations = []engine.Violation{}
	}
	return Success(c, map[string]interface{}{
		"valid":      len(violations) == 0,
		"violations": violations,
	})
}

// PublishLayout plans a lot and uploads its exports to the object store.
func (h *Handler) PublishLayout(c echo.Context) error {
	if h.publisher == nil {
		return ErrorWithCode(c, http.StatusServiceUnavailable, CodePublishDisabled, "publishing is not configured")
	}
	var req PublishRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	formats := make([]storage.Format, 0, len(req.Formats))
	for _, s := range req.Formats {
		f, err := storage.ParseFormat(s)
		if err != nil {
			return ErrorWithCode(c, http.StatusBadRequest, CodeInvalidFormat, err.Error())
		}
		formats = append(formats, f)
	}
	proj, rerr := h.project(req.LayoutRequest)
	if rerr != nil {
		return rerr.send(c)
	}

	layout := h.planner(proj).Plan(&proj.Boundary, proj.Orientation)
	proj.Result = &layout
	pub, err := h.publisher.Publish(c.Request().Context(), proj, formats...)
	if err != nil {
		log.Printf("publish %s failed: %v", pub.ID, err)
		return ErrorWithCode(c, http.StatusBadGateway, CodeInternal, "failed to publish layout")
	}
	return Success(c, map[string]interface{}{
		"publication": pub,
		"summary":     export.Summary(layout),
	})
}

// GetPublication returns a published project and its artefact keys.
func (h *Handler) GetPublication(c echo.Context) error {
	if h.publisher == nil {
		return ErrorWithCode(c, http.StatusServiceUnavailable, CodePublishDisabled, "publishing is not configured")
	}
	id := c.Param("id")
	ctx := c.Request().Context()

	proj, err := h.publisher.Fetch(ctx, id)
	if storage.IsNotFound(err) {
		return ErrorWithCode(c, http.StatusNotFound, CodeNotFound, fmt.Sprintf("publication %s not found", id))
	}
	if err != nil {
		log.Printf("fetch publication %s failed: %v", id, err)
		return ErrorWithCode(c, http.StatusBadGateway, CodeInternal, "failed to fetch publication")
	}
	keys, err := h.publisher.List(ctx, id)
	if err != nil {
		log.Printf("list publication %s failed: %v", id, err)
		return ErrorWithCode(c, http.StatusBadGateway, CodeInternal, "failed to list publication")
	}
	return Success(c, map[string]interface{}{
		"id":      id,
		"project": proj,
		"keys":    keys,
	})
}
