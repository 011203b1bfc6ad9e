// Package export serves project export and import over HTTP.
package export

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"valuecase/pkg/api/apiutil"
	coreExport "valuecase/pkg/core/export"
	"valuecase/pkg/core/project"
	"valuecase/pkg/core/research"
	"valuecase/pkg/core/store"
)

// Handler holds dependencies for export endpoints
type Handler struct {
	Repo store.Repository
	// Research is optional; without it reports carry no industry insights.
	Research *research.Service
}

func NewHandler(repo store.Repository, svc *research.Service) *Handler {
	return &Handler{Repo: repo, Research: svc}
}

// Register mounts the export routes.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/projects/import", h.HandleImport).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{id}/export", h.HandleExport).Methods(http.MethodGet)
}

// HandleExport writes a project as json, markdown, html or slides.
// ?insights=true adds industry research and KPI benchmarks to reports.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	format, err := coreExport.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		apiutil.WriteError(w, fmt.Errorf("%w: %v", apiutil.ErrBadRequest, err))
		return
	}
	p, err := h.Repo.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		apiutil.WriteError(w, err)
		return
	}

	if format == coreExport.FormatJSON {
		data, err := coreExport.JSON(p)
		if err != nil {
			apiutil.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.ID+".json"))
		w.Write(data)
		return
	}

	withInsights, _ := strconv.ParseBool(r.URL.Query().Get("insights"))
	md := coreExport.MarkdownReport(p, h.reportOptions(r, p, withInsights))
	switch format {
	case coreExport.FormatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, md)
	case coreExport.FormatHTML:
		doc, err := coreExport.RenderHTML(p.Setup.ProjectName, md)
		if err != nil {
			apiutil.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, doc)
	case coreExport.FormatSlides:
		doc, err := coreExport.RenderHTML(p.Setup.ProjectName, md)
		if err != nil {
			apiutil.WriteError(w, err)
			return
		}
		slides, err := coreExport.SlideOutline(doc)
		if err != nil {
			apiutil.WriteError(w, err)
			return
		}
		apiutil.WriteJSON(w, http.StatusOK, slides)
	}
}

func (h *Handler) reportOptions(r *http.Request, p *project.Project, withInsights bool) coreExport.ReportOptions {
	var opts coreExport.ReportOptions
	if !withInsights || h.Research == nil || p.Setup.Industry == "" || p.Setup.PlatformSelection == "" {
		return opts
	}
	ins, err := h.Research.Insights(r.Context(), research.InsightRequest{Industry: p.Setup.Industry, Platform: p.Setup.PlatformSelection})
	if err == nil {
		opts.Insights = &ins
	}
	if len(p.KPIs) > 0 {
		bms, err := h.Research.Benchmarks(r.Context(), p.Setup.Industry, p.Setup.PlatformSelection, p.Setup.CompanySize, p.KPIs)
		if err == nil {
			opts.Benchmarks = bms
		}
	}
	return opts
}

// HandleImport stores a project record produced by the JSON export. A
// record whose id is already taken, or cannot be stored, gets a new id.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, apiutil.MaxBodyBytes))
	if err != nil {
		apiutil.WriteError(w, fmt.Errorf("%w: failed to read body: %v", apiutil.ErrBadRequest, err))
		return
	}
	p, err := coreExport.ImportJSON(data)
	if err != nil {
		apiutil.WriteError(w, fmt.Errorf("%w: %v", apiutil.ErrBadRequest, err))
		return
	}

	if !store.ValidID(p.ID) {
		p.ID = uuid.NewString()
	}
	_, err = h.Repo.Get(r.Context(), p.ID)
	switch {
	case err == nil:
		p.ID = uuid.NewString()
	case !errors.Is(err, store.ErrNotFound):
		apiutil.WriteError(w, err)
		return
	}
	if err := h.Repo.Create(r.Context(), p); err != nil {
		apiutil.WriteError(w, err)
		return
	}
	fmt.Printf("[STORE] Imported project %s (%s)\n", p.ID, p.Setup.ProjectName)
	apiutil.WriteJSON(w, http.StatusCreated, p)
}
