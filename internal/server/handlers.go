package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/emission-renderer/internal/classify"
	"github.com/jonathan/emission-renderer/internal/db"
	"github.com/jonathan/emission-renderer/internal/pipeline"
	"github.com/jonathan/emission-renderer/internal/schemas"
	"github.com/jonathan/emission-renderer/internal/types"
)

// previewResponse is the body of POST /preview.
type previewResponse struct {
	Document        string                  `json:"document"`
	Unresolved      []string                `json:"unresolved"`
	MissingRequired []types.FieldDescriptor `json:"missing_required"`
}

// fieldsResponse is the body of the field schema routes.
type fieldsResponse struct {
	Fields   []types.FieldDescriptor `json:"fields"`
	Warnings []warningJSON           `json:"warnings"`
}

type warningJSON struct {
	Name    string       `json:"name"`
	Region  types.Region `json:"region"`
	Message string       `json:"message"`
}

// renderSummary is the final event of a streamed render.
type renderSummary struct {
	Filename string       `json:"filename"`
	Engine   string       `json:"engine,omitempty"`
	Pages    []types.Page `json:"pages"`
	PDF      []byte       `json:"pdf"`
}

// readBody reads a bounded request body and checks that it is JSON.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if !json.Valid(body) {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	return body, nil
}

// decodeRenderRequest validates and decodes {"template": ..., "emission": ...}.
// A missing or null emission renders the template with defaults only.
func decodeRenderRequest(w http.ResponseWriter, r *http.Request) (*types.TemplateDocument, *types.Emission, error) {
	body, err := readBody(w, r)
	if err != nil {
		return nil, nil, err
	}
	if err := schemas.Validate(schemas.SchemaRenderRequest, body); err != nil {
		return nil, nil, err
	}

	var raw struct {
		Template json.RawMessage `json:"template"`
		Emission json.RawMessage `json:"emission"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, nil, &ErrValidation{Field: "body", Message: err.Error()}
	}

	if err := schemas.ValidateTemplate(raw.Template); err != nil {
		return nil, nil, err
	}
	var tmpl types.TemplateDocument
	if err := json.Unmarshal(raw.Template, &tmpl); err != nil {
		return nil, nil, &ErrValidation{Field: "template", Message: err.Error()}
	}
	if err := tmpl.Validate(); err != nil {
		return nil, nil, &ErrValidation{Field: "template", Message: err.Error()}
	}

	if len(raw.Emission) == 0 || bytes.Equal(raw.Emission, []byte("null")) {
		return &tmpl, nil, nil
	}
	if err := schemas.ValidateEmission(raw.Emission); err != nil {
		return nil, nil, err
	}
	var emission types.Emission
	if err := json.Unmarshal(raw.Emission, &emission); err != nil {
		return nil, nil, &ErrValidation{Field: "emission", Message: err.Error()}
	}
	if err := emission.Validate(); err != nil {
		return nil, nil, &ErrValidation{Field: "emission", Message: err.Error()}
	}
	return &tmpl, &emission, nil
}

// handleRender renders an inline template and emission to PDF.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	tmpl, emission, err := decodeRenderRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	artifact, err := s.engine.Render(r.Context(), emission, tmpl)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.pdfResponse(w, artifact.Filename, artifact.PDF, len(artifact.Pages))
}

// handleRenderStream renders like handleRender but reports each stage as a
// server-sent event and delivers the PDF in the final event.
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	tmpl, emission, err := decodeRenderRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	engine := s.engine.WithProgress(func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil {
			s.logger.Debug("progress event dropped", zap.Error(err))
		}
	})
	artifact, err := engine.Render(r.Context(), emission, tmpl)
	if err != nil {
		sse.WriteError(err)
		return
	}
	sse.WriteComplete(renderSummary{
		Filename: artifact.Filename,
		Engine:   artifact.Engine,
		Pages:    artifact.Pages,
		PDF:      artifact.PDF,
	})
}

// handlePreview returns the assembled HTML without rasterizing it.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	tmpl, emission, err := decodeRenderRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	prepared, err := s.engine.Preview(emission, tmpl)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	fields := classify.Classify(tmpl.Variables).Fields
	s.jsonResponse(w, http.StatusOK, previewResponse{
		Document:        prepared.Document,
		Unresolved:      nonNil(prepared.Unresolved),
		MissingRequired: nonNil(classify.MissingRequired(fields, emission)),
	})
}

// handleFields classifies inline variable declarations.
func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req struct {
		Variables types.VariableDeclarations `json:"variables"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(w, r, &ErrValidation{Field: "variables", Message: err.Error()})
		return
	}
	probe := types.TemplateDocument{Variables: req.Variables}
	if err := probe.Validate(); err != nil {
		s.fail(w, r, &ErrValidation{Field: "variables", Message: err.Error()})
		return
	}

	s.jsonResponse(w, http.StatusOK, newFieldsResponse(classify.Classify(req.Variables)))
}

// handleTemplateFields classifies the declarations of a stored template.
func (s *Server) handleTemplateFields(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if s.store == nil {
		s.fail(w, r, &ErrStorageUnavailable{})
		return
	}

	tmpl, err := s.store.GetTemplate(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if tmpl == nil {
		s.fail(w, r, &db.NotFoundError{Kind: "template", ID: id})
		return
	}

	s.jsonResponse(w, http.StatusOK, newFieldsResponse(classify.Classify(tmpl.Variables)))
}

// handleEmissionData replaces the data bags of a draft emission.
func (s *Server) handleEmissionData(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if s.store == nil {
		s.fail(w, r, &ErrStorageUnavailable{})
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := schemas.ValidateEmission(body); err != nil {
		s.fail(w, r, err)
		return
	}
	var req struct {
		RecipientData types.DataBag `json:"recipient_data"`
		CustomData    types.DataBag `json:"custom_data"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	if err := s.store.UpdateEmissionData(r.Context(), id, req.RecipientData, req.CustomData); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEmissionRender loads an emission and its template, renders it and
// stores the artifact, which issues the emission. Issued emissions are only
// re-rendered with ?force=true.
func (s *Server) handleEmissionRender(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if s.store == nil {
		s.fail(w, r, &ErrStorageUnavailable{})
		return
	}

	force := false
	if v := r.URL.Query().Get("force"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			s.fail(w, r, &ErrValidation{Field: "force", Message: "must be a boolean"})
			return
		}
		force = parsed
	}

	ctx := r.Context()
	emission, err := s.store.GetEmission(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if emission == nil {
		s.fail(w, r, &db.NotFoundError{Kind: "emission", ID: id})
		return
	}
	if !emission.IsEditable() && !force {
		s.fail(w, r, &db.LifecycleError{EmissionID: id, Status: string(emission.Status), Message: "re-render requires force"})
		return
	}

	tmpl, err := s.store.GetTemplate(ctx, emission.TemplateID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if tmpl == nil {
		s.fail(w, r, &pipeline.MissingTemplateError{Message: fmt.Sprintf("template %s not found", emission.TemplateID)})
		return
	}

	artifact, err := s.engine.Render(ctx, emission, tmpl)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	stored, err := s.store.SaveArtifact(ctx, id, &db.ArtifactInput{
		Filename:  artifact.Filename,
		PDF:       artifact.PDF,
		PageCount: len(artifact.Pages),
		Engine:    artifact.Engine,
	}, force)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, stored)
}

// handleEmissionArtifact downloads the latest stored PDF of an emission.
func (s *Server) handleEmissionArtifact(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if s.store == nil {
		s.fail(w, r, &ErrStorageUnavailable{})
		return
	}

	artifact, err := s.store.GetLatestArtifact(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if artifact == nil {
		s.fail(w, r, &db.NotFoundError{Kind: "artifact", ID: id})
		return
	}

	s.pdfResponse(w, artifact.Filename, artifact.Content, artifact.PageCount)
}

// handleEmissionArtifacts lists the stored renders of an emission, newest
// first, without their content.
func (s *Server) handleEmissionArtifacts(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if s.store == nil {
		s.fail(w, r, &ErrStorageUnavailable{})
		return
	}

	artifacts, err := s.store.ListArtifacts(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"artifacts": nonNil(artifacts)})
}

// pathID parses the {id} path value, writing a 400 when it is not a UUID.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}

// pdfResponse writes a PDF as an attachment.
func (s *Server) pdfResponse(w http.ResponseWriter, filename string, pdf []byte, pages int) {
	w.Header().Set("Content-Type", db.ContentTypePDF)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Header().Set("X-Page-Count", strconv.Itoa(pages))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		s.logger.Debug("failed to write PDF response", zap.Error(err))
	}
}

func newFieldsResponse(result *classify.Result) fieldsResponse {
	resp := fieldsResponse{
		Fields:   nonNil(result.Fields),
		Warnings: make([]warningJSON, 0, len(result.Warnings)),
	}
	for _, w := range result.Warnings {
		resp.Warnings = append(resp.Warnings, warningJSON{Name: w.Name, Region: w.Region, Message: w.Message})
	}
	return resp
}

// nonNil keeps empty lists as [] in JSON.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
