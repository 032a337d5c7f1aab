package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/skandula/DocChatAPI/internal/adapter"
	"github.com/skandula/DocChatAPI/internal/adapter/utils"
	"github.com/skandula/DocChatAPI/internal/api"
)

// GetDocumentsHandler godoc
// @Summary      List indexed documents
// @Description  Returns every distinct document currently present in the vector index.
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse
// @Failure      500  {object}  api.JobResponse
// @Router       /documents [get]
func GetDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	docs, err := listDocuments(r.Context())
	if err != nil {
		logRH.Error("Failed to list documents", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not list documents")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentList(docs))
}

// PostRecommendationsHandler godoc
// @Summary      Recommend related documents
// @Description  Embeds the query and returns up to 5 distinct document names whose content is nearest to it.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      api.RecommendationsRequest  true  "Free-text query"
// @Success      200      {object}  api.RecommendationsResponse
// @Failure      400      {object}  api.JobResponse
// @Failure      500      {object}  api.JobResponse
// @Router       /recommendations [post]
func PostRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	var requestData api.RecommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Query == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "query is required")
		return
	}
	defer r.Body.Close()

	names, err := recommend(r.Context(), requestData.Query)
	if err != nil {
		logRH.Error("Failed to compute recommendations", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not compute recommendations")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJsonResponse(w, http.StatusOK, api.RecommendationsResponse{Recommendations: names})
}

// GetAnnotationsHandler godoc
// @Summary      List annotations for a document
// @Tags         Annotations
// @Produce      json
// @Param        name  path      string  true  "Stored document name"
// @Success      200   {object}  api.AnnotationsResponse
// @Failure      500   {object}  api.JobResponse
// @Router       /annotations/{name} [get]
func GetAnnotationsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	name := utils.GetChiURLParam(r, "name")
	notes, err := handlerInstance.annotations.List(name)
	if err != nil {
		logRH.Error("Failed to read annotations", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not read annotations")
		return
	}
	if notes == nil {
		notes = []string{}
	}
	writeJsonResponse(w, http.StatusOK, api.AnnotationsResponse{PDFName: name, Annotations: notes})
}

// PostAnnotationsHandler godoc
// @Summary      Add an annotation to a document
// @Tags         Annotations
// @Accept       json
// @Produce      json
// @Param        name     path      string                 true  "Stored document name"
// @Param        request  body      api.AnnotationRequest  true  "The note to append"
// @Success      201      {object}  api.AnnotationsResponse
// @Failure      400      {object}  api.JobResponse
// @Failure      500      {object}  api.JobResponse
// @Router       /annotations/{name} [post]
func PostAnnotationsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	name := utils.GetChiURLParam(r, "name")

	var requestData api.AnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Note == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "note is required")
		return
	}
	defer r.Body.Close()

	if err := handlerInstance.annotations.Add(name, requestData.Note); err != nil {
		logRH.Error("Failed to save annotation", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not save annotation")
		return
	}

	notes, err := handlerInstance.annotations.List(name)
	if err != nil {
		notes = []string{requestData.Note}
	}
	writeJsonResponse(w, http.StatusCreated, api.AnnotationsResponse{PDFName: name, Annotations: notes})
}
