package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"sigpeche/internal/domain/documents"
	"sigpeche/internal/notify"
	"sigpeche/internal/push"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/go-chi/chi/v5"
)

type PublishDocumentPayload struct {
	Title   string  `json:"title" validate:"required,max=255"`
	Type    string  `json:"type" validate:"required"`
	Summary *string `json:"summary,omitempty" validate:"omitempty,max=2000"`
}

type PublishDocumentResponse struct {
	Document      *documents.Document `json:"document"`
	Notifications notify.BatchResult  `json:"notifications"`
}

// publishDocumentHandler godoc
//
//	@Summary		Publishes an official document
//	@Description	Creates the document, fans out simulated notifications to matching subscriptions and alerts mobile devices
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		PublishDocumentPayload	true	"Document"
//	@Success		201		{object}	PublishDocumentResponse
//	@Security		ApiKeyAuth
//	@Router			/documents [post]
func (app *application) publishDocumentHandler(w http.ResponseWriter, r *http.Request) {
	var payload PublishDocumentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !documents.IsValidType(payload.Type) {
		app.badRequestResponse(w, r, fmt.Errorf("unknown document type %q", payload.Type))
		return
	}

	user := getUserFromContext(r)
	ctx := r.Context()

	reference, err := app.refgen.Generate(payload.Type, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	doc := &documents.Document{
		Title:       payload.Title,
		Reference:   reference,
		Type:        payload.Type,
		Summary:     payload.Summary,
		PublishedBy: user.ID,
	}

	if err := app.store.Documents.Create(ctx, doc); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	subs, err := app.store.Subscriptions.ListActive(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	event := notify.DocumentEvent{
		ID:        strconv.FormatInt(doc.ID, 10),
		Title:     doc.Title,
		Reference: doc.Reference,
		Type:      doc.Type,
	}

	result, err := app.matcher.MatchAndRecord(ctx, event, subs)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	push.CallAsync(func(ctx context.Context) error {
		err := push.SendDocumentPublished(ctx, app.push, app.store, doc.ID, doc.Title, doc.Type)
		if errors.Is(err, push.ErrNoTokens) {
			return nil
		}
		return err
	}, func(err error) {
		app.logger.Errorw("document push alert failed", "document_id", doc.ID, "error", err)
	})

	resp := PublishDocumentResponse{
		Document:      doc,
		Notifications: result,
	}

	if err := app.jsonResponse(w, http.StatusCreated, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listDocumentsHandler godoc
//
//	@Summary	Lists published documents
//	@Tags		documents
//	@Produce	json
//	@Param		type	query		string	false	"Filter by document type"
//	@Success	200		{array}		documents.Document
//	@Security	ApiKeyAuth
//	@Router		/documents [get]
func (app *application) listDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	var filter documents.Filter

	if t := r.URL.Query().Get("type"); t != "" {
		if !documents.IsValidType(t) {
			app.badRequestResponse(w, r, fmt.Errorf("unknown document type %q", t))
			return
		}
		filter.Type = &t
	}
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		filter.Page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		filter.Limit = l
	}

	docs, err := app.store.Documents.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, docs); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getDocumentHandler godoc
//
//	@Summary	Fetches one document
//	@Tags		documents
//	@Produce	json
//	@Param		documentID	path		int	true	"Document ID"
//	@Success	200			{object}	documents.Document
//	@Security	ApiKeyAuth
//	@Router		/documents/{documentID} [get]
func (app *application) getDocumentHandler(w http.ResponseWriter, r *http.Request) {
	docID, err := strconv.ParseInt(chi.URLParam(r, "documentID"), 10, 64)
	if err != nil || docID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid document ID"))
		return
	}

	doc, err := app.store.Documents.GetByID(r.Context(), docID)
	if err != nil {
		if errors.Is(err, documents.ErrDocumentNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, doc); err != nil {
		app.internalServerError(w, r, err)
	}
}

// uploadDocumentFileHandler godoc
//
//	@Summary	Attaches a scanned file to a document
//	@Tags		documents
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		documentID	path		int		true	"Document ID"
//	@Param		file		formData	file	true	"Scan or PDF image"
//	@Success	200			{object}	map[string]string
//	@Security	ApiKeyAuth
//	@Router		/documents/{documentID}/file [post]
func (app *application) uploadDocumentFileHandler(w http.ResponseWriter, r *http.Request) {
	docID, err := strconv.ParseInt(chi.URLParam(r, "documentID"), 10, 64)
	if err != nil || docID <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid document ID"))
		return
	}

	// 10MB cap on the multipart form
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("file is required"))
		return
	}
	defer file.Close()

	fileURL, err := app.uploadDocumentScan(file, docID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Documents.AttachFile(r.Context(), docID, fileURL); err != nil {
		if errors.Is(err, documents.ErrDocumentNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"file_url": fileURL}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) uploadDocumentScan(file io.Reader, docID int64) (string, error) {
	resp, err := app.cld.Upload.Upload(
		context.Background(),
		file,
		uploader.UploadParams{
			Folder:    "documents",
			PublicID:  fmt.Sprintf("document_%d", docID),
			Overwrite: api.Bool(true),
		},
	)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, nil
}
