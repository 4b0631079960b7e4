package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"booklog/internal/httpx"
	"booklog/internal/view"
)

const (
	MsgNoRecords    = "No records found."
	MsgInvalidBody  = "Invalid request body."
	MsgBodyTooLarge = "Request body too large."
)

type HTTPHandler struct {
	service *Service
	views   Renderer
}

func NewHTTPHandler(service *Service, views Renderer) *HTTPHandler {
	return &HTTPHandler{service: service, views: views}
}

// Register mounts every book route on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Landing)
	mux.HandleFunc("GET /books/add/", h.AddForm)
	mux.HandleFunc("GET /books/update/", h.EditForm)
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("GET /books/sortTitle", h.SortByTitle)
	mux.HandleFunc("GET /books/sortAuthor", h.SortByAuthor)
	mux.HandleFunc("GET /books/filterRead/", h.FilterRead)
	mux.HandleFunc("GET /books/filterUnread/", h.FilterUnread)
	mux.HandleFunc("POST /books/update", h.Upsert)
	mux.HandleFunc("POST /books/delete", h.Delete)
	mux.HandleFunc("PUT /books/{id}", h.Overwrite)
}

type bookPage struct {
	Book Listing
}

// formPage feeds the add and edit forms. Edit carries the id as a hidden
// field, including id 0.
type formPage struct {
	Book Listing
	Edit bool
}

type listPage struct {
	Books []Listing
}

type savedPage struct {
	Book       Listing
	AddRequest bool
}

type deletedPage struct {
	ID string
}

func (h *HTTPHandler) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	if err := h.views.Render(w, http.StatusOK, page, data); err != nil {
		log.Printf("render failed: page=%s request_id=%s error=%v", page, httpx.RequestIDFrom(r), err)
		httpx.JSONError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeError maps validation failures to 400, ErrNotFound to 404 with
// notFound as the message, and anything else to 500 with the store's message.
func writeError(w http.ResponseWriter, err error, notFound string) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		httpx.JSONError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, notFound)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func idNotFound(raw string) string {
	return fmt.Sprintf("ID %s not found.", strings.TrimSpace(raw))
}

// Landing handles GET /
func (h *HTTPHandler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, view.PageLanding, nil)
}

// AddForm handles GET /books/add/
func (h *HTTPHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, view.PageAdd, formPage{})
}

// EditForm handles GET /books/update/?updateId=
func (h *HTTPHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("updateId")
	id, err := ParseID(raw)
	if err != nil {
		writeError(w, err, idNotFound(raw))
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, idNotFound(raw))
		return
	}
	h.render(w, r, view.PageEdit, formPage{Book: NormalizeOne(b), Edit: true})
}

// List handles GET /books and GET /books?id=
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("id"))
	if raw == "" {
		books, err := h.service.List(r.Context(), ColumnID)
		h.renderList(w, r, books, err)
		return
	}

	id, err := ParseID(raw)
	if err != nil {
		writeError(w, err, MsgNoRecords)
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, MsgNoRecords)
		return
	}
	h.render(w, r, view.PageDetail, bookPage{Book: NormalizeOne(b)})
}

// SortByTitle handles GET /books/sortTitle
func (h *HTTPHandler) SortByTitle(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context(), ColumnTitle)
	h.renderList(w, r, books, err)
}

// SortByAuthor handles GET /books/sortAuthor
func (h *HTTPHandler) SortByAuthor(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context(), ColumnAuthor)
	h.renderList(w, r, books, err)
}

// FilterRead handles GET /books/filterRead/
func (h *HTTPHandler) FilterRead(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListByRead(r.Context(), true)
	h.renderList(w, r, books, err)
}

// FilterUnread handles GET /books/filterUnread/
func (h *HTTPHandler) FilterUnread(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListByRead(r.Context(), false)
	h.renderList(w, r, books, err)
}

func (h *HTTPHandler) renderList(w http.ResponseWriter, r *http.Request, books []Book, err error) {
	if err != nil {
		writeError(w, err, MsgNoRecords)
		return
	}
	if len(books) == 0 {
		httpx.JSONError(w, http.StatusNotFound, MsgNoRecords)
		return
	}
	h.render(w, r, view.PageList, listPage{Books: Normalize(books)})
}

// parseForm reads a url-encoded write request. The read checkbox only
// submits "on" when ticked.
func parseForm(r *http.Request) (Form, error) {
	if err := r.ParseForm(); err != nil {
		return Form{}, err
	}
	value := func(key string) string {
		return strings.TrimSpace(r.PostForm.Get(key))
	}
	return Form{
		ID:            value("id"),
		Title:         value("title"),
		Author:        value("author"),
		NumberOfPages: value("number_of_pages"),
		Publisher:     value("publisher"),
		YearPublished: value("year_published"),
		Description:   value("description"),
		Read:          value("read") == "on",
	}, nil
}

// writeBodyError reports an unreadable body without echoing decoder text.
func writeBodyError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
		return
	}
	log.Printf("bad request body: path=%s request_id=%s error=%v", r.URL.Path, httpx.RequestIDFrom(r), err)
	httpx.JSONError(w, http.StatusBadRequest, MsgInvalidBody)
}

// Upsert handles POST /books/update
func (h *HTTPHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	form, err := parseForm(r)
	if err != nil {
		writeBodyError(w, r, err)
		return
	}
	if err := ValidateForm(form); err != nil {
		writeError(w, err, "")
		return
	}

	var id *int64
	if form.ID != "" {
		parsed, err := ParseID(form.ID)
		if err != nil {
			writeError(w, err, idNotFound(form.ID))
			return
		}
		id = &parsed
	}

	saved, created, err := h.service.Save(r.Context(), id, form.Fields())
	if err != nil {
		writeError(w, err, idNotFound(form.ID))
		return
	}
	h.render(w, r, view.PageSaved, savedPage{Book: NormalizeOne(saved), AddRequest: created})
}

// Delete handles POST /books/delete
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeBodyError(w, r, err)
		return
	}
	raw := strings.TrimSpace(r.PostForm.Get("deleteId"))
	id, err := ParseID(raw)
	if err != nil {
		writeError(w, err, idNotFound(raw))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err, idNotFound(raw))
		return
	}
	h.render(w, r, view.PageDeleted, deletedPage{ID: raw})
}

// formValue accepts a JSON string, number or null and keeps its text.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = formValue(n.String())
	return nil
}

type overwriteRequest struct {
	Title         formValue `json:"title"`
	Author        formValue `json:"author"`
	NumberOfPages formValue `json:"number_of_pages"`
	Publisher     formValue `json:"publisher"`
	YearPublished formValue `json:"year_published"`
	Description   formValue `json:"description"`
	Read          bool      `json:"read"`
}

func (req overwriteRequest) form() Form {
	value := func(v formValue) string {
		return strings.TrimSpace(string(v))
	}
	return Form{
		Title:         value(req.Title),
		Author:        value(req.Author),
		NumberOfPages: value(req.NumberOfPages),
		Publisher:     value(req.Publisher),
		YearPublished: value(req.YearPublished),
		Description:   value(req.Description),
		Read:          req.Read,
	}
}

// Overwrite handles PUT /books/{id}. The body replaces every column of the
// book and the updated record is returned as JSON.
func (h *HTTPHandler) Overwrite(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := ParseID(raw)
	if err != nil {
		writeError(w, err, idNotFound(raw))
		return
	}

	var req overwriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyError(w, r, err)
		return
	}
	form := req.form()
	if err := ValidateForm(form); err != nil {
		writeError(w, err, "")
		return
	}

	saved, err := h.service.Overwrite(r.Context(), id, form.Fields())
	if err != nil {
		writeError(w, err, idNotFound(raw))
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}
