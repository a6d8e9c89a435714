package handler

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/files-manager/internal/middleware"
	"github.com/iliyamo/files-manager/internal/model"
	"github.com/iliyamo/files-manager/internal/queue"
	"github.com/iliyamo/files-manager/internal/repository"
	"github.com/iliyamo/files-manager/internal/storage"
)

// defaultContentType is served when the file name extension maps to no
// known media type.
const defaultContentType = "text/plain; charset=utf-8"

// FilesHandler implements the file hierarchy endpoints: upload, lookup,
// listing, visibility toggling and content retrieval.
type FilesHandler struct {
	Files repository.FileStore
	Blobs *storage.Local
	Jobs  *queue.Dispatcher
}

func NewFilesHandler(files repository.FileStore, blobs *storage.Local, jobs *queue.Dispatcher) *FilesHandler {
	return &FilesHandler{Files: files, Blobs: blobs, Jobs: jobs}
}

// ----- DTOs -----

type uploadReq struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID any    `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// fileView is the public projection of a file record.  ParentID is the
// number 0 for top-level records and the parent's id string otherwise;
// the local path never leaves the server.
type fileView struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID any    `json:"parentId"`
}

func viewOf(f model.File) fileView {
	var parent any = f.ParentID
	if f.ParentID == model.RootParent {
		parent = 0
	}
	return fileView{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: parent,
	}
}

// normalizeParentID folds the JSON parentId field into a string id.
// Clients send the number 0, the string "0" or nothing for top level;
// anything else is taken as a candidate parent id and left to the
// shape guard in the repository.
func normalizeParentID(v any) string {
	switch p := v.(type) {
	case nil:
		return model.RootParent
	case float64:
		if p == 0 {
			return model.RootParent
		}
		return strconv.FormatFloat(p, 'f', -1, 64)
	case string:
		if p == "" || p == model.RootParent {
			return model.RootParent
		}
		return p
	default:
		return fmt.Sprint(p)
	}
}

// Upload creates a folder, file or image under the authenticated user.
// Validation order is fixed: name, then type, then content.  Metadata is
// persisted first; content is written afterwards and its path recorded on
// the record.  Image uploads additionally schedule a thumbnail job, whose
// failure never fails the upload.
func (h *FilesHandler) Upload(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req uploadReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing name"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing name"})
	}
	if !model.ValidType(req.Type) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing type"})
	}
	if req.Data == "" && req.Type != model.TypeFolder {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing data"})
	}

	// Decode before anything is persisted so a bad payload cannot leave an
	// orphan content-less record behind.
	var data []byte
	if req.Type != model.TypeFolder {
		var err error
		data, err = base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing data"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	parentID := normalizeParentID(req.ParentID)
	if parentID != model.RootParent {
		parent, err := h.Files.GetByID(ctx, parentID)
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Parent not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
		}
		if parent.Type != model.TypeFolder {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Parent is not a folder"})
		}
	}

	f, err := h.Files.Create(ctx, model.File{
		UserID:   user.ID,
		Name:     req.Name,
		Type:     req.Type,
		IsPublic: req.IsPublic,
		ParentID: parentID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	if req.Type != model.TypeFolder {
		path, err := h.Blobs.Save(data)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
		}
		if err := h.Files.SetLocalPath(ctx, f.ID, path); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
		}
	}

	if req.Type == model.TypeImage {
		h.Jobs.EnqueueThumbnail(user.ID, f.ID)
	}

	return c.JSON(http.StatusCreated, viewOf(f))
}

// Get returns a record's metadata, owner only.  A record owned by
// someone else answers the same 404 as a missing one.
func (h *FilesHandler) Get(c echo.Context) error {
	user := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, err := h.Files.GetOwned(ctx, c.Param("id"), user.ID)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, viewOf(f))
}

// List returns one page of the user's records under the parentId query
// parameter, newest first.  page defaults to 0 and is clamped on
// malformed or negative input.
func (h *FilesHandler) List(c echo.Context) error {
	user := middleware.CurrentUser(c)

	parentID := c.QueryParam("parentId")
	if parentID == "" {
		parentID = model.RootParent
	}
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 0 {
		page = 0
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	files, err := h.Files.ListByParent(ctx, user.ID, parentID, page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	views := make([]fileView, 0, len(files))
	for _, f := range files {
		views = append(views, viewOf(f))
	}
	return c.JSON(http.StatusOK, views)
}

// Publish marks a record public.
func (h *FilesHandler) Publish(c echo.Context) error { return h.setPublic(c, true) }

// Unpublish marks a record private.
func (h *FilesHandler) Unpublish(c echo.Context) error { return h.setPublic(c, false) }

func (h *FilesHandler) setPublic(c echo.Context, isPublic bool) error {
	user := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, err := h.Files.SetPublic(ctx, c.Param("id"), user.ID, isPublic)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, viewOf(f))
}

// GetContent streams a record's bytes.  Private content is visible only
// to its owner, and a visibility failure is indistinguishable from a
// missing record.  Folders have no content, and a record whose blob has
// vanished from disk answers 404.
func (h *FilesHandler) GetContent(c echo.Context) error {
	user := middleware.CurrentUser(c) // may be nil, route is optionally authenticated

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	f, err := h.Files.GetByID(ctx, c.Param("id"))
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	isOwner := user != nil && user.ID == f.UserID
	if !f.IsPublic && !isOwner {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}
	if f.Type == model.TypeFolder {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "A folder does not have content"})
	}

	data, err := h.Blobs.Read(f.LocalPath)
	if err == storage.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	ctype := mime.TypeByExtension(filepath.Ext(f.Name))
	if ctype == "" {
		ctype = defaultContentType
	}
	return c.Blob(http.StatusOK, ctype, data)
}
