package handler

import (
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"blognest/internal/httputil"
	"blognest/internal/model"
	"blognest/internal/service"
	"blognest/internal/transport/http/middleware"
)

// Multipart parse limit; covers the 5MB image plus form fields.
const maxUploadMemory = 10 << 20

// BlogHandler serves blog CRUD, likes, shares and stats.
type BlogHandler struct {
	blogService  *service.BlogService
	mediaService *service.MediaService
	statsService *service.StatsService
	errs         *httputil.Classifier
}

func NewBlogHandler(blogService *service.BlogService, mediaService *service.MediaService, statsService *service.StatsService, errs *httputil.Classifier) *BlogHandler {
	return &BlogHandler{
		blogService:  blogService,
		mediaService: mediaService,
		statsService: statsService,
		errs:         errs,
	}
}

func blogIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// coverFromForm pulls the optional coverImage part out of a parsed
// multipart request. No file at all is not an error.
func coverFromForm(r *http.Request) (multipart.File, *multipart.FileHeader, bool, error) {
	file, header, err := r.FormFile("coverImage")
	if err == http.ErrMissingFile {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}
	return file, header, true, nil
}

// Create handles POST /blog/create (multipart form: title, content,
// optional coverImage). The cover is uploaded first; if persisting the
// record then fails, the orphaned object is deleted so storage never
// accumulates unreferenced files.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var cover *model.UploadResult
	file, header, hasFile, err := coverFromForm(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid cover image upload")
		return
	}
	if hasFile {
		defer file.Close()
		cover, err = h.mediaService.UploadCover(r.Context(), file, header)
		if err != nil {
			h.errs.Write(w, r, err)
			return
		}
	}

	req := model.CreateBlogRequest{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
	}

	blog, err := h.blogService.Create(r.Context(), identity.ID, req, cover)
	if err != nil {
		if cover != nil {
			h.mediaService.CleanupObject(r.Context(), cover.Key)
		}
		h.errs.Write(w, r, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "blog created successfully", httputil.M{
		"blog": blog,
	})
}

// List handles GET /blog/read.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogService.List(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", httputil.M{
		"blogs": blogs,
	})
}

// GetByID handles GET /blog/read/{id}. Anonymous readers get isLiked=false.
func (h *BlogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	blogID, err := blogIDParam(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid blog id")
		return
	}

	var viewerID *int64
	if identity, ok := middleware.GetIdentity(r.Context()); ok {
		viewerID = &identity.ID
	}

	blog, err := h.blogService.GetByID(r.Context(), blogID, viewerID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.M{
		"blog": blog,
	})
}

// Mine handles GET /blog/mine.
func (h *BlogHandler) Mine(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())

	blogs, err := h.blogService.ListByAuthor(r.Context(), identity.ID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", httputil.M{
		"blogs": blogs,
	})
}

// Update handles PUT /blog/update/{id} behind RequireOwner. Accepts either
// a multipart form (when replacing the cover) or a JSON body for text-only
// edits. The old cover object is deleted only after the record durably
// references the new one.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	blog, _ := middleware.GetBlog(r.Context())

	var req model.UpdateBlogRequest
	var cover *model.UploadResult

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		if values, ok := r.MultipartForm.Value["title"]; ok && len(values) > 0 {
			req.Title = &values[0]
		}
		if values, ok := r.MultipartForm.Value["content"]; ok && len(values) > 0 {
			req.Content = &values[0]
		}

		file, header, hasFile, err := coverFromForm(r)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid cover image upload")
			return
		}
		if hasFile {
			defer file.Close()
			cover, err = h.mediaService.UploadCover(r.Context(), file, header)
			if err != nil {
				h.errs.Write(w, r, err)
				return
			}
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	updated, oldCoverKey, err := h.blogService.Update(r.Context(), blog, req, cover)
	if err != nil {
		if cover != nil {
			h.mediaService.CleanupObject(r.Context(), cover.Key)
		}
		h.errs.Write(w, r, err)
		return
	}

	if oldCoverKey != "" {
		h.mediaService.CleanupObject(r.Context(), oldCoverKey)
	}

	httputil.WriteSuccess(w, http.StatusOK, "blog updated successfully", httputil.M{
		"blog": updated,
	})
}

// Delete handles DELETE /blog/delete/{id} behind RequireOwner. The record
// deletion is authoritative; cover and share-counter cleanup are best
// effort afterwards.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	blog, _ := middleware.GetBlog(r.Context())

	if err := h.blogService.Delete(r.Context(), blog); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	if blog.CoverImageKey != nil {
		h.mediaService.CleanupObject(r.Context(), *blog.CoverImageKey)
	}
	if err := h.statsService.ClearShares(r.Context(), blog.ID); err != nil {
		slog.Warn("failed to clear share counter", "blog_id", blog.ID, "error", err)
	}

	httputil.WriteSuccess(w, http.StatusOK, "blog deleted successfully", nil)
}

// ToggleLike handles POST /blog/{id}/like.
func (h *BlogHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())

	blogID, err := blogIDParam(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid blog id")
		return
	}

	result, err := h.blogService.ToggleLike(r.Context(), blogID, identity.ID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.M{
		"isLiked":    result.IsLiked,
		"likesCount": result.LikesCount,
	})
}

// Share handles POST /blog/{id}/share.
func (h *BlogHandler) Share(w http.ResponseWriter, r *http.Request) {
	blogID, err := blogIDParam(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid blog id")
		return
	}

	count, err := h.statsService.Share(r.Context(), blogID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.M{
		"sharesCount": count,
	})
}

// Stats handles GET /blog/{id}/stats.
func (h *BlogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	blogID, err := blogIDParam(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid blog id")
		return
	}

	stats, err := h.statsService.Stats(r.Context(), blogID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", httputil.M{
		"likesCount":    stats.LikesCount,
		"commentsCount": stats.CommentsCount,
		"sharesCount":   stats.SharesCount,
	})
}
