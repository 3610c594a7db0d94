package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"blognest/internal/httputil"
	"blognest/internal/model"
	"blognest/internal/service"
	"blognest/internal/transport/http/middleware"
)

// CommentHandler serves comment creation and deletion.
type CommentHandler struct {
	commentService *service.CommentService
	errs           *httputil.Classifier
}

func NewCommentHandler(commentService *service.CommentService, errs *httputil.Classifier) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		errs:           errs,
	}
}

// Add handles POST /blog/{id}/comment.
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())

	blogID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid blog id")
		return
	}

	var req model.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.commentService.Add(r.Context(), blogID, identity.ID, req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "comment added", httputil.M{
		"comment":       result.Comment,
		"commentsCount": result.CommentsCount,
	})
}

// Delete handles DELETE /blog/{id}/comment/{commentId}. The comment author
// and the blog author may both delete; anyone else gets 403 from the
// repository's authorization check.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())

	blogID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid blog id")
		return
	}
	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentId"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	result, err := h.commentService.Delete(r.Context(), blogID, commentID, identity.ID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "comment deleted", httputil.M{
		"commentsCount": result.CommentsCount,
	})
}
