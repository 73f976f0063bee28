package picture

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/service/view"
	"github.com/oggyb/swipe-match/internal/utils/request"
	"github.com/oggyb/swipe-match/internal/utils/response"
)

// multipart framing allowance on top of the file itself
const formOverhead = 1 << 20

// Handler exposes the picture service over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /pictures.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := request.UserID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	pics, err := h.svc.List(r.Context(), userID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, view.NewPictures(pics))
}

// Upload handles POST /pictures as multipart/form-data with a `picture`
// file and an optional `is_primary` flag.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, err := request.UserID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	data, isPrimary, err := h.readUpload(w, r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	picture, err := h.svc.Upload(r.Context(), userID, data, isPrimary)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Message(w, http.StatusCreated, "Picture uploaded successfully", view.NewPicture(*picture))
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool, error) {
	limit := h.svc.maxBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, false, tooLargeError(limit)
		}
		return nil, false, fmt.Errorf("%w: expected multipart/form-data: %v", svcErr.ErrInvalidArgument, err)
	}

	file, _, err := r.FormFile("picture")
	if errors.Is(err, http.ErrMissingFile) {
		verr := svcErr.Validation()
		verr.Add("picture", "The picture field is required.")
		return nil, false, verr
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", svcErr.ErrInvalidArgument, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, false, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, false, tooLargeError(limit)
	}

	var isPrimary bool
	if raw := r.FormValue("is_primary"); raw != "" {
		isPrimary, err = strconv.ParseBool(raw)
		if err != nil {
			verr := svcErr.Validation()
			verr.Add("is_primary", "The is_primary field must be true or false.")
			return nil, false, verr
		}
	}
	return data, isPrimary, nil
}

func tooLargeError(limit int64) error {
	verr := svcErr.Validation()
	verr.Add("picture", fmt.Sprintf("The picture may not be greater than %d kilobytes.", limit>>10))
	return verr
}

// Delete handles DELETE /pictures/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, pictureID, err := ids(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), userID, pictureID); err != nil {
		response.Error(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Picture deleted successfully", nil)
}

// SetPrimary handles PATCH /pictures/{id}/primary.
func (h *Handler) SetPrimary(w http.ResponseWriter, r *http.Request) {
	userID, pictureID, err := ids(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	picture, err := h.svc.SetPrimary(r.Context(), userID, pictureID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Primary picture updated", view.NewPicture(*picture))
}

type reorderRequest struct {
	PictureIDs []uint64 `json:"picture_ids"`
}

// Reorder handles POST /pictures/reorder {picture_ids: [...]}.
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID, err := request.UserID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	var in reorderRequest
	if err := request.DecodeJSON(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}

	pics, err := h.svc.Reorder(r.Context(), userID, in.PictureIDs)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Pictures reordered successfully", view.NewPictures(pics))
}

func ids(r *http.Request) (userID, pictureID uint64, err error) {
	userID, err = request.UserID(r)
	if err != nil {
		return 0, 0, err
	}
	pictureID, err = request.PathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	return userID, pictureID, nil
}
