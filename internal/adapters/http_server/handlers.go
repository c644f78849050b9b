package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

type Handlers struct {
	Catalog   *app.CatalogService
	Uploads   *app.UploadService
	UploadDir string
	UploadRPS int
}

const requiredFieldsMsg = "Required fields: hotel_id, title, images, description, guest_count, " +
	"bedroom_count, bathroom_count, amenities, host_information, address, " +
	"latitude, longitude"

// hotelBody is the envelope every catalog response uses; the reference keeps
// the "hotel" key even when the value is a list.
type hotelBody struct {
	Message string `json:"message"`
	Hotel   any    `json:"hotel"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/hotel", h.listHotels)
	s.mux.Post("/hotel", h.createHotel)
	s.mux.Get("/hotel/{id}", h.getHotel)
	s.mux.Put("/hotel/{id}", h.updateHotel)
	s.mux.Get("/hotel-details/{name}/{id}", h.getHotelDetails)

	// the reference also mounted the upload router as a catch-all
	up := s.mux.With(RateLimit(h.UploadRPS))
	up.Post("/images", h.uploadImages)
	up.Post("/*", h.uploadImages)

	if h.UploadDir != "" {
		s.mux.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadDir))))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func writeConditional(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Catalog.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list hotels failed")
		writeMessage(w, http.StatusInternalServerError, "Error fetching hotels")
		return
	}
	// 201 on a read is odd, but it is the contract clients already depend on
	writeJSON(w, http.StatusCreated, hotelBody{Message: "Find all Hotels successfully", Hotel: hotels})
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in app.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	rec, err := h.Catalog.Create(r.Context(), in)
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		writeMessage(w, http.StatusBadRequest, requiredFieldsMsg)
	case errors.Is(err, domain.ErrDuplicateID):
		writeMessage(w, http.StatusBadRequest, "Hotel with this ID already exists")
	case err != nil:
		log.Error().Err(err).Msg("create hotel failed")
		writeMessage(w, http.StatusInternalServerError, "Error adding hotel")
	default:
		writeJSON(w, http.StatusCreated, hotelBody{Message: "Hotel added successfully", Hotel: rec})
	}
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Catalog.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Could not find this hotel")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("get hotel failed")
		writeMessage(w, http.StatusInternalServerError, "Error fetching hotel")
		return
	}
	writeConditional(w, r, hotelBody{Message: "Find this Hotel successfully", Hotel: rec})
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	var in app.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	rec, err := h.Catalog.Update(r.Context(), chi.URLParam(r, "id"), in)
	if errors.Is(err, domain.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "This Hotel doesn't exist")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("update hotel failed")
		writeMessage(w, http.StatusInternalServerError, "Error updating hotel")
		return
	}
	writeJSON(w, http.StatusOK, hotelBody{Message: "Hotel updated successfully", Hotel: rec})
}

func (h *Handlers) getHotelDetails(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Catalog.GetBySlugAndID(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Could not find this hotel")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("get hotel details failed")
		writeMessage(w, http.StatusInternalServerError, "Error fetching hotel")
		return
	}
	writeConditional(w, r, hotelBody{Message: "Find this Hotel successfully", Hotel: rec})
}
