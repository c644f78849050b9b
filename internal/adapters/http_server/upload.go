package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/app"
	"stayhub/internal/domain"
)

// Hard cap on the hotel_id form value; anything longer is rejected rather
// than truncated into a lookup against a different id.
const maxHotelIDBytes = 256

type uploadOK struct {
	Message   string   `json:"message"`
	ImageURLs []string `json:"imageUrls"`
}

// Upload-side server errors carry an "error" key instead of "message", and
// parse/limit failures are reported apart from record-update failures so a
// client can tell "file stored, record not updated" from "upload failed".
func writeUploadError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
}

// uploadImages accepts a multipart form with a hotel_id field followed by up
// to MaxImageCount files under "images", each at most MaxImageBytes. Limits
// are enforced while the body streams in. Files hit the disk during parsing;
// the record update happens once, after the last file. A request that fails
// mid-way can therefore leave files on disk that no record references.
func (h *Handlers) uploadImages(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		writeUploadError(w, "Image upload failed")
		return
	}

	var hotelID string
	urls := []string{}
	files := 0

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Msg("multipart parse failed")
			writeUploadError(w, "Image upload failed")
			return
		}

		switch {
		case part.FormName() == "hotel_id" && part.FileName() == "":
			v, err := io.ReadAll(io.LimitReader(part, maxHotelIDBytes+1))
			part.Close()
			if err != nil {
				writeUploadError(w, "Image upload failed")
				return
			}
			if len(v) > maxHotelIDBytes {
				log.Warn().Int("limit", maxHotelIDBytes).Msg("hotel_id field too long")
				writeUploadError(w, "Image upload failed")
				return
			}
			hotelID = strings.TrimSpace(string(v))

		case part.FormName() == "images" && part.FileName() != "":
			files++
			if files > app.MaxImageCount {
				part.Close()
				observability.ObserveUploadRejected()
				log.Warn().Err(domain.ErrTooManyFiles).Int("limit", app.MaxImageCount).Msg("image upload failed")
				writeUploadError(w, "Image upload failed")
				return
			}
			// the disk destination is keyed by hotel_id, so the field has to
			// precede the files in the form
			if hotelID == "" {
				part.Close()
				writeUploadError(w, "Image upload failed")
				return
			}
			url, err := h.Uploads.SaveFile(hotelID, part.FileName(), part)
			part.Close()
			if err != nil {
				log.Warn().Err(err).Str("hotel_id", hotelID).Msg("image upload failed")
				writeUploadError(w, "Image upload failed")
				return
			}
			urls = append(urls, url)

		default:
			part.Close() // unknown field, skip
		}
	}

	if hotelID == "" {
		writeUploadError(w, "Image upload failed")
		return
	}

	if _, err := h.Uploads.Attach(r.Context(), hotelID, urls); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// the files written above stay on disk; the directory is keyed
			// by hotel_id and reused
			writeMessage(w, http.StatusNotFound, "Hotel not found")
			return
		}
		log.Error().Err(err).Str("hotel_id", hotelID).Msg("hotel record update failed")
		writeUploadError(w, "Failed to update hotel record")
		return
	}

	writeJSON(w, http.StatusOK, uploadOK{Message: "Images uploaded successfully", ImageURLs: urls})
}
