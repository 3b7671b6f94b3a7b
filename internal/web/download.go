package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/xxh3"
)

// writeDownload sends a generated file with a content-hash ETag so
// repeated exports of unchanged data return 304, and gzips text formats
// for clients that accept it.
func (h *Handler) writeDownload(w http.ResponseWriter, r *http.Request, filename, contentType string, data []byte, compressible bool) {
	etag := fmt.Sprintf(`"%x"`, xxh3.Hash(data))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if compressible && h.cfg.Export.Gzip && strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		if _, err := gz.Write(data); err != nil {
			log.Error().Err(err).Str("file", filename).Msg("gzip write")
			return
		}
		if err := gz.Close(); err != nil {
			log.Error().Err(err).Str("file", filename).Msg("gzip close")
		}
		return
	}

	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		log.Error().Err(err).Str("file", filename).Msg("download write")
	}
}
