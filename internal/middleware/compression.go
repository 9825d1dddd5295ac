package middleware

import (
	"compress/gzip"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type Middleware func(http.Handler, *zap.SugaredLogger) http.Handler

var gzipWriters = sync.Pool{
	New: func() any {
		gz, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
		return gz
	},
}

// compressWriter decides on the first header write whether the body is
// worth compressing; images and empty responses pass through untouched.
type compressWriter struct {
	http.ResponseWriter
	gz      *gzip.Writer
	decided bool
}

func (cw *compressWriter) WriteHeader(status int) {
	if !cw.decided {
		cw.decide(status)
	}
	cw.ResponseWriter.WriteHeader(status)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if !cw.decided {
		if cw.Header().Get("Content-Type") == "" {
			cw.Header().Set("Content-Type", http.DetectContentType(b))
		}
		cw.WriteHeader(http.StatusOK)
	}
	if cw.gz == nil {
		return cw.ResponseWriter.Write(b)
	}
	return cw.gz.Write(b)
}

func (cw *compressWriter) decide(status int) {
	cw.decided = true
	header := cw.Header()
	if status == http.StatusNoContent || status == http.StatusNotModified ||
		header.Get("Content-Encoding") != "" || !compressible(header.Get("Content-Type")) {
		return
	}

	cw.gz = gzipWriters.Get().(*gzip.Writer)
	cw.gz.Reset(cw.ResponseWriter)
	header.Set("Content-Encoding", "gzip")
	header.Del("Content-Length")
}

func (cw *compressWriter) close() error {
	if cw.gz == nil {
		return nil
	}
	err := cw.gz.Close()
	gzipWriters.Put(cw.gz)
	cw.gz = nil
	return err
}

func compressible(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasPrefix(mediaType, "text/")
}

// WriteWithCompression gzips JSON and text responses for clients that accept it.
func WriteWithCompression(h http.Handler, sugar *zap.SugaredLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			h.ServeHTTP(w, r)
			return
		}

		w.Header().Add("Vary", "Accept-Encoding")
		cw := &compressWriter{ResponseWriter: w}
		defer func() {
			if err := cw.close(); err != nil {
				sugar.Errorw("failed to flush gzip body", "path", r.URL.Path, "error", err)
			}
		}()

		h.ServeHTTP(cw, r)
	})
}

type gzipBody struct {
	src io.ReadCloser
	*gzip.Reader
}

func (b *gzipBody) Close() error {
	if err := b.Reader.Close(); err != nil {
		b.src.Close()
		return err
	}
	return b.src.Close()
}

// ReadWithCompression unpacks gzip request bodies.
func ReadWithCompression(h http.Handler, sugar *zap.SugaredLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			h.ServeHTTP(w, r)
			return
		}

		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			sugar.Debugw("failed to create gzip reader", "error", err)
			writeMessage(w, http.StatusBadRequest, "Invalid gzip body")
			return
		}
		body := &gzipBody{src: r.Body, Reader: zr}
		defer body.Close()

		r.Body = body
		r.Header.Del("Content-Encoding")
		r.ContentLength = -1

		h.ServeHTTP(w, r)
	})
}
