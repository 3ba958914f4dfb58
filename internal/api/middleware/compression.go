package middleware

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// Minimum body size to compress; smaller bodies are sent as is
	MinLength int
	// Gzip compression level (1-9, higher = better compression but slower)
	Level int
	// Path prefixes that are never compressed
	ExcludedPaths []string
}

// DefaultCompressionConfig compresses JSON bodies of 1KB or more, such as the
// currency list and the swagger document. /metrics negotiates its own encoding.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinLength:     1024,
		Level:         gzip.DefaultCompression,
		ExcludedPaths: []string{"/metrics"},
	}
}

// compressible reports whether a response of this content type is worth compressing
func compressible(contentType string) bool {
	for _, prefix := range []string{"application/json", "application/javascript", "text/"} {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}

// Compression returns a middleware that gzips responses for clients that accept it.
// It must run outside Recovery so that panic responses are flushed too.
func Compression(cfg CompressionConfig) gin.HandlerFunc {
	pool := sync.Pool{
		New: func() any {
			gz, err := gzip.NewWriterLevel(nil, cfg.Level)
			if err != nil {
				gz = gzip.NewWriter(nil)
			}
			return gz
		},
	}

	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		for _, prefix := range cfg.ExcludedPaths {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		writer := &gzipResponseWriter{
			ResponseWriter: c.Writer,
			minLength:      cfg.MinLength,
		}
		c.Writer = writer
		c.Header("Vary", "Accept-Encoding")

		c.Next()

		c.Writer = writer.ResponseWriter
		writer.finish(&pool)
	}
}

// gzipResponseWriter buffers the body so the size and content type are known
// before deciding on compression
type gzipResponseWriter struct {
	gin.ResponseWriter
	minLength int
	buf       bytes.Buffer
}

func (g *gzipResponseWriter) Write(data []byte) (int, error) {
	return g.buf.Write(data)
}

func (g *gzipResponseWriter) WriteString(s string) (int, error) {
	return g.buf.WriteString(s)
}

func (g *gzipResponseWriter) Size() int {
	return g.buf.Len()
}

func (g *gzipResponseWriter) Written() bool {
	return g.buf.Len() > 0 || g.ResponseWriter.Written()
}

// Flush is a no-op until the handler chain returns
func (g *gzipResponseWriter) Flush() {}

func (g *gzipResponseWriter) finish(pool *sync.Pool) {
	content := g.buf.Bytes()
	if len(content) < g.minLength || !compressible(g.Header().Get("Content-Type")) {
		if len(content) > 0 {
			_, _ = g.ResponseWriter.Write(content)
		}
		return
	}

	g.Header().Set("Content-Encoding", "gzip")
	g.Header().Del("Content-Length")

	gz := pool.Get().(*gzip.Writer)
	defer pool.Put(gz)
	gz.Reset(g.ResponseWriter)
	_, _ = gz.Write(content)
	_ = gz.Close()
}
