package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	distMaxAge   = 24 * time.Hour
	publicMaxAge = 7 * 24 * time.Hour
)

// SPAHandler serves the built frontend for every path the API does not own.
type SPAHandler struct {
	distDir   string
	publicDir string
}

func NewSPAHandler(distDir, publicDir string) *SPAHandler {
	return &SPAHandler{distDir: distDir, publicDir: publicDir}
}

// Serve answers unmatched routes. API paths and non-read methods get a JSON
// 404; files are looked up in the build directory, then the public directory,
// and anything else falls back to index.html.
func (h *SPAHandler) Serve(c *gin.Context) {
	reqPath := c.Request.URL.Path
	if strings.HasPrefix(reqPath, "/api/") || reqPath == "/api" ||
		(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	if file, ok := lookupFile(h.distDir, reqPath); ok {
		serveCached(c, file, distMaxAge)
		return
	}
	if file, ok := lookupFile(h.publicDir, reqPath); ok {
		serveCached(c, file, publicMaxAge)
		return
	}

	if index, ok := lookupFile(h.distDir, "/index.html"); ok {
		c.File(index)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Materrax API Server",
		"note":    "Run the frontend build to serve the web app",
		"api":     "Use /api/* for API requests",
	})
}

// lookupFile resolves urlPath inside dir, refusing anything that escapes it.
func lookupFile(dir, urlPath string) (string, bool) {
	if dir == "" {
		return "", false
	}

	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		return "", false
	}

	file := filepath.Join(dir, filepath.FromSlash(clean))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", false
	}
	return file, true
}

func serveCached(c *gin.Context, file string, maxAge time.Duration) {
	c.Header("Cache-Control", "public, max-age="+strconv.FormatInt(int64(maxAge/time.Second), 10))
	c.File(file)
}
