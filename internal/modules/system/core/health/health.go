package health

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modassist/core/internal/modules/processing/knowledge"
	"github.com/modassist/core/internal/pkg/response"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var processStart = time.Now()

// RegisterRoutes mounts the liveness endpoint. The knowledge service is
// optional; with retrieval disabled the corpus fields report zero.
func RegisterRoutes(rg *gin.RouterGroup, ks *knowledge.Service, retrievalEnabled bool) {
	rg.GET("/health", func(c *gin.Context) {
		chunkCount := 0
		corpusOK := !retrievalEnabled
		if retrievalEnabled && ks != nil {
			if corpus, err := ks.Corpus(); err == nil {
				chunkCount = corpus.ChunkCount
				corpusOK = true
			}
		}

		response.OK(c, gin.H{
			"status":      "ok",
			"version":     Version,
			"go_version":  runtime.Version(),
			"uptime_ms":   time.Since(processStart).Milliseconds(),
			"corpus_ok":   corpusOK,
			"chunk_count": chunkCount,
		})
	})
}
