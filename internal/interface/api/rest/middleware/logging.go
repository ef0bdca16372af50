package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	maxLogBodySize = 1 << 12 // 4 KB
	masked         = "***"
)

var (
	sensitiveFields = []string{"password", "access_token"}

	// fallbacks for bodies that do not decode: truncated JSON and form encoding
	jsonSecretRe = regexp.MustCompile(`("(?:password|access_token)"\s*:\s*)"(?:[^"\\]|\\.)*(?:"|$)`)
	formSecretRe = regexp.MustCompile(`((?:^|&)(?:password|access_token)=)[^&]*`)
)

func RequestLogGin(logger *zap.Logger, mCounter *prometheus.CounterVec, latency *prometheus.HistogramVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions ||
			c.Request.URL.Path == "/favicon.ico" ||
			strings.HasSuffix(c.Request.URL.Path, "/metrics") {
			c.Next()
			return
		}

		start := time.Now()

		var body string
		if c.Request.Body != nil {
			ct := c.GetHeader("Content-Type")
			if strings.HasPrefix(ct, "multipart/form-data") {
				body = "<multipart/form-data omitted>"
			} else {
				var buf bytes.Buffer
				_, _ = io.Copy(&buf, io.LimitReader(c.Request.Body, maxLogBodySize))
				// the handler still needs the bytes past the logged prefix
				c.Request.Body = struct {
					io.Reader
					io.Closer
				}{io.MultiReader(bytes.NewReader(buf.Bytes()), c.Request.Body), c.Request.Body}
				body = maskBody(buf.Bytes())
			}
		}

		c.Next()

		status := c.Writer.Status()
		if mCounter != nil {
			mCounter.WithLabelValues("app_requests_total").Inc()
		}
		if latency != nil {
			latency.WithLabelValues(c.Request.Method, c.FullPath(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
		}

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("url", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("body", body),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// maskBody hides credential fields of a JSON object body. Bodies that do not
// decode, such as a JSON prefix cut at maxLogBodySize or a urlencoded form,
// are masked by pattern instead.
func maskBody(raw []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		out := jsonSecretRe.ReplaceAll(raw, []byte(`${1}"`+masked+`"`))
		return string(formSecretRe.ReplaceAll(out, []byte("${1}"+masked)))
	}
	changed := false
	for _, k := range sensitiveFields {
		if _, ok := obj[k]; ok {
			obj[k] = masked
			changed = true
		}
	}
	if !changed {
		return string(raw)
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return ""
	}
	return string(out)
}
