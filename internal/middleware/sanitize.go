package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// SanitizeJSON strips markup from every string in a JSON request body
// Keys containing "password" are left untouched
func SanitizeJSON() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()

	return func(c *gin.Context) {
		if !hasJSONBody(c.Request) {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "unable to read request body"})
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		decoder := json.NewDecoder(bytes.NewReader(buf))
		decoder.UseNumber()
		var body interface{}
		if err := decoder.Decode(&body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "malformed JSON body"})
			return
		}

		cleaned, err := json.Marshal(sanitizeValue(policy, "", body))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "malformed JSON body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(cleaned))
		c.Request.ContentLength = int64(len(cleaned))

		c.Next()
	}
}

func sanitizeValue(policy *bluemonday.Policy, key string, v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		if strings.Contains(strings.ToLower(key), "password") {
			return val
		}
		return cleanString(policy, val)
	case map[string]interface{}:
		for k, inner := range val {
			val[k] = sanitizeValue(policy, k, inner)
		}
		return val
	case []interface{}:
		for i, inner := range val {
			val[i] = sanitizeValue(policy, key, inner)
		}
		return val
	default:
		return val
	}
}

// cleanString sanitizes s and undoes entity escaping when that cannot reintroduce markup
func cleanString(policy *bluemonday.Policy, s string) string {
	clean := policy.Sanitize(s)
	unescaped := html.UnescapeString(clean)
	if policy.Sanitize(unescaped) == clean {
		return unescaped
	}
	return clean
}

func hasJSONBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json")
}
