package moderation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCheckProfanity(t *testing.T) {
	res := Check("well fuck that")
	assert.False(t, res.OK)
	assert.Equal(t, ReasonProfanity, res.Reason)
	assert.Contains(t, res.Matches, "fuck")
}

func TestCheckLeetspeakVariants(t *testing.T) {
	for _, text := range []string{"f4ck off", "fuuuuck", "FuCk", "b!tch please", "what a$$hole"} {
		assert.False(t, Check(text).OK, "expected %q to be flagged", text)
	}
}

func TestCheckCleanText(t *testing.T) {
	res := Check("How do I prepare for CAT while working full time?")
	assert.True(t, res.OK)
	assert.Empty(t, res.Reason)
}

func TestCheckRepeatedCharacters(t *testing.T) {
	res := Check("hellooooo there")
	assert.False(t, res.OK)
	assert.Equal(t, ReasonRepeatedChars, res.Reason)

	// Four in a row is still fine.
	assert.True(t, Check("helloooo").OK)
}

func TestCheckExcessiveCapitalization(t *testing.T) {
	res := Check("PLEASE HELP ME NOW")
	assert.False(t, res.OK)
	assert.Equal(t, ReasonExcessiveCaps, res.Reason)

	// Short shouting is tolerated.
	assert.True(t, Check("HELP ME").OK)
	// Mixed case under the ratio passes.
	assert.True(t, Check("Please HELP me with this one").OK)
}

func TestIsAppropriateContent(t *testing.T) {
	assert.False(t, IsAppropriateContent("THIS IS ALL UPPERCASE TEXT"))
	assert.True(t, IsAppropriateContent("this is fine"))
}

func TestMaskPreservesSurroundingText(t *testing.T) {
	masked := Mask("before fuck after")
	assert.Equal(t, "before ████ after", masked)

	// Leet variant is masked at its original span length.
	masked = Mask("no f4ck here")
	assert.Equal(t, "no ████ here", masked)

	// Clean text is returned untouched.
	clean := "nothing wrong here"
	assert.Equal(t, clean, Mask(clean))
}

func TestMaskKeepsRuneLength(t *testing.T) {
	in := "x fuuuck y"
	out := Mask(in)
	assert.Equal(t, len([]rune(in)), len([]rune(out)))
	assert.True(t, strings.HasPrefix(out, "x "))
	assert.True(t, strings.HasSuffix(out, " y"))
}

func TestMiddlewareRejectsProfanity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/messages", Middleware("text"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	body, _ := json.Marshal(map[string]string{"text": "fuck this"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/messages", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, ReasonProfanity, resp["reason"])
}

func TestMiddlewareRestoresBodyForHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/messages", Middleware("text"), func(c *gin.Context) {
		var in struct {
			Text string `json:"text"`
		}
		assert.NoError(t, c.ShouldBindJSON(&in))
		c.JSON(http.StatusOK, gin.H{"echo": in.Text})
	})

	body, _ := json.Marshal(map[string]string{"text": "a perfectly fine question"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/messages", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a perfectly fine question")
}

func TestMiddlewareIgnoresMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/x", Middleware("text", "title"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	body, _ := json.Marshal(map[string]string{"other": "whatever"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/x", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
