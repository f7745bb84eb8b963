package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "asha@example.com", NormalizeEmail("  Asha@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "how-to-crack-case-interviews", Slugify("How to crack CASE interviews?"))
	assert.Equal(t, "iim-a-vs-iim-b", Slugify("  IIM A vs. IIM B!  "))
	assert.Equal(t, "", Slugify("???"))

	long := Slugify(strings.Repeat("very long title ", 10))
	assert.LessOrEqual(t, len(long), 80)
}

func TestValidateName(t *testing.T) {
	assert.True(t, ValidateName("Priya Sharma"))
	assert.False(t, ValidateName("P"))
	assert.False(t, ValidateName("<script>alert(1)</script>"))
	assert.False(t, ValidateName("   "))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 10))
	assert.Equal(t, "hel", TruncateString("hello", 3))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "bold move", StripHTML("<b>bold</b> move"))
	assert.Equal(t, "alert(1)", StripHTML("<script>alert(1)</script>"))
}
