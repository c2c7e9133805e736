package utils

import (
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"cover.png":              "cover.png",
		"Algebra Cover.PNG":      "algebra-cover.png",
		"../../etc/passwd":       "passwd",
		`C:\Users\me\résumé.pdf`: "resume.pdf",
		"":                       "file",
		"..":                     "file",
		"con.txt":                "_con.txt",
		"weird.p$g":              "weird",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFileName(in), in)
	}
}

func TestStorageKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	re := regexp.MustCompile(`^cover-1700000000000-[0-9a-f-]{36}\.png$`)

	key := StorageKey("cover", "My Cover.png", "image/png", now)
	assert.Regexp(t, re, key)

	other := StorageKey("cover", "My Cover.png", "image/png", now)
	assert.NotEqual(t, key, other)

	noExt := StorageKey("file", "README", "", now)
	assert.Regexp(t, `\.bin$`, noExt)
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(query string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/courses?"+query, nil)
		return c
	}

	assert.Nil(t, GetPaginationParams(newCtx("")))

	p := GetPaginationParams(newCtx("page=3&limit=10"))
	require.NotNil(t, p)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 20, p.Offset)

	p = GetPaginationParams(newCtx("page=0&limit=1000"))
	require.NotNil(t, p)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset)
}
