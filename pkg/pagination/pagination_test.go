package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(query string) Params {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParseDefaults(t *testing.T) {
	p := paramsFor("")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, "created_at", p.Sort)
	assert.Equal(t, "desc", p.Order)
}

func TestParseClampsPerPage(t *testing.T) {
	assert.Equal(t, MaxPerPage, paramsFor("per_page=5000").PerPage)
	assert.Equal(t, DefaultPerPage, paramsFor("per_page=0").PerPage)
	assert.Equal(t, DefaultPerPage, paramsFor("per_page=-3").PerPage)
	assert.Equal(t, DefaultPage, paramsFor("page=-1").Page)
}

func TestParseRejectsUnknownOrder(t *testing.T) {
	assert.Equal(t, "asc", paramsFor("order=asc").Order)
	assert.Equal(t, "desc", paramsFor("order=sideways").Order)
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, PerPage: 20}
	assert.Equal(t, 40, p.Offset())
}

func TestNewMeta(t *testing.T) {
	p := Params{Page: 2, PerPage: 10}
	meta := NewMeta(p, 25, 10)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 3, meta.LastPage)
	assert.Equal(t, 11, meta.From)
	assert.Equal(t, 20, meta.To)
	assert.True(t, meta.HasMorePages)
}

func TestNewMetaPastLastPage(t *testing.T) {
	p := Params{Page: 9, PerPage: 10}
	meta := NewMeta(p, 25, 0)
	assert.Equal(t, 0, meta.From)
	assert.Equal(t, 0, meta.To)
	assert.Equal(t, 3, meta.LastPage)
	assert.False(t, meta.HasMorePages)
}

func TestNewMetaEmpty(t *testing.T) {
	meta := NewMeta(Params{Page: 1, PerPage: 15}, 0, 0)
	assert.Equal(t, 1, meta.LastPage)
	assert.Zero(t, meta.From)
	assert.False(t, meta.HasMorePages)
}
