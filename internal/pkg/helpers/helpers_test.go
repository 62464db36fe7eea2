package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDuration("5s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("nonsense", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
}

func TestCalculateSliceIndices(t *testing.T) {
	start, end := CalculateSliceIndices(1, 10, 25)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)

	start, end = CalculateSliceIndices(3, 10, 25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	start, end = CalculateSliceIndices(9, 10, 25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	page, info := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, int64(5), info.TotalItems)
	assert.Equal(t, 2, info.CurrentPage)

	page, info = Paginate([]int{}, 1, 10)
	assert.Empty(t, page)
	assert.Equal(t, 1, info.TotalPages)
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("should report absence of both parameters", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/students", nil)
		_, _, ok := ParsePaginationParams(c)
		assert.False(t, ok)
	})

	t.Run("should fall back to defaults on bad values", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/students?page=-1&size=1000", nil)
		page, size, ok := ParsePaginationParams(c)
		assert.True(t, ok)
		assert.Equal(t, DefaultPage, page)
		assert.Equal(t, DefaultPageSize, size)
	})
}
