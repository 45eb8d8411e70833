package dispatch_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comichub/internal/catalog"
	"comichub/internal/dispatch"
)

func newDispatchServer(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	router := gin.New()
	dispatch.NewHandler(f.router).RegisterRoutes(router)
	return router, f
}

func postDB(t *testing.T, router *gin.Engine, authHeader string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if raw, isRaw := body.(string); isRaw {
		reader = bytes.NewReader([]byte(raw))
	} else {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(http.MethodPost, "/db", reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDBEndpointSuccessEnvelope(t *testing.T) {
	router, _ := newDispatchServer(t)

	w := postDB(t, router, "", gin.H{"action": "get_all_series"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Data)
}

func TestDBEndpointUnknownAction(t *testing.T) {
	router, f := newDispatchServer(t)

	w := postDB(t, router, f.token, gin.H{"action": "truncate_series"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown action")
}

func TestDBEndpointInvalidAction(t *testing.T) {
	router, _ := newDispatchServer(t)

	w := postDB(t, router, "", gin.H{"params": gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid action")

	w = postDB(t, router, "", gin.H{"action": strings.Repeat("a", 101)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid action")
}

func TestDBEndpointMalformedJSON(t *testing.T) {
	router, _ := newDispatchServer(t)

	w := postDB(t, router, "", `{"action": "get_all_series"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDBEndpointUnauthorizedWrite(t *testing.T) {
	router, f := newDispatchServer(t)

	w := postDB(t, router, "", gin.H{"action": "create_series", "params": gin.H{"title": "X"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized")
	assert.Equal(t, 0, f.seriesCount(t))
}

func TestDBEndpointAuthorizedWrite(t *testing.T) {
	router, f := newDispatchServer(t)

	w := postDB(t, router, f.token, gin.H{"action": "create_series", "params": gin.H{"title": "Tower Climb"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Tower Climb"`)
	assert.Equal(t, 1, f.seriesCount(t))
}

func TestDBEndpointValidationErrorIs400(t *testing.T) {
	router, f := newDispatchServer(t)

	w := postDB(t, router, f.token, gin.H{"action": "get_series", "params": gin.H{"id": "1; DROP TABLE series"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid id format")
}

func TestDBEndpointRateLimitIs400(t *testing.T) {
	router, f := newDispatchServer(t)
	ctx := t.Context()

	created, err := f.catalog.CreateSeries(ctx, catalog.SeriesInput{Title: "Hot"})
	require.NoError(t, err)

	for i := 0; i < 11; i++ {
		ch, cerr := f.catalog.CreateChapter(ctx, catalog.ChapterInput{SeriesID: created.ID, ChapterNumber: float64(i + 1)})
		require.NoError(t, cerr)
		w := postDB(t, router, "", gin.H{"action": "record_chapter_view", "params": gin.H{
			"chapter_id": ch.ID, "series_id": created.ID, "viewer_hash": "hammering",
		}})
		if i < 10 {
			require.Equal(t, http.StatusOK, w.Code, "view %d", i+1)
		} else {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}
