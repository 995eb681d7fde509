package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ingestion-service/internal/api/handlers"
	"ingestion-service/internal/api/middleware"
	"ingestion-service/internal/core/ingestion"
	"ingestion-service/internal/core/workbook"
	"ingestion-service/internal/domain"
	"ingestion-service/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var secret = []byte("segredo-de-teste")

func init() {
	gin.SetMode(gin.TestMode)
}

func token(t *testing.T, username string, roles ...string) string {
	t.Helper()
	claims := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"roles":    roles,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := claims.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func stockFile(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"ENVELOPE", "01-MAI", "02-MAI"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"SALDO", 10, 20}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func upload(t *testing.T, router http.Handler, path, bearer, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status  string                  `json:"status"`
	Message string                  `json:"message"`
	Code    string                  `json:"code"`
	Data    *domain.IngestionResult `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func newRouter(store *storage.MemoryStore) *gin.Engine {
	now := func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }
	svc := ingestion.NewService(workbook.NewLoader(1<<20), store, zap.NewNop(), ingestion.WithClock(now))
	return NewRouter(handlers.NewIngestionHandler(svc), middleware.RequireUser(secret, []string{"guest"}), 1<<20)
}

func TestUpload_Stock(t *testing.T) {
	store := storage.NewMemoryStore()
	rec := upload(t, newRouter(store), "/api/v1/upload/estoque", token(t, "ana"), "estoque.xlsx", stockFile(t))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decode(t, rec)
	assert.Equal(t, "success", env.Status)
	require.NotNil(t, env.Data)
	assert.Equal(t, domain.ReportStock, env.Data.ReportType)
	assert.Equal(t, 2, env.Data.TotalRecords())

	rows := store.Records(domain.TableStockMetrics)
	require.Len(t, rows, 2)
	assert.Equal(t, "ana", rows[0].UploadedBy)
}

func TestUpload_DryRun(t *testing.T) {
	store := storage.NewMemoryStore()
	rec := upload(t, newRouter(store), "/api/v1/upload/estoque?dryRun=true", token(t, "ana"), "estoque.xlsx", stockFile(t))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Data.DryRun)
	assert.Len(t, env.Data.Records, 2)
	assert.Equal(t, 0, store.Writes())
}

func TestUpload_Errors(t *testing.T) {
	router := newRouter(storage.NewMemoryStore())

	tests := []struct {
		name     string
		path     string
		bearer   string
		fileName string
		content  []byte
		status   int
		code     string
	}{
		{"missing token", "/api/v1/upload/estoque", "", "estoque.xlsx", stockFile(t), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"bad token", "/api/v1/upload/estoque", "abc.def.ghi", "estoque.xlsx", stockFile(t), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"guest role", "/api/v1/upload/estoque", token(t, "visitante", "guest"), "estoque.xlsx", stockFile(t), http.StatusForbidden, "FORBIDDEN"},
		{"wrong extension", "/api/v1/upload/estoque", token(t, "ana"), "estoque.csv", []byte("a;b"), http.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT"},
		{"missing file", "/api/v1/upload/estoque", token(t, "ana"), "", nil, http.StatusBadRequest, ""},
		{"no structure", "/api/v1/upload/propostas", token(t, "ana"), "propostas.xlsx", stockFile(t), http.StatusUnprocessableEntity, "STRUCTURE_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := upload(t, router, tt.path, tt.bearer, tt.fileName, tt.content)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			env := decode(t, rec)
			assert.Equal(t, "error", env.Status)
			assert.Equal(t, tt.code, env.Code)
		})
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(storage.NewMemoryStore()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "UP")
}
