package documents_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"

	"homefax-backend/internal/bootstrap"
	"homefax-backend/internal/shared/config"
)

func buildTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		Env:             "dev",
		BlobStoreType:   "local",
		LocalStoreDir:   t.TempDir(),
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func createProperty(t *testing.T, router *gin.Engine) string {
	t.Helper()

	body := bytes.NewBufferString(`{"name":"Test House"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties", body)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("create property: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		PropertyID string `json:"propertyId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode property response: %v", err)
	}
	if created.PropertyID == "" {
		t.Fatalf("expected propertyId, got empty")
	}
	return created.PropertyID
}

func uploadDocument(t *testing.T, router *gin.Engine, propertyID, fileName, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	fileWriter, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form part: %v", err)
	}
	if _, err := fileWriter.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties/"+propertyID+"/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestDocumentsUploadAndGet(t *testing.T) {
	router := buildTestApp(t)
	propertyID := createProperty(t, router)

	resp := uploadDocument(t, router, propertyID, "receipt.jpg", "image/jpeg", []byte("jpeg bytes"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		DocumentID string `json:"documentId"`
		FileName   string `json:"fileName"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if created.DocumentID == "" {
		t.Fatalf("expected documentId, got empty")
	}
	if created.FileName != "receipt.jpg" {
		t.Fatalf("expected fileName receipt.jpg, got %s", created.FileName)
	}
	if created.Status != "pending" {
		t.Fatalf("expected status pending at creation, got %s", created.Status)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/properties/"+propertyID+"/documents/"+created.DocumentID, nil)
	addGuestHeader(reqGet)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}

	var fetched struct {
		DocumentID string `json:"documentId"`
		PropertyID string `json:"propertyId"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if fetched.DocumentID != created.DocumentID || fetched.PropertyID != propertyID {
		t.Fatalf("fetched document mismatch: %+v", fetched)
	}
}

func TestDocumentsUploadRejectsUnsupportedType(t *testing.T) {
	router := buildTestApp(t)
	propertyID := createProperty(t, router)

	resp := uploadDocument(t, router, propertyID, "notes.txt", "text/plain", []byte("plain text"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", resp.Code, resp.Body.String())
	}

	var errResp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Error.Code != "unsupported_type" {
		t.Fatalf("expected error code unsupported_type, got %s", errResp.Error.Code)
	}
}

func TestDocumentsForeignGuestCannotSee(t *testing.T) {
	router := buildTestApp(t)
	propertyID := createProperty(t, router)

	resp := uploadDocument(t, router, propertyID, "receipt.jpg", "image/jpeg", []byte("jpeg bytes"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties/"+propertyID+"/documents/"+created.DocumentID, nil)
	req.Header.Set("X-Guest-Id", "other-guest")
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, req)

	if respGet.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another guest, got %d", respGet.Code)
	}
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}
