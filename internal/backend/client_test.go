package backend_test

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"mafqood/internal/backend"
	"mafqood/internal/config"
	"mafqood/internal/logging"
	"mafqood/internal/upload"
)

func testConfig(baseURL, naming string) *config.Config {
	return &config.Config{
		Backend: config.Backend{
			Environment:    config.EnvDevelopment,
			DevelopmentURL: baseURL,
			RequestTimeout: 5,
			FieldNaming:    naming,
		},
	}
}

func newTestClient(server *httptest.Server, naming string, tokens backend.TokenSource) *backend.Client {
	return backend.New(
		testConfig(server.URL, naming),
		tokens,
		logging.NewNop(),
		backend.WithHTTPClient(server.Client()),
	)
}

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

type failingDoer struct {
	err error
}

func (d failingDoer) Do(*http.Request) (*http.Response, error) { return nil, d.err }

func TestHistoryRequestShape(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotRequestID, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"lost_items": [], "found_items": []}`)
	}))
	defer server.Close()

	client := newTestClient(server, config.NamingCurrent, staticToken("tok-123"))
	history, err := client.History(context.Background(), "")
	if err != nil {
		t.Fatalf("History: %v", err)
	}

	if gotPath != "/api/v1/history" {
		t.Fatalf("expected versioned history path, got %q", gotPath)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatal("expected an X-Request-ID header")
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected Accept application/json, got %q", gotAccept)
	}
	if len(history.Lost) != 0 || len(history.Found) != 0 {
		t.Fatal("expected empty history")
	}
}

func TestLegacyNamingUsesUnversionedPrefix(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, `{"lost": [], "found": []}`)
	}))
	defer server.Close()

	client := newTestClient(server, config.NamingLegacy, nil)
	if _, err := client.History(context.Background(), ""); err != nil {
		t.Fatalf("History: %v", err)
	}
	if gotPath != "/api/history" {
		t.Fatalf("expected legacy history path, got %q", gotPath)
	}
	if client.FieldNames() != upload.LegacyFieldNames {
		t.Fatal("expected legacy field naming in effect")
	}
}

func TestEmptyTokenSkipsAuthorizationHeader(t *testing.T) {
	t.Parallel()

	var sawAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	client := newTestClient(server, config.NamingCurrent, staticToken(""))
	if _, err := client.History(context.Background(), ""); err != nil {
		t.Fatalf("History: %v", err)
	}
	if sawAuth {
		t.Fatal("expected no Authorization header for an empty token")
	}
}

func TestServerErrorCarriesStatusAndMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail": "Item not found"}`)
	}))
	defer server.Close()

	client := newTestClient(server, config.NamingCurrent, nil)
	_, err := client.Item(context.Background(), "missing", "")
	if !errors.Is(err, backend.ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}

	var serverErr *backend.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected *ServerError, got %T", err)
	}
	if serverErr.Status != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", serverErr.Status)
	}
	if serverErr.Message != "Item not found" {
		t.Fatalf("expected mined detail message, got %q", serverErr.Message)
	}
}

func TestTransportTimeoutClassification(t *testing.T) {
	t.Parallel()

	timeoutErr := &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}
	client := backend.New(
		testConfig("http://127.0.0.1:9", config.NamingCurrent),
		nil,
		logging.NewNop(),
		backend.WithHTTPClient(failingDoer{err: timeoutErr}),
	)

	_, err := client.History(context.Background(), "")
	if !errors.Is(err, backend.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if errors.Is(err, backend.ErrNetwork) {
		t.Fatal("timeouts must not also classify as network failures")
	}
}

func TestTransportNetworkClassification(t *testing.T) {
	t.Parallel()

	connErr := &url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}
	client := backend.New(
		testConfig("http://127.0.0.1:9", config.NamingCurrent),
		nil,
		logging.NewNop(),
		backend.WithHTTPClient(failingDoer{err: connErr}),
	)

	_, err := client.History(context.Background(), "")
	if !errors.Is(err, backend.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if errors.Is(err, backend.ErrTimeout) {
		t.Fatal("connection failures must not classify as timeouts")
	}
}

func TestReportLostSubmitsMultipartAndAssemblesGroup(t *testing.T) {
	t.Parallel()

	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0})
	}))
	defer imageServer.Close()

	var gotPath string
	var gotFields map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFields = readForm(t, r)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"item": {"id": "it-1", "title": "Black wallet", "image_url": "uploads/it-1.jpg"},
			"matches": [
				{"similarity": 0.55, "matched_item": {"id": "m1", "title": "wallet", "image_url": "a.jpg"}},
				{"similarity": 0.91, "matched_item": {"id": "m2", "title": "wallet", "image_url": "b.jpg"}},
				{"similarity": 0.70, "matched_item": {"id": "m3", "title": "wallet", "image_url": "c.jpg"}}
			]
		}`)
	}))
	defer server.Close()

	client := newTestClient(server, config.NamingCurrent, staticToken("tok"))
	group, err := client.ReportLost(context.Background(), backend.Report{
		ImageURI: imageServer.URL + "/photo.jpg",
		Fields: upload.Fields{
			Title:    "Black wallet",
			Location: "Dubai Mall",
			DateTime: "2024-05-01T10:00:00Z",
		},
		UserID: "u-1",
	})
	if err != nil {
		t.Fatalf("ReportLost: %v", err)
	}

	if gotPath != "/api/v1/lost" {
		t.Fatalf("expected lost submission path, got %q", gotPath)
	}
	if gotFields["title"] != "Black wallet" || gotFields["location"] != "Dubai Mall" {
		t.Fatalf("unexpected form fields: %v", gotFields)
	}
	if _, ok := gotFields["image"]; !ok {
		t.Fatal("expected image file part under the current name")
	}

	if group.Item.ID != "it-1" {
		t.Fatalf("expected echoed item, got %q", group.Item.ID)
	}
	if group.Item.ImageURL != server.URL+"/uploads/it-1.jpg" {
		t.Fatalf("expected image URL qualified against base, got %q", group.Item.ImageURL)
	}
	if group.Item.UserID != "u-1" {
		t.Fatalf("expected fallback user id, got %q", group.Item.UserID)
	}
	if len(group.Matches) != 3 {
		t.Fatalf("expected all matches kept, got %d", len(group.Matches))
	}
	if group.Matches[0].Similarity != 91 || group.Matches[2].Similarity != 55 {
		t.Fatalf("expected descending similarity, got %d..%d", group.Matches[0].Similarity, group.Matches[2].Similarity)
	}
}

func TestReportFoundPath(t *testing.T) {
	t.Parallel()

	imageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bytes"))
	}))
	defer imageServer.Close()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.WriteString(w, `{"item": {"id": "f-1", "title": "keys", "image_url": "k.jpg"}, "matches": []}`)
	}))
	defer server.Close()

	client := newTestClient(server, config.NamingCurrent, nil)
	if _, err := client.ReportFound(context.Background(), backend.Report{
		ImageURI: imageServer.URL,
		Fields:   upload.Fields{Title: "keys", Location: "metro", DateTime: "today"},
	}); err != nil {
		t.Fatalf("ReportFound: %v", err)
	}
	if gotPath != "/api/v1/found" {
		t.Fatalf("expected found submission path, got %q", gotPath)
	}
}

func TestItemEscapesIdentifier(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		io.WriteString(w, `{"id": "weird/id", "title": "x", "image_url": "a.jpg"}`)
	}))
	defer server.Close()

	client := newTestClient(server, config.NamingCurrent, nil)
	item, err := client.Item(context.Background(), "weird/id", "")
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	if gotPath != "/api/v1/items/weird%2Fid" {
		t.Fatalf("expected escaped identifier in path, got %q", gotPath)
	}
	if item.ID != "weird/id" {
		t.Fatalf("expected item decoded, got %q", item.ID)
	}
}

func readForm(t *testing.T, r *http.Request) map[string]string {
	t.Helper()

	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("parse request content type: %v", err)
	}
	fields := make(map[string]string)
	reader := multipart.NewReader(r.Body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		data, err := io.ReadAll(part)
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		fields[part.FormName()] = string(data)
	}
	return fields
}
