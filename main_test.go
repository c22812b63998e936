package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jleboube/scout/database"
	"github.com/jleboube/scout/middleware"
	"github.com/jleboube/scout/services"
)

func TestMain(m *testing.M) {
	// The per-IP limiter is shared across tests; a handful of logins would
	// trip the auth bucket.
	os.Setenv("RATE_LIMIT_ENABLED", "false")
	os.Exit(m.Run())
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	uploads, err := services.NewUploadStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating upload store: %v", err)
	}

	return newApp(appDeps{
		db:       db,
		sessions: services.NewSessionStore(),
		uploads:  uploads,
		codes:    services.DefaultRegistrationCodes,
	})
}

func jsonRequest(method, path, cookie string, body interface{}) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", middleware.SessionCookie+"="+cookie)
	}
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

// sessionCookie extracts the session token issued by a register/login reply.
func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()

	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("response carries no session cookie")
	return ""
}

func registerUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	resp := doRequest(t, app, jsonRequest("POST", "/api/register", "", fiber.Map{
		"email":            email,
		"password":         "pw123",
		"teamId":           1,
		"registrationCode": "SCOUT2025",
	}))
	if resp.StatusCode != 200 {
		t.Fatalf("register %s: expected 200, got %d", email, resp.StatusCode)
	}
	return sessionCookie(t, resp)
}

// multipartReportRequest builds a report create/update request with form
// fields and an optional attached file.
func multipartReportRequest(t *testing.T, method, path, cookie string, fields map[string]string, fileName, fileType string, fileContent []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, val := range fields {
		if err := w.WriteField(key, val); err != nil {
			t.Fatalf("writing form field %s: %v", key, err)
		}
	}
	if fileName != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="sprayChart"; filename="%s"`, fileName))
		header.Set("Content-Type", fileType)
		part, err := w.CreatePart(header)
		if err != nil {
			t.Fatalf("creating file part: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("writing file part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if cookie != "" {
		req.Header.Set("Cookie", middleware.SessionCookie+"="+cookie)
	}
	return req
}

func TestEndToEndReportLifecycle(t *testing.T) {
	app := newTestApp(t)

	// Register
	resp := doRequest(t, app, jsonRequest("POST", "/api/register", "", fiber.Map{
		"email":            "a@x.com",
		"password":         "pw123",
		"teamId":           1,
		"registrationCode": "SCOUT2025",
	}))
	if resp.StatusCode != 200 {
		t.Fatalf("register: expected 200, got %d", resp.StatusCode)
	}
	cookie := sessionCookie(t, resp)

	var reg struct {
		Message string `json:"message"`
		UserID  uint   `json:"userId"`
	}
	decodeBody(t, resp, &reg)
	if reg.UserID != 1 {
		t.Errorf("expected userId 1, got %d", reg.UserID)
	}

	// Create
	resp = doRequest(t, app, jsonRequest("POST", "/api/reports", cookie, fiber.Map{
		"playerName": "Joe",
	}))
	if resp.StatusCode != 200 {
		t.Fatalf("create report: expected 200, got %d", resp.StatusCode)
	}
	var created struct {
		ReportID uint `json:"reportId"`
	}
	decodeBody(t, resp, &created)
	if created.ReportID != 1 {
		t.Errorf("expected reportId 1, got %d", created.ReportID)
	}

	// Get
	resp = doRequest(t, app, jsonRequest("GET", "/api/reports/1", cookie, nil))
	if resp.StatusCode != 200 {
		t.Fatalf("get report: expected 200, got %d", resp.StatusCode)
	}
	var report struct {
		ID         uint   `json:"id"`
		PlayerName string `json:"playerName"`
	}
	decodeBody(t, resp, &report)
	if report.ID != 1 || report.PlayerName != "Joe" {
		t.Errorf("expected {id:1, playerName:Joe}, got %+v", report)
	}

	// Delete
	resp = doRequest(t, app, jsonRequest("DELETE", "/api/reports/1", cookie, nil))
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("delete report: expected 200, got %d", resp.StatusCode)
	}

	// Gone
	resp = doRequest(t, app, jsonRequest("GET", "/api/reports/1", cookie, nil))
	resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("deleted report: expected 404, got %d", resp.StatusCode)
	}
}

func TestRegister_RejectsInvalidCode(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, jsonRequest("POST", "/api/register", "", fiber.Map{
		"email":            "a@x.com",
		"password":         "pw123",
		"registrationCode": "NOTACODE",
	}))
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error != "Invalid registration code" {
		t.Errorf("unexpected error message %q", body.Error)
	}
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	app := newTestApp(t)

	registerUser(t, app, "a@x.com")

	resp := doRequest(t, app, jsonRequest("POST", "/api/register", "", fiber.Map{
		"email":            "a@x.com",
		"password":         "other",
		"registrationCode": "BASEBALL123",
	}))
	resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	app := newTestApp(t)
	registerUser(t, app, "a@x.com")

	cases := []fiber.Map{
		{"email": "a@x.com", "password": "wrong"},
		{"email": "nobody@x.com", "password": "pw123"},
	}

	var messages []string
	for _, body := range cases {
		resp := doRequest(t, app, jsonRequest("POST", "/api/login", "", body))
		if resp.StatusCode != 400 {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
		var out struct {
			Error string `json:"error"`
		}
		decodeBody(t, resp, &out)
		messages = append(messages, out.Error)
	}

	if messages[0] != messages[1] {
		t.Errorf("wrong-password and unknown-email must match: %q vs %q", messages[0], messages[1])
	}
}

func TestLogin_ThenCurrentUser(t *testing.T) {
	app := newTestApp(t)
	registerUser(t, app, "a@x.com")

	resp := doRequest(t, app, jsonRequest("POST", "/api/login", "", fiber.Map{
		"email":    "a@x.com",
		"password": "pw123",
	}))
	if resp.StatusCode != 200 {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	cookie := sessionCookie(t, resp)
	resp.Body.Close()

	resp = doRequest(t, app, jsonRequest("GET", "/api/user", cookie, nil))
	if resp.StatusCode != 200 {
		t.Fatalf("current user: expected 200, got %d", resp.StatusCode)
	}
	var profile struct {
		ID       uint   `json:"id"`
		Email    string `json:"email"`
		TeamName string `json:"teamName"`
	}
	decodeBody(t, resp, &profile)
	if profile.Email != "a@x.com" {
		t.Errorf("expected email a@x.com, got %q", profile.Email)
	}
	if profile.TeamName != "MTown Rampage 12U" {
		t.Errorf("expected seeded team name, got %q", profile.TeamName)
	}
}

func TestLogout_DestroysSessionIdempotently(t *testing.T) {
	app := newTestApp(t)
	cookie := registerUser(t, app, "a@x.com")

	resp := doRequest(t, app, jsonRequest("POST", "/api/logout", cookie, nil))
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, jsonRequest("GET", "/api/user", cookie, nil))
	resp.Body.Close()
	if resp.StatusCode != 401 {
		t.Errorf("session should be destroyed, got %d", resp.StatusCode)
	}

	// Second logout with the dead token still succeeds.
	resp = doRequest(t, app, jsonRequest("POST", "/api/logout", cookie, nil))
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("repeat logout: expected 200, got %d", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)

	paths := []struct {
		method, path string
	}{
		{"GET", "/api/user"},
		{"GET", "/api/reports"},
		{"POST", "/api/reports"},
		{"GET", "/api/reports/1"},
		{"PUT", "/api/reports/1"},
		{"DELETE", "/api/reports/1"},
	}

	for _, p := range paths {
		resp := doRequest(t, app, jsonRequest(p.method, p.path, "", nil))
		resp.Body.Close()
		if resp.StatusCode != 401 {
			t.Errorf("%s %s without session: expected 401, got %d", p.method, p.path, resp.StatusCode)
		}
	}
}

func TestOwnershipYieldsNotFoundForOtherUsers(t *testing.T) {
	app := newTestApp(t)
	ownerCookie := registerUser(t, app, "owner@x.com")
	otherCookie := registerUser(t, app, "other@x.com")

	resp := doRequest(t, app, jsonRequest("POST", "/api/reports", ownerCookie, fiber.Map{
		"playerName": "Joe",
	}))
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("create: expected 200, got %d", resp.StatusCode)
	}

	for _, method := range []string{"GET", "PUT", "DELETE"} {
		var req *http.Request
		if method == "PUT" {
			req = jsonRequest(method, "/api/reports/1", otherCookie, fiber.Map{"playerName": "X"})
		} else {
			req = jsonRequest(method, "/api/reports/1", otherCookie, nil)
		}
		resp := doRequest(t, app, req)
		resp.Body.Close()
		if resp.StatusCode != 404 {
			t.Errorf("%s by non-owner: expected 404, got %d", method, resp.StatusCode)
		}
	}
}

func TestTeamsEndpointListsSeededTeams(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, jsonRequest("GET", "/api/teams", "", nil))
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var teams []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	decodeBody(t, resp, &teams)
	if len(teams) != len(database.DefaultTeams) {
		t.Fatalf("expected %d seeded teams, got %d", len(database.DefaultTeams), len(teams))
	}
	if teams[0].Name != "MTown Rampage 12U" {
		t.Errorf("unexpected first team %q", teams[0].Name)
	}
}

func TestSprayChartUploadLifecycle(t *testing.T) {
	app := newTestApp(t)
	cookie := registerUser(t, app, "a@x.com")

	imageBytes := []byte("fake png content")
	req := multipartReportRequest(t, "POST", "/api/reports", cookie,
		map[string]string{"playerName": "Joe", "playerPosition": "CF"},
		"chart.png", "image/png", imageBytes)

	resp := doRequest(t, app, req)
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("create with upload: expected 200, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, jsonRequest("GET", "/api/reports/1", cookie, nil))
	var report struct {
		PlayerName      string  `json:"playerName"`
		PlayerPosition  *string `json:"playerPosition"`
		SprayChartImage *string `json:"sprayChartImage"`
	}
	decodeBody(t, resp, &report)
	if report.SprayChartImage == nil || !strings.HasPrefix(*report.SprayChartImage, "spray-chart-") {
		t.Fatalf("expected a stored spray chart reference, got %v", report.SprayChartImage)
	}
	firstImage := *report.SprayChartImage

	// Raw bytes are served back from /uploads.
	resp = doRequest(t, app, jsonRequest("GET", "/uploads/"+firstImage, "", nil))
	if resp.StatusCode != 200 {
		t.Fatalf("fetch upload: expected 200, got %d", resp.StatusCode)
	}
	served, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !bytes.Equal(served, imageBytes) {
		t.Error("served upload bytes differ from uploaded bytes")
	}

	// Update without a file keeps the old reference.
	resp = doRequest(t, app, jsonRequest("PUT", "/api/reports/1", cookie, fiber.Map{
		"playerName": "Joe",
	}))
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, jsonRequest("GET", "/api/reports/1", cookie, nil))
	decodeBody(t, resp, &report)
	if report.SprayChartImage == nil || *report.SprayChartImage != firstImage {
		t.Errorf("image reference should survive an update without a new file, got %v", report.SprayChartImage)
	}

	// Update with a new file replaces the reference.
	req = multipartReportRequest(t, "PUT", "/api/reports/1", cookie,
		map[string]string{"playerName": "Joe"},
		"chart2.png", "image/png", []byte("second image"))
	resp = doRequest(t, app, req)
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("update with upload: expected 200, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, jsonRequest("GET", "/api/reports/1", cookie, nil))
	decodeBody(t, resp, &report)
	if report.SprayChartImage == nil || *report.SprayChartImage == firstImage {
		t.Errorf("image reference should be replaced, got %v", report.SprayChartImage)
	}
}

func TestUploadRejectionLeavesNoRecord(t *testing.T) {
	app := newTestApp(t)
	cookie := registerUser(t, app, "a@x.com")

	req := multipartReportRequest(t, "POST", "/api/reports", cookie,
		map[string]string{"playerName": "Joe"},
		"notes.txt", "text/plain", []byte("not an image"))

	resp := doRequest(t, app, req)
	resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Fatalf("non-image upload: expected 400, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, jsonRequest("GET", "/api/reports", cookie, nil))
	var reports []struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &reports)
	if len(reports) != 0 {
		t.Errorf("rejected upload must not create a report, found %d", len(reports))
	}
}

func TestNonNumericReportIDReadsAsNotFound(t *testing.T) {
	app := newTestApp(t)
	cookie := registerUser(t, app, "a@x.com")

	resp := doRequest(t, app, jsonRequest("GET", "/api/reports/abc", cookie, nil))
	resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("expected 404 for a non-numeric id, got %d", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, jsonRequest("GET", "/health", "", nil))
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Status string `json:"status"`
	}
	decodeBody(t, resp, &body)
	if body.Status != "healthy" {
		t.Errorf("expected healthy status, got %q", body.Status)
	}
}
