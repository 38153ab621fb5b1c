package router_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-care-planner/internal/router"
)

func TestHTTP_EndToEnd_TaskCompletionClosesReminder(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "owner-1"
	otherID := "owner-2"

	// 1) Owner crea mascota; nombre repetido => 409
	createResource(t, ts.URL, "/pets", ownerID, map[string]any{
		"name":    "Milo",
		"species": "dog",
		"sex":     "male",
	})
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets", ownerID, map[string]any{"name": "milo"})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate pet name, got %d", st)
		}
	}

	// 2) Tarea para hoy con recordatorio
	taskID := createResource(t, ts.URL, "/tasks", ownerID, map[string]any{
		"title":     "Walk",
		"pet_name":  "Milo",
		"type":      "exercise",
		"task_date": time.Now().UTC().Format(time.RFC3339),
		"reminder":  true,
	})

	// 3) La bandeja del día tiene el recordatorio
	{
		var items []map[string]any
		getJSON(t, ts.URL, "/notifications", ownerID, &items)
		if len(items) != 1 || items[0]["type"] != "Task Reminder" || items[0]["source_id"] != taskID {
			t.Fatalf("expected one task reminder, got %#v", items)
		}
	}

	// 4) Otro usuario no ve la tarea
	{
		st, _ := doReq(t, ts.URL, "GET", "/tasks/"+taskID, otherID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for other owner, got %d", st)
		}
	}

	// 5) Completar (dos veces: idempotente)
	for i := 0; i < 2; i++ {
		st, body := doReq(t, ts.URL, "POST", "/tasks/"+taskID+"/complete", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 complete task, got %d body=%s", st, string(body))
		}
		var resp struct {
			Status string `json:"status"`
			Bucket string `json:"bucket"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status != "Completed" || resp.Bucket != "Completed" {
			t.Fatalf("unexpected task after complete: %s", string(body))
		}
	}

	// 6) El recordatorio quedó Completed y sale de la bandeja
	{
		var items []map[string]any
		getJSON(t, ts.URL, "/notifications", ownerID, &items)
		if len(items) != 0 {
			t.Fatalf("expected empty inbox after completion, got %#v", items)
		}
		getJSON(t, ts.URL, "/notifications?all=true&status=Completed", ownerID, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 completed notification, got %#v", items)
		}
	}

	// 7) Completed -> Pending no existe
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/tasks/"+taskID, ownerID, map[string]any{"status": "Pending"})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 reopening task, got %d", st)
		}
	}

	// 8) Sin usuario => 401
	{
		st, _ := doReq(t, ts.URL, "GET", "/tasks", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without user, got %d", st)
		}
	}
}

func TestHTTP_Overview_Buckets(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	ownerID := "owner-1"

	oldTaskID := createResource(t, ts.URL, "/tasks", ownerID, map[string]any{
		"title":     "Deworm",
		"pet_name":  "Luna",
		"task_date": "2020-01-01",
	})
	groomingID := createResource(t, ts.URL, "/grooming", ownerID, map[string]any{
		"pet_name":      "Luna",
		"grooming_type": "bath",
		"grooming_date": time.Now().UTC().AddDate(0, 0, 7).Format(time.RFC3339),
	})

	var missed struct {
		View  string           `json:"view"`
		Items []map[string]any `json:"items"`
	}
	getJSON(t, ts.URL, "/me/schedule/missed", ownerID, &missed)
	if len(missed.Items) != 1 || missed.Items[0]["id"] != oldTaskID || missed.Items[0]["can_complete"] != false {
		t.Fatalf("unexpected missed view: %#v", missed)
	}

	var pending struct {
		Items []map[string]any `json:"items"`
	}
	getJSON(t, ts.URL, "/me/schedule/pending", ownerID, &pending)
	if len(pending.Items) != 1 || pending.Items[0]["id"] != groomingID || pending.Items[0]["kind"] != "grooming" {
		t.Fatalf("unexpected pending view: %#v", pending)
	}

	st, _ := doReq(t, ts.URL, "GET", "/me/schedule/overdue", ownerID, nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 unknown view, got %d", st)
	}
}

func TestHTTP_NearbyShops(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AdminEmails: []string{adminEmail}}))
	defer ts.Close()

	userID := "user-1"

	createAsAdmin(t, ts.URL, "/shops", map[string]any{
		"shop_name":   "Far Grooming",
		"geolocation": map[string]any{"lat": -13.53, "lon": -71.97},
	})
	createAsAdmin(t, ts.URL, "/shops", map[string]any{
		"shop_name": "No Geo Grooming",
	})
	createAsAdmin(t, ts.URL, "/shops", map[string]any{
		"shop_name":   "Near Grooming",
		"geolocation": map[string]any{"lat": -12.05, "lon": -77.04},
	})

	var ranked []map[string]any
	getJSON(t, ts.URL, "/shops/nearby?lat=-12.0464&lon=-77.0428", userID, &ranked)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked shops, got %#v", ranked)
	}
	if ranked[0]["shop_name"] != "Near Grooming" || ranked[1]["shop_name"] != "Far Grooming" {
		t.Fatalf("unexpected order: %#v", ranked)
	}

	st, body := doReq(t, ts.URL, "GET", "/shops/nearby", userID, nil)
	if st != http.StatusBadRequest || !bytes.Contains(body, []byte("location permission denied")) {
		t.Fatalf("expected 400 without location, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/shops/nearby?lat=north&lon=-77", userID, nil)
	if st != http.StatusBadRequest || !bytes.Contains(body, []byte("invalid coordinate")) || bytes.Contains(body, []byte("permission")) {
		t.Fatalf("expected 400 invalid coordinate, got %d body=%s", st, string(body))
	}
}

func TestHTTP_LogoutReleasesNothingWithoutStreams(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	var resp struct {
		Released int `json:"released_subscriptions"`
	}
	st, body := doReq(t, ts.URL, "POST", "/session/logout", "owner-1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 logout, got %d body=%s", st, string(body))
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Released != 0 {
		t.Fatalf("expected 0 released, got %d", resp.Released)
	}
}

func TestHTTP_StreamDeliversEventsUntilLogout(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	ownerID := "owner-1"

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/notifications/stream", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Debug-User-ID", ownerID)

	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK || res.Header.Get("Content-Type") != "text/event-stream" {
		t.Fatalf("unexpected stream response: %d %q", res.StatusCode, res.Header.Get("Content-Type"))
	}
	stream := bufio.NewReader(res.Body)

	taskID := createResource(t, ts.URL, "/tasks", ownerID, map[string]any{
		"title":     "Walk",
		"pet_name":  "Milo",
		"task_date": time.Now().UTC().Format(time.RFC3339),
		"reminder":  true,
	})

	ev, data := nextEvent(t, stream)
	if ev != "created" || !strings.Contains(data, `"source_id":"`+taskID+`"`) || !strings.Contains(data, "Task Reminder") {
		t.Fatalf("unexpected first event %q data=%s", ev, data)
	}

	if st, body := doReq(t, ts.URL, "POST", "/tasks/"+taskID+"/complete", ownerID, nil); st != http.StatusOK {
		t.Fatalf("expected 200 complete task, got %d body=%s", st, string(body))
	}
	ev, data = nextEvent(t, stream)
	if ev != "completed" || !strings.Contains(data, `"status":"Completed"`) {
		t.Fatalf("unexpected second event %q data=%s", ev, data)
	}

	// logout libera la suscripción y el server cierra el stream
	var out struct {
		Released int `json:"released_subscriptions"`
	}
	st, body := doReq(t, ts.URL, "POST", "/session/logout", ownerID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 logout, got %d body=%s", st, string(body))
	}
	_ = json.Unmarshal(body, &out)
	if out.Released != 1 {
		t.Fatalf("expected 1 released subscription, got %d", out.Released)
	}
	if rest, err := io.ReadAll(stream); err != nil {
		t.Fatalf("expected stream EOF after logout, got err=%v rest=%q", err, string(rest))
	}
}

func TestHTTP_CatalogueIsAdminOnly(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AdminEmails: []string{adminEmail}}))
	defer ts.Close()

	food := map[string]any{"food_name": "Pumpkin", "species": "dog", "is_safe": true}

	if st, _ := doReq(t, ts.URL, "POST", "/foods", "owner-1", food); st != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin food create, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "POST", "/shops", "owner-1", map[string]any{"shop_name": "Paws"}); st != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin shop create, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "POST", "/foods", "", food); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", st)
	}

	foodID := createAsAdmin(t, ts.URL, "/foods", food)

	if st, _ := doReq(t, ts.URL, "DELETE", "/foods/"+foodID, "owner-1", nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin delete, got %d", st)
	}

	// lectura abierta a cualquier usuario
	var items []map[string]any
	getJSON(t, ts.URL, "/foods/recommendations/dog", "owner-1", &items)
	if len(items) != 1 || items[0]["id"] != foodID {
		t.Fatalf("unexpected recommendations: %#v", items)
	}

	if st, _ := doReqAs(t, ts.URL, "DELETE", "/foods/"+foodID, "admin-1", adminEmail, nil); st != http.StatusNoContent {
		t.Fatalf("expected 204 admin delete, got %d", st)
	}
}

func TestHTTP_Profiles(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AdminEmails: []string{adminEmail}}))
	defer ts.Close()

	if st, _ := doReq(t, ts.URL, "GET", "/me/profile", "owner-1", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 before creating profile, got %d", st)
	}

	payload := map[string]any{"username": "Ana", "age": 30, "address": "Av. Lima 123", "phone_number": "+51 999 888 777"}
	if st, body := doReqAs(t, ts.URL, "PUT", "/me/profile", "owner-1", "ana@example.com", payload); st != http.StatusCreated {
		t.Fatalf("expected 201 first save, got %d body=%s", st, string(body))
	}
	payload["username"] = "Ana P"
	if st, body := doReq(t, ts.URL, "PUT", "/me/profile", "owner-1", payload); st != http.StatusOK {
		t.Fatalf("expected 200 replace, got %d body=%s", st, string(body))
	}

	var me map[string]any
	getJSON(t, ts.URL, "/me/profile", "owner-1", &me)
	if me["username"] != "Ana P" || me["email"] != "ana@example.com" || me["user_id"] != "owner-1" {
		t.Fatalf("unexpected profile: %#v", me)
	}

	if st, _ := doReq(t, ts.URL, "PUT", "/me/profile", "owner-1", map[string]any{"username": "x", "image_url": "a.png"}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 unknown field, got %d", st)
	}

	if st, _ := doReq(t, ts.URL, "GET", "/profiles", "owner-1", nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 user listing as non-admin, got %d", st)
	}
	st, body := doReqAs(t, ts.URL, "GET", "/profiles", "admin-1", adminEmail, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 admin listing, got %d body=%s", st, string(body))
	}
	var all []map[string]any
	_ = json.Unmarshal(body, &all)
	if len(all) != 1 || all[0]["user_id"] != "owner-1" {
		t.Fatalf("unexpected admin listing: %#v", all)
	}
}

const adminEmail = "petcareadmin@gmail.com"

// nextEvent lee frames SSE hasta el próximo evento con nombre.
func nextEvent(t *testing.T, r *bufio.Reader) (event, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && event != "":
			return event, data
		}
	}
}

func createAsAdmin(t *testing.T, baseURL, path string, payload map[string]any) string {
	t.Helper()

	st, body := doReqAs(t, baseURL, "POST", path, "admin-1", adminEmail, payload)
	return idFromCreated(t, path, st, body)
}

func createResource(t *testing.T, baseURL, path, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, userID, payload)
	return idFromCreated(t, path, st, body)
}

func idFromCreated(t *testing.T, path string, st int, body []byte) string {
	t.Helper()

	if st != http.StatusCreated {
		t.Fatalf("expected 201 POST %s, got %d body=%s", path, st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("POST %s: missing id body=%s", path, string(body))
	}
	return resp.ID
}

func getJSON(t *testing.T, baseURL, path, userID string, out any) {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", path, userID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 GET %s, got %d body=%s", path, st, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		t.Fatalf("GET %s: decode: %v body=%s", path, err, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()
	return doReqAs(t, baseURL, method, path, debugUserID, "", body)
}

func doReqAs(t *testing.T, baseURL, method, path, debugUserID, debugEmail string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}
	if debugEmail != "" {
		req.Header.Set("X-Debug-User-Email", debugEmail)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
