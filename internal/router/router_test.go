package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"pet-adoption-web/internal/adapters/restapi"
	"pet-adoption-web/internal/router"
	"pet-adoption-web/internal/sessions"
)

// fakeUpstream imita la API REST: login por email, cookie "token" con el rol.
func fakeUpstream(t *testing.T, sheltersDown bool) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var submits atomic.Int32
	users := map[string]string{
		"ana@example.com":  `{"_id":"u1","name":"Ana","email":"ana@example.com","role":"adopter"}`,
		"paws@example.com": `{"_id":"s1","email":"paws@example.com","role":"shelter","shelterName":"Paws"}`,
	}
	byToken := map[string]string{"adopter-token": "ana@example.com", "shelter-token": "paws@example.com"}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("token")
		if err != nil || byToken[ck.Value] == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Not authenticated"}`)
			return
		}
		_, _ = io.WriteString(w, `{"user":`+users[byToken[ck.Value]]+`}`)
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		u, ok := users[body.Email]
		if !ok || body.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		token := "adopter-token"
		if strings.HasPrefix(body.Email, "paws") {
			token = "shelter-token"
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: token, Path: "/"})
		_, _ = io.WriteString(w, `{"user":`+u+`}`)
	})
	mux.HandleFunc("GET /api/pets", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"pets":[{"_id":"p1","name":"Rex","species":"dog","status":"Available"}],"pagination":{"currentPage":1,"totalPages":1,"totalCount":1}}`)
	})
	mux.HandleFunc("GET /api/shelters", func(w http.ResponseWriter, r *http.Request) {
		if sheltersDown {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"message":"Shelters unavailable"}`)
			return
		}
		_, _ = io.WriteString(w, `{"shelters":[{"_id":"s1","shelterName":"Paws"}],"pagination":{"currentPage":1,"totalPages":1,"totalCount":1}}`)
	})
	mux.HandleFunc("POST /api/adoptions/submit", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("token"); err != nil || ck.Value != "adopter-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		submits.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"application":{"_id":"a1","pet":"p1","status":"pending"}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &submits
}

func newBFF(t *testing.T, upstream *httptest.Server) *httptest.Server {
	t.Helper()
	reg := sessions.NewRegistry(sessions.Options{
		TTL: time.Hour,
		API: restapi.Config{BaseURL: upstream.URL + "/api", Timeout: 2 * time.Second},
	})
	ts := httptest.NewServer(router.NewRouter(router.Options{Sessions: reg}))
	t.Cleanup(ts.Close)
	return ts
}

func browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func doReq(t *testing.T, c *http.Client, baseURL, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
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
	res, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	var out map[string]any
	if len(raw) > 0 && strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %s %s: %v body=%s", method, path, err, raw)
		}
	}
	return res.StatusCode, out
}

// waitChecked espera a que termine la verificación de sesión en segundo plano.
func waitChecked(t *testing.T, c *http.Client, baseURL string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		st, body := doReq(t, c, baseURL, http.MethodGet, "/me", nil)
		if st == http.StatusOK && body["checked"] == true {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("session check never completed")
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	up, _ := fakeUpstream(t, false)
	ts := newBFF(t, up)
	c := browser(t)

	if st, _ := doReq(t, c, ts.URL, http.MethodGet, "/health", nil); st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
	if st, _ := doReq(t, c, ts.URL, http.MethodGet, "/metrics", nil); st != http.StatusOK {
		t.Fatalf("expected 200 metrics, got %d", st)
	}
}

func TestHTTP_HomeLoadsBothSections(t *testing.T) {
	up, _ := fakeUpstream(t, false)
	ts := newBFF(t, up)

	st, body := doReq(t, browser(t), ts.URL, http.MethodGet, "/", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 home, got %d body=%v", st, body)
	}
	if n := len(body["featuredPets"].([]any)); n != 1 {
		t.Fatalf("expected 1 featured pet, got %d", n)
	}
	if n := len(body["shelters"].([]any)); n != 1 {
		t.Fatalf("expected 1 shelter, got %d", n)
	}
}

func TestHTTP_HomeShowsPetsWhenSheltersFail(t *testing.T) {
	up, _ := fakeUpstream(t, true)
	ts := newBFF(t, up)

	st, body := doReq(t, browser(t), ts.URL, http.MethodGet, "/", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 with partial data, got %d", st)
	}
	if body["sheltersError"] != "Shelters unavailable" {
		t.Fatalf("expected shelters error, got %v", body["sheltersError"])
	}
	if n := len(body["featuredPets"].([]any)); n != 1 {
		t.Fatalf("pets section must still load, got %d", n)
	}
}

func TestHTTP_EndToEnd_AdoptionFlow(t *testing.T) {
	up, submits := fakeUpstream(t, false)
	ts := newBFF(t, up)
	adopter := browser(t)

	// 1) Sesión anónima: rutas privadas => 401
	waitChecked(t, adopter, ts.URL)
	if st, _ := doReq(t, adopter, ts.URL, http.MethodGet, "/apply/p1", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", st)
	}

	// 2) Login inválido muestra el mensaje del servidor
	st, body := doReq(t, adopter, ts.URL, http.MethodPost, "/login", map[string]any{"email": "ana@example.com", "password": "wrong1"})
	if st != http.StatusUnauthorized || body["message"] != "Invalid credentials" {
		t.Fatalf("expected 401 Invalid credentials, got %d %v", st, body)
	}

	// 3) Login válido
	st, body = doReq(t, adopter, ts.URL, http.MethodPost, "/login", map[string]any{"email": "ana@example.com", "password": "secret1"})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%v", st, body)
	}

	// 4) Un adoptante no revisa solicitudes
	if st, _ := doReq(t, adopter, ts.URL, http.MethodGet, "/shelter/applications", nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 for adopter on review routes, got %d", st)
	}

	// 5) Wizard: no avanza vacío
	if st, _ := doReq(t, adopter, ts.URL, http.MethodPost, "/apply/p1/continue", nil); st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on empty section, got %d", st)
	}

	// 6) Completa todo, avanza hasta el final y envía
	st, _ = doReq(t, adopter, ts.URL, http.MethodPut, "/apply/p1", map[string]any{"values": map[string]any{
		"homeType": "house", "hasYard": true, "ownership": "own",
		"numberOfAdults": 2, "hasChildren": false,
		"hasOtherPets":      false,
		"reason":            "We have room and time for a dog",
		"schedule":          "Home most evenings",
		"agreementAccepted": true,
	}})
	if st != http.StatusOK {
		t.Fatalf("expected 200 saving values, got %d", st)
	}
	for i := 0; i < 3; i++ {
		if st, body := doReq(t, adopter, ts.URL, http.MethodPost, "/apply/p1/continue", nil); st != http.StatusOK {
			t.Fatalf("continue %d: expected 200, got %d body=%v", i, st, body)
		}
	}
	st, body = doReq(t, adopter, ts.URL, http.MethodPost, "/apply/p1/submit", nil)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 submit, got %d body=%v", st, body)
	}
	if submits.Load() != 1 {
		t.Fatalf("expected 1 upstream submit, got %d", submits.Load())
	}

	// 7) El borrador se borró: el wizard arranca de cero
	_, body = doReq(t, adopter, ts.URL, http.MethodGet, "/apply/p1", nil)
	wz, _ := body["wizard"].(map[string]any)
	if wz["isFirst"] != true {
		t.Fatalf("expected fresh wizard after submit, got %v", wz)
	}

	// 8) Otro navegador no comparte la sesión
	other := browser(t)
	waitChecked(t, other, ts.URL)
	if st, _ := doReq(t, other, ts.URL, http.MethodGet, "/apply/p1", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 in a separate browser, got %d", st)
	}
}

func TestHTTP_ShelterCannotApply(t *testing.T) {
	up, _ := fakeUpstream(t, false)
	ts := newBFF(t, up)
	shelter := browser(t)

	waitChecked(t, shelter, ts.URL)
	if st, body := doReq(t, shelter, ts.URL, http.MethodPost, "/login", map[string]any{"email": "paws@example.com", "password": "secret1"}); st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%v", st, body)
	}
	st, body := doReq(t, shelter, ts.URL, http.MethodGet, "/apply/p1", nil)
	if st != http.StatusForbidden || body["guard"] != "forbidden" {
		t.Fatalf("expected 403 forbidden, got %d %v", st, body)
	}
}
