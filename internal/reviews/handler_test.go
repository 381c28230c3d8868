package reviews_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shelfnotes/shelfnotes/internal/platform/httpx"
	"github.com/shelfnotes/shelfnotes/internal/reviews"
	"github.com/shelfnotes/shelfnotes/internal/shared"
	"github.com/shelfnotes/shelfnotes/internal/token"
	_ "github.com/shelfnotes/shelfnotes/testing"
)

type stubRepo struct {
	store  map[int64]*reviews.Review
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{store: make(map[int64]*reviews.Review), nextID: 1}
}

func (s *stubRepo) ListWithAuthors(ctx context.Context) ([]reviews.ReviewWithAuthor, error) {
	result := []reviews.ReviewWithAuthor{}
	for _, review := range s.store {
		result = append(result, reviews.ReviewWithAuthor{Review: *review, Users: reviews.Author{Name: "A"}})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (s *stubRepo) Create(ctx context.Context, userID int64, bookTitle, body string, rating int, mood string) (*reviews.Review, error) {
	review := &reviews.Review{
		ID: s.nextID, BookTitle: bookTitle, Review: body, Rating: rating,
		Mood: mood, UserID: userID, CreatedAt: time.Now(),
	}
	s.nextID++
	s.store[review.ID] = review
	return review, nil
}

func (s *stubRepo) GetByID(ctx context.Context, id int64) (*reviews.Review, error) {
	review, ok := s.store[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return review, nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := s.store[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(s.store, id)
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *token.Codec, *stubRepo) {
	t.Helper()
	codec, err := token.NewCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	cookies := shared.NewCookieManager("auth_token", time.Hour, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo := newStubRepo()
	handler := reviews.NewHandler(logger, reviews.NewService(repo), codec, cookies)

	r := chi.NewRouter()
	r.Route("/api", handler.MountRoutes)
	return r, codec, repo
}

func request(t *testing.T, router http.Handler, method, path, body, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: cookie})
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func issue(t *testing.T, codec *token.Codec, subject int64) string {
	t.Helper()
	tok, err := codec.Issue(subject)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

func TestListIsPublic(t *testing.T) {
	router, codec, _ := newTestRouter(t)

	tok := issue(t, codec, 1)
	request(t, router, http.MethodPost, "/api/reviews",
		`{"bookTitle":"Dune","review":"great","rating":5,"mood":"alucinante"}`, tok)
	request(t, router, http.MethodPost, "/api/reviews",
		`{"bookTitle":"Solaris","review":"eerie","rating":4,"mood":"intelectual"}`, tok)

	res := request(t, router, http.MethodGet, "/api/reviews", "", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var list []struct {
		ID        int64  `json:"id"`
		BookTitle string `json:"bookTitle"`
		Users     struct {
			Name string `json:"name"`
		} `json:"users"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(list))
	}
	if list[0].BookTitle != "Solaris" {
		t.Fatalf("expected newest first, got %q", list[0].BookTitle)
	}
	if list[0].Users.Name == "" {
		t.Fatal("expected author name joined in")
	}
}

func TestCreateRequiresSession(t *testing.T) {
	router, _, _ := newTestRouter(t)
	body := `{"bookTitle":"Dune","review":"great","rating":5,"mood":"alucinante"}`

	if res := request(t, router, http.MethodPost, "/api/reviews", body, ""); res.Code != http.StatusUnauthorized {
		t.Fatalf("no cookie: expected 401, got %d", res.Code)
	}
	if res := request(t, router, http.MethodPost, "/api/reviews", body, "garbage"); res.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", res.Code)
	}

	expired, err := token.NewCodec("test-secret", time.Nanosecond)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	staleTok := issue(t, expired, 1)
	time.Sleep(10 * time.Millisecond)
	if res := request(t, router, http.MethodPost, "/api/reviews", body, staleTok); res.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: expected 401, got %d", res.Code)
	}
}

func TestCreateValidation(t *testing.T) {
	router, codec, _ := newTestRouter(t)
	tok := issue(t, codec, 1)

	for _, body := range []string{
		`{"review":"great","rating":5,"mood":"alucinante"}`,
		`{"bookTitle":"Dune","rating":5,"mood":"alucinante"}`,
		`{"bookTitle":"Dune","review":"great","mood":"alucinante"}`,
		`{"bookTitle":"Dune","review":"great","rating":5}`,
		`{"bookTitle":"Dune","review":"great","rating":5,"mood":"grumpy"}`,
		`{"bookTitle":"Dune","review":"great","rating":9,"mood":"alucinante"}`,
	} {
		res := request(t, router, http.MethodPost, "/api/reviews", body, tok)
		if res.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, res.Code)
		}
	}
}

func TestCreateReturnsCreatedRecord(t *testing.T) {
	router, codec, _ := newTestRouter(t)
	tok := issue(t, codec, 7)

	res := request(t, router, http.MethodPost, "/api/reviews",
		`{"bookTitle":"Dune","review":"great","rating":5,"mood":"alucinante"}`, tok)
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}

	var created struct {
		ID     int64 `json:"id"`
		UserID int64 `json:"userId"`
		Rating int   `json:"rating"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.UserID != 7 {
		t.Fatalf("owner must come from the token subject, got %d", created.UserID)
	}
}

func TestDeleteOutcomes(t *testing.T) {
	router, codec, _ := newTestRouter(t)
	ownerTok := issue(t, codec, 1)
	otherTok := issue(t, codec, 2)

	res := request(t, router, http.MethodPost, "/api/reviews",
		`{"bookTitle":"Dune","review":"great","rating":5,"mood":"alucinante"}`, ownerTok)
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if res := request(t, router, http.MethodDelete, "/api/reviews/1", "", ""); res.Code != http.StatusUnauthorized {
		t.Fatalf("no session: expected 401, got %d", res.Code)
	}
	if res := request(t, router, http.MethodDelete, "/api/reviews/999", "", otherTok); res.Code != http.StatusNotFound {
		t.Fatalf("missing id: expected 404, got %d", res.Code)
	}
	if res := request(t, router, http.MethodDelete, "/api/reviews/abc", "", otherTok); res.Code != http.StatusNotFound {
		t.Fatalf("non-numeric id: expected 404, got %d", res.Code)
	}
	if res := request(t, router, http.MethodDelete, "/api/reviews/1", "", otherTok); res.Code != http.StatusForbidden {
		t.Fatalf("non-owner: expected 403, got %d", res.Code)
	}

	// The forbidden attempt must not have removed the review.
	list := request(t, router, http.MethodGet, "/api/reviews", "", "")
	if !strings.Contains(list.Body.String(), "Dune") {
		t.Fatal("review disappeared after forbidden delete")
	}

	if res := request(t, router, http.MethodDelete, "/api/reviews/1", "", ownerTok); res.Code != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d: %s", res.Code, res.Body.String())
	}
	list = request(t, router, http.MethodGet, "/api/reviews", "", "")
	if strings.Contains(list.Body.String(), "Dune") {
		t.Fatal("review still listed after delete")
	}
	if res := request(t, router, http.MethodDelete, "/api/reviews/1", "", ownerTok); res.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", res.Code)
	}
}
