package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	custommiddleware "github.com/fundwatch/fund-monitor-backend/internal/api/middleware"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
	"github.com/fundwatch/fund-monitor-backend/internal/testutil"
)

// withIdentity attaches a user identity to the request the way the
// Identity middleware would.
func withIdentity(req *http.Request, userID string) *http.Request {
	return req.WithContext(custommiddleware.WithUserID(req.Context(), userID))
}

func TestLinkHandler_Add(t *testing.T) {
	t.Run("creates a favorite and returns 201", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewLinkHandler(testutil.NewTestLinkService(t, db), model.LinkFavorite)

		req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/favorite/161725", map[string]string{"code": "161725"})
		req = withIdentity(req, testutil.MakeUserID())
		w := httptest.NewRecorder()

		handler.Add(w, req)

		if w.Code != http.StatusCreated {
			t.Errorf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response LinkResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Result != "added" || response.FundCode != "161725" {
			t.Errorf("Expected added/161725, got %+v", response)
		}

		testutil.AssertRowCount(t, db, "favorite_fund", 1)
	})

	t.Run("duplicate add returns 200 with alreadyExists", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewLinkHandler(testutil.NewTestLinkService(t, db), model.LinkFavorite)

		userID := testutil.MakeUserID()
		testutil.CreateFavorite(t, db, userID, "161725")

		req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/favorite/161725", map[string]string{"code": "161725"})
		req = withIdentity(req, userID)
		w := httptest.NewRecorder()

		handler.Add(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response LinkResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Result != "alreadyExists" {
			t.Errorf("Expected alreadyExists, got %q", response.Result)
		}

		testutil.AssertRowCount(t, db, "favorite_fund", 1)
	})

	t.Run("anonymous add returns 401", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewLinkHandler(testutil.NewTestLinkService(t, db), model.LinkMonitor)

		req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/monitor/161725", map[string]string{"code": "161725"})
		w := httptest.NewRecorder()

		handler.Add(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("malformed fund code returns 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewLinkHandler(testutil.NewTestLinkService(t, db), model.LinkFavorite)

		req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/favorite/16172X", map[string]string{"code": "16172X"})
		req = withIdentity(req, testutil.MakeUserID())
		w := httptest.NewRecorder()

		handler.Add(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestLinkHandler_Remove(t *testing.T) {
	t.Run("removes an existing link", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewLinkHandler(testutil.NewTestLinkService(t, db), model.LinkFavorite)

		userID := testutil.MakeUserID()
		testutil.CreateFavorite(t, db, userID, "161725")

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/favorite/161725", map[string]string{"code": "161725"})
		req = withIdentity(req, userID)
		w := httptest.NewRecorder()

		handler.Remove(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		testutil.AssertRowCount(t, db, "favorite_fund", 0)
	})

	t.Run("removing a non-existent link still returns 200", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewLinkHandler(testutil.NewTestLinkService(t, db), model.LinkFavorite)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/favorite/161725", map[string]string{"code": "161725"})
		req = withIdentity(req, testutil.MakeUserID())
		w := httptest.NewRecorder()

		handler.Remove(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestLinkHandler_List(t *testing.T) {
	t.Run("returns the user's links", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewLinkHandler(testutil.NewTestLinkService(t, db), model.LinkMonitor)

		userID := testutil.MakeUserID()
		testutil.CreateMonitor(t, db, userID, "000001")
		testutil.CreateMonitor(t, db, userID, "000002")

		req := httptest.NewRequest(http.MethodGet, "/api/monitor", nil)
		req = withIdentity(req, userID)
		w := httptest.NewRecorder()

		handler.List(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var links []model.FundLink
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&links)

		if len(links) != 2 {
			t.Errorf("Expected 2 links, got %d", len(links))
		}
	})

	t.Run("anonymous list returns 401", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewLinkHandler(testutil.NewTestLinkService(t, db), model.LinkMonitor)

		req := httptest.NewRequest(http.MethodGet, "/api/monitor", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})
}
