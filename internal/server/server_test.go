package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gramkosh/gramkosh/internal/auth"
	"github.com/gramkosh/gramkosh/internal/storage/sqlite"
)

const adminEmail = "admin@example.com"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "gramkosh-server-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("server-test-secret-key", time.Hour)

	ts := httptest.NewServer(New(store, jwtManager, adminEmail, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

// do issues a JSON request and decodes the response body into out (when
// out is non-nil), returning the status code.
func do(t *testing.T, ts *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, ts.URL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func registerAdmin(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	var token tokenView
	status := do(t, ts, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Admin",
		"email":    adminEmail,
		"password": "secret-password",
		"role":     "admin",
	}, &token)
	if status != http.StatusCreated {
		t.Fatalf("Admin registration returned %d", status)
	}
	return token.AccessToken
}

func registerVillager(t *testing.T, ts *httptest.Server, email, villageID string) string {
	t.Helper()
	var token tokenView
	status := do(t, ts, http.MethodPost, "/auth/register", "", map[string]string{
		"name":       "Villager",
		"email":      email,
		"password":   "secret-password",
		"role":       "villager",
		"village_id": villageID,
	}, &token)
	if status != http.StatusCreated {
		t.Fatalf("Villager registration returned %d", status)
	}
	return token.AccessToken
}

func createVillage(t *testing.T, ts *httptest.Server, token, name string) villageView {
	t.Helper()
	var village villageView
	status := do(t, ts, http.MethodPost, "/villages", token, map[string]string{
		"name":     name,
		"district": "Central",
		"state":    "Maharashtra",
	}, &village)
	if status != http.StatusCreated {
		t.Fatalf("Village creation returned %d", status)
	}
	return village
}

func TestBudgetLifecycle(t *testing.T) {
	ts := newTestServer(t)
	admin := registerAdmin(t, ts)

	village := createVillage(t, ts, admin, "Rampur")

	var budget budgetView
	if status := do(t, ts, http.MethodPost, "/budgets", admin, map[string]any{
		"village_id":      village.ID,
		"year":            2024,
		"total_allocated": "1000000.00",
	}, &budget); status != http.StatusCreated {
		t.Fatalf("Budget creation returned %d", status)
	}
	if budget.TotalAllocated.String() != "1000000.00" {
		t.Errorf("TotalAllocated = %s, want 1000000.00", budget.TotalAllocated)
	}

	// Same village and year again is a conflict.
	if status := do(t, ts, http.MethodPost, "/budgets", admin, map[string]any{
		"village_id":      village.ID,
		"year":            2024,
		"total_allocated": "5.00",
	}, nil); status != http.StatusConflict {
		t.Errorf("Duplicate budget returned %d, want 409", status)
	}

	var category categoryView
	if status := do(t, ts, http.MethodPost, "/categories", admin, map[string]any{
		"budget_id":        budget.ID,
		"category_name":    "Health",
		"allocated_amount": "200000.00",
	}, &category); status != http.StatusCreated {
		t.Fatalf("Category creation returned %d", status)
	}

	for _, amount := range []string{"50000.00", "25000.00"} {
		if status := do(t, ts, http.MethodPost, "/expenses", admin, map[string]any{
			"category_id":  category.ID,
			"description":  "Supplies",
			"amount":       amount,
			"vendor_name":  "District Depot",
			"expense_date": "2024-06-15",
		}, nil); status != http.StatusCreated {
			t.Fatalf("Expense creation returned %d", status)
		}
	}

	var summary summaryView
	if status := do(t, ts, http.MethodGet, "/categories/"+category.ID+"/remaining", admin, nil, &summary); status != http.StatusOK {
		t.Fatalf("Remaining returned %d", status)
	}
	if summary.Spent.String() != "75000.00" {
		t.Errorf("Spent = %s, want 75000.00", summary.Spent)
	}
	if summary.Remaining.String() != "125000.00" {
		t.Errorf("Remaining = %s, want 125000.00", summary.Remaining)
	}

	// Deleting the village cascades; the category is then gone.
	if status := do(t, ts, http.MethodDelete, "/villages/"+village.ID, admin, nil, nil); status != http.StatusNoContent {
		t.Fatalf("Village deletion returned %d", status)
	}
	if status := do(t, ts, http.MethodGet, "/categories/"+category.ID, admin, nil, nil); status != http.StatusNotFound {
		t.Errorf("Category after cascade returned %d, want 404", status)
	}
}

func TestVillagerScoping(t *testing.T) {
	ts := newTestServer(t)
	admin := registerAdmin(t, ts)

	home := createVillage(t, ts, admin, "Rampur")
	other := createVillage(t, ts, admin, "Sitapur")

	var homeBudget, otherBudget budgetView
	do(t, ts, http.MethodPost, "/budgets", admin, map[string]any{"village_id": home.ID, "year": 2024, "total_allocated": "1000000.00"}, &homeBudget)
	do(t, ts, http.MethodPost, "/budgets", admin, map[string]any{"village_id": other.ID, "year": 2024, "total_allocated": "500000.00"}, &otherBudget)

	villager := registerVillager(t, ts, "v@example.com", home.ID)

	t.Run("list is bounded to own village", func(t *testing.T) {
		var budgets []budgetView
		if status := do(t, ts, http.MethodGet, "/budgets", villager, nil, &budgets); status != http.StatusOK {
			t.Fatalf("List returned %d", status)
		}
		if len(budgets) != 1 || budgets[0].ID != homeBudget.ID {
			t.Errorf("Expected only the home budget, got %+v", budgets)
		}
	})

	t.Run("foreign budget is forbidden, missing is not found", func(t *testing.T) {
		if status := do(t, ts, http.MethodGet, "/budgets/"+otherBudget.ID, villager, nil, nil); status != http.StatusForbidden {
			t.Errorf("Foreign budget returned %d, want 403", status)
		}
		if status := do(t, ts, http.MethodGet, "/budgets/no-such-budget", villager, nil, nil); status != http.StatusNotFound {
			t.Errorf("Missing budget returned %d, want 404", status)
		}
	})

	t.Run("villager cannot create budgets or villages", func(t *testing.T) {
		if status := do(t, ts, http.MethodPost, "/budgets", villager, map[string]any{
			"village_id": home.ID, "year": 2025, "total_allocated": "1.00",
		}, nil); status != http.StatusForbidden {
			t.Errorf("Budget creation returned %d, want 403", status)
		}
		if status := do(t, ts, http.MethodPost, "/villages", villager, map[string]string{"name": "New"}, nil); status != http.StatusForbidden {
			t.Errorf("Village creation returned %d, want 403", status)
		}
	})

	t.Run("villager records expense in own village", func(t *testing.T) {
		var category categoryView
		if status := do(t, ts, http.MethodPost, "/categories", villager, map[string]any{
			"budget_id": homeBudget.ID, "category_name": "Roads", "allocated_amount": "100000.00",
		}, &category); status != http.StatusCreated {
			t.Fatalf("Category creation returned %d", status)
		}
		if status := do(t, ts, http.MethodPost, "/expenses", villager, map[string]any{
			"category_id": category.ID, "description": "Gravel", "amount": "5000.00", "expense_date": "2024-03-01",
		}, nil); status != http.StatusCreated {
			t.Errorf("Expense creation returned %d, want 201", status)
		}
	})

	t.Run("filtered listings", func(t *testing.T) {
		var budgets []budgetView
		if status := do(t, ts, http.MethodGet, "/budgets?village_id="+home.ID, admin, nil, &budgets); status != http.StatusOK {
			t.Fatalf("Filtered budget list returned %d", status)
		}
		if len(budgets) != 1 || budgets[0].ID != homeBudget.ID {
			t.Errorf("Expected the home budget, got %+v", budgets)
		}

		var expenses []expenseView
		if status := do(t, ts, http.MethodGet, "/expenses?village_id="+home.ID, admin, nil, &expenses); status != http.StatusOK {
			t.Fatalf("Village expense list returned %d", status)
		}
		if len(expenses) != 1 {
			t.Errorf("Expected 1 expense for the village, got %d", len(expenses))
		}

		// A villager asking for another village's slice is refused.
		if status := do(t, ts, http.MethodGet, "/budgets?village_id="+other.ID, villager, nil, nil); status != http.StatusForbidden {
			t.Errorf("Foreign filtered list returned %d, want 403", status)
		}
	})

	t.Run("own village via /villages/me", func(t *testing.T) {
		var village villageView
		if status := do(t, ts, http.MethodGet, "/villages/me", villager, nil, &village); status != http.StatusOK {
			t.Fatalf("villages/me returned %d", status)
		}
		if village.ID != home.ID {
			t.Errorf("villages/me = %s, want %s", village.ID, home.ID)
		}
	})
}

func TestAuthEndpoints(t *testing.T) {
	ts := newTestServer(t)
	admin := registerAdmin(t, ts)
	village := createVillage(t, ts, admin, "Rampur")
	registerVillager(t, ts, "v@example.com", village.ID)

	t.Run("public village list needs no token", func(t *testing.T) {
		var villages []villageView
		if status := do(t, ts, http.MethodGet, "/villages", "", nil, &villages); status != http.StatusOK {
			t.Fatalf("Public list returned %d", status)
		}
		if len(villages) != 1 {
			t.Errorf("Expected 1 village, got %d", len(villages))
		}
	})

	t.Run("protected routes demand a token", func(t *testing.T) {
		if status := do(t, ts, http.MethodGet, "/budgets", "", nil, nil); status != http.StatusUnauthorized {
			t.Errorf("No token returned %d, want 401", status)
		}
		if status := do(t, ts, http.MethodGet, "/budgets", "not-a-token", nil, nil); status != http.StatusUnauthorized {
			t.Errorf("Garbage token returned %d, want 401", status)
		}
	})

	t.Run("login and me", func(t *testing.T) {
		var token tokenView
		if status := do(t, ts, http.MethodPost, "/auth/login", "", map[string]string{
			"email": "v@example.com", "password": "secret-password", "role": "villager", "village_id": village.ID,
		}, &token); status != http.StatusOK {
			t.Fatalf("Login returned %d", status)
		}

		var me userView
		if status := do(t, ts, http.MethodGet, "/auth/me", token.AccessToken, nil, &me); status != http.StatusOK {
			t.Fatalf("me returned %d", status)
		}
		if me.Email != "v@example.com" {
			t.Errorf("me email = %q", me.Email)
		}
	})

	t.Run("login mismatch is unauthorized", func(t *testing.T) {
		if status := do(t, ts, http.MethodPost, "/auth/login", "", map[string]string{
			"email": "v@example.com", "password": "secret-password", "role": "admin",
		}, nil); status != http.StatusUnauthorized {
			t.Errorf("Role mismatch returned %d, want 401", status)
		}
	})

	t.Run("second admin is forbidden", func(t *testing.T) {
		if status := do(t, ts, http.MethodPost, "/auth/register", "", map[string]string{
			"name": "X", "email": adminEmail, "password": "secret-password", "role": "admin",
		}, nil); status != http.StatusForbidden {
			t.Errorf("Second admin returned %d, want 403", status)
		}
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/auth/login", bytes.NewReader([]byte("{not json")))
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Malformed body returned %d, want 400", resp.StatusCode)
		}
	})

	t.Run("negative amount is a 422", func(t *testing.T) {
		if status := do(t, ts, http.MethodPost, "/budgets", admin, map[string]any{
			"village_id": village.ID, "year": 2030, "total_allocated": "-5.00",
		}, nil); status != http.StatusUnprocessableEntity {
			t.Errorf("Negative amount returned %d, want 422", status)
		}
	})

	t.Run("healthz", func(t *testing.T) {
		if status := do(t, ts, http.MethodGet, "/healthz", "", nil, nil); status != http.StatusOK {
			t.Errorf("healthz returned %d", status)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/metrics")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("metrics returned %d", resp.StatusCode)
		}
	})
}
