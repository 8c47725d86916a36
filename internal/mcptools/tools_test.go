package mcptools

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"firstrade_bridge/internal/firstrade"
)

type memStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (s *memStore) Load(username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[username], nil
}

func (s *memStore) Save(username, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[username] = token
	return nil
}

func (s *memStore) Delete(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, username)
	return nil
}

// newTestService logs a client in against a mock upstream and wraps it in a
// Service. The acctlist route is always installed because tools fall back
// to it to resolve the default account.
func newTestService(t *testing.T, mux *http.ServeMux) *Service {
	t.Helper()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/sess/auth", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": "", "ftat": "test-ftat", "sid": "test-sid"})
	})
	mux.HandleFunc("/private/acctlist", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": "",
			"items": []map[string]any{
				{"account": "12345678", "type": "cash", "total_value": 1500.25},
				{"account": "87654321", "type": "margin", "total_value": 9000.00},
			},
		})
	})

	upstream := httptest.NewServer(mux)
	t.Cleanup(upstream.Close)

	client := firstrade.NewClientWithBaseURL(
		firstrade.Credentials{Username: "alice", Password: "pw"},
		&memStore{tokens: make(map[string]string)},
		upstream.URL,
	)
	if _, err := client.Login(t.Context()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return NewService(client)
}

func TestGetAccounts(t *testing.T) {
	svc := newTestService(t, http.NewServeMux())

	_, result, err := svc.GetAccounts(t.Context(), nil, AccountsInput{})
	if err != nil {
		t.Fatalf("GetAccounts() error = %v", err)
	}
	if len(result.AccountNumbers) != 2 || result.AccountNumbers[0] != "12345678" {
		t.Errorf("AccountNumbers = %v, want [12345678 87654321]", result.AccountNumbers)
	}
	if result.AccountBalances["87654321"] != 9000.00 {
		t.Errorf("AccountBalances[87654321] = %v, want 9000", result.AccountBalances["87654321"])
	}
}

func TestGetBalances_DefaultsToFirstAccount(t *testing.T) {
	mux := http.NewServeMux()
	var requestedAccount string
	mux.HandleFunc("/private/balances", func(w http.ResponseWriter, r *http.Request) {
		requestedAccount = r.URL.Query().Get("account")
		json.NewEncoder(w).Encode(map[string]any{"error": "", "total_account_value": "1500.25"})
	})

	svc := newTestService(t, mux)

	_, result, err := svc.GetBalances(t.Context(), nil, AccountInput{})
	if err != nil {
		t.Fatalf("GetBalances() error = %v", err)
	}
	if requestedAccount != "12345678" {
		t.Errorf("upstream account = %q, want first account 12345678", requestedAccount)
	}
	if result.AccountID != "12345678" {
		t.Errorf("result account = %q, want 12345678", result.AccountID)
	}
	if result.Data["total_account_value"] != "1500.25" {
		t.Errorf("data = %v, want total_account_value 1500.25", result.Data)
	}
}

func TestGetBalances_ExplicitAccount(t *testing.T) {
	mux := http.NewServeMux()
	var requestedAccount string
	mux.HandleFunc("/private/balances", func(w http.ResponseWriter, r *http.Request) {
		requestedAccount = r.URL.Query().Get("account")
		json.NewEncoder(w).Encode(map[string]any{"error": ""})
	})

	svc := newTestService(t, mux)

	if _, _, err := svc.GetBalances(t.Context(), nil, AccountInput{AccountID: "87654321"}); err != nil {
		t.Fatalf("GetBalances() error = %v", err)
	}
	if requestedAccount != "87654321" {
		t.Errorf("upstream account = %q, want 87654321", requestedAccount)
	}
}

func TestGetQuote_RequiresSymbol(t *testing.T) {
	svc := newTestService(t, http.NewServeMux())

	if _, _, err := svc.GetQuote(t.Context(), nil, QuoteInput{}); err == nil {
		t.Error("GetQuote() with empty symbol should fail")
	}
}

func TestGetQuote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/private/quote", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error":  "",
			"symbol": "AAPL",
			"bid":    184.90,
			"ask":    185.10,
			"last":   185.00,
		})
	})

	svc := newTestService(t, mux)

	_, quote, err := svc.GetQuote(t.Context(), nil, QuoteInput{Symbol: "aapl"})
	if err != nil {
		t.Fatalf("GetQuote() error = %v", err)
	}
	if quote.Symbol != "AAPL" || quote.Last != 185.00 {
		t.Errorf("quote = %+v, want AAPL at 185.00", quote)
	}
}

func TestGetOptionDates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/private/optiondates", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": "",
			"items": []string{"2026-08-28", "2026-09-04"},
		})
	})

	svc := newTestService(t, mux)

	_, result, err := svc.GetOptionDates(t.Context(), nil, SymbolInput{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("GetOptionDates() error = %v", err)
	}
	if len(result.ExpirationDates) != 2 || result.ExpirationDates[0] != "2026-08-28" {
		t.Errorf("ExpirationDates = %v, want server order starting 2026-08-28", result.ExpirationDates)
	}
}

func TestPlaceOrder_ValidatesInput(t *testing.T) {
	svc := newTestService(t, http.NewServeMux())

	tests := []struct {
		name  string
		input PlaceOrderInput
	}{
		{"missing symbol", PlaceOrderInput{Side: "BUY", PriceType: "MARKET", Quantity: 1}},
		{"zero quantity", PlaceOrderInput{Symbol: "AAPL", Side: "BUY", PriceType: "MARKET"}},
		{"bad side", PlaceOrderInput{Symbol: "AAPL", Side: "HOLD", PriceType: "MARKET", Quantity: 1}},
		{"bad price type", PlaceOrderInput{Symbol: "AAPL", Side: "BUY", PriceType: "WHATEVER", Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.PlaceOrder(t.Context(), nil, tt.input); err == nil {
				t.Error("PlaceOrder() should fail")
			}
		})
	}
}

func TestPlaceOrder_SubmitsWithDefaultAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/private/orderbar", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["accountId"] != "12345678" {
			t.Errorf("accountId = %v, want default 12345678", payload["accountId"])
		}
		if payload["previewOrders"] != "1" {
			t.Errorf("previewOrders = %v, want 1 (dry run)", payload["previewOrders"])
		}
		json.NewEncoder(w).Encode(map[string]any{"error": "", "order_id": "ORD-3"})
	})

	svc := newTestService(t, mux)

	_, result, err := svc.PlaceOrder(t.Context(), nil, PlaceOrderInput{
		Symbol:    "AAPL",
		Side:      "BUY",
		PriceType: "MARKET",
		Quantity:  5,
		DryRun:    true,
	})
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
	if result.Data["order_id"] != "ORD-3" {
		t.Errorf("order_id = %v, want ORD-3", result.Data["order_id"])
	}
}

func TestCancelOrder_RequiresOrderID(t *testing.T) {
	svc := newTestService(t, http.NewServeMux())

	if _, _, err := svc.CancelOrder(t.Context(), nil, CancelOrderInput{}); err == nil {
		t.Error("CancelOrder() with empty order_id should fail")
	}
}
