package firstrade

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestParsePriceType(t *testing.T) {
	tests := []struct {
		in      string
		want    PriceType
		wantErr bool
	}{
		{"MARKET", PriceTypeMarket, false},
		{"limit", PriceTypeLimit, false},
		{"Stop_Limit", PriceTypeStopLimit, false},
		{"TRAILING_STOP_PERCENT", PriceTypeTrailingStopPercent, false},
		{"BOGUS", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePriceType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePriceType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePriceType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseOrderSide(t *testing.T) {
	tests := []struct {
		in      string
		want    OrderSide
		wantErr bool
	}{
		{"BUY", OrderSideBuy, false},
		{"sell", OrderSideSell, false},
		{"SELL_SHORT", OrderSideSellShort, false},
		{"BUY_TO_COVER", OrderSideBuyToCover, false},
		{"BUY_OPTION", OrderSideBuyOption, false},
		{"HOLD", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOrderSide(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOrderSide(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOrderSide(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlaceOrder_LimitCarriesPrice(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(pathOrderBar, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding order body: %v", err)
		}
		if body["symbol"] != "AAPL" {
			t.Errorf("order symbol = %v, want AAPL", body["symbol"])
		}
		if body["priceType"] != string(PriceTypeLimit) {
			t.Errorf("order priceType = %v, want %q", body["priceType"], PriceTypeLimit)
		}
		if body["limitPrice"] != 185.50 {
			t.Errorf("order limitPrice = %v, want 185.50", body["limitPrice"])
		}
		if body["previewOrders"] != "" {
			t.Errorf("order previewOrders = %v, want empty", body["previewOrders"])
		}
		writeLoginJSON(w, map[string]any{"error": "", "order_id": "ORD-7"})
	})

	client := newAuthenticatedClient(t, mux)

	result, err := client.PlaceOrder(t.Context(), OrderRequest{
		Account:   "12345678",
		Symbol:    "aapl",
		PriceType: PriceTypeLimit,
		Side:      OrderSideBuy,
		Duration:  DurationDay,
		Quantity:  10,
		Price:     185.50,
	})
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	var confirmed map[string]any
	if err := json.Unmarshal(result, &confirmed); err != nil {
		t.Fatalf("decoding confirmation: %v", err)
	}
	if confirmed["order_id"] != "ORD-7" {
		t.Errorf("confirmation order_id = %v, want ORD-7", confirmed["order_id"])
	}
}

func TestPlaceOrder_MarketOmitsLimitPrice(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(pathOrderBar, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["limitPrice"]; ok {
			t.Error("market order must not carry limitPrice")
		}
		writeLoginJSON(w, map[string]any{"error": ""})
	})

	client := newAuthenticatedClient(t, mux)

	_, err := client.PlaceOrder(t.Context(), OrderRequest{
		Account:   "12345678",
		Symbol:    "AAPL",
		PriceType: PriceTypeMarket,
		Side:      OrderSideBuy,
		Duration:  DurationDay,
		Quantity:  5,
		Price:     185.50, // ignored for market orders
	})
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
}

func TestPlaceOrder_DryRunSetsPreview(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(pathOrderBar, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["previewOrders"] != "1" {
			t.Errorf("order previewOrders = %v, want %q", body["previewOrders"], "1")
		}
		if body["notional"] != true {
			t.Errorf("order notional = %v, want true", body["notional"])
		}
		writeLoginJSON(w, map[string]any{"error": ""})
	})

	client := newAuthenticatedClient(t, mux)

	_, err := client.PlaceOrder(t.Context(), OrderRequest{
		Account:   "12345678",
		Symbol:    "VOO",
		PriceType: PriceTypeMarket,
		Side:      OrderSideBuy,
		Duration:  DurationDay,
		Quantity:  250.00,
		DryRun:    true,
		Notional:  true,
	})
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
}

func TestPlaceOrder_RejectedByService(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(pathOrderBar, func(w http.ResponseWriter, r *http.Request) {
		writeLoginJSON(w, map[string]any{"error": "Insufficient buying power."})
	})

	client := newAuthenticatedClient(t, mux)

	_, err := client.PlaceOrder(t.Context(), OrderRequest{
		Account:   "12345678",
		Symbol:    "AAPL",
		PriceType: PriceTypeMarket,
		Side:      OrderSideBuy,
		Duration:  DurationDay,
		Quantity:  100000,
	})
	if !errors.Is(err, ErrResponseFailed) {
		t.Errorf("PlaceOrder() error = %v, want ErrResponseFailed", err)
	}
}

func TestPlaceOptionOrder_PostsContracts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(pathOptionOrder, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["optionSymbol"] != "AAPL260116C00200000" {
			t.Errorf("optionSymbol = %v, want AAPL260116C00200000", body["optionSymbol"])
		}
		if body["contracts"] != float64(2) {
			t.Errorf("contracts = %v, want 2", body["contracts"])
		}
		if body["transactionType"] != string(OrderSideBuyOption) {
			t.Errorf("transactionType = %v, want %q", body["transactionType"], OrderSideBuyOption)
		}
		writeLoginJSON(w, map[string]any{"error": ""})
	})

	client := newAuthenticatedClient(t, mux)

	_, err := client.PlaceOptionOrder(t.Context(), OptionOrderRequest{
		Account:      "12345678",
		OptionSymbol: "aapl260116c00200000",
		PriceType:    PriceTypeLimit,
		Side:         OrderSideBuyOption,
		Duration:     DurationDay,
		Contracts:    2,
		Price:        3.20,
	})
	if err != nil {
		t.Fatalf("PlaceOptionOrder() error = %v", err)
	}
}

func TestPlaceOrder_BeforeLogin(t *testing.T) {
	client := NewClientWithBaseURL(Credentials{Username: "alice", Password: "pw"}, newMemStore(), "http://invalid.test")

	_, err := client.PlaceOrder(t.Context(), OrderRequest{
		Account:   "12345678",
		Symbol:    "AAPL",
		PriceType: PriceTypeMarket,
		Side:      OrderSideBuy,
		Duration:  DurationDay,
		Quantity:  1,
	})
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("PlaceOrder() error = %v, want ErrNotAuthenticated", err)
	}
}
