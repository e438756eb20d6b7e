package valuation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/motorlot/MotorLot/internal/pkg/env"
)

// Quote is a market valuation snapshot for a single vehicle
type Quote struct {
	ValueCts  int64     `json:"value_cts"`
	Currency  string    `json:"currency"`
	FetchedAt time.Time `json:"fetched_at"`
}

type apiResponse struct {
	Success  bool   `json:"success"`
	ValueCts int64  `json:"value_cts"`
	Currency string `json:"currency"`
	Error    string `json:"error"`
}

var httpClient = &http.Client{Timeout: 15 * time.Second}

// Fetch requests a market valuation for the given vehicle from the
// configured provider. The provider is an opaque network collaborator.
func Fetch(vin string, mileage int) (*Quote, error) {
	baseURL := env.GetEnv("VALUATION_API_URL", "")
	apiKey := env.GetEnv("VALUATION_API_KEY", "")
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("valuation provider is not configured")
	}

	formData := url.Values{
		"vin":     {vin},
		"mileage": {strconv.Itoa(mileage)},
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/quote", nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = formData.Encode()
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach valuation provider: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("valuation provider returned status %d", resp.StatusCode)
	}

	var response apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode valuation response: %v", err)
	}
	if !response.Success {
		return nil, fmt.Errorf("valuation failed: %s", response.Error)
	}

	return &Quote{
		ValueCts:  response.ValueCts,
		Currency:  response.Currency,
		FetchedAt: time.Now(),
	}, nil
}
