package vindecoder

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/motorlot/MotorLot/internal/pkg/env"
)

// DecodedVehicle holds the fields we keep from the decode provider response
type DecodedVehicle struct {
	VIN       string `json:"vin"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	ModelYear int    `json:"model_year"`
	Trim      string `json:"trim"`
}

type apiResponse struct {
	Success bool           `json:"success"`
	Vehicle DecodedVehicle `json:"vehicle"`
	Error   string         `json:"error"`
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

// Decode resolves a VIN to its decoded vehicle data via the configured
// provider. The provider is an opaque network collaborator; failures
// surface to the caller unchanged.
func Decode(vin string) (*DecodedVehicle, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if len(vin) != 17 {
		return nil, fmt.Errorf("VIN must be 17 characters, got %d", len(vin))
	}

	baseURL := env.GetEnv("VIN_DECODER_URL", "")
	apiKey := env.GetEnv("VIN_DECODER_API_KEY", "")
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("VIN decoder is not configured")
	}

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/decode/%s", baseURL, vin), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach VIN decoder: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("VIN decoder returned status %d", resp.StatusCode)
	}

	var response apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode VIN decoder response: %v", err)
	}
	if !response.Success {
		return nil, fmt.Errorf("VIN decode failed: %s", response.Error)
	}

	return &response.Vehicle, nil
}
