package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"medai/internal/session"
)

// ErrBadPredictResponse is returned when the prediction service responds
// with anything other than the canonical predictions/precaution shape.
// Legacy shapes (top_3, result maps) are rejected, not guessed at.
var ErrBadPredictResponse = errors.New("unexpected prediction response shape")

// PredictionClient talks to the external prediction service. It implements
// session.Predictor. Request deadlines are owned by the caller's context.
type PredictionClient struct {
	baseURL string
	hc      *http.Client
}

func NewPredictionClient(baseURL string) *PredictionClient {
	return &PredictionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No client-level timeout: Predict is bounded by the session
		// controller's context deadline.
		hc: &http.Client{},
	}
}

// Symptoms fetches the symptom catalog. The endpoint historically returned
// either {"symptoms": [...]} or a bare array; both are accepted.
func (p *PredictionClient) Symptoms(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/symptoms", nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server error: %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		Symptoms []string `json:"symptoms"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Symptoms != nil {
		return wrapped.Symptoms, nil
	}

	var bare []string
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}

	return nil, ErrBadPredictResponse
}

type predictRequest struct {
	Symptoms  []string `json:"symptoms"`
	UserEmail string   `json:"user_email,omitempty"`
}

type predictResponse struct {
	Predictions []string `json:"predictions"`
	Precaution  string   `json:"precaution"`
}

// Predict submits the selected symptoms and returns the ranked predictions.
func (p *PredictionClient) Predict(ctx context.Context, symptoms []string, userEmail string) (*session.Prediction, error) {
	payload, err := json.Marshal(predictRequest{Symptoms: symptoms, UserEmail: userEmail})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server error: %d", resp.StatusCode)
	}

	var decoded predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPredictResponse, err)
	}
	if decoded.Predictions == nil {
		return nil, ErrBadPredictResponse
	}

	return &session.Prediction{
		Diseases:   decoded.Predictions,
		Precaution: decoded.Precaution,
	}, nil
}
