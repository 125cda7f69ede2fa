package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"
)

// RestPredictionRepository calls the scoring endpoints
type RestPredictionRepository struct {
	backend Backend
}

func NewRestPredictionRepository(backend Backend) repository.PredictionRepository {
	return &RestPredictionRepository{backend: backend}
}

// Predict posts the features and returns the prediction object with its keys
// in response order. A response without predictions yields an empty result.
func (r *RestPredictionRepository) Predict(ctx context.Context, mode entity.PredictionMode, size entity.SizeKey, features entity.Features) (*entity.PredictionResult, error) {
	route := mode.Route()
	if route == "" {
		return nil, fmt.Errorf("no prediction endpoint for mode %q", mode)
	}

	var body struct {
		Prediction json.RawMessage `json:"prediction"`
	}
	path := fmt.Sprintf("/predict/%s/%s", route, size)
	if err := r.backend.Post(ctx, path, features, &body); err != nil {
		return nil, err
	}

	return ParsePrediction(body.Prediction)
}

// ParsePrediction decodes a JSON object of numbers keeping key order. Values
// that are strings holding numbers are accepted. Any other value keeps its key
// but gets no entry in Values.
func ParsePrediction(raw json.RawMessage) (*entity.PredictionResult, error) {
	result := &entity.PredictionResult{Values: make(map[string]float64)}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return result, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("prediction is not an object")
	}

	seen := make(map[string]bool)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode prediction key: %w", err)
		}
		key, _ := keyTok.(string)

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to decode prediction %q: %w", key, err)
		}

		if !seen[key] {
			seen[key] = true
			result.Keys = append(result.Keys, key)
		}

		// unusable values keep their key so positional reads see them as missing
		var n float64
		switch v := value.(type) {
		case json.Number:
			if n, err = v.Float64(); err != nil {
				delete(result.Values, key)
				continue
			}
		case string:
			if n, err = strconv.ParseFloat(v, 64); err != nil {
				delete(result.Values, key)
				continue
			}
		default:
			delete(result.Values, key)
			continue
		}
		result.Values[key] = n
	}
	return result, nil
}
