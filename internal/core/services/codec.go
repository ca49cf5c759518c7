package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/carelist/internal/core/domain"
)

// encodeServices serialises the list as a JSON array of records.
func encodeServices(list []domain.Service) (string, error) {
	if list == nil {
		list = []domain.Service{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode services: %w", err)
	}
	return string(data), nil
}

// decodeServices parses a persisted list. Records that are not objects,
// miss a field, or hold a field of the wrong kind are skipped and counted.
// Numeric id and price values from older data are accepted as text.
// Later records repeating an earlier id are skipped too.
// An error is returned only when blob is not a JSON array at all.
func decodeServices(blob string) ([]domain.Service, int, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal([]byte(blob), &raws); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}

	list := make([]domain.Service, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	discarded := 0
	for _, raw := range raws {
		svc, ok := decodeService(raw)
		if !ok {
			discarded++
			continue
		}
		if _, dup := seen[svc.ID]; dup {
			discarded++
			continue
		}
		seen[svc.ID] = struct{}{}
		list = append(list, svc)
	}
	return list, discarded, nil
}

func decodeService(raw json.RawMessage) (domain.Service, bool) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return domain.Service{}, false
	}

	var svc domain.Service
	var ok bool
	if svc.ID, ok = textField(fields, "id", true); !ok || svc.ID == "" {
		return domain.Service{}, false
	}
	if svc.Name, ok = textField(fields, "name", false); !ok {
		return domain.Service{}, false
	}
	if svc.Description, ok = textField(fields, "description", false); !ok {
		return domain.Service{}, false
	}
	if svc.Price, ok = textField(fields, "price", true); !ok {
		return domain.Service{}, false
	}
	return svc, true
}

// textField reads a string member. When numeric is set a JSON number is
// accepted and kept in its literal form.
func textField(fields map[string]json.RawMessage, name string, numeric bool) (string, bool) {
	raw, ok := fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	if !numeric {
		return "", false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return "", false
	}
	return n.String(), true
}
