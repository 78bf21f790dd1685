package property

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// UnmarshalJSON restores nested bags as Properties and integral numbers as int
func (p *Property) UnmarshalJSON(data []byte) error {
	aux := struct {
		Key      string          `json:"key"`
		Value    json.RawMessage `json:"value,omitempty"`
		Abstract bool            `json:"abstract,omitempty"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Key = aux.Key
	p.Abstract = aux.Abstract
	p.Value = nil
	if len(aux.Value) == 0 {
		return nil
	}
	if nested, ok := decodeBag(aux.Value); ok {
		p.Value = nested
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(aux.Value))
	decoder.UseNumber()
	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return err
	}
	p.Value = normalizeNumbers(value)
	return nil
}

func decodeBag(data []byte) (Properties, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) < 2 || trimmed[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil || len(items) == 0 {
		return nil, false
	}
	for _, item := range items {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(item, &probe); err != nil {
			return nil, false
		}
		if _, ok := probe["key"]; !ok {
			return nil, false
		}
	}
	var ret Properties
	if err := json.Unmarshal(trimmed, &ret); err != nil {
		return nil, false
	}
	return ret, true
}

func normalizeNumbers(value interface{}) interface{} {
	switch actual := value.(type) {
	case json.Number:
		if i, err := strconv.Atoi(actual.String()); err == nil {
			return i
		}
		f, _ := actual.Float64()
		return f
	case []interface{}:
		for i, item := range actual {
			actual[i] = normalizeNumbers(item)
		}
	case map[string]interface{}:
		for k, item := range actual {
			actual[k] = normalizeNumbers(item)
		}
	}
	return value
}
