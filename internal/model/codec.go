package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

const (
	fieldKids      = "kids"
	fieldCompleted = "completed"
	fieldLastReset = "lastReset"
	fieldPIN       = "pin"
)

// Decode parses a full persisted document. A document without a kids
// roster is rejected with ErrInvalidFormat.
func Decode(data []byte) (*AppState, error) {
	out := &AppState{}
	if err := out.Merge(data); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge overwrites the fields present in doc and leaves the others alone.
// Every present field is decoded before any is applied, so a failure
// leaves s unchanged.
func (s *AppState) Merge(doc []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if fields == nil {
		return fmt.Errorf("%w: document is not an object", ErrInvalidFormat)
	}
	rawKids, ok := fields[fieldKids]
	if !ok || bytes.Equal(bytes.TrimSpace(rawKids), []byte("null")) {
		return fmt.Errorf("%w: missing %q roster", ErrInvalidFormat, fieldKids)
	}

	var kids map[string]PeriodTasks
	if err := json.Unmarshal(rawKids, &kids); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFormat, fieldKids, err)
	}

	var (
		completed    Ledger
		hasCompleted bool
		lastReset    string
		hasLastReset bool
		pin          string
		hasPIN       bool
	)
	if raw, ok := fields[fieldCompleted]; ok {
		if err := json.Unmarshal(raw, &completed); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidFormat, fieldCompleted, err)
		}
		hasCompleted = true
	}
	if raw, ok := fields[fieldLastReset]; ok {
		if err := json.Unmarshal(raw, &lastReset); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidFormat, fieldLastReset, err)
		}
		hasLastReset = true
	}
	if raw, ok := fields[fieldPIN]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		v, err := decodePIN(raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidFormat, fieldPIN, err)
		}
		pin, hasPIN = v, true
	}

	s.Kids = kids
	if hasCompleted {
		s.Completed = completed
	}
	if hasLastReset {
		s.LastReset = lastReset
	}
	if hasPIN {
		s.PIN = pin
	}
	for key, raw := range fields {
		switch key {
		case fieldKids, fieldCompleted, fieldLastReset, fieldPIN:
			continue
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string][]byte)
		}
		s.Extra[key] = compact.Bytes()
	}
	s.normalize()
	return nil
}

// decodePIN accepts a JSON string or number; PINs typed on a keypad have
// been saved both ways.
func decodePIN(raw json.RawMessage) (string, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, nil
	}
	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&num); err != nil {
		return "", err
	}
	return num.String(), nil
}

func (s *AppState) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, v any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		switch typed := v.(type) {
		case []byte:
			buf.Write(typed)
		default:
			b, err := json.Marshal(typed)
			if err != nil {
				return err
			}
			buf.Write(b)
		}
		return nil
	}

	kids := s.Kids
	if kids == nil {
		kids = map[string]PeriodTasks{}
	}
	completed := s.Completed
	if completed == nil {
		completed = Ledger{}
	}
	if err := write(fieldKids, kids); err != nil {
		return nil, err
	}
	if err := write(fieldCompleted, completed); err != nil {
		return nil, err
	}
	if err := write(fieldLastReset, s.LastReset); err != nil {
		return nil, err
	}
	if err := write(fieldPIN, s.PIN); err != nil {
		return nil, err
	}
	extraKeys := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		if err := write(k, s.Extra[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode returns the document, indented with two spaces when pretty is set.
func (s *AppState) Encode(pretty bool) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if !pretty {
		return raw, nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
