package maps

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes the map as a JSON object, keys in iteration order and
// in their original spelling. Maps holding opaque keys cannot be encoded and
// fail with ErrOpaqueKeyNotSerializable.
func (m *CaseInsensitiveMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	first := true

	for key, value := range m.data.Seq() {
		if !key.IsText() {
			return nil, fmt.Errorf("%w: %T", ErrOpaqueKeyNotSerializable, key.Display())
		}

		if !first {
			buf.WriteByte(',')
		}

		first = false

		encodedKey, err := json.Marshal(key.String())
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", key.String(), err)
		}

		encodedValue, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encoding value for key %q: %w", key.String(), err)
		}

		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encodedValue)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the map, preserving the document's
// key order for ordered kinds. Keys that fold to the same form collapse into
// one entry; the last occurrence wins, keeping its casing and value. The map
// is cleared first.
//
// Unlike the rest of the API, UnmarshalJSON and UnmarshalYAML accept a
// zero-valued map, initializing it to the defaults: decoders construct maps
// reflectively, bypassing the constructors. They are the only
// zero-value-safe entry points.
func (m *CaseInsensitiveMap[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading object start: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	m.ensure()
	m.Clear()

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}

		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", keyTok)
		}

		var value V

		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decoding value for key %q: %w", key, err)
		}

		if _, _, err := m.Put(key, value); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("reading object end: %w", err)
	}

	return nil
}

// MarshalYAML encodes the map as a YAML mapping node, keys in iteration order
// and in their original spelling. Like MarshalJSON it rejects opaque keys.
func (m *CaseInsensitiveMap[V]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for key, value := range m.data.Seq() {
		if !key.IsText() {
			return nil, fmt.Errorf("%w: %T", ErrOpaqueKeyNotSerializable, key.Display())
		}

		keyNode := &yaml.Node{}
		if err := keyNode.Encode(key.String()); err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", key.String(), err)
		}

		valueNode := &yaml.Node{}
		if err := valueNode.Encode(value); err != nil {
			return nil, fmt.Errorf("encoding value for key %q: %w", key.String(), err)
		}

		node.Content = append(node.Content, keyNode, valueNode)
	}

	return node, nil
}

// UnmarshalYAML decodes a YAML mapping into the map, preserving document
// order for ordered kinds, with the same last-wins collapsing as
// UnmarshalJSON. The map is cleared first. Like UnmarshalJSON, this is a
// zero-value-safe entry point.
func (m *CaseInsensitiveMap[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected YAML mapping, got %v", node.Kind)
	}

	m.ensure()
	m.Clear()

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		var key string

		if err := keyNode.Decode(&key); err != nil {
			return fmt.Errorf("decoding key at line %d: %w", keyNode.Line, err)
		}

		var value V

		if err := valueNode.Decode(&value); err != nil {
			return fmt.Errorf("decoding value for key %q: %w", key, err)
		}

		if _, _, err := m.Put(key, value); err != nil {
			return err
		}
	}

	return nil
}
