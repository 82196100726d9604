// Package yamlmarshaller provides a generic YAML marshaller for configuration models.
package yamlmarshaller

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// Marshaller marshals and unmarshals models of type T to and from YAML.
type Marshaller[T any] struct{}

// NewMarshaller creates a new Marshaller instance.
func NewMarshaller[T any]() *Marshaller[T] {
	return &Marshaller[T]{}
}

// Marshal serializes the model into a YAML string.
func (m *Marshaller[T]) Marshal(model T) (string, error) {
	data, err := yaml.Marshal(model)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}

	return string(data), nil
}

// Unmarshal deserializes YAML bytes into the model.
func (m *Marshaller[T]) Unmarshal(data []byte, model *T) error {
	err := yaml.Unmarshal(data, model)
	if err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}

	return nil
}
