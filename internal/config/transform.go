package config

import (
	"errors"
	"fmt"
	"io/fs"

	yamlparser "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// TransformConfig describes the image preprocessing pipeline applied before
// batching. It lives in its own file next to the main config.
type TransformConfig struct {
	// Tensor converts images to tensors when true
	Tensor bool

	// Resize scales images to Resize x Resize pixels. Zero disables resizing.
	Resize int
}

// LoadTransform reads, parses and validates a transform config file.
// Unknown keys are rejected: a misspelled transform name would otherwise be
// silently skipped by the training program.
func LoadTransform(path string) (*TransformConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yamlparser.Parser()); err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("failed to read transform config file %q: %w", path, err)
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	return decodeTransform(k)
}

// ParseTransform is LoadTransform for an in-memory document.
func ParseTransform(data []byte) (*TransformConfig, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yamlparser.Parser()); err != nil {
		return nil, &ParseError{Path: "<memory>", Err: err}
	}
	return decodeTransform(k)
}

func decodeTransform(k *koanf.Koanf) (*TransformConfig, error) {
	t := &TransformConfig{}
	var err error

	for _, key := range k.Keys() {
		switch key {
		case "tensor":
			if t.Tensor, err = reqBool(k, "tensor"); err != nil {
				return nil, err
			}
		case "resize":
			if t.Resize, err = reqInt(k, "resize"); err != nil {
				return nil, err
			}
			if t.Resize <= 0 {
				return nil, &InvariantViolationError{Rule: fmt.Sprintf(
					"resize must be > 0, got %d", t.Resize)}
			}
		default:
			return nil, &InvariantViolationError{Rule: fmt.Sprintf(
				"unknown transform %q (supported: resize, tensor)", key)}
		}
	}

	return t, nil
}
