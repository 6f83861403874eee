package config

import (
	"github.com/knadh/koanf/v2"
)

// Typed accessors over the generic koanf tree. req* variants fail with
// *MissingFieldError when the key is absent (or null), opt* variants
// substitute the given default. Both fail with *TypeMismatchError when the
// key holds a value of the wrong type.

func reqString(k *koanf.Koanf, key string) (string, error) {
	v := k.Get(key)
	if v == nil {
		return "", &MissingFieldError{Key: key}
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeMismatchError{Key: key, Expected: "string", Actual: v}
	}
	return s, nil
}

func optString(k *koanf.Koanf, key, def string) (string, error) {
	if k.Get(key) == nil {
		return def, nil
	}
	return reqString(k, key)
}

func reqBool(k *koanf.Koanf, key string) (bool, error) {
	v := k.Get(key)
	if v == nil {
		return false, &MissingFieldError{Key: key}
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeMismatchError{Key: key, Expected: "boolean", Actual: v}
	}
	return b, nil
}

func reqInt(k *koanf.Koanf, key string) (int, error) {
	v := k.Get(key)
	if v == nil {
		return 0, &MissingFieldError{Key: key}
	}
	n, ok := toInt(v)
	if !ok {
		return 0, &TypeMismatchError{Key: key, Expected: "integer", Actual: v}
	}
	return n, nil
}

func optInt(k *koanf.Koanf, key string, def int) (int, error) {
	if k.Get(key) == nil {
		return def, nil
	}
	return reqInt(k, key)
}

func reqFloat(k *koanf.Koanf, key string) (float64, error) {
	v := k.Get(key)
	if v == nil {
		return 0, &MissingFieldError{Key: key}
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, &TypeMismatchError{Key: key, Expected: "number", Actual: v}
	}
	return f, nil
}

func optFloat(k *koanf.Koanf, key string, def float64) (float64, error) {
	if k.Get(key) == nil {
		return def, nil
	}
	return reqFloat(k, key)
}

func reqStringSlice(k *koanf.Koanf, key string) ([]string, error) {
	v := k.Get(key)
	if v == nil {
		return nil, &MissingFieldError{Key: key}
	}
	seq, ok := v.([]interface{})
	if !ok {
		return nil, &TypeMismatchError{Key: key, Expected: "list of strings", Actual: v}
	}
	out := make([]string, 0, len(seq))
	for _, el := range seq {
		s, ok := el.(string)
		if !ok {
			return nil, &TypeMismatchError{Key: key, Expected: "list of strings", Actual: el}
		}
		out = append(out, s)
	}
	return out, nil
}

func optIntSlice(k *koanf.Koanf, key string, def []int) ([]int, error) {
	v := k.Get(key)
	if v == nil {
		return append([]int(nil), def...), nil
	}
	seq, ok := v.([]interface{})
	if !ok {
		return nil, &TypeMismatchError{Key: key, Expected: "list of integers", Actual: v}
	}
	out := make([]int, 0, len(seq))
	for _, el := range seq {
		n, ok := toInt(el)
		if !ok {
			return nil, &TypeMismatchError{Key: key, Expected: "list of integers", Actual: el}
		}
		out = append(out, n)
	}
	return out, nil
}

func optFloatPair(k *koanf.Koanf, key string, def [2]float64) ([2]float64, error) {
	v := k.Get(key)
	if v == nil {
		return def, nil
	}
	seq, ok := v.([]interface{})
	if !ok || len(seq) != 2 {
		return [2]float64{}, &TypeMismatchError{Key: key, Expected: "list of two numbers", Actual: v}
	}
	var out [2]float64
	for i, el := range seq {
		f, ok := toFloat(el)
		if !ok {
			return [2]float64{}, &TypeMismatchError{Key: key, Expected: "list of two numbers", Actual: el}
		}
		out[i] = f
	}
	return out, nil
}

// toInt coerces the numeric types the YAML parser may produce. Floats are
// accepted only when integral, so "epochs: 3.5" is a type mismatch rather
// than a silent truncation.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
