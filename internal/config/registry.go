package config

import (
	"sort"
	"strings"
)

// Known component names. The loader only checks names here; the actual model,
// optimizer and metric implementations live in the training program.
var (
	knownEncoders = map[string]bool{
		"lenet":     true,
		"alexnet":   true,
		"googlenet": true,
		"resnet18":  true,
		"resnet34":  true,
		"resnet50":  true,
		"resnet101": true,
		"resnet152": true,
	}

	knownDecoders = map[string]bool{
		"lenet":   true,
		"alexnet": true,
	}

	knownAlgorithms = map[string]bool{
		"train": true,
		"test":  true,
	}

	knownDevices = map[string]bool{
		"cpu":  true,
		"cuda": true,
	}

	knownDatasets = map[string]bool{
		"mnist":         true,
		"fashion_mnist": true,
		"cifar10":       true,
		"cifar100":      true,
		"gtsrb":         true,
		"custom":        true,
	}

	knownOptimizers = map[string]bool{
		"adam":   true,
		"adamw":  true,
		"adamax": true,
		"radam":  true,
		"nadam":  true,
	}

	knownSchedulers = map[string]bool{
		"steplr":      true,
		"multisteplr": true,
		"polylr":      true,
	}

	knownLosses = map[string]bool{
		"ce":                true,
		"custom_ce":         true,
		"bce":               true,
		"custom_bce":        true,
		"bce_logits":        true,
		"custom_bce_logits": true,
		"mse":               true,
		"custom_mse":        true,
		"mae":               true,
		"custom_mae":        true,
	}

	knownMetrics = map[string]bool{
		"accuracy":  true,
		"precision": true,
		"recall":    true,
		"f1_score":  true,
	}

	knownComponentTypes = map[string]bool{
		"lib":    true,
		"custom": true,
	}
)

// supported renders the keys of a registry as a sorted, comma-separated list
// for use in error messages.
func supported(registry map[string]bool) string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
