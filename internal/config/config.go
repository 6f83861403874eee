package config

import (
	"fmt"
)

// TrainingConfig is the canonical, validated form of a training run
// configuration. It is constructed once by Load (or Parse) and never mutated
// afterwards; both accepted file layouts normalize into this shape.
type TrainingConfig struct {
	// Model selects the network architecture
	Model ModelConfig

	// Run holds the run-level parameters (mode, device, seed, epochs)
	Run RunConfig

	// Dataset describes the data source and split fractions
	Dataset DatasetConfig

	// Paths holds the persistence locations for logs and checkpoints
	Paths PathsConfig

	// Optimizer describes the optimizer and its parameters
	Optimizer OptimizerConfig

	// Scheduler describes the learning-rate schedule
	Scheduler SchedulerConfig

	// Loss is the loss function identifier (e.g. "ce", "mse")
	Loss string

	// Metrics is the ordered list of metric names to report.
	// Order is preserved for reporting order.
	Metrics []string

	// Wandb is the optional experiment-tracking descriptor.
	// Nil when tracking is disabled.
	Wandb *WandbConfig

	// ClassNames maps class indices to display names for visualization.
	// Empty disables visualization. When present it must have exactly
	// Model.NumberClasses entries.
	ClassNames []string
}

// ModelConfig selects the encoder/decoder pair and input/output dimensions.
type ModelConfig struct {
	// Encoder is the feature extractor name (e.g. "lenet", "resnet18")
	Encoder string

	// Decoder is the classification head name. Mutually exclusive with
	// Multidecoder; exactly one of the two must be set.
	Decoder string

	// Multidecoder is a list of decoder names for multi-head models
	Multidecoder []string

	// InChannels is the number of input image channels (1 for grayscale, 3 for RGB)
	InChannels int

	// NumberClasses is the number of output classes
	NumberClasses int
}

// RunConfig holds run-level parameters.
type RunConfig struct {
	// Algorithm is the run mode, "train" or "test"
	Algorithm string

	// Device is the compute device, "cpu" or "cuda"
	Device string

	// Seed initializes the random number generators
	Seed int

	// Epochs is the number of training epochs
	Epochs int
}

// DatasetConfig describes the data source and how it is partitioned.
type DatasetConfig struct {
	// Name is the dataset identifier (e.g. "mnist", "custom")
	Name string

	// Images is the image directory for the "custom" dataset
	Images string

	// Annotation is the label file path for the "custom" dataset
	Annotation string

	// TrainPart is the fraction of samples used for training, in [0,1]
	TrainPart float64

	// ValidPart is the fraction of samples used for validation, in [0,1]
	ValidPart float64

	// TestPart is the fraction of samples used for testing, in [0,1].
	// When absent from the document it is derived as 1 - train - valid.
	TestPart float64

	// BatchSize is the number of samples per training batch
	BatchSize int
}

// PathsConfig holds the persistence locations of a run.
type PathsConfig struct {
	// Logs is the directory metric logs are written to
	Logs string

	// Checkpoints is the directory model snapshots are written to.
	// Must differ from Logs.
	Checkpoints string

	// SaveEvery is the checkpoint interval in epochs
	SaveEvery int

	// Checkpoint is an optional snapshot to load before the run starts.
	// Empty means training starts from scratch.
	Checkpoint string
}

// OptimizerConfig describes the optimizer. Betas, Eps and WeightDecay carry
// documented defaults when absent from the document (see defaults.go).
type OptimizerConfig struct {
	// Name is the optimizer identifier (e.g. "adam", "radam")
	Name string

	// Type tags the implementation source, "lib" or "custom"
	Type string

	// LearningRate is the initial step size, must be > 0
	LearningRate float64

	// WeightDecay is the L2 penalty coefficient
	WeightDecay float64

	// Betas are the exponential decay rates for the moment estimates
	Betas [2]float64

	// Eps is the numerical stability term added to the denominator
	Eps float64
}

// SchedulerConfig describes the learning-rate schedule. Only the parameters
// relevant to Name are meaningful: steplr uses Step/Gamma, multisteplr uses
// Milestones/Gamma, polylr uses Power.
type SchedulerConfig struct {
	// Name is the schedule identifier ("steplr", "multisteplr", "polylr")
	Name string

	// Type tags the implementation source, "lib" or "custom"
	Type string

	// Step is the epoch period between decays (steplr)
	Step int

	// Gamma is the multiplicative decay factor (steplr, multisteplr)
	Gamma float64

	// Milestones are the epochs at which decay happens (multisteplr),
	// strictly increasing
	Milestones []int

	// Power is the polynomial decay exponent (polylr)
	Power float64
}

// WandbConfig is the experiment-tracking descriptor.
type WandbConfig struct {
	// Project is the tracking project name
	Project string

	// RunName identifies this run inside the project. Defaulted
	// deterministically from Project when absent (see defaults.go).
	RunName string

	// Metrics is the subset of TrainingConfig.Metrics reported remotely.
	// Defaults to all configured metrics.
	Metrics []string
}

// Validate checks the cross-field invariants of a decoded config.
// Per-key presence and type checks happen earlier, during decoding, so every
// failure here is an *InvariantViolationError.
func (c *TrainingConfig) Validate() error {
	if err := c.Model.validate(); err != nil {
		return err
	}
	if err := c.Run.validate(); err != nil {
		return err
	}
	if err := c.Dataset.validate(); err != nil {
		return err
	}
	if err := c.Paths.validate(); err != nil {
		return err
	}
	if err := c.Optimizer.validate(); err != nil {
		return err
	}
	if err := c.Scheduler.validate(); err != nil {
		return err
	}

	if !knownLosses[c.Loss] {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"unknown loss %q (supported: %s)", c.Loss, supported(knownLosses))}
	}

	if len(c.Metrics) == 0 {
		return &InvariantViolationError{Rule: "metrics list must not be empty"}
	}
	if len(c.Metrics) > len(knownMetrics) {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"metrics list has %d entries, at most %d are supported", len(c.Metrics), len(knownMetrics))}
	}
	seenMetrics := make(map[string]bool)
	for _, m := range c.Metrics {
		if !knownMetrics[m] {
			return &InvariantViolationError{Rule: fmt.Sprintf(
				"unknown metric %q (supported: %s)", m, supported(knownMetrics))}
		}
		if seenMetrics[m] {
			return &InvariantViolationError{Rule: fmt.Sprintf("duplicate metric %q", m)}
		}
		seenMetrics[m] = true
	}

	if c.Wandb != nil {
		if c.Wandb.Project == "" {
			return &InvariantViolationError{Rule: "wandb block requires a project name"}
		}
		for _, m := range c.Wandb.Metrics {
			if !seenMetrics[m] {
				return &InvariantViolationError{Rule: fmt.Sprintf(
					"wandb metric %q is not in the configured metrics list", m)}
			}
		}
	}

	if len(c.ClassNames) > 0 && len(c.ClassNames) != c.Model.NumberClasses {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"class_names has %d entries, expected number_classes=%d",
			len(c.ClassNames), c.Model.NumberClasses)}
	}

	return nil
}

func (m *ModelConfig) validate() error {
	if !knownEncoders[m.Encoder] {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"unknown encoder %q (supported: %s)", m.Encoder, supported(knownEncoders))}
	}
	if m.Decoder != "" && len(m.Multidecoder) > 0 {
		return &InvariantViolationError{Rule: "decoder and multidecoder are mutually exclusive"}
	}
	if m.Decoder != "" && !knownDecoders[m.Decoder] {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"unknown decoder %q (supported: %s)", m.Decoder, supported(knownDecoders))}
	}
	for i, d := range m.Multidecoder {
		if !knownDecoders[d] {
			return &InvariantViolationError{Rule: fmt.Sprintf(
				"multidecoder[%d]: unknown decoder %q (supported: %s)", i, d, supported(knownDecoders))}
		}
	}
	if m.InChannels <= 0 {
		return &InvariantViolationError{Rule: fmt.Sprintf("in_channels must be > 0, got %d", m.InChannels)}
	}
	if m.NumberClasses <= 0 {
		return &InvariantViolationError{Rule: fmt.Sprintf("number_classes must be > 0, got %d", m.NumberClasses)}
	}
	return nil
}

func (r *RunConfig) validate() error {
	if !knownAlgorithms[r.Algorithm] {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"unknown algorithm %q (supported: %s)", r.Algorithm, supported(knownAlgorithms))}
	}
	if !knownDevices[r.Device] {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"unknown device %q (supported: %s)", r.Device, supported(knownDevices))}
	}
	if r.Epochs <= 0 {
		return &InvariantViolationError{Rule: fmt.Sprintf("epochs must be > 0, got %d", r.Epochs)}
	}
	return nil
}

func (d *DatasetConfig) validate() error {
	if !knownDatasets[d.Name] {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"unknown dataset %q (supported: %s)", d.Name, supported(knownDatasets))}
	}
	if d.Name == "custom" {
		if d.Images == "" {
			return &InvariantViolationError{Rule: "custom dataset requires an images directory"}
		}
		if d.Annotation == "" {
			return &InvariantViolationError{Rule: "custom dataset requires an annotation file"}
		}
	}
	for _, part := range []struct {
		name  string
		value float64
	}{
		{"train_part", d.TrainPart},
		{"valid_part", d.ValidPart},
		{"test_part", d.TestPart},
	} {
		if part.value < 0 || part.value > 1 {
			return &InvariantViolationError{Rule: fmt.Sprintf(
				"%s must be in [0, 1], got %g", part.name, part.value)}
		}
	}
	if sum := d.TrainPart + d.ValidPart + d.TestPart; sum > 1.0 {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"split fractions sum to %g, must not exceed 1.0", sum)}
	}
	if d.BatchSize <= 0 {
		return &InvariantViolationError{Rule: fmt.Sprintf("batch_size must be > 0, got %d", d.BatchSize)}
	}
	return nil
}

func (p *PathsConfig) validate() error {
	if p.Logs == "" {
		return &InvariantViolationError{Rule: "logs directory must not be empty"}
	}
	if p.Checkpoints == "" {
		return &InvariantViolationError{Rule: "checkpoints directory must not be empty"}
	}
	if p.Logs == p.Checkpoints {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"logs and checkpoints must be different directories, both are %q", p.Logs)}
	}
	if p.SaveEvery <= 0 {
		return &InvariantViolationError{Rule: fmt.Sprintf("save_every must be > 0, got %d", p.SaveEvery)}
	}
	return nil
}

func (o *OptimizerConfig) validate() error {
	if !knownOptimizers[o.Name] {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"unknown optimizer %q (supported: %s)", o.Name, supported(knownOptimizers))}
	}
	if !knownComponentTypes[o.Type] {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"unknown optimizer type %q (supported: %s)", o.Type, supported(knownComponentTypes))}
	}
	if o.LearningRate <= 0 {
		return &InvariantViolationError{Rule: fmt.Sprintf("learning_rate must be > 0, got %g", o.LearningRate)}
	}
	if o.WeightDecay < 0 {
		return &InvariantViolationError{Rule: fmt.Sprintf("weight_decay must be >= 0, got %g", o.WeightDecay)}
	}
	for i, b := range o.Betas {
		if b <= 0 || b >= 1 {
			return &InvariantViolationError{Rule: fmt.Sprintf(
				"optimizer_betas[%d] must be in (0, 1), got %g", i, b)}
		}
	}
	if o.Eps <= 0 {
		return &InvariantViolationError{Rule: fmt.Sprintf("optimizer_eps must be > 0, got %g", o.Eps)}
	}
	return nil
}

func (s *SchedulerConfig) validate() error {
	if !knownSchedulers[s.Name] {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"unknown scheduler %q (supported: %s)", s.Name, supported(knownSchedulers))}
	}
	if !knownComponentTypes[s.Type] {
		return &InvariantViolationError{Rule: fmt.Sprintf(
			"unknown scheduler type %q (supported: %s)", s.Type, supported(knownComponentTypes))}
	}
	switch s.Name {
	case "steplr":
		if s.Step <= 0 {
			return &InvariantViolationError{Rule: fmt.Sprintf("scheduler step must be > 0, got %d", s.Step)}
		}
		if s.Gamma <= 0 || s.Gamma > 1 {
			return &InvariantViolationError{Rule: fmt.Sprintf("scheduler gamma must be in (0, 1], got %g", s.Gamma)}
		}
	case "multisteplr":
		if len(s.Milestones) == 0 {
			return &InvariantViolationError{Rule: "multisteplr requires at least one milestone"}
		}
		prev := 0
		for i, m := range s.Milestones {
			if m <= prev {
				return &InvariantViolationError{Rule: fmt.Sprintf(
					"milestones must be strictly increasing positive integers, milestones[%d]=%d", i, m)}
			}
			prev = m
		}
		if s.Gamma <= 0 || s.Gamma > 1 {
			return &InvariantViolationError{Rule: fmt.Sprintf("scheduler gamma must be in (0, 1], got %g", s.Gamma)}
		}
	case "polylr":
		if s.Power <= 0 {
			return &InvariantViolationError{Rule: fmt.Sprintf("scheduler power must be > 0, got %g", s.Power)}
		}
	}
	return nil
}
