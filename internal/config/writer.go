package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// document mirrors the canonical sectioned file layout for marshaling.
// TrainingConfig itself stays layout-agnostic; only the writer knows how the
// canonical file is shaped.
type document struct {
	Model      docModel      `yaml:"model"`
	Run        docRun        `yaml:"run"`
	Dataset    docDataset    `yaml:"dataset"`
	Paths      docPaths      `yaml:"paths"`
	Optimizer  docComponent  `yaml:"optimizer"`
	Scheduler  docComponent  `yaml:"scheduler"`
	Loss       string        `yaml:"loss"`
	Metrics    []string      `yaml:"metrics,flow"`
	Wandb      *docWandb     `yaml:"wandb,omitempty"`
	ClassNames []string      `yaml:"class_names,flow,omitempty"`
}

type docModel struct {
	Encoder       string   `yaml:"encoder"`
	Decoder       string   `yaml:"decoder,omitempty"`
	Multidecoder  []string `yaml:"multidecoder,flow,omitempty"`
	InChannels    int      `yaml:"in_channels"`
	NumberClasses int      `yaml:"number_classes"`
}

type docRun struct {
	Algorithm string `yaml:"algorithm"`
	Device    string `yaml:"device"`
	Seed      int    `yaml:"seed"`
	Epochs    int    `yaml:"epochs"`
}

type docDataset struct {
	Name       string  `yaml:"name"`
	Images     string  `yaml:"images,omitempty"`
	Annotation string  `yaml:"annotation,omitempty"`
	TrainPart  float64 `yaml:"train_part"`
	ValidPart  float64 `yaml:"valid_part"`
	TestPart   float64 `yaml:"test_part"`
	BatchSize  int     `yaml:"batch_size"`
}

type docPaths struct {
	Logs        string `yaml:"logs"`
	Checkpoints string `yaml:"checkpoints"`
	SaveEvery   int    `yaml:"save_every"`
	Checkpoint  string `yaml:"checkpoint,omitempty"`
}

type docComponent struct {
	Name   string    `yaml:"name"`
	Type   string    `yaml:"type"`
	Params docParams `yaml:"params"`
}

type docParams struct {
	LearningRate float64   `yaml:"learning_rate,omitempty"`
	WeightDecay  *float64  `yaml:"weight_decay,omitempty"`
	Betas        []float64 `yaml:"betas,flow,omitempty"`
	Eps          float64   `yaml:"eps,omitempty"`
	Step         int       `yaml:"step,omitempty"`
	Gamma        float64   `yaml:"gamma,omitempty"`
	Milestones   []int     `yaml:"milestones,flow,omitempty"`
	Power        float64   `yaml:"power,omitempty"`
}

type docWandb struct {
	Project string   `yaml:"project"`
	RunName string   `yaml:"run_name"`
	Metrics []string `yaml:"metrics,flow"`
}

// Marshal renders a config in the canonical sectioned layout. Loading the
// output again yields an equivalent config; scheduler parameters that do not
// apply to the configured schedule are not carried over.
func Marshal(cfg *TrainingConfig) ([]byte, error) {
	doc := document{
		Model: docModel{
			Encoder:       cfg.Model.Encoder,
			Decoder:       cfg.Model.Decoder,
			Multidecoder:  cfg.Model.Multidecoder,
			InChannels:    cfg.Model.InChannels,
			NumberClasses: cfg.Model.NumberClasses,
		},
		Run: docRun{
			Algorithm: cfg.Run.Algorithm,
			Device:    cfg.Run.Device,
			Seed:      cfg.Run.Seed,
			Epochs:    cfg.Run.Epochs,
		},
		Dataset: docDataset{
			Name:       cfg.Dataset.Name,
			Images:     cfg.Dataset.Images,
			Annotation: cfg.Dataset.Annotation,
			TrainPart:  cfg.Dataset.TrainPart,
			ValidPart:  cfg.Dataset.ValidPart,
			TestPart:   cfg.Dataset.TestPart,
			BatchSize:  cfg.Dataset.BatchSize,
		},
		Paths: docPaths{
			Logs:        cfg.Paths.Logs,
			Checkpoints: cfg.Paths.Checkpoints,
			SaveEvery:   cfg.Paths.SaveEvery,
			Checkpoint:  cfg.Paths.Checkpoint,
		},
		Optimizer: docComponent{
			Name: cfg.Optimizer.Name,
			Type: cfg.Optimizer.Type,
			Params: docParams{
				LearningRate: cfg.Optimizer.LearningRate,
				WeightDecay:  &cfg.Optimizer.WeightDecay,
				Betas:        []float64{cfg.Optimizer.Betas[0], cfg.Optimizer.Betas[1]},
				Eps:          cfg.Optimizer.Eps,
			},
		},
		Scheduler: docComponent{
			Name:   cfg.Scheduler.Name,
			Type:   cfg.Scheduler.Type,
			Params: schedulerParams(&cfg.Scheduler),
		},
		Loss:       cfg.Loss,
		Metrics:    cfg.Metrics,
		ClassNames: cfg.ClassNames,
	}
	if cfg.Wandb != nil {
		doc.Wandb = &docWandb{
			Project: cfg.Wandb.Project,
			RunName: cfg.Wandb.RunName,
			Metrics: cfg.Wandb.Metrics,
		}
	}

	return yaml.Marshal(&doc)
}

// schedulerParams emits only the parameters relevant to the schedule name so
// that converted files do not accumulate inapplicable defaults.
func schedulerParams(s *SchedulerConfig) docParams {
	switch s.Name {
	case "multisteplr":
		return docParams{Milestones: s.Milestones, Gamma: s.Gamma}
	case "polylr":
		return docParams{Power: s.Power}
	default: // steplr
		return docParams{Step: s.Step, Gamma: s.Gamma}
	}
}

// WriteFile atomically writes a config in the canonical sectioned layout
// using a temp-file-then-rename in the target directory. On any failure the
// destination file is left untouched.
func WriteFile(path string, cfg *TrainingConfig) error {
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".config.*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if _, err := os.Stat(tmpPath); err == nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %q: %w", path, err)
	}

	return nil
}
