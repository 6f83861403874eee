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

// Load reads, parses and validates a training config file.
//
// Two document layouts are accepted: the historical flat layout where every
// key sits at the top level, and the sectioned layout with model/run/dataset/
// paths/optimizer/scheduler blocks. Both normalize into the same
// TrainingConfig.
//
// Error cases, all terminal and atomic (no partial config is ever returned):
//   - file missing or unreadable (matchable with errors.Is(err, fs.ErrNotExist))
//   - malformed YAML (*ParseError)
//   - required key absent (*MissingFieldError)
//   - key holds a value of the wrong type (*TypeMismatchError)
//   - cross-field rule broken (*InvariantViolationError)
func Load(path string) (*TrainingConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yamlparser.Parser()); err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	return decode(k)
}

// Parse is Load for an in-memory document. Used by library callers that
// obtain the bytes themselves.
func Parse(data []byte) (*TrainingConfig, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yamlparser.Parser()); err != nil {
		return nil, &ParseError{Path: "<memory>", Err: err}
	}
	return decode(k)
}

// decode normalizes either layout into a TrainingConfig and validates it.
func decode(k *koanf.Koanf) (*TrainingConfig, error) {
	var (
		cfg *TrainingConfig
		err error
	)
	if isSectioned(k) {
		cfg, err = decodeSectioned(k)
	} else {
		cfg, err = decodeFlat(k)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isSectioned sniffs the document layout. The sectioned layout is recognized
// by a mapping under "model" or "optimizer"; in the flat layout those keys
// hold scalars (or "model" does not exist at all).
func isSectioned(k *koanf.Koanf) bool {
	if _, ok := k.Get("model").(map[string]interface{}); ok {
		return true
	}
	if _, ok := k.Get("optimizer").(map[string]interface{}); ok {
		return true
	}
	return false
}

func decodeFlat(k *koanf.Koanf) (*TrainingConfig, error) {
	cfg := &TrainingConfig{}
	var err error

	if cfg.Model, err = decodeModel(k, keysFlatModel); err != nil {
		return nil, err
	}
	if cfg.Run, err = decodeRun(k, keysFlatRun); err != nil {
		return nil, err
	}
	if cfg.Dataset, err = decodeDataset(k, keysFlatDataset); err != nil {
		return nil, err
	}
	if cfg.Paths, err = decodePaths(k, keysFlatPaths); err != nil {
		return nil, err
	}

	// In the flat layout optimizer/scheduler are scalar names with their
	// parameters as sibling keys; the type tag does not exist and defaults.
	if cfg.Optimizer.Name, err = reqString(k, "optimizer"); err != nil {
		return nil, err
	}
	cfg.Optimizer.Type = DefaultComponentType
	if cfg.Optimizer.LearningRate, err = reqFloat(k, "learning_rate"); err != nil {
		return nil, err
	}
	if cfg.Optimizer.WeightDecay, err = optFloat(k, "weight_decay", DefaultWeightDecay); err != nil {
		return nil, err
	}
	if cfg.Optimizer.Betas, err = optFloatPair(k, "optimizer_betas", DefaultBetas); err != nil {
		return nil, err
	}
	if cfg.Optimizer.Eps, err = optFloat(k, "optimizer_eps", DefaultEps); err != nil {
		return nil, err
	}

	if cfg.Scheduler.Name, err = reqString(k, "scheduler"); err != nil {
		return nil, err
	}
	cfg.Scheduler.Type = DefaultComponentType
	if cfg.Scheduler.Step, err = optInt(k, "step", DefaultStep); err != nil {
		return nil, err
	}
	if cfg.Scheduler.Gamma, err = optFloat(k, "gamma", DefaultGamma); err != nil {
		return nil, err
	}
	if cfg.Scheduler.Milestones, err = optIntSlice(k, "milestones", DefaultMilestones); err != nil {
		return nil, err
	}
	if cfg.Scheduler.Power, err = optFloat(k, "power", DefaultPower); err != nil {
		return nil, err
	}

	return cfg, decodeShared(k, cfg)
}

func decodeSectioned(k *koanf.Koanf) (*TrainingConfig, error) {
	for _, section := range []string{"model", "run", "dataset", "paths", "optimizer", "scheduler"} {
		if !k.Exists(section) {
			return nil, &MissingFieldError{Key: section}
		}
	}

	cfg := &TrainingConfig{}
	var err error

	if cfg.Model, err = decodeModel(k, keysSectionedModel); err != nil {
		return nil, err
	}
	if cfg.Run, err = decodeRun(k, keysSectionedRun); err != nil {
		return nil, err
	}
	if cfg.Dataset, err = decodeDataset(k, keysSectionedDataset); err != nil {
		return nil, err
	}
	if cfg.Paths, err = decodePaths(k, keysSectionedPaths); err != nil {
		return nil, err
	}

	if cfg.Optimizer.Name, err = reqString(k, "optimizer.name"); err != nil {
		return nil, err
	}
	if cfg.Optimizer.Type, err = optString(k, "optimizer.type", DefaultComponentType); err != nil {
		return nil, err
	}
	if cfg.Optimizer.LearningRate, err = reqFloat(k, "optimizer.params.learning_rate"); err != nil {
		return nil, err
	}
	if cfg.Optimizer.WeightDecay, err = optFloat(k, "optimizer.params.weight_decay", DefaultWeightDecay); err != nil {
		return nil, err
	}
	if cfg.Optimizer.Betas, err = optFloatPair(k, "optimizer.params.betas", DefaultBetas); err != nil {
		return nil, err
	}
	if cfg.Optimizer.Eps, err = optFloat(k, "optimizer.params.eps", DefaultEps); err != nil {
		return nil, err
	}

	if cfg.Scheduler.Name, err = reqString(k, "scheduler.name"); err != nil {
		return nil, err
	}
	if cfg.Scheduler.Type, err = optString(k, "scheduler.type", DefaultComponentType); err != nil {
		return nil, err
	}
	if cfg.Scheduler.Step, err = optInt(k, "scheduler.params.step", DefaultStep); err != nil {
		return nil, err
	}
	if cfg.Scheduler.Gamma, err = optFloat(k, "scheduler.params.gamma", DefaultGamma); err != nil {
		return nil, err
	}
	if cfg.Scheduler.Milestones, err = optIntSlice(k, "scheduler.params.milestones", DefaultMilestones); err != nil {
		return nil, err
	}
	if cfg.Scheduler.Power, err = optFloat(k, "scheduler.params.power", DefaultPower); err != nil {
		return nil, err
	}

	return cfg, decodeShared(k, cfg)
}

// The *Keys tables map canonical fields to their dot-delimited document keys
// for one layout. Keeping the two layouts as key tables lets both share the
// same decode logic and report the exact offending key on failure.
type modelKeys struct {
	encoder, decoder, multidecoder, inChannels, numberClasses string
}

type runKeys struct {
	algorithm, device, seed, epochs string
}

type datasetKeys struct {
	name, images, annotation, trainPart, validPart, testPart, batchSize string
}

type pathsKeys struct {
	logs, checkpoints, saveEvery, checkpoint string
}

var (
	keysFlatModel = modelKeys{
		encoder: "encoder", decoder: "decoder", multidecoder: "multidecoder",
		inChannels: "in_channels", numberClasses: "number_classes",
	}
	keysSectionedModel = modelKeys{
		encoder: "model.encoder", decoder: "model.decoder", multidecoder: "model.multidecoder",
		inChannels: "model.in_channels", numberClasses: "model.number_classes",
	}

	keysFlatRun = runKeys{
		algorithm: "algorithm", device: "device", seed: "seed", epochs: "epochs",
	}
	keysSectionedRun = runKeys{
		algorithm: "run.algorithm", device: "run.device", seed: "run.seed", epochs: "run.epochs",
	}

	keysFlatDataset = datasetKeys{
		name: "dataset", images: "images", annotation: "annotation",
		trainPart: "train_part", validPart: "valid_part", testPart: "test_part",
		batchSize: "batch_size",
	}
	keysSectionedDataset = datasetKeys{
		name: "dataset.name", images: "dataset.images", annotation: "dataset.annotation",
		trainPart: "dataset.train_part", validPart: "dataset.valid_part", testPart: "dataset.test_part",
		batchSize: "dataset.batch_size",
	}

	keysFlatPaths = pathsKeys{
		logs: "logs", checkpoints: "checkpoints", saveEvery: "save_every", checkpoint: "checkpoint",
	}
	keysSectionedPaths = pathsKeys{
		logs: "paths.logs", checkpoints: "paths.checkpoints",
		saveEvery: "paths.save_every", checkpoint: "paths.checkpoint",
	}
)

func decodeModel(k *koanf.Koanf, keys modelKeys) (ModelConfig, error) {
	var m ModelConfig
	var err error

	if m.Encoder, err = reqString(k, keys.encoder); err != nil {
		return m, err
	}

	// Exactly one of decoder/multidecoder; mutual presence is rejected later
	// by Validate so that the document gets the more precise error.
	hasDecoder := k.Get(keys.decoder) != nil
	hasMulti := k.Get(keys.multidecoder) != nil
	if !hasDecoder && !hasMulti {
		return m, &MissingFieldError{Key: keys.decoder}
	}
	if hasDecoder {
		if m.Decoder, err = reqString(k, keys.decoder); err != nil {
			return m, err
		}
	}
	if hasMulti {
		if m.Multidecoder, err = reqStringSlice(k, keys.multidecoder); err != nil {
			return m, err
		}
	}

	if m.InChannels, err = reqInt(k, keys.inChannels); err != nil {
		return m, err
	}
	if m.NumberClasses, err = reqInt(k, keys.numberClasses); err != nil {
		return m, err
	}
	return m, nil
}

func decodeRun(k *koanf.Koanf, keys runKeys) (RunConfig, error) {
	var r RunConfig
	var err error

	if r.Algorithm, err = reqString(k, keys.algorithm); err != nil {
		return r, err
	}
	if r.Device, err = reqString(k, keys.device); err != nil {
		return r, err
	}
	if r.Seed, err = reqInt(k, keys.seed); err != nil {
		return r, err
	}
	if r.Epochs, err = reqInt(k, keys.epochs); err != nil {
		return r, err
	}
	return r, nil
}

func decodeDataset(k *koanf.Koanf, keys datasetKeys) (DatasetConfig, error) {
	var d DatasetConfig
	var err error

	if d.Name, err = reqString(k, keys.name); err != nil {
		return d, err
	}
	if d.Images, err = optString(k, keys.images, ""); err != nil {
		return d, err
	}
	if d.Annotation, err = optString(k, keys.annotation, ""); err != nil {
		return d, err
	}
	if d.TrainPart, err = reqFloat(k, keys.trainPart); err != nil {
		return d, err
	}
	if d.ValidPart, err = reqFloat(k, keys.validPart); err != nil {
		return d, err
	}

	// An absent test fraction is derived from the remainder. Float noise from
	// the subtraction is clamped so that train+valid == 1 derives exactly 0.
	if k.Get(keys.testPart) != nil {
		if d.TestPart, err = reqFloat(k, keys.testPart); err != nil {
			return d, err
		}
	} else {
		d.TestPart = 1.0 - d.TrainPart - d.ValidPart
		if d.TestPart < 0 && d.TestPart > -1e-9 {
			d.TestPart = 0
		}
	}

	if d.BatchSize, err = reqInt(k, keys.batchSize); err != nil {
		return d, err
	}
	return d, nil
}

func decodePaths(k *koanf.Koanf, keys pathsKeys) (PathsConfig, error) {
	var p PathsConfig
	var err error

	if p.Logs, err = reqString(k, keys.logs); err != nil {
		return p, err
	}
	if p.Checkpoints, err = reqString(k, keys.checkpoints); err != nil {
		return p, err
	}
	if p.SaveEvery, err = reqInt(k, keys.saveEvery); err != nil {
		return p, err
	}
	if p.Checkpoint, err = optString(k, keys.checkpoint, ""); err != nil {
		return p, err
	}
	return p, nil
}

// decodeShared decodes the keys whose location is identical in both layouts:
// loss, metrics, class_names and the optional wandb block.
func decodeShared(k *koanf.Koanf, cfg *TrainingConfig) error {
	var err error

	if cfg.Loss, err = reqString(k, "loss"); err != nil {
		return err
	}
	if cfg.Metrics, err = reqStringSlice(k, "metrics"); err != nil {
		return err
	}
	if k.Get("class_names") != nil {
		if cfg.ClassNames, err = reqStringSlice(k, "class_names"); err != nil {
			return err
		}
	}

	if k.Get("wandb") != nil {
		if _, ok := k.Get("wandb").(map[string]interface{}); !ok {
			return &TypeMismatchError{Key: "wandb", Expected: "mapping", Actual: k.Get("wandb")}
		}
		w := &WandbConfig{}
		if w.Project, err = reqString(k, "wandb.project"); err != nil {
			return err
		}
		if w.RunName, err = optString(k, "wandb.run_name", ""); err != nil {
			return err
		}
		if w.RunName == "" {
			w.RunName = defaultRunName(w.Project)
		}
		if k.Get("wandb.metrics") != nil {
			if w.Metrics, err = reqStringSlice(k, "wandb.metrics"); err != nil {
				return err
			}
		} else {
			w.Metrics = append([]string(nil), cfg.Metrics...)
		}
		cfg.Wandb = w
	}

	return nil
}
