package config

import (
	"github.com/google/uuid"
)

// Defaults substituted by the loader when an optional key is absent from the
// document. These mirror the values the training program has always assumed;
// changing one changes the meaning of every config that omits the key.
const (
	// DefaultWeightDecay is used when weight_decay is absent
	DefaultWeightDecay = 0.0

	// DefaultEps is used when optimizer_eps is absent
	DefaultEps = 1e-8

	// DefaultStep is used when the steplr step is absent
	DefaultStep = 10

	// DefaultGamma is used when the steplr/multisteplr gamma is absent
	DefaultGamma = 0.1

	// DefaultPower is used when the polylr power is absent
	DefaultPower = 0.9

	// DefaultComponentType is used when an optimizer/scheduler type tag is absent
	DefaultComponentType = "lib"
)

// DefaultBetas is used when optimizer_betas is absent.
var DefaultBetas = [2]float64{0.9, 0.999}

// DefaultMilestones is used when the multisteplr milestones are absent.
var DefaultMilestones = []int{10, 30, 70, 150}

// defaultRunName derives the tracking run name from the project name when
// run_name is absent. The name is a stable UUIDv5 digest rather than a random
// one so that loading the same file twice yields value-equal configs.
func defaultRunName(project string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("opennn/"+project))
	return "run-" + id.String()[:8]
}
