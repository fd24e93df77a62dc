package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/descbench/internal/platform/logger"
)

var validate = validator.New()

// Validate checks cfg against every configuration invariant and returns a
// *ValidationError for the first violation found. Checks run in a fixed
// order: dataset, descriptor list, each descriptor in sequence, keypoints,
// evaluation. Advisory warnings go to the logger carried by ctx and never
// affect the result.
func Validate(ctx context.Context, cfg *Config) error {
	log := logger.FromContextOrDefault(ctx, slog.Default())

	if cfg.Dataset.Path == "" {
		return &ValidationError{Field: "dataset.path", Message: "is required"}
	}

	if len(cfg.Descriptors) == 0 {
		return &ValidationError{Field: "descriptors", Message: "list must not be empty"}
	}

	seen := make(map[string]struct{}, len(cfg.Descriptors))
	for i, d := range cfg.Descriptors {
		if err := validateDescriptor(i, d, seen); err != nil {
			return err
		}
		warnDescriptor(ctx, log, d)
	}

	kp := cfg.Keypoints.Params
	if validate.Var(kp.MaxFeatures, "gte=0") != nil {
		return &ValidationError{Field: "keypoints.max_features", Message: "must be >= 0"}
	}
	if validate.Var(kp.NumOctaves, "gt=0") != nil {
		return &ValidationError{Field: "keypoints.num_octaves", Message: "must be > 0"}
	}
	if validate.Var(kp.Sigma, "gt=0") != nil {
		return &ValidationError{Field: "keypoints.sigma", Message: "must be > 0"}
	}

	if validate.Var(cfg.Evaluation.Matching.Threshold, "gte=0,lte=1") != nil {
		return &ValidationError{Field: "evaluation.matching.threshold", Message: "must be in [0,1]"}
	}

	return nil
}

// validateDescriptor checks entry i of the descriptor list. An entry without
// a name can only be located by its index.
func validateDescriptor(i int, d DescriptorConfig, seen map[string]struct{}) error {
	if d.Name == "" {
		return &ValidationError{Field: fmt.Sprintf("descriptors[%d].name", i), Message: "is required"}
	}
	if _, dup := seen[d.Name]; dup {
		return &ValidationError{Field: "descriptor.name", Descriptor: d.Name, Message: "must be unique"}
	}
	seen[d.Name] = struct{}{}

	if d.Type == DescriptorNone {
		return &ValidationError{Field: "descriptor.type", Descriptor: d.Name, Message: "is required"}
	}

	p := d.Params
	if validate.Var(p.StackingWeight, "gte=0,lte=1") != nil {
		return &ValidationError{Field: "stacking_weight", Descriptor: d.Name, Message: "must be in [0,1]"}
	}
	if p.Pooling == PoolingStacking && p.SecondaryDescriptor == DescriptorNone {
		return &ValidationError{Field: "secondary_descriptor", Descriptor: d.Name, Message: "is required for stacking"}
	}
	if validate.Var(p.Scales, "dive,gt=0") != nil {
		return &ValidationError{Field: "scales", Descriptor: d.Name, Message: "all scales must be > 0"}
	}
	if len(p.ScaleWeights) > 0 && len(p.ScaleWeights) != len(p.Scales) {
		return &ValidationError{Field: "scale_weights", Descriptor: d.Name, Message: "length must match scales"}
	}
	if validate.Var(p.ScaleWeightSigma, "gt=0") != nil {
		return &ValidationError{Field: "scale_weight_sigma", Descriptor: d.Name, Message: "must be > 0"}
	}
	return nil
}

// warnDescriptor reports settings that are legal but will be ignored
// downstream. Explicit scale weights always take precedence over the
// procedural weighting mode.
func warnDescriptor(ctx context.Context, log *slog.Logger, d DescriptorConfig) {
	p := d.Params
	if p.Pooling == PoolingNone && len(p.Scales) > 0 {
		log.WarnContext(ctx, "pooling is 'none' but scales were provided; scales will be ignored",
			slog.String("descriptor", d.Name),
			slog.Int("scales", len(p.Scales)))
	}
	if len(p.ScaleWeights) > 0 && p.ScaleWeighting != WeightingUniform {
		log.WarnContext(ctx, "both scale_weights and scale_weighting specified; explicit weights take precedence",
			slog.String("descriptor", d.Name),
			slog.String("scale_weighting", p.ScaleWeighting.String()))
	}
}
