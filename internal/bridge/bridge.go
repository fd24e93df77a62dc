// Package bridge converts between the modern experiment configuration and the
// flat legacy configuration.
//
// The conversion is lossy in both directions. The legacy shape holds a single
// descriptor and no experiment metadata, so ToLegacy keeps only the selected
// descriptor and FromLegacy fills metadata, dataset path and descriptor name
// with fixed placeholders. A modern config converted to legacy and back will
// therefore not reproduce its name, description, scene list or any descriptor
// other than the one selected. Callers that need those must keep the original.
package bridge

import (
	"github.com/phrazzld/descbench/internal/experiment"
	"github.com/phrazzld/descbench/internal/legacy"
)

// Placeholder values written by FromLegacy.
const (
	ConvertedName        = "converted_experiment"
	ConvertedDescription = "Converted from legacy configuration"
	ConvertedDatasetPath = "data/"
)

// ToLegacy projects the first descriptor of cfg onto a legacy config.
// With no descriptors the result is legacy.Default with the evaluation
// settings of cfg applied.
func ToLegacy(cfg *experiment.Config) legacy.Config {
	out := legacy.Default()
	if len(cfg.Descriptors) > 0 {
		applyDescriptor(&out, cfg.Descriptors[0], cfg.Keypoints.Params)
	}
	applyEvaluation(&out, cfg.Evaluation)
	return out
}

// ToLegacyAt projects descriptor i of cfg onto a legacy config.
func ToLegacyAt(cfg *experiment.Config, i int) (legacy.Config, error) {
	if i < 0 || i >= len(cfg.Descriptors) {
		return legacy.Config{}, &experiment.IndexError{Index: i, Len: len(cfg.Descriptors)}
	}
	out := legacy.Default()
	applyDescriptor(&out, cfg.Descriptors[i], cfg.Keypoints.Params)
	applyEvaluation(&out, cfg.Evaluation)
	return out, nil
}

func applyDescriptor(out *legacy.Config, d experiment.DescriptorConfig, kp experiment.KeypointParams) {
	p := d.Params

	out.DescriptorType = toLegacyDescriptor(d.Type)
	out.PoolingStrategy = toLegacyPooling(p.Pooling)

	switch {
	case p.NormalizeAfterPooling:
		out.NormalizationStage = legacy.NormalizeAfterPooling
	case p.NormalizeBeforePooling:
		out.NormalizationStage = legacy.NormalizeBeforePooling
	default:
		out.NormalizationStage = legacy.NormalizeNone
	}

	out.NormType = toLegacyNorm(p.NormType)
	out.Scales = cloneFloats(p.Scales)
	out.ScaleWeights = cloneFloats(p.ScaleWeights)
	out.ScaleWeightingMode = toLegacyWeighting(p.ScaleWeighting)
	out.ScaleWeightSigma = p.ScaleWeightSigma

	if p.UseColor {
		out.ImageType = legacy.ImageColor
		out.ColorSpace = legacy.ColorSpaceColor
	} else {
		out.ImageType = legacy.ImageBW
		out.ColorSpace = legacy.ColorSpaceBW
	}

	if p.Pooling == experiment.PoolingStacking {
		out.SecondaryType = toLegacyDescriptor(p.SecondaryDescriptor)
		out.SecondaryColorSpace = colorSpaceOf(p.SecondaryDescriptor)
	}

	out.UseLockedInKeypoints = kp.LockedKeypoints()
	out.MaxFeatures = kp.MaxFeatures
}

func applyEvaluation(out *legacy.Config, e experiment.Evaluation) {
	out.MatchThreshold = e.Matching.Threshold
	out.MatchingStrategy = toLegacyMatching(e.Matching.Method)
	out.Verification = toLegacyVerification(e.Validation.Method)
}

// FromLegacy rebuilds a modern config holding the single legacy descriptor.
// The result is not validated; a legacy match threshold outside [0,1], for
// instance, is carried over as is.
func FromLegacy(l legacy.Config) *experiment.Config {
	cfg := experiment.Default()
	cfg.Experiment.Name = ConvertedName
	cfg.Experiment.Description = ConvertedDescription
	cfg.Dataset.Path = ConvertedDatasetPath

	cfg.Keypoints.Params.UseLockedKeypoints = l.UseLockedInKeypoints
	if l.UseLockedInKeypoints {
		cfg.Keypoints.Params.Source = experiment.SourceHomographyProjection
	} else {
		cfg.Keypoints.Params.Source = experiment.SourceIndependentDetection
	}
	cfg.Keypoints.Params.MaxFeatures = l.MaxFeatures

	kind := fromLegacyDescriptor(l.DescriptorType)
	params := experiment.DefaultDescriptorParams()
	params.Pooling = fromLegacyPooling(l.PoolingStrategy)
	params.NormalizeBeforePooling = l.NormalizationStage == legacy.NormalizeBeforePooling
	params.NormalizeAfterPooling = l.NormalizationStage == legacy.NormalizeAfterPooling
	params.UseColor = l.ImageType == legacy.ImageColor
	params.NormType = fromLegacyNorm(l.NormType)
	params.Scales = cloneFloats(l.Scales)
	params.ScaleWeights = cloneFloats(l.ScaleWeights)
	params.ScaleWeighting = fromLegacyWeighting(l.ScaleWeightingMode)
	params.ScaleWeightSigma = l.ScaleWeightSigma
	if params.Pooling == experiment.PoolingStacking {
		params.SecondaryDescriptor = fromLegacyDescriptor(l.SecondaryType)
	}

	cfg.Descriptors = []experiment.DescriptorConfig{{
		Name:   kind.String(),
		Type:   kind,
		Params: params,
	}}

	cfg.Evaluation.Matching.Threshold = l.MatchThreshold
	cfg.Evaluation.Matching.Method = fromLegacyMatching(l.MatchingStrategy)
	cfg.Evaluation.Validation.Method = fromLegacyVerification(l.Verification)

	return cfg
}

func cloneFloats(s []float64) []float64 {
	if s == nil {
		return nil
	}
	return append([]float64(nil), s...)
}
