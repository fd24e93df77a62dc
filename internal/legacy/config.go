// Package legacy holds the flat single-descriptor configuration consumed by
// the older pipeline. Values are normally produced by package bridge from a
// validated experiment configuration and discarded after use.
package legacy

import (
	"errors"
	"fmt"
)

// ErrInconsistent is returned by Validate when paired fields disagree.
var ErrInconsistent = errors.New("inconsistent legacy configuration")

// Default values of the flat configuration.
const (
	DefaultMatchThreshold   = 0.05
	DefaultScaleWeightSigma = 0.15
)

// Config describes exactly one descriptor together with the evaluation
// settings needed to run it.
type Config struct {
	DescriptorType     DescriptorType     `json:"descriptor_type"`
	PoolingStrategy    PoolingStrategy    `json:"pooling_strategy"`
	NormalizationStage NormalizationStage `json:"normalization_stage"`
	NormType           NormType           `json:"norm_type"`
	Scales             []float64          `json:"scales"`
	ScaleWeights       []float64          `json:"scale_weights,omitempty"`
	ScaleWeightingMode ScaleWeightingMode `json:"scale_weighting_mode"`
	ScaleWeightSigma   float64            `json:"scale_weight_sigma"`

	ImageType  ImageType  `json:"image_type"`
	ColorSpace ColorSpace `json:"color_space"`

	UseLockedInKeypoints bool `json:"use_locked_in_keypoints"`
	// MaxFeatures of zero means unlimited.
	MaxFeatures int `json:"max_features"`

	SecondaryType       DescriptorType `json:"secondary_type"`
	SecondaryColorSpace ColorSpace     `json:"secondary_color_space"`

	// MatchThreshold is copied verbatim; the flat format does not bound it.
	MatchThreshold   float64          `json:"match_threshold"`
	Verification     VerificationType `json:"verification"`
	MatchingStrategy MatchingStrategy `json:"matching_strategy"`
}

// Default returns the flat configuration used when nothing else is known:
// grayscale SIFT without pooling and without visual verification.
func Default() Config {
	return Config{
		DescriptorType:       DescriptorSIFT,
		PoolingStrategy:      PoolingNone,
		NormalizationStage:   NormalizeNone,
		NormType:             NormL1,
		Scales:               []float64{1.0, 1.5, 2.0},
		ScaleWeightingMode:   WeightingUniform,
		ScaleWeightSigma:     DefaultScaleWeightSigma,
		ImageType:            ImageBW,
		ColorSpace:           ColorSpaceBW,
		UseLockedInKeypoints: false,
		SecondaryType:        DescriptorNone,
		SecondaryColorSpace:  ColorSpaceBW,
		MatchThreshold:       DefaultMatchThreshold,
		Verification:         VerificationNone,
		MatchingStrategy:     MatchingBruteForce,
	}
}

// Validate checks that ImageType and ColorSpace agree.
func (c Config) Validate() error {
	color := c.ImageType == ImageColor
	if color != (c.ColorSpace == ColorSpaceColor) {
		return fmt.Errorf("%w: image type %s with color space %s", ErrInconsistent, c.ImageType, c.ColorSpace)
	}
	return nil
}
