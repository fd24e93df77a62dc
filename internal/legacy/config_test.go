package legacy_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/descbench/internal/legacy"
)

func TestDefaultIsConsistent(t *testing.T) {
	t.Parallel()

	cfg := legacy.Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, legacy.DescriptorSIFT, cfg.DescriptorType)
	assert.Equal(t, legacy.DescriptorNone, cfg.SecondaryType)
	assert.Equal(t, legacy.MatchingBruteForce, cfg.MatchingStrategy)
	assert.InDelta(t, legacy.DefaultMatchThreshold, cfg.MatchThreshold, 1e-9)
	assert.Equal(t, []float64{1.0, 1.5, 2.0}, cfg.Scales)
}

func TestValidateColorAgreement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		image   legacy.ImageType
		space   legacy.ColorSpace
		wantErr bool
	}{
		{"color_color", legacy.ImageColor, legacy.ColorSpaceColor, false},
		{"bw_bw", legacy.ImageBW, legacy.ColorSpaceBW, false},
		{"color_bw", legacy.ImageColor, legacy.ColorSpaceBW, true},
		{"bw_color", legacy.ImageBW, legacy.ColorSpaceColor, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := legacy.Default()
			cfg.ImageType = tt.image
			cfg.ColorSpace = tt.space

			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, legacy.ErrInconsistent)
				assert.Contains(t, err.Error(), tt.image.String())
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEnumsEncodeAsNames(t *testing.T) {
	t.Parallel()

	cfg := legacy.Default()
	cfg.DescriptorType = legacy.DescriptorRGBSIFT
	cfg.PoolingStrategy = legacy.PoolingDomainSize
	cfg.NormalizationStage = legacy.NormalizeAfterPooling
	cfg.Verification = legacy.VerificationMatches

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "rgbsift", fields["descriptor_type"])
	assert.Equal(t, "domain_size_pooling", fields["pooling_strategy"])
	assert.Equal(t, "after_pooling", fields["normalization_stage"])
	assert.Equal(t, "matches", fields["verification"])
	assert.Equal(t, "none", fields["secondary_type"])
	assert.Equal(t, "brute_force", fields["matching_strategy"])
}

func TestUnknownEnumValueString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unknown", legacy.DescriptorType(99).String())
	assert.Equal(t, "unknown", legacy.MatchingStrategy(-1).String())
}

func TestMatchingStrategyValid(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		strategy legacy.MatchingStrategy
		want     bool
	}{
		"brute force": {legacy.MatchingBruteForce, true},
		"flann":       {legacy.MatchingFLANN, true},
		"ratio test":  {legacy.MatchingRatioTest, true},
		"negative":    {legacy.MatchingStrategy(-1), false},
		"past end":    {legacy.MatchingStrategy(42), false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.strategy.Valid())
		})
	}
}
