package experiment_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/descbench/internal/experiment"
)

const minimalDoc = `
dataset:
  type: hpatches
  path: data/hp
descriptors:
  - name: sift
    type: sift
    pooling: none
`

func TestParseMinimalDocument(t *testing.T) {
	t.Parallel()

	cfg, err := experiment.Parse(context.Background(), []byte(minimalDoc), "minimal")

	require.NoError(t, err)
	require.Len(t, cfg.Descriptors, 1)
	assert.Equal(t, experiment.DescriptorSIFT, cfg.Descriptors[0].Type)
	assert.Equal(t, "sift", cfg.Descriptors[0].Name)
	assert.Equal(t, "data/hp", cfg.Dataset.Path)
	assert.Equal(t, "hpatches", cfg.Dataset.Type)
}

func TestParseAppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := experiment.Parse(context.Background(), []byte(`
descriptors:
  - name: d
    type: sift
`), "defaults")
	require.NoError(t, err)

	assert.Equal(t, experiment.DefaultDatasetPath, cfg.Dataset.Path)
	assert.Empty(t, cfg.Dataset.Scenes)
	assert.Equal(t, "1.0", cfg.Experiment.Version)

	kp := cfg.Keypoints
	assert.Equal(t, experiment.GeneratorSIFT, kp.Generator)
	assert.Equal(t, experiment.DefaultMaxFeatures, kp.Params.MaxFeatures)
	assert.Equal(t, experiment.DefaultNumOctaves, kp.Params.NumOctaves)
	assert.InDelta(t, experiment.DefaultKeypointSigma, kp.Params.Sigma, 1e-9)
	assert.Equal(t, experiment.SourceIndependentDetection, kp.Params.Source)
	assert.False(t, kp.Params.UseLockedKeypoints)

	d := cfg.Descriptors[0]
	assert.Equal(t, experiment.PoolingNone, d.Params.Pooling)
	assert.Equal(t, experiment.DefaultScales(), d.Params.Scales)
	assert.True(t, d.Params.NormalizeAfterPooling)
	assert.False(t, d.Params.NormalizeBeforePooling)
	assert.Equal(t, experiment.NormL2, d.Params.NormType)
	assert.Equal(t, experiment.DescriptorNone, d.Params.SecondaryDescriptor)
	assert.InDelta(t, experiment.DefaultStackingWeight, d.Params.StackingWeight, 1e-9)
	assert.Nil(t, d.DNN)

	ev := cfg.Evaluation
	assert.Equal(t, experiment.MatchingBruteForce, ev.Matching.Method)
	assert.True(t, ev.Matching.CrossCheck)
	assert.InDelta(t, experiment.DefaultMatchThreshold, ev.Matching.Threshold, 1e-9)
	assert.Equal(t, experiment.ValidationHomography, ev.Validation.Method)
	assert.Equal(t, experiment.DefaultMinMatches, ev.Validation.MinMatches)

	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, experiment.DefaultConnection, cfg.Database.Connection)
	assert.Equal(t, experiment.DefaultResultsPath, cfg.Output.ResultsPath)
}

func TestParseOmissionKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := experiment.Parse(context.Background(), []byte(`
keypoints:
  max_features: 500
evaluation:
  matching:
    cross_check: false
descriptors:
  - name: d
    type: sift
`), "partial")
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Keypoints.Params.MaxFeatures)
	assert.InDelta(t, experiment.DefaultContrastThreshold, cfg.Keypoints.Params.ContrastThreshold, 1e-9)
	assert.False(t, cfg.Evaluation.Matching.CrossCheck)
	assert.InDelta(t, experiment.DefaultMatchThreshold, cfg.Evaluation.Matching.Threshold, 1e-9)
	assert.Equal(t, experiment.ValidationHomography, cfg.Evaluation.Validation.Method)
}

func TestParseFullDocument(t *testing.T) {
	t.Parallel()

	cfg, err := experiment.Parse(context.Background(), []byte(`
experiment:
  name: full
  description: every section
  version: "2.1"
  author: bench
dataset:
  type: hpatches
  path: data/hpatches/
  scenes: [i_ajuntament, v_wall]
keypoints:
  generator: locked_in
  max_features: 0
  sigma: 1.2
  num_octaves: 3
  source: homography
  keypoint_set_name: reference
  locked_keypoints_path: kp/ref.csv
descriptors:
  - name: stacked
    type: vanilla_sift
    pooling: stacking
    secondary_descriptor: rgbsift
    stacking_weight: 0.25
    scales: [1.0, 2.0]
    scale_weights: [0.3, 0.7]
    scale_weighting: gaussian
    scale_weight_sigma: 0.2
    normalize_before_pooling: true
    normalize_after_pooling: false
    use_color: true
    norm_type: l1
  - name: patch
    type: dnn_patch
    dnn:
      model: models/hardnet.onnx
      input_size: 64
      per_patch_standardize: true
evaluation:
  matching:
    method: flann
    norm: l1
    threshold: 0.6
  validation:
    method: cross_image
    threshold: 0.1
    min_matches: 4
output:
  results_path: out/
  save_matches: true
database:
  enabled: true
  connection: sqlite:///runs.db
  save_descriptors: true
`), "full")
	require.NoError(t, err)

	assert.Equal(t, "full", cfg.Experiment.Name)
	assert.Equal(t, "2.1", cfg.Experiment.Version)
	assert.Equal(t, []string{"i_ajuntament", "v_wall"}, cfg.Dataset.Scenes)

	kp := cfg.Keypoints
	assert.Equal(t, experiment.GeneratorLockedIn, kp.Generator)
	assert.Equal(t, 0, kp.Params.MaxFeatures)
	assert.Equal(t, experiment.SourceHomographyProjection, kp.Params.Source)
	assert.Equal(t, "reference", kp.Params.KeypointSetName)
	assert.Equal(t, "kp/ref.csv", kp.Params.LockedKeypointsPath)
	assert.True(t, kp.Params.LockedKeypoints())

	require.Len(t, cfg.Descriptors, 2)
	s := cfg.Descriptors[0]
	assert.Equal(t, experiment.DescriptorVSIFT, s.Type)
	assert.Equal(t, experiment.PoolingStacking, s.Params.Pooling)
	assert.Equal(t, experiment.DescriptorRGBSIFT, s.Params.SecondaryDescriptor)
	assert.InDelta(t, 0.25, s.Params.StackingWeight, 1e-9)
	assert.Equal(t, []float64{0.3, 0.7}, s.Params.ScaleWeights)
	assert.Equal(t, experiment.WeightingGaussian, s.Params.ScaleWeighting)
	assert.True(t, s.Params.NormalizeBeforePooling)
	assert.False(t, s.Params.NormalizeAfterPooling)
	assert.Equal(t, experiment.NormL1, s.Params.NormType)

	p := cfg.Descriptors[1]
	require.NotNil(t, p.DNN)
	assert.Equal(t, "models/hardnet.onnx", p.DNN.Model)
	assert.Equal(t, 64, p.DNN.InputSize)
	assert.True(t, p.DNN.PerPatchStandardize)
	assert.True(t, p.DNN.RotateUpright)
	assert.InDelta(t, 1.0, p.DNN.Std, 1e-9)

	assert.Equal(t, experiment.MatchingFLANN, cfg.Evaluation.Matching.Method)
	assert.Equal(t, experiment.NormL1, cfg.Evaluation.Matching.Norm)
	assert.Equal(t, experiment.ValidationCrossImage, cfg.Evaluation.Validation.Method)
	assert.Equal(t, 4, cfg.Evaluation.Validation.MinMatches)

	assert.True(t, cfg.Output.SaveMatches)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "sqlite:///runs.db", cfg.Database.Connection)
	assert.True(t, cfg.Database.SaveDescriptors)

	d, ok := cfg.Descriptor("patch")
	assert.True(t, ok)
	assert.Equal(t, experiment.DescriptorDNNPatch, d.Type)
	_, ok = cfg.Descriptor("missing")
	assert.False(t, ok)
}

func TestParseIgnoresUnknownTopLevelKeys(t *testing.T) {
	t.Parallel()

	_, err := experiment.Parse(context.Background(), []byte(minimalDoc+`
migration:
  enabled: true
  legacy_path: old/
`), "migration")

	assert.NoError(t, err)
}

func TestParseAliases(t *testing.T) {
	t.Parallel()

	cfg, err := experiment.Parse(context.Background(), []byte(`
keypoints:
  source: independent
descriptors:
  - name: a
    type: dsp_sift
    pooling: dsp
`), "aliases")
	require.NoError(t, err)

	assert.Equal(t, experiment.DescriptorDSPSIFT, cfg.Descriptors[0].Type)
	assert.Equal(t, experiment.PoolingDomainSize, cfg.Descriptors[0].Params.Pooling)
	assert.Equal(t, experiment.SourceIndependentDetection, cfg.Keypoints.Params.Source)
}

func TestParseUnknownLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		field   string
		literal string
	}{
		{
			name:    "descriptor type",
			doc:     "descriptors:\n  - name: a\n    type: surf\n",
			field:   "descriptors[0].type",
			literal: "surf",
		},
		{
			name:    "case sensitive",
			doc:     "descriptors:\n  - name: a\n    type: SIFT\n",
			field:   "descriptors[0].type",
			literal: "SIFT",
		},
		{
			name:    "pooling",
			doc:     "descriptors:\n  - name: a\n    type: sift\n  - name: b\n    type: sift\n    pooling: max\n",
			field:   "descriptors[1].pooling",
			literal: "max",
		},
		{
			name:    "secondary none is not a literal",
			doc:     "descriptors:\n  - name: a\n    type: sift\n    pooling: stacking\n    secondary_descriptor: none\n",
			field:   "descriptors[0].secondary_descriptor",
			literal: "none",
		},
		{
			name:    "scale weighting",
			doc:     "descriptors:\n  - name: a\n    type: sift\n    scale_weighting: linear\n",
			field:   "descriptors[0].scale_weighting",
			literal: "linear",
		},
		{
			name:    "keypoint generator",
			doc:     "keypoints:\n  generator: fast\ndescriptors:\n  - name: a\n    type: sift\n",
			field:   "keypoints.generator",
			literal: "fast",
		},
		{
			name:    "validation method",
			doc:     "evaluation:\n  validation:\n    method: ransac\ndescriptors:\n  - name: a\n    type: sift\n",
			field:   "evaluation.validation.method",
			literal: "ransac",
		},
		{
			name:    "matching norm",
			doc:     "evaluation:\n  matching:\n    norm: hamming\ndescriptors:\n  - name: a\n    type: sift\n",
			field:   "evaluation.matching.norm",
			literal: "hamming",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := experiment.Parse(context.Background(), []byte(tt.doc), "literal")

			require.ErrorIs(t, err, experiment.ErrResolution)
			var re *experiment.ResolutionError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.field, re.Field)
			assert.Equal(t, tt.literal, re.Literal)
			assert.Contains(t, err.Error(), tt.field)
			assert.Contains(t, err.Error(), tt.literal)
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"malformed":   "descriptors: [\n  - name: a\n",
		"wrong shape": "descriptors:\n  name: a\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := experiment.Parse(context.Background(), []byte(doc), "broken.yaml")

			require.ErrorIs(t, err, experiment.ErrSyntax)
			assert.NotErrorIs(t, err, experiment.ErrLoad)
			assert.Contains(t, err.Error(), "broken.yaml")
		})
	}
}

func TestParseValidatesBeforeReturning(t *testing.T) {
	t.Parallel()

	_, err := experiment.Parse(context.Background(), []byte(`
dataset:
  path: data/hp
descriptors: []
`), "empty")

	require.ErrorIs(t, err, experiment.ErrValidation)
	assert.Contains(t, err.Error(), "descriptors")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc), 0o600))

	cfg, err := experiment.LoadFile(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "data/hp", cfg.Dataset.Path)
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent.yaml")

	_, err := experiment.LoadFile(context.Background(), path)

	require.ErrorIs(t, err, experiment.ErrLoad)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, experiment.ErrSyntax)
	assert.Contains(t, err.Error(), path)
}

func TestParseNullDescriptorEntry(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		doc   string
		field string
	}{
		"only entry":   {doc: "descriptors: [~]\n", field: "descriptors[0]"},
		"second entry": {doc: "descriptors:\n  - name: a\n    type: sift\n  - ~\n", field: "descriptors[1]"},
		"before bad literal": {
			doc:   "descriptors: [~, {name: a, type: bogus}]\n",
			field: "descriptors[0]",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := experiment.Parse(context.Background(), []byte(tt.doc), "nulls.yaml")

			require.ErrorIs(t, err, experiment.ErrSyntax)
			assert.NotErrorIs(t, err, experiment.ErrValidation)
			assert.Contains(t, err.Error(), tt.field+": entry is null")
			assert.Contains(t, err.Error(), "nulls.yaml")
		})
	}
}

func TestParseUnknownLiteralKeepsEntryIndex(t *testing.T) {
	t.Parallel()

	_, err := experiment.Parse(context.Background(),
		[]byte("descriptors: [{name: a, type: sift}, {name: b, type: bogus}]\n"), "index")

	var re *experiment.ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "descriptors[1].type", re.Field)
}
