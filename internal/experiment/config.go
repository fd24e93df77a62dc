package experiment

// Config is the modern experiment configuration. It is built once per
// document and must be treated as read-only after Validate succeeds.
type Config struct {
	Experiment  Metadata           `json:"experiment"`
	Dataset     Dataset            `json:"dataset"`
	Keypoints   Keypoints          `json:"keypoints"`
	Descriptors []DescriptorConfig `json:"descriptors"`
	Evaluation  Evaluation         `json:"evaluation"`
	Output      Output             `json:"output"`
	Database    Database           `json:"database"`
}

// Metadata is free-text experiment information.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Author      string `json:"author"`
}

// Dataset locates the image sequences. An empty Scenes list means all scenes.
type Dataset struct {
	Type   string   `json:"type"`
	Path   string   `json:"path"`
	Scenes []string `json:"scenes,omitempty"`
}

type Keypoints struct {
	Generator KeypointGenerator `json:"generator"`
	Params    KeypointParams    `json:"params"`
}

// KeypointParams holds detector settings. UseLockedKeypoints forces the
// locked-in keypoint set regardless of Source.
type KeypointParams struct {
	MaxFeatures         int            `json:"max_features"`
	ContrastThreshold   float64        `json:"contrast_threshold"`
	EdgeThreshold       float64        `json:"edge_threshold"`
	Sigma               float64        `json:"sigma"`
	NumOctaves          int            `json:"num_octaves"`
	UseLockedKeypoints  bool           `json:"use_locked_keypoints"`
	Source              KeypointSource `json:"source"`
	KeypointSetName     string         `json:"keypoint_set_name,omitempty"`
	LockedKeypointsPath string         `json:"locked_keypoints_path,omitempty"`
}

// DescriptorConfig is one descriptor under test.
type DescriptorConfig struct {
	Name   string           `json:"name"`
	Type   DescriptorType   `json:"type"`
	Params DescriptorParams `json:"params"`
	DNN    *DNNParams       `json:"dnn,omitempty"`
}

// DescriptorParams configures pooling and normalization of one descriptor.
// SecondaryDescriptor and StackingWeight only matter under PoolingStacking.
// When ScaleWeights is non-empty it overrides ScaleWeighting.
type DescriptorParams struct {
	Pooling                PoolingStrategy `json:"pooling"`
	Scales                 []float64       `json:"scales"`
	ScaleWeights           []float64       `json:"scale_weights,omitempty"`
	ScaleWeighting         ScaleWeighting  `json:"scale_weighting"`
	ScaleWeightSigma       float64         `json:"scale_weight_sigma"`
	NormalizeBeforePooling bool            `json:"normalize_before_pooling"`
	NormalizeAfterPooling  bool            `json:"normalize_after_pooling"`
	UseColor               bool            `json:"use_color"`
	NormType               NormType        `json:"norm_type"`
	SecondaryDescriptor    DescriptorType  `json:"secondary_descriptor"`
	StackingWeight         float64         `json:"stacking_weight"`
}

// DNNParams configures a neural patch descriptor.
type DNNParams struct {
	Model               string  `json:"model"`
	InputSize           int     `json:"input_size"`
	SupportMultiplier   float64 `json:"support_multiplier"`
	RotateUpright       bool    `json:"rotate_upright"`
	Mean                float64 `json:"mean"`
	Std                 float64 `json:"std"`
	PerPatchStandardize bool    `json:"per_patch_standardize"`
}

type Evaluation struct {
	Matching   Matching   `json:"matching"`
	Validation Validation `json:"validation"`
}

type Matching struct {
	Method     MatchingMethod `json:"method"`
	Norm       NormType       `json:"norm"`
	CrossCheck bool           `json:"cross_check"`
	Threshold  float64        `json:"threshold"`
}

// Validation configures match verification. MinMatches is the number of
// matches required before verification is attempted.
type Validation struct {
	Method     ValidationMethod `json:"method"`
	Threshold  float64          `json:"threshold"`
	MinMatches int              `json:"min_matches"`
}

type Output struct {
	ResultsPath        string `json:"results_path"`
	SaveKeypoints      bool   `json:"save_keypoints"`
	SaveDescriptors    bool   `json:"save_descriptors"`
	SaveMatches        bool   `json:"save_matches"`
	SaveVisualizations bool   `json:"save_visualizations"`
}

// Database configures persistence of experiment records.
type Database struct {
	Enabled            bool   `json:"enabled"`
	Connection         string `json:"connection"`
	SaveKeypoints      bool   `json:"save_keypoints"`
	SaveDescriptors    bool   `json:"save_descriptors"`
	SaveMatches        bool   `json:"save_matches"`
	SaveVisualizations bool   `json:"save_visualizations"`
}

// Default values applied when a document omits a field.
const (
	DefaultDatasetType       = "hpatches"
	DefaultDatasetPath       = "data/hpatches/"
	DefaultResultsPath       = "results/"
	DefaultConnection        = "sqlite:///experiments.db"
	DefaultMatchThreshold    = 0.8
	DefaultScaleWeightSigma  = 0.15
	DefaultStackingWeight    = 0.5
	DefaultValidationThresh  = 0.05
	DefaultMinMatches        = 10
	DefaultMaxFeatures       = 2000
	DefaultKeypointSigma     = 1.6
	DefaultNumOctaves        = 4
	DefaultContrastThreshold = 0.04
	DefaultEdgeThreshold     = 10.0
	DefaultDNNInputSize      = 32
)

// DefaultScales returns the scale factors used when a descriptor omits scales.
func DefaultScales() []float64 { return []float64{1.0, 1.5, 2.0} }

// Default returns a Config with every built-in default and no descriptors.
func Default() *Config {
	return &Config{
		Experiment: Metadata{Version: "1.0"},
		Dataset: Dataset{
			Type: DefaultDatasetType,
			Path: DefaultDatasetPath,
		},
		Keypoints: Keypoints{
			Generator: GeneratorSIFT,
			Params:    DefaultKeypointParams(),
		},
		Evaluation: Evaluation{
			Matching: Matching{
				Method:     MatchingBruteForce,
				Norm:       NormL2,
				CrossCheck: true,
				Threshold:  DefaultMatchThreshold,
			},
			Validation: Validation{
				Method:     ValidationHomography,
				Threshold:  DefaultValidationThresh,
				MinMatches: DefaultMinMatches,
			},
		},
		Output: Output{
			ResultsPath:        DefaultResultsPath,
			SaveVisualizations: true,
		},
		Database: Database{
			Connection:         DefaultConnection,
			SaveKeypoints:      true,
			SaveVisualizations: true,
		},
	}
}

func DefaultKeypointParams() KeypointParams {
	return KeypointParams{
		MaxFeatures:       DefaultMaxFeatures,
		ContrastThreshold: DefaultContrastThreshold,
		EdgeThreshold:     DefaultEdgeThreshold,
		Sigma:             DefaultKeypointSigma,
		NumOctaves:        DefaultNumOctaves,
		Source:            SourceIndependentDetection,
	}
}

// DefaultDescriptorParams returns the parameters of a descriptor entry that
// sets nothing but its name and type. The secondary descriptor is left
// unresolved so that stacking without one fails validation.
func DefaultDescriptorParams() DescriptorParams {
	return DescriptorParams{
		Pooling:               PoolingNone,
		Scales:                DefaultScales(),
		ScaleWeighting:        WeightingUniform,
		ScaleWeightSigma:      DefaultScaleWeightSigma,
		NormalizeAfterPooling: true,
		NormType:              NormL2,
		SecondaryDescriptor:   DescriptorNone,
		StackingWeight:        DefaultStackingWeight,
	}
}

func DefaultDNNParams() DNNParams {
	return DNNParams{
		InputSize:         DefaultDNNInputSize,
		SupportMultiplier: 1.0,
		RotateUpright:     true,
		Std:               1.0,
	}
}

// LockedKeypoints reports whether the experiment uses a locked-in keypoint
// set: either keypoints are projected through a homography, or the explicit
// override is set.
func (p KeypointParams) LockedKeypoints() bool {
	return p.Source == SourceHomographyProjection || p.UseLockedKeypoints
}

// Descriptor returns the descriptor entry with the given name.
func (c *Config) Descriptor(name string) (DescriptorConfig, bool) {
	for _, d := range c.Descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return DescriptorConfig{}, false
}
