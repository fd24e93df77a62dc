package experiment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// The emitted document carries a representative subset of the configuration.
// It re-parses, but parsing it does not reproduce every field of the source
// config: keypoint sigma/octaves/source, scale weights, stacking weight,
// DNN parameters and most save flags are not written.
type emittedDoc struct {
	Experiment  emittedExperiment   `yaml:"experiment"`
	Dataset     emittedDataset      `yaml:"dataset"`
	Keypoints   emittedKeypoints    `yaml:"keypoints"`
	Descriptors []emittedDescriptor `yaml:"descriptors"`
	Evaluation  emittedEvaluation   `yaml:"evaluation"`
	Output      emittedOutput       `yaml:"output"`
	Database    emittedDatabase     `yaml:"database"`
}

type emittedExperiment struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	Author      string `yaml:"author"`
}

type emittedDataset struct {
	Type   string   `yaml:"type"`
	Path   string   `yaml:"path"`
	Scenes []string `yaml:"scenes"`
}

type emittedKeypoints struct {
	Generator         KeypointGenerator `yaml:"generator"`
	MaxFeatures       int               `yaml:"max_features"`
	ContrastThreshold float64           `yaml:"contrast_threshold"`
	EdgeThreshold     float64           `yaml:"edge_threshold"`
}

type emittedDescriptor struct {
	Name                  string          `yaml:"name"`
	Type                  DescriptorType  `yaml:"type"`
	Pooling               PoolingStrategy `yaml:"pooling"`
	Scales                []float64       `yaml:"scales,omitempty,flow"`
	NormalizeAfterPooling bool            `yaml:"normalize_after_pooling"`
	UseColor              bool            `yaml:"use_color"`
	SecondaryDescriptor   *DescriptorType `yaml:"secondary_descriptor,omitempty"`
}

type emittedEvaluation struct {
	Matching struct {
		Method     MatchingMethod `yaml:"method"`
		Threshold  float64        `yaml:"threshold"`
		CrossCheck bool           `yaml:"cross_check"`
	} `yaml:"matching"`
	Validation struct {
		Method    ValidationMethod `yaml:"method"`
		Threshold float64          `yaml:"threshold"`
	} `yaml:"validation"`
}

type emittedOutput struct {
	ResultsPath        string `yaml:"results_path"`
	SaveVisualizations bool   `yaml:"save_visualizations"`
}

type emittedDatabase struct {
	Enabled bool `yaml:"enabled"`
}

// Marshal renders cfg as a YAML experiment document. See emittedDoc for the
// fields that are left out.
func Marshal(cfg *Config) ([]byte, error) {
	doc := emittedDoc{
		Experiment: emittedExperiment{
			Name:        cfg.Experiment.Name,
			Description: cfg.Experiment.Description,
			Version:     cfg.Experiment.Version,
			Author:      cfg.Experiment.Author,
		},
		Dataset: emittedDataset{
			Type:   cfg.Dataset.Type,
			Path:   cfg.Dataset.Path,
			Scenes: cfg.Dataset.Scenes,
		},
		Keypoints: emittedKeypoints{
			Generator:         cfg.Keypoints.Generator,
			MaxFeatures:       cfg.Keypoints.Params.MaxFeatures,
			ContrastThreshold: cfg.Keypoints.Params.ContrastThreshold,
			EdgeThreshold:     cfg.Keypoints.Params.EdgeThreshold,
		},
		Output: emittedOutput{
			ResultsPath:        cfg.Output.ResultsPath,
			SaveVisualizations: cfg.Output.SaveVisualizations,
		},
		Database: emittedDatabase{Enabled: cfg.Database.Enabled},
	}
	if doc.Dataset.Scenes == nil {
		doc.Dataset.Scenes = []string{}
	}

	doc.Descriptors = make([]emittedDescriptor, 0, len(cfg.Descriptors))
	for _, d := range cfg.Descriptors {
		ed := emittedDescriptor{
			Name:                  d.Name,
			Type:                  d.Type,
			Pooling:               d.Params.Pooling,
			Scales:                d.Params.Scales,
			NormalizeAfterPooling: d.Params.NormalizeAfterPooling,
			UseColor:              d.Params.UseColor,
		}
		if d.Params.Pooling == PoolingStacking {
			secondary := d.Params.SecondaryDescriptor
			ed.SecondaryDescriptor = &secondary
		}
		doc.Descriptors = append(doc.Descriptors, ed)
	}

	doc.Evaluation.Matching.Method = cfg.Evaluation.Matching.Method
	doc.Evaluation.Matching.Threshold = cfg.Evaluation.Matching.Threshold
	doc.Evaluation.Matching.CrossCheck = cfg.Evaluation.Matching.CrossCheck
	doc.Evaluation.Validation.Method = cfg.Evaluation.Validation.Method
	doc.Evaluation.Validation.Threshold = cfg.Evaluation.Validation.Threshold

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshal experiment config: %w", err)
	}
	return out, nil
}

// Save writes the Marshal output of cfg to path.
func Save(cfg *Config, path string) error {
	out, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
