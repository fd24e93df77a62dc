package experiment

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// document mirrors the YAML layout. Every leaf is a pointer so that an
// omitted key leaves the corresponding default untouched. Keys that are not
// listed here, such as the retired "migration" section, are ignored.
type document struct {
	Experiment  *experimentDoc    `yaml:"experiment"`
	Dataset     *datasetDoc       `yaml:"dataset"`
	Keypoints   *keypointsDoc     `yaml:"keypoints"`
	Descriptors *[]*descriptorDoc `yaml:"descriptors"`
	Evaluation  *evaluationDoc    `yaml:"evaluation"`
	Output      *outputDoc        `yaml:"output"`
	Database    *databaseDoc      `yaml:"database"`
}

type experimentDoc struct {
	Name        *string `yaml:"name"`
	Description *string `yaml:"description"`
	Version     *string `yaml:"version"`
	Author      *string `yaml:"author"`
}

type datasetDoc struct {
	Type   *string   `yaml:"type"`
	Path   *string   `yaml:"path"`
	Scenes *[]string `yaml:"scenes"`
}

type keypointsDoc struct {
	Generator           *string  `yaml:"generator"`
	MaxFeatures         *int     `yaml:"max_features"`
	ContrastThreshold   *float64 `yaml:"contrast_threshold"`
	EdgeThreshold       *float64 `yaml:"edge_threshold"`
	Sigma               *float64 `yaml:"sigma"`
	NumOctaves          *int     `yaml:"num_octaves"`
	UseLockedKeypoints  *bool    `yaml:"use_locked_keypoints"`
	Source              *string  `yaml:"source"`
	KeypointSetName     *string  `yaml:"keypoint_set_name"`
	LockedKeypointsPath *string  `yaml:"locked_keypoints_path"`
}

type descriptorDoc struct {
	Name                   *string    `yaml:"name"`
	Type                   *string    `yaml:"type"`
	Pooling                *string    `yaml:"pooling"`
	Scales                 *[]float64 `yaml:"scales"`
	ScaleWeights           *[]float64 `yaml:"scale_weights"`
	ScaleWeighting         *string    `yaml:"scale_weighting"`
	ScaleWeightSigma       *float64   `yaml:"scale_weight_sigma"`
	NormalizeBeforePooling *bool      `yaml:"normalize_before_pooling"`
	NormalizeAfterPooling  *bool      `yaml:"normalize_after_pooling"`
	UseColor               *bool      `yaml:"use_color"`
	NormType               *string    `yaml:"norm_type"`
	SecondaryDescriptor    *string    `yaml:"secondary_descriptor"`
	StackingWeight         *float64   `yaml:"stacking_weight"`
	DNN                    *dnnDoc    `yaml:"dnn"`
}

type dnnDoc struct {
	Model               *string  `yaml:"model"`
	InputSize           *int     `yaml:"input_size"`
	SupportMultiplier   *float64 `yaml:"support_multiplier"`
	RotateUpright       *bool    `yaml:"rotate_upright"`
	Mean                *float64 `yaml:"mean"`
	Std                 *float64 `yaml:"std"`
	PerPatchStandardize *bool    `yaml:"per_patch_standardize"`
}

type evaluationDoc struct {
	Matching *struct {
		Method     *string  `yaml:"method"`
		Norm       *string  `yaml:"norm"`
		CrossCheck *bool    `yaml:"cross_check"`
		Threshold  *float64 `yaml:"threshold"`
	} `yaml:"matching"`
	Validation *struct {
		Method     *string  `yaml:"method"`
		Threshold  *float64 `yaml:"threshold"`
		MinMatches *int     `yaml:"min_matches"`
	} `yaml:"validation"`
}

type outputDoc struct {
	ResultsPath        *string `yaml:"results_path"`
	SaveKeypoints      *bool   `yaml:"save_keypoints"`
	SaveDescriptors    *bool   `yaml:"save_descriptors"`
	SaveMatches        *bool   `yaml:"save_matches"`
	SaveVisualizations *bool   `yaml:"save_visualizations"`
}

type databaseDoc struct {
	Enabled            *bool   `yaml:"enabled"`
	Connection         *string `yaml:"connection"`
	SaveKeypoints      *bool   `yaml:"save_keypoints"`
	SaveDescriptors    *bool   `yaml:"save_descriptors"`
	SaveMatches        *bool   `yaml:"save_matches"`
	SaveVisualizations *bool   `yaml:"save_visualizations"`
}

// LoadFile reads and parses the experiment document at path. A missing or
// unreadable file yields a *LoadError; everything else behaves as Parse.
func LoadFile(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return Parse(ctx, data, path)
}

// Parse decodes an experiment document, applies defaults for every omitted
// field and validates the result. source identifies the document in errors.
// The returned config has passed Validate.
func Parse(ctx context.Context, data []byte, source string) (*Config, error) {
	if source == "" {
		source = "<string>"
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SyntaxError{Source: source, Err: err}
	}

	cfg, err := doc.build(source)
	if err != nil {
		return nil, err
	}

	if err := Validate(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (doc *document) build(source string) (*Config, error) {
	cfg := Default()

	if e := doc.Experiment; e != nil {
		set(&cfg.Experiment.Name, e.Name)
		set(&cfg.Experiment.Description, e.Description)
		set(&cfg.Experiment.Version, e.Version)
		set(&cfg.Experiment.Author, e.Author)
	}

	if d := doc.Dataset; d != nil {
		set(&cfg.Dataset.Type, d.Type)
		set(&cfg.Dataset.Path, d.Path)
		set(&cfg.Dataset.Scenes, d.Scenes)
	}

	if k := doc.Keypoints; k != nil {
		if err := k.apply(&cfg.Keypoints); err != nil {
			return nil, err
		}
	}

	if doc.Descriptors != nil {
		cfg.Descriptors = make([]DescriptorConfig, 0, len(*doc.Descriptors))
		for i, dd := range *doc.Descriptors {
			field := fmt.Sprintf("descriptors[%d]", i)
			if dd == nil {
				return nil, &SyntaxError{Source: source, Err: fmt.Errorf("%s: entry is null", field)}
			}
			d, err := dd.build(field)
			if err != nil {
				return nil, err
			}
			cfg.Descriptors = append(cfg.Descriptors, d)
		}
	}

	if e := doc.Evaluation; e != nil {
		if err := e.apply(&cfg.Evaluation); err != nil {
			return nil, err
		}
	}

	if o := doc.Output; o != nil {
		set(&cfg.Output.ResultsPath, o.ResultsPath)
		set(&cfg.Output.SaveKeypoints, o.SaveKeypoints)
		set(&cfg.Output.SaveDescriptors, o.SaveDescriptors)
		set(&cfg.Output.SaveMatches, o.SaveMatches)
		set(&cfg.Output.SaveVisualizations, o.SaveVisualizations)
	}

	if db := doc.Database; db != nil {
		set(&cfg.Database.Enabled, db.Enabled)
		set(&cfg.Database.Connection, db.Connection)
		set(&cfg.Database.SaveKeypoints, db.SaveKeypoints)
		set(&cfg.Database.SaveDescriptors, db.SaveDescriptors)
		set(&cfg.Database.SaveMatches, db.SaveMatches)
		set(&cfg.Database.SaveVisualizations, db.SaveVisualizations)
	}

	return cfg, nil
}

func (k *keypointsDoc) apply(dst *Keypoints) error {
	if err := setEnum(&dst.Generator, k.Generator, "keypoints.generator", ParseKeypointGenerator); err != nil {
		return err
	}
	p := &dst.Params
	set(&p.MaxFeatures, k.MaxFeatures)
	set(&p.ContrastThreshold, k.ContrastThreshold)
	set(&p.EdgeThreshold, k.EdgeThreshold)
	set(&p.Sigma, k.Sigma)
	set(&p.NumOctaves, k.NumOctaves)
	set(&p.UseLockedKeypoints, k.UseLockedKeypoints)
	set(&p.KeypointSetName, k.KeypointSetName)
	set(&p.LockedKeypointsPath, k.LockedKeypointsPath)
	return setEnum(&p.Source, k.Source, "keypoints.source", ParseKeypointSource)
}

func (dd *descriptorDoc) build(field string) (DescriptorConfig, error) {
	d := DescriptorConfig{
		Type:   DescriptorNone,
		Params: DefaultDescriptorParams(),
	}
	set(&d.Name, dd.Name)
	if err := setEnum(&d.Type, dd.Type, field+".type", ParseDescriptorType); err != nil {
		return d, err
	}

	p := &d.Params
	if err := setEnum(&p.Pooling, dd.Pooling, field+".pooling", ParsePoolingStrategy); err != nil {
		return d, err
	}
	set(&p.Scales, dd.Scales)
	set(&p.ScaleWeights, dd.ScaleWeights)
	if err := setEnum(&p.ScaleWeighting, dd.ScaleWeighting, field+".scale_weighting", ParseScaleWeighting); err != nil {
		return d, err
	}
	set(&p.ScaleWeightSigma, dd.ScaleWeightSigma)
	set(&p.NormalizeBeforePooling, dd.NormalizeBeforePooling)
	set(&p.NormalizeAfterPooling, dd.NormalizeAfterPooling)
	set(&p.UseColor, dd.UseColor)
	if err := setEnum(&p.NormType, dd.NormType, field+".norm_type", ParseNormType); err != nil {
		return d, err
	}
	if err := setEnum(&p.SecondaryDescriptor, dd.SecondaryDescriptor, field+".secondary_descriptor", ParseDescriptorType); err != nil {
		return d, err
	}
	set(&p.StackingWeight, dd.StackingWeight)

	if n := dd.DNN; n != nil {
		dnn := DefaultDNNParams()
		set(&dnn.Model, n.Model)
		set(&dnn.InputSize, n.InputSize)
		set(&dnn.SupportMultiplier, n.SupportMultiplier)
		set(&dnn.RotateUpright, n.RotateUpright)
		set(&dnn.Mean, n.Mean)
		set(&dnn.Std, n.Std)
		set(&dnn.PerPatchStandardize, n.PerPatchStandardize)
		d.DNN = &dnn
	}
	return d, nil
}

func (e *evaluationDoc) apply(dst *Evaluation) error {
	if m := e.Matching; m != nil {
		if err := setEnum(&dst.Matching.Method, m.Method, "evaluation.matching.method", ParseMatchingMethod); err != nil {
			return err
		}
		if err := setEnum(&dst.Matching.Norm, m.Norm, "evaluation.matching.norm", ParseNormType); err != nil {
			return err
		}
		set(&dst.Matching.CrossCheck, m.CrossCheck)
		set(&dst.Matching.Threshold, m.Threshold)
	}
	if v := e.Validation; v != nil {
		if err := setEnum(&dst.Validation.Method, v.Method, "evaluation.validation.method", ParseValidationMethod); err != nil {
			return err
		}
		set(&dst.Validation.Threshold, v.Threshold)
		set(&dst.Validation.MinMatches, v.MinMatches)
	}
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setEnum[T any](dst *T, src *string, field string, parse func(string) (T, error)) error {
	if src == nil {
		return nil
	}
	v, err := parse(*src)
	if err != nil {
		return atField(err, field)
	}
	*dst = v
	return nil
}
