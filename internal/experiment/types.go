package experiment

// DescriptorType identifies the descriptor algorithm family under test.
type DescriptorType int

// Descriptor kinds. DescriptorNone is the unresolved sentinel; it is never
// produced from a document literal and always fails validation.
const (
	DescriptorNone DescriptorType = iota
	DescriptorSIFT
	DescriptorRGBSIFT
	DescriptorVSIFT
	DescriptorHoNC
	DescriptorDSPSIFT
	DescriptorVGG
	DescriptorDNNPatch
)

var descriptorTypeNames = map[DescriptorType]string{
	DescriptorNone:     "none",
	DescriptorSIFT:     "sift",
	DescriptorRGBSIFT:  "rgbsift",
	DescriptorVSIFT:    "vsift",
	DescriptorHoNC:     "honc",
	DescriptorDSPSIFT:  "dspsift",
	DescriptorVGG:      "vgg",
	DescriptorDNNPatch: "dnn_patch",
}

var descriptorTypeLiterals = map[string]DescriptorType{
	"sift":         DescriptorSIFT,
	"rgbsift":      DescriptorRGBSIFT,
	"vsift":        DescriptorVSIFT,
	"vanilla_sift": DescriptorVSIFT,
	"honc":         DescriptorHoNC,
	"dspsift":      DescriptorDSPSIFT,
	"dsp_sift":     DescriptorDSPSIFT,
	"vgg":          DescriptorVGG,
	"dnn_patch":    DescriptorDNNPatch,
}

// ParseDescriptorType resolves a document literal to a DescriptorType.
func ParseDescriptorType(s string) (DescriptorType, error) {
	return resolve(descriptorTypeLiterals, "descriptor type", s)
}

func (t DescriptorType) String() string { return name(descriptorTypeNames, t) }

// MarshalText implements encoding.TextMarshaler.
func (t DescriptorType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// IsColor reports whether the descriptor kind consumes color input.
// Unknown kinds are treated as grayscale.
func (t DescriptorType) IsColor() bool {
	switch t {
	case DescriptorRGBSIFT, DescriptorHoNC:
		return true
	default:
		return false
	}
}

// PoolingStrategy describes how descriptor computations are combined.
type PoolingStrategy int

const (
	PoolingNone PoolingStrategy = iota
	PoolingDomainSize
	PoolingStacking
)

var poolingNames = map[PoolingStrategy]string{
	PoolingNone:       "none",
	PoolingDomainSize: "domain_size_pooling",
	PoolingStacking:   "stacking",
}

var poolingLiterals = map[string]PoolingStrategy{
	"none":                PoolingNone,
	"domain_size_pooling": PoolingDomainSize,
	"dsp":                 PoolingDomainSize,
	"stacking":            PoolingStacking,
}

// ParsePoolingStrategy resolves a document literal to a PoolingStrategy.
func ParsePoolingStrategy(s string) (PoolingStrategy, error) {
	return resolve(poolingLiterals, "pooling strategy", s)
}

func (p PoolingStrategy) String() string { return name(poolingNames, p) }

// MarshalText implements encoding.TextMarshaler.
func (p PoolingStrategy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// KeypointGenerator selects the keypoint detector. GeneratorLockedIn means
// keypoints come from an external fixed set.
type KeypointGenerator int

const (
	GeneratorSIFT KeypointGenerator = iota
	GeneratorHarris
	GeneratorORB
	GeneratorLockedIn
)

var generatorNames = map[KeypointGenerator]string{
	GeneratorSIFT:     "sift",
	GeneratorHarris:   "harris",
	GeneratorORB:      "orb",
	GeneratorLockedIn: "locked_in",
}

var generatorLiterals = map[string]KeypointGenerator{
	"sift":      GeneratorSIFT,
	"harris":    GeneratorHarris,
	"orb":       GeneratorORB,
	"locked_in": GeneratorLockedIn,
}

// ParseKeypointGenerator resolves a document literal to a KeypointGenerator.
func ParseKeypointGenerator(s string) (KeypointGenerator, error) {
	return resolve(generatorLiterals, "keypoint generator", s)
}

func (g KeypointGenerator) String() string { return name(generatorNames, g) }

// MarshalText implements encoding.TextMarshaler.
func (g KeypointGenerator) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// KeypointSource tells whether keypoints are detected per image or projected
// from a reference image through a known homography.
type KeypointSource int

const (
	SourceIndependentDetection KeypointSource = iota
	SourceHomographyProjection
)

var sourceNames = map[KeypointSource]string{
	SourceIndependentDetection: "independent_detection",
	SourceHomographyProjection: "homography_projection",
}

var sourceLiterals = map[string]KeypointSource{
	"independent_detection": SourceIndependentDetection,
	"independent":           SourceIndependentDetection,
	"homography_projection": SourceHomographyProjection,
	"homography":            SourceHomographyProjection,
}

// ParseKeypointSource resolves a document literal to a KeypointSource.
func ParseKeypointSource(s string) (KeypointSource, error) {
	return resolve(sourceLiterals, "keypoint source", s)
}

func (s KeypointSource) String() string { return name(sourceNames, s) }

// MarshalText implements encoding.TextMarshaler.
func (s KeypointSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MatchingMethod selects exact or approximate nearest-neighbour matching.
type MatchingMethod int

const (
	MatchingBruteForce MatchingMethod = iota
	MatchingFLANN
)

var matchingNames = map[MatchingMethod]string{
	MatchingBruteForce: "brute_force",
	MatchingFLANN:      "flann",
}

var matchingLiterals = map[string]MatchingMethod{
	"brute_force": MatchingBruteForce,
	"flann":       MatchingFLANN,
}

// ParseMatchingMethod resolves a document literal to a MatchingMethod.
func ParseMatchingMethod(s string) (MatchingMethod, error) {
	return resolve(matchingLiterals, "matching method", s)
}

func (m MatchingMethod) String() string { return name(matchingNames, m) }

// MarshalText implements encoding.TextMarshaler.
func (m MatchingMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ValidationMethod selects how matches are verified.
type ValidationMethod int

const (
	ValidationHomography ValidationMethod = iota
	ValidationCrossImage
	ValidationNone
)

var validationNames = map[ValidationMethod]string{
	ValidationHomography: "homography",
	ValidationCrossImage: "cross_image",
	ValidationNone:       "none",
}

var validationLiterals = map[string]ValidationMethod{
	"homography":  ValidationHomography,
	"cross_image": ValidationCrossImage,
	"none":        ValidationNone,
}

// ParseValidationMethod resolves a document literal to a ValidationMethod.
func ParseValidationMethod(s string) (ValidationMethod, error) {
	return resolve(validationLiterals, "validation method", s)
}

func (v ValidationMethod) String() string { return name(validationNames, v) }

// MarshalText implements encoding.TextMarshaler.
func (v ValidationMethod) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// ScaleWeighting is the procedural weighting applied across pooled scales
// when no explicit weights are given.
type ScaleWeighting int

const (
	WeightingUniform ScaleWeighting = iota
	WeightingTriangular
	WeightingGaussian
)

var weightingNames = map[ScaleWeighting]string{
	WeightingUniform:    "uniform",
	WeightingTriangular: "triangular",
	WeightingGaussian:   "gaussian",
}

var weightingLiterals = map[string]ScaleWeighting{
	"uniform":    WeightingUniform,
	"triangular": WeightingTriangular,
	"gaussian":   WeightingGaussian,
}

// ParseScaleWeighting resolves a document literal to a ScaleWeighting.
func ParseScaleWeighting(s string) (ScaleWeighting, error) {
	return resolve(weightingLiterals, "scale weighting", s)
}

func (w ScaleWeighting) String() string { return name(weightingNames, w) }

// MarshalText implements encoding.TextMarshaler.
func (w ScaleWeighting) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// NormType is the vector norm used for normalization and matching distance.
type NormType int

const (
	NormL2 NormType = iota
	NormL1
)

var normNames = map[NormType]string{
	NormL1: "l1",
	NormL2: "l2",
}

var normLiterals = map[string]NormType{
	"l1": NormL1,
	"l2": NormL2,
}

// ParseNormType resolves a document literal to a NormType.
func ParseNormType(s string) (NormType, error) {
	return resolve(normLiterals, "norm type", s)
}

func (n NormType) String() string { return name(normNames, n) }

// MarshalText implements encoding.TextMarshaler.
func (n NormType) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

func resolve[T any](literals map[string]T, kind, s string) (T, error) {
	if v, ok := literals[s]; ok {
		return v, nil
	}
	var zero T
	return zero, &ResolutionError{Kind: kind, Literal: s}
}

func name[T comparable](names map[T]string, v T) string {
	if s, ok := names[v]; ok {
		return s
	}
	return "unknown"
}
