package legacy

// DescriptorType mirrors the descriptor kinds known to the modern schema.
// DescriptorNone marks an absent secondary descriptor.
type DescriptorType int

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

var descriptorNames = map[DescriptorType]string{
	DescriptorNone:     "none",
	DescriptorSIFT:     "sift",
	DescriptorRGBSIFT:  "rgbsift",
	DescriptorVSIFT:    "vsift",
	DescriptorHoNC:     "honc",
	DescriptorDSPSIFT:  "dspsift",
	DescriptorVGG:      "vgg",
	DescriptorDNNPatch: "dnn_patch",
}

func (t DescriptorType) String() string { return name(descriptorNames, t) }

// MarshalText implements encoding.TextMarshaler.
func (t DescriptorType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

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

func (p PoolingStrategy) String() string { return name(poolingNames, p) }

// MarshalText implements encoding.TextMarshaler.
func (p PoolingStrategy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// NormalizationStage is the single point at which descriptors are normalized.
type NormalizationStage int

const (
	NormalizeNone NormalizationStage = iota
	NormalizeBeforePooling
	NormalizeAfterPooling
)

var stageNames = map[NormalizationStage]string{
	NormalizeNone:          "none",
	NormalizeBeforePooling: "before_pooling",
	NormalizeAfterPooling:  "after_pooling",
}

func (s NormalizationStage) String() string { return name(stageNames, s) }

// MarshalText implements encoding.TextMarshaler.
func (s NormalizationStage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

type NormType int

const (
	NormL1 NormType = iota
	NormL2
)

var normNames = map[NormType]string{
	NormL1: "l1",
	NormL2: "l2",
}

func (n NormType) String() string { return name(normNames, n) }

// MarshalText implements encoding.TextMarshaler.
func (n NormType) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

// ImageType is the pixel format images are loaded in.
type ImageType int

const (
	ImageBW ImageType = iota
	ImageColor
)

var imageNames = map[ImageType]string{
	ImageBW:    "bw",
	ImageColor: "color",
}

func (i ImageType) String() string { return name(imageNames, i) }

// MarshalText implements encoding.TextMarshaler.
func (i ImageType) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// ColorSpace is the color space a descriptor operates in.
type ColorSpace int

const (
	ColorSpaceBW ColorSpace = iota
	ColorSpaceColor
)

var colorSpaceNames = map[ColorSpace]string{
	ColorSpaceBW:    "bw",
	ColorSpaceColor: "color",
}

func (c ColorSpace) String() string { return name(colorSpaceNames, c) }

// MarshalText implements encoding.TextMarshaler.
func (c ColorSpace) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// VerificationType selects visual verification of matches.
type VerificationType int

const (
	VerificationNone VerificationType = iota
	VerificationHomography
	VerificationMatches
)

var verificationNames = map[VerificationType]string{
	VerificationNone:       "none",
	VerificationHomography: "homography",
	VerificationMatches:    "matches",
}

func (v VerificationType) String() string { return name(verificationNames, v) }

// MarshalText implements encoding.TextMarshaler.
func (v VerificationType) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// MatchingStrategy selects the matcher. Only brute force is implemented by
// the matching factory; the others are reserved.
type MatchingStrategy int

const (
	MatchingBruteForce MatchingStrategy = iota
	MatchingFLANN
	MatchingRatioTest
)

var matchingNames = map[MatchingStrategy]string{
	MatchingBruteForce: "brute_force",
	MatchingFLANN:      "flann",
	MatchingRatioTest:  "ratio_test",
}

func (m MatchingStrategy) String() string { return name(matchingNames, m) }

// Valid reports whether m is one of the known strategies.
func (m MatchingStrategy) Valid() bool {
	_, ok := matchingNames[m]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (m MatchingStrategy) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ScaleWeightingMode is the procedural weighting across pooled scales.
type ScaleWeightingMode int

const (
	WeightingUniform ScaleWeightingMode = iota
	WeightingTriangular
	WeightingGaussian
)

var weightingNames = map[ScaleWeightingMode]string{
	WeightingUniform:    "uniform",
	WeightingTriangular: "triangular",
	WeightingGaussian:   "gaussian",
}

func (w ScaleWeightingMode) String() string { return name(weightingNames, w) }

// MarshalText implements encoding.TextMarshaler.
func (w ScaleWeightingMode) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func name[T comparable](names map[T]string, v T) string {
	if s, ok := names[v]; ok {
		return s
	}
	return "unknown"
}
