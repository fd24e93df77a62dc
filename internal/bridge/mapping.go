package bridge

import (
	"github.com/phrazzld/descbench/internal/experiment"
	"github.com/phrazzld/descbench/internal/legacy"
)

var descriptorKinds = []struct {
	modern experiment.DescriptorType
	flat   legacy.DescriptorType
}{
	{experiment.DescriptorNone, legacy.DescriptorNone},
	{experiment.DescriptorSIFT, legacy.DescriptorSIFT},
	{experiment.DescriptorRGBSIFT, legacy.DescriptorRGBSIFT},
	{experiment.DescriptorVSIFT, legacy.DescriptorVSIFT},
	{experiment.DescriptorHoNC, legacy.DescriptorHoNC},
	{experiment.DescriptorDSPSIFT, legacy.DescriptorDSPSIFT},
	{experiment.DescriptorVGG, legacy.DescriptorVGG},
	{experiment.DescriptorDNNPatch, legacy.DescriptorDNNPatch},
}

func toLegacyDescriptor(t experiment.DescriptorType) legacy.DescriptorType {
	for _, k := range descriptorKinds {
		if k.modern == t {
			return k.flat
		}
	}
	return legacy.DescriptorNone
}

func fromLegacyDescriptor(t legacy.DescriptorType) experiment.DescriptorType {
	for _, k := range descriptorKinds {
		if k.flat == t {
			return k.modern
		}
	}
	return experiment.DescriptorNone
}

// colorSpaceOf is the color space a secondary descriptor is computed in.
func colorSpaceOf(t experiment.DescriptorType) legacy.ColorSpace {
	if t.IsColor() {
		return legacy.ColorSpaceColor
	}
	return legacy.ColorSpaceBW
}

func toLegacyPooling(p experiment.PoolingStrategy) legacy.PoolingStrategy {
	switch p {
	case experiment.PoolingDomainSize:
		return legacy.PoolingDomainSize
	case experiment.PoolingStacking:
		return legacy.PoolingStacking
	default:
		return legacy.PoolingNone
	}
}

func fromLegacyPooling(p legacy.PoolingStrategy) experiment.PoolingStrategy {
	switch p {
	case legacy.PoolingDomainSize:
		return experiment.PoolingDomainSize
	case legacy.PoolingStacking:
		return experiment.PoolingStacking
	default:
		return experiment.PoolingNone
	}
}

func toLegacyNorm(n experiment.NormType) legacy.NormType {
	if n == experiment.NormL1 {
		return legacy.NormL1
	}
	return legacy.NormL2
}

func fromLegacyNorm(n legacy.NormType) experiment.NormType {
	if n == legacy.NormL1 {
		return experiment.NormL1
	}
	return experiment.NormL2
}

func toLegacyWeighting(w experiment.ScaleWeighting) legacy.ScaleWeightingMode {
	switch w {
	case experiment.WeightingTriangular:
		return legacy.WeightingTriangular
	case experiment.WeightingGaussian:
		return legacy.WeightingGaussian
	default:
		return legacy.WeightingUniform
	}
}

func fromLegacyWeighting(w legacy.ScaleWeightingMode) experiment.ScaleWeighting {
	switch w {
	case legacy.WeightingTriangular:
		return experiment.WeightingTriangular
	case legacy.WeightingGaussian:
		return experiment.WeightingGaussian
	default:
		return experiment.WeightingUniform
	}
}

func toLegacyVerification(v experiment.ValidationMethod) legacy.VerificationType {
	switch v {
	case experiment.ValidationHomography:
		return legacy.VerificationHomography
	case experiment.ValidationCrossImage:
		return legacy.VerificationMatches
	default:
		return legacy.VerificationNone
	}
}

func fromLegacyVerification(v legacy.VerificationType) experiment.ValidationMethod {
	switch v {
	case legacy.VerificationMatches:
		return experiment.ValidationCrossImage
	case legacy.VerificationNone:
		return experiment.ValidationNone
	default:
		return experiment.ValidationHomography
	}
}

func toLegacyMatching(m experiment.MatchingMethod) legacy.MatchingStrategy {
	if m == experiment.MatchingFLANN {
		return legacy.MatchingFLANN
	}
	return legacy.MatchingBruteForce
}

// ratio_test has no modern counterpart and falls back to brute force.
func fromLegacyMatching(m legacy.MatchingStrategy) experiment.MatchingMethod {
	if m == legacy.MatchingFLANN {
		return experiment.MatchingFLANN
	}
	return experiment.MatchingBruteForce
}
