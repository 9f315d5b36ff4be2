package analysisType

import (
	"snpdna/api/models/constants"
	"strings"
)

const (
	Unknown constants.AnalysisType = "UNKNOWN"

	Vcf         constants.AnalysisType = "VCF"
	Fasta       constants.AnalysisType = "FASTA"
	RawSequence constants.AnalysisType = "RAW_SEQUENCE"
)

func CastToAnalysisType(text string) constants.AnalysisType {
	switch strings.ToLower(text) {
	case "vcf":
		return Vcf
	case "fasta":
		return Fasta
	case "raw_sequence":
		return RawSequence
	default:
		return Unknown
	}
}

func IsKnownAnalysisType(text string) bool {
	// attempt to cast to analysisType and
	// return if unknown type
	return CastToAnalysisType(text) != Unknown
}
