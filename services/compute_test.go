package services

import (
	"testing"

	"snpdna/api/models/analysis"

	"github.com/stretchr/testify/assert"
)

func TestSimulatedVariantCalling(t *testing.T) {
	compute := SimulatedVariantCalling(0)

	sequenceInput := analysis.Input{
		Sequence: &analysis.SequenceInput{
			Sequence:     "ACGTACGTACGT",
			SequenceType: "DNA",
			Gene:         "BRCA1",
		},
	}

	t.Run("deterministic for the same input", func(t *testing.T) {
		first, firstErr := compute(sequenceInput, func(int) {})
		second, secondErr := compute(sequenceInput, func(int) {})

		assert.NoError(t, firstErr)
		assert.NoError(t, secondErr)
		assert.Equal(t, *first, *second)
	})

	t.Run("summary counts sum to totalVariants", func(t *testing.T) {
		result, _ := compute(sequenceInput, func(int) {})

		sum := result.Summary.PathogenicVariants +
			result.Summary.LikelyPathogenicVariants +
			result.Summary.UncertainVariants +
			result.Summary.BenignVariants
		assert.Equal(t, result.Summary.TotalVariants, sum)
	})

	t.Run("scores stay in range", func(t *testing.T) {
		result, _ := compute(sequenceInput, func(int) {})

		assert.GreaterOrEqual(t, result.Summary.RiskScore, 0.0)
		assert.LessOrEqual(t, result.Summary.RiskScore, 10.0)
		assert.GreaterOrEqual(t, result.Metadata.QualityScore, 0.0)
		assert.LessOrEqual(t, result.Metadata.QualityScore, 100.0)
		assert.GreaterOrEqual(t, result.Metadata.Coverage, 0.0)
		assert.LessOrEqual(t, result.Metadata.Coverage, 100.0)
	})

	t.Run("input type flows into result metadata", func(t *testing.T) {
		result, _ := compute(sequenceInput, func(int) {})
		assert.Equal(t, "DNA", result.Metadata.InputType)

		fileInput := analysis.Input{
			File: &analysis.FileInput{
				Content:      []byte(">chr1\nACGT"),
				DeclaredType: "FASTA",
				FileName:     "sample.fasta",
				FileSize:     11,
			},
		}
		fileResult, _ := compute(fileInput, func(int) {})
		assert.Equal(t, "FASTA", fileResult.Metadata.InputType)
		assert.Equal(t, "sample.fasta", fileResult.Metadata.FileName)
	})

	t.Run("reports forward progress", func(t *testing.T) {
		var reported []int
		compute(sequenceInput, func(percent int) {
			reported = append(reported, percent)
		})

		assert.Equal(t, []int{25, 50, 75}, reported)
	})
}
