package constants

/*
Defines a set of base level
constants and enums to be used
throughout the SNP-DNA analysis
service.
*/
type AnalysisState string
type AnalysisType string
type RiskLevel string
