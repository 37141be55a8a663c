package config

import "runtime"

// Default value constants, matching spec.md §6's documented defaults.
const (
	DefaultNGramOrder                              = 4
	DefaultUpperCaseReplacementThreshold            = 0.35
	DefaultConvertCaseFromDictionaryModelThreshold  = 1e-8
	DefaultUnknownWordCountThreshold                = 0
	DefaultDirectlyValidWordCountThreshold          = 20

	DefaultPruningMethod                            = "ORDER_COUNT"
	DefaultNGramPruningCountThreshold               = 2
	DefaultNGramPruningWeightedDifferenceThreshold  = 1e-4

	DefaultSmoothingDiscountValue           = -1.0
	DefaultSmoothingDiscountValueLowerBound = 0.1
	DefaultSmoothingDiscountValueUpperBound = 1.0

	DefaultMinUseCountToValidateNewWord = 3
	DefaultCorrectionMaxCost            = 1
	DefaultEnableWordCorrection         = true
	DefaultDynamicModelMixture          = 0.5

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// DefaultNGramPruningOrderCountThresholds is the documented per-order
// fallback cascade for ORDER_COUNT pruning (order 1 is never pruned).
func DefaultNGramPruningOrderCountThresholds() []int64 { return []int64{-1, 2, 3, 4} }

// ApplyDefaults fills every zero-value field in cfg with its platform
// default. Fields already set by the caller are left unchanged so explicit
// configuration always wins, mirroring turtacn-KeyIP-Intelligence's
// ApplyDefaults contract.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Training.NGramOrder == 0 {
		cfg.Training.NGramOrder = DefaultNGramOrder
	}
	if cfg.Training.UpperCaseReplacementThreshold == 0 {
		cfg.Training.UpperCaseReplacementThreshold = DefaultUpperCaseReplacementThreshold
	}
	if cfg.Training.ConvertCaseFromDictionaryModelThreshold == 0 {
		cfg.Training.ConvertCaseFromDictionaryModelThreshold = DefaultConvertCaseFromDictionaryModelThreshold
	}
	if cfg.Training.DirectlyValidWordCountThreshold == 0 {
		cfg.Training.DirectlyValidWordCountThreshold = DefaultDirectlyValidWordCountThreshold
	}
	if cfg.Training.PruningMethod == "" {
		cfg.Training.PruningMethod = DefaultPruningMethod
	}
	if len(cfg.Training.NGramPruningCountThreshold) == 0 {
		cfg.Training.NGramPruningCountThreshold = []int64{DefaultNGramPruningCountThreshold}
	}
	if len(cfg.Training.NGramPruningOrderCountThresholds) == 0 {
		cfg.Training.NGramPruningOrderCountThresholds = DefaultNGramPruningOrderCountThresholds()
	}
	if cfg.Training.NGramPruningWeightedDifferenceThreshold == 0 {
		cfg.Training.NGramPruningWeightedDifferenceThreshold = DefaultNGramPruningWeightedDifferenceThreshold
	}
	if cfg.Training.SmoothingDiscountValue == 0 {
		cfg.Training.SmoothingDiscountValue = DefaultSmoothingDiscountValue
	}
	if cfg.Training.SmoothingDiscountValueLowerBound == 0 {
		cfg.Training.SmoothingDiscountValueLowerBound = DefaultSmoothingDiscountValueLowerBound
	}
	if cfg.Training.SmoothingDiscountValueUpperBound == 0 {
		cfg.Training.SmoothingDiscountValueUpperBound = DefaultSmoothingDiscountValueUpperBound
	}
	if cfg.Training.NumWorkers == 0 {
		cfg.Training.NumWorkers = runtime.NumCPU()
	}

	if cfg.Predictor.MinUseCountToValidateNewWord == 0 {
		cfg.Predictor.MinUseCountToValidateNewWord = DefaultMinUseCountToValidateNewWord
	}
	if cfg.Predictor.CorrectionMaxCost == 0 {
		cfg.Predictor.CorrectionMaxCost = DefaultCorrectionMaxCost
	}
	if cfg.Predictor.DynamicModelMixture == 0 {
		cfg.Predictor.DynamicModelMixture = DefaultDynamicModelMixture
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}
