// Package config defines the configuration structures for the training
// pipeline and predictor, their defaults, and their viper-backed loader.
// No business logic lives here, only plain data plus validation, mirroring
// turtacn-KeyIP-Intelligence/internal/config's split of config.go
// (structs+Validate), defaults.go (ApplyDefaults) and loader.go (viper
// wiring) into one package.
package config

import "fmt"

// TrainingConfig holds every tunable of the training pipeline (spec.md §6).
type TrainingConfig struct {
	NGramOrder                              int     `mapstructure:"ngram_order"`
	UpperCaseReplacementThreshold           float64 `mapstructure:"upper_case_replacement_threshold"`
	ConvertCaseFromDictionaryModelThreshold float64 `mapstructure:"convert_case_from_dictionary_model_threshold"`
	UnknownWordCountThreshold               int64   `mapstructure:"unknown_word_count_threshold"`
	DirectlyValidWordCountThreshold         int64   `mapstructure:"directly_valid_word_count_threshold"`

	PruningMethod                            string  `mapstructure:"pruning_method"`
	NGramPruningCountThreshold               []int64 `mapstructure:"ngram_pruning_count_threshold"`
	NGramPruningOrderCountThresholds         []int64 `mapstructure:"ngram_pruning_order_count_thresholds"`
	NGramPruningWeightedDifferenceThreshold float64 `mapstructure:"ngram_pruning_weighted_difference_threshold"`

	SmoothingDiscountValue           float64 `mapstructure:"smoothing_discount_value"`
	SmoothingDiscountValueLowerBound float64 `mapstructure:"smoothing_discount_value_lower_bound"`
	SmoothingDiscountValueUpperBound float64 `mapstructure:"smoothing_discount_value_upper_bound"`

	BaseWordDictionaryPath string `mapstructure:"base_word_dictionary_path"`
	StopWordDictionaryPath string `mapstructure:"stop_word_dictionary_path"`

	NumWorkers int `mapstructure:"num_workers"`
}

// PredictorConfig holds every tunable of the prediction path (spec.md §6).
type PredictorConfig struct {
	MinUseCountToValidateNewWord int64   `mapstructure:"min_use_count_to_validate_new_word"`
	CorrectionMaxCost            int     `mapstructure:"correction_max_cost"`
	EnableWordCorrection         bool    `mapstructure:"enable_word_correction"`
	EnableDebugInformation       bool    `mapstructure:"enable_debug_information"`
	CorrectionRulesRoot          string  `mapstructure:"correction_rules_root"`
	DynamicModelMixture          float64 `mapstructure:"dynamic_model_mixture"`
}

// Config is the root configuration structure for predict4all.
type Config struct {
	Training  TrainingConfig  `mapstructure:"training"`
	Predictor PredictorConfig `mapstructure:"predictor"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// LoggingConfig mirrors logging.Config with mapstructure tags so it can be
// unmarshalled directly from the same file/env source as the rest of Config.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate performs semantic validation of a fully-populated Config. It
// returns the first error encountered; callers should treat any error as
// fatal.
func (c *Config) Validate() error {
	if c.Training.NGramOrder < 1 {
		return fmt.Errorf("config: training.ngram_order must be >= 1, got %d", c.Training.NGramOrder)
	}
	if c.Training.UpperCaseReplacementThreshold < 0 || c.Training.UpperCaseReplacementThreshold > 1 {
		return fmt.Errorf("config: training.upper_case_replacement_threshold %v out of range [0,1]", c.Training.UpperCaseReplacementThreshold)
	}
	if c.Training.SmoothingDiscountValueLowerBound > c.Training.SmoothingDiscountValueUpperBound {
		return fmt.Errorf("config: training.smoothing_discount_value_lower_bound > upper_bound")
	}
	switch c.Training.PruningMethod {
	case "NONE", "RAW_COUNT", "ORDER_COUNT", "WEIGHTED_DIFFERENCE_RAW_PROB", "WEIGHTED_DIFFERENCE_FULL_PROB":
	default:
		return fmt.Errorf("config: training.pruning_method %q is invalid", c.Training.PruningMethod)
	}
	if c.Training.NumWorkers < 1 {
		return fmt.Errorf("config: training.num_workers must be >= 1, got %d", c.Training.NumWorkers)
	}

	if c.Predictor.DynamicModelMixture < 0 || c.Predictor.DynamicModelMixture > 1 {
		return fmt.Errorf("config: predictor.dynamic_model_mixture %v out of range [0,1]", c.Predictor.DynamicModelMixture)
	}
	if c.Predictor.CorrectionMaxCost < 0 {
		return fmt.Errorf("config: predictor.correction_max_cost must be >= 0, got %d", c.Predictor.CorrectionMaxCost)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: logging.level %q is invalid; expected debug|info|warn|error", c.Logging.Level)
	}
	return nil
}
