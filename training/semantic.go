package training

// SemanticStage is the leaf stage 5 of the training DAG (spec.md §4.8: "a
// semantic / latent-semantic dictionary ... not part of the hot prediction
// path"). It is acknowledged here only as a no-op satisfying the stage
// shape so the DAG's fifth leaf has a concrete, wireable type; its actual
// LSA algorithm is out of scope per spec.md §1 and §9 Open Question 3.
type SemanticStage struct{}

// Run does nothing: the semantic dictionary is an independent, optional
// subsystem this module does not implement.
func (SemanticStage) Run(*Result) error { return nil }
