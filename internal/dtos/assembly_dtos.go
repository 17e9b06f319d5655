package dtos

/*
CompleteAgendaItemRequest closes the in-progress agenda item. Decision
is the operator's free text; leaving it empty aborts the action and the
response suggests a default phrase for the item's type. DecisionType is
optional and defaults to the item's type tag.
*/
type CompleteAgendaItemRequest struct {
	DecisionType string `json:"decision_type" validate:"omitempty,max=64"`
	Decision     string `json:"decision" validate:"max=2000"`
}

// EndAssemblyRequest needs the explicit confirmation flag; the backend
// mutation is only issued when it is set.
type EndAssemblyRequest struct {
	Confirm bool `json:"confirm"`
}

type SuggestedDecisionResponse struct {
	SuggestedDecision string `json:"suggested_decision"`
}

type AssemblyActionResponse struct {
	Status string `json:"status"`
}
