package errors

var (
	ErrNameRequired = &DomainError{
		Kind:    KindValidation,
		Code:    "NAME_REQUIRED",
		Message: "fee structure name is required",
	}
	ErrInvalidNumeric = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_NUMERIC",
		Message: "value must be numeric",
	}
	ErrNoAnchorRule = &DomainError{
		Kind:    KindValidation,
		Code:    "NO_ANCHOR_RULE",
		Message: "fee structure has no rule to attach volume tiers to",
	}
	ErrTierOverlap = &DomainError{
		Kind:    KindValidation,
		Code:    "TIER_OVERLAP",
		Message: "volume tier overlaps an existing tier",
	}
	ErrStructureInUse = &DomainError{
		Kind:    KindConflict,
		Code:    "STRUCTURE_IN_USE",
		Message: "fee structure is assigned to merchants",
	}
	ErrStaleStructure = &DomainError{
		Kind:    KindConflict,
		Code:    "STALE_STRUCTURE",
		Message: "fee structure was modified concurrently",
	}
)
