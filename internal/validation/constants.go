package validation

const (
	// String lengths
	MaxNameLength          = 255
	MaxDescriptionLength   = 500
	MaxParameterNameLength = 100
	MaxConditionLength     = 100
)
