package parser

const (
	// ServiceModelFile holds operations and shapes of one API version
	ServiceModelFile = "service-2.json"
	// PaginatorsFile holds pagination configs, optional
	PaginatorsFile = "paginators-1.json"
	// WaitersFile holds waiter configs, optional
	WaitersFile = "waiters-2.json"

	// TypeDefSuffix names TypedDicts built from structures
	TypeDefSuffix = "TypeDef"
	// OutputTypeDefSuffix names output TypedDicts of shapes also used as input
	OutputTypeDefSuffix = "OutputTypeDef"
	// LiteralSuffix names literals built from enums
	LiteralSuffix = "Type"

	// ResponseMetadataKey is added to every operation output
	ResponseMetadataKey = "ResponseMetadata"
)
