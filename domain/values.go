package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	ProblemMinLength = 64
	ProblemMaxLength = 2048

	personaMaxLength  = 200
	strategyMaxLength = 4000
)

// Problem is a normalized problem statement.
type Problem struct {
	value string
}

// NewProblem trims the input and enforces the accepted length range.
func NewProblem(raw string) (Problem, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Problem{}, Invalidf("problem", "must not be empty")
	}
	n := utf8.RuneCountInString(value)
	if n < ProblemMinLength {
		return Problem{}, Invalidf("problem", "must be at least %d characters, got %d", ProblemMinLength, n)
	}
	if n > ProblemMaxLength {
		return Problem{}, Invalidf("problem", "must be at most %d characters, got %d", ProblemMaxLength, n)
	}
	return Problem{value: value}, nil
}

// redactedProblem skips the length check; scrubbing may shorten a valid statement.
func redactedProblem(value string) Problem {
	return Problem{value: strings.TrimSpace(value)}
}

func (p Problem) String() string { return p.value }
func (p Problem) IsZero() bool   { return p.value == "" }

// Persona names a target-audience segment.
type Persona struct {
	value string
}

func NewPersona(raw string) (Persona, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Persona{}, Invalidf("segment", "must not be empty")
	}
	if utf8.RuneCountInString(value) > personaMaxLength {
		return Persona{}, Invalidf("segment", "must be at most %d characters", personaMaxLength)
	}
	return Persona{value: value}, nil
}

func (p Persona) String() string { return p.value }

// Strategy is a targeting strategy produced by audience evaluation.
type Strategy struct {
	value string
}

func NewStrategy(raw string) (Strategy, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Strategy{}, Invalidf("targeting_strategy", "must not be empty")
	}
	if utf8.RuneCountInString(value) > strategyMaxLength {
		return Strategy{}, Invalidf("targeting_strategy", "must be at most %d characters", strategyMaxLength)
	}
	return Strategy{value: value}, nil
}

func (s Strategy) String() string { return s.value }
func (s Strategy) IsZero() bool   { return s.value == "" }

// Region is the market an idea targets.
type Region string

const (
	RegionGlobal       Region = "global"
	RegionNorthAmerica Region = "north_america"
	RegionLatinAmerica Region = "latin_america"
	RegionEurope       Region = "europe"
	RegionMiddleEast   Region = "middle_east"
	RegionAfrica       Region = "africa"
	RegionAsiaPacific  Region = "asia_pacific"
)

var regions = []Region{RegionGlobal, RegionNorthAmerica, RegionLatinAmerica, RegionEurope, RegionMiddleEast, RegionAfrica, RegionAsiaPacific}

func ParseRegion(raw string) (Region, error) {
	return parseEnum("region", raw, regions)
}

// Stage is how far the product behind an idea has progressed.
type Stage string

const (
	StageIdea       Stage = "idea"
	StageValidation Stage = "validation"
	StageMVP        Stage = "mvp"
	StageGrowth     Stage = "growth"
	StageScale      Stage = "scale"
)

var stages = []Stage{StageIdea, StageValidation, StageMVP, StageGrowth, StageScale}

func ParseStage(raw string) (Stage, error) {
	return parseEnum("stage", raw, stages)
}

// ProductType classifies the product behind an idea.
type ProductType string

const (
	ProductB2B         ProductType = "b2b"
	ProductB2C         ProductType = "b2c"
	ProductB2B2C       ProductType = "b2b2c"
	ProductMarketplace ProductType = "marketplace"
	ProductSaaS        ProductType = "saas"
	ProductMobileApp   ProductType = "mobile_app"
	ProductPhysical    ProductType = "physical"
	ProductService     ProductType = "service"
)

var productTypes = []ProductType{ProductB2B, ProductB2C, ProductB2B2C, ProductMarketplace, ProductSaaS, ProductMobileApp, ProductPhysical, ProductService}

func ParseProductType(raw string) (ProductType, error) {
	return parseEnum("product_type", raw, productTypes)
}

// EvaluationStatus is the verdict of a concept evaluation.
type EvaluationStatus string

const (
	EvaluationWellDefined     EvaluationStatus = "well-defined"
	EvaluationRequiresChanges EvaluationStatus = "requires_changes"
	EvaluationNotWellDefined  EvaluationStatus = "not-well-defined"
)

var evaluationStatuses = []EvaluationStatus{EvaluationWellDefined, EvaluationRequiresChanges, EvaluationNotWellDefined}

func ParseEvaluationStatus(raw string) (EvaluationStatus, error) {
	return parseEnum("evaluation_status", raw, evaluationStatuses)
}

func parseEnum[T ~string](field, raw string, allowed []T) (T, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	for _, candidate := range allowed {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	var zero T
	return zero, Invalidf(field, "unsupported value %q", raw)
}
