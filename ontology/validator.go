// Package ontology checks legal concepts asserted in free text against a
// closed vocabulary of role fillers, flagging anything the vocabulary does
// not license.
package ontology

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"lexalign-backend/models"
	"lexalign-backend/textutil"

	"go.uber.org/zap"
)

// ErrMissingRole is returned when an ontology lacks one of RequiredRoles.
var ErrMissingRole = errors.New("ontology missing required role")

var (
	assetTriggers     = []string{"asset", "property"}
	liabilityTriggers = []string{"debt", "liability", "liabilities", "loan"}

	listVerbs = `(?:\s+(?:include|includes|included|including|comprise|comprises|comprising|such as|consist of|consists of|are|is|were|was)\b|\s*:)`

	assetListPattern     = regexp.MustCompile(`\b(?:assets?|property|properties)` + listVerbs + `\s*([^.;]+)`)
	liabilityListPattern = regexp.MustCompile(`\b(?:debts?|liabilit(?:y|ies)|loans?)` + listVerbs + `\s*([^.;]+)`)

	sectionPattern     = regexp.MustCompile(`\b[sS]\s*(\d+[A-Z]*(?:\([0-9a-z]+\))*)`)
	sectionWordPattern = regexp.MustCompile(`\b[Ss]ection\s+(\d+[A-Z]*(?:\([0-9a-z]+\))*)`)

	itemSeparator    = regexp.MustCompile(`,|\band\b|\bor\b|&`)
	moneyPattern     = regexp.MustCompile(`\$\s?[\d,.]+(?:\s*(?:million|m|k)\b)?`)
	hasLetter        = regexp.MustCompile(`[a-z]`)
	itemCutoffs      = []string{" worth", " valued", " of about", " with ", " which", " held", " (", " totalling", " but "}
	leadingModifiers = map[string]bool{
		"a": true, "an": true, "the": true, "our": true, "my": true, "his": true, "her": true,
		"their": true, "joint": true, "jointly": true, "owned": true, "some": true, "several": true,
		"one": true, "two": true, "three": true, "also": true,
	}
)

// Validator checks concepts against an Ontology. The ontology is indexed at
// construction and never mutated afterwards.
type Validator struct {
	ontology Ontology
	index    map[string]map[string]struct{}
	logger   *zap.Logger
}

// ValidatorOption is a functional option for Validator
type ValidatorOption func(*Validator)

// ValidatorWithOntology replaces the default ontology
func ValidatorWithOntology(o Ontology) ValidatorOption {
	return func(v *Validator) {
		v.ontology = o
	}
}

// ValidatorWithLogger sets the logger
func ValidatorWithLogger(logger *zap.Logger) ValidatorOption {
	return func(v *Validator) {
		v.logger = logger
	}
}

// NewValidator creates a validator. It fails with ErrMissingRole when the
// ontology does not define every required role.
func NewValidator(opts ...ValidatorOption) (*Validator, error) {
	v := &Validator{ontology: DefaultOntology(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}

	v.index = make(map[string]map[string]struct{}, len(v.ontology))
	for _, role := range RequiredRoles {
		fillers, ok := v.ontology[role]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingRole, role)
		}
		set := make(map[string]struct{}, len(fillers))
		for _, f := range fillers {
			set[strings.ToLower(f)] = struct{}{}
		}
		v.index[role] = set
	}
	return v, nil
}

// MustNewValidator is NewValidator for the built-in ontology, panicking on a
// malformed ontology.
func MustNewValidator(opts ...ValidatorOption) *Validator {
	v, err := NewValidator(opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// ExtractConcepts pulls candidate asset, liability and section concepts out
// of text. Asset and liability lists are only read when the text mentions
// them; section references are always scanned.
func (v *Validator) ExtractConcepts(text string) []models.Concept {
	lower := textutil.Normalize(text)
	seen := make(map[models.Concept]bool)
	concepts := []models.Concept{}

	add := func(role, filler string) {
		c := models.Concept{Role: role, Filler: filler}
		if filler == "" || seen[c] {
			return
		}
		seen[c] = true
		concepts = append(concepts, c)
	}

	if textutil.ContainsAny(lower, assetTriggers) {
		for _, item := range listItems(assetListPattern, lower) {
			add(AssetRole, item)
		}
	}
	if textutil.ContainsAny(lower, liabilityTriggers) {
		for _, item := range listItems(liabilityListPattern, lower) {
			add(LiabilityRole, item)
		}
	}
	for _, p := range []*regexp.Regexp{sectionPattern, sectionWordPattern} {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			add(SectionRole, "s"+strings.Join(strings.Fields(m[1]), ""))
		}
	}
	return concepts
}

func listItems(p *regexp.Regexp, lower string) []string {
	var items []string
	for _, m := range p.FindAllStringSubmatch(lower, -1) {
		list := moneyPattern.ReplaceAllString(m[1], " ")
		for _, raw := range itemSeparator.Split(list, -1) {
			if item := cleanItem(raw); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

func cleanItem(raw string) string {
	item := " " + strings.TrimSpace(raw) + " "
	for _, cut := range itemCutoffs {
		if i := strings.Index(item, cut); i >= 0 {
			item = item[:i]
		}
	}
	if !hasLetter.MatchString(item) {
		return ""
	}

	words := strings.Fields(item)
	for len(words) > 0 && leadingModifiers[words[0]] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

// IsValid reports whether the concept is licensed by the ontology. A section
// is also valid when it starts with a known section token, so "s79(4)(a)"
// is valid because "s79" is. The match is a plain string prefix: "s790"
// passes on "s79" and "s4000" on "s4".
func (v *Validator) IsValid(c models.Concept) bool {
	set, ok := v.index[c.Role]
	if !ok {
		return false
	}
	filler := strings.ToLower(c.Filler)
	if _, ok := set[filler]; ok {
		return true
	}
	if c.Role == SectionRole {
		for token := range set {
			if strings.HasPrefix(filler, token) {
				return true
			}
		}
	}
	return false
}

// Suggest returns the first filler of the concept's role that contains, or
// is contained in, the concept's filler.
func (v *Validator) Suggest(c models.Concept) *string {
	filler := strings.ToLower(c.Filler)
	for _, candidate := range v.ontology[c.Role] {
		lc := strings.ToLower(candidate)
		if strings.Contains(lc, filler) || strings.Contains(filler, lc) {
			s := candidate
			return &s
		}
	}
	return nil
}

// Validate returns an issue for an invalid concept and nil for a valid one.
// Unknown roles produce an issue rather than an error.
func (v *Validator) Validate(c models.Concept) *models.ValidationIssue {
	if v.IsValid(c) {
		return nil
	}
	if _, ok := v.index[c.Role]; !ok {
		return &models.ValidationIssue{
			Role:    c.Role,
			Invalid: c.Filler,
			Reason:  fmt.Sprintf("%s is not a recognised role", c.Role),
		}
	}
	return &models.ValidationIssue{
		Role:      c.Role,
		Invalid:   c.Filler,
		Suggested: v.Suggest(c),
		Reason:    fmt.Sprintf("%q is not a recognised %s filler", c.Filler, c.Role),
	}
}

// VerifyNoHallucination extracts concepts from text and checks each one.
// Confidence is 1 - issues/concepts, and 1 when nothing was extracted.
func (v *Validator) VerifyNoHallucination(text string) models.ValidationResult {
	concepts := v.ExtractConcepts(text)
	issues := []models.ValidationIssue{}
	for _, c := range concepts {
		if issue := v.Validate(c); issue != nil {
			issues = append(issues, *issue)
		}
	}

	confidence := math.Max(0, 1-float64(len(issues))/math.Max(1, float64(len(concepts))))
	if len(issues) > 0 {
		v.logger.Debug("unsupported concepts detected",
			zap.Int("issues", len(issues)),
			zap.Int("concepts", len(concepts)),
		)
	}

	return models.ValidationResult{
		Valid:      len(issues) == 0,
		Issues:     issues,
		Confidence: confidence,
		Concepts:   concepts,
	}
}
