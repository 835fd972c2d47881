package transcript

import "regexp"

// Group identifies the top-level section of an ExtractionResult a rule writes to.
type Group string

const (
	GroupCustomerRequirements Group = "CustomerRequirements"
	GroupCompanyPolicies      Group = "CompanyPoliciesDiscussed"
	GroupCustomerObjections   Group = "CustomerObjections"
)

// SubGroup identifies an optional nested section inside a Group.
type SubGroup string

const (
	SubGroupNone               SubGroup = ""
	SubGroupCustomerExperience SubGroup = "CustomerExperienceIssues"
)

// Field is the key of a single extracted value.
type Field string

const (
	FieldCarType                   Field = "CarType"
	FieldFuelType                  Field = "FuelType"
	FieldColor                     Field = "Color"
	FieldDistanceTravelled         Field = "DistanceTravelled"
	FieldMakeYear                  Field = "MakeYear"
	FieldTransmissionType          Field = "TransmissionType"
	FieldFreeRCTransfer            Field = "FreeRCTransfer"
	FieldFiveDayMoneyBackGuarantee Field = "FiveDayMoneyBackGuarantee"
	FieldFreeRSAForOneYear         Field = "FreeRSAForOneYear"
	FieldReturnPolicy              Field = "ReturnPolicy"
	FieldRefurbishmentQuality      Field = "RefurbishmentQuality"
	FieldCarIssues                 Field = "CarIssues"
	FieldPriceIssues               Field = "PriceIssues"
	FieldLongWaitTime              Field = "LongWaitTime"
	FieldSalespersonBehavior       Field = "SalespersonBehavior"
)

// PatternRule maps a field to the pattern that fills it and to its location
// in the result.
type PatternRule struct {
	Field    Field
	Pattern  *regexp.Regexp
	Group    Group
	SubGroup SubGroup
}

// Path returns the dotted location of the rule's field inside an ExtractionResult.
func (r PatternRule) Path() string {
	if r.SubGroup != SubGroupNone {
		return string(r.Group) + "." + string(r.SubGroup) + "." + string(r.Field)
	}
	return string(r.Group) + "." + string(r.Field)
}

// rules is built once and never written afterwards. Order follows the
// declared field order of ExtractionResult.
var rules = []PatternRule{
	// Customer requirements
	{FieldCarType, regexp.MustCompile(`(suv|sedan|hatchback|coupe|convertible)`), GroupCustomerRequirements, SubGroupNone},
	{FieldFuelType, regexp.MustCompile(`(petrol|diesel|electric|hybrid)`), GroupCustomerRequirements, SubGroupNone},
	{FieldColor, regexp.MustCompile(`(red|blue|white|black|silver|grey)`), GroupCustomerRequirements, SubGroupNone},
	{FieldDistanceTravelled, regexp.MustCompile(`(\d+\s*(km|miles))`), GroupCustomerRequirements, SubGroupNone},
	{FieldMakeYear, regexp.MustCompile(`(year\s*\d{4}|manufactured\s*\d{4})`), GroupCustomerRequirements, SubGroupNone},
	{FieldTransmissionType, regexp.MustCompile(`(manual|automatic|cvt|dual-clutch)`), GroupCustomerRequirements, SubGroupNone},

	// Company policies
	{FieldFreeRCTransfer, regexp.MustCompile(`free rc transfer`), GroupCompanyPolicies, SubGroupNone},
	{FieldFiveDayMoneyBackGuarantee, regexp.MustCompile(`5[-\s]?day money back guarantee`), GroupCompanyPolicies, SubGroupNone},
	{FieldFreeRSAForOneYear, regexp.MustCompile(`free rsa for one year`), GroupCompanyPolicies, SubGroupNone},
	{FieldReturnPolicy, regexp.MustCompile(`return policy`), GroupCompanyPolicies, SubGroupNone},

	// Customer objections
	{FieldRefurbishmentQuality, regexp.MustCompile(`refurbishment quality`), GroupCustomerObjections, SubGroupNone},
	{FieldCarIssues, regexp.MustCompile(`(car issue|engine problem|mechanical issue)`), GroupCustomerObjections, SubGroupNone},
	{FieldPriceIssues, regexp.MustCompile(`(price issue|cost|expensive|overpriced)`), GroupCustomerObjections, SubGroupNone},
	{FieldLongWaitTime, regexp.MustCompile(`long wait|delay`), GroupCustomerObjections, SubGroupCustomerExperience},
	{FieldSalespersonBehavior, regexp.MustCompile(`salesperson behavior|salesperson attitude`), GroupCustomerObjections, SubGroupCustomerExperience},
}

// Rules returns a copy of the rule table. The compiled patterns are shared;
// *regexp.Regexp is safe for concurrent use.
func Rules() []PatternRule {
	out := make([]PatternRule, len(rules))
	copy(out, rules)
	return out
}
