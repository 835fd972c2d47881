package transcript

// ExtractionResult holds every field one extraction run can produce. A nil
// field means the transcript never mentioned it.
type ExtractionResult struct {
	CustomerRequirements     CustomerRequirements     `json:"CustomerRequirements" yaml:"CustomerRequirements"`
	CompanyPoliciesDiscussed CompanyPoliciesDiscussed `json:"CompanyPoliciesDiscussed" yaml:"CompanyPoliciesDiscussed"`
	CustomerObjections       CustomerObjections       `json:"CustomerObjections" yaml:"CustomerObjections"`
}

type CustomerRequirements struct {
	CarType           *string `json:"CarType" yaml:"CarType"`
	FuelType          *string `json:"FuelType" yaml:"FuelType"`
	Color             *string `json:"Color" yaml:"Color"`
	DistanceTravelled *string `json:"DistanceTravelled" yaml:"DistanceTravelled"`
	MakeYear          *string `json:"MakeYear" yaml:"MakeYear"`
	TransmissionType  *string `json:"TransmissionType" yaml:"TransmissionType"`
}

type CompanyPoliciesDiscussed struct {
	FreeRCTransfer            *string `json:"FreeRCTransfer" yaml:"FreeRCTransfer"`
	FiveDayMoneyBackGuarantee *string `json:"5DayMoneyBackGuarantee" yaml:"5DayMoneyBackGuarantee"`
	FreeRSAForOneYear         *string `json:"FreeRSAForOneYear" yaml:"FreeRSAForOneYear"`
	ReturnPolicy              *string `json:"ReturnPolicy" yaml:"ReturnPolicy"`
}

type CustomerObjections struct {
	RefurbishmentQuality     *string                  `json:"RefurbishmentQuality" yaml:"RefurbishmentQuality"`
	CarIssues                *string                  `json:"CarIssues" yaml:"CarIssues"`
	PriceIssues              *string                  `json:"PriceIssues" yaml:"PriceIssues"`
	CustomerExperienceIssues CustomerExperienceIssues `json:"CustomerExperienceIssues" yaml:"CustomerExperienceIssues"`
}

type CustomerExperienceIssues struct {
	LongWaitTime        *string `json:"LongWaitTime" yaml:"LongWaitTime"`
	SalespersonBehavior *string `json:"SalespersonBehavior" yaml:"SalespersonBehavior"`
}

// slot returns the storage location for field, or nil for an unknown key.
func (r *ExtractionResult) slot(field Field) **string {
	req := &r.CustomerRequirements
	pol := &r.CompanyPoliciesDiscussed
	obj := &r.CustomerObjections
	exp := &r.CustomerObjections.CustomerExperienceIssues

	switch field {
	case FieldCarType:
		return &req.CarType
	case FieldFuelType:
		return &req.FuelType
	case FieldColor:
		return &req.Color
	case FieldDistanceTravelled:
		return &req.DistanceTravelled
	case FieldMakeYear:
		return &req.MakeYear
	case FieldTransmissionType:
		return &req.TransmissionType
	case FieldFreeRCTransfer:
		return &pol.FreeRCTransfer
	case FieldFiveDayMoneyBackGuarantee:
		return &pol.FiveDayMoneyBackGuarantee
	case FieldFreeRSAForOneYear:
		return &pol.FreeRSAForOneYear
	case FieldReturnPolicy:
		return &pol.ReturnPolicy
	case FieldRefurbishmentQuality:
		return &obj.RefurbishmentQuality
	case FieldCarIssues:
		return &obj.CarIssues
	case FieldPriceIssues:
		return &obj.PriceIssues
	case FieldLongWaitTime:
		return &exp.LongWaitTime
	case FieldSalespersonBehavior:
		return &exp.SalespersonBehavior
	}
	return nil
}

// set stores value once; later calls for the same field are ignored.
func (r *ExtractionResult) set(field Field, value string) bool {
	p := r.slot(field)
	if p == nil || *p != nil {
		return false
	}
	v := value
	*p = &v
	return true
}

// Get returns the value stored for field and whether it was found.
func (r *ExtractionResult) Get(field Field) (string, bool) {
	p := r.slot(field)
	if p == nil || *p == nil {
		return "", false
	}
	return **p, true
}

// Matched returns the number of non-nil fields.
func (r *ExtractionResult) Matched() int {
	n := 0
	for _, rule := range rules {
		if _, ok := r.Get(rule.Field); ok {
			n++
		}
	}
	return n
}
