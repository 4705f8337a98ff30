package domain

// CategoryTag is one of the fixed job-function categories used to detect
// cross-functional hiring.
type CategoryTag string

// Job-function categories.
const (
	CategorySales           CategoryTag = "sales"
	CategoryMarketing       CategoryTag = "marketing"
	CategoryOperations      CategoryTag = "operations"
	CategoryAdmin           CategoryTag = "admin"
	CategoryDrivers         CategoryTag = "drivers"
	CategoryTechnicians     CategoryTag = "technicians"
	CategoryCustomerService CategoryTag = "customer_service"
	CategoryFulfillment     CategoryTag = "fulfillment"
	CategoryEngineering     CategoryTag = "engineering"
)

// RevenueRoleTag is one of the fixed roles presumed to correlate with
// revenue generation or fulfillment capacity.
type RevenueRoleTag string

// Revenue-correlated role categories.
const (
	RevenueRoleSales              RevenueRoleTag = "sales"
	RevenueRoleCustomerSuccess    RevenueRoleTag = "customer_success"
	RevenueRoleAppointmentSetter  RevenueRoleTag = "appointment_setter"
	RevenueRoleTechnician         RevenueRoleTag = "technician"
	RevenueRoleDriver             RevenueRoleTag = "driver"
	RevenueRoleDispatcher         RevenueRoleTag = "dispatcher"
	RevenueRoleProjectCoordinator RevenueRoleTag = "project_coordinator"
	RevenueRoleFulfillment        RevenueRoleTag = "fulfillment"
)

// MaturityCategory is one of the fixed operational-tooling categories whose
// mention signals process sophistication.
type MaturityCategory string

// Operational-tooling categories.
const (
	MaturityCRM        MaturityCategory = "crm"
	MaturityScheduling MaturityCategory = "scheduling"
	MaturityAccounting MaturityCategory = "accounting"
	MaturityAutomation MaturityCategory = "automation"
	MaturityData       MaturityCategory = "data"
)

// SignalRecord holds the growth signals extracted from a single posting.
// It is produced once by the extractor and never mutated.
//
// Slice fields are deduplicated and sorted so two records with the same
// signals compare equal regardless of match order.
type SignalRecord struct {
	Categories           []CategoryTag             `json:"categories"`
	ExpansionHits        []string                  `json:"expansion_hits"`
	RevenueRoleHits      []RevenueRoleTag          `json:"revenue_role_hits"`
	StressHits           []string                  `json:"stress_hits"`
	MaturityHits         map[MaturityCategory]bool `json:"maturity_hits"`
	StructuredRecruiting bool                      `json:"structured_recruiting"`
	VolumeNumber         *int                      `json:"volume_number,omitempty"`
	Contacts             []string                  `json:"contacts"`
	Location             string                    `json:"location"`
}

// Empty reports whether the record carries no signals at all.
func (r SignalRecord) Empty() bool {
	return len(r.Categories) == 0 &&
		len(r.ExpansionHits) == 0 &&
		len(r.RevenueRoleHits) == 0 &&
		len(r.StressHits) == 0 &&
		len(r.MaturityHits) == 0 &&
		!r.StructuredRecruiting &&
		r.VolumeNumber == nil &&
		len(r.Contacts) == 0
}
