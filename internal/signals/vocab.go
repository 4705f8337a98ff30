// Package signals extracts growth signals from raw job-posting text using
// fixed keyword vocabularies and regex patterns. Extraction is pure and
// deterministic: the same posting always yields the same SignalRecord.
package signals

import (
	"regexp"

	"github.com/scoutline/leadscore/internal/domain"
)

// VocabVersion identifies the vocabulary tables below. Bump it whenever a
// table changes so persisted scores can be traced to the vocabulary that
// produced them.
const VocabVersion = "2025.08"

// categoryKeywords maps each job-function category to the phrases that
// place a posting in it. A posting may match zero, one, or several
// categories; cross-functional detection happens after the per-company
// union, never per posting.
var categoryKeywords = map[domain.CategoryTag][]string{
	domain.CategorySales: {
		"sales", "sales rep", "sales representative", "account executive",
		"business development", "bdr", "sdr", "outside sales", "inside sales",
	},
	domain.CategoryMarketing: {
		"marketing", "social media", "seo", "content creator",
		"brand ambassador", "digital marketing",
	},
	domain.CategoryOperations: {
		"operations", "ops manager", "dispatcher", "logistics",
		"supply chain", "project coordinator", "project manager",
	},
	domain.CategoryAdmin: {
		"admin", "administrative", "administrative assistant",
		"office assistant", "office manager", "receptionist", "bookkeeper",
		"data entry",
	},
	domain.CategoryDrivers: {
		"driver", "drivers", "cdl", "delivery", "courier", "chauffeur",
	},
	domain.CategoryTechnicians: {
		"technician", "technicians", "installer", "hvac", "electrician",
		"plumber", "mechanic", "field service",
	},
	domain.CategoryCustomerService: {
		"customer service", "call center", "csr", "front desk", "help desk",
		"support specialist",
	},
	domain.CategoryFulfillment: {
		"warehouse", "fulfillment", "picker", "packer", "shipping",
		"inventory",
	},
	domain.CategoryEngineering: {
		"engineer", "engineering", "developer", "software", "programmer",
		"devops", "data scientist",
	},
}

// expansionPhrases is the expansion-language vocabulary. Any hit is treated
// as strong growth evidence (and triggers the expansion multiplier).
var expansionPhrases = []string{
	"we're expanding", "we are expanding", "expanding", "expansion",
	"due to growth", "due to increased demand", "increased demand",
	"due to new contracts", "new contracts", "rapid growth", "rapidly growing",
	"growing team", "fast-growing", "fast growing", "new location",
	"new office", "second location", "opening a new", "scaling", "scaling up",
	"growth phase", "taking on more",
}

// revenueRoleKeywords maps each revenue-correlated role to its matchable
// phrases. A posting contributes at most one hit per tag regardless of how
// many keywords for that tag match.
var revenueRoleKeywords = map[domain.RevenueRoleTag][]string{
	domain.RevenueRoleSales: {
		"sales", "sales rep", "sales representative", "account executive",
		"closer",
	},
	domain.RevenueRoleCustomerSuccess: {
		"customer success", "account manager", "client success",
	},
	domain.RevenueRoleAppointmentSetter: {
		"appointment setter", "appointment setting", "telemarketer",
		"cold caller",
	},
	domain.RevenueRoleTechnician: {
		"technician", "installer", "service tech",
	},
	domain.RevenueRoleDriver: {
		"driver", "cdl", "delivery driver",
	},
	domain.RevenueRoleDispatcher: {
		"dispatcher", "dispatch",
	},
	domain.RevenueRoleProjectCoordinator: {
		"project coordinator", "project manager",
	},
	domain.RevenueRoleFulfillment: {
		"warehouse", "fulfillment", "picker", "packer",
	},
}

// stressPhrases signal a company overwhelmed by demand. Each distinct
// matched phrase counts once toward the capacity-stress sub-score.
var stressPhrases = []string{
	"start immediately", "immediate start", "asap", "urgent", "urgently",
	"overtime available", "mandatory overtime", "can't keep up",
	"overwhelmed", "swamped", "short staffed", "short-staffed",
	"high volume", "busy season", "need help", "right away",
}

// maturityKeywords maps each operational-tooling category to the tool and
// process mentions that mark it.
var maturityKeywords = map[domain.MaturityCategory][]string{
	domain.MaturityCRM: {
		"crm", "salesforce", "hubspot", "pipedrive", "zoho",
	},
	domain.MaturityScheduling: {
		"calendly", "scheduling software", "servicetitan", "jobber",
		"housecall pro",
	},
	domain.MaturityAccounting: {
		"quickbooks", "xero", "freshbooks", "accounting software",
	},
	domain.MaturityAutomation: {
		"automation", "zapier", "workflow automation", "microservices",
		"api integration",
	},
	domain.MaturityData: {
		"analytics", "dashboards", "data driven", "data-driven", "tableau",
		"power bi",
	},
}

// structuredRecruitingPhrases signal a formal hiring process, scored as
// part of operational maturity.
var structuredRecruitingPhrases = []string{
	"apply online", "careers page", "hiring process", "interview process",
	"background check", "pre-employment", "equal opportunity employer",
	"submit your resume", "submit a resume", "benefits package",
	"paid training",
}

// volumePatterns are the numeric-hiring regex families. They run against
// the raw (un-normalized) text because punctuation like "+" is significant.
// When several fire, the largest captured integer wins.
var volumePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bhiring\s+(\d+)\s*\+`),
	regexp.MustCompile(`(?i)\bneed\s+(\d+)\b`),
	regexp.MustCompile(`(?i)\b(\d+)\s+positions?\b`),
}

// Contact extraction patterns. Phones normalize to bare digits, emails to
// lowercase.
var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)
)
