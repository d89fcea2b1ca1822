package questionnaire

// DefaultVersion identifies the built-in catalog.
const DefaultVersion = "2024.1"

var defaultQuestions = []Question{
	{
		ID:       "cloud-provider",
		Category: "Infrastructure",
		Prompt:   "Which cloud provider(s) are you currently using?",
		Type:     TypeMultipleChoice,
		Options:  []string{"AWS", "Azure", "Google Cloud", "Multi-cloud", "Other"},
		Weight:   1,
	},
	{
		ID:       "security-monitoring",
		Category: "Security",
		Prompt:   "Do you have continuous security monitoring in place?",
		Type:     TypeYesNo,
		Weight:   3,
	},
	{
		ID:       "backup-strategy",
		Category: "Data Management",
		Prompt:   "How would you rate your current backup and disaster recovery strategy?",
		Type:     TypeScale,
		Options:  []string{"Poor", "Fair", "Good", "Excellent"},
		Weight:   2,
	},
	{
		ID:       "cost-monitoring",
		Category: "Cost Management",
		Prompt:   "Do you actively monitor and optimize cloud costs?",
		Type:     TypeYesNo,
		Weight:   2,
	},
	{
		ID:       "compliance-requirements",
		Category: "Compliance",
		Prompt:   "Which compliance frameworks do you need to adhere to?",
		Type:     TypeMultipleChoice,
		Options:  []string{"GDPR", "HIPAA", "SOC 2", "ISO 27001", "PCI DSS", "None"},
		Weight:   2,
	},
	{
		ID:       "automation-level",
		Category: "Operations",
		Prompt:   "How would you rate your infrastructure automation level?",
		Type:     TypeScale,
		Options:  []string{"Manual", "Partially Automated", "Mostly Automated", "Fully Automated"},
		Weight:   2,
	},
}

// DefaultCatalog returns the built-in six question catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultVersion, defaultQuestions)
	if err != nil {
		panic("questionnaire: built-in catalog invalid: " + err.Error())
	}
	return c
}
